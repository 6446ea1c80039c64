package validator

import (
	"github.com/roach88/eligsim/internal/scenario"
)

// Pattern is a segment prefix that must, or must not, start some segment of
// the serialized 271.
type Pattern struct {
	RuleID  string `json:"ruleId"`
	Pattern string `json:"pattern"`
}

// RuleSet is the business rule table entry for one scenario.
type RuleSet struct {
	Required  []Pattern `json:"required"`
	Forbidden []Pattern `json:"forbidden"`

	// Business states the rules in words for test plans.
	Business []string `json:"business"`

	// Dates lists the semantic date rules checked in addition to patterns.
	Dates []string `json:"dates,omitempty"`
}

// Date rule ids.
const (
	RuleTerminationBeforeService = "TERMINATION_BEFORE_SERVICE"
	RuleEffectiveNotAfterService = "EFFECTIVE_NOT_AFTER_SERVICE"
)

// Rules returns the business rules for a scenario. serviceType is the
// service type the benefit segment must carry; empty means the scenario's
// default.
func Rules(sc scenario.Scenario, serviceType string) RuleSet {
	if serviceType == "" {
		serviceType = scenario.DefaultServiceType(sc)
	}

	switch sc {
	case scenario.Inactive:
		return RuleSet{
			Required: []Pattern{
				{"ELIGIBILITY_INACTIVE", "EB*6*"},
				{"BENEFIT_COVERAGE", "EB*6*IND*" + serviceType},
				{"EFFECTIVE_DATE", "DTP*356*"},
				{"TERMINATION_DATE", "DTP*357*"},
				{"COVERAGE_MESSAGE", "MSG*Coverage terminated"},
			},
			Forbidden: []Pattern{
				{"NO_ACTIVE_BENEFIT", "EB*1*"},
				{"NO_REJECTION", "AAA*"},
			},
			Business: []string{
				"Coverage is reported inactive for the requested service type",
				"Termination date precedes the service date",
			},
			Dates: []string{RuleEffectiveNotAfterService, RuleTerminationBeforeService},
		}
	case scenario.NotFound, scenario.InvalidID:
		message := "MSG*Subscriber/Insured Not Found"
		business := "Subscriber cannot be located and the inquiry is rejected"
		if sc == scenario.InvalidID {
			message = "MSG*Invalid Member ID Format"
			business = "Malformed member id is rejected"
		}
		return RuleSet{
			Required: []Pattern{
				{"REJECTION", "AAA*Y*15*72*N"},
				{"REJECTION_MESSAGE", message},
			},
			Forbidden: []Pattern{
				{"NO_BENEFIT", "EB*"},
				{"NO_EFFECTIVE_DATE", "DTP*356*"},
				{"NO_TERMINATION_DATE", "DTP*357*"},
			},
			Business: []string{business, "No benefit information is returned"},
		}
	case scenario.FamilyCoverage:
		return RuleSet{
			Required: []Pattern{
				{"ELIGIBILITY_ACTIVE", "EB*1*"},
				{"BENEFIT_COVERAGE", "EB*1*FAM*" + serviceType},
				{"EFFECTIVE_DATE", "DTP*356*"},
				{"COVERAGE_MESSAGE", "MSG*Active Family Coverage"},
			},
			Forbidden: []Pattern{
				{"NO_INDIVIDUAL_BENEFIT", "EB*1*IND*"},
				{"NO_REJECTION", "AAA*"},
			},
			Business: []string{
				"Coverage level is family",
				"Effective date is on or before the service date",
			},
			Dates: []string{RuleEffectiveNotAfterService},
		}
	default:
		// Active and Pharmacy differ only in service type.
		return RuleSet{
			Required: []Pattern{
				{"ELIGIBILITY_ACTIVE", "EB*1*"},
				{"BENEFIT_COVERAGE", "EB*1*IND*" + serviceType},
				{"EFFECTIVE_DATE", "DTP*356*"},
				{"COVERAGE_MESSAGE", "MSG*Active Coverage"},
			},
			Forbidden: []Pattern{
				{"NO_REJECTION", "AAA*"},
				{"NO_INACTIVE_BENEFIT", "EB*6*"},
			},
			Business: []string{
				"Coverage is active for service type " + serviceType,
				"Effective date is on or before the service date",
			},
			Dates: []string{RuleEffectiveNotAfterService},
		}
	}
}
