package scenario

import "regexp"

// Service type codes used by the simulated payer.
const (
	ServiceHealthBenefitPlan = "30"
	ServicePharmacy          = "88"
)

// MemberIDPattern is the member id shape the payer issues: W followed by
// nine digits.
var MemberIDPattern = regexp.MustCompile(`^W[0-9]{9}$`)

// MemberIdentity is the subscriber a transaction is about.
type MemberIdentity struct {
	MemberID    string `json:"memberId" yaml:"memberId"`
	FirstName   string `json:"firstName" yaml:"firstName"`
	LastName    string `json:"lastName" yaml:"lastName"`
	DateOfBirth string `json:"dateOfBirth" yaml:"dateOfBirth"` // CCYYMMDD
	Gender      string `json:"gender" yaml:"gender"`           // M, F or U
	ServiceType string `json:"serviceType" yaml:"serviceType"`
}

// WithDefaults returns a copy of m with every empty field taken from def.
func (m MemberIdentity) WithDefaults(def MemberIdentity) MemberIdentity {
	fill := func(v *string, d string) {
		if *v == "" {
			*v = d
		}
	}
	fill(&m.MemberID, def.MemberID)
	fill(&m.FirstName, def.FirstName)
	fill(&m.LastName, def.LastName)
	fill(&m.DateOfBirth, def.DateOfBirth)
	fill(&m.Gender, def.Gender)
	fill(&m.ServiceType, def.ServiceType)
	return m
}

// Provider is the information receiver submitting the inquiry.
type Provider struct {
	Name string `json:"name" yaml:"name"`
	NPI  string `json:"npi" yaml:"npi"`
}

// Payer is the information source answering the inquiry.
type Payer struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// DefaultPayer is the simulated payer.
var DefaultPayer = Payer{ID: "60054", Name: "AETNA"}

var identities = map[Scenario]MemberIdentity{
	Active:         {"W883449464", "JOHN", "DOE", "19850115", "M", ServiceHealthBenefitPlan},
	Inactive:       {"W772233445", "JANE", "SMITH", "19890322", "F", ServiceHealthBenefitPlan},
	NotFound:       {"W999999999", "ALEX", "BROWN", "19911111", "U", ServiceHealthBenefitPlan},
	Pharmacy:       {"W445566778", "JANE", "DOE", "19801010", "F", ServicePharmacy},
	InvalidID:      {"INVALID123", "ROBERT", "SMITH", "19900101", "M", ServiceHealthBenefitPlan},
	FamilyCoverage: {"W556677889", "DAVID", "JOHNSON", "19850505", "M", ServiceHealthBenefitPlan},
}

var providers = map[Scenario]Provider{
	Active:         {"GREEN VALLEY FAMILY CLINIC", "1234567890"},
	Inactive:       {"RIVERBEND INTERNAL MEDICINE", "2233445566"},
	NotFound:       {"SUMMIT FAMILY MEDICINE", "4455667788"},
	Pharmacy:       {"MAIN STREET CLINIC", "1234567890"},
	InvalidID:      {"CITY HEALTH PROVIDERS", "2233445566"},
	FamilyCoverage: {"FAMILY CARE CLINIC", "3344556677"},
}

// DefaultIdentity returns the template member for a scenario.
func DefaultIdentity(s Scenario) MemberIdentity {
	if m, ok := identities[s]; ok {
		return m
	}
	return identities[Active]
}

// DefaultProvider returns the template provider for a scenario.
func DefaultProvider(s Scenario) Provider {
	if p, ok := providers[s]; ok {
		return p
	}
	return providers[Active]
}

// DefaultServiceType returns the service type a scenario inquires about.
func DefaultServiceType(s Scenario) string {
	return DefaultIdentity(s).ServiceType
}

// SampleMemberIDs lists member ids the payer recognizes per outcome. They
// are test data for partners, not a lookup table.
var SampleMemberIDs = map[Scenario][]string{
	Active:    {"W883449464", "W123456789", "W987654321", "W555123456"},
	Inactive:  {"W772233445", "WINACTIVE002", "WEXPIRED123", "WTERMINATED1"},
	InvalidID: {"W999999999", "WINVALID001", "W000000000", "WERROR12345"},
}
