package validator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/roach88/eligsim/internal/scenario"
	"github.com/roach88/eligsim/internal/x12"
)

type options struct {
	serviceType string
	payerID     string
}

// Option adjusts the expectations of a validation run.
type Option func(*options)

// WithServiceType sets the service type the request and benefit segments
// must carry. Default: the scenario's template service type.
func WithServiceType(serviceType string) Option {
	return func(o *options) {
		o.serviceType = serviceType
	}
}

// WithPayerID sets the payer identifier the request must address.
// Default: scenario.DefaultPayer.ID.
func WithPayerID(id string) Option {
	return func(o *options) {
		o.payerID = id
	}
}

func buildOptions(sc scenario.Scenario, opts []Option) options {
	o := options{payerID: scenario.DefaultPayer.ID}
	for _, opt := range opts {
		opt(&o)
	}
	if o.serviceType == "" {
		o.serviceType = scenario.DefaultServiceType(sc)
	}
	return o
}

// Validate runs every applicable pass over a payload: structural always,
// request checks for a 270 and business rules for a 271. It never panics
// on malformed input; problems become failed findings.
func Validate(p *x12.Payload, sc scenario.Scenario, opts ...Option) []Finding {
	if p == nil {
		return []Finding{{RuleID: RuleEnvelope, Severity: Error, Description: "no payload to validate"}}
	}
	o := buildOptions(sc, opts)

	findings := Structural(p)
	switch p.Kind {
	case x12.Kind270:
		findings = append(findings, request(p, o)...)
	case x12.Kind271:
		findings = append(findings, business(p, sc, o)...)
	}
	return findings
}

// ValidateRaw decodes a submitted payload and validates it. A payload that
// cannot be decoded yields a single X12_ENVELOPE finding and a nil payload.
func ValidateRaw(raw string, kind x12.Kind, sc scenario.Scenario, opts ...Option) (*x12.Payload, []Finding) {
	p, err := x12.Parse(raw, kind)
	if err != nil {
		return nil, []Finding{{
			RuleID:      RuleEnvelope,
			Transaction: kind,
			Severity:    Error,
			Description: err.Error(),
		}}
	}
	return p, Validate(p, sc, opts...)
}

// Request checks the inquiry-specific rules of a 270.
func Request(p *x12.Payload, sc scenario.Scenario, opts ...Option) []Finding {
	return request(p, buildOptions(sc, opts))
}

// Business checks the scenario rules of a 271.
func Business(p *x12.Payload, sc scenario.Scenario, opts ...Option) []Finding {
	return business(p, sc, buildOptions(sc, opts))
}

func request(p *x12.Payload, o options) []Finding {
	kind := x12.Kind270
	payer, _ := p.Qualified("NM1", "PR")
	member, _ := p.Qualified("NM1", "IL")
	eq, _ := p.First("EQ")
	memberID := member.Element(9)

	return []Finding{
		check("PAYER_ID", kind, Error,
			payer.Element(8) == "PI" && payer.Element(9) == o.payerID,
			"payer "+o.payerID+" is addressed in NM1*PR",
			fmt.Sprintf("NM1*PR must carry PI*%s (found %q)", o.payerID, payer.Element(9))),
		check("MEMBER_ID", kind, Error,
			member.Element(8) == "MI" && memberID != "",
			"subscriber member id present in NM1*IL",
			"NM1*IL must carry a member id qualified MI"),
		check("MEMBER_ID_PATTERN", kind, Warning,
			scenario.MemberIDPattern.MatchString(memberID),
			"member id matches the payer format",
			fmt.Sprintf("member id %q does not match the payer format W#########", memberID)),
		check("SERVICE_TYPE", kind, Warning,
			eq.Element(1) == o.serviceType,
			"service type "+o.serviceType+" requested",
			fmt.Sprintf("EQ01 %q differs from expected service type %s", eq.Element(1), o.serviceType)),
	}
}

func business(p *x12.Payload, sc scenario.Scenario, o options) []Finding {
	kind := x12.Kind271
	rules := Rules(sc, o.serviceType)
	haystack := x12.SegmentTerminator + p.Raw

	starts := func(pattern string) bool {
		return strings.Contains(haystack, x12.SegmentTerminator+pattern)
	}

	var findings []Finding
	for _, r := range rules.Required {
		findings = append(findings, check(r.RuleID, kind, Error, starts(r.Pattern),
			fmt.Sprintf("%s scenario: %s present", sc, r.Pattern),
			fmt.Sprintf("%s scenario: expected %s", sc, r.Pattern)))
	}
	for _, r := range rules.Forbidden {
		findings = append(findings, check(r.RuleID, kind, Error, !starts(r.Pattern),
			fmt.Sprintf("%s scenario: no %s", sc, r.Pattern),
			fmt.Sprintf("%s scenario: %s must not be present", sc, r.Pattern)))
	}
	for _, rule := range rules.Dates {
		findings = append(findings, dateRule(p, rule))
	}
	return findings
}

var ccyymmdd = regexp.MustCompile(`^[0-9]{8}$`)

func dtpDate(p *x12.Payload, qualifier string) (string, bool) {
	seg, ok := p.Qualified("DTP", qualifier)
	if !ok || !ccyymmdd.MatchString(seg.Element(3)) {
		return "", false
	}
	return seg.Element(3), true
}

// dateRule compares CCYYMMDD dates, which order lexically.
func dateRule(p *x12.Payload, rule string) Finding {
	service, sok := dtpDate(p, "291")
	switch rule {
	case RuleTerminationBeforeService:
		term, tok := dtpDate(p, "357")
		return check(rule, p.Kind, Error, sok && tok && term < service,
			fmt.Sprintf("termination %s precedes service date %s", term, service),
			fmt.Sprintf("termination date %q must precede service date %q", term, service))
	default:
		eff, eok := dtpDate(p, "356")
		return check(rule, p.Kind, Error, sok && eok && eff <= service,
			fmt.Sprintf("effective %s is on or before service date %s", eff, service),
			fmt.Sprintf("effective date %q must not follow service date %q", eff, service))
	}
}
