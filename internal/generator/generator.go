package generator

import (
	"fmt"
	"strings"
	"time"

	"github.com/roach88/eligsim/internal/scenario"
	"github.com/roach88/eligsim/internal/x12"
)

// Partners are the two interchange trading partners. The submitter sends
// the 270; the payer answers with the 271.
type Partners struct {
	SubmitterID string `json:"submitterId"`
	PayerID     string `json:"payerId"`
}

// DefaultPartners are the trading partner ids of the simulated payer connection.
var DefaultPartners = Partners{SubmitterID: "030240928", PayerID: "6686CBAF-048001"}

// traceOriginator is TRN03 of every request.
const traceOriginator = "9876543210"

// Generator builds 270 and 271 payloads from templates. It holds no
// mutable state; one Generator can serve any number of goroutines.
type Generator struct {
	now      func() time.Time
	partners Partners
	payer    scenario.Payer
	usage    string
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock sets the time source used for envelope and DTP dates.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// WithPartners overrides the interchange sender and receiver ids.
func WithPartners(p Partners) Option {
	return func(g *Generator) {
		g.partners = p
	}
}

// WithPayer overrides the payer named in NM1*PR.
func WithPayer(p scenario.Payer) Option {
	return func(g *Generator) {
		g.payer = p
	}
}

// WithUsage sets ISA15. Default: x12.TestUsage.
func WithUsage(usage string) Option {
	return func(g *Generator) {
		g.usage = usage
	}
}

// New creates a Generator with the simulated payer defaults.
func New(opts ...Option) *Generator {
	g := &Generator{
		now:      time.Now,
		partners: DefaultPartners,
		payer:    scenario.DefaultPayer,
		usage:    x12.TestUsage,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Payer returns the payer this generator answers for.
func (g *Generator) Payer() scenario.Payer {
	return g.payer
}

// Resolve fills the empty fields of identity from the scenario template and
// cleans every value for use as an X12 element.
func Resolve(sc scenario.Scenario, identity scenario.MemberIdentity) scenario.MemberIdentity {
	m := identity.WithDefaults(scenario.DefaultIdentity(sc))
	if sc == scenario.Pharmacy {
		m.ServiceType = scenario.ServicePharmacy
	}
	m.MemberID = x12.Clean(m.MemberID)
	m.FirstName = strings.ToUpper(x12.Clean(m.FirstName))
	m.LastName = strings.ToUpper(x12.Clean(m.LastName))
	m.DateOfBirth = x12.Clean(m.DateOfBirth)
	m.Gender = strings.ToUpper(x12.Clean(m.Gender))
	m.ServiceType = x12.Clean(m.ServiceType)
	if m.Gender == "" {
		m.Gender = "U"
	}
	return m
}

// Generate270 builds the eligibility inquiry for a member. The segment
// skeleton is the same for every scenario; only identity fields vary.
func (g *Generator) Generate270(sc scenario.Scenario, identity scenario.MemberIdentity, controls x12.ControlNumbers) *x12.Payload {
	now := g.now()
	m := Resolve(sc, identity)
	date := now.Format("20060102")

	body := g.skeleton(x12.Kind270, sc, m, controls, now)
	body = append(body,
		x12.NewSegment("DMG", "D8", m.DateOfBirth, m.Gender),
		x12.NewSegment("DTP", "291", "D8", date),
		x12.NewSegment("EQ", m.ServiceType),
	)

	env := g.envelope(x12.Kind270, controls, now)
	return x12.NewPayload(x12.Kind270, env.Wrap(body), now)
}

// Generate271 builds the payer's response for a member. Partners are
// swapped relative to the 270 and the control numbers are the inquiry's.
func (g *Generator) Generate271(sc scenario.Scenario, identity scenario.MemberIdentity, controls x12.ControlNumbers) *x12.Payload {
	now := g.now()
	m := Resolve(sc, identity)

	body := g.skeleton(x12.Kind271, sc, m, controls, now)
	body = append(body, responseSegments(sc, m, now)...)

	env := g.envelope(x12.Kind271, controls, now)
	return x12.NewPayload(x12.Kind271, env.Wrap(body), now)
}

// Pair is an inquiry and its response.
type Pair struct {
	Request  *x12.Payload `json:"request270"`
	Response *x12.Payload `json:"response271"`
}

// GeneratePair builds a 270 and the matching 271 sharing control numbers.
func (g *Generator) GeneratePair(sc scenario.Scenario, identity scenario.MemberIdentity, controls x12.ControlNumbers) Pair {
	return Pair{
		Request:  g.Generate270(sc, identity, controls),
		Response: g.Generate271(sc, identity, controls),
	}
}

func (g *Generator) envelope(kind x12.Kind, controls x12.ControlNumbers, now time.Time) x12.Envelope {
	env := x12.Envelope{
		Kind:       kind,
		Controls:   controls,
		SenderID:   g.partners.SubmitterID,
		ReceiverID: g.partners.PayerID,
		Usage:      g.usage,
		Time:       now,
	}
	if kind == x12.Kind271 {
		env.SenderID, env.ReceiverID = env.ReceiverID, env.SenderID
	}
	return env
}

// skeleton returns BHT through the subscriber NM1, shared by both kinds.
func (g *Generator) skeleton(kind x12.Kind, sc scenario.Scenario, m scenario.MemberIdentity, controls x12.ControlNumbers, now time.Time) []x12.Segment {
	date := now.Format("20060102")
	clock := now.Format("1504")
	provider := scenario.DefaultProvider(sc)

	purpose, trnType, txnType := "13", "1", "RP"
	if kind == x12.Kind271 {
		purpose, trnType, txnType = "11", "2", "CH"
	}

	return []x12.Segment{
		x12.NewSegment("BHT", "0022", purpose, "ELIG-REQ-"+controls.ISA, date, clock, txnType),
		x12.NewSegment("HL", "1", "", "20", "1"),
		x12.NewSegment("NM1", "PR", "2", x12.Clean(g.payer.Name), "", "", "", "", "PI", x12.Clean(g.payer.ID)),
		x12.NewSegment("HL", "2", "1", "21", "1"),
		x12.NewSegment("NM1", "1P", "2", provider.Name, "", "", "", "", "XX", provider.NPI),
		x12.NewSegment("HL", "3", "2", "22", "0"),
		x12.NewSegment("TRN", trnType, fmt.Sprintf("ELIG-%s-%s", date, controls.ISA), traceOriginator),
		x12.NewSegment("NM1", "IL", "1", m.LastName, m.FirstName, "", "", "", "MI", m.MemberID),
	}
}

// EffectiveDate is the coverage begin date reported for benefit scenarios:
// January 1 of the year before now.
func EffectiveDate(now time.Time) time.Time {
	return time.Date(now.Year()-1, time.January, 1, 0, 0, 0, 0, now.Location())
}

// TerminationDate is the coverage end date reported for Inactive members:
// July 31 of the year before now, always before the service date.
func TerminationDate(now time.Time) time.Time {
	return time.Date(now.Year()-1, time.July, 31, 0, 0, 0, 0, now.Location())
}

// BenefitName returns the MSG wording for a service type code.
func BenefitName(serviceType string) string {
	switch serviceType {
	case scenario.ServiceHealthBenefitPlan:
		return "General Health Benefits"
	case scenario.ServicePharmacy:
		return "Pharmacy Benefits"
	default:
		return "Service Type " + serviceType + " Benefits"
	}
}

func responseSegments(sc scenario.Scenario, m scenario.MemberIdentity, now time.Time) []x12.Segment {
	service := x12.NewSegment("DTP", "291", "D8", now.Format("20060102"))
	effective := x12.NewSegment("DTP", "356", "D8", EffectiveDate(now).Format("20060102"))
	benefit := BenefitName(m.ServiceType)

	switch sc {
	case scenario.Inactive:
		term := TerminationDate(now)
		return []x12.Segment{
			service,
			x12.NewSegment("EB", "6", "IND", m.ServiceType),
			effective,
			x12.NewSegment("DTP", "357", "D8", term.Format("20060102")),
			x12.NewSegment("MSG", fmt.Sprintf("Coverage terminated for %s as of %s.", benefit, term.Format("2006-01-02"))),
		}
	case scenario.NotFound:
		return []x12.Segment{
			x12.NewSegment("AAA", "Y", "15", "72", "N"),
			x12.NewSegment("MSG", "Subscriber/Insured Not Found - Invalid Member ID."),
		}
	case scenario.InvalidID:
		return []x12.Segment{
			x12.NewSegment("AAA", "Y", "15", "72", "N"),
			x12.NewSegment("MSG", "Invalid Member ID Format."),
		}
	case scenario.FamilyCoverage:
		return []x12.Segment{
			service,
			x12.NewSegment("EB", "1", "FAM", m.ServiceType, "", "", "", "1"),
			effective,
			x12.NewSegment("MSG", fmt.Sprintf("Active Family Coverage for %s.", benefit)),
		}
	default:
		// Active and Pharmacy differ only by service type.
		return []x12.Segment{
			service,
			x12.NewSegment("EB", "1", "IND", m.ServiceType, "", "", "", "1"),
			effective,
			x12.NewSegment("MSG", fmt.Sprintf("Active Coverage for %s.", benefit)),
		}
	}
}
