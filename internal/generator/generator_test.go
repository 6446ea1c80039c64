package generator

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/eligsim/internal/scenario"
	"github.com/roach88/eligsim/internal/testutil"
	"github.com/roach88/eligsim/internal/x12"
)

var controls = x12.ControlNumbersFor(101)

func newTestGenerator() *Generator {
	return New(WithClock(testutil.NewFixedClock(testutil.Reference).Now))
}

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestGenerate_Golden(t *testing.T) {
	gen := newTestGenerator()
	g := newGoldie(t)

	tests := []struct {
		name    string
		payload *x12.Payload
	}{
		{"active_270", gen.Generate270(scenario.Active, scenario.MemberIdentity{}, controls)},
		{"active_271", gen.Generate271(scenario.Active, scenario.MemberIdentity{}, controls)},
		{"inactive_271", gen.Generate271(scenario.Inactive, scenario.MemberIdentity{}, controls)},
		{"not_found_271", gen.Generate271(scenario.NotFound, scenario.MemberIdentity{}, controls)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g.Assert(t, tt.name, []byte(x12.Format(tt.payload.Segments)))
		})
	}
}

func TestGenerate_RoundTripAllScenarios(t *testing.T) {
	gen := newTestGenerator()

	for _, sc := range scenario.All() {
		pair := gen.GeneratePair(sc, scenario.MemberIdentity{}, controls)
		for _, p := range []*x12.Payload{pair.Request, pair.Response} {
			assert.Equal(t, x12.Encode(p.Segments), p.Raw)

			decoded, err := x12.Decode(p.Raw)
			require.NoError(t, err, "%s %s", sc, p.Kind)
			if diff := cmp.Diff(p.Segments, decoded, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("%s %s round trip mismatch (-want +got):\n%s", sc, p.Kind, diff)
			}
		}
	}
}

func TestGenerate_ControlNumbersEchoAllScenarios(t *testing.T) {
	gen := newTestGenerator()
	seq := x12.NewSequenceAt(9_998)

	for _, sc := range scenario.All() {
		for i := 0; i < 3; i++ {
			c := seq.Next()
			pair := gen.GeneratePair(sc, scenario.MemberIdentity{}, c)
			for _, p := range []*x12.Payload{pair.Request, pair.Response} {
				isa, _ := p.First("ISA")
				iea, _ := p.First("IEA")
				gs, _ := p.First("GS")
				ge, _ := p.First("GE")
				st, _ := p.First("ST")
				se, _ := p.First("SE")

				assert.Equal(t, c.ISA, isa.Element(13))
				assert.Equal(t, isa.Element(13), iea.Element(2), "%s %s", sc, p.Kind)
				assert.Equal(t, gs.Element(6), ge.Element(2), "%s %s", sc, p.Kind)
				assert.Equal(t, st.Element(2), se.Element(2), "%s %s", sc, p.Kind)
			}
		}
	}
}

func TestGenerate_SegmentCountAllScenarios(t *testing.T) {
	gen := newTestGenerator()
	overrides := []scenario.MemberIdentity{
		{},
		{MemberID: "W123456789", FirstName: "ann", LastName: "o*brien"},
		{ServiceType: "88"},
	}

	for _, sc := range scenario.All() {
		for _, m := range overrides {
			pair := gen.GeneratePair(sc, m, controls)
			for _, p := range []*x12.Payload{pair.Request, pair.Response} {
				se, ok := p.First("SE")
				require.True(t, ok)

				start := -1
				for i, seg := range p.Segments {
					if seg.ID == "ST" {
						start = i
					}
				}
				literal := len(p.Segments) - 2 - start // SE index + 1 - ST index
				assert.Equal(t, strconv.Itoa(literal), se.Element(1), "%s %s", sc, p.Kind)
			}
		}
	}
}

func TestGenerate270_SkeletonIsScenarioIndependent(t *testing.T) {
	gen := newTestGenerator()

	ids := func(p *x12.Payload) []string {
		var out []string
		for _, seg := range p.Segments {
			out = append(out, seg.ID)
		}
		return out
	}

	want := []string{"ISA", "GS", "ST", "BHT", "HL", "NM1", "HL", "NM1", "HL", "TRN", "NM1", "DMG", "DTP", "EQ", "SE", "GE", "IEA"}
	for _, sc := range scenario.All() {
		assert.Equal(t, want, ids(gen.Generate270(sc, scenario.MemberIdentity{}, controls)), sc.String())
	}
}

func TestGenerate270_ScenarioIdentityFields(t *testing.T) {
	gen := newTestGenerator()

	pharmacy := gen.Generate270(scenario.Pharmacy, scenario.MemberIdentity{}, controls)
	eq, _ := pharmacy.First("EQ")
	assert.Equal(t, "88", eq.Element(1))

	invalid := gen.Generate270(scenario.InvalidID, scenario.MemberIdentity{}, controls)
	nm1, _ := invalid.Qualified("NM1", "IL")
	assert.Equal(t, "INVALID123", nm1.Element(9))
	assert.False(t, scenario.MemberIDPattern.MatchString(nm1.Element(9)))

	payer, _ := invalid.Qualified("NM1", "PR")
	assert.Equal(t, "60054", payer.Element(9))
}

func TestGenerate_OverridesAreCleaned(t *testing.T) {
	gen := newTestGenerator()
	p := gen.Generate270(scenario.Active, scenario.MemberIdentity{
		MemberID:  "W1~23",
		FirstName: "mary",
		LastName:  "o*neil",
	}, controls)

	nm1, _ := p.Qualified("NM1", "IL")
	assert.Equal(t, "ONEIL", nm1.Element(3))
	assert.Equal(t, "MARY", nm1.Element(4))
	assert.Equal(t, "W123", nm1.Element(9))

	dmg, _ := p.First("DMG")
	assert.Equal(t, "19850115", dmg.Element(2), "unset fields keep template values")
}

func TestGenerate271_SwapsPartners(t *testing.T) {
	gen := New(
		WithClock(testutil.NewFixedClock(testutil.Reference).Now),
		WithPartners(Partners{SubmitterID: "SUBMITTER", PayerID: "PAYER"}),
	)
	pair := gen.GeneratePair(scenario.Active, scenario.MemberIdentity{}, controls)

	req, _ := pair.Request.First("GS")
	resp, _ := pair.Response.First("GS")
	assert.Equal(t, "SUBMITTER", req.Element(2))
	assert.Equal(t, "PAYER", req.Element(3))
	assert.Equal(t, "PAYER", resp.Element(2))
	assert.Equal(t, "SUBMITTER", resp.Element(3))
}

func TestGenerate271_ScenarioBranches(t *testing.T) {
	gen := newTestGenerator()

	tests := []struct {
		sc      scenario.Scenario
		present []string
		absent  []string
	}{
		{scenario.Active, []string{"~EB*1*IND*30", "~DTP*356*", "~MSG*Active Coverage"}, []string{"~AAA*", "~EB*6*"}},
		{scenario.Inactive, []string{"~EB*6*IND*30", "~DTP*356*", "~DTP*357*", "~MSG*Coverage terminated"}, []string{"~EB*1*", "~AAA*"}},
		{scenario.NotFound, []string{"~AAA*Y*15*72*N", "~MSG*Subscriber/Insured Not Found"}, []string{"~EB*", "~DTP*356*", "~DTP*357*", "~DTP*291*"}},
		{scenario.InvalidID, []string{"~AAA*Y*15*72*N", "~MSG*Invalid Member ID Format"}, []string{"~EB*", "~DTP*356*", "~DTP*357*"}},
		{scenario.Pharmacy, []string{"~EB*1*IND*88", "~MSG*Active Coverage for Pharmacy"}, []string{"~AAA*", "~EB*6*"}},
		{scenario.FamilyCoverage, []string{"~EB*1*FAM*30", "~MSG*Active Family Coverage"}, []string{"~EB*1*IND*", "~AAA*"}},
	}

	for _, tt := range tests {
		t.Run(tt.sc.String(), func(t *testing.T) {
			raw := "~" + gen.Generate271(tt.sc, scenario.MemberIdentity{}, controls).Raw
			for _, s := range tt.present {
				assert.Contains(t, raw, s)
			}
			for _, s := range tt.absent {
				assert.NotContains(t, raw, s)
			}
			assert.NotContains(t, raw, "~DMG*")
		})
	}
}

func TestDates_PriorYear(t *testing.T) {
	now := time.Date(2026, time.January, 2, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, "20250101", EffectiveDate(now).Format("20060102"))
	assert.Equal(t, "20250731", TerminationDate(now).Format("20060102"))
	assert.True(t, TerminationDate(now).Before(now))
}

func TestGenerate_UsageOption(t *testing.T) {
	gen := New(WithUsage(x12.ProductionUsage), WithClock(testutil.NewFixedClock(testutil.Reference).Now))
	isa, _ := gen.Generate270(scenario.Active, scenario.MemberIdentity{}, controls).First("ISA")
	assert.Equal(t, "P", isa.Element(15))
}

func TestBenefitName(t *testing.T) {
	assert.Equal(t, "General Health Benefits", BenefitName("30"))
	assert.Equal(t, "Pharmacy Benefits", BenefitName("88"))
	assert.True(t, strings.Contains(BenefitName("47"), "47"))
}
