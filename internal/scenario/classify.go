package scenario

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
)

// Rule maps label keywords to a scenario.
type Rule struct {
	Scenario Scenario
	Keywords []string
}

// rules is evaluated top to bottom and the first keyword hit wins, so the
// order is the precedence between overlapping labels.
var rules = []Rule{
	{Inactive, []string{"inactive", "terminated", "expired", "coverage verification"}},
	{NotFound, []string{"not found", "notfound", "error handling", "no member"}},
	{InvalidID, []string{"invalid", "id format", "format", "error"}},
	{Pharmacy, []string{"pharmacy", "service type 88", "88 coverage", "drug"}},
	{FamilyCoverage, []string{"family", "fam coverage", "coverage level"}},
	{Active, []string{"active", "general health"}},
}

// positional maps the catalog ids TC_001..TC_006 when no keyword matches.
var positional = regexp.MustCompile(`\btc ?00([1-6])\b`)

var positionalScenarios = map[string]Scenario{
	"1": Active,
	"2": Inactive,
	"3": NotFound,
	"4": Pharmacy,
	"5": InvalidID,
	"6": FamilyCoverage,
}

// Rules returns a copy of the classification table in precedence order.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	for i, r := range rules {
		out[i] = Rule{Scenario: r.Scenario, Keywords: append([]string(nil), r.Keywords...)}
	}
	return out
}

// Classify maps a free-text test case label to a scenario. It is total:
// labels that match nothing classify as Active.
func Classify(label string) Scenario {
	s, _ := Match(label)
	return s
}

// Match classifies label and also returns the keyword or catalog id that
// decided it. The returned reason is empty when the default applied.
func Match(label string) (Scenario, string) {
	norm := normalize(label)
	for _, r := range rules {
		for _, kw := range r.Keywords {
			if strings.Contains(norm, kw) {
				return r.Scenario, kw
			}
		}
	}
	if m := positional.FindStringSubmatch(norm); m != nil {
		return positionalScenarios[m[1]], m[0]
	}
	return Active, ""
}

// A Caser is stateful, so one is built per call.
func normalize(label string) string {
	s := cases.Fold().String(label)
	s = strings.NewReplacer("_", " ", "-", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}
