package scenario

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Scenario is the member situation a test case exercises. The set is
// closed; the zero value is Active.
type Scenario int

const (
	Active Scenario = iota
	Inactive
	NotFound
	Pharmacy
	InvalidID
	FamilyCoverage
)

var scenarioNames = [...]string{
	Active:         "active",
	Inactive:       "inactive",
	NotFound:       "not_found",
	Pharmacy:       "pharmacy",
	InvalidID:      "invalid_id",
	FamilyCoverage: "family_coverage",
}

// All lists every scenario in declaration order.
func All() []Scenario {
	return []Scenario{Active, Inactive, NotFound, Pharmacy, InvalidID, FamilyCoverage}
}

func (s Scenario) String() string {
	if s < 0 || int(s) >= len(scenarioNames) {
		return fmt.Sprintf("scenario(%d)", int(s))
	}
	return scenarioNames[s]
}

// Valid reports whether s is one of the declared scenarios.
func (s Scenario) Valid() bool {
	return s >= 0 && int(s) < len(scenarioNames)
}

// Rejected reports whether the payer answers this scenario with an AAA
// rejection instead of benefit information.
func (s Scenario) Rejected() bool {
	return s == NotFound || s == InvalidID
}

// Parse parses the text form of a scenario. Hyphens, spaces and case are
// tolerated. Unknown names produce an error suggesting the closest match.
func Parse(name string) (Scenario, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	norm = strings.ReplaceAll(norm, " ", "_")
	for i, n := range scenarioNames {
		if n == norm {
			return Scenario(i), nil
		}
	}
	return Active, fmt.Errorf("unknown scenario %q (did you mean %q?)", name, closest(norm))
}

func closest(name string) string {
	candidates := make([]string, len(scenarioNames))
	copy(candidates, scenarioNames[:])
	sort.SliceStable(candidates, func(i, j int) bool {
		return levenshtein.ComputeDistance(name, candidates[i]) < levenshtein.ComputeDistance(name, candidates[j])
	})
	return candidates[0]
}

// MarshalText implements encoding.TextMarshaler.
func (s Scenario) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid scenario %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Scenario) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
