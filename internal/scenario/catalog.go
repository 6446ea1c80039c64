package scenario

// Recommendation is one entry of the payer's recommended test plan.
type Recommendation struct {
	ID                string   `json:"id"`
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	Priority          string   `json:"priority"`
	Category          string   `json:"category"`
	EstimatedDuration string   `json:"estimatedDuration"`
	Scenario          Scenario `json:"scenario"`
}

const (
	PriorityCritical = "Critical"
	PriorityMedium   = "Medium"

	CategoryCore       = "Core Functionality"
	CategoryAdditional = "Additional Testing"
)

var catalog = []Recommendation{
	{
		ID:                "TC_001",
		Title:             "Active Member - General Health Benefits",
		Description:       "Verify eligibility response for an active member requesting general health benefit coverage (service type 30).",
		Priority:          PriorityCritical,
		Category:          CategoryCore,
		EstimatedDuration: "2 minutes",
		Scenario:          Active,
	},
	{
		ID:                "TC_002",
		Title:             "Inactive Member - Coverage Verification",
		Description:       "Verify the payer reports terminated coverage with eligibility begin and end dates.",
		Priority:          PriorityCritical,
		Category:          CategoryCore,
		EstimatedDuration: "2 minutes",
		Scenario:          Inactive,
	},
	{
		ID:                "TC_003",
		Title:             "Member Not Found - Error Handling",
		Description:       "Verify an AAA rejection is returned for a subscriber the payer cannot locate.",
		Priority:          PriorityCritical,
		Category:          CategoryCore,
		EstimatedDuration: "1 minute",
		Scenario:          NotFound,
	},
	{
		ID:                "TC_004",
		Title:             "Service Type 88 Coverage",
		Description:       "Verify pharmacy benefit information is returned for service type 88.",
		Priority:          PriorityMedium,
		Category:          CategoryAdditional,
		EstimatedDuration: "3 minutes",
		Scenario:          Pharmacy,
	},
	{
		ID:                "TC_005",
		Title:             "Member ID Format Test",
		Description:       "Verify a malformed member id is rejected with an AAA segment.",
		Priority:          PriorityMedium,
		Category:          CategoryAdditional,
		EstimatedDuration: "2 minutes",
		Scenario:          InvalidID,
	},
	{
		ID:                "TC_006",
		Title:             "Coverage Level Test",
		Description:       "Verify family coverage level (FAM) is reported in the benefit segment.",
		Priority:          PriorityMedium,
		Category:          CategoryAdditional,
		EstimatedDuration: "2 minutes",
		Scenario:          FamilyCoverage,
	},
}

// Catalog returns the recommended test cases in order.
func Catalog() []Recommendation {
	return append([]Recommendation(nil), catalog...)
}

// Lookup returns the catalog entry with the given id.
func Lookup(id string) (Recommendation, bool) {
	for _, r := range catalog {
		if r.ID == id {
			return r, true
		}
	}
	return Recommendation{}, false
}
