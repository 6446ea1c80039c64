package generator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/roach88/eligsim/internal/scenario"
	"github.com/roach88/eligsim/internal/validator"
	"github.com/roach88/eligsim/internal/x12"
)

// Request asks a strategy for one test case.
type Request struct {
	// TestID is the caller's test case id. It doubles as the label when
	// Label is empty.
	TestID string

	// Label is the free-text description classified into a scenario.
	Label string

	// Member overrides template identity fields. Empty fields keep the
	// scenario defaults.
	Member scenario.MemberIdentity

	Controls x12.ControlNumbers
}

func (r Request) label() string {
	if r.Label != "" {
		return r.Label
	}
	return r.TestID
}

// ValidationRules are the expectations shipped with a generated test case.
type ValidationRules struct {
	Required  []string `json:"required"`
	Forbidden []string `json:"forbidden"`
	Business  []string `json:"business"`
}

// TestCase is a generated 270/271 pair with the metadata a trading partner
// needs to run it.
type TestCase struct {
	ID                  string                  `json:"id"`
	Title               string                  `json:"title"`
	Description         string                  `json:"description"`
	Priority            string                  `json:"priority"`
	Category            string                  `json:"category"`
	Scenario            scenario.Scenario       `json:"scenario"`
	Member              scenario.MemberIdentity `json:"member"`
	Provider            scenario.Provider       `json:"provider"`
	Request270          *x12.Payload            `json:"request270"`
	ExpectedResponse271 *x12.Payload            `json:"expectedResponse271"`
	ValidationRules     ValidationRules         `json:"validationRules"`
}

// Strategy produces test cases. Implementations must be safe for
// concurrent use.
type Strategy interface {
	Build(ctx context.Context, req Request) (*TestCase, error)
}

// TemplateStrategy builds test cases purely from the scenario templates.
type TemplateStrategy struct {
	gen *Generator
}

// NewTemplateStrategy returns the deterministic default strategy.
func NewTemplateStrategy(gen *Generator) *TemplateStrategy {
	return &TemplateStrategy{gen: gen}
}

// Build classifies the request label and generates the payload pair.
func (s *TemplateStrategy) Build(ctx context.Context, req Request) (*TestCase, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sc := scenario.Classify(req.label())
	member := Resolve(sc, req.Member)
	pair := s.gen.GeneratePair(sc, member, req.Controls)
	rules := validator.Rules(sc, member.ServiceType)

	meta := catalogEntry(sc)
	tc := &TestCase{
		ID:                  req.TestID,
		Title:               meta.Title,
		Description:         meta.Description,
		Priority:            meta.Priority,
		Category:            meta.Category,
		Scenario:            sc,
		Member:              member,
		Provider:            scenario.DefaultProvider(sc),
		Request270:          pair.Request,
		ExpectedResponse271: pair.Response,
		ValidationRules: ValidationRules{
			Required:  patterns(rules.Required),
			Forbidden: patterns(rules.Forbidden),
			Business:  rules.Business,
		},
	}
	return tc, nil
}

func catalogEntry(sc scenario.Scenario) scenario.Recommendation {
	for _, r := range scenario.Catalog() {
		if r.Scenario == sc {
			return r
		}
	}
	return scenario.Recommendation{Title: sc.String()}
}

func patterns(ps []validator.Pattern) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Pattern
	}
	return out
}

// Enrichment is descriptive metadata an Enricher may contribute.
// Empty fields leave the template text in place.
type Enrichment struct {
	Title       string
	Description string
}

// Enricher supplies optional descriptive metadata for a generated test
// case. It never influences payloads.
type Enricher interface {
	Enrich(ctx context.Context, tc TestCase) (Enrichment, error)
}

// EnrichedStrategy runs a base strategy and then asks an Enricher for
// metadata, at most limit enrichments at a time. Enrichment failures are
// logged and the template test case is returned unchanged.
type EnrichedStrategy struct {
	base     Strategy
	enricher Enricher
	sem      *semaphore.Weighted
	logger   *slog.Logger
}

// NewEnrichedStrategy wraps base. A limit below 1 is treated as 1.
func NewEnrichedStrategy(base Strategy, enricher Enricher, limit int64, logger *slog.Logger) *EnrichedStrategy {
	if limit < 1 {
		limit = 1
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &EnrichedStrategy{
		base:     base,
		enricher: enricher,
		sem:      semaphore.NewWeighted(limit),
		logger:   logger,
	}
}

// Build implements Strategy.
func (s *EnrichedStrategy) Build(ctx context.Context, req Request) (*TestCase, error) {
	tc, err := s.base.Build(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.sem.Acquire(ctx, 1); err != nil {
		s.logger.Warn("enrichment skipped", "test_id", req.TestID, "error", err)
		return tc, nil
	}
	defer s.sem.Release(1)

	enr, err := s.enricher.Enrich(ctx, *tc)
	if err != nil {
		s.logger.Warn("enrichment failed, using template metadata", "test_id", req.TestID, "error", err)
		return tc, nil
	}
	if enr.Title != "" {
		tc.Title = enr.Title
	}
	if enr.Description != "" {
		tc.Description = enr.Description
	}
	s.logger.Debug("test case enriched", "test_id", req.TestID, "scenario", tc.Scenario.String())
	return tc, nil
}

// SimulatedEnricher stands in for a remote enrichment service: it waits
// Delay and returns canned descriptive text.
type SimulatedEnricher struct {
	Delay time.Duration
}

// Enrich implements Enricher.
func (e SimulatedEnricher) Enrich(ctx context.Context, tc TestCase) (Enrichment, error) {
	if e.Delay > 0 {
		timer := time.NewTimer(e.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Enrichment{}, ctx.Err()
		case <-timer.C:
		}
	}
	return Enrichment{
		Description: fmt.Sprintf("%s Member %s, service type %s, provider %s.",
			tc.Description, tc.Member.MemberID, tc.Member.ServiceType, tc.Provider.Name),
	}, nil
}
