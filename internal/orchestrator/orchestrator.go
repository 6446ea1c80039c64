package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/roach88/eligsim/internal/generator"
	"github.com/roach88/eligsim/internal/scenario"
	"github.com/roach88/eligsim/internal/validator"
	"github.com/roach88/eligsim/internal/x12"
)

// Input errors. Callers map these to a rejected request; they are never
// reported as findings of a single run.
var (
	ErrMissingTestID = errors.New("test id is required")
	ErrEmptyBatch    = errors.New("batch contains no test cases")
)

// Request is one test case to run.
type Request struct {
	TestID string `json:"testId" yaml:"id"`

	// Label is classified into the scenario. Empty means TestID.
	Label string `json:"label,omitempty" yaml:"label,omitempty"`

	// Request270 switches the run to validate-only mode: the submitted
	// inquiry is validated and no response is generated.
	Request270 string `json:"request270,omitempty" yaml:"-"`

	// Member overrides template identity fields.
	Member scenario.MemberIdentity `json:"member,omitempty" yaml:"member,omitempty"`
}

func (r Request) label() string {
	if r.Label != "" {
		return r.Label
	}
	return r.TestID
}

// Orchestrator runs test cases against the simulated payer.
// Safe for concurrent use.
type Orchestrator struct {
	cfg       Config
	logger    *slog.Logger
	startedAt time.Time
}

// New validates cfg and builds an Orchestrator from it.
func New(cfg Config) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid orchestrator config: %w", err)
	}
	cfg = cfg.withDefaults()
	return &Orchestrator{
		cfg:       cfg,
		logger:    cfg.Logger,
		startedAt: cfg.Now(),
	}, nil
}

// Config returns the effective configuration.
func (o *Orchestrator) Config() Config {
	return o.cfg
}

// Run executes one test case. Only input errors are returned; every fault
// after the request is accepted becomes a failed result with a single
// SYSTEM_ERROR finding.
func (o *Orchestrator) Run(ctx context.Context, req Request) (TestResult, error) {
	if strings.TrimSpace(req.TestID) == "" {
		return TestResult{}, ErrMissingTestID
	}
	return o.execute(ctx, req), nil
}

// RunBatch executes independent test cases on a bounded worker pool and
// returns exactly one result per request, in request order. A case
// without a test id gets a failed INPUT_ERROR result named test_<n>.
func (o *Orchestrator) RunBatch(ctx context.Context, reqs []Request) (BatchResult, error) {
	if len(reqs) == 0 {
		return BatchResult{}, ErrEmptyBatch
	}

	start := time.Now()
	results := make([]TestResult, len(reqs))

	var g errgroup.Group
	g.SetLimit(o.cfg.Concurrency)
	for i, req := range reqs {
		g.Go(func() error {
			if strings.TrimSpace(req.TestID) == "" {
				results[i] = o.inputError(fmt.Sprintf("test_%d", i+1), ErrMissingTestID)
				return nil
			}
			results[i] = o.execute(ctx, req)
			return nil
		})
	}
	_ = g.Wait()

	summary := Summarize(results, time.Since(start))
	o.logger.Info("batch completed",
		"total", summary.Total,
		"passed", summary.Passed,
		"failed", summary.Failed,
		"avg_response_ms", summary.AverageResponseTimeMs)

	return BatchResult{Results: results, Summary: summary}, nil
}

func (o *Orchestrator) execute(ctx context.Context, req Request) (res TestResult) {
	start := time.Now()
	res = TestResult{
		TestID:     req.TestID,
		Scenario:   scenario.Classify(req.label()),
		ExecutedAt: o.cfg.Now(),
		Request270: req.Request270,
	}
	log := o.logger.With("test_id", req.TestID)

	defer func() {
		if r := recover(); r != nil {
			log.Error("test run panicked", "panic", r)
			res = o.systemError(res, start, fmt.Sprintf("panic: %v", r))
		}
	}()

	log.Debug("state", "state", StateReceived, "scenario", res.Scenario.String())

	delay := o.latency()
	if err := o.cfg.Sleeper.Sleep(ctx, delay); err != nil {
		log.Warn("run interrupted during payer latency", "error", err)
		return o.systemError(res, start, "processing interrupted: "+err.Error())
	}

	var findings []validator.Finding
	if req.Request270 != "" {
		_, findings = validator.ValidateRaw(req.Request270, x12.Kind270, res.Scenario,
			validator.WithPayerID(o.cfg.Payer.ID),
			validator.WithServiceType(generator.Resolve(res.Scenario, req.Member).ServiceType))
	} else {
		tc, err := o.cfg.Strategy.Build(ctx, generator.Request{
			TestID:   req.TestID,
			Label:    req.Label,
			Member:   req.Member,
			Controls: o.cfg.Controls.Next(),
		})
		if err != nil {
			log.Error("test case generation failed", "error", err)
			return o.systemError(res, start, "generation failed: "+err.Error())
		}
		log.Debug("state", "state", StateGenerated)

		res.Scenario = tc.Scenario
		res.Request270 = tc.Request270.Raw
		res.Response271 = tc.ExpectedResponse271.Raw

		opts := []validator.Option{
			validator.WithPayerID(o.cfg.Payer.ID),
			validator.WithServiceType(tc.Member.ServiceType),
		}
		findings = append(validator.Validate(tc.Request270, tc.Scenario, opts...),
			validator.Validate(tc.ExpectedResponse271, tc.Scenario, opts...)...)
	}
	log.Debug("state", "state", StateValidated, "findings", len(findings))

	res.Findings = findings
	res.ResponseTimeMs = time.Since(start).Milliseconds()
	if validator.Passed(findings) {
		res.Status = StatusPassed
		log.Debug("state", "state", StatePassed)
	} else {
		res.Status = StatusFailed
		res.ErrorMessage = MessageValidationFailed
		log.Info("test failed validation", "failures", len(validator.Failures(findings)))
	}
	return res
}

func (o *Orchestrator) systemError(res TestResult, start time.Time, detail string) TestResult {
	res.Status = StatusFailed
	res.Findings = []validator.Finding{validator.SystemError(detail)}
	res.ErrorMessage = MessageSystemError
	res.Response271 = ""
	res.ResponseTimeMs = time.Since(start).Milliseconds()
	return res
}

func (o *Orchestrator) inputError(testID string, err error) TestResult {
	return TestResult{
		TestID: testID,
		Status: StatusFailed,
		Findings: []validator.Finding{{
			RuleID:      validator.RuleInputError,
			Severity:    validator.Error,
			Description: err.Error(),
		}},
		ErrorMessage: err.Error(),
		ExecutedAt:   o.cfg.Now(),
	}
}

// latency draws a delay uniformly from [LatencyMin, LatencyMax].
func (o *Orchestrator) latency() time.Duration {
	span := o.cfg.LatencyMax - o.cfg.LatencyMin
	if span <= 0 {
		return o.cfg.LatencyMin
	}
	return o.cfg.LatencyMin + rand.N(span+1)
}

// StatusReport describes the simulated payer endpoint.
type StatusReport struct {
	PayerName             string    `json:"payerName"`
	PayerID               string    `json:"payerId"`
	SupportedTransactions []string  `json:"supportedTransactions"`
	Environment           string    `json:"environment"`
	Usage                 string    `json:"usageIndicator"`
	StartedAt             time.Time `json:"startedAt"`
	Uptime                string    `json:"uptime"`
}

// Status reports the simulated payer's identity and uptime.
func (o *Orchestrator) Status() StatusReport {
	name := cases.Title(language.English).String(o.cfg.Payer.Name)
	return StatusReport{
		PayerName:             name + " (Mock)",
		PayerID:               o.cfg.Payer.ID,
		SupportedTransactions: []string{string(x12.Kind270), string(x12.Kind271)},
		Environment:           "simulation",
		Usage:                 o.cfg.UsageIndicator,
		StartedAt:             o.startedAt,
		Uptime:                o.cfg.Now().Sub(o.startedAt).Truncate(time.Second).String(),
	}
}
