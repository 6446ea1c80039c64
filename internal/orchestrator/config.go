package orchestrator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/roach88/eligsim/internal/generator"
	"github.com/roach88/eligsim/internal/scenario"
	"github.com/roach88/eligsim/internal/x12"
)

// Defaults for Config fields left zero.
const (
	DefaultLatencyMin            = 500 * time.Millisecond
	DefaultLatencyMax            = 2000 * time.Millisecond
	DefaultConcurrency           = 4
	DefaultEnrichmentConcurrency = 2
	DefaultControlStart          = 100
)

// Sleeper suspends a run for the simulated payer latency. Implementations
// must return early with ctx.Err() when ctx is done.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// TimerSleeper waits on a timer, releasing the goroutine's thread while
// suspended.
type TimerSleeper struct{}

// Sleep implements Sleeper.
func (TimerSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Config is everything an Orchestrator needs. It is passed by value at
// construction; the orchestrator keeps no other configuration.
type Config struct {
	// Simulated payer latency bounds, inclusive.
	LatencyMin time.Duration
	LatencyMax time.Duration

	// Concurrency caps the cases a batch runs at once.
	Concurrency int

	// Enrichment selects the template-with-enrichment strategy.
	Enrichment            bool
	EnrichmentConcurrency int
	EnrichmentDelay       time.Duration

	Payer          scenario.Payer
	Partners       generator.Partners
	UsageIndicator string

	// ControlStart positions the control-number sequence; the first
	// interchange uses ControlStart+1.
	ControlStart int64

	// Collaborators. Nil selects the default implementation.
	Strategy generator.Strategy
	Enricher generator.Enricher
	Controls x12.ControlSource
	Sleeper  Sleeper
	Now      func() time.Time
	Logger   *slog.Logger
}

// DefaultConfig returns the simulated payer configuration.
func DefaultConfig() Config {
	return Config{
		LatencyMin:            DefaultLatencyMin,
		LatencyMax:            DefaultLatencyMax,
		Concurrency:           DefaultConcurrency,
		EnrichmentConcurrency: DefaultEnrichmentConcurrency,
		Payer:                 scenario.DefaultPayer,
		Partners:              generator.DefaultPartners,
		UsageIndicator:        x12.TestUsage,
		ControlStart:          DefaultControlStart,
	}
}

// Validate reports configuration values that cannot be used.
func (c Config) Validate() error {
	if c.LatencyMin < 0 {
		return fmt.Errorf("latency min must not be negative, got %s", c.LatencyMin)
	}
	if c.LatencyMax < c.LatencyMin {
		return fmt.Errorf("latency max %s is below latency min %s", c.LatencyMax, c.LatencyMin)
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative, got %d", c.Concurrency)
	}
	if c.EnrichmentConcurrency < 0 {
		return fmt.Errorf("enrichment concurrency must not be negative, got %d", c.EnrichmentConcurrency)
	}
	switch c.UsageIndicator {
	case "", x12.TestUsage, x12.ProductionUsage:
	default:
		return fmt.Errorf("usage indicator must be %s or %s, got %q", x12.TestUsage, x12.ProductionUsage, c.UsageIndicator)
	}
	return nil
}

// withDefaults fills zero values and builds default collaborators.
func (c Config) withDefaults() Config {
	if c.Concurrency == 0 {
		c.Concurrency = DefaultConcurrency
	}
	if c.EnrichmentConcurrency == 0 {
		c.EnrichmentConcurrency = DefaultEnrichmentConcurrency
	}
	if c.Payer.ID == "" {
		c.Payer = scenario.DefaultPayer
	}
	if c.Partners == (generator.Partners{}) {
		c.Partners = generator.DefaultPartners
	}
	if c.UsageIndicator == "" {
		c.UsageIndicator = x12.TestUsage
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if c.Sleeper == nil {
		c.Sleeper = TimerSleeper{}
	}
	if c.Controls == nil {
		c.Controls = x12.NewSequenceAt(c.ControlStart)
	}
	if c.Strategy == nil {
		gen := generator.New(
			generator.WithClock(c.Now),
			generator.WithPartners(c.Partners),
			generator.WithPayer(c.Payer),
			generator.WithUsage(c.UsageIndicator),
		)
		var strategy generator.Strategy = generator.NewTemplateStrategy(gen)
		if c.Enrichment {
			enricher := c.Enricher
			if enricher == nil {
				enricher = generator.SimulatedEnricher{Delay: c.EnrichmentDelay}
			}
			strategy = generator.NewEnrichedStrategy(strategy, enricher, int64(c.EnrichmentConcurrency), c.Logger)
		}
		c.Strategy = strategy
	}
	return c
}
