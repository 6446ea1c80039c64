// Package config loads eligsim configuration from an optional YAML file and
// ELIGSIM_* environment variables into an explicit value.
package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/roach88/eligsim/internal/generator"
	"github.com/roach88/eligsim/internal/orchestrator"
	"github.com/roach88/eligsim/internal/scenario"
	"github.com/roach88/eligsim/internal/x12"
)

// Config mirrors the configuration file.
type Config struct {
	Latency        LatencyConfig    `koanf:"latency"`
	Concurrency    int              `koanf:"concurrency"`
	Enrichment     EnrichmentConfig `koanf:"enrichment"`
	UsageIndicator string           `koanf:"usage_indicator"`
	ControlStart   int64            `koanf:"control_start"`
	Payer          PayerConfig      `koanf:"payer"`
	Partners       PartnersConfig   `koanf:"partners"`
}

type LatencyConfig struct {
	Min string `koanf:"min"`
	Max string `koanf:"max"`
}

type EnrichmentConfig struct {
	Enabled     bool   `koanf:"enabled"`
	Concurrency int    `koanf:"concurrency"`
	Delay       string `koanf:"delay"`
}

type PayerConfig struct {
	ID   string `koanf:"id"`
	Name string `koanf:"name"`
}

type PartnersConfig struct {
	SubmitterID string `koanf:"submitter_id"`
	PayerID     string `koanf:"payer_id"`
}

// envOverrides maps environment variables to config keys.
var envOverrides = map[string]string{
	"ELIGSIM_LATENCY_MIN":     "latency.min",
	"ELIGSIM_LATENCY_MAX":     "latency.max",
	"ELIGSIM_CONCURRENCY":     "concurrency",
	"ELIGSIM_USAGE_INDICATOR": "usage_indicator",
	"ELIGSIM_ENRICHMENT":      "enrichment.enabled",
}

// Loaded is a parsed configuration plus keys the file set that eligsim
// does not recognize.
type Loaded struct {
	Config      Config
	UnknownKeys []string
	Warnings    []string
}

// Load reads path (skipped when empty), applies environment overrides read
// through getenv, fills defaults and validates the result. A nil getenv
// reads the process environment.
func Load(path string, getenv func(string) string) (*Loaded, error) {
	if getenv == nil {
		getenv = os.Getenv
	}

	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	for envKey, configKey := range envOverrides {
		if val := getenv(envKey); val != "" {
			if err := k.Set(configKey, val); err != nil {
				return nil, fmt.Errorf("error setting %s from env: %w", envKey, err)
			}
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	loaded := &Loaded{Config: cfg, UnknownKeys: unknownKeys(k.Keys())}
	for _, key := range loaded.UnknownKeys {
		if s := suggestKey(key); s != "" {
			loaded.Warnings = append(loaded.Warnings, fmt.Sprintf("unknown key '%s' - did you mean '%s'?", key, s))
		} else {
			loaded.Warnings = append(loaded.Warnings, fmt.Sprintf("unknown key '%s' will be ignored", key))
		}
	}
	return loaded, nil
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	var cfg Config
	cfg.applyDefaults()
	return cfg
}

func (cfg *Config) applyDefaults() {
	def := orchestrator.DefaultConfig()
	if cfg.Latency.Min == "" {
		cfg.Latency.Min = def.LatencyMin.String()
	}
	if cfg.Latency.Max == "" {
		cfg.Latency.Max = def.LatencyMax.String()
	}
	if cfg.Concurrency == 0 {
		cfg.Concurrency = def.Concurrency
	}
	if cfg.Enrichment.Concurrency == 0 {
		cfg.Enrichment.Concurrency = def.EnrichmentConcurrency
	}
	if cfg.Enrichment.Delay == "" {
		cfg.Enrichment.Delay = "0s"
	}
	if cfg.UsageIndicator == "" {
		cfg.UsageIndicator = def.UsageIndicator
	}
	if cfg.ControlStart == 0 {
		cfg.ControlStart = def.ControlStart
	}
	if cfg.Payer.ID == "" {
		cfg.Payer.ID = def.Payer.ID
	}
	if cfg.Payer.Name == "" {
		cfg.Payer.Name = def.Payer.Name
	}
	if cfg.Partners.SubmitterID == "" {
		cfg.Partners.SubmitterID = def.Partners.SubmitterID
	}
	if cfg.Partners.PayerID == "" {
		cfg.Partners.PayerID = def.Partners.PayerID
	}
}

// Validate reports every invalid value at once.
func (cfg *Config) Validate() error {
	var errs []error

	minLatency, err := time.ParseDuration(cfg.Latency.Min)
	if err != nil {
		errs = append(errs, fmt.Errorf("latency.min: invalid duration %q", cfg.Latency.Min))
	}
	maxLatency, err2 := time.ParseDuration(cfg.Latency.Max)
	if err2 != nil {
		errs = append(errs, fmt.Errorf("latency.max: invalid duration %q", cfg.Latency.Max))
	}
	if err == nil && err2 == nil {
		if minLatency < 0 {
			errs = append(errs, fmt.Errorf("latency.min must not be negative, got %s", cfg.Latency.Min))
		}
		if maxLatency < minLatency {
			errs = append(errs, fmt.Errorf("latency.max %s is below latency.min %s", cfg.Latency.Max, cfg.Latency.Min))
		}
	}

	if _, err := time.ParseDuration(cfg.Enrichment.Delay); err != nil {
		errs = append(errs, fmt.Errorf("enrichment.delay: invalid duration %q", cfg.Enrichment.Delay))
	}
	if cfg.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("concurrency must be at least 1, got %d", cfg.Concurrency))
	}
	if cfg.Enrichment.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("enrichment.concurrency must be at least 1, got %d", cfg.Enrichment.Concurrency))
	}
	if cfg.UsageIndicator != x12.TestUsage && cfg.UsageIndicator != x12.ProductionUsage {
		errs = append(errs, fmt.Errorf("usage_indicator must be '%s' or '%s', got %q", x12.TestUsage, x12.ProductionUsage, cfg.UsageIndicator))
	}
	if cfg.ControlStart < 0 {
		errs = append(errs, fmt.Errorf("control_start must not be negative, got %d", cfg.ControlStart))
	}
	if len(cfg.Partners.SubmitterID) > 15 {
		errs = append(errs, fmt.Errorf("partners.submitter_id exceeds 15 characters: %q", cfg.Partners.SubmitterID))
	}
	if len(cfg.Partners.PayerID) > 15 {
		errs = append(errs, fmt.Errorf("partners.payer_id exceeds 15 characters: %q", cfg.Partners.PayerID))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Orchestrator converts cfg into an orchestrator configuration. cfg must
// have passed Validate.
func (cfg Config) Orchestrator() orchestrator.Config {
	minLatency, _ := time.ParseDuration(cfg.Latency.Min)
	maxLatency, _ := time.ParseDuration(cfg.Latency.Max)
	delay, _ := time.ParseDuration(cfg.Enrichment.Delay)

	oc := orchestrator.DefaultConfig()
	oc.LatencyMin = minLatency
	oc.LatencyMax = maxLatency
	oc.Concurrency = cfg.Concurrency
	oc.Enrichment = cfg.Enrichment.Enabled
	oc.EnrichmentConcurrency = cfg.Enrichment.Concurrency
	oc.EnrichmentDelay = delay
	oc.UsageIndicator = cfg.UsageIndicator
	oc.ControlStart = cfg.ControlStart
	oc.Payer = scenario.Payer{ID: cfg.Payer.ID, Name: cfg.Payer.Name}
	oc.Partners = generator.Partners{SubmitterID: cfg.Partners.SubmitterID, PayerID: cfg.Partners.PayerID}
	return oc
}

func unknownKeys(loaded []string) []string {
	valid := make(map[string]bool)
	for _, key := range validKeys(reflect.TypeOf(Config{}), "") {
		valid[key] = true
		parts := strings.Split(key, ".")
		for i := 1; i < len(parts); i++ {
			valid[strings.Join(parts[:i], ".")] = true
		}
	}

	var unknown []string
	for _, key := range loaded {
		if !valid[key] {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	return unknown
}

// validKeys lists the leaf key paths declared by koanf struct tags.
func validKeys(t reflect.Type, prefix string) []string {
	var keys []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("koanf")
		if tag == "" {
			continue
		}
		path := tag
		if prefix != "" {
			path = prefix + "." + tag
		}
		if f.Type.Kind() == reflect.Struct {
			keys = append(keys, validKeys(f.Type, path)...)
			continue
		}
		keys = append(keys, path)
	}
	return keys
}

// suggestKey returns the closest valid key within edit distance 3.
func suggestKey(unknown string) string {
	best, bestDist := "", 4
	for _, key := range validKeys(reflect.TypeOf(Config{}), "") {
		if d := levenshtein.ComputeDistance(unknown, key); d < bestDist {
			best, bestDist = key, d
		}
	}
	return best
}
