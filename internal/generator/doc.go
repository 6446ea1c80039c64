// Package generator synthesizes 270 inquiries and 271 responses for the
// simulated payer.
//
// Generator holds the deterministic templates. Strategy wraps it to build
// a complete TestCase from a free-text label: TemplateStrategy is the
// default, EnrichedStrategy layers optional descriptive metadata from an
// Enricher on top without ever touching the payloads.
package generator
