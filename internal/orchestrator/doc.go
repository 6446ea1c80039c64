// Package orchestrator runs eligibility test cases end to end against the
// simulated payer.
//
// Each run moves through received, simulated latency, generated, validated
// and finally passed or failed. Latency is a context-aware wait through a
// Sleeper, so a cancelled caller ends the run early with a failed result.
// Generation and validation are pure; the orchestrator is the only place
// faults are caught and turned into a SYSTEM_ERROR finding.
//
// Batches run their cases on an errgroup bounded by Config.Concurrency and
// always return one result per case.
package orchestrator
