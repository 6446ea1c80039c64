// Package scenario classifies test case labels into member scenarios and
// holds the per-scenario template data: member identities, providers and
// the recommended test catalog.
//
// Classification is table driven. See Rules for the precedence order.
package scenario
