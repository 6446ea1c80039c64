// Package validator checks eligibility payloads and reports findings.
//
// Validation runs in passes. The structural pass is scenario independent
// and covers segment presence, envelope bracketing, control number echo,
// the SE segment count and termination. A 270 additionally gets request
// checks (payer, member id, service type). A 271 gets the scenario
// business rules from Rules: required and forbidden segment prefixes
// matched against the serialized payload, plus date ordering rules.
//
// Every check produces exactly one Finding. A transaction passes when no
// finding is both failed and of Error severity.
package validator
