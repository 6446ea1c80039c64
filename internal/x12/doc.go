// Package x12 models ASC X12 005010X279A1 eligibility payloads.
//
// A payload is an ordered list of segments. Each segment is an identifier
// followed by positional elements. The wire form uses the fixed delimiter
// set of the payer this module simulates:
//
//   - "~" terminates every segment
//   - "*" separates elements
//   - ":" is the sub-element separator declared in ISA16
//   - "^" is the repetition separator declared in ISA11
//
// Encode and Decode are the only places that know the delimiters. Everything
// above this package works on []Segment and never splits strings.
//
// # Envelope
//
// Every generated transaction is wrapped in the three-level envelope
// ISA/GS/ST ... SE/GE/IEA. Trailer control numbers always echo the header
// control numbers, and SE01 is computed from the emitted segments rather
// than hardcoded.
package x12
