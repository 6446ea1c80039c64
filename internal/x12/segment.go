package x12

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Delimiters and version identifiers for 005010X279A1.
const (
	SegmentTerminator   = "~"
	ElementSeparator    = "*"
	SubElementSeparator = ":"
	RepetitionSeparator = "^"

	// Version is carried in GS08 and ST03.
	Version = "005010X279A1"

	// InterchangeVersion is carried in ISA12.
	InterchangeVersion = "00501"
)

// Kind is the transaction set identifier of a payload.
type Kind string

const (
	Kind270 Kind = "270" // Eligibility, Coverage or Benefit Inquiry
	Kind271 Kind = "271" // Eligibility, Coverage or Benefit Information
)

// FunctionalID returns the GS01 functional identifier code for the kind.
func (k Kind) FunctionalID() string {
	switch k {
	case Kind270:
		return "HS"
	case Kind271:
		return "HB"
	default:
		return ""
	}
}

// ParseKind parses "270" or "271".
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.TrimSpace(s)) {
	case Kind270:
		return Kind270, nil
	case Kind271:
		return Kind271, nil
	default:
		return "", fmt.Errorf("unsupported transaction kind %q: must be 270 or 271", s)
	}
}

var segmentIDPattern = regexp.MustCompile(`^[A-Z0-9]{2,3}$`)

// Segment is one X12 segment. Elements are positional: Elements[0] is the
// first element after the identifier (e.g. ISA01). Empty elements are legal
// placeholders.
type Segment struct {
	ID       string   `json:"id"`
	Elements []string `json:"elements,omitempty"`
}

// NewSegment builds a segment from an identifier and its elements.
func NewSegment(id string, elements ...string) Segment {
	return Segment{ID: id, Elements: elements}
}

// Element returns the element at X12 position n (1-based), or "" when the
// segment is shorter.
func (s Segment) Element(n int) string {
	if n < 1 || n > len(s.Elements) {
		return ""
	}
	return s.Elements[n-1]
}

// String returns the encoded segment without its terminator.
func (s Segment) String() string {
	if len(s.Elements) == 0 {
		return s.ID
	}
	return s.ID + ElementSeparator + strings.Join(s.Elements, ElementSeparator)
}

// Encode serializes segments to wire form. Every segment, including the
// last, is followed by the terminator and nothing else is emitted.
func Encode(segments []Segment) string {
	var b strings.Builder
	for _, seg := range segments {
		b.WriteString(seg.String())
		b.WriteString(SegmentTerminator)
	}
	return b.String()
}

// DecodeError reports a payload that could not be split into segments.
type DecodeError struct {
	// Index is the zero-based position of the offending segment.
	Index int

	// Segment is the raw text of the offending segment.
	Segment string

	Message string
}

func (e *DecodeError) Error() string {
	if e.Segment == "" {
		return fmt.Sprintf("x12 decode: %s", e.Message)
	}
	return fmt.Sprintf("x12 decode: segment %d %q: %s", e.Index, truncate(e.Segment, 24), e.Message)
}

// Decode splits a wire payload into segments. Line breaks between segments
// are ignored, as are empty chunks after the final terminator.
//
// Decode fails when the payload is empty, does not begin with an ISA
// segment, or contains a segment with a malformed identifier.
func Decode(raw string) ([]Segment, error) {
	var segments []Segment
	for _, chunk := range strings.Split(raw, SegmentTerminator) {
		chunk = strings.Trim(chunk, "\r\n")
		if chunk == "" {
			continue
		}

		parts := strings.Split(chunk, ElementSeparator)
		id := parts[0]
		if len(segments) == 0 && id != "ISA" {
			return nil, &DecodeError{Index: 0, Segment: chunk, Message: "payload must begin with an ISA segment"}
		}
		if !segmentIDPattern.MatchString(id) {
			return nil, &DecodeError{Index: len(segments), Segment: chunk, Message: "invalid segment identifier"}
		}

		seg := Segment{ID: id}
		if len(parts) > 1 {
			seg.Elements = parts[1:]
		}
		segments = append(segments, seg)
	}

	if len(segments) == 0 {
		return nil, &DecodeError{Message: "payload is empty"}
	}
	return segments, nil
}

var cleaner = strings.NewReplacer(
	SegmentTerminator, "",
	ElementSeparator, "",
	SubElementSeparator, "",
	RepetitionSeparator, "",
	"\r", "",
	"\n", "",
)

// Clean removes delimiter characters from a caller-supplied element value
// so that it can never split or terminate a segment.
func Clean(value string) string {
	return strings.TrimSpace(cleaner.Replace(value))
}

// Payload is a complete interchange together with its wire form.
// Raw always equals Encode(Segments).
type Payload struct {
	Kind        Kind      `json:"kind"`
	Raw         string    `json:"raw"`
	Segments    []Segment `json:"segments"`
	GeneratedAt time.Time `json:"generatedAt"`

	source string
}

// NewPayload builds a payload from segments, encoding them once.
func NewPayload(kind Kind, segments []Segment, at time.Time) *Payload {
	return &Payload{
		Kind:        kind,
		Raw:         Encode(segments),
		Segments:    segments,
		GeneratedAt: at,
	}
}

// Parse decodes a submitted payload. When kind is empty it is taken from
// ST01. The submitted text is retained and returned by Source.
func Parse(raw string, kind Kind) (*Payload, error) {
	segments, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	if kind == "" {
		for _, seg := range segments {
			if seg.ID == "ST" {
				kind = Kind(seg.Element(1))
				break
			}
		}
	}
	p := NewPayload(kind, segments, time.Time{})
	p.source = raw
	return p, nil
}

// Source returns the text the payload was parsed from, or Raw for
// payloads built in memory.
func (p *Payload) Source() string {
	if p.source != "" {
		return p.source
	}
	return p.Raw
}

// Find returns every segment with the given identifier, in order.
func (p *Payload) Find(id string) []Segment {
	var out []Segment
	for _, seg := range p.Segments {
		if seg.ID == id {
			out = append(out, seg)
		}
	}
	return out
}

// First returns the first segment with the given identifier.
func (p *Payload) First(id string) (Segment, bool) {
	for _, seg := range p.Segments {
		if seg.ID == id {
			return seg, true
		}
	}
	return Segment{}, false
}

// Qualified returns the first segment with the given identifier whose
// first element equals qualifier (e.g. NM1 with "IL", DTP with "291").
func (p *Payload) Qualified(id, qualifier string) (Segment, bool) {
	for _, seg := range p.Segments {
		if seg.ID == id && seg.Element(1) == qualifier {
			return seg, true
		}
	}
	return Segment{}, false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
