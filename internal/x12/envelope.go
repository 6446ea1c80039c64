package x12

import (
	"strconv"
	"strings"
	"time"
)

// Interchange defaults.
const (
	DefaultQualifier = "ZZ"
	TestUsage        = "T"
	ProductionUsage  = "P"

	isaIDWidth = 15
)

// Envelope describes the ISA/GS/ST header of one interchange.
type Envelope struct {
	Kind     Kind
	Controls ControlNumbers

	SenderID          string
	ReceiverID        string
	SenderQualifier   string // defaults to ZZ
	ReceiverQualifier string // defaults to ZZ

	// Usage is ISA15, T or P. Defaults to T.
	Usage string

	Time time.Time
}

// Header returns the ISA, GS and ST segments.
func (e Envelope) Header() []Segment {
	senderQual := orDefault(e.SenderQualifier, DefaultQualifier)
	receiverQual := orDefault(e.ReceiverQualifier, DefaultQualifier)

	isa := NewSegment("ISA",
		"00", strings.Repeat(" ", 10),
		"00", strings.Repeat(" ", 10),
		senderQual, PadID(e.SenderID),
		receiverQual, PadID(e.ReceiverID),
		e.Time.Format("060102"),
		e.Time.Format("1504"),
		RepetitionSeparator,
		InterchangeVersion,
		e.Controls.ISA,
		"0",
		orDefault(e.Usage, TestUsage),
		SubElementSeparator,
	)
	gs := NewSegment("GS",
		e.Kind.FunctionalID(),
		Clean(e.SenderID),
		Clean(e.ReceiverID),
		e.Time.Format("20060102"),
		e.Time.Format("1504"),
		e.Controls.GS,
		"X",
		Version,
	)
	st := NewSegment("ST", string(e.Kind), e.Controls.ST, Version)
	return []Segment{isa, gs, st}
}

// Wrap returns the complete interchange: header, body, then the SE, GE and
// IEA trailers. SE01 counts ST through SE inclusive.
func (e Envelope) Wrap(body []Segment) []Segment {
	out := make([]Segment, 0, len(body)+6)
	out = append(out, e.Header()...)
	out = append(out, body...)
	out = append(out,
		NewSegment("SE", strconv.Itoa(len(body)+2), e.Controls.ST),
		NewSegment("GE", "1", e.Controls.GS),
		NewSegment("IEA", "1", e.Controls.ISA),
	)
	return out
}

// PadID pads or truncates an interchange ID to the fixed ISA06/ISA08 width.
func PadID(id string) string {
	id = Clean(id)
	if len(id) >= isaIDWidth {
		return id[:isaIDWidth]
	}
	return id + strings.Repeat(" ", isaIDWidth-len(id))
}

// TransactionSegmentCount counts the segments from ST through SE inclusive.
// It returns 0 when either bound is missing.
func TransactionSegmentCount(segments []Segment) int {
	start, end := -1, -1
	for i, seg := range segments {
		switch seg.ID {
		case "ST":
			if start < 0 {
				start = i
			}
		case "SE":
			end = i
		}
	}
	if start < 0 || end < start {
		return 0
	}
	return end - start + 1
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
