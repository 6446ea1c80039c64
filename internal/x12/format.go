package x12

import (
	"fmt"
	"strings"
)

const annotateWidth = 80

var segmentNames = map[string]string{
	"ISA": "Interchange Control Header",
	"GS":  "Functional Group Header",
	"ST":  "Transaction Set Header",
	"BHT": "Beginning of Hierarchical Transaction",
	"HL":  "Hierarchical Level",
	"NM1": "Individual or Organizational Name",
	"TRN": "Trace Number",
	"DMG": "Demographic Information",
	"DTP": "Date or Time Period",
	"EQ":  "Eligibility or Benefit Inquiry",
	"EB":  "Eligibility or Benefit Information",
	"AAA": "Request Validation",
	"MSG": "Message Text",
	"SE":  "Transaction Set Trailer",
	"GE":  "Functional Group Trailer",
	"IEA": "Interchange Control Trailer",
}

var qualifierNames = map[string]map[string]string{
	"HL": {
		"20": "Information Source",
		"21": "Information Receiver",
		"22": "Subscriber",
	},
	"NM1": {
		"PR": "Payer",
		"1P": "Provider",
		"IL": "Subscriber",
	},
	"DTP": {
		"291": "Plan",
		"356": "Eligibility Begin",
		"357": "Eligibility End",
	},
	"EB": {
		"1": "Active Coverage",
		"6": "Inactive",
	},
}

// Describe returns a human-readable name for a segment, qualified by its
// leading code where one is known.
func Describe(seg Segment) string {
	name, ok := segmentNames[seg.ID]
	if !ok {
		return seg.ID
	}
	code := seg.Element(1)
	if seg.ID == "HL" {
		code = seg.Element(3)
	}
	if q, ok := qualifierNames[seg.ID][code]; ok {
		return name + " (" + q + ")"
	}
	return name
}

// Format renders segments one per line, each line ending in the terminator.
func Format(segments []Segment) string {
	var b strings.Builder
	for _, seg := range segments {
		b.WriteString(seg.String())
		b.WriteString(SegmentTerminator)
		b.WriteString("\n")
	}
	return b.String()
}

// Annotate renders segments one per line with a trailing description
// comment aligned at column 80.
func Annotate(segments []Segment) string {
	var b strings.Builder
	for _, seg := range segments {
		line := seg.String() + SegmentTerminator
		if pad := annotateWidth - len(line); pad > 0 {
			line += strings.Repeat(" ", pad)
		}
		fmt.Fprintf(&b, "%s // %s\n", line, Describe(seg))
	}
	return b.String()
}

// KeySegment is one notable segment surfaced by Summarize.
type KeySegment struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Value       string `json:"value"`
}

// Summary is a short description of a payload.
type Summary struct {
	TransactionType string       `json:"transactionType"`
	SegmentCount    int          `json:"segmentCount"`
	ControlNumber   string       `json:"controlNumber"`
	KeySegments     []KeySegment `json:"keySegments"`
}

var keySegmentIDs = map[string]bool{
	"ISA": true, "GS": true, "ST": true, "BHT": true,
	"NM1": true, "EQ": true, "EB": true, "AAA": true,
}

// Summarize reports the transaction type, segment count, interchange
// control number and key segments of a payload.
func Summarize(p *Payload) Summary {
	s := Summary{
		TransactionType: string(p.Kind),
		SegmentCount:    len(p.Segments),
	}
	if isa, ok := p.First("ISA"); ok {
		s.ControlNumber = isa.Element(13)
	}
	for _, seg := range p.Segments {
		if keySegmentIDs[seg.ID] {
			s.KeySegments = append(s.KeySegments, KeySegment{
				ID:          seg.ID,
				Description: Describe(seg),
				Value:       seg.String(),
			})
		}
	}
	return s
}
