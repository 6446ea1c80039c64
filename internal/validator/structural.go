package validator

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/roach88/eligsim/internal/x12"
)

var requiredSegments = []string{"ISA", "GS", "ST", "BHT", "HL", "NM1", "SE", "GE", "IEA"}

var nineDigits = regexp.MustCompile(`^[0-9]{9}$`)

// Structural checks the envelope and segment presence rules that apply to
// every transaction regardless of scenario.
func Structural(p *x12.Payload) []Finding {
	kind := p.Kind
	required := requiredSegments
	if kind == x12.Kind270 {
		required = append(append([]string(nil), requiredSegments...), "EQ")
	}

	present := make(map[string]bool, len(p.Segments))
	for _, seg := range p.Segments {
		present[seg.ID] = true
	}

	var findings []Finding
	for _, id := range required {
		findings = append(findings, check("X12_FORMAT_"+id, kind, Error, present[id],
			id+" segment present",
			id+" segment is required"))
	}

	first, last := "", ""
	if n := len(p.Segments); n > 0 {
		first, last = p.Segments[0].ID, p.Segments[n-1].ID
	}
	findings = append(findings,
		check("ISA_FIRST", kind, Error, first == "ISA",
			"ISA is the first segment",
			fmt.Sprintf("ISA segment must be first (found %s)", orNone(first))),
		check("IEA_LAST", kind, Error, last == "IEA",
			"IEA is the last segment",
			fmt.Sprintf("IEA must be last (found %s)", orNone(last))),
	)

	findings = append(findings,
		controlEcho(p, "ISA_IEA_CONTROL", "ISA", 13, "IEA", 2),
		controlEcho(p, "GS_GE_CONTROL", "GS", 6, "GE", 2),
		controlEcho(p, "ST_SE_CONTROL", "ST", 2, "SE", 2),
		segmentCount(p),
		terminator(p),
	)

	st, _ := p.First("ST")
	findings = append(findings, check("ST_TRANSACTION_TYPE", kind, Error,
		kind != "" && st.Element(1) == string(kind),
		fmt.Sprintf("ST01 identifies a %s transaction", kind),
		fmt.Sprintf("ST01 %q does not identify a %s transaction", st.Element(1), orNone(string(kind)))))

	gs, _ := p.First("GS")
	findings = append(findings, check("GS_FUNCTIONAL_ID", kind, Warning,
		gs.Element(1) != "" && gs.Element(1) == kind.FunctionalID(),
		"GS01 functional identifier matches the transaction set",
		fmt.Sprintf("GS01 %q should be %q for %s", gs.Element(1), kind.FunctionalID(), orNone(string(kind)))))

	isa, _ := p.First("ISA")
	findings = append(findings, check("ISA13_FORMAT", kind, Warning,
		nineDigits.MatchString(isa.Element(13)),
		"ISA13 is a 9-digit control number",
		fmt.Sprintf("ISA13 %q should be a 9-digit control number", isa.Element(13))))

	return findings
}

func controlEcho(p *x12.Payload, rule, headerID string, headerPos int, trailerID string, trailerPos int) Finding {
	header, hok := p.First(headerID)
	trailer, tok := p.First(trailerID)
	want, got := header.Element(headerPos), trailer.Element(trailerPos)
	ok := hok && tok && want != "" && want == got

	hName := fmt.Sprintf("%s%02d", headerID, headerPos)
	tName := fmt.Sprintf("%s%02d", trailerID, trailerPos)
	return check(rule, p.Kind, Error, ok,
		fmt.Sprintf("%s matches %s", tName, hName),
		fmt.Sprintf("%s %q must echo %s %q", tName, got, hName, want))
}

func segmentCount(p *x12.Payload) Finding {
	se, ok := p.First("SE")
	want := x12.TransactionSegmentCount(p.Segments)
	got, err := strconv.Atoi(se.Element(1))
	ok = ok && err == nil && want > 0 && got == want
	return check("SE_SEGMENT_COUNT", p.Kind, Error, ok,
		fmt.Sprintf("SE01 matches the %d segments from ST to SE", want),
		fmt.Sprintf("SE01 %q does not match the %d segments from ST to SE", se.Element(1), want))
}

func terminator(p *x12.Payload) Finding {
	src := strings.TrimRight(p.Source(), " \t\r\n")
	return check("SEGMENT_TERMINATOR", p.Kind, Error, strings.HasSuffix(src, x12.SegmentTerminator),
		"every segment is terminated with ~",
		"final segment is not terminated with ~")
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
