package x12

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_TerminatesEverySegment(t *testing.T) {
	segs := []Segment{
		NewSegment("ISA", "00"),
		NewSegment("EQ", "30"),
		NewSegment("IEA", "1", "000000101"),
	}

	raw := Encode(segs)
	assert.Equal(t, "ISA*00~EQ*30~IEA*1*000000101~", raw)
	assert.True(t, strings.HasSuffix(raw, SegmentTerminator))
}

func TestEncode_EmptyElementsArePlaceholders(t *testing.T) {
	seg := NewSegment("EB", "1", "IND", "30", "", "", "", "1")
	assert.Equal(t, "EB*1*IND*30****1~", Encode([]Segment{seg}))
}

func TestDecode_RoundTrip(t *testing.T) {
	segs := []Segment{
		NewSegment("ISA", "00", "          ", "00"),
		NewSegment("NM1", "IL", "1", "DOE", "JOHN", "", "", "", "MI", "W883449464"),
		NewSegment("EB", "1", "IND", "30", "", "", "", "1"),
		NewSegment("HL", "1", "", "20", "1"),
		NewSegment("LE"),
		NewSegment("IEA", "1", "000000101"),
	}

	decoded, err := Decode(Encode(segs))
	require.NoError(t, err)

	if diff := cmp.Diff(segs, decoded, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_IgnoresLineBreaks(t *testing.T) {
	raw := "ISA*00~\r\nGS*HS~\nST*270*0101~\n\n"

	segs, err := Decode(raw)
	require.NoError(t, err)
	require.Len(t, segs, 3)
	assert.Equal(t, "GS", segs[1].ID)
	assert.Equal(t, []string{"270", "0101"}, segs[2].Elements)
}

func TestDecode_FormatOutputRoundTrips(t *testing.T) {
	segs := []Segment{
		NewSegment("ISA", "00"),
		NewSegment("ST", "271", "0101", Version),
		NewSegment("IEA", "1", "000000101"),
	}

	decoded, err := Decode(Format(segs))
	require.NoError(t, err)
	assert.Equal(t, segs, decoded)
}

func TestDecode_MustBeginWithISA(t *testing.T) {
	_, err := Decode("GS*HS~ST*270~")
	require.Error(t, err)

	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 0, de.Index)
	assert.Contains(t, de.Message, "ISA")
}

func TestDecode_Empty(t *testing.T) {
	for _, raw := range []string{"", "~~", "\n\n"} {
		_, err := Decode(raw)
		var de *DecodeError
		assert.ErrorAs(t, err, &de, "input %q", raw)
	}
}

func TestDecode_InvalidSegmentID(t *testing.T) {
	_, err := Decode("ISA*00~nm1*IL~")

	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 1, de.Index)
	assert.Contains(t, err.Error(), "invalid segment identifier")
}

func TestSegment_Element(t *testing.T) {
	seg := NewSegment("NM1", "PR", "2", "AETNA")

	assert.Equal(t, "PR", seg.Element(1))
	assert.Equal(t, "AETNA", seg.Element(3))
	assert.Equal(t, "", seg.Element(4))
	assert.Equal(t, "", seg.Element(0))
}

func TestClean_StripsDelimiters(t *testing.T) {
	assert.Equal(t, "OBRIEN", Clean("O*BRIEN~"))
	assert.Equal(t, "AB", Clean(" A:^B\n"))
	assert.Equal(t, "W883449464", Clean("W883449464"))
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("271")
	require.NoError(t, err)
	assert.Equal(t, Kind271, k)
	assert.Equal(t, "HB", k.FunctionalID())
	assert.Equal(t, "HS", Kind270.FunctionalID())

	_, err = ParseKind("837")
	assert.Error(t, err)
}

func TestParse_InfersKindAndKeepsSource(t *testing.T) {
	raw := "ISA*00~\nST*271*0101*005010X279A1~\nIEA*1*000000101~\n"

	p, err := Parse(raw, "")
	require.NoError(t, err)
	assert.Equal(t, Kind271, p.Kind)
	assert.Equal(t, raw, p.Source())
	assert.Equal(t, "ISA*00~ST*271*0101*005010X279A1~IEA*1*000000101~", p.Raw)
}

func TestPayload_Lookups(t *testing.T) {
	p := NewPayload(Kind271, []Segment{
		NewSegment("DTP", "291", "D8", "20250830"),
		NewSegment("DTP", "356", "D8", "20240101"),
		NewSegment("NM1", "IL", "1", "DOE"),
	}, time.Time{})

	dtp, ok := p.Qualified("DTP", "356")
	require.True(t, ok)
	assert.Equal(t, "20240101", dtp.Element(3))

	_, ok = p.Qualified("DTP", "357")
	assert.False(t, ok)

	assert.Len(t, p.Find("DTP"), 2)
	first, ok := p.First("NM1")
	require.True(t, ok)
	assert.Equal(t, "DOE", first.Element(3))
	assert.Equal(t, p.Raw, p.Source())
}
