package x12

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2025, 8, 30, 14, 5, 0, 0, time.UTC)

func testEnvelope(kind Kind) Envelope {
	return Envelope{
		Kind:       kind,
		Controls:   ControlNumbersFor(101),
		SenderID:   "030240928",
		ReceiverID: "6686CBAF-048001",
		Time:       fixedTime,
	}
}

func TestEnvelope_Header(t *testing.T) {
	header := testEnvelope(Kind270).Header()
	require.Len(t, header, 3)

	isa := header[0]
	assert.Len(t, isa.Elements, 16)
	assert.Equal(t,
		"ISA*00*          *00*          *ZZ*030240928      *ZZ*6686CBAF-048001*250830*1405*^*00501*000000101*0*T*:",
		isa.String())
	assert.Len(t, isa.Element(6), 15)
	assert.Len(t, isa.Element(8), 15)

	assert.Equal(t, "GS*HS*030240928*6686CBAF-048001*20250830*1405*101*X*005010X279A1", header[1].String())
	assert.Equal(t, "ST*270*0101*005010X279A1", header[2].String())
}

func TestEnvelope_FunctionalIDPer271(t *testing.T) {
	header := testEnvelope(Kind271).Header()
	assert.Equal(t, "HB", header[1].Element(1))
	assert.Equal(t, "271", header[2].Element(1))
}

func TestEnvelope_UsageIndicator(t *testing.T) {
	env := testEnvelope(Kind270)
	env.Usage = ProductionUsage
	assert.Equal(t, "P", env.Header()[0].Element(15))
}

func TestEnvelope_WrapEchoesControlsAndCounts(t *testing.T) {
	env := testEnvelope(Kind270)
	body := []Segment{
		NewSegment("BHT", "0022", "13"),
		NewSegment("HL", "1", "", "20", "1"),
		NewSegment("EQ", "30"),
	}

	segs := env.Wrap(body)
	require.Len(t, segs, 9)

	se, ge, iea := segs[6], segs[7], segs[8]
	assert.Equal(t, "SE", se.ID)
	assert.Equal(t, "5", se.Element(1))
	assert.Equal(t, env.Controls.ST, se.Element(2))
	assert.Equal(t, env.Controls.GS, ge.Element(2))
	assert.Equal(t, env.Controls.ISA, iea.Element(2))
	assert.Equal(t, 5, TransactionSegmentCount(segs))
}

func TestPadID(t *testing.T) {
	assert.Equal(t, "ABC            ", PadID("ABC"))
	assert.Equal(t, "123456789012345", PadID("1234567890123456789"))
}

func TestTransactionSegmentCount_MissingBounds(t *testing.T) {
	assert.Equal(t, 0, TransactionSegmentCount([]Segment{NewSegment("ST")}))
	assert.Equal(t, 0, TransactionSegmentCount([]Segment{NewSegment("SE"), NewSegment("ST")}))
}

func TestControlNumbersFor(t *testing.T) {
	tests := []struct {
		n    int64
		want ControlNumbers
	}{
		{101, ControlNumbers{ISA: "000000101", GS: "101", ST: "0101"}},
		{1, ControlNumbers{ISA: "000000001", GS: "1", ST: "0001"}},
		{10000, ControlNumbers{ISA: "000010000", GS: "10000", ST: "0001"}},
		{123456789, ControlNumbers{ISA: "123456789", GS: "123456789", ST: "6789"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ControlNumbersFor(tt.n), "n=%d", tt.n)
	}
}

func TestSequence_NextIsMonotonic(t *testing.T) {
	seq := NewSequenceAt(100)
	assert.Equal(t, "000000101", seq.Next().ISA)
	assert.Equal(t, "000000102", seq.Next().ISA)
	assert.Equal(t, int64(102), seq.Current())
}

func TestSequence_ConcurrentUnique(t *testing.T) {
	seq := NewSequence()
	const workers, perWorker = 20, 50

	var mu sync.Mutex
	seen := make(map[string]bool)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				c := seq.Next()
				mu.Lock()
				seen[c.ISA] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*perWorker)
}

func TestFixedControls(t *testing.T) {
	src := FixedControls(ControlNumbersFor(7))
	assert.Equal(t, src.Next(), src.Next())
}

func TestAnnotate_AlignsComments(t *testing.T) {
	out := Annotate([]Segment{
		NewSegment("NM1", "IL", "1", "DOE"),
		NewSegment("DTP", "357", "D8", "20240731"),
	})

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 2)
	for _, line := range lines {
		assert.Equal(t, " // ", line[80:84])
	}
	assert.True(t, strings.HasSuffix(lines[0], "Individual or Organizational Name (Subscriber)"))
	assert.True(t, strings.HasSuffix(lines[1], "Date or Time Period (Eligibility End)"))
}

func TestDescribe_HierarchicalLevelUsesLevelCode(t *testing.T) {
	assert.Equal(t, "Hierarchical Level (Subscriber)", Describe(NewSegment("HL", "3", "2", "22", "0")))
	assert.Equal(t, "ZZZ", Describe(NewSegment("ZZZ")))
}

func TestSummarize(t *testing.T) {
	env := testEnvelope(Kind270)
	p := NewPayload(Kind270, env.Wrap([]Segment{
		NewSegment("NM1", "PR", "2", "AETNA"),
		NewSegment("EQ", "30"),
		NewSegment("DTP", "291", "D8", "20250830"),
	}), fixedTime)

	s := Summarize(p)
	assert.Equal(t, "270", s.TransactionType)
	assert.Equal(t, 9, s.SegmentCount)
	assert.Equal(t, "000000101", s.ControlNumber)

	var ids []string
	for _, k := range s.KeySegments {
		ids = append(ids, k.ID)
	}
	assert.Equal(t, []string{"ISA", "GS", "ST", "NM1", "EQ"}, ids)
}
