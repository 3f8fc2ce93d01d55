package group

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zsiec/facet/internal/media"
	"github.com/zsiec/facet/internal/source"
)

// gop builds n packets with PTS spaced 3000 ticks apart and a keyframe
// every third packet, starting at ordinal 0.
func gop(n int) []*media.Packet {
	packets := make([]*media.Packet, n)
	for i := 0; i < n; i++ {
		packets[i] = &media.Packet{
			Ordinal:  int64(i),
			PTS:      int64(i) * 3000,
			HasPTS:   true,
			Size:     100,
			Keyframe: i%3 == 0,
			StreamID: "test",
			TimeBase: media.TimeBase90kHz,
		}
	}
	return packets
}

func collectBoundaries(t *testing.T, sc *BoundaryScanner) []Boundary {
	t.Helper()
	var out []Boundary
	for {
		b, err := sc.Next()
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
		out = append(out, b)
	}
}

func TestScanBoundariesPredicateTransitions(t *testing.T) {
	packets := gop(10)
	pred := func(p *media.Packet) bool {
		return (p.Ordinal >= 2 && p.Ordinal <= 4) || p.Ordinal == 7 || p.Ordinal == 8
	}

	sc := ScanBoundaries(source.NewSliceReader(packets), pred)
	bounds := collectBoundaries(t, sc)

	require.Len(t, bounds, 2)
	assert.Equal(t, Boundary{StartOrdinal: 2, EndOrdinal: 4, StartPTS: 6000, EndPTS: 12000}, bounds[0])
	assert.Equal(t, Boundary{StartOrdinal: 7, EndOrdinal: 8, StartPTS: 21000, EndPTS: 24000}, bounds[1])
}

func TestScanBoundariesOpenBoundaryAtEOF(t *testing.T) {
	packets := gop(6)
	pred := func(p *media.Packet) bool { return p.Ordinal >= 4 }

	bounds := collectBoundaries(t, ScanBoundaries(source.NewSliceReader(packets), pred))

	require.Len(t, bounds, 1)
	assert.Equal(t, int64(4), bounds[0].StartOrdinal)
	assert.Equal(t, int64(5), bounds[0].EndOrdinal)
}

func TestScanBoundariesOrdinalGapDoesNotSplit(t *testing.T) {
	// Boundaries are resolved by timestamp range later, so a gap in
	// ordinals inside a matching stretch stays one boundary.
	packets := gop(6)
	packets = append(packets[:3], packets[4:]...)

	bounds := collectBoundaries(t, ScanBoundaries(source.NewSliceReader(packets), media.MatchAll()))

	require.Len(t, bounds, 1)
	assert.Equal(t, int64(0), bounds[0].StartOrdinal)
	assert.Equal(t, int64(5), bounds[0].EndOrdinal)
}

func TestScanBoundariesMissingPTSClosesBoundary(t *testing.T) {
	packets := gop(5)
	packets[2].HasPTS = false

	bounds := collectBoundaries(t, ScanBoundaries(source.NewSliceReader(packets), media.MatchAll()))

	require.Len(t, bounds, 2)
	assert.Equal(t, int64(0), bounds[0].StartOrdinal)
	assert.Equal(t, int64(1), bounds[0].EndOrdinal)
	assert.Equal(t, int64(3), bounds[1].StartOrdinal)
	assert.Equal(t, int64(4), bounds[1].EndOrdinal)
}

func TestScanBoundariesEmptyInput(t *testing.T) {
	sc := ScanBoundaries(source.NewSliceReader(nil), media.MatchAll())

	_, err := sc.Next()
	assert.Equal(t, io.EOF, err)

	// EOF is sticky.
	_, err = sc.Next()
	assert.Equal(t, io.EOF, err)
}

func TestScanBoundariesNoMatches(t *testing.T) {
	sc := ScanBoundaries(source.NewSliceReader(gop(8)), func(*media.Packet) bool { return false })

	_, err := sc.Next()
	assert.Equal(t, io.EOF, err)
}

func TestScanBoundariesSinglePacketBoundary(t *testing.T) {
	packets := gop(5)
	pred := func(p *media.Packet) bool { return p.Ordinal == 2 }

	bounds := collectBoundaries(t, ScanBoundaries(source.NewSliceReader(packets), pred))

	require.Len(t, bounds, 1)
	assert.Equal(t, bounds[0].StartOrdinal, bounds[0].EndOrdinal)
	assert.Equal(t, bounds[0].StartPTS, bounds[0].EndPTS)
}
