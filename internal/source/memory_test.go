package source

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zsiec/facet/internal/errors"
	"github.com/zsiec/facet/internal/media"
)

// gopPackets builds a stream of two GOPs: keyframes at ordinals 0 and
// 3, with one PTS tick of 3000 per packet.
func gopPackets() []*media.Packet {
	packets := make([]*media.Packet, 6)
	for i := range packets {
		packets[i] = &media.Packet{
			Ordinal:  int64(i),
			PTS:      int64(i) * 3000,
			HasPTS:   true,
			Size:     100,
			Keyframe: i == 0 || i == 3,
			TimeBase: media.TimeBase90kHz,
		}
	}
	return packets
}

func drain(t *testing.T, r PacketReader) []*media.Packet {
	t.Helper()
	var out []*media.Packet
	for {
		p, err := r.Next()
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
		out = append(out, p)
	}
}

func TestSliceReader(t *testing.T) {
	packets := gopPackets()
	r := NewSliceReader(packets)

	out := drain(t, r)
	assert.Equal(t, packets, out)

	// Exhausted readers keep returning io.EOF.
	_, err := r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestSliceReaderEmpty(t *testing.T) {
	_, err := NewSliceReader(nil).Next()
	assert.Equal(t, io.EOF, err)
}

func TestMemorySourceDemux(t *testing.T) {
	src := NewMemorySource(gopPackets())

	out := drain(t, src.Demux())
	require.Len(t, out, 6)

	// Every packet was stamped with the source ID.
	for _, p := range out {
		assert.Equal(t, src.ID(), p.StreamID)
	}
}

func TestMemorySourceSharedCursor(t *testing.T) {
	src := NewMemorySource(gopPackets())

	r1 := src.Demux()
	p, err := r1.Next()
	require.NoError(t, err)
	assert.Equal(t, int64(0), p.Ordinal)

	// A second reader continues from the shared position.
	r2 := src.Demux()
	p, err = r2.Next()
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.Ordinal)
}

func TestMemorySourceSeek(t *testing.T) {
	src := NewMemorySource(gopPackets())

	// Target PTS 12000 (ordinal 4): nearest prior keyframe is ordinal 3.
	require.NoError(t, src.Seek(12000))
	p, err := src.Demux().Next()
	require.NoError(t, err)
	assert.Equal(t, int64(3), p.Ordinal)

	// Exact keyframe PTS positions at that keyframe.
	require.NoError(t, src.Seek(0))
	p, err = src.Demux().Next()
	require.NoError(t, err)
	assert.Equal(t, int64(0), p.Ordinal)
}

func TestMemorySourceSeekNoKeyframe(t *testing.T) {
	packets := gopPackets()
	for _, p := range packets {
		p.Keyframe = false
	}
	src := NewMemorySource(packets)

	err := src.Seek(3000)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeSeek))
}

func TestMemorySourceClose(t *testing.T) {
	src := NewMemorySource(gopPackets())
	require.NoError(t, src.Close())

	_, err := src.Demux().Next()
	assert.Equal(t, io.EOF, err)
}
