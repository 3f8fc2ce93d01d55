package source

import (
	"io"

	"github.com/google/uuid"

	"github.com/zsiec/facet/internal/errors"
	"github.com/zsiec/facet/internal/media"
)

// MemorySource serves a fixed, pre-demuxed packet slice. It backs
// tests and boundary resolution over packets that were already pulled
// into memory. Packets must be in demux order with monotonic PTS.
type MemorySource struct {
	id      string
	packets []*media.Packet
	cursor  int
}

// NewMemorySource creates a source over the given packets. Packets
// without a StreamID are stamped with the source ID.
func NewMemorySource(packets []*media.Packet) *MemorySource {
	s := &MemorySource{
		id:      uuid.New().String(),
		packets: packets,
	}
	for _, p := range packets {
		if p.StreamID == "" {
			p.StreamID = s.id
		}
	}
	return s
}

// ID implements Source.
func (s *MemorySource) ID() string {
	return s.id
}

// Demux implements Source. The returned reader advances the source's
// shared cursor, so a later Seek affects only subsequent reads.
func (s *MemorySource) Demux() PacketReader {
	return &memoryReader{src: s}
}

// Seek implements SeekSource: it positions the cursor at the last
// keyframe whose PTS is at or before pts.
func (s *MemorySource) Seek(pts int64) error {
	found := -1
	for i, p := range s.packets {
		if !p.HasPTS || p.PTS > pts {
			continue
		}
		if p.Keyframe {
			found = i
		}
	}
	if found < 0 {
		return errors.NewSeekError("no keyframe at or before target pts", nil).WithDetails(map[string]interface{}{
			"pts": pts,
		})
	}
	s.cursor = found
	return nil
}

// Close implements Source.
func (s *MemorySource) Close() error {
	s.packets = nil
	s.cursor = 0
	return nil
}

type memoryReader struct {
	src *MemorySource
}

func (r *memoryReader) Next() (*media.Packet, error) {
	if r.src.cursor >= len(r.src.packets) {
		return nil, io.EOF
	}
	p := r.src.packets[r.src.cursor]
	r.src.cursor++
	return p, nil
}
