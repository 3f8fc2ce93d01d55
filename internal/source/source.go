// Package source owns the packet-source boundary: it adapts containers
// into ordered, lazily pulled streams of numbered packets. Ordinals are
// assigned here, in demux order, not by the container.
package source

import (
	"io"

	"github.com/zsiec/facet/internal/media"
)

// PacketReader is a pull iterator over packets. Next returns io.EOF
// once the stream is exhausted and keeps returning it afterward.
type PacketReader interface {
	Next() (*media.Packet, error)
}

// Source yields packets from an opened container.
type Source interface {
	// ID identifies this source handle. It doubles as the StreamID
	// stamped on every packet the source produces.
	ID() string

	// Demux returns a reader positioned at the source's current read
	// position. Readers from the same source share that position.
	Demux() PacketReader

	Close() error
}

// SeekSource is a source that supports repositioning. Seek moves the
// read position backward to the nearest keyframe at or before the
// given PTS; the next Demux reader starts there.
type SeekSource interface {
	Source
	Seek(pts int64) error
}

// SliceReader reads packets from an in-memory slice.
type SliceReader struct {
	packets []*media.Packet
	pos     int
}

// NewSliceReader creates a reader over pre-demuxed packets.
func NewSliceReader(packets []*media.Packet) *SliceReader {
	return &SliceReader{packets: packets}
}

// Next implements PacketReader.
func (r *SliceReader) Next() (*media.Packet, error) {
	if r.pos >= len(r.packets) {
		return nil, io.EOF
	}
	p := r.packets[r.pos]
	r.pos++
	return p, nil
}
