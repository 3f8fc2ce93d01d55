// Package decode owns the decoder-state lifecycle: stateless and
// stateful per-packet decoding plus flush-based group decoding. The
// actual bitstream decode is behind the Decoder interface; this
// package models its buffering, ordering, and flush semantics.
package decode

import (
	"github.com/zsiec/facet/internal/media"
)

// Decoder is the consumed codec interface. Decode may return zero
// frames for a valid packet: inter-frame codecs buffer input until
// reference frames are complete. Flush drains whatever the decoder
// still holds and ends the decoder's life; behavior of Decode after
// Flush is codec-specific and the State wrapper rejects it before it
// reaches the codec.
type Decoder interface {
	Decode(pkt *media.Packet) ([]*media.Frame, error)
	Flush() ([]*media.Frame, error)
}

// DecoderFactory binds fresh decoders to streams. One decoder serves
// one decoding session; a flushed session needs a new decoder.
type DecoderFactory interface {
	NewDecoder(streamID string) (Decoder, error)
}
