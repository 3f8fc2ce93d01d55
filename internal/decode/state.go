package decode

import (
	"github.com/zsiec/facet/internal/errors"
	"github.com/zsiec/facet/internal/media"
)

// ErrStateFlushed is returned when a flushed decoder state is used
// again. A flush is terminal: obtain a fresh state for a new session.
var ErrStateFlushed = errors.NewStateError("decoder state already flushed")

type statePhase int

const (
	stateUninitialized statePhase = iota
	stateActive
	stateFlushed
)

// State is the explicit, single-owner decoder state handle. It wraps a
// Decoder and enforces the lifecycle: uninitialized, then active on
// the first decode, then flushed exactly once. A State must not be
// shared across goroutines; ownership is passed explicitly.
type State struct {
	streamID string
	dec      Decoder
	phase    statePhase
}

// NewState binds a decoder to a stream as a fresh decoding session.
func NewState(streamID string, dec Decoder) *State {
	return &State{streamID: streamID, dec: dec}
}

// StreamID returns the stream this state is bound to.
func (s *State) StreamID() string {
	return s.streamID
}

// Active reports whether at least one packet has been decoded.
func (s *State) Active() bool {
	return s.phase == stateActive
}

// Flushed reports whether the session has ended.
func (s *State) Flushed() bool {
	return s.phase == stateFlushed
}

// Decode sends one packet to the decoder and returns any frames it
// emits. Zero frames is a normal outcome, not an error.
func (s *State) Decode(pkt *media.Packet) ([]*media.Frame, error) {
	if s.phase == stateFlushed {
		return nil, ErrStateFlushed
	}
	s.phase = stateActive
	return s.dec.Decode(pkt)
}

// Flush drains any buffered frames and ends the session. Flushing an
// already-flushed state is a caller error.
func (s *State) Flush() ([]*media.Frame, error) {
	if s.phase == stateFlushed {
		return nil, ErrStateFlushed
	}
	s.phase = stateFlushed
	return s.dec.Flush()
}
