package decode

import (
	"io"

	"github.com/zsiec/facet/internal/errors"
	"github.com/zsiec/facet/internal/logger"
	"github.com/zsiec/facet/internal/media"
	"github.com/zsiec/facet/internal/metrics"
	"github.com/zsiec/facet/internal/source"
)

// Engine drives decoders over packet streams. Per-packet decode
// failures are expected during streaming decode (incomplete frame
// data, mid-stream corruption) and are logged and swallowed: they
// yield an empty frame list, never abort the surrounding group.
type Engine struct {
	factory  DecoderFactory
	log      logger.Logger
	defaults map[string]*State
}

// NewEngine creates a decode engine backed by the given factory.
func NewEngine(factory DecoderFactory, log logger.Logger) *Engine {
	return &Engine{
		factory:  factory,
		log:      log.WithField("component", "decode_engine"),
		defaults: make(map[string]*State),
	}
}

// Stateless decodes one packet against its stream's default decoder
// state. The default state may already be partly advanced by earlier
// Stateless calls for the same stream; this function does not manage
// that. Failures yield an empty list.
func (e *Engine) Stateless(pkt *media.Packet) []*media.Frame {
	st, err := e.defaultState(pkt.StreamID)
	if err != nil {
		e.log.WithError(err).WithField("ordinal", pkt.Ordinal).Warn("No decoder state for stream")
		metrics.IncrementDecodeErrors(pkt.StreamID)
		return nil
	}

	frames, err := st.Decode(pkt)
	if err != nil {
		e.log.WithError(err).WithField("ordinal", pkt.Ordinal).Debug("Packet decode failed")
		metrics.IncrementDecodeErrors(pkt.StreamID)
		return nil
	}

	metrics.AddFramesDecoded(pkt.StreamID, len(frames))
	return frames
}

// Stateful decodes one packet against an explicitly threaded state.
// Pass nil to begin a session: a fresh state bound to the packet's
// stream is created and returned for reuse. Per-packet decode
// failures are swallowed; structural errors (no decoder available,
// state already flushed) are returned.
func (e *Engine) Stateful(pkt *media.Packet, st *State) ([]*media.Frame, *State, error) {
	if st == nil {
		dec, err := e.factory.NewDecoder(pkt.StreamID)
		if err != nil {
			return nil, nil, errors.Wrap(err, errors.ErrorTypeState, "obtaining decoder state")
		}
		st = NewState(pkt.StreamID, dec)
	}

	frames, err := st.Decode(pkt)
	if err != nil {
		if errors.IsType(err, errors.ErrorTypeState) {
			return nil, st, err
		}
		e.log.WithError(err).WithField("ordinal", pkt.Ordinal).Debug("Packet decode failed")
		metrics.IncrementDecodeErrors(pkt.StreamID)
		return nil, st, nil
	}

	metrics.AddFramesDecoded(pkt.StreamID, len(frames))
	return frames, st, nil
}

// DecodeAll decodes a materialized packet group through a fresh
// session, flush included, and returns every recovered frame.
func (e *Engine) DecodeAll(packets []*media.Packet) []*media.Frame {
	var frames []*media.Frame
	g := e.GroupWithFlush(source.NewSliceReader(packets), 0)
	for {
		entry, err := g.Next()
		if err != nil {
			return frames
		}
		frames = append(frames, entry.Frames...)
	}
}

func (e *Engine) defaultState(streamID string) (*State, error) {
	if st, ok := e.defaults[streamID]; ok {
		return st, nil
	}
	dec, err := e.factory.NewDecoder(streamID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeState, "obtaining decoder state")
	}
	st := NewState(streamID, dec)
	e.defaults[streamID] = st
	return st, nil
}

// Entry is one element of a flush-based group decode: either the
// frames produced by one packet, or the final flush drain.
type Entry struct {
	// Ordinal of the decoded packet. Meaningless when Flushed is set.
	Ordinal int64

	// Frames recovered at this step; may be empty while the decoder
	// buffers.
	Frames []*media.Frame

	// Flushed marks the final entry carrying flush-drained frames.
	Flushed bool
}

// GroupDecoder lazily decodes one packet group, sharing a single
// decoder session across the whole enumeration and flushing exactly
// once at the end.
type GroupDecoder struct {
	e        *Engine
	r        source.PacketReader
	max      int
	count    int
	st       *State
	flushing bool
	done     bool
}

// GroupWithFlush decodes up to maxPackets packets from r (zero or
// negative means unbounded), then flushes once and emits a final
// flush entry. Each packet yields one entry even when the decoder
// buffers and returns no frames.
//
// With zero input packets no decoder state is ever established, so no
// flush entry is emitted and the enumeration is empty. A source error
// mid-scan ends the enumeration early, without a flush.
func (e *Engine) GroupWithFlush(r source.PacketReader, maxPackets int) *GroupDecoder {
	return &GroupDecoder{e: e, r: r, max: maxPackets}
}

// Next returns the next entry, or io.EOF once the group, flush
// included, is exhausted.
func (g *GroupDecoder) Next() (Entry, error) {
	if g.done {
		return Entry{}, io.EOF
	}

	if !g.flushing {
		if g.max > 0 && g.count >= g.max {
			g.flushing = true
		} else {
			p, err := g.r.Next()
			switch {
			case err == io.EOF:
				g.flushing = true
			case err != nil:
				g.e.log.WithError(err).Warn("Packet source failed mid-group, ending decode")
				g.done = true
				return Entry{}, io.EOF
			default:
				g.count++
				if g.st == nil {
					dec, ferr := g.e.factory.NewDecoder(p.StreamID)
					if ferr != nil {
						g.e.log.WithError(ferr).Warn("No decoder for stream, ending decode")
						g.done = true
						return Entry{}, io.EOF
					}
					g.st = NewState(p.StreamID, dec)
				}

				frames, derr := g.st.Decode(p)
				if derr != nil {
					g.e.log.WithError(derr).WithField("ordinal", p.Ordinal).Debug("Packet decode failed")
					metrics.IncrementDecodeErrors(p.StreamID)
					frames = nil
				} else {
					metrics.AddFramesDecoded(p.StreamID, len(frames))
				}
				return Entry{Ordinal: p.Ordinal, Frames: frames}, nil
			}
		}
	}

	// Flush path: exactly once, and only if a session was established.
	g.done = true
	if g.st == nil {
		return Entry{}, io.EOF
	}

	frames, err := g.st.Flush()
	if err != nil {
		g.e.log.WithError(err).Warn("Decoder flush failed")
		return Entry{}, io.EOF
	}
	metrics.AddFramesFlushed(g.st.StreamID(), len(frames))
	return Entry{Frames: frames, Flushed: true}, nil
}
