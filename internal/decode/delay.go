package decode

import (
	"github.com/zsiec/facet/internal/errors"
	"github.com/zsiec/facet/internal/media"
)

// DelayDecoder is a synthetic decoder that models codec buffering: it
// holds up to depth packets before emitting a frame per evicted
// packet, in order. Flush drains the line. With depth zero it behaves
// like an ideal non-buffering decoder. Frames are conserved: every
// accepted packet produces exactly one frame, at decode or at flush.
type DelayDecoder struct {
	depth   int
	queue   []*media.Packet
	flushed bool
}

// NewDelayDecoder creates a delay-line decoder holding depth packets.
func NewDelayDecoder(depth int) *DelayDecoder {
	if depth < 0 {
		depth = 0
	}
	return &DelayDecoder{depth: depth}
}

// Decode implements Decoder.
func (d *DelayDecoder) Decode(pkt *media.Packet) ([]*media.Frame, error) {
	if d.flushed {
		return nil, errors.NewStateError("delay decoder already flushed")
	}
	if pkt == nil {
		return nil, errors.NewDecodeError("nil packet", nil)
	}

	d.queue = append(d.queue, pkt)

	var frames []*media.Frame
	for len(d.queue) > d.depth {
		frames = append(frames, d.frameFor(d.queue[0]))
		d.queue = d.queue[1:]
	}
	return frames, nil
}

// Flush implements Decoder.
func (d *DelayDecoder) Flush() ([]*media.Frame, error) {
	if d.flushed {
		return nil, errors.NewStateError("delay decoder already flushed")
	}
	d.flushed = true

	frames := make([]*media.Frame, 0, len(d.queue))
	for _, pkt := range d.queue {
		frames = append(frames, d.frameFor(pkt))
	}
	d.queue = nil
	return frames, nil
}

func (d *DelayDecoder) frameFor(pkt *media.Packet) *media.Frame {
	return &media.Frame{
		PTS:      pkt.PTS,
		TimeBase: pkt.TimeBase,
		Keyframe: pkt.Keyframe,
	}
}

// DelayFactory creates DelayDecoders of a fixed depth.
type DelayFactory struct {
	Depth int
}

// NewDecoder implements DecoderFactory.
func (f DelayFactory) NewDecoder(streamID string) (Decoder, error) {
	return NewDelayDecoder(f.Depth), nil
}
