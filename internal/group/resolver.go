package group

import (
	"io"

	"github.com/zsiec/facet/internal/decode"
	"github.com/zsiec/facet/internal/logger"
	"github.com/zsiec/facet/internal/media"
	"github.com/zsiec/facet/internal/metrics"
	"github.com/zsiec/facet/internal/source"
)

// Resolver is pass two: it turns boundaries back into decoded frames
// by seeking the source to the keyframe preceding each boundary and
// decoding forward. Seek and decode failures degrade to partial or
// empty groups rather than aborting the stream.
type Resolver struct {
	src     source.SeekSource
	factory decode.DecoderFactory
	log     logger.Logger
}

// NewResolver creates a resolver over a seekable source. The resolver
// owns the source's read position between calls; do not interleave
// other readers on the same source.
func NewResolver(src source.SeekSource, factory decode.DecoderFactory, log logger.Logger) *Resolver {
	return &Resolver{
		src:     src,
		factory: factory,
		log:     log.WithField("component", "resolver"),
	}
}

// ResolveBoundary decodes the frames within a boundary's PTS span.
func (r *Resolver) ResolveBoundary(b Boundary) []*media.Frame {
	return r.ResolveRange(b.StartPTS, b.EndPTS)
}

// ResolveRange seeks to the keyframe at or before startPTS, decodes
// forward, and returns the frames with startPTS <= PTS <= endPTS. A
// seek failure yields nil; a mid-range failure yields the frames
// decoded so far.
func (r *Resolver) ResolveRange(startPTS, endPTS int64) []*media.Frame {
	if err := r.src.Seek(startPTS); err != nil {
		r.log.WithError(err).WithField("pts", startPTS).Warn("Seek failed, skipping group")
		metrics.IncrementSeekErrors(r.src.ID())
		return nil
	}

	dec, err := r.factory.NewDecoder(r.src.ID())
	if err != nil {
		r.log.WithError(err).Warn("No decoder for stream, skipping group")
		metrics.IncrementDecodeErrors(r.src.ID())
		return nil
	}
	st := decode.NewState(r.src.ID(), dec)

	keep := func(f *media.Frame) bool {
		return f.PTS >= startPTS && f.PTS <= endPTS
	}

	var out []*media.Frame
	rd := r.src.Demux()
	for {
		p, err := rd.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			r.log.WithError(err).Warn("Source failed mid-group, returning partial frames")
			return out
		}
		if p.HasPTS && p.PTS > endPTS {
			break
		}

		frames, derr := st.Decode(p)
		if derr != nil {
			r.log.WithError(derr).WithField("ordinal", p.Ordinal).Debug("Packet decode failed")
			metrics.IncrementDecodeErrors(p.StreamID)
			continue
		}
		for _, f := range frames {
			if keep(f) {
				out = append(out, f)
			}
		}
	}

	flushed, ferr := st.Flush()
	if ferr != nil {
		r.log.WithError(ferr).Debug("Flush failed, returning partial frames")
		metrics.IncrementDecodeErrors(r.src.ID())
		return out
	}
	for _, f := range flushed {
		if keep(f) {
			out = append(out, f)
		}
	}
	metrics.AddFramesDecoded(r.src.ID(), len(out))
	return out
}

// ResolvePackets decodes exactly the frames whose PTS matches one of
// the given packets. It is the retained-packet counterpart of
// ResolveBoundary, used when a group's packets are in hand but their
// frames are not. Packets without a PTS contribute nothing.
func (r *Resolver) ResolvePackets(pkts []*media.Packet) []*media.Frame {
	want := make(map[int64]struct{}, len(pkts))
	var minPTS, maxPTS int64
	first := true
	for _, p := range pkts {
		if !p.HasPTS {
			continue
		}
		want[p.PTS] = struct{}{}
		if first || p.PTS < minPTS {
			minPTS = p.PTS
		}
		if first || p.PTS > maxPTS {
			maxPTS = p.PTS
		}
		first = false
	}
	if len(want) == 0 {
		return nil
	}

	frames := r.ResolveRange(minPTS, maxPTS)
	out := frames[:0]
	for _, f := range frames {
		if _, ok := want[f.PTS]; ok {
			out = append(out, f)
		}
	}
	return out
}

// FrameGroups streams decoded frame groups, one per boundary.
type FrameGroups struct {
	sc  *BoundaryScanner
	res *Resolver
}

// StreamGroups wires both passes together: boundaries are scanned from
// rd while frames are resolved against the resolver's own source
// handle. The two must be distinct handles over the same content, or
// each resolve would clobber the scan position.
func (r *Resolver) StreamGroups(rd source.PacketReader, pred media.Predicate) *FrameGroups {
	return &FrameGroups{sc: ScanBoundaries(rd, pred), res: r}
}

// Next returns the next non-empty frame group, or io.EOF. Boundaries
// whose frames are all lost to seek or decode failures are skipped.
func (g *FrameGroups) Next() ([]*media.Frame, error) {
	for {
		b, err := g.sc.Next()
		if err != nil {
			return nil, err
		}
		frames := g.res.ResolveBoundary(b)
		if len(frames) > 0 {
			return frames, nil
		}
	}
}

// ResolveFiltered is the in-memory variant of the two-pass flow: it
// accumulates each predicate group's packets directly and resolves
// them with ResolvePackets, trading memory for a simpler single scan.
func (r *Resolver) ResolveFiltered(rd source.PacketReader, pred media.Predicate) ([][]*media.Frame, error) {
	var groups [][]*media.Frame
	var cur []*media.Packet

	flush := func() {
		if len(cur) == 0 {
			return
		}
		if frames := r.ResolvePackets(cur); len(frames) > 0 {
			groups = append(groups, frames)
		}
		cur = nil
	}

	for {
		p, err := rd.Next()
		if err == io.EOF {
			flush()
			return groups, nil
		}
		if err != nil {
			flush()
			return groups, err
		}
		if pred(p) && p.HasPTS {
			cur = append(cur, p)
			continue
		}
		flush()
	}
}
