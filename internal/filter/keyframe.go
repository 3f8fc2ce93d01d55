package filter

import (
	"io"

	"github.com/zsiec/facet/internal/media"
	"github.com/zsiec/facet/internal/metrics"
	"github.com/zsiec/facet/internal/source"
)

// KeyframeGroups enumerates groups of matching packets where every
// group starts with a keyframe. Matching packets seen before the first
// keyframe are dropped: a group either starts with a keyframe or does
// not exist. Groups are materialized; keyframe groups are bounded by
// the GOP length.
type KeyframeGroups struct {
	r     source.PacketReader
	pred  media.Predicate
	group []*media.Packet
	done  bool
}

// GroupByKeyframe groups the filtered stream at keyframe boundaries.
func GroupByKeyframe(r source.PacketReader, pred media.Predicate) *KeyframeGroups {
	return &KeyframeGroups{r: r, pred: pred}
}

// Next returns the next group, or io.EOF once the stream is exhausted.
func (g *KeyframeGroups) Next() ([]*media.Packet, error) {
	if g.done {
		return nil, io.EOF
	}

	for {
		p, err := g.r.Next()
		if err == io.EOF {
			g.done = true
			if len(g.group) > 0 {
				grp := g.group
				g.group = nil
				metrics.IncrementKeyframeGroups(grp[0].StreamID)
				return grp, nil
			}
			return nil, io.EOF
		}
		if err != nil {
			g.done = true
			return nil, err
		}

		metrics.IncrementPacketsScanned(p.StreamID)
		if !g.pred(p) {
			continue
		}
		metrics.IncrementPacketsMatched(p.StreamID)

		if p.Keyframe {
			if len(g.group) > 0 {
				grp := g.group
				g.group = []*media.Packet{p}
				metrics.IncrementKeyframeGroups(grp[0].StreamID)
				return grp, nil
			}
			g.group = []*media.Packet{p}
			continue
		}

		if len(g.group) > 0 {
			g.group = append(g.group, p)
		}
	}
}
