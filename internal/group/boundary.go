// Package group implements the two-pass streaming grouper and the
// seek-and-decode resolver: pass one records compact group boundaries
// over the filtered stream, pass two re-seeks the source and decodes
// each boundary's frames, keeping O(groups) memory instead of
// O(packets).
package group

import (
	"io"

	"github.com/zsiec/facet/internal/media"
	"github.com/zsiec/facet/internal/metrics"
	"github.com/zsiec/facet/internal/source"
)

// Boundary describes one filtered group's span without retaining its
// packets. StartOrdinal <= EndOrdinal and, with monotonic timestamps,
// StartPTS <= EndPTS.
type Boundary struct {
	StartOrdinal int64
	EndOrdinal   int64
	StartPTS     int64
	EndPTS       int64
}

// BoundaryScanner is pass one: a single linear scan that opens a
// boundary when the predicate turns true and closes it when it turns
// false again. Unlike consecutive-run filtering, ordinal gaps inside a
// boundary do not split it: groups here are resolved later purely by
// timestamp range, where gaps are invisible. A matching packet without
// a PTS also closes the boundary, since it could never be recovered by
// a timestamp-range decode.
type BoundaryScanner struct {
	r    source.PacketReader
	pred media.Predicate
	open bool
	cur  Boundary
	done bool
}

// ScanBoundaries scans the stream for group boundaries.
func ScanBoundaries(r source.PacketReader, pred media.Predicate) *BoundaryScanner {
	return &BoundaryScanner{r: r, pred: pred}
}

// Next returns the next boundary, or io.EOF when the scan is over.
func (s *BoundaryScanner) Next() (Boundary, error) {
	if s.done {
		return Boundary{}, io.EOF
	}

	for {
		p, err := s.r.Next()
		if err != nil {
			// Exhaustion and source failure both end the scan; an open
			// boundary is still emitted.
			s.done = true
			if s.open {
				s.open = false
				return s.cur, nil
			}
			if err == io.EOF {
				return Boundary{}, io.EOF
			}
			return Boundary{}, err
		}

		metrics.IncrementPacketsScanned(p.StreamID)
		if s.pred(p) && p.HasPTS {
			metrics.IncrementPacketsMatched(p.StreamID)
			if !s.open {
				s.open = true
				s.cur = Boundary{
					StartOrdinal: p.Ordinal,
					EndOrdinal:   p.Ordinal,
					StartPTS:     p.PTS,
					EndPTS:       p.PTS,
				}
			} else {
				s.cur.EndOrdinal = p.Ordinal
				s.cur.EndPTS = p.PTS
			}
			continue
		}

		if s.open {
			s.open = false
			metrics.IncrementBoundaries(p.StreamID)
			return s.cur, nil
		}
	}
}
