// Package filter turns a flat packet stream into nested groups: runs
// of predicate-matching, ordinal-consecutive packets, and
// keyframe-anchored groups.
package filter

import (
	"io"

	"github.com/zsiec/facet/internal/errors"
	"github.com/zsiec/facet/internal/media"
	"github.com/zsiec/facet/internal/metrics"
	"github.com/zsiec/facet/internal/source"
)

// ErrRunConsumed is returned by a Run whose parent has already moved
// on. The run's packets were drained to keep the shared cursor
// consistent; re-reading it is a caller error.
var ErrRunConsumed = errors.NewStateError("run already consumed by its parent")

// Stream is the input to FilterConsecutive: one packet stream or an
// ordered set of independent packet streams. Callers say which they
// have; the filter never probes elements to guess.
type Stream struct {
	readers []source.PacketReader
}

// SingleStream wraps one packet stream.
func SingleStream(r source.PacketReader) Stream {
	return Stream{readers: []source.PacketReader{r}}
}

// MultiStream wraps several packet streams, processed in order. Runs
// never span streams.
func MultiStream(readers ...source.PacketReader) Stream {
	return Stream{readers: readers}
}

// Runs enumerates maximal consecutive runs of matching packets. A run
// is maximal: it ends at the first packet that fails the predicate or
// breaks ordinal adjacency. That boundary packet is held back as a
// one-packet look-ahead and re-evaluated as a fresh run candidate, so
// no packet is lost.
//
// Runs and their parent share one underlying cursor. Requesting the
// next run drains whatever remains of the current one; an abandoned
// run afterwards reports ErrRunConsumed.
type Runs struct {
	pred    media.Predicate
	readers []source.PacketReader
	idx     int
	pending *media.Packet
	cur     *Run
	err     error
}

// FilterConsecutive filters src by pred while preserving consecutivity.
// Non-matching packets between runs are dropped. Empty input yields no
// runs. A run is never empty.
func FilterConsecutive(src Stream, pred media.Predicate) *Runs {
	return &Runs{
		pred:    pred,
		readers: src.readers,
	}
}

// Next returns the next run, or io.EOF when every stream is exhausted.
func (rs *Runs) Next() (*Run, error) {
	if rs.err != nil {
		return nil, rs.err
	}
	if rs.cur != nil {
		if err := rs.cur.abandon(); err != nil {
			rs.err = err
			return nil, err
		}
		rs.cur = nil
	}

	for {
		p, err := rs.read()
		if err == io.EOF {
			rs.err = io.EOF
			return nil, io.EOF
		}
		if err != nil {
			rs.err = err
			return nil, err
		}

		if rs.pred(p) {
			metrics.IncrementPacketsMatched(p.StreamID)
			metrics.IncrementRuns(p.StreamID)
			rs.cur = &Run{rs: rs, head: p}
			return rs.cur, nil
		}
	}
}

// read yields the re-injected look-ahead packet first, then pulls from
// the current stream, moving to the next stream on exhaustion.
func (rs *Runs) read() (*media.Packet, error) {
	if rs.pending != nil {
		p := rs.pending
		rs.pending = nil
		return p, nil
	}
	for rs.idx < len(rs.readers) {
		p, err := rs.readers[rs.idx].Next()
		if err == io.EOF {
			rs.idx++
			continue
		}
		if err != nil {
			return nil, err
		}
		metrics.IncrementPacketsScanned(p.StreamID)
		return p, nil
	}
	return nil, io.EOF
}

// readCurrent pulls from the current stream only: runs never continue
// into the next stream.
func (rs *Runs) readCurrent() (*media.Packet, error) {
	if rs.idx >= len(rs.readers) {
		return nil, io.EOF
	}
	p, err := rs.readers[rs.idx].Next()
	if err != nil {
		return nil, err
	}
	metrics.IncrementPacketsScanned(p.StreamID)
	return p, nil
}

// Run is one maximal consecutive group of matching packets, pulled
// lazily from the parent's cursor.
type Run struct {
	rs        *Runs
	head      *media.Packet
	last      int64
	started   bool
	done      bool
	abandoned bool
}

// Next returns the run's next packet, or io.EOF at the end of the run.
func (r *Run) Next() (*media.Packet, error) {
	if r.abandoned {
		return nil, ErrRunConsumed
	}
	if r.done {
		return nil, io.EOF
	}
	if !r.started {
		r.started = true
		r.last = r.head.Ordinal
		return r.head, nil
	}

	p, err := r.rs.readCurrent()
	if err == io.EOF {
		r.done = true
		return nil, io.EOF
	}
	if err != nil {
		r.done = true
		return nil, err
	}

	if !r.rs.pred(p) || p.Ordinal != r.last+1 {
		// Boundary packet: hold it back for the parent scan.
		r.rs.pending = p
		r.done = true
		return nil, io.EOF
	}

	metrics.IncrementPacketsMatched(p.StreamID)
	r.last = p.Ordinal
	return p, nil
}

// Materialize drains the run into an owned slice.
func (r *Run) Materialize() ([]*media.Packet, error) {
	var out []*media.Packet
	for {
		p, err := r.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, p)
	}
}

// abandon drains the run silently so the shared cursor lands past it.
func (r *Run) abandon() error {
	for !r.done {
		if _, err := r.Next(); err != nil {
			if err == io.EOF {
				break
			}
			return err
		}
	}
	r.abandoned = true
	return nil
}
