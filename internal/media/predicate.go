package media

// Predicate decides whether a packet participates in filtering and
// grouping. Predicates must be pure: the filter stages may evaluate a
// packet more than once when look-ahead packets are re-examined as
// fresh run candidates.
type Predicate func(*Packet) bool

// All combines predicates; a packet must pass every one.
func All(preds ...Predicate) Predicate {
	return func(p *Packet) bool {
		for _, pred := range preds {
			if !pred(p) {
				return false
			}
		}
		return true
	}
}

// Any combines predicates; a packet passes if at least one matches.
func Any(preds ...Predicate) Predicate {
	return func(p *Packet) bool {
		for _, pred := range preds {
			if pred(p) {
				return true
			}
		}
		return false
	}
}

// SizeUnder matches packets whose compressed size is below max bytes.
func SizeUnder(max int) Predicate {
	return func(p *Packet) bool {
		return p.Size < max
	}
}

// SizeOver matches packets whose compressed size is above min bytes.
func SizeOver(min int) Predicate {
	return func(p *Packet) bool {
		return p.Size > min
	}
}

// PTSRange matches packets whose PTS lies in [min, max]. A packet
// without a PTS is unfilterable by timestamp and never matches.
func PTSRange(min, max int64) Predicate {
	return func(p *Packet) bool {
		if !p.HasPTS {
			return false
		}
		return p.PTS >= min && p.PTS <= max
	}
}

// PTSAtLeast matches packets whose PTS is at least min, with no upper
// bound. A packet without a PTS never matches.
func PTSAtLeast(min int64) Predicate {
	return func(p *Packet) bool {
		return p.HasPTS && p.PTS >= min
	}
}

// KeyframeOnly matches independently decodable packets.
func KeyframeOnly() Predicate {
	return func(p *Packet) bool {
		return p.Keyframe
	}
}

// MatchAll matches every packet.
func MatchAll() Predicate {
	return func(*Packet) bool {
		return true
	}
}
