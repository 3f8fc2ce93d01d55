package media

// Packet represents one demultiplexed, still-compressed unit of stream
// data. Packets are immutable once produced by a source: stages hand
// them onward but never modify them. The Ordinal is assigned by the
// source layer in demux order and is monotonically increasing; gaps
// appear once packets are filtered out upstream.
type Packet struct {
	// Ordinal assigned at demux time, independent of the container.
	Ordinal int64

	// Presentation timestamp in TimeBase ticks. Valid only when HasPTS
	// is set; containers may omit the PTS on individual packets.
	PTS    int64
	HasPTS bool

	// Size of the compressed payload in bytes. Kept separate from
	// len(Data) so that sources which drop payloads (boundary scans)
	// still carry the size.
	Size int

	// Compressed payload, opaque to the pipeline.
	Data []byte

	// Keyframe marks a packet that is independently decodable.
	Keyframe bool

	// StreamID identifies the owning stream and its decoder context.
	StreamID string

	// TimeBase converts PTS ticks to seconds.
	TimeBase Rational
}

// IsKeyframe returns true if this packet is independently decodable.
func (p *Packet) IsKeyframe() bool {
	return p.Keyframe
}

// PTSSeconds returns the presentation time in seconds. The second
// return is false when the packet carries no PTS.
func (p *Packet) PTSSeconds() (float64, bool) {
	if !p.HasPTS {
		return 0, false
	}
	return float64(p.PTS) * p.TimeBase.Float64(), true
}

// Clone creates a deep copy of the packet.
func (p *Packet) Clone() *Packet {
	data := make([]byte, len(p.Data))
	copy(data, p.Data)

	clone := *p
	clone.Data = data
	return &clone
}
