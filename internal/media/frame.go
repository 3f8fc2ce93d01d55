package media

// Frame is one decoded image with its presentation timestamp. Zero or
// more frames may result from any single packet, and frames may also
// appear with no corresponding input packet when a decoder flush drains
// buffered output.
type Frame struct {
	// Presentation timestamp in TimeBase ticks.
	PTS int64

	// TimeBase inherited from the stream the frame was decoded from.
	TimeBase Rational

	// Decoded picture dimensions.
	Width  int
	Height int

	// Keyframe marks a frame decoded from an independently decodable
	// packet.
	Keyframe bool

	// Data holds the decoded picture bytes in a decoder-specific
	// layout. Nil for synthetic decoders that model timing only.
	Data []byte
}

// PTSSeconds returns the presentation time in seconds.
func (f *Frame) PTSSeconds() float64 {
	return float64(f.PTS) * f.TimeBase.Float64()
}
