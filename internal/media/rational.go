package media

// Rational represents a rational number (numerator/denominator)
// Used for time bases in video streams
type Rational struct {
	Num int // Numerator
	Den int // Denominator
}

// NewRational creates a new rational number
func NewRational(num, den int) Rational {
	if den == 0 {
		den = 1
	}
	return Rational{Num: num, Den: den}
}

// Float64 returns the floating point representation
func (r Rational) Float64() float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

// Invert returns the inverted rational (den/num)
func (r Rational) Invert() Rational {
	return Rational{Num: r.Den, Den: r.Num}
}

// Common time bases
var (
	TimeBase90kHz = Rational{Num: 1, Den: 90000} // MPEG-TS PES clock
	TimeBase1kHz  = Rational{Num: 1, Den: 1000}  // Millisecond precision

	// Frame rates (as rationals)
	FrameRate24 = Rational{Num: 24, Den: 1}
	FrameRate25 = Rational{Num: 25, Den: 1} // PAL
	FrameRate30 = Rational{Num: 30, Den: 1}

	// NTSC frame rates
	FrameRate23_976 = Rational{Num: 24000, Den: 1001}
	FrameRate29_97  = Rational{Num: 30000, Den: 1001}
)
