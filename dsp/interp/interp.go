package interp

import "fmt"

// Float is the sample constraint shared by the interpolators.
type Float interface {
	~float32 | ~float64
}

// Mode selects a fractional-read algorithm.
type Mode int

const (
	// Linear blends the two neighbouring samples.
	Linear Mode = iota
	// Hermite uses a 4-point cubic Hermite spline.
	Hermite
)

func (m Mode) String() string {
	switch m {
	case Linear:
		return "linear"
	case Hermite:
		return "hermite"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses "linear" or "hermite".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "linear":
		return Linear, nil
	case "hermite":
		return Hermite, nil
	default:
		return Linear, fmt.Errorf("unknown interpolation mode: %q", s)
	}
}

// Linear2 interpolates from x0 to x1 at t in [0,1].
// t == 0 returns x0 exactly.
func Linear2[T Float](t, x0, x1 T) T {
	return x0 + t*(x1-x0)
}

// Hermite4 computes cubic 4-point interpolation.
// It interpolates from x0 to x1 using neighbor points xm1 and x2.
func Hermite4[T Float](t, xm1, x0, x1, x2 T) T {
	c0 := x0
	c1 := 0.5 * (x1 - xm1)
	c2 := xm1 - 2.5*x0 + 2*x1 - 0.5*x2
	c3 := 0.5*(x2-xm1) + 1.5*(x0-x1)
	return ((c3*t+c2)*t+c1)*t + c0
}
