package vmath

import (
	"math"
	"math/bits"
)

// Q32.32 fixed point constants
const (
	Shift   = 32
	Scale   = 1 << Shift
	ScaleF  = float64(Scale)
	Half    = 1 << (Shift - 1)
	LUTSize = 1024
	LUTMask = LUTSize - 1
)

// --- Arithmetic ---

func FromInt(i int) int64       { return int64(i) << Shift }
func ToInt(f int64) int         { return int(f >> Shift) }
func FromFloat(f float64) int64 { return int64(f * ScaleF) }
func ToFloat(f int64) float64   { return float64(f) / ScaleF }

// Mul multiplies two Q32.32 values with a 128-bit intermediate
func Mul(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	negative := (a < 0) != (b < 0)
	ua, ub := uint64(a), uint64(b)
	if a < 0 {
		ua = uint64(-a)
	}
	if b < 0 {
		ub = uint64(-b)
	}

	hi, lo := bits.Mul64(ua, ub)
	// Q32.32 * Q32.32 = Q64.64, shift right 32 for Q32.32
	result := int64((hi << 32) | (lo >> 32))

	if negative {
		return -result
	}
	return result
}

// Div divides two Q32.32 values with a 128-bit intermediate, saturating on overflow
func Div(a, b int64) int64 {
	if b == 0 {
		return 0
	}
	negative := (a < 0) != (b < 0)
	ua, ub := uint64(a), uint64(b)
	if a < 0 {
		ua = uint64(-a)
	}
	if b < 0 {
		ub = uint64(-b)
	}

	// a << 32 as 128-bit: hi = a >> 32, lo = a << 32
	hi := ua >> 32
	lo := ua << 32

	// Quotient will not fit in 64 bits
	if hi >= ub {
		if negative {
			return math.MinInt64
		}
		return math.MaxInt64
	}

	quo, _ := bits.Div64(hi, lo, ub)

	if quo > math.MaxInt64 {
		if negative {
			return math.MinInt64
		}
		return math.MaxInt64
	}

	if negative {
		return -int64(quo)
	}
	return int64(quo)
}

// MulDiv computes (a * b) / c with 128-bit intermediate
func MulDiv(a, b, c int64) int64 {
	if c == 0 {
		return 0
	}
	neg := ((a < 0) != (b < 0)) != (c < 0)
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	if c < 0 {
		c = -c
	}
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	q, _ := bits.Div64(hi, lo, uint64(c))
	r := int64(q)
	if neg {
		return -r
	}
	return r
}

// Abs returns absolute value
func Abs(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}

// Sign returns -Scale, 0, or Scale
func Sign(x int64) int64 {
	if x < 0 {
		return -Scale
	}
	if x > 0 {
		return Scale
	}
	return 0
}

// Clamp limits x to [lo, hi]
func Clamp(x, lo, hi int64) int64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func Min(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func Max(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

// Sqrt returns Q32.32 square root using Newton-Raphson
func Sqrt(x int64) int64 {
	if x <= 0 {
		return 0
	}

	guess := x
	if guess > Scale {
		guess = Scale
		for guess < x>>1 {
			guess <<= 1
		}
	} else {
		guess = x >> 1
		if guess == 0 {
			guess = 1
		}
	}

	// 12 iterations converge across the simulation's value range
	for i := 0; i < 12; i++ {
		if guess == 0 {
			return 0
		}
		guess = (guess + Div(x, guess)) >> 1
	}
	return guess
}

// --- Trigonometry ---

// Sin returns sine of an angle where angle 0..Scale maps to 0..2pi
func Sin(angle int64) int64 {
	return SinLUT[(angle>>(Shift-10))&LUTMask]
}

func Cos(angle int64) int64 {
	return CosLUT[(angle>>(Shift-10))&LUTMask]
}

// WrapAngle normalizes an angle in rotation units to [0, Scale)
func WrapAngle(angle int64) int64 {
	angle %= Scale
	if angle < 0 {
		angle += Scale
	}
	return angle
}
