package vmath

// FastRand is a seeded xorshift64 generator
// Deterministic for a given seed, never zero-state
type FastRand struct {
	state uint64
}

func NewFastRand(seed uint64) *FastRand {
	if seed == 0 {
		seed = 1
	}
	return &FastRand{state: seed}
}

func (r *FastRand) Next() uint64 {
	x := r.state
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	r.state = x
	return x
}

func (r *FastRand) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Next() % uint64(n))
}

// Range returns a Q32.32 value uniformly drawn from [min, max]
func (r *FastRand) Range(min, max int64) int64 {
	if max <= min {
		return min
	}
	span := uint64(max - min)
	return min + int64(r.Next()%(span+1))
}
