package utils

import "math/rand"

// RandomSource is the single seeded generator owned by a running model.
// Every stochastic decision of a simulation draws from one instance so that
// a fixed seed reproduces the run exactly.
//
// Not thread-safe; a model is stepped from one goroutine.
type RandomSource struct {
	seed int64
	r    *rand.Rand
}

// NewRandomSource creates a generator seeded with seed
func NewRandomSource(seed int64) *RandomSource {
	return &RandomSource{
		seed: seed,
		r:    rand.New(rand.NewSource(seed)),
	}
}

// Seed returns the seed the source was created with
func (s *RandomSource) Seed() int64 {
	return s.seed
}

// Intn returns a uniform integer in [0, n). n must be positive.
func (s *RandomSource) Intn(n int) int {
	return s.r.Intn(n)
}

// Float64 returns a uniform float in [0, 1)
func (s *RandomSource) Float64() float64 {
	return s.r.Float64()
}

// Chance reports whether an event of probability p fires
func (s *RandomSource) Chance(p float64) bool {
	return s.r.Float64() < p
}

// Shuffle permutes n elements in place through swap
func (s *RandomSource) Shuffle(n int, swap func(i, j int)) {
	s.r.Shuffle(n, swap)
}

// Perm returns a uniform random permutation of [0, n)
func (s *RandomSource) Perm(n int) []int {
	return s.r.Perm(n)
}

// Sample draws k distinct integers from [0, n) in draw order.
// k is clamped to [0, n].
func (s *RandomSource) Sample(n int, k int) []int {
	k = max(0, min(k, n))

	// partial Fisher-Yates over an index pool
	pool := make([]int, n)
	for i := range pool {
		pool[i] = i
	}
	ret := make([]int, k)
	for i := 0; i < k; i++ {
		j := i + s.r.Intn(n-i)
		pool[i], pool[j] = pool[j], pool[i]
		ret[i] = pool[i]
	}
	return ret
}
