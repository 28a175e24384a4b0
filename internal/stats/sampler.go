// Package stats wraps the sampling and summary primitives the optimizer
// needs: seeded Gaussian and Bernoulli draws, bounded rejection sampling,
// elite means and standard deviations, and selector-bit decoding.
package stats

import (
	"errors"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrCollapsed is returned when rejection sampling exhausts its retry
// budget: the distribution has collapsed outside the valid region, which
// is a configuration error rather than bad luck.
var ErrCollapsed = errors.New("stats: sampling distribution collapsed outside valid range")

// maxRejectionDraws bounds every rejection sampling loop.
const maxRejectionDraws = 10000

// Sampler produces seeded pseudo-random draws. Not safe for concurrent
// use; give each worker its own Sampler.
type Sampler struct {
	src rand.Source
}

func NewSampler(seed int64) *Sampler {
	return &Sampler{src: rand.NewPCG(uint64(seed), uint64(seed)+1)}
}

// Normal draws from a Gaussian with the given mean and standard deviation.
func (s *Sampler) Normal(mu, sigma float64) float64 {
	return distuv.Normal{Mu: mu, Sigma: sigma, Src: s.src}.Rand()
}

// NormalIn rejection-samples a Gaussian until the draw lands in [lo, hi].
func (s *Sampler) NormalIn(mu, sigma, lo, hi float64) (float64, error) {
	for i := 0; i < maxRejectionDraws; i++ {
		v := s.Normal(mu, sigma)
		if v >= lo && v <= hi {
			return v, nil
		}
	}
	return 0, ErrCollapsed
}

// NormalAbove rejection-samples a Gaussian until the draw is strictly
// greater than floor. Used for radii, which must never be near zero.
func (s *Sampler) NormalAbove(mu, sigma, floor float64) (float64, error) {
	for i := 0; i < maxRejectionDraws; i++ {
		v := s.Normal(mu, sigma)
		if v > floor {
			return v, nil
		}
	}
	return 0, ErrCollapsed
}

// Bernoulli draws true with probability p.
func (s *Sampler) Bernoulli(p float64) bool {
	return distuv.Bernoulli{P: p, Src: s.src}.Rand() == 1
}

// BitsToIndex decodes a bit vector, most significant bit first.
func BitsToIndex(bits []bool) int {
	n := 0
	for _, b := range bits {
		n <<= 1
		if b {
			n |= 1
		}
	}
	return n
}

// NumBits returns how many selector bits are needed to address n values.
func NumBits(n int) int {
	bits := 0
	for v := n - 1; v > 0; v >>= 1 {
		bits++
	}
	if bits == 0 {
		bits = 1
	}
	return bits
}

// Mean returns the arithmetic mean of xs.
func Mean(xs []float64) float64 {
	return stat.Mean(xs, nil)
}

// StdDev returns the sample standard deviation of xs, or 0 when there are
// fewer than two samples.
func StdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	return stat.StdDev(xs, nil)
}

// BoolMean treats bits as 0/1 samples and returns their mean, the elite
// update for a Bernoulli success probability.
func BoolMean(bits []bool) float64 {
	if len(bits) == 0 {
		return 0
	}
	ones := 0
	for _, b := range bits {
		if b {
			ones++
		}
	}
	return float64(ones) / float64(len(bits))
}
