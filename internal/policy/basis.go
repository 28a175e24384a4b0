// Package policy implements the parametric policy family optimized by the
// cross-entropy search: radial Gaussian basis functions over the state
// space, partitioned by discrete action.
package policy

import (
	"math"

	"github.com/soccerlab/ballcap/internal/mdp"
)

// RadialBasis is a Gaussian-shaped kernel over the 7-dimensional state
// space, tagged with the discrete action it currently represents. Centers
// and radii are rewritten wholesale every optimizer iteration; the
// optimizer is the only writer and evaluation within an iteration is
// synchronous, so in-place reuse is safe.
type RadialBasis struct {
	action  int
	centers mdp.Vec
	radii   mdp.Vec
}

func NewRadialBasis(action int, centers, radii mdp.Vec) *RadialBasis {
	return &RadialBasis{action: action, centers: centers, radii: radii}
}

func (b *RadialBasis) Action() int          { return b.action }
func (b *RadialBasis) SetAction(action int) { b.action = action }

func (b *RadialBasis) Centers() mdp.Vec { return b.centers }
func (b *RadialBasis) Radii() mdp.Vec   { return b.radii }

// SetCenters replaces all center values. Callers validate dimensions and
// ranges before assignment; the sampler never produces near-zero radii.
func (b *RadialBasis) SetCenters(centers mdp.Vec) { b.centers = centers }
func (b *RadialBasis) SetRadii(radii mdp.Vec)     { b.radii = radii }

// Score evaluates the kernel at s: exp of the negative sum of squared
// per-dimension deviations scaled by the radii. Larger deviation from the
// center in any dimension strictly reduces the score.
func (b *RadialBasis) Score(s mdp.State) float64 {
	v := s.Vec()
	sum := 0.0
	for i := range v {
		d := (v[i] - b.centers[i]) / b.radii[i]
		sum += d * d
	}
	return math.Exp(-sum)
}
