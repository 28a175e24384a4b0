// Package mdp models the ball capture task as a Markov decision process:
// a 7-dimensional relative state, a discrete turn/dash action menu, and a
// closed-form transition and reward function.
package mdp

import "math"

// NumVars is the dimensionality of the state space.
const NumVars = 7

// Vec is a point in the state space, indexed like the State fields:
// 0 ball speed, 1 ball direction, 2 player speed, 3 player direction,
// 4 body direction, 5 relative distance, 6 relative bearing.
type Vec [NumVars]float64

// State describes the situation of a player relative to the ball.
// Speeds are magnitudes (>= 0), all directions are degrees in (-180,180],
// and the bearing is measured from the player's body direction.
// States are immutable values; transitions construct fresh ones.
type State struct {
	BallSpeed   float64
	BallDir     float64
	PlayerSpeed float64
	PlayerDir   float64
	BodyDir     float64
	Distance    float64
	Bearing     float64
}

// NewState builds a state with all angle fields normalized to (-180,180].
func NewState(ballSpeed, ballDir, playerSpeed, playerDir, bodyDir, distance, bearing float64) State {
	return State{
		BallSpeed:   ballSpeed,
		BallDir:     NormalizeAngle(ballDir),
		PlayerSpeed: playerSpeed,
		PlayerDir:   NormalizeAngle(playerDir),
		BodyDir:     NormalizeAngle(bodyDir),
		Distance:    distance,
		Bearing:     NormalizeAngle(bearing),
	}
}

// Vec returns the state as a point in the 7-dimensional state space.
func (s State) Vec() Vec {
	return Vec{
		s.BallSpeed, s.BallDir,
		s.PlayerSpeed, s.PlayerDir,
		s.BodyDir,
		s.Distance, s.Bearing,
	}
}

// NormalizeAngle maps any angle in degrees onto (-180,180]. It is
// idempotent: applying it to an already normalized angle is a no-op.
func NormalizeAngle(deg float64) float64 {
	a := math.Mod(deg+180.0, 360.0)
	if a <= 0 {
		a += 360.0
	}
	return a - 180.0
}

// Discretization grid steps, indexed like Vec.
var gridSteps = Vec{0.5, 30.0, 0.25, 30.0, 30.0, 5.0, 30.0}

// Discretize snaps every field onto a fixed grid. The transform is lossy
// and one way; angle fields are re-normalized after snapping.
func (s State) Discretize() State {
	v := s.Vec()
	for i := range v {
		v[i] = math.Round(v[i]/gridSteps[i]) * gridSteps[i]
	}
	return NewState(v[0], v[1], v[2], v[3], v[4], v[5], v[6])
}
