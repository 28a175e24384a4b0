package mdp

import (
	"fmt"

	"github.com/soccerlab/ballcap/internal/geom"
	"github.com/soccerlab/ballcap/internal/soccer"
)

// CaptureReward is the terminal bonus paid when the next step brings the
// ball within the kickable margin.
const CaptureReward = 1e6

// Model is the state transition and reward function of the ball capture
// task. It holds no mutable state; Transition and Reward are pure given
// the physical parameters.
type Model struct {
	p *soccer.Params
}

func NewModel(p *soccer.Params) *Model {
	return &Model{p: p}
}

func (m *Model) Params() *soccer.Params { return m.p }

// NumActions is the size of the discrete action menu.
func (m *Model) NumActions() int { return m.p.NumActions() }

// ActionAt decodes a discrete action index. Indices below TurnSteps are
// turn actions with angles evenly spanning (-180,180]; the rest are dash
// actions with powers evenly spanning (0, DashPowerMax].
func (m *Model) ActionAt(index int) (Action, error) {
	if index < 0 || index >= m.p.NumActions() {
		return Action{}, fmt.Errorf("mdp: action index %d outside menu of %d", index, m.p.NumActions())
	}
	if index < m.p.TurnSteps {
		angle := -180.0 + 360.0*float64(index+1)/float64(m.p.TurnSteps)
		return Action{index: index, turn: true, value: angle}, nil
	}
	step := index - m.p.TurnSteps
	power := m.p.DashPowerMax * float64(step+1) / float64(m.p.DashSteps)
	return Action{index: index, turn: false, value: power}, nil
}

// Terminal reports whether s is absorbing: the ball is within kickable
// range, so the capture task is over.
func (m *Model) Terminal(s State) bool {
	return s.Distance < m.p.KickableMargin
}

// Transition returns the state one step after taking a in s. Terminal
// states are absorbing and are returned unchanged.
//
// The body direction is updated before the new bearing is derived from the
// relative position vector; the order matters.
func (m *Model) Transition(s State, a Action) State {
	if m.Terminal(s) {
		return s
	}

	ballVel := geom.FromPolar(s.BallSpeed, s.BallDir)
	playerVel := geom.FromPolar(s.PlayerSpeed, s.PlayerDir)

	if !a.IsTurn() {
		accel := geom.FromPolar(a.Value()*m.p.DashPowerRate, s.BodyDir).
			ClampRadius(m.p.PlayerAccelMax)
		playerVel = playerVel.Add(accel).ClampRadius(m.p.PlayerSpeedMax)
	}

	relPos := geom.FromPolar(s.Distance, NormalizeAngle(s.Bearing+s.BodyDir))
	relPos = relPos.Add(ballVel).Sub(playerVel)

	turn := 0.0
	if a.IsTurn() {
		turn = a.Value()
	}
	bodyDir := NormalizeAngle(s.BodyDir + turn)

	return State{
		BallSpeed:   s.BallSpeed * m.p.BallDecay,
		BallDir:     s.BallDir,
		PlayerSpeed: playerVel.PolarRadius() * m.p.PlayerDecay,
		PlayerDir:   NormalizeAngle(playerVel.PolarAngle()),
		BodyDir:     bodyDir,
		Distance:    relPos.PolarRadius(),
		Bearing:     NormalizeAngle(relPos.PolarAngle() - bodyDir),
	}
}

// Reward returns the one-step reward for taking a in s: the capture bonus
// when the next step lands within the kickable margin, otherwise the
// negative next-step distance. Terminal states yield 0.
//
// Reward computes its own transition; callers needing both the next state
// and the reward pay for two transitions. The optimizer's call pattern
// makes this cheaper than caching.
func (m *Model) Reward(s State, a Action) float64 {
	if m.Terminal(s) {
		return 0
	}
	next := m.Transition(s, a)
	if next.Distance < m.p.KickableMargin {
		return CaptureReward
	}
	return -next.Distance
}
