package mdp

import "fmt"

// Action is one entry of the discrete action menu: either a turn by an
// angle in degrees or a dash with a power. Immutable once constructed.
type Action struct {
	index int
	turn  bool
	value float64
}

func (a Action) Index() int     { return a.index }
func (a Action) IsTurn() bool   { return a.turn }
func (a Action) Value() float64 { return a.value }

func (a Action) String() string {
	if a.turn {
		return fmt.Sprintf("turn(%g)", a.value)
	}
	return fmt.Sprintf("dash(%g)", a.value)
}
