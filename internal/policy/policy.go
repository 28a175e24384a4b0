package policy

import (
	"fmt"

	"github.com/soccerlab/ballcap/internal/mdp"
)

// RBFPolicy maps each discrete action to the set of basis functions
// currently assigned to it. The partition is rebuilt every optimizer
// iteration after the action-selector bits are resampled.
type RBFPolicy struct {
	partition [][]*RadialBasis
}

func NewRBFPolicy(numActions int) *RBFPolicy {
	return &RBFPolicy{partition: make([][]*RadialBasis, numActions)}
}

func (p *RBFPolicy) NumActions() int { return len(p.partition) }

// Clear empties every action's basis set, keeping capacity.
func (p *RBFPolicy) Clear() {
	for i := range p.partition {
		p.partition[i] = p.partition[i][:0]
	}
}

// Assign adds b to the given action's set.
func (p *RBFPolicy) Assign(action int, b *RadialBasis) error {
	if action < 0 || action >= len(p.partition) {
		return fmt.Errorf("policy: action %d outside menu of %d", action, len(p.partition))
	}
	p.partition[action] = append(p.partition[action], b)
	return nil
}

// Rebuild clears the partition and reassigns every basis according to its
// own action tag.
func (p *RBFPolicy) Rebuild(bases []*RadialBasis) error {
	p.Clear()
	for _, b := range bases {
		if err := p.Assign(b.Action(), b); err != nil {
			return err
		}
	}
	return nil
}

// Assigned returns how many basis functions the action currently has.
func (p *RBFPolicy) Assigned(action int) int {
	return len(p.partition[action])
}

// ChooseAction returns the action whose basis functions sum to the highest
// score for s. Ties go to the lowest action index; an action with no
// assigned basis functions scores 0 and can still win when every other
// total is negative.
func (p *RBFPolicy) ChooseAction(s mdp.State) int {
	best := 0
	bestScore := -1e6
	for action, bases := range p.partition {
		score := 0.0
		for _, b := range bases {
			score += b.Score(s)
		}
		if score > bestScore {
			bestScore = score
			best = action
		}
	}
	return best
}
