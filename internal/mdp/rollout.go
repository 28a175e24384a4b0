package mdp

// BaseDiscount is the starting discount factor for trajectory returns.
const BaseDiscount = 0.95

// ActionChooser selects a discrete action index for a state.
type ActionChooser interface {
	ChooseAction(s State) int
}

// TrajectoryReward rolls the policy forward from initial and accumulates
// the discounted return. The first term is undiscounted; afterwards the
// discount factor starts at BaseDiscount and is squared after every step,
// so the schedule decays much faster than a geometric one. The rollout
// stops at a terminal state or after maxSteps steps.
func (m *Model) TrajectoryReward(initial State, p ActionChooser, maxSteps int) float64 {
	s := initial
	a, err := m.ActionAt(p.ChooseAction(s))
	if err != nil {
		return 0
	}

	total := m.Reward(s, a)
	discount := BaseDiscount
	steps := 1

	for !m.Terminal(s) && steps < maxSteps {
		s = m.Transition(s, a)
		a, err = m.ActionAt(p.ChooseAction(s))
		if err != nil {
			break
		}
		total += discount * m.Reward(s, a)
		discount *= discount
		steps++
	}

	return total
}
