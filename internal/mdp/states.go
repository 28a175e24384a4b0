package mdp

// TrainingStates enumerates the fixed grid of initial states the optimizer
// scores candidate policies on: a resting ball and player over a coarse
// sweep of directions, body angles and distances.
func TrainingStates() []State {
	states := make([]State, 0, 512)
	for i := 0.0; i < 3.0; i += 3.0 {
		for j := -180.0; j < 180.0; j += 120.0 {
			for k := 0.0; k < 1.05; k += 1.05 {
				for l := -180.0; l < 180.0; l += 120.0 {
					for m := -180.0; m < 180.0; m += 120.0 {
						for n := 0.0; n < 125.0; n += 25.0 {
							for o := -180.0; o < 180.0; o += 120.0 {
								states = append(states, NewState(i, j, k, l, m, n, o))
							}
						}
					}
				}
			}
		}
	}
	return states
}

// PerformanceStates enumerates the held-out evaluation grid. Its origins
// and strides are offset from the training grid so the two sets are
// disjoint.
func PerformanceStates() []State {
	states := make([]State, 0, 4096)
	for i := 1.5; i < 3.0; i += 3.0 {
		for j := -155.0; j < 180.0; j += 105.0 {
			for k := 0.9; k < 1.05; k += 1.05 {
				for l := -164.0; l < 180.0; l += 130.0 {
					for m := -145.0; m < 180.0; m += 96.0 {
						for n := 0.9; n < 125.0; n += 12.0 {
							for o := -170.0; o < 180.0; o += 60.0 {
								states = append(states, NewState(i, j, k, l, m, n, o))
							}
						}
					}
				}
			}
		}
	}
	return states
}
