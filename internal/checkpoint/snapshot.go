// Package checkpoint persists optimizer state as versioned, compressed
// snapshots so a training run can be stopped between iterations and
// resumed exactly where it left off.
package checkpoint

import (
	"errors"
	"fmt"
	"time"
)

// SchemaVersion is bumped whenever the snapshot layout changes; loading a
// snapshot with a different version fails loudly instead of silently
// corrupting the distribution.
const SchemaVersion = 1

var (
	ErrSchemaVersion = errors.New("checkpoint: snapshot schema version mismatch")
	ErrCorrupt       = errors.New("checkpoint: snapshot corrupt or incomplete")
)

// Snapshot is the serializable form of the optimizer: the sampling
// distribution, the live basis parameters, counters, and the per-iteration
// performance history. It is decoupled from the runtime types on purpose.
type Snapshot struct {
	Version int       `json:"version"`
	SavedAt time.Time `json:"saved_at"`

	BasisFunctions int     `json:"basis_functions"`
	Actions        int     `json:"actions"`
	Samples        int     `json:"samples"`
	EliteFraction  float64 `json:"elite_fraction"`

	Iterations    int   `json:"iterations"`
	ComputeTimeNS int64 `json:"compute_time_ns"`

	CentersMeans   [][]float64 `json:"centers_means"`
	CentersStdDevs [][]float64 `json:"centers_std_devs"`
	RadiiMeans     [][]float64 `json:"radii_means"`
	RadiiStdDevs   [][]float64 `json:"radii_std_devs"`
	BernoulliMeans [][]float64 `json:"bernoulli_means"`

	Basis []BasisParams `json:"basis"`

	History []IterationRecord `json:"history"`
}

// BasisParams is one basis function's live parameters.
type BasisParams struct {
	Action  int       `json:"action"`
	Centers []float64 `json:"centers"`
	Radii   []float64 `json:"radii"`
}

// IterationRecord is one completed optimizer iteration's diagnostics.
type IterationRecord struct {
	Iteration  int     `json:"iteration"`
	TrainScore float64 `json:"train_score"`
	TestScore  float64 `json:"test_score"`
	TrainBad   int     `json:"train_bad"`
	TestBad    int     `json:"test_bad"`
	ElapsedNS  int64   `json:"elapsed_ns"`
}

// Validate checks internal consistency and, when expectActions is
// positive, that the snapshot's action menu matches it.
func (s *Snapshot) Validate(expectActions int) error {
	if s.Version != SchemaVersion {
		return fmt.Errorf("%w: have %d, want %d", ErrSchemaVersion, s.Version, SchemaVersion)
	}
	if s.BasisFunctions < 1 || s.Actions < 2 {
		return fmt.Errorf("%w: %d basis functions, %d actions", ErrCorrupt, s.BasisFunctions, s.Actions)
	}
	if expectActions > 0 && s.Actions != expectActions {
		return fmt.Errorf("checkpoint: snapshot has %d discrete actions, parameters define %d", s.Actions, expectActions)
	}
	n := s.BasisFunctions
	for name, rows := range map[string][][]float64{
		"centers_means":    s.CentersMeans,
		"centers_std_devs": s.CentersStdDevs,
		"radii_means":      s.RadiiMeans,
		"radii_std_devs":   s.RadiiStdDevs,
		"bernoulli_means":  s.BernoulliMeans,
	} {
		if len(rows) != n {
			return fmt.Errorf("%w: %s has %d rows, want %d", ErrCorrupt, name, len(rows), n)
		}
	}
	if len(s.Basis) != n {
		return fmt.Errorf("%w: %d basis entries, want %d", ErrCorrupt, len(s.Basis), n)
	}
	for i, b := range s.Basis {
		if b.Action < 0 || b.Action >= s.Actions {
			return fmt.Errorf("%w: basis %d assigned to action %d", ErrCorrupt, i, b.Action)
		}
	}
	return nil
}
