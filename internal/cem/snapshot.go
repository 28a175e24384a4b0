package cem

import (
	"fmt"
	"time"

	"github.com/soccerlab/ballcap/internal/checkpoint"
	"github.com/soccerlab/ballcap/internal/mdp"
	"github.com/soccerlab/ballcap/internal/policy"
	"github.com/soccerlab/ballcap/internal/soccer"
)

// Snapshot captures the whole search as a checkpoint snapshot: the
// distribution, the live basis bank, counters and history.
func (s *Search) Snapshot() *checkpoint.Snapshot {
	snap := &checkpoint.Snapshot{
		Version:        checkpoint.SchemaVersion,
		BasisFunctions: s.opts.BasisFunctions,
		Actions:        s.numActions,
		Samples:        s.opts.Samples,
		EliteFraction:  s.opts.EliteFraction,
		Iterations:     s.iterations,
		ComputeTimeNS:  int64(s.computeTime),
		CentersMeans:   vecsToRows(s.centersMeans),
		CentersStdDevs: vecsToRows(s.centersStdDevs),
		RadiiMeans:     vecsToRows(s.radiiMeans),
		RadiiStdDevs:   vecsToRows(s.radiiStdDevs),
		BernoulliMeans: copyRows(s.bernoulliMeans),
		Basis:          make([]checkpoint.BasisParams, len(s.bases)),
		History:        make([]checkpoint.IterationRecord, len(s.history)),
	}

	for i, b := range s.bases {
		centers := b.Centers()
		radii := b.Radii()
		snap.Basis[i] = checkpoint.BasisParams{
			Action:  b.Action(),
			Centers: append([]float64(nil), centers[:]...),
			Radii:   append([]float64(nil), radii[:]...),
		}
	}
	for i, h := range s.history {
		snap.History[i] = checkpoint.IterationRecord{
			Iteration:  h.Iteration,
			TrainScore: h.TrainScore,
			TestScore:  h.TestScore,
			TrainBad:   h.TrainBad,
			TestBad:    h.TestBad,
			ElapsedNS:  int64(h.Elapsed),
		}
	}
	return snap
}

// FromSnapshot rebuilds a search from a validated snapshot so training
// resumes exactly where the checkpoint left off. Population shape comes
// from the snapshot; the iteration budget, horizons, seed and worker
// count come from opts.
func FromSnapshot(p *soccer.Params, snap *checkpoint.Snapshot, opts Options) (*Search, error) {
	if err := snap.Validate(p.NumActions()); err != nil {
		return nil, err
	}

	opts.BasisFunctions = snap.BasisFunctions
	opts.Samples = snap.Samples
	opts.EliteFraction = snap.EliteFraction

	s := New(p, opts)
	var err error
	if s.centersMeans, err = rowsToVecs(snap.CentersMeans); err != nil {
		return nil, fmt.Errorf("checkpoint centers_means: %w", err)
	}
	if s.centersStdDevs, err = rowsToVecs(snap.CentersStdDevs); err != nil {
		return nil, fmt.Errorf("checkpoint centers_std_devs: %w", err)
	}
	if s.radiiMeans, err = rowsToVecs(snap.RadiiMeans); err != nil {
		return nil, fmt.Errorf("checkpoint radii_means: %w", err)
	}
	if s.radiiStdDevs, err = rowsToVecs(snap.RadiiStdDevs); err != nil {
		return nil, fmt.Errorf("checkpoint radii_std_devs: %w", err)
	}
	s.bernoulliMeans = copyRows(snap.BernoulliMeans)
	for i, row := range s.bernoulliMeans {
		if len(row) != s.numBits {
			return nil, fmt.Errorf("checkpoint bernoulli_means: basis %d has %d bits, want %d", i, len(row), s.numBits)
		}
	}

	for i, bp := range snap.Basis {
		centers, err := vecFromSlice(bp.Centers)
		if err != nil {
			return nil, fmt.Errorf("checkpoint basis %d centers: %w", i, err)
		}
		radii, err := vecFromSlice(bp.Radii)
		if err != nil {
			return nil, fmt.Errorf("checkpoint basis %d radii: %w", i, err)
		}
		s.bases[i] = policy.NewRadialBasis(bp.Action, centers, radii)
	}
	if err := s.pol.Rebuild(s.bases); err != nil {
		return nil, err
	}

	s.iterations = snap.Iterations
	s.computeTime = time.Duration(snap.ComputeTimeNS)
	s.history = make([]IterationStats, len(snap.History))
	for i, h := range snap.History {
		s.history[i] = IterationStats{
			Iteration:  h.Iteration,
			TrainScore: h.TrainScore,
			TestScore:  h.TestScore,
			TrainBad:   h.TrainBad,
			TestBad:    h.TestBad,
			TrainSize:  len(s.trainStates),
			TestSize:   len(s.testStates),
			Elapsed:    time.Duration(h.ElapsedNS),
		}
	}

	return s, nil
}

func vecsToRows(vecs []mdp.Vec) [][]float64 {
	rows := make([][]float64, len(vecs))
	for i, v := range vecs {
		rows[i] = append([]float64(nil), v[:]...)
	}
	return rows
}

func rowsToVecs(rows [][]float64) ([]mdp.Vec, error) {
	vecs := make([]mdp.Vec, len(rows))
	for i, row := range rows {
		v, err := vecFromSlice(row)
		if err != nil {
			return nil, err
		}
		vecs[i] = v
	}
	return vecs, nil
}

func vecFromSlice(row []float64) (mdp.Vec, error) {
	var v mdp.Vec
	if len(row) != mdp.NumVars {
		return v, fmt.Errorf("have %d values, want %d", len(row), mdp.NumVars)
	}
	copy(v[:], row)
	return v, nil
}

func copyRows(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		out[i] = append([]float64(nil), row...)
	}
	return out
}
