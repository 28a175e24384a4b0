// Package cem implements direct policy search for the ball capture task:
// a cross-entropy method over the parameters of a radial-basis-function
// policy. Each iteration samples a population of candidate parameter
// sets, scores them by rolling trajectories through the dynamics model,
// and refits the sampling distribution to the elite performers.
package cem

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/soccerlab/ballcap/internal/mdp"
	"github.com/soccerlab/ballcap/internal/policy"
	"github.com/soccerlab/ballcap/internal/soccer"
	"github.com/soccerlab/ballcap/internal/stats"
)

// radiusFloor is the smallest radius the sampler may assign; draws at or
// below it are rejected so a kernel can never divide by (near) zero.
const radiusFloor = 1e-4

type Options struct {
	BasisFunctions int
	Samples        int
	Iterations     int
	EliteFraction  float64
	ScoreHorizon   int
	EvalHorizon    int
	Seed           int64
	// Workers bounds the scoring fan-out; 0 means NumCPU.
	Workers int
	// Progress, when set, receives scoring progress within an iteration.
	// It may be called from multiple goroutines.
	Progress func(done, total int)
}

// IterationStats reports one completed optimizer iteration.
type IterationStats struct {
	Iteration  int
	BestScore  float64
	MeanScore  float64
	TrainScore float64
	TestScore  float64
	TrainBad   int
	TestBad    int
	TrainSize  int
	TestSize   int
	Elapsed    time.Duration
	Total      time.Duration
}

// PerfResult is an aggregate policy evaluation over a fixed state set.
// States whose trajectory return is negative are excluded from the
// average's denominator and counted as bad.
type PerfResult struct {
	Average   float64
	BadStates int
	States    int
}

// Search owns the sampling distribution, the basis function arena and the
// partition policy. It is the only writer of all three.
type Search struct {
	opts    Options
	params  *soccer.Params
	model   *mdp.Model
	sampler *stats.Sampler

	numActions int
	numBits    int

	centersMeans   []mdp.Vec
	centersStdDevs []mdp.Vec
	radiiMeans     []mdp.Vec
	radiiStdDevs   []mdp.Vec
	bernoulliMeans [][]float64

	bases []*policy.RadialBasis
	pol   *policy.RBFPolicy

	trainStates []mdp.State
	testStates  []mdp.State

	iterations  int
	computeTime time.Duration
	history     []IterationStats
}

// New builds a fresh search: basis functions spread round-robin over the
// action menu, centers at the domain midpoints, and wide initial standard
// deviations covering half of each dimension's range.
func New(p *soccer.Params, opts Options) *Search {
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}

	numActions := p.NumActions()
	s := &Search{
		opts:        opts,
		params:      p,
		model:       mdp.NewModel(p),
		sampler:     stats.NewSampler(opts.Seed),
		numActions:  numActions,
		numBits:     stats.NumBits(numActions),
		trainStates: mdp.TrainingStates(),
		testStates:  mdp.PerformanceStates(),
		pol:         policy.NewRBFPolicy(numActions),
	}

	centerInit := mdp.Vec{p.BallSpeedMax / 2, 0, p.PlayerSpeedMax / 2, 0, 0, p.DistanceMax / 2, 0}
	radiusInit := mdp.Vec{p.BallSpeedMax / 2, 90, p.PlayerSpeedMax / 2, 90, 90, p.DistanceMax / 2, 90}
	centerSpread := mdp.Vec{p.BallSpeedMax / 2, 90, p.PlayerSpeedMax / 2, 90, 90, p.DistanceMax / 2, 90}
	// The distance dimension's radius spread is deliberately 90, not
	// DistanceMax/2; distance kernels start narrower than their centers.
	radiusSpread := mdp.Vec{p.BallSpeedMax / 2, 90, p.PlayerSpeedMax / 2, 90, 90, 90, 90}

	n := opts.BasisFunctions
	s.centersMeans = make([]mdp.Vec, n)
	s.centersStdDevs = make([]mdp.Vec, n)
	s.radiiMeans = make([]mdp.Vec, n)
	s.radiiStdDevs = make([]mdp.Vec, n)
	s.bernoulliMeans = make([][]float64, n)
	s.bases = make([]*policy.RadialBasis, n)

	for i := 0; i < n; i++ {
		action := numActions - 1 - (i % numActions)
		s.bases[i] = policy.NewRadialBasis(action, centerInit, radiusInit)
		s.centersMeans[i] = centerInit
		s.centersStdDevs[i] = centerSpread
		s.radiiMeans[i] = radiusInit
		s.radiiStdDevs[i] = radiusSpread
		s.bernoulliMeans[i] = make([]float64, s.numBits)
		for k := range s.bernoulliMeans[i] {
			s.bernoulliMeans[i][k] = 0.5
		}
	}
	s.pol.Rebuild(s.bases)

	return s
}

func (s *Search) Model() *mdp.Model          { return s.model }
func (s *Search) Iterations() int            { return s.iterations }
func (s *Search) ComputeTime() time.Duration { return s.computeTime }
func (s *Search) History() []IterationStats  { return s.history }
func (s *Search) TrainStates() int           { return len(s.trainStates) }
func (s *Search) TestStates() int            { return len(s.testStates) }

// ChooseAction makes the search usable as a policy: it answers with the
// current basis bank, which always reflects the latest distribution means.
func (s *Search) ChooseAction(st mdp.State) int {
	return s.pol.ChooseAction(st)
}

// Run executes iterations until the budget in Options is reached,
// invoking report after each one. The context is only checked between
// iterations; an iteration always completes once started.
func (s *Search) Run(ctx context.Context, report func(IterationStats)) error {
	for s.iterations < s.opts.Iterations {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		st, err := s.iterate()
		if err != nil {
			return err
		}
		if report != nil {
			report(st)
		}
	}
	return nil
}

// candidate is one sampled parameter set for the whole basis bank.
type candidate struct {
	centers []mdp.Vec
	radii   []mdp.Vec
	bits    [][]bool
	actions []int
}

func (s *Search) iterate() (IterationStats, error) {
	start := time.Now()

	population, err := s.samplePopulation()
	if err != nil {
		return IterationStats{}, err
	}

	scores := s.scorePopulation(population)

	buckets := newScoreBuckets()
	for i, score := range scores {
		buckets.add(score, i)
	}
	eliteCount := int(math.Ceil(s.opts.EliteFraction * float64(len(scores))))
	elites := buckets.drainTop(eliteCount)

	s.refit(population, elites)
	s.applyMeans()

	trainPerf := s.performance(s.trainStates)
	testPerf := s.performance(s.testStates)

	s.iterations++
	elapsed := time.Since(start)
	s.computeTime += elapsed

	best := math.Inf(-1)
	for _, score := range scores {
		if score > best {
			best = score
		}
	}

	st := IterationStats{
		Iteration:  s.iterations,
		BestScore:  best,
		MeanScore:  stats.Mean(scores),
		TrainScore: trainPerf.Average,
		TestScore:  testPerf.Average,
		TrainBad:   trainPerf.BadStates,
		TestBad:    testPerf.BadStates,
		TrainSize:  trainPerf.States,
		TestSize:   testPerf.States,
		Elapsed:    elapsed,
		Total:      s.computeTime,
	}
	s.history = append(s.history, st)
	return st, nil
}

// dimBounds returns the physically valid range for centers in state
// dimension k; Gaussian draws outside it are rejected and redrawn.
func (s *Search) dimBounds(k int) (lo, hi float64) {
	switch k {
	case 0:
		return 0, s.params.BallSpeedMax
	case 2:
		return 0, s.params.PlayerSpeedMax
	case 5:
		return 0, s.params.DistanceMax
	default:
		return -180, 180
	}
}

func (s *Search) samplePopulation() ([]candidate, error) {
	population := make([]candidate, s.opts.Samples)
	for i := range population {
		c := candidate{
			centers: make([]mdp.Vec, s.opts.BasisFunctions),
			radii:   make([]mdp.Vec, s.opts.BasisFunctions),
			bits:    make([][]bool, s.opts.BasisFunctions),
			actions: make([]int, s.opts.BasisFunctions),
		}
		for j := 0; j < s.opts.BasisFunctions; j++ {
			for k := 0; k < mdp.NumVars; k++ {
				lo, hi := s.dimBounds(k)
				center, err := s.sampler.NormalIn(s.centersMeans[j][k], s.centersStdDevs[j][k], lo, hi)
				if err != nil {
					return nil, fmt.Errorf("cem: center of basis %d dim %d: %w", j, k, err)
				}
				c.centers[j][k] = center

				radius, err := s.sampler.NormalAbove(s.radiiMeans[j][k], s.radiiStdDevs[j][k], radiusFloor)
				if err != nil {
					return nil, fmt.Errorf("cem: radius of basis %d dim %d: %w", j, k, err)
				}
				c.radii[j][k] = radius
			}

			bits := make([]bool, s.numBits)
			action := s.numActions
			for tries := 0; action >= s.numActions; tries++ {
				if tries >= 10000 {
					return nil, fmt.Errorf("cem: action bits of basis %d: %w", j, stats.ErrCollapsed)
				}
				for k := range bits {
					bits[k] = s.sampler.Bernoulli(s.bernoulliMeans[j][k])
				}
				action = stats.BitsToIndex(bits)
			}
			c.bits[j] = bits
			c.actions[j] = action
		}
		population[i] = c
	}
	return population, nil
}

// scorePopulation evaluates every candidate's mean trajectory return over
// the training state set. Candidates are independent, so scoring fans out
// over workers; each worker carries its own basis bank and policy because
// basis parameters are mutated in place during evaluation. Scores land in
// an index-addressed slice, keeping elite tie-break order identical to a
// sequential pass.
func (s *Search) scorePopulation(population []candidate) []float64 {
	scores := make([]float64, len(population))

	workers := s.opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(population) {
		workers = len(population)
	}

	var done atomic.Int64
	indexes := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bank := make([]*policy.RadialBasis, s.opts.BasisFunctions)
			for j := range bank {
				bank[j] = policy.NewRadialBasis(0, mdp.Vec{}, s.radiiMeans[j])
			}
			pol := policy.NewRBFPolicy(s.numActions)

			for i := range indexes {
				scores[i] = s.scoreCandidate(&population[i], bank, pol)
				if s.opts.Progress != nil {
					s.opts.Progress(int(done.Add(1)), len(population))
				}
			}
		}()
	}
	for i := range population {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	return scores
}

func (s *Search) scoreCandidate(c *candidate, bank []*policy.RadialBasis, pol *policy.RBFPolicy) float64 {
	pol.Clear()
	for j, b := range bank {
		b.SetCenters(c.centers[j])
		b.SetRadii(c.radii[j])
		b.SetAction(c.actions[j])
		pol.Assign(c.actions[j], b)
	}

	total := 0.0
	for _, st := range s.trainStates {
		total += s.model.TrajectoryReward(st, pol, s.opts.ScoreHorizon) / float64(len(s.trainStates))
	}
	return total
}

// refit replaces every distribution parameter with the elite population's
// sample mean and standard deviation; Bernoulli probabilities become the
// elite bit means.
func (s *Search) refit(population []candidate, elites []int) {
	centers := make([]float64, len(elites))
	radii := make([]float64, len(elites))
	bits := make([]bool, len(elites))

	for j := 0; j < s.opts.BasisFunctions; j++ {
		for k := 0; k < mdp.NumVars; k++ {
			for i, e := range elites {
				centers[i] = population[e].centers[j][k]
				radii[i] = population[e].radii[j][k]
			}
			s.centersMeans[j][k] = stats.Mean(centers)
			s.centersStdDevs[j][k] = stats.StdDev(centers)
			s.radiiMeans[j][k] = stats.Mean(radii)
			s.radiiStdDevs[j][k] = stats.StdDev(radii)
		}
		for k := 0; k < s.numBits; k++ {
			for i, e := range elites {
				bits[i] = population[e].bits[j][k]
			}
			s.bernoulliMeans[j][k] = stats.BoolMean(bits)
		}
	}
}

// applyMeans pushes the refit means into the live basis bank so the
// search answers ChooseAction with the best known approximation between
// iterations. Actions follow the most probable selector bits; a decode
// outside the menu keeps the basis's previous assignment.
func (s *Search) applyMeans() {
	bits := make([]bool, s.numBits)
	for j, b := range s.bases {
		b.SetCenters(s.centersMeans[j])
		b.SetRadii(s.radiiMeans[j])

		for k := range bits {
			bits[k] = s.bernoulliMeans[j][k] >= 0.5
		}
		if action := stats.BitsToIndex(bits); action < s.numActions {
			b.SetAction(action)
		}
	}
	s.pol.Rebuild(s.bases)
}

// performance evaluates the current policy over a fixed state set with
// the evaluation horizon. An all-bad set yields average 0 rather than a
// division by zero; callers treat a full bad-state count as the warning.
func (s *Search) performance(states []mdp.State) PerfResult {
	bad := 0
	total := 0.0
	for _, st := range states {
		score := s.model.TrajectoryReward(st, s.pol, s.opts.EvalHorizon)
		if score < 0 {
			bad++
		} else {
			total += score
		}
	}
	res := PerfResult{BadStates: bad, States: len(states)}
	if good := len(states) - bad; good > 0 {
		res.Average = total / float64(good)
	}
	return res
}

// EvaluatePerformance re-runs the two fixed evaluation sets against the
// current policy without advancing the optimizer.
func (s *Search) EvaluatePerformance() (train, test PerfResult) {
	return s.performance(s.trainStates), s.performance(s.testStates)
}
