package stats

import (
	"errors"
	"math"
	"testing"
)

func TestBitsToIndex(t *testing.T) {
	tests := []struct {
		bits     []bool
		expected int
	}{
		{[]bool{false}, 0},
		{[]bool{true}, 1},
		{[]bool{true, false, true}, 5},
		{[]bool{false, true, true}, 3},
		{[]bool{true, true, true}, 7},
		{nil, 0},
	}

	for _, tt := range tests {
		if got := BitsToIndex(tt.bits); got != tt.expected {
			t.Errorf("BitsToIndex(%v): got %d, expected %d", tt.bits, got, tt.expected)
		}
	}
}

func TestNumBits(t *testing.T) {
	tests := []struct {
		n, expected int
	}{
		{1, 1},
		{2, 1},
		{3, 2},
		{4, 2},
		{8, 3},
		{9, 4},
		{16, 4},
	}

	for _, tt := range tests {
		if got := NumBits(tt.n); got != tt.expected {
			t.Errorf("NumBits(%d): got %d, expected %d", tt.n, got, tt.expected)
		}
	}
}

func TestSamplerDeterministic(t *testing.T) {
	a := NewSampler(42)
	b := NewSampler(42)
	for i := 0; i < 100; i++ {
		if av, bv := a.Normal(0, 1), b.Normal(0, 1); av != bv {
			t.Fatalf("draw %d differs: %g vs %g", i, av, bv)
		}
	}
}

func TestNormalInRespectsBounds(t *testing.T) {
	s := NewSampler(7)
	for i := 0; i < 1000; i++ {
		v, err := s.NormalIn(0, 100, -1, 1)
		if err != nil {
			t.Fatalf("draw %d: %v", i, err)
		}
		if v < -1 || v > 1 {
			t.Fatalf("draw %d outside bounds: %g", i, v)
		}
	}
}

func TestNormalInCollapsed(t *testing.T) {
	s := NewSampler(7)
	_, err := s.NormalIn(1000, 1e-9, 0, 1)
	if !errors.Is(err, ErrCollapsed) {
		t.Errorf("expected ErrCollapsed, got %v", err)
	}
}

func TestNormalAboveRespectsFloor(t *testing.T) {
	s := NewSampler(11)
	for i := 0; i < 1000; i++ {
		v, err := s.NormalAbove(0.5, 2, 1e-4)
		if err != nil {
			t.Fatalf("draw %d: %v", i, err)
		}
		if v <= 1e-4 {
			t.Fatalf("draw %d at or below floor: %g", i, v)
		}
	}
}

func TestNormalAboveCollapsed(t *testing.T) {
	s := NewSampler(11)
	_, err := s.NormalAbove(-1000, 1e-9, 1e-4)
	if !errors.Is(err, ErrCollapsed) {
		t.Errorf("expected ErrCollapsed, got %v", err)
	}
}

func TestBernoulliDegenerate(t *testing.T) {
	s := NewSampler(3)
	for i := 0; i < 100; i++ {
		if s.Bernoulli(0) {
			t.Fatal("p=0 drew true")
		}
		if !s.Bernoulli(1) {
			t.Fatal("p=1 drew false")
		}
	}
}

func TestMeanAndStdDev(t *testing.T) {
	xs := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	if m := Mean(xs); math.Abs(m-5.0) > 1e-12 {
		t.Errorf("mean: got %g, expected 5", m)
	}
	// Sample standard deviation with the n-1 divisor.
	if sd := StdDev(xs); math.Abs(sd-math.Sqrt(32.0/7.0)) > 1e-12 {
		t.Errorf("stddev: got %g, expected %g", sd, math.Sqrt(32.0/7.0))
	}
}

func TestStdDevSmallSamples(t *testing.T) {
	if sd := StdDev([]float64{3.5}); sd != 0 {
		t.Errorf("single sample stddev: got %g, expected 0", sd)
	}
	if sd := StdDev(nil); sd != 0 {
		t.Errorf("empty stddev: got %g, expected 0", sd)
	}
}

func TestBoolMean(t *testing.T) {
	if m := BoolMean([]bool{true, true, false, false}); m != 0.5 {
		t.Errorf("got %g, expected 0.5", m)
	}
	if m := BoolMean(nil); m != 0 {
		t.Errorf("empty: got %g, expected 0", m)
	}
	if m := BoolMean([]bool{true}); m != 1 {
		t.Errorf("all true: got %g, expected 1", m)
	}
}
