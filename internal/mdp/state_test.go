package mdp

import (
	"math"
	"testing"
)

func TestNormalizeAngle(t *testing.T) {
	tests := []struct {
		in, out float64
	}{
		{0, 0},
		{180, 180},
		{-180, 180},
		{360, 0},
		{190, -170},
		{-190, 170},
		{540, 180},
		{-540, 180},
		{90, 90},
		{-90, -90},
	}

	for _, tt := range tests {
		if got := NormalizeAngle(tt.in); math.Abs(got-tt.out) > 1e-12 {
			t.Errorf("NormalizeAngle(%g): got %g, expected %g", tt.in, got, tt.out)
		}
	}
}

func TestNormalizeAngleIdempotent(t *testing.T) {
	for a := -720.0; a <= 720.0; a += 37.0 {
		once := NormalizeAngle(a)
		if once <= -180 || once > 180 {
			t.Fatalf("NormalizeAngle(%g) = %g outside (-180,180]", a, once)
		}
		if twice := NormalizeAngle(once); twice != once {
			t.Errorf("not idempotent at %g: %g then %g", a, once, twice)
		}
	}
}

func TestNewStateNormalizes(t *testing.T) {
	s := NewState(1.0, 270.0, 0.5, -270.0, 540.0, 10.0, 360.0)

	if s.BallDir != -90 {
		t.Errorf("ball direction: got %g, expected -90", s.BallDir)
	}
	if s.PlayerDir != 90 {
		t.Errorf("player direction: got %g, expected 90", s.PlayerDir)
	}
	if s.BodyDir != 180 {
		t.Errorf("body direction: got %g, expected 180", s.BodyDir)
	}
	if s.Bearing != 0 {
		t.Errorf("bearing: got %g, expected 0", s.Bearing)
	}
	if s.BallSpeed != 1.0 || s.Distance != 10.0 {
		t.Errorf("magnitudes changed: speed %g, distance %g", s.BallSpeed, s.Distance)
	}
}

func TestVecOrdering(t *testing.T) {
	s := NewState(1, 2, 3, 4, 5, 6, 7)
	v := s.Vec()
	expected := Vec{1, 2, 3, 4, 5, 6, 7}
	if v != expected {
		t.Errorf("Vec: got %v, expected %v", v, expected)
	}
}

func TestDiscretize(t *testing.T) {
	s := NewState(0.7, 44.0, 0.3, -16.0, 100.0, 12.4, 74.0)
	d := s.Discretize()

	if d.BallSpeed != 0.5 {
		t.Errorf("ball speed: got %g, expected 0.5", d.BallSpeed)
	}
	if d.BallDir != 30 {
		t.Errorf("ball direction: got %g, expected 30", d.BallDir)
	}
	if d.PlayerSpeed != 0.25 {
		t.Errorf("player speed: got %g, expected 0.25", d.PlayerSpeed)
	}
	if d.Distance != 10 {
		t.Errorf("distance: got %g, expected 10", d.Distance)
	}
	if d.Bearing != 60 {
		t.Errorf("bearing: got %g, expected 60", d.Bearing)
	}

	if again := d.Discretize(); again != d {
		t.Errorf("discretize not stable: %+v then %+v", d, again)
	}
}
