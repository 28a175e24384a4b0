package cem

import (
	"context"
	"testing"

	"github.com/soccerlab/ballcap/internal/checkpoint"
	"github.com/soccerlab/ballcap/internal/soccer"
)

func TestSnapshotRoundTrip(t *testing.T) {
	p := soccer.Default()
	s := New(p, smallOptions())
	if err := s.Run(context.Background(), nil); err != nil {
		t.Fatalf("run: %v", err)
	}

	snap := s.Snapshot()
	if err := snap.Validate(p.NumActions()); err != nil {
		t.Fatalf("snapshot invalid: %v", err)
	}
	if snap.Iterations != 1 || len(snap.History) != 1 {
		t.Errorf("counters: %d iterations, %d history entries", snap.Iterations, len(snap.History))
	}

	opts := smallOptions()
	opts.Iterations = 2
	restored, err := FromSnapshot(p, snap, opts)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}

	if restored.Iterations() != 1 {
		t.Errorf("restored iteration counter: got %d, expected 1", restored.Iterations())
	}
	if restored.ComputeTime() != s.ComputeTime() {
		t.Errorf("compute time changed: %v vs %v", restored.ComputeTime(), s.ComputeTime())
	}
	for j := range s.centersMeans {
		if restored.centersMeans[j] != s.centersMeans[j] {
			t.Errorf("basis %d: centers means changed in round trip", j)
		}
		if restored.radiiStdDevs[j] != s.radiiStdDevs[j] {
			t.Errorf("basis %d: radii std devs changed in round trip", j)
		}
		if restored.bases[j].Action() != s.bases[j].Action() {
			t.Errorf("basis %d: action %d, expected %d", j, restored.bases[j].Action(), s.bases[j].Action())
		}
	}

	// Both searches decide identically after the restore.
	for _, st := range s.trainStates[:50] {
		if a, b := s.ChooseAction(st), restored.ChooseAction(st); a != b {
			t.Fatalf("restored policy disagrees: %d vs %d", a, b)
		}
	}
}

func TestSnapshotIsDetached(t *testing.T) {
	p := soccer.Default()
	s := New(p, smallOptions())

	snap := s.Snapshot()
	snap.CentersMeans[0][0] = 9999
	snap.Basis[0].Centers[0] = 9999

	if s.centersMeans[0][0] == 9999 {
		t.Error("snapshot shares distribution storage with the search")
	}
	if c := s.bases[0].Centers(); c[0] == 9999 {
		t.Error("snapshot shares basis storage with the search")
	}
}

func TestFromSnapshotRejectsBadShapes(t *testing.T) {
	p := soccer.Default()
	s := New(p, smallOptions())

	snap := s.Snapshot()
	snap.CentersMeans[1] = snap.CentersMeans[1][:3]
	if _, err := FromSnapshot(p, snap, smallOptions()); err == nil {
		t.Error("expected error for a short centers row")
	}

	snap = s.Snapshot()
	snap.Basis[0].Radii = snap.Basis[0].Radii[:2]
	if _, err := FromSnapshot(p, snap, smallOptions()); err == nil {
		t.Error("expected error for short basis radii")
	}

	snap = s.Snapshot()
	snap.Actions = 4
	if _, err := FromSnapshot(p, snap, smallOptions()); err == nil {
		t.Error("expected error for a mismatched action menu")
	}
}

func TestFromSnapshotResumesTraining(t *testing.T) {
	p := soccer.Default()
	s := New(p, smallOptions())
	if err := s.Run(context.Background(), nil); err != nil {
		t.Fatalf("initial run: %v", err)
	}

	opts := smallOptions()
	opts.Iterations = 2
	restored, err := FromSnapshot(p, s.Snapshot(), opts)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}

	if err := restored.Run(context.Background(), nil); err != nil {
		t.Fatalf("resumed run: %v", err)
	}
	if restored.Iterations() != 2 {
		t.Errorf("iterations after resume: got %d, expected 2", restored.Iterations())
	}
	hist := restored.History()
	if len(hist) != 2 || hist[1].Iteration != 2 {
		t.Errorf("history after resume: %d entries", len(hist))
	}
}

func TestFromSnapshotValidatesVersion(t *testing.T) {
	p := soccer.Default()
	snap := New(p, smallOptions()).Snapshot()
	snap.Version = checkpoint.SchemaVersion + 1
	if _, err := FromSnapshot(p, snap, smallOptions()); err == nil {
		t.Error("expected error for a future schema version")
	}
}
