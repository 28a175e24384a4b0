package cem

import "testing"

func TestDrainTopHighestFirst(t *testing.T) {
	b := newScoreBuckets()
	b.add(1.0, 0)
	b.add(3.0, 1)
	b.add(2.0, 2)

	got := b.drainTop(3)
	expected := []int{1, 2, 0}
	if len(got) != len(expected) {
		t.Fatalf("drained %d indices, expected %d", len(got), len(expected))
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("position %d: got %d, expected %d", i, got[i], expected[i])
		}
	}
}

func TestDrainTopTiesPopFromEnd(t *testing.T) {
	b := newScoreBuckets()
	b.add(5.0, 10)
	b.add(5.0, 11)
	b.add(5.0, 12)

	got := b.drainTop(2)
	if len(got) != 2 || got[0] != 12 || got[1] != 11 {
		t.Errorf("tied bucket drained %v, expected [12 11]", got)
	}

	// The remaining tie survives for a later drain.
	rest := b.drainTop(2)
	if len(rest) != 1 || rest[0] != 10 {
		t.Errorf("second drain got %v, expected [10]", rest)
	}
}

func TestDrainTopShortBuckets(t *testing.T) {
	b := newScoreBuckets()
	b.add(1.0, 0)

	if got := b.drainTop(5); len(got) != 1 {
		t.Errorf("drained %v from a single-entry bucket", got)
	}
	if got := newScoreBuckets().drainTop(3); len(got) != 0 {
		t.Errorf("empty buckets drained %v", got)
	}
}

func TestDrainTopSpansBuckets(t *testing.T) {
	b := newScoreBuckets()
	b.add(2.0, 0)
	b.add(2.0, 1)
	b.add(1.0, 2)

	got := b.drainTop(3)
	if len(got) != 3 || got[0] != 1 || got[1] != 0 || got[2] != 2 {
		t.Errorf("got %v, expected [1 0 2]", got)
	}
}
