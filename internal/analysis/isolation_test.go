package analysis

import "testing"

func TestIsolatedZeroWindows(t *testing.T) {
	touches := []Side{SideBullish, SideBearish, SideBullish}
	for i := range touches {
		if !Isolated(touches, i, 0, 0) {
			t.Fatalf("position %d: empty windows must always accept", i)
		}
	}
}

func TestIsolatedRejectsPrecedingTouch(t *testing.T) {
	touches := []Side{SideNone, SideBearish, SideNone, SideBullish, SideNone}
	if Isolated(touches, 3, 2, 2) {
		t.Fatal("touch at 1 sits inside the pre window of 3")
	}
	if !Isolated(touches, 3, 1, 1) {
		t.Fatal("pre window of 1 excludes the touch at 1")
	}
}

func TestIsolatedRejectsFollowingTouch(t *testing.T) {
	touches := []Side{SideBullish, SideNone, SideNone, SideBearish}
	if Isolated(touches, 0, 0, 3) {
		t.Fatal("touch at 3 sits inside the post window of 0")
	}
	if !Isolated(touches, 0, 0, 2) {
		t.Fatal("post window of 2 excludes the touch at 3")
	}
}

func TestIsolatedRejectsEitherSide(t *testing.T) {
	// Neighbouring touches on either side disqualify regardless of direction.
	touches := []Side{SideBearish, SideBullish, SideBearish}
	if Isolated(touches, 1, 1, 1) {
		t.Fatal("surrounded touch should be rejected")
	}
}

func TestIsolatedWindowClampsAtBoundaries(t *testing.T) {
	touches := []Side{SideBullish, SideNone, SideNone}
	// The pre window extends past the series start and simply shrinks.
	if !Isolated(touches, 0, 100, 2) {
		t.Fatal("clamped pre window should accept")
	}

	touches = []Side{SideNone, SideNone, SideBearish}
	if !Isolated(touches, 2, 2, 100) {
		t.Fatal("clamped post window should accept")
	}
}
