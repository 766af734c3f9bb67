package pathfactory

import (
	"path/filepath"
	"testing"
)

func TestWinPathsStepsByTwoStartingAtThree(t *testing.T) {
	f := New("/data")
	got := f.WinPaths(7, 9)
	want := []string{
		filepath.Join("/data", "0003", "09.tdl"),
		filepath.Join("/data", "0005", "09.tdl"),
		filepath.Join("/data", "0007", "09.tdl"),
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d win paths, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestWinPathsEmptyWhenCeilingBelowThree(t *testing.T) {
	f := New("/data")
	if got := f.WinPaths(2, 9); len(got) != 0 {
		t.Fatalf("expected no win paths below step 3, got %v", got)
	}
}

func TestNumDirIsZeroPaddedToFourDigits(t *testing.T) {
	f := New("/data")
	if got := f.NumDir(7); got != filepath.Join("/data", "0007") {
		t.Fatalf("got %s", got)
	}
}

func TestDoveDirIsZeroPaddedToTwoDigits(t *testing.T) {
	if got := DoveDir("/data/0007", 9); got != filepath.Join("/data/0007", "09") {
		t.Fatalf("got %s", got)
	}
}
