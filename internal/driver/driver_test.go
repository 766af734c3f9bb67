package driver

import (
	"os"
	"testing"

	"github.com/kpudding/doves-retrograde/internal/board"
	"github.com/kpudding/doves-retrograde/internal/boardset"
	"github.com/kpudding/doves-retrograde/internal/ledger"
	"github.com/kpudding/doves-retrograde/internal/pathfactory"
)

func twoBossHash() board.Hash {
	var b board.Board
	b.Set(5, board.Red, board.B)
	b.Set(10, board.Green, board.B)
	return b.Hash()
}

func TestAdvanceOneStepLoseToWinProducesNextStepDir(t *testing.T) {
	root := t.TempDir()
	pf := pathfactory.New(root)

	step2Dir := pf.NumDir(2)
	if err := os.MkdirAll(step2Dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	s := boardset.New()
	s.Insert(twoBossHash())
	if err := boardset.Save(pathfactory.DoveFile(step2Dir, 2), s); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	l, err := ledger.Open(t.TempDir())
	if err != nil {
		t.Fatalf("ledger.Open failed: %v", err)
	}
	defer l.Close()

	opts := Options{NumWorkers: 2, DelTmpFiles: true, Ledger: l}
	if err := AdvanceOneStep(pf, 2, opts); err != nil {
		t.Fatalf("AdvanceOneStep(2) failed: %v", err)
	}

	step3Dir := pf.NumDir(3)
	if _, err := os.Stat(step3Dir); err != nil {
		t.Fatalf("expected step 3 directory to exist: %v", err)
	}

	if _, err := os.Stat(pf.NumTmpDir(2)); !os.IsNotExist(err) {
		t.Fatalf("expected tmp dir to be removed when DelTmpFiles is set, stat err=%v", err)
	}

	// Re-running the same step should be a no-op against the ledger's
	// completed records rather than erroring or recomputing from a now
	// (deliberately) missing tmp directory.
	opts.DelTmpFiles = false
	if err := AdvanceOneStep(pf, 2, opts); err != nil {
		t.Fatalf("re-running AdvanceOneStep(2) against a completed ledger failed: %v", err)
	}
}

func TestAdvanceOneStepRejectsBelowMinimum(t *testing.T) {
	root := t.TempDir()
	pf := pathfactory.New(root)
	if err := AdvanceOneStep(pf, 1, Options{NumWorkers: 1}); err == nil {
		t.Fatalf("expected an error for num_from < 2")
	}
}

func TestAdvanceOneStepWinToLoseAppliesCopyThroughAtBoundary(t *testing.T) {
	root := t.TempDir()
	pf := pathfactory.New(root)

	step3Dir := pf.NumDir(3)
	if err := os.MkdirAll(step3Dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	s := boardset.New()
	s.Insert(twoBossHash())
	if err := boardset.Save(pathfactory.DoveFile(step3Dir, 2), s); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	// A real step 3 directory would hold all eleven per-dove-count
	// files (the driver pads empty ones); replicate that here since
	// this fixture is written by hand rather than by a prior step.
	for n := 3; n <= 12; n++ {
		if err := boardset.Save(pathfactory.DoveFile(step3Dir, n), boardset.New()); err != nil {
			t.Fatalf("Save pad failed: %v", err)
		}
	}

	opts := Options{NumWorkers: 1}
	if err := AdvanceOneStep(pf, 3, opts); err != nil {
		t.Fatalf("AdvanceOneStep(3) failed: %v", err)
	}

	if _, err := os.Stat(pf.NumDir(4)); err != nil {
		t.Fatalf("expected step 4 directory to exist: %v", err)
	}
}
