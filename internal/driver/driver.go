// Package driver orchestrates one step of retrograde analysis,
// N -> N+1, by sequencing the pipeline phases in the order fixed by
// the parity of N: a "lose-to-win" step (N even) ends at Gather
// straight from trim-simple's output; a "win-to-lose" step (N odd)
// inserts the coupled trim-on-action workstreams (Move, Put, Remove)
// between trim-simple and Gather.
package driver

import (
	"fmt"
	"os"

	"github.com/kpudding/doves-retrograde/internal/ledger"
	"github.com/kpudding/doves-retrograde/internal/pathfactory"
	"github.com/kpudding/doves-retrograde/internal/pipeline"
)

const (
	minDoves = 2
	maxDoves = 12
)

// Options configures how a step runs. Ledger may be nil, in which
// case no phase is recorded or skipped for having already run.
type Options struct {
	NumWorkers   int
	Split        map[int]bool // dove-counts for which trim-on-action loads a partitioned oracle
	DelTmpFiles  bool
	Ledger       *ledger.Ledger
	MaxChunkSize int // Backstep's resident-set bound; <= 0 uses pipeline.DefaultMaxChunkSize
}

// AdvanceOneStep runs the full N -> N+1 step rooted at pf, dispatching
// on the parity of numFrom.
func AdvanceOneStep(pf pathfactory.Factory, numFrom int, opts Options) error {
	if numFrom < 2 {
		return fmt.Errorf("driver: num_from must be >= 2, got %d", numFrom)
	}
	if numFrom%2 == 0 {
		return loseToWin(pf, numFrom, opts)
	}
	return winToLose(pf, numFrom, opts)
}

// loseToWin runs Backstep, Redistribute, Trim-simple per dove count,
// then gathers trim-simple's output straight into step numFrom+1.
func loseToWin(pf pathfactory.Factory, numFrom int, opts Options) error {
	doveCounts, err := xToXCommon(pf, numFrom, opts)
	if err != nil {
		return fmt.Errorf("driver: step %d (lose-to-win): %w", numFrom, err)
	}

	dstDir := pf.NumDir(numFrom + 1)
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("driver: step %d: mkdir %s: %w", numFrom, dstDir, err)
	}
	for _, n := range doveCounts {
		src := pathfactory.DoveDir(pf.TrimmedSimply(numFrom), n)
		dst := pathfactory.DoveFile(dstDir, n)
		if err := runPhase(opts.Ledger, numFrom, fmt.Sprintf("gather:%02d", n), n, func() (int, error) {
			if err := pipeline.Gather(src, dst); err != nil {
				return 0, err
			}
			return countFile(dst)
		}); err != nil {
			return fmt.Errorf("driver: step %d: gather dove-count %d: %w", numFrom, n, err)
		}
	}
	if err := padMissingDoveFiles(dstDir, doveCounts); err != nil {
		return fmt.Errorf("driver: step %d: %w", numFrom, err)
	}

	maybeCleanTmp(pf, numFrom, opts)
	return nil
}

// winToLose runs Backstep, Redistribute, Trim-simple, then the
// coupled Move -> Put -> Remove trim-on-action chain, then gathers the
// chain's final survivors into step numFrom+1.
func winToLose(pf pathfactory.Factory, numFrom int, opts Options) error {
	doveCounts, err := xToXCommon(pf, numFrom, opts)
	if err != nil {
		return fmt.Errorf("driver: step %d (win-to-lose): %w", numFrom, err)
	}

	dstDir := pf.NumDir(numFrom + 1)
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("driver: step %d: mkdir %s: %w", numFrom, dstDir, err)
	}

	for _, n := range doveCounts {
		moveSrc := pathfactory.DoveDir(pf.TrimmedSimply(numFrom), n)
		moveDst := pathfactory.DoveDir(pf.TrimmedMove(numFrom), n)
		moveWins := pf.WinPaths(numFrom, n)
		if err := runPhase(opts.Ledger, numFrom, fmt.Sprintf("trim-move:%02d", n), n, func() (int, error) {
			if err := pipeline.TrimOnAction(moveSrc, moveDst, n, n, moveWins, opts.NumWorkers, opts.Split[n]); err != nil {
				return 0, err
			}
			return countDir(moveDst)
		}); err != nil {
			return fmt.Errorf("driver: step %d: trim-move dove-count %d: %w", numFrom, n, err)
		}

		putDst := pathfactory.DoveDir(pf.TrimmedPut(numFrom), n)
		if n == maxDoves {
			// No Put workstream at full occupancy: carry the Move
			// survivors straight through.
			if err := pipeline.CopyThrough(moveDst, putDst); err != nil {
				return fmt.Errorf("driver: step %d: put copy-through dove-count %d: %w", numFrom, n, err)
			}
		} else {
			putWins := pf.WinPaths(numFrom, n+1)
			if err := runPhase(opts.Ledger, numFrom, fmt.Sprintf("trim-put:%02d", n), n, func() (int, error) {
				if err := pipeline.TrimOnAction(moveDst, putDst, n, n+1, putWins, opts.NumWorkers, opts.Split[n+1]); err != nil {
					return 0, err
				}
				return countDir(putDst)
			}); err != nil {
				return fmt.Errorf("driver: step %d: trim-put dove-count %d: %w", numFrom, n, err)
			}
		}

		removeDst := pathfactory.DoveDir(pf.TrimmedRemove(numFrom), n)
		if n == minDoves {
			// No Remove workstream below 2 doves: carry the Put
			// survivors straight through.
			if err := pipeline.CopyThrough(putDst, removeDst); err != nil {
				return fmt.Errorf("driver: step %d: remove copy-through dove-count %d: %w", numFrom, n, err)
			}
		} else {
			removeWins := pf.WinPaths(numFrom, n-1)
			if err := runPhase(opts.Ledger, numFrom, fmt.Sprintf("trim-remove:%02d", n), n, func() (int, error) {
				if err := pipeline.TrimOnAction(putDst, removeDst, n, n-1, removeWins, opts.NumWorkers, opts.Split[n-1]); err != nil {
					return 0, err
				}
				return countDir(removeDst)
			}); err != nil {
				return fmt.Errorf("driver: step %d: trim-remove dove-count %d: %w", numFrom, n, err)
			}
		}

		dst := pathfactory.DoveFile(dstDir, n)
		if err := runPhase(opts.Ledger, numFrom, fmt.Sprintf("gather:%02d", n), n, func() (int, error) {
			if err := pipeline.Gather(removeDst, dst); err != nil {
				return 0, err
			}
			return countFile(dst)
		}); err != nil {
			return fmt.Errorf("driver: step %d: gather dove-count %d: %w", numFrom, n, err)
		}
	}
	if err := padMissingDoveFiles(dstDir, doveCounts); err != nil {
		return fmt.Errorf("driver: step %d: %w", numFrom, err)
	}

	maybeCleanTmp(pf, numFrom, opts)
	return nil
}

// xToXCommon runs the three phases shared by both step parities
// (Backstep, Redistribute, Trim-simple) for every dove count present
// in step numFrom, and returns the dove counts it found work for.
func xToXCommon(pf pathfactory.Factory, numFrom int, opts Options) ([]int, error) {
	srcDir := pf.NumDir(numFrom)
	var present []int
	for n := minDoves; n <= maxDoves; n++ {
		if _, err := os.Stat(pathfactory.DoveFile(srcDir, n)); err == nil {
			present = append(present, n)
		}
	}

	backsteppedDir := pf.Backstepped(numFrom)
	for _, n := range present {
		src := pathfactory.DoveFile(srcDir, n)
		if err := runPhase(opts.Ledger, numFrom, fmt.Sprintf("backstep:%02d", n), n, func() (int, error) {
			if err := pipeline.Backstep(src, n, backsteppedDir, opts.NumWorkers, opts.MaxChunkSize); err != nil {
				return 0, err
			}
			return 0, nil
		}); err != nil {
			return nil, fmt.Errorf("backstep dove-count %d: %w", n, err)
		}
	}

	// Backstep's predecessors can land at any dove count, not just the
	// ones present in srcDir, so every bucket it actually created must
	// be carried forward regardless of which source counts fed it.
	producedCounts, err := listDoveDirs(backsteppedDir)
	if err != nil {
		return nil, fmt.Errorf("list backstepped buckets: %w", err)
	}

	redistributedDir := pf.Redistributed(numFrom)
	for _, n := range producedCounts {
		src := pathfactory.DoveDir(backsteppedDir, n)
		dst := pathfactory.DoveDir(redistributedDir, n)
		if err := runPhase(opts.Ledger, numFrom, fmt.Sprintf("redistribute:%02d", n), n, func() (int, error) {
			if err := pipeline.Redistribute(src, dst, opts.NumWorkers); err != nil {
				return 0, err
			}
			return countDir(dst)
		}); err != nil {
			return nil, fmt.Errorf("redistribute dove-count %d: %w", n, err)
		}
	}

	trimmedSimplyDir := pf.TrimmedSimply(numFrom)
	for _, n := range producedCounts {
		src := pathfactory.DoveDir(redistributedDir, n)
		dst := pathfactory.DoveDir(trimmedSimplyDir, n)
		wins := pf.WinPaths(numFrom, n)
		if err := runPhase(opts.Ledger, numFrom, fmt.Sprintf("trim-simple:%02d", n), n, func() (int, error) {
			if err := pipeline.TrimSimple(src, dst, wins, opts.NumWorkers); err != nil {
				return 0, err
			}
			return countDir(dst)
		}); err != nil {
			return nil, fmt.Errorf("trim-simple dove-count %d: %w", n, err)
		}
	}

	return producedCounts, nil
}

func maybeCleanTmp(pf pathfactory.Factory, numFrom int, opts Options) {
	if !opts.DelTmpFiles {
		return
	}
	os.RemoveAll(pf.NumTmpDir(numFrom))
}
