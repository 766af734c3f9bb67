package driver

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/kpudding/doves-retrograde/internal/boardset"
	"github.com/kpudding/doves-retrograde/internal/ledger"
	"github.com/kpudding/doves-retrograde/internal/pathfactory"
)

// runPhase wraps one named phase's work with ledger bookkeeping: if
// the ledger already holds a completed record for (step, phase), the
// work is skipped entirely (resumability across re-runs); otherwise
// fn runs, and on success its reported count is recorded against
// doveCount alongside the wall-clock duration.
func runPhase(l *ledger.Ledger, step int, phase string, doveCount int, fn func() (int, error)) error {
	if l != nil {
		done, err := l.IsPhaseComplete(step, phase)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}

	start := time.Now()
	count, err := fn()
	if err != nil {
		return err
	}
	if l == nil {
		return nil
	}
	return l.RecordPhase(ledger.PhaseRecord{
		Step:      step,
		Phase:     phase,
		Completed: true,
		Counts:    map[int]int{doveCount: count},
		Duration:  time.Since(start),
	})
}

// listDoveDirs returns the dove counts for which parent holds a
// two-digit subdirectory, sorted ascending.
func listDoveDirs(parent string) ([]int, error) {
	entries, err := os.ReadDir(parent)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var out []int
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		n, err := strconv.Atoi(e.Name())
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	sort.Ints(out)
	return out, nil
}

// padMissingDoveFiles writes an empty `.tdl` file for every dove
// count in [minDoves, maxDoves] not already present in produced and
// not already on disk (so a re-run never blanks a finished file), so a
// finished step directory always holds all eleven per-dove-count
// files per the directory layout contract. Without this, WinPaths
// would name files that were never written for dove counts a step
// happened to produce no survivors at.
func padMissingDoveFiles(dstDir string, produced []int) error {
	have := make(map[int]bool, len(produced))
	for _, n := range produced {
		have[n] = true
	}
	for n := minDoves; n <= maxDoves; n++ {
		if have[n] {
			continue
		}
		path := pathfactory.DoveFile(dstDir, n)
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if err := boardset.Save(path, boardset.New()); err != nil {
			return err
		}
	}
	return nil
}

// countFile returns a single `.tdl` file's exact position count.
func countFile(path string) (int, error) {
	c, err := boardset.RequiredCapacity(path)
	if err != nil {
		return 0, err
	}
	return int(c), nil
}

// countDir sums the exact position count across every `.tdl` file
// directly inside dir.
func countDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".tdl" {
			continue
		}
		c, err := countFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return 0, err
		}
		total += c
	}
	return total, nil
}
