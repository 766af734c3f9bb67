// Package pipeline implements the five phases of one retrograde
// analysis step: Backstep, Redistribute, Trim-simple, Trim-on-action,
// and Gather. Backstep and Trim-simple are N-way fan-out/fan-in over
// worker goroutines, in the same shape as a Lazy-SMP search worker
// pool: a WaitGroup launches the workers, a collector goroutine closes
// the result channel once they finish, and the calling goroutine
// drains it. No worker ever talks to another except by returning its
// result. Redistribute, Trim-on-action and Gather do not fan out: they
// process their inputs in the calling goroutine (Trim-on-action only
// loads its oracle files concurrently).
package pipeline

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/dustin/go-humanize"

	"github.com/kpudding/doves-retrograde/internal/board"
	"github.com/kpudding/doves-retrograde/internal/boardset"
)

// listTDLFiles returns every `.tdl` file directly inside dir, sorted
// for deterministic worker assignment.
func listTDLFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("pipeline: read dir %s: %w", dir, err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".tdl" {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	sort.Strings(out)
	return out, nil
}

// loadAll loads and absorbs every `.tdl` file in paths into a single
// set, reserving capacity from each file's header before reading it.
func loadAll(paths []string) (*boardset.BoardSet, error) {
	out := boardset.New()
	for _, p := range paths {
		s, err := boardset.Load(p)
		if err != nil {
			return nil, err
		}
		out.Absorb(s)
	}
	return out, nil
}

// chunkFiles splits paths into up to numWorkers roughly-even groups,
// dealing them out round-robin and preserving order within a group.
// Used to hand each worker its own subset of the source files rather
// than splitting an
// already-loaded set (keeps per-worker memory down to what its own
// files need).
func chunkFiles(paths []string, numWorkers int) [][]string {
	if numWorkers < 1 {
		numWorkers = 1
	}
	if len(paths) == 0 {
		return nil
	}
	if numWorkers > len(paths) {
		numWorkers = len(paths)
	}
	out := make([][]string, numWorkers)
	for i, p := range paths {
		idx := i % numWorkers
		out[idx] = append(out[idx], p)
	}
	return out
}

// workerResult is what a fan-out worker reports back: either a
// partial BoardSet or an error, never both.
type workerResult struct {
	set *boardset.BoardSet
	err error
}

// fanOut runs work once per chunk of chunks, concurrently, and merges
// every non-nil returned set into a single BoardSet via Absorb. The
// first error encountered is returned after every worker has
// finished (workers are never cancelled mid-flight: a single
// worker's I/O failure should not corrupt a sibling's in-progress
// write).
func fanOut(chunks [][]string, work func(files []string) (*boardset.BoardSet, error)) (*boardset.BoardSet, error) {
	resultCh := make(chan workerResult, len(chunks))
	var wg sync.WaitGroup
	for _, files := range chunks {
		wg.Add(1)
		go func(files []string) {
			defer wg.Done()
			s, err := work(files)
			resultCh <- workerResult{set: s, err: err}
		}(files)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(resultCh)
		close(done)
	}()
	<-done

	merged := boardset.New()
	var firstErr error
	for r := range resultCh {
		if r.err != nil {
			if firstErr == nil {
				firstErr = r.err
			}
			continue
		}
		merged.Absorb(r.set)
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return merged, nil
}

// logProgress is the one shared progress line every phase emits
// per dove count, formatted with go-humanize so large counts stay
// readable in a terminal.
func logProgress(phase string, numDoves int, n int) {
	log.Printf("%s: dove-count=%d positions=%s", phase, numDoves, humanize.Comma(int64(n)))
}

// progressEvery controls how often a worker logs an in-flight
// processed-hash count while streaming through a large input, as
// opposed to logProgress's one-line-per-phase-result summary.
// Overridden by SetProgressEvery; defaults to the CLI's own default
// so tests and library callers that never call it still get sensible
// output.
var progressEvery = 500000

// SetProgressEvery changes how many hashes a worker processes between
// in-flight progress lines. n <= 0 is ignored.
func SetProgressEvery(n int) {
	if n > 0 {
		progressEvery = n
	}
}

// tickProgress logs an in-flight count every progressEvery calls,
// keyed by a counter the caller owns and increments itself.
func tickProgress(phase string, seen int) {
	if seen > 0 && seen%progressEvery == 0 {
		log.Printf("%s: processed=%s", phase, humanize.Comma(int64(seen)))
	}
}

// canonicalPredecessor canonicalizes a Backstep-produced predecessor
// as Green, the single call-site convention this repository commits
// to for every canonicalization.
func canonicalPredecessor(h board.Hash) board.Hash {
	return h.Canonical(board.Green)
}

// canonicalSuccessor canonicalizes a Trim-on-action successor as
// Green (the opponent of the forward-moving Red), the mirror
// convention used at the other call site.
func canonicalSuccessor(h board.Hash) board.Hash {
	return h.Canonical(board.Green)
}

// CopyThrough duplicates every `.tdl` file from srcDir into dstDir
// unchanged. The driver uses this at the dove-count boundaries where
// a trim-on-action workstream does not apply (no Remove workstream
// below 2 doves, no Put workstream at 12), so the coupled pipeline can
// still chain its stages uniformly.
func CopyThrough(srcDir, dstDir string) error {
	files, err := listTDLFiles(srcDir)
	if err != nil {
		return fmt.Errorf("pipeline: copy-through: %w", err)
	}
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("pipeline: copy-through: mkdir %s: %w", dstDir, err)
	}
	for _, src := range files {
		dst := filepath.Join(dstDir, filepath.Base(src))
		if err := copyFile(src, dst); err != nil {
			return fmt.Errorf("pipeline: copy-through: %w", err)
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := out.ReadFrom(in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
