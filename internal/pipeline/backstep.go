package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/kpudding/doves-retrograde/internal/board"
	"github.com/kpudding/doves-retrograde/internal/boardset"
	"github.com/kpudding/doves-retrograde/internal/pathfactory"
)

// DefaultMaxChunkSize is the number of positions Backstep loads into
// memory at a time when the caller passes maxChunkSize <= 0: roughly
// 3 GiB resident for 8-byte hashes plus bucketing overhead.
const DefaultMaxChunkSize = 400_000_000

// Backstep reads every position in srcPath (all of dove-count
// srcDoveCount) in passes of at most maxChunkSize positions at a
// time, and for each one walks every backward-legal action Green
// could have undone to reach it, producing that action's predecessor.
// Predecessors already decided for Green (see board.IsDecidedTerminal)
// are skipped; the rest are canonicalized and bucketed by their own
// dove count (undoing a Move keeps the successor's count; undoing a
// Put leaves one dove fewer; undoing a Remove leaves one more). Each
// worker writes its own bucket files directly under dstDir, named so
// a later phase can tell which source dove-count, pass, and worker
// chunk produced it; no worker ever touches another's output path.
//
// Looping over bounded passes rather than loading srcPath whole keeps
// resident set bounded by maxChunkSize even when the full input set
// is far larger than RAM.
func Backstep(srcPath string, srcDoveCount int, dstDir string, numWorkers int, maxChunkSize int) error {
	if maxChunkSize <= 0 {
		maxChunkSize = DefaultMaxChunkSize
	}

	pass := 0
	err := boardset.StreamChunks(srcPath, maxChunkSize, func(hashes []board.Hash) error {
		if err := backstepPass(hashes, srcDoveCount, pass, numWorkers, dstDir); err != nil {
			return err
		}
		pass++
		return nil
	})
	if err != nil {
		return fmt.Errorf("pipeline: backstep: %w", err)
	}
	return nil
}

// backstepPass partitions one chunk's hashes across numWorkers
// goroutines and saves each worker's per-bucket output, tagging every
// file name with the chunk's pass index so later passes never
// overwrite an earlier pass's output.
func backstepPass(hashes []board.Hash, srcDoveCount, pass, numWorkers int, dstDir string) error {
	chunks := chunkHashSlice(hashes, numWorkers)
	errCh := make(chan error, len(chunks))
	var wg sync.WaitGroup
	for i, hs := range chunks {
		wg.Add(1)
		go func(i int, hs []board.Hash) {
			defer wg.Done()
			errCh <- backstepAndSave(hs, srcDoveCount, pass, i, dstDir)
		}(i, hs)
	}
	wg.Wait()
	close(errCh)

	var firstErr error
	for err := range errCh {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// backstepAndSave computes one worker chunk's predecessor buckets and
// saves each directly to its own shard file.
func backstepAndSave(hashes []board.Hash, srcDoveCount, pass, chunkIdx int, dstDir string) error {
	buckets, err := backstepWorker(hashes)
	if err != nil {
		return err
	}
	for n, set := range buckets {
		dir := pathfactory.DoveDir(dstDir, n)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("pipeline: backstep: mkdir %s: %w", dir, err)
		}
		path := filepath.Join(dir, fmt.Sprintf("from_%02d_%04d_%04d.tdl", srcDoveCount, pass, chunkIdx))
		if err := boardset.Save(path, set); err != nil {
			return fmt.Errorf("pipeline: backstep: save %s: %w", path, err)
		}
		logProgress("backstep", n, set.Len())
	}
	return nil
}

func backstepWorker(hashes []board.Hash) (map[int]*boardset.BoardSet, error) {
	out := map[int]*boardset.BoardSet{}
	for i, h := range hashes {
		tickProgress("backstep", i+1)
		for _, p := range board.Predecessors(h, board.Green) {
			if board.IsDecidedTerminal(p.Predecessor, board.Green) {
				continue
			}
			canon := canonicalPredecessor(p.Predecessor)
			n := int(canon.CountDoves())
			s, ok := out[n]
			if !ok {
				s = boardset.New()
				out[n] = s
			}
			s.Insert(canon)
		}
	}
	return out, nil
}

// chunkHashSlice splits hashes into at most numWorkers roughly even
// slices, for the fan-out across one backstep pass.
func chunkHashSlice(hashes []board.Hash, numWorkers int) [][]board.Hash {
	if numWorkers < 1 {
		numWorkers = 1
	}
	if numWorkers > len(hashes) {
		numWorkers = len(hashes)
	}
	if numWorkers == 0 {
		return nil
	}
	out := make([][]board.Hash, 0, numWorkers)
	base := len(hashes) / numWorkers
	rem := len(hashes) % numWorkers
	start := 0
	for i := 0; i < numWorkers; i++ {
		size := base
		if i < rem {
			size++
		}
		out = append(out, hashes[start:start+size])
		start += size
	}
	return out
}
