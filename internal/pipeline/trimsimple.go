package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kpudding/doves-retrograde/internal/board"
	"github.com/kpudding/doves-retrograde/internal/boardset"
)

// TrimSimple removes every already-decided win position from each of
// srcDir's shard files, writing survivors to dstDir under the same
// file name. Per worker: load the shard into a BoardSet, then for
// each win file stream its raw hashes and remove any that are
// present — the win set itself is never materialized as a whole.
func TrimSimple(srcDir, dstDir string, winPaths []string, numWorkers int) error {
	files, err := listTDLFiles(srcDir)
	if err != nil {
		return fmt.Errorf("pipeline: trim-simple: %w", err)
	}
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("pipeline: trim-simple: mkdir %s: %w", dstDir, err)
	}
	if len(files) == 0 {
		return nil
	}

	chunks := chunkFiles(files, numWorkers)
	_, err = fanOut(chunks, func(batch []string) (*boardset.BoardSet, error) {
		for _, src := range batch {
			shard, err := boardset.Load(src)
			if err != nil {
				return nil, err
			}
			for _, winPath := range winPaths {
				if err := removePresent(shard, winPath); err != nil {
					return nil, err
				}
			}
			dst := filepath.Join(dstDir, filepath.Base(src))
			if err := boardset.Save(dst, shard); err != nil {
				return nil, fmt.Errorf("pipeline: trim-simple: save %s: %w", dst, err)
			}
		}
		return boardset.New(), nil
	})
	if err != nil {
		return fmt.Errorf("pipeline: trim-simple: %w", err)
	}
	logProgress("trim-simple", 0, len(files))
	return nil
}

// removePresent streams winPath's raw hashes and removes any of them
// found in shard, without ever holding the whole win file in memory
// as a BoardSet.
func removePresent(shard *boardset.BoardSet, winPath string) error {
	return boardset.StreamHashes(winPath, func(h board.Hash) { shard.Remove(h) })
}
