package pipeline

import (
	"fmt"
	"os"

	"github.com/kpudding/doves-retrograde/internal/boardset"
	"github.com/kpudding/doves-retrograde/internal/pathfactory"
)

// Redistribute gathers every file in srcDir into one set and re-splits
// it into numResultFiles `.tdl` files of approximately equal length
// under dstDir, so downstream phases see uniform-sized shards
// regardless of how lopsided Backstep's own output happened to be.
//
// The total count is summed from each input file's shard headers (no
// hash is decoded, though compressed payloads are still read past),
// and chunk = ceil(total/numResultFiles) is computed up front. Every
// input file is then loaded into one in-memory set, so resident size
// is the whole input; the inputs are not streamed. Chunk-sized files
// are split off that set in turn (the last may be smaller). Once it is
// empty, empty files are written out to make up numResultFiles total,
// so downstream phases always see a stable file count.
func Redistribute(srcDir, dstDir string, numResultFiles int) error {
	if numResultFiles < 1 {
		numResultFiles = 1
	}
	files, err := listTDLFiles(srcDir)
	if err != nil {
		return fmt.Errorf("pipeline: redistribute: %w", err)
	}
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("pipeline: redistribute: mkdir %s: %w", dstDir, err)
	}
	if len(files) == 0 {
		return padEmptyFiles(dstDir, 0, numResultFiles)
	}

	var total int64
	for _, p := range files {
		c, err := boardset.RequiredCapacity(p)
		if err != nil {
			return fmt.Errorf("pipeline: redistribute: capacity of %s: %w", p, err)
		}
		total += int64(c)
	}
	chunk := int((total + int64(numResultFiles) - 1) / int64(numResultFiles))
	if chunk < 1 {
		chunk = 1
	}

	merged, err := loadAll(files)
	if err != nil {
		return fmt.Errorf("pipeline: redistribute: %w", err)
	}

	idx := 0
	for merged.Len() > 0 {
		out := merged.Split(chunk)
		path := pathfactory.DistributedPath(dstDir, idx)
		if err := boardset.Save(path, out); err != nil {
			return fmt.Errorf("pipeline: redistribute: save %s: %w", path, err)
		}
		idx++
	}
	logProgress("redistribute", 0, int(total))
	return padEmptyFiles(dstDir, idx, numResultFiles)
}

// padEmptyFiles writes empty `.tdl` files so exactly numResultFiles
// files exist under dstDir at indices [written, numResultFiles).
func padEmptyFiles(dstDir string, written, numResultFiles int) error {
	for idx := written; idx < numResultFiles; idx++ {
		path := pathfactory.DistributedPath(dstDir, idx)
		if err := boardset.Save(path, boardset.New()); err != nil {
			return fmt.Errorf("pipeline: redistribute: pad %s: %w", path, err)
		}
	}
	return nil
}
