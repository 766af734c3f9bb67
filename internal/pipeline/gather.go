package pipeline

import (
	"fmt"

	"github.com/kpudding/doves-retrograde/internal/boardset"
)

// Gather merges every shard file in srcDir into a single BoardSet and
// saves it to dstPath, producing the finished step's per-dove-count
// `.tdl` file from a phase's many worker outputs.
func Gather(srcDir, dstPath string) error {
	files, err := listTDLFiles(srcDir)
	if err != nil {
		return fmt.Errorf("pipeline: gather: %w", err)
	}
	merged, err := loadAll(files)
	if err != nil {
		return fmt.Errorf("pipeline: gather: %w", err)
	}
	if err := boardset.Save(dstPath, merged); err != nil {
		return fmt.Errorf("pipeline: gather: save %s: %w", dstPath, err)
	}
	logProgress("gather", 0, merged.Len())
	return nil
}
