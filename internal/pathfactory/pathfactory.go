// Package pathfactory names the on-disk directory layout the driver
// reads and writes at each step of the analysis: a root directory
// holding one subdirectory per step number, plus a `_tmp` scratch
// subdirectory per step for the intermediate phases that run between
// a step's backstep and its gather.
package pathfactory

import (
	"fmt"
	"path/filepath"
)

// Factory roots every path the driver needs at a given step number
// under a single base directory.
type Factory struct {
	root string
}

// New returns a Factory rooted at root.
func New(root string) Factory {
	return Factory{root: root}
}

// NumDir is the directory holding a finished step's per-dove-count
// `.tdl` files (e.g. `0007/09.tdl`).
func (f Factory) NumDir(numStep int) string {
	return filepath.Join(f.root, fmt.Sprintf("%04d", numStep))
}

// NumTmpDir is the scratch directory for a step still in progress.
func (f Factory) NumTmpDir(numStep int) string {
	return filepath.Join(f.root, fmt.Sprintf("%04d_tmp", numStep))
}

// Backstepped is where Backstep writes its per-worker partial output.
func (f Factory) Backstepped(numStep int) string {
	return filepath.Join(f.NumTmpDir(numStep), "backstepped")
}

// Redistributed is where Redistribute writes evenly-chunked shards.
func (f Factory) Redistributed(numStep int) string {
	return filepath.Join(f.NumTmpDir(numStep), "redistributed")
}

// TrimmedSimply is Trim-simple's output directory.
func (f Factory) TrimmedSimply(numStep int) string {
	return filepath.Join(f.NumTmpDir(numStep), "trimmed_simply")
}

// TrimmedMove is the Move workstream's Trim-on-action output.
func (f Factory) TrimmedMove(numStep int) string {
	return filepath.Join(f.NumTmpDir(numStep), "trimmed_move")
}

// TrimmedPut is the Put workstream's Trim-on-action output.
func (f Factory) TrimmedPut(numStep int) string {
	return filepath.Join(f.NumTmpDir(numStep), "trimmed_put")
}

// TrimmedRemove is the Remove workstream's Trim-on-action output.
func (f Factory) TrimmedRemove(numStep int) string {
	return filepath.Join(f.NumTmpDir(numStep), "trimmed_remove")
}

// WinPaths lists every already-finished step's `.tdl` file for a given
// dove count, from step 3 up to numStepCeil in steps of two (the
// parity at which "win" steps land), oldest first. This is the set
// of oracle files a trim phase may need to consult.
func (f Factory) WinPaths(numStepCeil, numDoves int) []string {
	var out []string
	for n := 3; n <= numStepCeil; n += 2 {
		out = append(out, joinDoveFile(f.NumDir(n), numDoves))
	}
	return out
}

// joinDoveFile joins a two-digit, zero-padded dove-count `.tdl`
// filename onto dir.
func joinDoveFile(dir string, numDoves int) string {
	return filepath.Join(dir, fmt.Sprintf("%02d.tdl", numDoves))
}

// DoveFile names the `.tdl` file for numDoves within dir, e.g. the
// file a step's NumDir holds for a particular dove count.
func DoveFile(dir string, numDoves int) string {
	return joinDoveFile(dir, numDoves)
}

// DoveDir is the per-dove-count subdirectory under a phase's output
// directory (each phase shards its output by dove count before
// sharding further by worker/file index).
func DoveDir(parent string, numDoves int) string {
	return filepath.Join(parent, fmt.Sprintf("%02d", numDoves))
}

// DistributedPath names the fileIdx-th chunk file Redistribute emits
// under a dove-count directory.
func DistributedPath(parent string, fileIdx int) string {
	return filepath.Join(parent, fmt.Sprintf("%04d.tdl", fileIdx))
}
