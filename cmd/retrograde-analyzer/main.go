package main

import (
	"flag"
	"log"
	"strconv"
	"strings"

	"github.com/kpudding/doves-retrograde/internal/driver"
	"github.com/kpudding/doves-retrograde/internal/ledger"
	"github.com/kpudding/doves-retrograde/internal/pathfactory"
	"github.com/kpudding/doves-retrograde/internal/pipeline"
)

const defaultSrcDir = "./data"

var (
	numDoves      = flag.Int("num-doves", 0, "step index num_from (required, must be >= 2)")
	srcDir        = flag.String("src-dir", defaultSrcDir, "root directory containing NNNN/ step subdirs")
	numProcesses  = flag.Int("num-processes", 1, "worker count and shard count for distributed files")
	split         = flag.String("split", "", "comma-separated dove-counts to load a partitioned oracle for")
	delTmpFiles   = flag.Bool("del-tmp-files", true, "delete NNNN_tmp/ once the whole step completes (not after each phase)")
	ledgerDir     = flag.String("ledger-dir", "", "run ledger directory (default <src-dir>/.ledger)")
	progressEvery = flag.Int("progress-every", 500000, "log a progress line every N hashes processed")
	maxChunkSize  = flag.Int("max-chunk-size", pipeline.DefaultMaxChunkSize, "max positions backstep holds resident per pass")
)

func main() {
	flag.Parse()

	if *numDoves < 2 {
		log.Fatalf("--num-doves must be >= 2, got %d", *numDoves)
	}

	splitSet, err := parseSplit(*split)
	if err != nil {
		log.Fatalf("--split: %v", err)
	}
	pipeline.SetProgressEvery(*progressEvery)

	dir := *ledgerDir
	if dir == "" {
		dir = ledger.DefaultDir(*srcDir)
	}
	l, err := ledger.Open(dir)
	if err != nil {
		log.Fatalf("could not open ledger at %s: %v", dir, err)
	}
	defer l.Close()

	log.Printf("retrograde-analyzer: step=%d src-dir=%s workers=%d del-tmp-files=%v ledger-dir=%s progress-every=%d max-chunk-size=%d",
		*numDoves, *srcDir, *numProcesses, *delTmpFiles, dir, *progressEvery, *maxChunkSize)

	pf := pathfactory.New(*srcDir)
	opts := driver.Options{
		NumWorkers:   *numProcesses,
		Split:        splitSet,
		DelTmpFiles:  *delTmpFiles,
		Ledger:       l,
		MaxChunkSize: *maxChunkSize,
	}

	if err := driver.AdvanceOneStep(pf, *numDoves, opts); err != nil {
		log.Fatalf("step %d failed: %v", *numDoves, err)
	}

	log.Printf("retrograde-analyzer: step %d -> %d complete", *numDoves, *numDoves+1)
}

// parseSplit turns a comma-separated "--split 9,10,11" flag value into
// the dove-count set driver.Options.Split expects. An empty string
// means no dove count is partitioned.
func parseSplit(raw string) (map[int]bool, error) {
	out := make(map[int]bool)
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return out, nil
	}
	for _, field := range strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ' ' }) {
		n, err := strconv.Atoi(field)
		if err != nil {
			return nil, err
		}
		out[n] = true
	}
	return out, nil
}
