package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/kpudding/doves-retrograde/internal/board"
	"github.com/kpudding/doves-retrograde/internal/boardset"
	"github.com/kpudding/doves-retrograde/internal/filters"
)

// partition is one RAM-sized slice of a win-count's oracle: a
// predicate selecting which candidates belong to it (targetFilter),
// the matching predicate for loading only that slice of the win files
// (winFilter), and a per-action predicate (actionFilter) narrowing a
// candidate's forward actions down to the ones that could actually
// bridge into this partition's slice.
//
// targetFilter is only a safe single-partition assignment when the
// feature it inspects (h0's own presence mask or dove count) is
// invariant under the mover's own action — true for the 9- and
// 10-piece keys (both inspect the static, non-mover side) and for the
// 11/12-piece keys when numFromDoves == numWinDoves (a Move never
// changes presence, so the post-swap mask/distance is fixed
// regardless of which Move is taken). It is NOT safe when the
// candidate's own dove count differs from the oracle's (a Put or
// Remove changes which specific successor mask/distance a given
// action reaches), so fallbackToActionFilter lets such candidates
// fall through every partition's targetFilter and be judged purely by
// actionFilter instead.
type partition struct {
	label                  string
	targetFilter           filters.HashFilter
	winFilter              filters.HashFilter
	actionFilter           filters.ActionFilter
	fallbackToActionFilter bool
}

// alwaysAction admits every action; used wherever a partition's own
// actionFilter carries no real narrowing information.
func alwaysAction(board.Action, board.Hash) bool { return true }

// partitionsFor returns the partitions to loop over for a given
// from/win dove-count pair. Below 9 pieces the whole oracle is small
// enough to load at once, so there is exactly one partition with an
// always-true filter. At 9+ pieces, if splitRequested is set, the
// oracle is sliced by dove-count for 9, an exact Red-projected
// presence mask for 10, an exact full presence mask for 11, and
// boss-to-aniki distance for 12.
func partitionsFor(numFromDoves, numWinDoves int, winPaths []string, splitRequested bool) ([]partition, error) {
	always := func(board.Hash) bool { return true }
	if !splitRequested || numWinDoves < 9 {
		return []partition{{label: "all", targetFilter: always, winFilter: always, actionFilter: alwaysAction}}, nil
	}

	switch {
	case numWinDoves == 9:
		counts, err := distinctKeys(winPaths, func(h board.Hash) any {
			return h.PresenceMask().Project(board.Red).CountDoves()
		})
		if err != nil {
			return nil, err
		}
		out := make([]partition, 0, len(counts))
		for _, raw := range counts {
			c := raw.(uint32)
			out = append(out, partition{
				label:        fmt.Sprintf("count=%d", c),
				targetFilter: filters.TargetFilter9(c),
				winFilter:    filters.WinFilter9(c),
				actionFilter: filters.ActionFilter9(numFromDoves, numWinDoves),
			})
		}
		return out, nil

	case numWinDoves == 10:
		masks, err := distinctKeys(winPaths, func(h board.Hash) any {
			return h.PresenceMask().Project(board.Red)
		})
		if err != nil {
			return nil, err
		}
		out := make([]partition, 0, len(masks))
		for _, raw := range masks {
			m := raw.(board.OnOff)
			out = append(out, partition{
				label:        fmt.Sprintf("mask=%012b", uint64(m)>>48),
				targetFilter: filters.TargetFilter10(m),
				winFilter:    filters.WinFilter10(m),
				actionFilter: filters.ActionFilter10(numFromDoves, numWinDoves),
			})
		}
		return out, nil

	case numWinDoves == 11:
		masks, err := distinctKeys(winPaths, func(h board.Hash) any {
			return h.PresenceMask()
		})
		if err != nil {
			return nil, err
		}
		out := make([]partition, 0, len(masks))
		for _, raw := range masks {
			m := raw.(board.OnOff)
			out = append(out, partition{
				label:                  fmt.Sprintf("mask=%012b", uint64(m)>>48),
				targetFilter:           filters.TargetFilter11(m),
				winFilter:              filters.WinFilter11(m),
				actionFilter:           filters.ActionFilter11(m),
				fallbackToActionFilter: numFromDoves != numWinDoves,
			})
		}
		return out, nil

	default: // 12
		dists, err := distinctKeys(winPaths, func(h board.Hash) any { return h.DistanceA(board.Red) })
		if err != nil {
			return nil, err
		}
		out := make([]partition, 0, len(dists))
		for _, raw := range dists {
			d := raw.(uint64)
			out = append(out, partition{
				label:                  fmt.Sprintf("dist=%d", d),
				targetFilter:           filters.TargetFilter12(d),
				winFilter:              filters.WinFilter12(d),
				actionFilter:           filters.ActionFilter12(d),
				fallbackToActionFilter: numFromDoves != numWinDoves,
			})
		}
		return out, nil
	}
}

// distinctKeys streams every hash in paths without materializing a
// BoardSet, collecting the distinct values key(h) takes. The result
// set is bounded by the feature's domain (a handful of counts, masks,
// or distances), never by the number of hashes in the files.
func distinctKeys(paths []string, key func(board.Hash) any) ([]any, error) {
	seen := map[any]struct{}{}
	for _, p := range paths {
		if err := boardset.StreamHashes(p, func(h board.Hash) { seen[key(h)] = struct{}{} }); err != nil {
			return nil, err
		}
	}
	out := make([]any, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	return out, nil
}

// loadOracle loads winPaths concurrently, one goroutine per file,
// each filtered to the partition's winFilter, and unions the results.
// If any file fails to load, the first failure is returned once every
// sibling load has returned (a failure does not cancel the others),
// since a corrupt or missing oracle file makes the whole partition's
// verdicts meaningless.
func loadOracle(winPaths []string, winFilter filters.HashFilter) (*boardset.BoardSet, error) {
	loaded := make([]*boardset.BoardSet, len(winPaths))
	var g errgroup.Group
	for i, p := range winPaths {
		i, p := i, p
		g.Go(func() error {
			s, err := boardset.LoadFilter(p, winFilter)
			if err != nil {
				return err
			}
			loaded[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	out := boardset.New()
	for _, s := range loaded {
		out.Absorb(s)
	}
	return out, nil
}

// candidateState tracks one candidate's progress across partition
// passes: how many of its non-terminal forward successors have been
// confirmed present in some partition's oracle slice so far, out of
// how many there are in total, and whether any confirmed-checked
// successor turned out absent (a verdict that no later pass can
// undo).
type candidateState struct {
	total   int
	checked int
	failed  bool
}

// nonTerminalSuccessors returns h0's forward actions under flags whose
// resulting position is not already decided.
func nonTerminalSuccessors(h0 board.Hash, flags board.ActionFlags) []board.Action {
	actions := board.ForwardActions(h0, board.Red, flags)
	out := make([]board.Action, 0, len(actions))
	for _, a := range actions {
		b1 := board.Apply(h0, a)
		if board.IsDecidedTerminal(b1, board.Green) || board.IsDecidedTerminal(b1, board.Red) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// TrimOnAction keeps only the candidates in srcDir (each of dove
// count numFromDoves) whose every non-terminal forward successor,
// under the direction implied by numWinDoves-numFromDoves, is present
// in the winPaths oracle (restricted to dove count numWinDoves).
// Survivors are written to dstDir. When splitRequested is true and
// numWinDoves is large enough to need it, the oracle is loaded and
// applied one RAM-sized partition at a time: every candidate's
// successors are checked off against whichever partition's slice
// actually contains them (via each partition's targetFilter/
// actionFilter), and a candidate survives only once every one of its
// successors has been confirmed present, across however many passes
// that took.
func TrimOnAction(srcDir, dstDir string, numFromDoves, numWinDoves int, winPaths []string, numWorkers int, splitRequested bool) error {
	if numFromDoves < 2 || numFromDoves > 12 || numWinDoves < 2 || numWinDoves > 12 {
		return fmt.Errorf("pipeline: trim-on-action: invalid dove counts n_from=%d n_win=%d", numFromDoves, numWinDoves)
	}
	flags := directionFlags(numWinDoves - numFromDoves)

	files, err := listTDLFiles(srcDir)
	if err != nil {
		return fmt.Errorf("pipeline: trim-on-action: %w", err)
	}
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("pipeline: trim-on-action: mkdir %s: %w", dstDir, err)
	}
	if len(files) == 0 {
		return nil
	}

	parts, err := partitionsFor(numFromDoves, numWinDoves, winPaths, splitRequested)
	if err != nil {
		return fmt.Errorf("pipeline: trim-on-action: %w", err)
	}

	shards := make(map[string]*boardset.BoardSet, len(files))
	states := make(map[string]map[board.Hash]*candidateState, len(files))
	for _, src := range files {
		shard, err := boardset.Load(src)
		if err != nil {
			return fmt.Errorf("pipeline: trim-on-action: load %s: %w", src, err)
		}
		shards[src] = shard
		st := make(map[board.Hash]*candidateState, shard.Len())
		shard.Each(func(h0 board.Hash) {
			st[h0] = &candidateState{total: len(nonTerminalSuccessors(h0, flags))}
		})
		states[src] = st
	}
	chunks := chunkFiles(files, numWorkers)

	for _, part := range parts {
		wins, err := loadOracle(winPaths, part.winFilter)
		if err != nil {
			return fmt.Errorf("pipeline: trim-on-action: partition %s: %w", part.label, err)
		}

		seen := 0
		for _, batch := range chunks {
			for _, src := range batch {
				shard := shards[src]
				st := states[src]
				shard.Each(func(h0 board.Hash) {
					seen++
					tickProgress("trim-on-action:"+part.label, seen)
					cs := st[h0]
					if cs.failed {
						return
					}
					admitted := part.targetFilter(h0)
					if !admitted && !part.fallbackToActionFilter {
						return
					}
					for _, a := range nonTerminalSuccessors(h0, flags) {
						if !part.actionFilter(a, h0) {
							continue
						}
						b1 := board.Apply(h0, a)
						cs.checked++
						if !wins.Contains(canonicalSuccessor(b1)) {
							cs.failed = true
							return
						}
					}
				})
			}
		}
		logProgress("trim-on-action:"+part.label, numWinDoves, wins.Len())
	}

	for src, shard := range shards {
		st := states[src]
		out := boardset.New()
		shard.Each(func(h0 board.Hash) {
			cs := st[h0]
			if cs.failed || cs.checked < cs.total {
				return
			}
			out.Insert(h0)
		})
		dst := filepath.Join(dstDir, filepath.Base(src))
		if err := boardset.Save(dst, out); err != nil {
			return fmt.Errorf("pipeline: trim-on-action: save %s: %w", dst, err)
		}
	}
	return nil
}

// directionFlags derives which Action kinds a trim-on-action pass
// should examine from the signed dove-count delta between a
// candidate's own count and the oracle it is being checked against.
func directionFlags(delta int) board.ActionFlags {
	switch {
	case delta > 0:
		return board.ActionFlags{Put: true}
	case delta < 0:
		return board.ActionFlags{Remove: true}
	default:
		return board.ActionFlags{Move: true}
	}
}
