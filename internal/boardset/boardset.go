// Package boardset implements the BoardSet container: a set of
// unique 64-bit position hashes sharded by the high byte of the hash
// into 256 buckets. Sharding lets a file's capacity be estimated from
// its header alone and gives the on-disk `.tdl` format a deterministic
// layout, which in turn makes save-then-load byte-for-byte repeatable
// for a fixed set of contents.
package boardset

import (
	"sort"

	"github.com/kpudding/doves-retrograde/internal/board"
)

const numShards = 256

// BoardSet is mutated by exactly one owning goroutine at a time; the
// phase engine never shares a *BoardSet for writes across workers,
// only read-only via the oracle handle during trim-on-action.
type BoardSet struct {
	shards [numShards]map[board.Hash]struct{}
	size   int
}

// New returns an empty BoardSet.
func New() *BoardSet {
	return &BoardSet{}
}

// NewWithCapacity returns an empty BoardSet with its shard maps
// pre-sized from a capacity hint (typically read from a `.tdl`
// header via RequiredCapacity).
func NewWithCapacity(c Capacity) *BoardSet {
	s := &BoardSet{}
	hint := perShardHint(c)
	if hint == 0 {
		return s
	}
	for i := range s.shards {
		s.shards[i] = make(map[board.Hash]struct{}, hint)
	}
	return s
}

func shardOf(h board.Hash) byte {
	return byte(uint64(h) >> 56)
}

func (s *BoardSet) shard(h board.Hash) map[board.Hash]struct{} {
	i := shardOf(h)
	if s.shards[i] == nil {
		s.shards[i] = make(map[board.Hash]struct{})
	}
	return s.shards[i]
}

// Insert adds h to the set. It is a no-op if h is already present.
func (s *BoardSet) Insert(h board.Hash) {
	m := s.shard(h)
	if _, ok := m[h]; ok {
		return
	}
	m[h] = struct{}{}
	s.size++
}

// Remove deletes h from the set. It is a no-op if h is absent.
func (s *BoardSet) Remove(h board.Hash) {
	i := shardOf(h)
	m := s.shards[i]
	if m == nil {
		return
	}
	if _, ok := m[h]; !ok {
		return
	}
	delete(m, h)
	s.size--
}

// Contains reports whether h is in the set.
func (s *BoardSet) Contains(h board.Hash) bool {
	m := s.shards[shardOf(h)]
	if m == nil {
		return false
	}
	_, ok := m[h]
	return ok
}

// Len returns the number of distinct hashes in the set.
func (s *BoardSet) Len() int {
	return s.size
}

// Clear empties the set in place.
func (s *BoardSet) Clear() {
	for i := range s.shards {
		s.shards[i] = nil
	}
	s.size = 0
}

// Each calls fn once per hash in the set, shard by shard in ascending
// shard order and ascending hash order within a shard. Callers must
// not mutate the set from within fn.
func (s *BoardSet) Each(fn func(board.Hash)) {
	for _, shard := range s.sortedShards() {
		for _, h := range shard {
			fn(h)
		}
	}
}

// EachBoard is Each with every hash decoded into a Board first, for
// callers that want to inspect positions rather than raw hashes.
func (s *BoardSet) EachBoard(fn func(board.Board)) {
	s.Each(func(h board.Hash) { fn(board.Decode(h)) })
}

// sortedShards returns each non-empty shard's contents as an
// ascending slice, in shard order. It is the one place insertion
// order is thrown away in favor of a deterministic, sorted traversal,
// which both Each and Save rely on.
func (s *BoardSet) sortedShards() [][]board.Hash {
	out := make([][]board.Hash, 0, numShards)
	for i := 0; i < numShards; i++ {
		m := s.shards[i]
		if len(m) == 0 {
			continue
		}
		vals := make([]board.Hash, 0, len(m))
		for h := range m {
			vals = append(vals, h)
		}
		sortHashes(vals)
		out = append(out, vals)
	}
	return out
}

// Absorb merges other into s (multi-set union), consuming other: it
// reserves capacity up front from other's size and leaves other
// empty, mirroring an "into_iter().for_each(insert)" that does not
// pay for incremental map growth.
func (s *BoardSet) Absorb(other *BoardSet) {
	if other == nil || other.size == 0 {
		return
	}
	for i, m := range other.shards {
		if len(m) == 0 {
			continue
		}
		dst := s.shards[i]
		if dst == nil {
			dst = make(map[board.Hash]struct{}, len(m))
			s.shards[i] = dst
		}
		for h := range m {
			if _, exists := dst[h]; !exists {
				dst[h] = struct{}{}
				s.size++
			}
		}
	}
	other.Clear()
}

// Split removes up to k elements from s and returns them as a new
// set; the returned set and the receiver partition the original
// contents (their union is the original set, their intersection is
// empty), with no guarantee on which elements land on which side.
func (s *BoardSet) Split(k int) *BoardSet {
	out := New()
	if k <= 0 || s.size == 0 {
		return out
	}
	if k > s.size {
		k = s.size
	}
	taken := 0
shardLoop:
	for i, m := range s.shards {
		if len(m) == 0 {
			continue
		}
		for h := range m {
			if taken >= k {
				break shardLoop
			}
			delete(m, h)
			out.Insert(h)
			s.size--
			taken++
		}
		if len(m) == 0 {
			s.shards[i] = nil
		}
	}
	return out
}

// ShrinkToFit releases excess shard-map capacity. Go maps don't
// expose a shrink primitive directly, so this rebuilds each non-empty
// shard into a map sized exactly to its contents.
func (s *BoardSet) ShrinkToFit() {
	for i, m := range s.shards {
		if len(m) == 0 {
			s.shards[i] = nil
			continue
		}
		tight := make(map[board.Hash]struct{}, len(m))
		for h := range m {
			tight[h] = struct{}{}
		}
		s.shards[i] = tight
	}
}

func sortHashes(hs []board.Hash) {
	sort.Slice(hs, func(i, j int) bool { return hs[i] < hs[j] })
}
