package boardset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kpudding/doves-retrograde/internal/board"
)

func TestInsertContainsRemove(t *testing.T) {
	s := New()
	h := board.Hash(0x1234)
	if s.Contains(h) {
		t.Fatalf("empty set must not contain anything")
	}
	s.Insert(h)
	if !s.Contains(h) {
		t.Fatalf("expected h to be present after Insert")
	}
	if s.Len() != 1 {
		t.Fatalf("expected len 1, got %d", s.Len())
	}
	s.Remove(h)
	if s.Contains(h) {
		t.Fatalf("expected h to be absent after Remove")
	}
	if s.Len() != 0 {
		t.Fatalf("expected len 0 after Remove, got %d", s.Len())
	}
}

func TestInsertIsIdempotent(t *testing.T) {
	s := New()
	h := board.Hash(0xABCD)
	s.Insert(h)
	s.Insert(h)
	if s.Len() != 1 {
		t.Fatalf("duplicate Insert must not grow the set, got len %d", s.Len())
	}
}

// TestBoardSetSplit is spec scenario 3: S = {h1..h5}, split(2) gives
// |a|==2, |b|==3, a ∪ b == S.
func TestBoardSetSplit(t *testing.T) {
	s := New()
	want := []board.Hash{0x1, 0x2, 0x3, 0x4, 0x5}
	for _, h := range want {
		s.Insert(h)
	}

	a := s.Split(2)
	if a.Len() != 2 {
		t.Fatalf("expected |a| == 2, got %d", a.Len())
	}
	if s.Len() != 3 {
		t.Fatalf("expected |b| (remainder) == 3, got %d", s.Len())
	}

	union := map[board.Hash]bool{}
	a.Each(func(h board.Hash) { union[h] = true })
	s.Each(func(h board.Hash) { union[h] = true })
	if len(union) != len(want) {
		t.Fatalf("expected a ∪ b to recover all %d elements, got %d", len(want), len(union))
	}
	for _, h := range want {
		if !union[h] {
			t.Fatalf("split lost element %#x", h)
		}
	}
}

func TestSplitMoreThanLenReturnsEverything(t *testing.T) {
	s := New()
	s.Insert(1)
	s.Insert(2)
	a := s.Split(10)
	if a.Len() != 2 {
		t.Fatalf("expected split to cap at len(s), got %d", a.Len())
	}
	if s.Len() != 0 {
		t.Fatalf("expected source to be empty after splitting off everything")
	}
}

func TestAbsorbUnionsAndEmptiesOther(t *testing.T) {
	a := New()
	a.Insert(1)
	a.Insert(2)
	b := New()
	b.Insert(2)
	b.Insert(3)

	a.Absorb(b)

	if a.Len() != 3 {
		t.Fatalf("expected union of {1,2} and {2,3} to have 3 elements, got %d", a.Len())
	}
	if b.Len() != 0 {
		t.Fatalf("expected absorbed set to be left empty, got len %d", b.Len())
	}
	for _, h := range []board.Hash{1, 2, 3} {
		if !a.Contains(h) {
			t.Fatalf("expected union to contain %#x", h)
		}
	}
}

func TestAbsorbEmptyIsIdentity(t *testing.T) {
	a := New()
	a.Insert(1)
	a.Absorb(New())
	if a.Len() != 1 {
		t.Fatalf("absorbing an empty set must not change the receiver")
	}
}

func TestSaveLoadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shard.tdl")

	s := New()
	for _, h := range []board.Hash{0x1, 0x2, 0x3, 0x0100000000000000, 0xFF00000000000000} {
		s.Insert(h)
	}

	if err := Save(path, s); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Len() != s.Len() {
		t.Fatalf("expected round-tripped len %d, got %d", s.Len(), loaded.Len())
	}
	s.Each(func(h board.Hash) {
		if !loaded.Contains(h) {
			t.Fatalf("round-tripped set is missing %#x", h)
		}
	})
}

func TestLoadFilterOnlyKeepsMatching(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shard.tdl")

	s := New()
	for _, h := range []board.Hash{0x1, 0x2, 0x3, 0x4} {
		s.Insert(h)
	}
	if err := Save(path, s); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadFilter(path, func(h board.Hash) bool { return h%2 == 0 })
	if err != nil {
		t.Fatalf("LoadFilter failed: %v", err)
	}
	if loaded.Len() != 2 {
		t.Fatalf("expected 2 even hashes, got %d", loaded.Len())
	}
	if !loaded.Contains(2) || !loaded.Contains(4) {
		t.Fatalf("expected the filtered set to contain exactly {2,4}")
	}
}

func TestRequiredCapacityIsExactUpperBound(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shard.tdl")

	s := New()
	for _, h := range []board.Hash{0x1, 0x2, 0x3} {
		s.Insert(h)
	}
	if err := Save(path, s); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	gotCap, err := RequiredCapacity(path)
	if err != nil {
		t.Fatalf("RequiredCapacity failed: %v", err)
	}
	if int(gotCap) != s.Len() {
		t.Fatalf("expected exact capacity %d, got %d", s.Len(), gotCap)
	}
}

func TestSaveEmptySetRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.tdl")

	if err := Save(path, New()); err != nil {
		t.Fatalf("Save of empty set failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load of empty set failed: %v", err)
	}
	if loaded.Len() != 0 {
		t.Fatalf("expected empty round-trip, got len %d", loaded.Len())
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file to exist: %v", err)
	}
}
