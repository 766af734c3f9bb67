package board

import "testing"

// twoBossBoard places Red's boss and Green's boss diagonally adjacent,
// the minimal 2-dove non-terminal scenario.
func twoBossBoard() Hash {
	var b Board
	b.cells[5] = cell{present: true, color: Red, dove: B}   // (1,1)
	b.cells[10] = cell{present: true, color: Green, dove: B} // (2,2), diagonal neighbor
	return b.Hash()
}

func TestPredecessorsSmallestCase(t *testing.T) {
	b0 := twoBossBoard()
	if IsSurrounded(b0, Red) || IsSurrounded(b0, Green) {
		t.Fatalf("two diagonally-adjacent bosses should not be surrounded")
	}

	preds := Predecessors(b0, Green)
	if len(preds) == 0 {
		t.Fatalf("expected at least one predecessor")
	}

	buckets := map[uint32]int{}
	for _, p := range preds {
		n := p.Predecessor.CountDoves()
		buckets[n]++
		if n != 2 && n != 3 {
			t.Fatalf("predecessor dove-count %d outside {2,3}", n)
		}
	}
	if buckets[2] == 0 {
		t.Fatalf("expected a non-empty n=2 (move-predecessor) bucket")
	}
}

func TestPredecessorsYieldForwardAction(t *testing.T) {
	b0 := twoBossBoard()
	for _, p := range Predecessors(b0, Green) {
		got := Apply(p.Predecessor, p.Action)
		if got != b0 {
			t.Fatalf("applying undone action %+v to predecessor %#x produced %#x, want %#x",
				p.Action, p.Predecessor, got, b0)
		}
	}
}

func TestPredecessorBucketExcludesSelf(t *testing.T) {
	b0 := twoBossBoard()
	for _, p := range Predecessors(b0, Green) {
		if p.Predecessor == b0 {
			t.Fatalf("a predecessor must differ from the position it was derived from")
		}
	}
}
