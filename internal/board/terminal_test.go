package board

import "testing"

func TestIsSurroundedCorner(t *testing.T) {
	var b Board
	b.cells[0] = cell{present: true, color: Red, dove: B} // corner, 3 neighbors
	b.cells[1] = cell{present: true, color: Green, dove: H}
	b.cells[4] = cell{present: true, color: Green, dove: T}
	b.cells[5] = cell{present: true, color: Green, dove: M}
	h := b.Hash()

	if !IsSurrounded(h, Red) {
		t.Fatalf("corner boss with all neighbors occupied should be surrounded")
	}
}

func TestIsSurroundedFalseWhenBossAbsent(t *testing.T) {
	var b Board
	b.cells[0] = cell{present: true, color: Green, dove: B}
	h := b.Hash()
	if IsSurrounded(h, Red) {
		t.Fatalf("IsSurrounded should be false when the color's boss is off the board")
	}
}

func TestIsDecidedTerminalWinIn1(t *testing.T) {
	// Green's boss sits in a corner with two neighbors occupied by
	// Red; Red has a free dove that can fill the third neighbor and
	// win immediately.
	var b Board
	b.cells[0] = cell{present: true, color: Green, dove: B} // corner (0,0), neighbors 1,4,5
	b.cells[1] = cell{present: true, color: Red, dove: H}
	b.cells[4] = cell{present: true, color: Red, dove: T}
	b.cells[9] = cell{present: true, color: Red, dove: M} // adjacent to 5, not yet connected to group via 5
	h := b.Hash()

	if !IsDecidedTerminal(h, Red) {
		t.Fatalf("expected a win-in-1 for Red to be detected")
	}
}
