package board

import "testing"

func TestRemoveActionsDisabledAtMinimumCount(t *testing.T) {
	var b Board
	b.cells[0] = cell{present: true, color: Red, dove: B}
	b.cells[1] = cell{present: true, color: Green, dove: B}
	h := b.Hash()

	for _, a := range ForwardActions(h, Red, AllActions) {
		if a.Kind == ActionRemove {
			t.Fatalf("Remove must not be legal at the minimum dove-count of 2")
		}
	}
}

func TestPutActionsDisabledAtMaximumCount(t *testing.T) {
	var b Board
	coord := uint8(0)
	for _, d := range AllDoves {
		b.cells[coord] = cell{present: true, color: Red, dove: d}
		coord++
		b.cells[coord] = cell{present: true, color: Green, dove: d}
		coord++
	}
	h := b.Hash()
	if h.CountDoves() != 12 {
		t.Fatalf("setup error: expected 12 doves on board, got %d", h.CountDoves())
	}

	for _, a := range ForwardActions(h, Red, AllActions) {
		if a.Kind == ActionPut {
			t.Fatalf("Put must not be legal once all 12 doves are on the board")
		}
	}
}

func TestMoveActionsStayConnected(t *testing.T) {
	var b Board
	b.cells[0] = cell{present: true, color: Red, dove: B}
	b.cells[5] = cell{present: true, color: Green, dove: B}
	h := b.Hash()

	for _, a := range ForwardActions(h, Red, ActionFlags{Move: true}) {
		result := Apply(h, a)
		if !Decode(result).isConnected() {
			t.Fatalf("move %+v produced a disconnected board", a)
		}
	}
}

func TestApplyThenUndoRoundTripsForMove(t *testing.T) {
	var b Board
	b.cells[0] = cell{present: true, color: Red, dove: B}
	b.cells[5] = cell{present: true, color: Green, dove: B}
	h := b.Hash()

	moves := ForwardActions(h, Green, ActionFlags{Move: true})
	if len(moves) == 0 {
		t.Fatalf("expected at least one legal Green move")
	}
	after := Apply(h, moves[0])

	found := false
	for _, p := range Predecessors(after, Green) {
		if p.Predecessor == h {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("Predecessors(after) did not recover the original position")
	}
}
