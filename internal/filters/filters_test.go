package filters

import (
	"testing"

	"github.com/kpudding/doves-retrograde/internal/board"
)

func twelvePieceBoard() board.Hash {
	var b board.Board
	coord := uint8(0)
	for _, d := range board.AllDoves {
		b.Set(coord, board.Red, d)
		coord++
		b.Set(coord, board.Green, d)
		coord++
	}
	return b.Hash()
}

func TestWinFilter9MatchesExactCount(t *testing.T) {
	var b board.Board
	b.Set(0, board.Red, board.B)
	b.Set(1, board.Red, board.H)
	b.Set(2, board.Green, board.B)
	h := b.Hash()

	f := WinFilter9(2)
	if !f(h) {
		t.Fatalf("expected Red dove-count 2 to satisfy WinFilter9(2)")
	}
	if WinFilter9(1)(h) {
		t.Fatalf("WinFilter9(1) should reject a 2-dove Red projection")
	}
}

func TestWinFilter10ExactMaskRoundTrips(t *testing.T) {
	var b board.Board
	b.Set(0, board.Red, board.B)
	b.Set(1, board.Red, board.H)
	h := b.Hash()

	mask := h.PresenceMask().Project(board.Red)
	if !WinFilter10(mask)(h) {
		t.Fatalf("a hash must satisfy the filter built from its own projected mask")
	}
}

func TestActionFilter9DirectionAgreesWithKind(t *testing.T) {
	f := ActionFilter9(2, 3)
	put := board.Action{Kind: board.ActionPut}
	move := board.Action{Kind: board.ActionMove}
	remove := board.Action{Kind: board.ActionRemove}

	if !f(put, 0) {
		t.Fatalf("Put should be allowed when numFrom < numTo")
	}
	if f(move, 0) || f(remove, 0) {
		t.Fatalf("Move/Remove should be rejected when numFrom < numTo")
	}
}

func TestActionFilter10DirectionIsReversedFromActionFilter9(t *testing.T) {
	f9 := ActionFilter9(2, 3)
	f10 := ActionFilter10(2, 3)
	put := board.Action{Kind: board.ActionPut}

	if f9(put, 0) == f10(put, 0) {
		t.Fatalf("ActionFilter10 must disagree with ActionFilter9 on Put direction")
	}
}

func TestActionFilter11NarrowsToSingleMove(t *testing.T) {
	var b board.Board
	b.Set(0, board.Red, board.B)
	b.Set(5, board.Green, board.B)
	h := b.Hash()

	mask := h.PresenceMask().Complement()
	f := ActionFilter11(mask)

	for _, a := range board.ForwardActions(h, board.Green, board.AllActions) {
		if a.Kind != board.ActionMove && f(a, h) {
			t.Fatalf("a presence-preserving partition must never accept a non-Move action: %+v", a)
		}
	}
}

func TestActionFilter12OnlyAcceptsMoveAtFullOccupancy(t *testing.T) {
	h := twelvePieceBoard()
	dist := h.DistanceA(board.Green)
	f := ActionFilter12(dist)

	for _, a := range board.ForwardActions(h, board.Red, board.AllActions) {
		if f(a, h) && a.Kind != board.ActionMove {
			t.Fatalf("at 12 pieces only Move can bridge two fully-occupied masks, got %+v", a)
		}
	}
}
