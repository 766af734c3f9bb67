package board

import "testing"

func TestCanonicalIsStableUnderRotation(t *testing.T) {
	var b Board
	b.cells[0] = cell{present: true, color: Red, dove: B}
	b.cells[5] = cell{present: true, color: Green, dove: B}
	h := b.Hash()

	rotated := applyGridTransform(Decode(h), gridTransforms[1]).Hash()

	if h.Canonical(Red) != rotated.Canonical(Red) {
		t.Fatalf("canonical forms differ across a rotation of the same position")
	}
}

func TestCanonicalIsIdempotent(t *testing.T) {
	var b Board
	b.cells[2] = cell{present: true, color: Red, dove: A}
	b.cells[14] = cell{present: true, color: Green, dove: A}
	h := b.Hash().Canonical(Red)

	if h.Canonical(Red) != h {
		t.Fatalf("Canonical is not idempotent on an already-canonical hash")
	}
}

func TestCanonicalNormalizesMoverColor(t *testing.T) {
	var b Board
	b.cells[0] = cell{present: true, color: Red, dove: B}
	b.cells[1] = cell{present: true, color: Green, dove: B}
	h := b.Hash()

	swapped := swapColors(Decode(h)).Hash()

	if h.Canonical(Green) != swapped.Canonical(Red) {
		t.Fatalf("canonicalizing as Green should match canonicalizing the color-swapped hash as Red")
	}
}
