package board

// gridTransform maps a (row, col) cell to its image under one of the
// 8 symmetries (rotations/reflections) of the 4x4 grid.
type gridTransform func(row, col int) (int, int)

var gridTransforms = [8]gridTransform{
	func(r, c int) (int, int) { return r, c },         // identity
	func(r, c int) (int, int) { return c, 3 - r },     // rotate 90
	func(r, c int) (int, int) { return 3 - r, 3 - c }, // rotate 180
	func(r, c int) (int, int) { return 3 - c, r },     // rotate 270
	func(r, c int) (int, int) { return r, 3 - c },     // mirror columns
	func(r, c int) (int, int) { return 3 - r, c },     // mirror rows
	func(r, c int) (int, int) { return c, r },         // transpose
	func(r, c int) (int, int) { return 3 - c, 3 - r }, // anti-transpose
}

func applyGridTransform(b Board, t gridTransform) Board {
	var nb Board
	for coord, cl := range b.cells {
		if !cl.present {
			continue
		}
		r, c := row(uint8(coord)), col(uint8(coord))
		nr, nc := t(r, c)
		nb.cells[coordOf(nr, nc)] = cl
	}
	return nb
}

// swapColors exchanges Green and Red throughout the board.
func swapColors(b Board) Board {
	var nb Board
	for coord, cl := range b.cells {
		if !cl.present {
			continue
		}
		nb.cells[coord] = cell{present: true, color: cl.color.Opposite(), dove: cl.dove}
	}
	return nb
}

// Canonical returns the canonical representative of h's symmetry
// class: colors are first normalized so that `asRed` becomes Red (the
// nominal mover), then the lexicographically smallest raw encoding
// over all 8 grid symmetries is returned. Two positions equivalent
// modulo rotation/reflection and the choice of which color is to move
// share a canonical hash.
func (h Hash) Canonical(asRed Color) Hash {
	base := Decode(h)
	if asRed == Green {
		base = swapColors(base)
	}

	best := base.Hash()
	for i, t := range gridTransforms {
		if i == 0 {
			continue
		}
		cand := applyGridTransform(base, t).Hash()
		if cand < best {
			best = cand
		}
	}
	return best
}
