package board

import "math/bits"

// Hash is the canonical 64-bit encoding of a position.
//
// Bits 48..60 (12 bits): presence mask, one bit per (role, color) pair.
// Role order (low to high): H, T, M, Y, A, B; within a role's pair the
// even bit is Green, the odd bit is Red.
//
// Bits 0..48: six role groups of 8 bits each (H at 0..7, T at
// 8..15, M at 16..23, Y at 24..31, A at 32..39, B at 40..47); within
// each role's byte the low nibble is Green's coordinate (0..15, a 4x4
// grid in row-major order) and the high nibble is Red's.
type Hash uint64

const (
	presenceShift = 48
	presenceWidth = 12

	// OnOffFull is the presence mask with every bit set.
	OnOffFull OnOff = OnOff(0xFFF << presenceShift)

	greenPresenceMask = 0x555 << presenceShift
	redPresenceMask   = 0xAAA << presenceShift
)

// OnOff is the 12-bit presence mask projected out of a Hash, still
// positioned at bits 48..60 so it can be OR'd straight back in.
type OnOff uint64

// PresenceMask extracts the presence mask from a hash.
func (h Hash) PresenceMask() OnOff {
	return OnOff(uint64(h) & uint64(OnOffFull))
}

// Project keeps only the given color's presence bits.
func (o OnOff) Project(c Color) OnOff {
	if c == Red {
		return o & OnOff(redPresenceMask)
	}
	return o & OnOff(greenPresenceMask)
}

// Complement swaps Red and Green within every role pair (the
// involution on OnOff used when a candidate partition is examined
// under the opposite color).
func (o OnOff) Complement() OnOff {
	red := uint64(o) & redPresenceMask
	green := uint64(o) & greenPresenceMask
	return OnOff((red >> 1) | (green << 1))
}

// CountDoves returns the population count of the mask.
func (o OnOff) CountDoves() uint32 {
	return uint32(bits.OnesCount64(uint64(o)))
}

// Contains reports whether the mask has the given (color, dove) bit set.
func (o OnOff) Contains(c Color, d Dove) bool {
	bit := presenceShift + d.presenceBitOffset() + uint(c)
	return uint64(o)&(1<<bit) != 0
}

// Contains reports whether the hash has the given (color, dove) on board.
func (h Hash) Contains(c Color, d Dove) bool {
	return h.PresenceMask().Contains(c, d)
}

// Coord returns the 4-bit coordinate (0..15) of (color, dove). The
// value is meaningless by convention (but not relied upon) when the
// piece is absent.
func (h Hash) Coord(c Color, d Dove) uint8 {
	shift := d.coordByteOffset()
	if c == Red {
		shift += 4
	}
	return uint8((uint64(h) >> shift) & 0xF)
}

// CountDoves returns the total number of pieces (both colors) on the
// board, i.e. the popcount of the presence mask.
func (h Hash) CountDoves() uint32 {
	return h.PresenceMask().CountDoves()
}

// DistanceA returns the Manhattan distance between B (boss) and A
// (aniki) for the given color in the 4x4 grid, or 0 if A is absent.
func (h Hash) DistanceA(c Color) uint64 {
	if !h.Contains(c, A) {
		return 0
	}
	boss := h.Coord(c, B)
	aniki := h.Coord(c, A)
	return absDiff(uint64(boss%4), uint64(aniki%4)) + absDiff(uint64(boss/4), uint64(aniki/4))
}

func absDiff(a, b uint64) uint64 {
	if a > b {
		return a - b
	}
	return b - a
}

func row(coord uint8) int { return int(coord / 4) }
func col(coord uint8) int { return int(coord % 4) }

func coordOf(r, c int) uint8 { return uint8(r*4 + c) }
