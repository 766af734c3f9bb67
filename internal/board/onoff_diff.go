package board

import "math/bits"

// Diff reports the single (dove, color) whose presence bit differs
// between o and other, when exactly one bit differs. It is the
// building block for the action filters in internal/filters that
// decide, from a presence-mask difference alone, which single Put or
// Remove could bridge two partitions.
func (o OnOff) Diff(other OnOff) (d Dove, c Color, ok bool) {
	xor := uint64(o) ^ uint64(other)
	if bits.OnesCount64(xor) != 1 {
		return 0, 0, false
	}
	bitpos := bits.TrailingZeros64(xor) - presenceShift
	return Dove(bitpos / 2), Color(bitpos % 2), true
}

// PopCountDiff returns the number of differing presence bits between
// o and other.
func (o OnOff) PopCountDiff(other OnOff) int {
	return bits.OnesCount64(uint64(o) ^ uint64(other))
}
