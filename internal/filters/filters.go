// Package filters builds the predicate functions that partition a
// win-set or action-set into RAM-sized shards during the Trim phases.
// Every filter here closes over a fixed level/mask/distance and is
// cheap enough to apply per-hash inside a streaming scan; none of them
// allocate.
package filters

import "github.com/kpudding/doves-retrograde/internal/board"

// HashFilter decides whether a single hash belongs to a partition.
type HashFilter func(board.Hash) bool

// ActionFilter decides whether an action, applied at hash h, is
// consistent with a partition. It receives the action in addition to
// the hash because some partitions (9- and 10-piece) are judged by
// comparing the dove-counts on either side of the transition, not by
// inspecting h alone.
type ActionFilter func(a board.Action, h board.Hash) bool

// --- 9-piece: partitioned by the Red dove count. ---

// WinFilter9 keeps hashes whose Red-projected dove count equals count.
func WinFilter9(count uint32) HashFilter {
	return func(h board.Hash) bool {
		return h.PresenceMask().Project(board.Red).CountDoves() == count
	}
}

// TargetFilter9 is WinFilter9's mirror over Green.
func TargetFilter9(count uint32) HashFilter {
	return func(h board.Hash) bool {
		return h.PresenceMask().Project(board.Green).CountDoves() == count
	}
}

// ActionFilter9 keeps an action only if its Put/Move/Remove kind
// agrees with the direction implied by comparing the dove count on
// the losing side (numFrom) against the winning side (numTo).
func ActionFilter9(numFrom, numTo int) ActionFilter {
	return func(a board.Action, _ board.Hash) bool {
		switch a.Kind {
		case board.ActionPut:
			return numFrom < numTo
		case board.ActionMove:
			return numFrom == numTo
		case board.ActionRemove:
			return numFrom > numTo
		default:
			return false
		}
	}
}

// --- 10-piece: partitioned by an exact Red-projected presence mask. ---

// WinFilter10 keeps hashes whose Red projection exactly equals mask.
func WinFilter10(mask board.OnOff) HashFilter {
	return func(h board.Hash) bool {
		return h.PresenceMask().Project(board.Red) == mask
	}
}

// TargetFilter10 keeps hashes whose Green projection is the color
// complement of mask (the two sides of a win/target split mirror each
// other across Complement).
func TargetFilter10(mask board.OnOff) HashFilter {
	return func(h board.Hash) bool {
		return h.PresenceMask().Project(board.Green) == mask.Complement()
	}
}

// ActionFilter10 mirrors ActionFilter9 with the comparison direction
// reversed, since the 10-piece split counts from the oracle side
// rather than the frontier side.
func ActionFilter10(numFrom, numTo int) ActionFilter {
	return func(a board.Action, _ board.Hash) bool {
		switch a.Kind {
		case board.ActionPut:
			return numFrom > numTo
		case board.ActionMove:
			return numFrom == numTo
		case board.ActionRemove:
			return numFrom < numTo
		default:
			return false
		}
	}
}

// --- 11-piece: partitioned by an exact full presence mask. ---

// WinFilter11 keeps hashes whose whole presence mask equals mask.
func WinFilter11(mask board.OnOff) HashFilter {
	return func(h board.Hash) bool {
		return h.PresenceMask() == mask
	}
}

// TargetFilter11 keeps hashes whose presence mask is the color
// complement of mask.
func TargetFilter11(mask board.OnOff) HashFilter {
	return func(h board.Hash) bool {
		return h.PresenceMask() == mask.Complement()
	}
}

// ActionFilter11 narrows to the single action kind (and, for Put or
// Remove, the single piece) that could bridge a hash's own presence
// mask to the complement of mask; everything else is rejected without
// generating a move list.
func ActionFilter11(mask board.OnOff) ActionFilter {
	target := mask.Complement()
	return func(a board.Action, h board.Hash) bool {
		return board.PossibleAction(h.PresenceMask(), target).Matches(a)
	}
}

// --- 12-piece: all twelve doves present, partitioned by boss-to-aniki distance. ---

// WinFilter12 keeps hashes where Red's boss-to-aniki distance equals dist.
func WinFilter12(dist uint64) HashFilter {
	return func(h board.Hash) bool {
		return h.DistanceA(board.Red) == dist
	}
}

// TargetFilter12 is WinFilter12's mirror over Green.
func TargetFilter12(dist uint64) HashFilter {
	return func(h board.Hash) bool {
		return h.DistanceA(board.Green) == dist
	}
}

// ActionFilter12 requires the Green-side distance match dist and then
// applies the same mask-bridging narrowing as ActionFilter11, but
// against the fully-occupied mask (every dove is already on the board
// at the 12-piece level, so only Move ever bridges two such hashes).
func ActionFilter12(dist uint64) ActionFilter {
	return func(a board.Action, h board.Hash) bool {
		if h.DistanceA(board.Green) != dist {
			return false
		}
		return board.PossibleAction(h.PresenceMask(), board.OnOffFull).Matches(a)
	}
}
