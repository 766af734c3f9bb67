package board

// PossibleActionKind classifies what a single presence-mask transition
// between a candidate hash and a target mask could be, before any
// specific Action is produced. This mirrors how a retrograde oracle
// narrows a move generator: the mask alone tells you the shape of the
// bridging action, not its coordinates.
type PossibleActionKind uint8

const (
	// PossibleNone means no single action bridges the two masks; the
	// caller should reject the candidate outright.
	PossibleNone PossibleActionKind = iota
	// PossibleMoveOnly means the masks are identical, so only a Move
	// (which doesn't change presence) could be responsible.
	PossibleMoveOnly
	// PossibleAdd means exactly one (color, dove) bit turns on going
	// from the candidate to the target: a Put of that piece.
	PossibleAdd
	// PossibleDrop means exactly one bit turns off: a Remove of that
	// piece.
	PossibleDrop
)

// Possible describes a PossibleActionKind together with the single
// (color, dove) it implicates, when the kind carries one.
type Possible struct {
	Kind  PossibleActionKind
	Color Color
	Dove  Dove
}

// PossibleAction classifies the presence-mask difference between from
// and target. It underlies the action filters in internal/filters: a
// filter built for a single-mask partition narrows a trim pass down
// to the one action kind (and, for Put/Remove, the one piece) that
// could possibly have produced the transition, without touching the
// board's coordinates at all.
func PossibleAction(from, target OnOff) Possible {
	if from == target {
		return Possible{Kind: PossibleMoveOnly}
	}
	d, c, ok := from.Diff(target)
	if !ok {
		return Possible{Kind: PossibleNone}
	}
	if target.Contains(c, d) {
		return Possible{Kind: PossibleAdd, Color: c, Dove: d}
	}
	return Possible{Kind: PossibleDrop, Color: c, Dove: d}
}

// Matches reports whether action a is consistent with this
// classification: a Move when Kind is PossibleMoveOnly, or a Put/Remove
// of the exact implicated piece when Kind is PossibleAdd/PossibleDrop.
func (p Possible) Matches(a Action) bool {
	switch p.Kind {
	case PossibleMoveOnly:
		return a.Kind == ActionMove
	case PossibleAdd:
		return a.Kind == ActionPut && a.Color == p.Color && a.Dove == p.Dove
	case PossibleDrop:
		return a.Kind == ActionRemove && a.Color == p.Color && a.Dove == p.Dove
	default:
		return false
	}
}
