package board

// ActionKind is the tag of an Action variant.
type ActionKind uint8

const (
	ActionPut ActionKind = iota
	ActionMove
	ActionRemove
)

func (k ActionKind) String() string {
	switch k {
	case ActionPut:
		return "Put"
	case ActionMove:
		return "Move"
	case ActionRemove:
		return "Remove"
	default:
		return "?"
	}
}

// Action is the tagged union {Put(color, role, to), Move(from, role,
// to), Remove(color, role)}. From/To are only meaningful for the
// variants that use them.
type Action struct {
	Kind  ActionKind
	Color Color
	Dove  Dove
	From  uint8
	To    uint8
}

// ActionFlags gates which Action variants a move-generation pass
// considers; trim-on-action uses this to restrict a scan to exactly
// the transition it is verifying.
type ActionFlags struct {
	Put    bool
	Move   bool
	Remove bool
}

// AllActions enables every variant.
var AllActions = ActionFlags{Put: true, Move: true, Remove: true}

// Matches reports whether the action's kind is enabled by the flags.
func (f ActionFlags) Matches(a Action) bool {
	switch a.Kind {
	case ActionPut:
		return f.Put
	case ActionMove:
		return f.Move
	case ActionRemove:
		return f.Remove
	default:
		return false
	}
}

// ForwardActions enumerates every legal action `mover` may take from
// h, restricted to the kinds enabled by flags.
func ForwardActions(h Hash, mover Color, flags ActionFlags) []Action {
	b := Decode(h)
	var out []Action

	if flags.Move {
		out = append(out, moveActions(b, mover)...)
	}
	if flags.Put {
		out = append(out, putActions(b, mover)...)
	}
	if flags.Remove {
		out = append(out, removeActions(b, mover)...)
	}
	return out
}

func moveActions(b Board, mover Color) []Action {
	var out []Action
	for _, d := range AllDoves {
		from, ok := b.CoordOf(mover, d)
		if !ok {
			continue
		}
		for _, to := range neighbors8(from) {
			if b.cells[to].present {
				continue
			}
			trial := b.clone()
			trial.cells[from] = cell{}
			trial.cells[to] = cell{present: true, color: mover, dove: d}
			if !trial.isConnected() {
				continue
			}
			out = append(out, Action{Kind: ActionMove, Color: mover, Dove: d, From: from, To: to})
		}
	}
	return out
}

func putActions(b Board, mover Color) []Action {
	var out []Action
	if totalCount(b) >= 12 {
		return out
	}
	candidates := emptyCellsAdjacentToGroup(b)
	for _, d := range AllDoves {
		if _, onBoard := b.CoordOf(mover, d); onBoard {
			continue
		}
		for _, to := range candidates {
			trial := b.clone()
			trial.cells[to] = cell{present: true, color: mover, dove: d}
			if !trial.isConnected() {
				continue
			}
			out = append(out, Action{Kind: ActionPut, Color: mover, Dove: d, To: to})
		}
	}
	return out
}

func removeActions(b Board, mover Color) []Action {
	var out []Action
	if totalCount(b) <= 2 {
		return out
	}
	for _, d := range AllDoves {
		from, ok := b.CoordOf(mover, d)
		if !ok {
			continue
		}
		trial := b.clone()
		trial.cells[from] = cell{}
		if !trial.isConnected() {
			continue
		}
		out = append(out, Action{Kind: ActionRemove, Color: mover, Dove: d, From: from})
	}
	return out
}

// emptyCellsAdjacentToGroup returns every empty cell touching at
// least one occupied cell (or, on an empty board, every cell).
func emptyCellsAdjacentToGroup(b Board) []uint8 {
	occ := b.occupiedCells()
	if len(occ) == 0 {
		all := make([]uint8, 16)
		for i := range all {
			all[i] = uint8(i)
		}
		return all
	}
	seen := make(map[uint8]bool)
	var out []uint8
	for _, o := range occ {
		for _, n := range neighbors8(o) {
			if !b.cells[n].present && !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}
	return out
}

func totalCount(b Board) int {
	return len(b.occupiedCells())
}

// Apply returns the hash after applying a legal action to h.
func Apply(h Hash, a Action) Hash {
	b := Decode(h)
	switch a.Kind {
	case ActionPut:
		b.cells[a.To] = cell{present: true, color: a.Color, dove: a.Dove}
	case ActionMove:
		b.cells[a.From] = cell{}
		b.cells[a.To] = cell{present: true, color: a.Color, dove: a.Dove}
	case ActionRemove:
		b.cells[a.From] = cell{}
	}
	return b.Hash()
}
