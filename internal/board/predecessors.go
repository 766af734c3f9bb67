package board

// Predecessor pairs a candidate ancestor position with the forward
// action that (if it had been played) would have produced the board
// Predecessors was called on.
type Predecessor struct {
	Action      Action
	Predecessor Hash
}

// Predecessors enumerates every position b1 such that some legal
// action by mover, played from b1, yields b0 — i.e. it undoes each of
// the three action kinds:
//
//   - undo Put: mover's dove currently on the board was placed this
//     ply, so b1 has it off the board (dove-count n-1).
//   - undo Move: mover's dove currently at `to` was at some adjacent
//     empty cell before this ply (dove-count n).
//   - undo Remove: mover had an extra dove on the board before this
//     ply that is now absent from b0 (dove-count n+1, capped at 12).
//
// Only predecessors that are themselves connected ("hive") positions
// are returned.
func Predecessors(b0 Hash, mover Color) []Predecessor {
	b := Decode(b0)
	var out []Predecessor

	out = append(out, undoPuts(b, mover)...)
	out = append(out, undoMoves(b, mover)...)
	out = append(out, undoRemoves(b, mover)...)
	return out
}

func undoPuts(b Board, mover Color) []Predecessor {
	var out []Predecessor
	for _, d := range AllDoves {
		at, ok := b.CoordOf(mover, d)
		if !ok {
			continue
		}
		trial := b.clone()
		trial.cells[at] = cell{}
		if totalCount(trial) < 2 {
			continue
		}
		if !trial.isConnected() {
			continue
		}
		out = append(out, Predecessor{
			Action:      Action{Kind: ActionPut, Color: mover, Dove: d, To: at},
			Predecessor: trial.Hash(),
		})
	}
	return out
}

func undoMoves(b Board, mover Color) []Predecessor {
	var out []Predecessor
	for _, d := range AllDoves {
		at, ok := b.CoordOf(mover, d)
		if !ok {
			continue
		}
		for _, from := range neighbors8(at) {
			if b.cells[from].present {
				continue
			}
			trial := b.clone()
			trial.cells[at] = cell{}
			trial.cells[from] = cell{present: true, color: mover, dove: d}
			if !trial.isConnected() {
				continue
			}
			out = append(out, Predecessor{
				Action:      Action{Kind: ActionMove, Color: mover, Dove: d, From: from, To: at},
				Predecessor: trial.Hash(),
			})
		}
	}
	return out
}

func undoRemoves(b Board, mover Color) []Predecessor {
	var out []Predecessor
	if totalCount(b) >= 12 {
		return out
	}
	candidates := emptyCellsAdjacentToGroup(b)
	for _, d := range AllDoves {
		if _, onBoard := b.CoordOf(mover, d); onBoard {
			continue
		}
		for _, at := range candidates {
			trial := b.clone()
			trial.cells[at] = cell{present: true, color: mover, dove: d}
			if !trial.isConnected() {
				continue
			}
			out = append(out, Predecessor{
				Action:      Action{Kind: ActionRemove, Color: mover, Dove: d, From: at},
				Predecessor: trial.Hash(),
			})
		}
	}
	return out
}
