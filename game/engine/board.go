package engine

// directions lists neighbor offsets in a fixed order so sibling enumeration is reproducible
var directions = [8]Position{
	{1, 1},
	{1, 0},
	{1, -1},
	{0, -1},
	{-1, -1},
	{-1, 0},
	{-1, 1},
	{0, 1},
}

// Siblings returns the in-bounds neighbors of p in the 8 compass directions
func (e *GameEngine) Siblings(p Position) []Position {
	siblings := make([]Position, 0, len(directions))
	for _, d := range directions {
		n := Position{X: p.X + d.X, Y: p.Y + d.Y}
		if e.inBounds(n) {
			siblings = append(siblings, n)
		}
	}
	return siblings
}

// generateMines places the configured number of mines uniformly among the cells outside
// the exclusion zone around initial, then computes adjacency counts.
func (e *GameEngine) generateMines(initial Position) {
	var candidates, zone []Position
	for y := 0; y < e.state.Height; y++ {
		for x := 0; x < e.state.Width; x++ {
			p := Position{X: x, Y: y}
			switch {
			case p == initial:
			case abs(p.X-initial.X) <= exclusionRadius && abs(p.Y-initial.Y) <= exclusionRadius:
				zone = append(zone, p)
			default:
				candidates = append(candidates, p)
			}
		}
	}

	remaining := e.state.Mines - e.placeRandom(candidates, e.state.Mines)
	if remaining > 0 {
		// Board too dense for a full exclusion zone; only the initial cell stays guaranteed safe
		e.placeRandom(zone, remaining)
	}

	e.updateNumbers()
}

// placeRandom marks n cells of pool as mines using a partial Fisher-Yates draw and
// returns how many were placed. pool is reordered.
func (e *GameEngine) placeRandom(pool []Position, n int) int {
	if n > len(pool) {
		n = len(pool)
	}
	k := len(pool)
	for i := 0; i < n; i++ {
		j := e.rng.IntN(k)
		e.cellAt(pool[j]).Mine = true
		k--
		pool[j] = pool[k]
	}
	return n
}

// updateNumbers computes AdjacentMines for every non-mine cell
func (e *GameEngine) updateNumbers() {
	for y := range e.state.Board {
		for x := range e.state.Board[y] {
			cell := &e.state.Board[y][x]
			if cell.Mine {
				cell.AdjacentMines = 0
				continue
			}
			count := 0
			for _, s := range e.Siblings(cell.Pos()) {
				if e.cellAt(s).Mine {
					count++
				}
			}
			cell.AdjacentMines = count
		}
	}
}

// expandZero opens the connected zero region around p together with its numbered border.
// Revealed cells are never re-entered. Flagged cells are opened too and keep their flag, so a
// misflag inside the region becomes visible to CheckGameState.
func (e *GameEngine) expandZero(p Position) {
	start := e.cellAt(p)
	if start.Mine || start.AdjacentMines != 0 {
		return
	}

	stack := []Position{p}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, s := range e.Siblings(cur) {
			cell := e.cellAt(s)
			if cell.Revealed {
				continue
			}
			e.reveal(cell)
			if cell.AdjacentMines == 0 && !cell.Mine {
				stack = append(stack, s)
			}
		}
	}
}

func (e *GameEngine) reveal(cell *Cell) {
	if cell.Revealed {
		return
	}
	cell.Revealed = true
	if e.outcome != nil {
		e.outcome.Revealed = append(e.outcome.Revealed, cell.Pos())
	}
}

func (e *GameEngine) setFlag(cell *Cell, flagged bool) {
	if cell.Flagged == flagged {
		return
	}
	cell.Flagged = flagged
	if e.outcome == nil {
		return
	}
	if flagged {
		e.outcome.Flagged = append(e.outcome.Flagged, cell.Pos())
	} else {
		e.outcome.Unflagged = append(e.outcome.Unflagged, cell.Pos())
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
