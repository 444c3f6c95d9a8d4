package engine

// Reveal handles the primary action on x,y. The first reveal of a game places the mines
// around it, so it can never lose.
func (e *GameEngine) Reveal(x, y int) (*Outcome, error) {
	p := Position{X: x, Y: y}
	if !e.inBounds(p) {
		return nil, e.outOfBounds(p)
	}
	e.begin(ActionReveal, p)

	cell := e.cellAt(p)
	if e.state.Status != StatusPlay || cell.Flagged || cell.Revealed {
		return e.finish(), nil
	}

	if !e.state.MineGenerated {
		start := e.nowMS()
		e.state.StartMS = &start
		e.generateMines(p)
		e.state.MineGenerated = true
	}

	e.reveal(cell)
	if cell.Mine {
		e.outcome.Exploded = &p
		e.gameOver(StatusLost)
		return e.finish(), nil
	}

	e.expandZero(p)
	e.CheckGameState()
	return e.finish(), nil
}

// Flag toggles the flag on an unrevealed cell
func (e *GameEngine) Flag(x, y int) (*Outcome, error) {
	p := Position{X: x, Y: y}
	if !e.inBounds(p) {
		return nil, e.outOfBounds(p)
	}
	e.begin(ActionFlag, p)

	cell := e.cellAt(p)
	if e.state.Status != StatusPlay || cell.Revealed {
		return e.finish(), nil
	}

	e.setFlag(cell, !cell.Flagged)
	e.CheckGameState()
	return e.finish(), nil
}

// AutoExpand chords a revealed numbered cell. When its flagged neighbors account for its
// count, every other hidden neighbor is revealed; when its hidden neighbors exactly match
// the mines still missing, they are all flagged. Both rules are evaluated.
func (e *GameEngine) AutoExpand(x, y int) (*Outcome, error) {
	p := Position{X: x, Y: y}
	if !e.inBounds(p) {
		return nil, e.outOfBounds(p)
	}
	e.begin(ActionChord, p)

	cell := e.cellAt(p)
	if e.state.Status != StatusPlay || cell.Flagged || !cell.Revealed {
		return e.finish(), nil
	}

	siblings := e.Siblings(p)
	flags, notRevealed := 0, 0
	for _, s := range siblings {
		c := e.cellAt(s)
		switch {
		case c.Flagged:
			flags++
		case !c.Revealed:
			notRevealed++
		}
	}

	if flags == cell.AdjacentMines {
		hitMine := false
		for _, s := range siblings {
			c := e.cellAt(s)
			if c.Revealed || c.Flagged {
				continue
			}
			e.reveal(c)
			if c.Mine {
				if !hitMine {
					hit := s
					e.outcome.Exploded = &hit
				}
				hitMine = true
				continue
			}
			e.expandZero(s)
		}
		if hitMine {
			e.gameOver(StatusLost)
			return e.finish(), nil
		}
	}

	if notRevealed == cell.AdjacentMines-flags {
		for _, s := range siblings {
			c := e.cellAt(s)
			if !c.Revealed && !c.Flagged {
				e.setFlag(c, true)
			}
		}
	}

	e.CheckGameState()
	return e.finish(), nil
}

// CheckGameState ends the game once every cell is revealed or flagged: won when every
// flag sits on a mine, lost otherwise.
func (e *GameEngine) CheckGameState() {
	if !e.state.MineGenerated || e.state.Status != StatusPlay {
		return
	}

	misflagged := false
	for _, row := range e.state.Board {
		for _, cell := range row {
			if !cell.Revealed && !cell.Flagged {
				return
			}
			if cell.Flagged && !cell.Mine {
				misflagged = true
			}
		}
	}

	if misflagged {
		e.gameOver(StatusLost)
		return
	}
	e.gameOver(StatusWon)
}

// gameOver records a terminal status; a loss uncovers every mine
func (e *GameEngine) gameOver(status Status) {
	e.state.Status = status
	end := e.nowMS()
	e.state.EndMS = &end

	if status != StatusLost {
		return
	}
	for y := range e.state.Board {
		for x := range e.state.Board[y] {
			if cell := &e.state.Board[y][x]; cell.Mine {
				e.reveal(cell)
			}
		}
	}
}
