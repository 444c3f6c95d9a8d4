package engine

// AddActionToHistory appends an outcome to the cumulative and current action logs.
// Resets only enter the cumulative log.
func (s *GameState) AddActionToHistory(o *Outcome, timestamp int64) {
	s.TotalActions++
	entry := ActionHistoryEntry{
		Action:        o.Action,
		Position:      o.Position,
		Changed:       o.Changed,
		RevealedCount: len(o.Revealed),
		Status:        o.Status,
		Timestamp:     timestamp,
		ActionNumber:  s.TotalActions,
	}
	s.ActionHistory = append(s.ActionHistory, entry)

	if o.Action == ActionReset {
		return
	}
	s.CurrentActions = append(s.CurrentActions, entry)
	s.CurrentActionsCount = len(s.CurrentActions)
}

// CountMines counts the mine cells on the board
func CountMines(board [][]Cell) int {
	return countCells(board, func(c Cell) bool { return c.Mine })
}

// CountFlags counts the flagged cells on the board
func CountFlags(board [][]Cell) int {
	return countCells(board, func(c Cell) bool { return c.Flagged })
}

// CountRevealed counts the revealed cells on the board
func CountRevealed(board [][]Cell) int {
	return countCells(board, func(c Cell) bool { return c.Revealed })
}

// RemainingMines is the mine count minus placed flags; negative when over-flagged
func RemainingMines(state *GameState) int {
	return state.Mines - CountFlags(state.Board)
}

// MineDensity returns the share of cells holding a mine
func MineDensity(width, height, mines int) float64 {
	if width <= 0 || height <= 0 {
		return 0
	}
	return float64(mines) / float64(width*height)
}

func countCells(board [][]Cell, match func(Cell) bool) int {
	count := 0
	for _, row := range board {
		for _, cell := range row {
			if match(cell) {
				count++
			}
		}
	}
	return count
}
