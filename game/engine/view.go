package engine

import (
	"strconv"
	"strings"
	"time"
)

// CellState is what a player may know about a cell
type CellState string

const (
	CellHidden     CellState = "hidden"
	CellFlagged    CellState = "flagged"
	CellRevealed   CellState = "revealed"
	CellMine       CellState = "mine"
	CellMisflagged CellState = "misflagged"
)

// CellView is the player-visible part of a cell
type CellView struct {
	X             int       `json:"x"`
	Y             int       `json:"y"`
	State         CellState `json:"state"`
	AdjacentMines int       `json:"adjacent_mines,omitempty"`
}

// BoardView is the masked board sent to clients. Mines and counts of hidden cells are
// never included while the game is in play.
type BoardView struct {
	Width          int          `json:"width"`
	Height         int          `json:"height"`
	Mines          int          `json:"mines"`
	Status         Status       `json:"status"`
	MineGenerated  bool         `json:"mine_generated"`
	StartMS        *int64       `json:"start_ms,omitempty"`
	EndMS          *int64       `json:"end_ms,omitempty"`
	ElapsedMS      int64        `json:"elapsed_ms"`
	RemainingMines int          `json:"remaining_mines"`
	RevealedCells  int          `json:"revealed_cells"`
	ConfigName     string       `json:"config_name"`
	TotalActions   int          `json:"total_actions"`
	Cells          [][]CellView `json:"cells"`
	Rows           []string     `json:"rows"`
}

// NewBoardView builds the player view of state at the given time
func NewBoardView(state *GameState, now time.Time) *BoardView {
	if state == nil {
		return nil
	}

	view := &BoardView{
		Width:          state.Width,
		Height:         state.Height,
		Mines:          state.Mines,
		Status:         state.Status,
		MineGenerated:  state.MineGenerated,
		StartMS:        state.StartMS,
		EndMS:          state.EndMS,
		ElapsedMS:      elapsedMS(state, now),
		RemainingMines: RemainingMines(state),
		RevealedCells:  CountRevealed(state.Board),
		ConfigName:     state.ConfigName,
		TotalActions:   state.TotalActions,
		Cells:          make([][]CellView, len(state.Board)),
		Rows:           RenderRows(state),
	}

	for y, row := range state.Board {
		view.Cells[y] = make([]CellView, len(row))
		for x, cell := range row {
			cv := CellView{X: x, Y: y, State: cellState(state, cell)}
			if cv.State == CellRevealed {
				cv.AdjacentMines = cell.AdjacentMines
			}
			view.Cells[y][x] = cv
		}
	}
	return view
}

// RenderRows draws the board one string per row:
// # hidden, F flag, . empty, 1-8 counts, * mine, X wrong flag after a loss
func RenderRows(state *GameState) []string {
	rows := make([]string, 0, len(state.Board))
	for _, row := range state.Board {
		var b strings.Builder
		for _, cell := range row {
			b.WriteString(cellChar(state, cell))
		}
		rows = append(rows, b.String())
	}
	return rows
}

// CellChar returns the rendered character for a cell as the player sees it
func CellChar(state *GameState, cell Cell) string {
	return cellChar(state, cell)
}

func cellChar(state *GameState, cell Cell) string {
	switch cellState(state, cell) {
	case CellFlagged:
		return "F"
	case CellMine:
		return "*"
	case CellMisflagged:
		return "X"
	case CellRevealed:
		if cell.AdjacentMines == 0 {
			return "."
		}
		return strconv.Itoa(cell.AdjacentMines)
	default:
		return "#"
	}
}

func cellState(state *GameState, cell Cell) CellState {
	switch {
	case cell.Revealed && cell.Mine:
		return CellMine
	case cell.Flagged && state.Status == StatusLost && !cell.Mine:
		return CellMisflagged
	case cell.Flagged:
		return CellFlagged
	case cell.Revealed:
		return CellRevealed
	default:
		return CellHidden
	}
}

func elapsedMS(state *GameState, now time.Time) int64 {
	if state.StartMS == nil {
		return 0
	}
	if state.EndMS != nil {
		return *state.EndMS - *state.StartMS
	}
	return now.UnixMilli() - *state.StartMS
}
