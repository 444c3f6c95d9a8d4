package mcp

import (
	"fmt"
	"strings"

	"github.com/wricardo/mcp-training/minesweeper/game/engine"
	"github.com/wricardo/mcp-training/minesweeper/game/service"
)

const instructions = `Minesweeper - Complete Instructions

GAME OBJECTIVE:
Reveal every cell that does not hide a mine. The game is won the moment the
last safe cell opens. Revealing a mine loses the game.

BOARD LEGEND:
  #  hidden cell
  F  flag you placed
  .  revealed cell with no adjacent mines
  1-8  revealed cell with that many mines among its 8 neighbours
  *  mine (shown after a loss)
  X  wrong flag (shown after a loss)

Coordinates are 0-based. x is the column, y is the row. (0,0) is the top-left.

ACTIONS:
- reveal(x, y): open a hidden cell. Flagged cells cannot be revealed.
  The very first reveal of a game is always safe; mines are placed after it,
  away from the clicked cell when the board has room.
  Revealing a "." opens all connected empty cells and their numbered border.
- flag(x, y): toggle a flag on a hidden cell. Flags only mark; they never
  change what is under the cell, but a wrong flag is a loss if a chord relies on it.
- chord(x, y): on a revealed number N with exactly N flagged neighbours,
  reveal every other hidden neighbour. If a flag was wrong this reveals a mine.
  When the hidden neighbours plus the flags equal N, chord flags them for you.
- batch_actions: up to 50 of the above in one call. Stops when the game ends
  or an action is rejected.
- reset_game: new board with the same or new dimensions.

SOLVING TIPS:
1. Start in the middle; the first click opens an area.
2. A number whose hidden neighbours equal the number minus its flags: all of those are mines.
3. A number whose flags already equal the number: every other neighbour is safe, chord it.
4. Use describe_cell to get counts of hidden and flagged neighbours for a number.
5. Use batch_actions for several certain moves at once.

Good luck, and mind the mines!`

func formatSessionInfo(session *service.SessionInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session: %s\n", session.ID)
	fmt.Fprintf(&b, "Config: %s\n", session.ConfigName)
	if !session.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "Created: %s\n", session.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	if session.View != nil {
		b.WriteString("\n")
		b.WriteString(formatView(session.View))
	}
	return b.String()
}

func formatSessionList(sessions []*service.SessionInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", len(sessions))
	for _, s := range sessions {
		status, size := "unknown", "?"
		if s.View != nil {
			status = string(s.View.Status)
			size = fmt.Sprintf("%dx%d/%d", s.View.Width, s.View.Height, s.View.Mines)
		}
		fmt.Fprintf(&b, "- %s (Config: %s, Board: %s, Status: %s, Created: %s)\n",
			s.ID, s.ConfigName, size, status, s.CreatedAt.Format("15:04:05"))
	}
	return b.String()
}

// formatView prints the board summary followed by the grid with axis labels
func formatView(view *engine.BoardView) string {
	if view == nil {
		return "No board available\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Board: %dx%d | Mines: %d | Flags left: %d | Status: %s\n",
		view.Width, view.Height, view.Mines, view.RemainingMines, strings.ToUpper(string(view.Status)))
	fmt.Fprintf(&b, "Revealed: %d/%d safe cells | Actions: %d | Time: %.1fs\n",
		view.RevealedCells, view.Width*view.Height-view.Mines, view.TotalActions, float64(view.ElapsedMS)/1000)

	switch view.Status {
	case engine.StatusWon:
		b.WriteString("🎉 All safe cells revealed. You won!\n")
	case engine.StatusLost:
		b.WriteString("💥 A mine was revealed. Game over.\n")
	default:
		if !view.MineGenerated {
			b.WriteString("No mines placed yet. The first reveal is always safe.\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(formatGrid(view.Rows))
	return b.String()
}

// formatGrid labels columns with their last digit, plus a tens row on wide boards
func formatGrid(rows []string) string {
	if len(rows) == 0 {
		return ""
	}
	width := len(rows[0])
	pad := strings.Repeat(" ", 4)

	var b strings.Builder
	if width > 10 {
		b.WriteString(pad)
		for x := 0; x < width; x++ {
			if x >= 10 {
				fmt.Fprintf(&b, "%d", (x/10)%10)
			} else {
				b.WriteString(" ")
			}
		}
		b.WriteString("\n")
	}
	b.WriteString(pad)
	for x := 0; x < width; x++ {
		fmt.Fprintf(&b, "%d", x%10)
	}
	b.WriteString("\n")
	for y, row := range rows {
		fmt.Fprintf(&b, "%3d %s\n", y, row)
	}
	return b.String()
}

func formatActionResult(result *service.ActionResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d,%d): %s\n", strings.ToUpper(string(result.Action)), result.Position.X, result.Position.Y, result.Message)
	if !result.Success {
		b.WriteString("Nothing changed.\n")
	}
	for _, ev := range result.Events {
		b.WriteString(formatEvent(ev))
	}
	b.WriteString("\n")
	b.WriteString(formatView(result.View))
	return b.String()
}

func formatEvent(ev service.GameEvent) string {
	if len(ev.Cells) > 0 {
		return fmt.Sprintf("  [%s] %s (%d cells)\n", ev.Type, ev.Message, len(ev.Cells))
	}
	return fmt.Sprintf("  [%s] %s\n", ev.Type, ev.Message)
}

func formatBatchResult(sessionID string, result *service.BatchResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Batch on session %s: executed %d/%d actions\n", sessionID, result.ActionsExecuted, result.RequestedActions)
	if result.Truncated {
		fmt.Fprintf(&b, "Only the first %d actions were applied.\n", result.Limit)
	}
	if result.StoppedReason != "" {
		fmt.Fprintf(&b, "Stopped at action %d (%s): %s\n", result.StoppedOnAction, result.StopReasonCode, result.StoppedReason)
	}
	if result.Message != "" {
		fmt.Fprintf(&b, "%s\n", result.Message)
	}

	if len(result.Steps) > 0 {
		b.WriteString("\nSteps:\n")
		for _, s := range result.Steps {
			changed := ""
			if !s.Changed {
				changed = " (no change)"
			}
			fmt.Fprintf(&b, "  %2d. %-6s (%d,%d) revealed=%d flagged=%d status=%s%s\n",
				s.Idx, s.Action, s.X, s.Y, s.Revealed, s.Flagged, s.Status, changed)
		}
	}

	b.WriteString("\n")
	b.WriteString(formatView(result.View))
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Action History (Page %d/%d, Total: %d)\n\n", history.Page, history.TotalPages, history.TotalActions)
	if len(history.Actions) == 0 {
		b.WriteString("No actions yet.\n")
	}
	for _, a := range history.Actions {
		changed := ""
		if !a.Changed {
			changed = " (no change)"
		}
		fmt.Fprintf(&b, "#%d %s (%d,%d) revealed=%d status=%s%s\n",
			a.ActionNumber, a.Action, a.Position.X, a.Position.Y, a.RevealedCount, a.Status, changed)
	}
	if history.HasNext {
		fmt.Fprintf(&b, "\nMore actions on page %d.\n", history.Page+1)
	}
	return b.String()
}

func formatConfigs(configs []*service.ConfigInfo) string {
	var b strings.Builder
	b.WriteString("Available Configurations:\n\n")
	for _, cfg := range configs {
		fmt.Fprintf(&b, "• %s (config_id: %s)\n  %s\n  Board: %dx%d, Mines: %d, Density: %.1f%%\n\n",
			cfg.Name, cfg.ConfigID, cfg.Description, cfg.Width, cfg.Height, cfg.Mines, cfg.Density*100)
	}
	return b.String()
}

// describeCell summarizes a cell and its neighbourhood from the masked view
func describeCell(view *engine.BoardView, x, y int) string {
	cell := view.Cells[y][x]

	var hidden, flagged []engine.Position
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			nx, ny := x+dx, y+dy
			if (dx == 0 && dy == 0) || nx < 0 || ny < 0 || nx >= view.Width || ny >= view.Height {
				continue
			}
			switch view.Cells[ny][nx].State {
			case engine.CellHidden:
				hidden = append(hidden, engine.Position{X: nx, Y: ny})
			case engine.CellFlagged, engine.CellMisflagged:
				flagged = append(flagged, engine.Position{X: nx, Y: ny})
			}
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Cell (%d,%d): %s", x, y, cell.State)
	if cell.State == engine.CellRevealed {
		fmt.Fprintf(&b, ", %d adjacent mines", cell.AdjacentMines)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Neighbours: %d hidden, %d flagged\n", len(hidden), len(flagged))

	if cell.State == engine.CellRevealed && cell.AdjacentMines > 0 && len(hidden) > 0 && view.Status == engine.StatusPlay {
		n := cell.AdjacentMines
		switch {
		case len(flagged) == n:
			fmt.Fprintf(&b, "Flags satisfy the %d: chord here reveals %s\n", n, formatPositions(hidden))
		case len(flagged)+len(hidden) == n:
			fmt.Fprintf(&b, "Every hidden neighbour is a mine: %s\n", formatPositions(hidden))
		case len(flagged) > n:
			fmt.Fprintf(&b, "Warning: %d flags around a %d, at least one flag is wrong\n", len(flagged), n)
		default:
			fmt.Fprintf(&b, "%d more mines among %s\n", n-len(flagged), formatPositions(hidden))
		}
	}

	b.WriteString("\nLocal 3x3:\n")
	b.WriteString(formatLocal3x3(view.Rows, x, y))
	return b.String()
}

func formatPositions(ps []engine.Position) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = fmt.Sprintf("(%d,%d)", p.X, p.Y)
	}
	return strings.Join(parts, " ")
}

// formatLocal3x3 prints the neighbourhood, with spaces outside the board
func formatLocal3x3(rows []string, x, y int) string {
	var b strings.Builder
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			nx, ny := x+dx, y+dy
			if ny < 0 || ny >= len(rows) || nx < 0 || nx >= len(rows[ny]) {
				b.WriteString(" ")
				continue
			}
			b.WriteByte(rows[ny][nx])
		}
		b.WriteString("\n")
	}
	return b.String()
}
