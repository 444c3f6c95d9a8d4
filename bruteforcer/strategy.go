package main

import (
	"sort"

	"github.com/wricardo/mcp-training/minesweeper/game/engine"
	"github.com/wricardo/mcp-training/minesweeper/game/service"
)

// Strategy picks the next actions from the masked board. It only ever sees what a
// player sees, so it falls back to the least risky guess when nothing is certain.
type Strategy struct {
	maxBatch int

	// Guesses counts moves that were not forced by the numbers
	Guesses int
}

func NewStrategy(maxBatch int) *Strategy {
	if maxBatch <= 0 || maxBatch > engine.MaxBulkActions {
		maxBatch = engine.MaxBulkActions
	}
	return &Strategy{maxBatch: maxBatch}
}

// constraint says that exactly mines of the hidden cells around a number are mines
type constraint struct {
	at     engine.Position
	hidden []engine.Position
	mines  int
}

// NextMoves returns the actions to send next, or nil when the game is over
func (s *Strategy) NextMoves(view *engine.BoardView) []service.Action {
	if view == nil || view.Status != engine.StatusPlay {
		return nil
	}
	if !view.MineGenerated {
		s.Guesses++
		return []service.Action{{Action: engine.ActionReveal, X: view.Width / 2, Y: view.Height / 2}}
	}

	constraints := s.constraints(view)
	plan := newPlan(s.maxBatch)

	// Single numbers: all flagged means chord, all hidden are mines means flag
	for _, c := range constraints {
		switch {
		case c.mines == 0:
			plan.add(engine.ActionChord, c.at)
		case c.mines == len(c.hidden):
			for _, p := range c.hidden {
				plan.add(engine.ActionFlag, p)
			}
		}
	}

	// Pairs: when one number's hidden cells contain another's the difference is decided
	if plan.empty() {
		for _, a := range constraints {
			for _, b := range constraints {
				if a.at == b.at || len(a.hidden) >= len(b.hidden) || !subset(a.hidden, b.hidden) {
					continue
				}
				extra := difference(b.hidden, a.hidden)
				switch b.mines - a.mines {
				case 0:
					for _, p := range extra {
						plan.add(engine.ActionReveal, p)
					}
				case len(extra):
					for _, p := range extra {
						plan.add(engine.ActionFlag, p)
					}
				}
			}
		}
	}

	// Whole board: the remaining mine count may decide every hidden cell at once
	if plan.empty() {
		hidden := hiddenCells(view)
		switch {
		case view.RemainingMines == 0:
			for _, p := range hidden {
				plan.add(engine.ActionReveal, p)
			}
		case view.RemainingMines == len(hidden):
			for _, p := range hidden {
				plan.add(engine.ActionFlag, p)
			}
		}
	}

	if plan.empty() {
		if p, ok := s.safestGuess(view, constraints); ok {
			s.Guesses++
			plan.add(engine.ActionReveal, p)
		}
	}
	return plan.actions
}

// constraints collects every revealed number that still touches hidden cells
func (s *Strategy) constraints(view *engine.BoardView) []constraint {
	var out []constraint
	for y, row := range view.Cells {
		for x, cell := range row {
			if cell.State != engine.CellRevealed || cell.AdjacentMines == 0 {
				continue
			}
			c := constraint{at: engine.Position{X: x, Y: y}, mines: cell.AdjacentMines}
			for _, n := range neighbours(view, x, y) {
				switch view.Cells[n.Y][n.X].State {
				case engine.CellFlagged:
					c.mines--
				case engine.CellHidden:
					c.hidden = append(c.hidden, n)
				}
			}
			if len(c.hidden) > 0 {
				out = append(out, c)
			}
		}
	}
	return out
}

// safestGuess picks the hidden cell with the lowest estimated mine probability.
// Cells away from every number share the density of the unexplained mines.
func (s *Strategy) safestGuess(view *engine.BoardView, constraints []constraint) (engine.Position, bool) {
	hidden := hiddenCells(view)
	if len(hidden) == 0 {
		return engine.Position{}, false
	}

	risk := make(map[engine.Position]float64)
	for _, c := range constraints {
		r := float64(c.mines) / float64(len(c.hidden))
		for _, p := range c.hidden {
			if r > risk[p] {
				risk[p] = r
			}
		}
	}

	background := float64(view.RemainingMines) / float64(len(hidden))
	best, bestRisk := hidden[0], 2.0
	for _, p := range hidden {
		r, near := risk[p]
		if !near {
			r = background
		}
		if r < bestRisk {
			best, bestRisk = p, r
		}
	}
	return best, true
}

// plan accumulates distinct actions up to a batch limit
type plan struct {
	limit   int
	seen    map[engine.Position]bool
	actions []service.Action
}

func newPlan(limit int) *plan {
	return &plan{limit: limit, seen: make(map[engine.Position]bool)}
}

// add queues an action unless its cell already has one; a second flag would undo the first
func (p *plan) add(action engine.ActionType, at engine.Position) {
	if p.seen[at] || len(p.actions) >= p.limit {
		return
	}
	p.seen[at] = true
	p.actions = append(p.actions, service.Action{Action: action, X: at.X, Y: at.Y})
}

func (p *plan) empty() bool {
	return len(p.actions) == 0
}

func neighbours(view *engine.BoardView, x, y int) []engine.Position {
	var out []engine.Position
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			nx, ny := x+dx, y+dy
			if (dx != 0 || dy != 0) && nx >= 0 && ny >= 0 && nx < view.Width && ny < view.Height {
				out = append(out, engine.Position{X: nx, Y: ny})
			}
		}
	}
	return out
}

func hiddenCells(view *engine.BoardView) []engine.Position {
	var out []engine.Position
	for y, row := range view.Cells {
		for x, cell := range row {
			if cell.State == engine.CellHidden {
				out = append(out, engine.Position{X: x, Y: y})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

func subset(a, b []engine.Position) bool {
	in := make(map[engine.Position]bool, len(b))
	for _, p := range b {
		in[p] = true
	}
	for _, p := range a {
		if !in[p] {
			return false
		}
	}
	return true
}

func difference(b, a []engine.Position) []engine.Position {
	in := make(map[engine.Position]bool, len(a))
	for _, p := range a {
		in[p] = true
	}
	var out []engine.Position
	for _, p := range b {
		if !in[p] {
			out = append(out, p)
		}
	}
	return out
}
