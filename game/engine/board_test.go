package engine

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSiblings(t *testing.T) {
	e, err := NewEngine(createTestConfig(5, 4, 1))
	require.NoError(t, err)

	for y := 0; y < 4; y++ {
		for x := 0; x < 5; x++ {
			corner := (x == 0 || x == 4) && (y == 0 || y == 3)
			edge := x == 0 || x == 4 || y == 0 || y == 3
			want := 8
			switch {
			case corner:
				want = 3
			case edge:
				want = 5
			}
			assert.Len(t, e.Siblings(Position{X: x, Y: y}), want, "cell (%d,%d)", x, y)
		}
	}
}

func TestSiblings_Order(t *testing.T) {
	e, err := NewEngine(createTestConfig(3, 3, 1))
	require.NoError(t, err)

	assert.Equal(t, []Position{
		{X: 2, Y: 2}, {X: 2, Y: 1}, {X: 2, Y: 0}, {X: 1, Y: 0},
		{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: 2}, {X: 1, Y: 2},
	}, e.Siblings(Position{X: 1, Y: 1}))
	assert.Equal(t, []Position{{X: 1, Y: 1}, {X: 1, Y: 0}, {X: 0, Y: 1}}, e.Siblings(Position{X: 0, Y: 0}))
}

func TestSiblings_SingleCell(t *testing.T) {
	e, err := NewEngine(createTestConfig(1, 1, 0))
	require.NoError(t, err)
	assert.Empty(t, e.Siblings(Position{}))
}

func TestGenerateMines_Properties(t *testing.T) {
	boards := []struct{ w, h, m int }{
		{9, 9, 10},
		{16, 16, 40},
		{30, 16, 99},
		{8, 8, 55},
		{3, 3, 1},
		{3, 3, 8},
		{2, 2, 3},
		{1, 5, 4},
		{1, 1, 0},
	}

	for _, b := range boards {
		t.Run(fmt.Sprintf("%dx%d_%d", b.w, b.h, b.m), func(t *testing.T) {
			for seed := uint64(0); seed < 50; seed++ {
				r := rand.New(rand.NewPCG(seed, seed+1))
				e, err := NewEngine(createTestConfig(b.w, b.h, b.m), WithRand(r))
				require.NoError(t, err)

				initial := Position{X: r.IntN(b.w), Y: r.IntN(b.h)}
				e.generateMines(initial)

				assert.Equal(t, b.m, CountMines(e.Board()))
				assert.False(t, e.cellAt(initial).Mine, "initial cell must be safe")

				// Neighbors stay safe whenever the board leaves room outside the zone
				zone := len(e.Siblings(initial)) + 1
				if b.m <= b.w*b.h-zone {
					for _, s := range e.Siblings(initial) {
						assert.False(t, e.cellAt(s).Mine, "neighbor %v of %v holds a mine", s, initial)
					}
				}

				assertAdjacency(t, e)
			}
		})
	}
}

func TestGenerateMines_DenseBoardFillsNeighbors(t *testing.T) {
	// 3x3 with 8 mines leaves no room outside the zone, so every neighbour of the center is mined
	e, err := NewEngine(createTestConfig(3, 3, 8), WithRand(rand.New(rand.NewPCG(7, 7))))
	require.NoError(t, err)

	center := Position{X: 1, Y: 1}
	e.generateMines(center)

	assert.False(t, e.cellAt(center).Mine)
	assert.Equal(t, 8, e.cellAt(center).AdjacentMines)
	for _, s := range e.Siblings(center) {
		assert.True(t, e.cellAt(s).Mine, "neighbor %v", s)
	}
	assert.NoError(t, ValidateDimensions(3, 3, 8))
}

func assertAdjacency(t *testing.T, e *GameEngine) {
	t.Helper()
	board := e.Board()
	for y := range board {
		for x := range board[y] {
			if board[y][x].Mine {
				assert.Zero(t, board[y][x].AdjacentMines)
				continue
			}
			want := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := x+dx, y+dy
					if (dx == 0 && dy == 0) || nx < 0 || ny < 0 || ny >= len(board) || nx >= len(board[ny]) {
						continue
					}
					if board[ny][nx].Mine {
						want++
					}
				}
			}
			assert.Equal(t, want, board[y][x].AdjacentMines, "cell (%d,%d)", x, y)
		}
	}
}

func TestGenerateMines_Uniform(t *testing.T) {
	// 4x4 board, first click in a corner leaves 12 eligible cells for 1 mine
	counts := map[Position]int{}
	r := rand.New(rand.NewPCG(7, 11))
	const trials = 6000
	for i := 0; i < trials; i++ {
		e, err := NewEngine(createTestConfig(4, 4, 1), WithRand(r))
		require.NoError(t, err)
		e.generateMines(Position{})
		for _, c := range e.Blocks() {
			if c.Mine {
				counts[c.Pos()]++
			}
		}
	}

	assert.Len(t, counts, 12)
	for p, n := range counts {
		assert.InDelta(t, trials/12, n, 150, "cell %v", p)
	}
}

func TestExpandZero_Idempotent(t *testing.T) {
	e, err := NewEngine(createTestConfig(3, 3, 1))
	require.NoError(t, err)
	layMines(t, e, Position{X: 2, Y: 2})

	start := Position{X: 0, Y: 0}
	e.cellAt(start).Revealed = true
	e.expandZero(start)
	first := e.Blocks()
	assert.Equal(t, 8, CountRevealed(e.Board()))

	e.begin(ActionReveal, start)
	e.expandZero(start)
	o := e.outcome
	e.outcome = nil
	assert.Empty(t, o.Revealed)
	assert.Equal(t, first, e.Blocks())
}

func TestExpandZero_NumberedCellDoesNothing(t *testing.T) {
	e, err := NewEngine(createTestConfig(3, 3, 1))
	require.NoError(t, err)
	layMines(t, e, Position{X: 2, Y: 2})

	e.cellAt(Position{X: 1, Y: 1}).Revealed = true
	e.expandZero(Position{X: 1, Y: 1})
	assert.Equal(t, 1, CountRevealed(e.Board()))
}

func TestExpandZero_OpensFlaggedCells(t *testing.T) {
	e, err := NewEngine(createTestConfig(4, 1, 0))
	require.NoError(t, err)
	layMines(t, e)

	e.cellAt(Position{X: 2, Y: 0}).Flagged = true
	e.cellAt(Position{X: 0, Y: 0}).Revealed = true
	e.expandZero(Position{X: 0, Y: 0})

	board := e.Board()
	for x := 0; x < 4; x++ {
		assert.True(t, board[0][x].Revealed, "cell %d should be revealed", x)
	}
	assert.True(t, board[0][2].Flagged, "the flag stays set")
}

func TestExpandZero_LargeBoard(t *testing.T) {
	e, err := NewEngine(createTestConfig(MaxBoardSize, MaxBoardSize, 0))
	require.NoError(t, err)
	layMines(t, e)

	e.cellAt(Position{}).Revealed = true
	e.expandZero(Position{})
	assert.Equal(t, MaxBoardSize*MaxBoardSize, CountRevealed(e.Board()))
}
