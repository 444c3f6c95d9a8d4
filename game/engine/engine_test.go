package engine

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestConfig(width, height, mines int) *GameConfig {
	return &GameConfig{
		Name:        "Engine Test Config",
		Description: "Configuration for engine tests",
		Width:       width,
		Height:      height,
		Mines:       mines,
	}
}

// layMines places mines at fixed positions, bypassing first-reveal generation
func layMines(t *testing.T, e *GameEngine, mines ...Position) {
	t.Helper()
	for _, p := range mines {
		require.True(t, e.inBounds(p), "mine %v out of bounds", p)
		e.cellAt(p).Mine = true
	}
	e.state.Mines = len(mines)
	e.state.MineGenerated = true
	e.updateNumbers()
}

func TestNewEngine(t *testing.T) {
	config := createTestConfig(9, 9, 10)
	e, err := NewEngine(config)
	require.NoError(t, err)
	require.NotNil(t, e)

	state := e.GetState()
	assert.Equal(t, StatusPlay, state.Status)
	assert.False(t, state.MineGenerated)
	assert.Len(t, state.Board, 9)
	assert.Len(t, e.Blocks(), 81)
	assert.Nil(t, e.StartMS())
	assert.Nil(t, e.EndMS())
	assert.Equal(t, config.Name, state.ConfigName)

	for y, row := range e.Board() {
		for x, cell := range row {
			assert.Equal(t, Position{X: x, Y: y}, cell.Pos())
		}
	}
}

func TestNewEngine_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		config *GameConfig
	}{
		{"nil", nil},
		{"missing name", &GameConfig{Description: "d", Width: 3, Height: 3, Mines: 1}},
		{"zero width", createTestConfig(0, 3, 1)},
		{"zero height", createTestConfig(3, 0, 1)},
		{"negative mines", createTestConfig(3, 3, -1)},
		{"mines fill board", createTestConfig(3, 3, 9)},
		{"too wide", createTestConfig(MaxBoardSize+1, 3, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEngine(tt.config)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig))
		})
	}
}

func TestNewEngineWithDefaults(t *testing.T) {
	e := NewEngineWithDefaults()
	assert.Equal(t, 9, e.GetState().Width)
	assert.Equal(t, 9, e.GetState().Height)
	assert.Equal(t, 10, e.GetState().Mines)
}

func TestReset(t *testing.T) {
	e, err := NewEngine(createTestConfig(5, 5, 4))
	require.NoError(t, err)

	_, err = e.Reveal(0, 0)
	require.NoError(t, err)
	_, err = e.Flag(4, 4)
	require.NoError(t, err)
	require.True(t, e.GetState().MineGenerated)

	state := e.Reset()
	assert.False(t, state.MineGenerated)
	assert.Equal(t, StatusPlay, state.Status)
	assert.Nil(t, state.StartMS)
	assert.Nil(t, state.EndMS)
	for _, cell := range e.Blocks() {
		assert.False(t, cell.Revealed)
		assert.False(t, cell.Flagged)
		assert.False(t, cell.Mine)
		assert.Zero(t, cell.AdjacentMines)
	}

	t.Run("history survives reset", func(t *testing.T) {
		assert.Equal(t, 3, state.TotalActions)
		assert.Len(t, state.ActionHistory, 3)
		assert.Equal(t, ActionReset, e.GetLastAction().Action)
		assert.Empty(t, state.CurrentActions)
		assert.Zero(t, state.CurrentActionsCount)
	})
}

func TestResetWith(t *testing.T) {
	e, err := NewEngine(createTestConfig(5, 5, 4))
	require.NoError(t, err)

	state, err := e.ResetWith(8, 4, 6)
	require.NoError(t, err)
	assert.Equal(t, 8, state.Width)
	assert.Equal(t, 4, state.Height)
	assert.Equal(t, 6, state.Mines)
	assert.Len(t, state.Board, 4)
	assert.Len(t, state.Board[0], 8)
	assert.Equal(t, 8, e.GetConfig().Width)

	_, err = e.ResetWith(2, 2, 4)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
	assert.Equal(t, 8, e.GetState().Width, "failed reset must keep the current board")
}

func TestReset_SharedConfigUntouched(t *testing.T) {
	config := createTestConfig(5, 5, 4)
	e, err := NewEngine(config)
	require.NoError(t, err)

	_, err = e.ResetWith(6, 6, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, config.Width)
	assert.Equal(t, 4, config.Mines)
}

func TestSeededConfigReplaysLayout(t *testing.T) {
	seed := uint64(42)
	config := createTestConfig(9, 9, 10)
	config.Seed = &seed

	mines := func(e *GameEngine) []Position {
		var out []Position
		for _, c := range e.Blocks() {
			if c.Mine {
				out = append(out, c.Pos())
			}
		}
		return out
	}

	e, err := NewEngine(config)
	require.NoError(t, err)
	_, err = e.Reveal(4, 4)
	require.NoError(t, err)
	first := mines(e)

	e.Reset()
	_, err = e.Reveal(4, 4)
	require.NoError(t, err)
	assert.Equal(t, first, mines(e))

	other, err := NewEngine(config)
	require.NoError(t, err)
	_, err = other.Reveal(4, 4)
	require.NoError(t, err)
	assert.Equal(t, first, mines(other))
}

func TestSetState(t *testing.T) {
	e, err := NewEngine(createTestConfig(4, 4, 2))
	require.NoError(t, err)
	_, err = e.Reveal(0, 0)
	require.NoError(t, err)

	data, err := json.Marshal(e.GetState())
	require.NoError(t, err)

	var restored GameState
	require.NoError(t, json.Unmarshal(data, &restored))

	other, err := NewEngine(createTestConfig(9, 9, 10))
	require.NoError(t, err)
	require.NoError(t, other.SetState(&restored))

	assert.Equal(t, e.Blocks(), other.Blocks())
	assert.Equal(t, 4, other.GetConfig().Width)
	assert.Equal(t, e.GetState().StartMS, other.GetState().StartMS)

	t.Run("rejects nil", func(t *testing.T) {
		assert.Error(t, other.SetState(nil))
	})

	t.Run("rejects ragged board", func(t *testing.T) {
		bad := InitGameState(3, 3, 1)
		bad.Board[1] = bad.Board[1][:2]
		assert.True(t, errors.Is(other.SetState(bad), ErrInvalidConfig))
	})
}

func TestSubscribe(t *testing.T) {
	e, err := NewEngine(createTestConfig(3, 3, 1))
	require.NoError(t, err)

	var events []Event
	unsubscribe := e.Subscribe(func(ev Event) {
		events = append(events, ev)
	})

	_, err = e.Flag(0, 0)
	require.NoError(t, err)
	_, err = e.Flag(0, 0)
	require.NoError(t, err)
	e.Reset()

	require.Len(t, events, 3)
	assert.Equal(t, ActionFlag, events[0].Outcome.Action)
	assert.Equal(t, []Position{{X: 0, Y: 0}}, events[0].Outcome.Flagged)
	assert.Equal(t, []Position{{X: 0, Y: 0}}, events[1].Outcome.Unflagged)
	assert.Equal(t, ActionReset, events[2].Outcome.Action)
	assert.Same(t, e.GetState(), events[2].State)

	unsubscribe()
	_, err = e.Flag(1, 1)
	require.NoError(t, err)
	assert.Len(t, events, 3)
}

func TestTimestamps(t *testing.T) {
	now := int64(1_000)
	clock := func() time.Time { return time.UnixMilli(now) }

	e, err := NewEngine(createTestConfig(3, 3, 1), WithClock(clock))
	require.NoError(t, err)

	_, err = e.Reveal(0, 0)
	require.NoError(t, err)
	require.NotNil(t, e.StartMS())
	assert.Equal(t, int64(1_000), *e.StartMS())
	assert.Nil(t, e.EndMS())
	assert.Equal(t, StatusPlay, e.Status())
	assert.Equal(t, int64(3_500), NewBoardView(e.GetState(), time.UnixMilli(4_500)).ElapsedMS)

	now = 7_000
	var mine Position
	for _, c := range e.Blocks() {
		switch {
		case c.Mine:
			mine = c.Pos()
		case !c.Revealed:
			_, err = e.Reveal(c.X, c.Y)
			require.NoError(t, err)
		}
	}
	require.Equal(t, StatusPlay, e.Status())
	_, err = e.Flag(mine.X, mine.Y)
	require.NoError(t, err)
	assert.Equal(t, StatusWon, e.Status())
	require.NotNil(t, e.EndMS())
	assert.Equal(t, int64(7_000), *e.EndMS())
	assert.Equal(t, int64(6_000), NewBoardView(e.GetState(), time.UnixMilli(9_999)).ElapsedMS)
}
