package engine

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	SetState(state *GameState) error
	Reset() *GameState
	ResetWith(width, height, mines int) (*GameState, error)
	Status() Status
	IsGameOver() bool

	// Read surface
	Board() [][]Cell
	Blocks() []Cell
	Cell(x, y int) (Cell, error)
	StartMS() *int64
	EndMS() *int64

	// Player actions
	Reveal(x, y int) (*Outcome, error)
	Flag(x, y int) (*Outcome, error)
	AutoExpand(x, y int) (*Outcome, error)

	// Configuration
	GetConfig() *GameConfig
	SetConfig(config *GameConfig) error

	// History
	GetActionHistory() []ActionHistoryEntry
	GetLastAction() *ActionHistoryEntry

	// Observation
	Subscribe(listener Listener) (unsubscribe func())
}

// Option customizes a GameEngine
type Option func(*GameEngine)

// WithRand sets the random source used for mine placement
func WithRand(r *rand.Rand) Option {
	return func(e *GameEngine) {
		e.rng = r
		e.fixedRand = true
	}
}

// WithClock sets the clock used for timestamps
func WithClock(now func() time.Time) Option {
	return func(e *GameEngine) {
		e.now = now
	}
}

// GameEngine implements the Engine interface. It is not safe for concurrent use;
// callers serialize access.
type GameEngine struct {
	state  *GameState
	config *GameConfig

	rng       *rand.Rand
	fixedRand bool
	now       func() time.Time

	listeners    map[int]Listener
	nextListener int

	// outcome collects changes while an action runs
	outcome *Outcome
}

// NewEngine creates a new game engine with the provided configuration
func NewEngine(config *GameConfig, opts ...Option) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	e := &GameEngine{
		config:    config,
		now:       time.Now,
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.seedRand()

	e.state = InitGameState(config.Width, config.Height, config.Mines)
	e.state.ConfigName = config.Name
	return e, nil
}

// NewEngineWithDefaults creates a new game engine on the beginner board
func NewEngineWithDefaults() *GameEngine {
	e, err := NewEngine(DefaultConfig())
	if err != nil {
		panic(fmt.Sprintf("default config is invalid: %v", err))
	}
	return e
}

// seedRand (re)creates the random source. Seeded configs replay the same layout after
// every reset.
func (e *GameEngine) seedRand() {
	if e.fixedRand {
		return
	}
	if e.config != nil && e.config.Seed != nil {
		seed := *e.config.Seed
		e.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
		return
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
}

// GetState returns the current game state
func (e *GameEngine) GetState() *GameState {
	return e.state
}

// SetState sets the game state (used for persistence loading)
func (e *GameEngine) SetState(state *GameState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	if err := ValidateDimensions(state.Width, state.Height, state.Mines); err != nil {
		return err
	}
	if len(state.Board) != state.Height {
		return fmt.Errorf("%w: board has %d rows, expected %d", ErrInvalidConfig, len(state.Board), state.Height)
	}
	for y, row := range state.Board {
		if len(row) != state.Width {
			return fmt.Errorf("%w: row %d has %d cells, expected %d", ErrInvalidConfig, y, len(row), state.Width)
		}
	}
	if state.Status == "" {
		state.Status = StatusPlay
	}

	e.state = state
	e.adoptDimensions(state.Width, state.Height, state.Mines)
	return nil
}

// Status returns the current game status
func (e *GameEngine) Status() Status {
	return e.state.Status
}

// IsGameOver returns whether the game has been won or lost
func (e *GameEngine) IsGameOver() bool {
	return e.state.Status != StatusPlay
}

// Board returns the current board, rows indexed by y
func (e *GameEngine) Board() [][]Cell {
	return e.state.Board
}

// Blocks returns every cell in row-major order
func (e *GameEngine) Blocks() []Cell {
	blocks := make([]Cell, 0, e.state.Width*e.state.Height)
	for _, row := range e.state.Board {
		blocks = append(blocks, row...)
	}
	return blocks
}

// Cell returns a copy of the cell at x,y
func (e *GameEngine) Cell(x, y int) (Cell, error) {
	p := Position{X: x, Y: y}
	if !e.inBounds(p) {
		return Cell{}, e.outOfBounds(p)
	}
	return *e.cellAt(p), nil
}

// StartMS returns when the first reveal happened, or nil
func (e *GameEngine) StartMS() *int64 {
	return e.state.StartMS
}

// EndMS returns when the game ended, or nil
func (e *GameEngine) EndMS() *int64 {
	return e.state.EndMS
}

// Reset starts a new game with the current dimensions
func (e *GameEngine) Reset() *GameState {
	e.reset(e.state.Width, e.state.Height, e.state.Mines)
	return e.state
}

// ResetWith starts a new game with the given dimensions
func (e *GameEngine) ResetWith(width, height, mines int) (*GameState, error) {
	if err := ValidateDimensions(width, height, mines); err != nil {
		return nil, err
	}
	e.adoptDimensions(width, height, mines)
	e.reset(width, height, mines)
	return e.state, nil
}

func (e *GameEngine) reset(width, height, mines int) {
	// Preserve cumulative history and totals across resets
	prevHistory := e.state.ActionHistory
	prevTotal := e.state.TotalActions

	e.state = InitGameState(width, height, mines)
	e.state.ConfigName = e.config.Name
	e.seedRand()

	e.state.ActionHistory = prevHistory
	e.state.TotalActions = prevTotal

	e.begin(ActionReset, Position{})
	e.outcome.Changed = true
	e.finish()
}

// adoptDimensions keeps the engine config in line with the board without touching the
// shared preset it was created from
func (e *GameEngine) adoptDimensions(width, height, mines int) {
	if e.config.Width == width && e.config.Height == height && e.config.Mines == mines {
		return
	}
	cfg := *e.config
	cfg.Width, cfg.Height, cfg.Mines = width, height, mines
	e.config = &cfg
}

// GetConfig returns the current game configuration
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// SetConfig sets a new game configuration and starts a new game
func (e *GameEngine) SetConfig(config *GameConfig) error {
	if err := ValidateGameConfig(config); err != nil {
		return err
	}

	e.config = config
	e.seedRand()
	e.state = InitGameState(config.Width, config.Height, config.Mines)
	e.state.ConfigName = config.Name
	return nil
}

// GetActionHistory returns the complete action history
func (e *GameEngine) GetActionHistory() []ActionHistoryEntry {
	return e.state.ActionHistory
}

// GetLastAction returns the last action taken, or nil if none
func (e *GameEngine) GetLastAction() *ActionHistoryEntry {
	if len(e.state.ActionHistory) == 0 {
		return nil
	}
	return &e.state.ActionHistory[len(e.state.ActionHistory)-1]
}

// Subscribe registers a listener called after every operation
func (e *GameEngine) Subscribe(listener Listener) func() {
	id := e.nextListener
	e.nextListener++
	e.listeners[id] = listener
	return func() {
		delete(e.listeners, id)
	}
}

func (e *GameEngine) begin(action ActionType, p Position) {
	e.outcome = &Outcome{
		Action:   action,
		Position: p,
		Status:   e.state.Status,
	}
}

// finish seals the current outcome, records it and notifies listeners
func (e *GameEngine) finish() *Outcome {
	o := e.outcome
	e.outcome = nil

	if o.Status != e.state.Status {
		o.Changed = true
	}
	o.Status = e.state.Status
	if len(o.Revealed)+len(o.Flagged)+len(o.Unflagged) > 0 {
		o.Changed = true
	}

	e.state.AddActionToHistory(o, e.nowMS())

	event := Event{Outcome: o, State: e.state}
	for _, l := range e.listeners {
		l(event)
	}
	return o
}

func (e *GameEngine) nowMS() int64 {
	return e.now().UnixMilli()
}

func (e *GameEngine) inBounds(p Position) bool {
	return p.X >= 0 && p.X < e.state.Width && p.Y >= 0 && p.Y < e.state.Height
}

func (e *GameEngine) outOfBounds(p Position) error {
	return fmt.Errorf("%w: (%d,%d) on %dx%d board", ErrOutOfBounds, p.X, p.Y, e.state.Width, e.state.Height)
}

func (e *GameEngine) cellAt(p Position) *Cell {
	return &e.state.Board[p.Y][p.X]
}
