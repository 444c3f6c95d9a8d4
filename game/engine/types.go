package engine

// Status is the lifecycle state of a game
type Status string

const (
	StatusPlay Status = "play"
	StatusWon  Status = "won"
	StatusLost Status = "lost"
)

// ActionType names a player action
type ActionType string

const (
	ActionReveal ActionType = "reveal"
	ActionFlag   ActionType = "flag"
	ActionChord  ActionType = "chord"
	ActionReset  ActionType = "reset"
)

const (
	// Validation constants
	MinBoardSize   = 1
	MaxBoardSize   = 100
	MaxBulkActions = 50

	// exclusionRadius is the Chebyshev radius around the first reveal kept mine-free
	exclusionRadius = 1
)

// Position represents x,y coordinates
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Cell represents a single board position
type Cell struct {
	X             int  `json:"x"`
	Y             int  `json:"y"`
	Mine          bool `json:"mine,omitempty"`
	Revealed      bool `json:"revealed"`
	Flagged       bool `json:"flagged,omitempty"`
	AdjacentMines int  `json:"adjacent_mines"`
}

// Pos returns the cell coordinates
func (c Cell) Pos() Position {
	return Position{X: c.X, Y: c.Y}
}

// GameConfig describes a board preset loaded from configs/
type GameConfig struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Width       int    `json:"width" yaml:"width"`
	Height      int    `json:"height" yaml:"height"`
	Mines       int    `json:"mines" yaml:"mines"`

	// Seed makes mine placement reproducible when set
	Seed *uint64 `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// GameState represents the complete game state
type GameState struct {
	Width         int      `json:"width"`
	Height        int      `json:"height"`
	Mines         int      `json:"mines"`
	Board         [][]Cell `json:"board"`
	MineGenerated bool     `json:"mine_generated"`
	Status        Status   `json:"status"`
	StartMS       *int64   `json:"start_ms,omitempty"`
	EndMS         *int64   `json:"end_ms,omitempty"`
	ConfigName    string   `json:"config_name"`

	ActionHistory []ActionHistoryEntry `json:"action_history"`
	TotalActions  int                  `json:"total_actions"`

	// CurrentActions tracks only the actions since the last reset. It mirrors ActionHistory
	// entries but gets cleared on reset while ActionHistory remains cumulative.
	CurrentActions      []ActionHistoryEntry `json:"current_actions"`
	CurrentActionsCount int                  `json:"current_actions_count"`
}

// ActionHistoryEntry represents a single player action in the game history
type ActionHistoryEntry struct {
	Action        ActionType `json:"action"`
	Position      Position   `json:"position"`
	Changed       bool       `json:"changed"`
	RevealedCount int        `json:"revealed_count"`
	Status        Status     `json:"status"`
	Timestamp     int64      `json:"timestamp"`
	ActionNumber  int        `json:"action_number"`
}

// Outcome lists the cells an action changed
type Outcome struct {
	Action    ActionType `json:"action"`
	Position  Position   `json:"position"`
	Changed   bool       `json:"changed"`
	Revealed  []Position `json:"revealed,omitempty"`
	Flagged   []Position `json:"flagged,omitempty"`
	Unflagged []Position `json:"unflagged,omitempty"`
	Status    Status     `json:"status"`
	// Exploded is the first mine the action uncovered, if any
	Exploded *Position `json:"exploded,omitempty"`
}

// Event is delivered to listeners after every engine operation
type Event struct {
	Outcome *Outcome
	State   *GameState
}

// Listener receives engine events
type Listener func(Event)
