package service

import (
	"time"

	"github.com/wricardo/mcp-training/minesweeper/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	View           *engine.BoardView  `json:"view"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// BoardOptions requests a custom board instead of the preset dimensions
type BoardOptions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	Mines  int `json:"mines"`
}

// Action is one step of a batch request
type Action struct {
	Action engine.ActionType `json:"action"` // "reveal", "flag" or "chord"
	X      int               `json:"x"`
	Y      int               `json:"y"`
}

// ActionResult contains the result of a single player action
type ActionResult struct {
	Success  bool              `json:"success"` // false when the action changed nothing
	Action   engine.ActionType `json:"action"`
	Position engine.Position   `json:"position"`
	View     *engine.BoardView `json:"view"`
	Message  string            `json:"message"`
	Events   []GameEvent       `json:"events,omitempty"`
	Revealed int               `json:"revealed"`
	GameOver bool              `json:"game_over"`
}

// BatchResult contains the result of several actions applied in order
type BatchResult struct {
	RequestedActions int               `json:"requested_actions"`
	ActionsExecuted  int               `json:"actions_executed"`
	Success          bool              `json:"success"`
	View             *engine.BoardView `json:"view"`
	Events           []GameEvent       `json:"events"`
	Steps            []StepInfo        `json:"steps,omitempty"`
	StoppedReason    string            `json:"stopped_reason,omitempty"`
	StopReasonCode   string            `json:"stop_reason_code,omitempty"`  // won|lost|out_of_bounds|invalid_action
	StoppedOnAction  int               `json:"stopped_on_action,omitempty"` // 1-based
	Truncated        bool              `json:"truncated,omitempty"`
	Limit            int               `json:"limit,omitempty"`
	GameOver         bool              `json:"game_over"`
	Message          string            `json:"message,omitempty"`
}

// StepInfo is a compact record for each executed action in a batch
type StepInfo struct {
	Idx      int               `json:"idx"`
	Action   engine.ActionType `json:"action"`
	X        int               `json:"x"`
	Y        int               `json:"y"`
	Changed  bool              `json:"changed"`
	Revealed int               `json:"revealed"`
	Flagged  int               `json:"flagged,omitempty"`
	Status   engine.Status     `json:"status"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"` // "reveal", "cascade", "flag", "unflag", "auto_flag", "won", "lost", "reset"
	Message   string            `json:"message"`
	Timestamp time.Time         `json:"timestamp"`
	Position  *engine.Position  `json:"position,omitempty"`
	Cells     []engine.Position `json:"cells,omitempty"`
}

// HistoryOptions configures action history retrieval
type HistoryOptions struct {
	Page        int    `json:"page"`
	Limit       int    `json:"limit"`
	Order       string `json:"order"`        // "asc" or "desc"
	CurrentGame bool   `json:"current_game"` // only actions since the last reset
}

// HistoryResponse contains paginated action history
type HistoryResponse struct {
	Actions      []engine.ActionHistoryEntry `json:"actions"`
	TotalActions int                         `json:"total_actions"`
	Page         int                         `json:"page"`
	PageSize     int                         `json:"page_size"`
	TotalPages   int                         `json:"total_pages"`
	HasNext      bool                        `json:"has_next"`
	HasPrevious  bool                        `json:"has_previous"`
}

// ConfigInfo provides information about a difficulty preset
type ConfigInfo struct {
	Filename    string  `json:"filename"`
	ConfigID    string  `json:"config_id"` // The identifier to use for session creation
	Name        string  `json:"name"`      // Display name
	Description string  `json:"description"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	Mines       int     `json:"mines"`
	Density     float64 `json:"density"`
}
