package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wricardo/mcp-training/minesweeper/game/engine"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	now      func() time.Time
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
		now:      time.Now,
	}
}

// getConfigID returns the config_id for a given preset display name
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

// CreateSession creates a new game session on a preset, optionally resized by board
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string, board *BoardOptions) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.GameConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			if errors.Is(err, ErrConfigNotFound) {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("%w: '%s'. Available configs: %v", ErrConfigNotFound, configName, configIDs)
				}
				return nil, fmt.Errorf("%w: '%s'. Use /api/configs to list available configurations", ErrConfigNotFound, configName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	if board != nil {
		config, err = customConfig(config, board)
		if err != nil {
			return nil, err
		}
	}

	// Let session manager generate a proper 4-character ID
	session, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	configID := configName
	if configID == "" || board != nil {
		configID = s.getConfigID(config.Name)
	}

	log.Printf("[CREATE] session=%s config=%s board=%dx%d mines=%d", session.ID, configID, config.Width, config.Height, config.Mines)

	return s.sessionInfo(session, configID), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return s.sessionInfo(session, s.getConfigID(session.Engine.GetConfig().Name)), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess, s.getConfigID(sess.Engine.GetConfig().Name)))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete session %s: %w", sessionID, err)
	}
	log.Printf("[DELETE] session=%s", sessionID)
	return nil
}

// Reveal opens the cell at x,y
func (s *gameServiceImpl) Reveal(ctx context.Context, sessionID string, x, y int) (*ActionResult, error) {
	return s.act(sessionID, engine.ActionReveal, x, y)
}

// Flag toggles the flag at x,y
func (s *gameServiceImpl) Flag(ctx context.Context, sessionID string, x, y int) (*ActionResult, error) {
	return s.act(sessionID, engine.ActionFlag, x, y)
}

// Chord auto-expands the numbered cell at x,y
func (s *gameServiceImpl) Chord(ctx context.Context, sessionID string, x, y int) (*ActionResult, error) {
	return s.act(sessionID, engine.ActionChord, x, y)
}

func (s *gameServiceImpl) act(sessionID string, action engine.ActionType, x, y int) (*ActionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	o, err := apply(sess.Engine, action, x, y)
	if err != nil {
		return nil, err
	}

	log.Printf("[%s] session=%s (%d,%d) revealed=%d status=%s", strings.ToUpper(string(action)), sess.ID, x, y, len(o.Revealed), o.Status)

	return &ActionResult{
		Success:  o.Changed,
		Action:   o.Action,
		Position: o.Position,
		View:     engine.NewBoardView(sess.Engine.GetState(), s.now()),
		Message:  outcomeMessage(sess.Engine, o),
		Events:   s.outcomeEvents(sess.Engine, o),
		Revealed: len(o.Revealed),
		GameOver: sess.Engine.IsGameOver(),
	}, nil
}

// Batch applies actions in order, stopping when the game ends or an action is rejected
func (s *gameServiceImpl) Batch(ctx context.Context, sessionID string, actions []Action, reset bool) (*BatchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	result := &BatchResult{
		RequestedActions: len(actions),
		Events:           make([]GameEvent, 0),
		Success:          true,
	}

	if reset {
		sess.Engine.Reset()
		result.Events = append(result.Events, s.event("reset", "Game reset to a fresh board", nil, nil))
	}

	// Limit actions to prevent abuse
	if len(actions) > engine.MaxBulkActions {
		result.Truncated = true
		result.Limit = engine.MaxBulkActions
		actions = actions[:engine.MaxBulkActions]
	}

	for i, a := range actions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if sess.Engine.IsGameOver() {
			result.StoppedReason = fmt.Sprintf("game already %s", sess.Engine.Status())
			result.StopReasonCode = string(sess.Engine.Status())
			result.StoppedOnAction = i + 1
			break
		}

		o, err := apply(sess.Engine, normalizeAction(a.Action), a.X, a.Y)
		if err != nil {
			result.Success = false
			result.StoppedReason = fmt.Sprintf("action %d rejected: %v", i+1, err)
			result.StoppedOnAction = i + 1
			if errors.Is(err, engine.ErrOutOfBounds) {
				result.StopReasonCode = "out_of_bounds"
			} else {
				result.StopReasonCode = "invalid_action"
			}
			break
		}

		result.ActionsExecuted++
		result.Events = append(result.Events, s.outcomeEvents(sess.Engine, o)...)
		result.Steps = append(result.Steps, StepInfo{
			Idx:      i + 1,
			Action:   o.Action,
			X:        a.X,
			Y:        a.Y,
			Changed:  o.Changed,
			Revealed: len(o.Revealed),
			Flagged:  len(o.Flagged),
			Status:   o.Status,
		})
	}

	state := sess.Engine.GetState()
	result.View = engine.NewBoardView(state, s.now())
	result.GameOver = sess.Engine.IsGameOver()
	if result.GameOver && result.StopReasonCode == "" {
		result.StopReasonCode = string(state.Status)
	}
	result.Message = batchMessage(result, state)

	log.Printf("[BATCH] session=%s executed=%d/%d status=%s", sess.ID, result.ActionsExecuted, result.RequestedActions, state.Status)

	return result, nil
}

// Reset starts a fresh game, optionally on a different board size
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string, board *BoardOptions) (*engine.BoardView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	var state *engine.GameState
	if board != nil {
		state, err = sess.Engine.ResetWith(board.Width, board.Height, board.Mines)
		if err != nil {
			return nil, err
		}
	} else {
		state = sess.Engine.Reset()
	}

	log.Printf("[RESET] session=%s board=%dx%d mines=%d", sess.ID, state.Width, state.Height, state.Mines)
	return engine.NewBoardView(state, s.now()), nil
}

// GetGameState returns the player view of the current game
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.BoardView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return engine.NewBoardView(sess.Engine.GetState(), s.now()), nil
}

// GetActionHistory returns paginated action history
func (s *gameServiceImpl) GetActionHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	history := sess.Engine.GetActionHistory()
	if opts.CurrentGame {
		history = sess.Engine.GetState().CurrentActions
	}
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	var actions []engine.ActionHistoryEntry
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			actions = append(actions, history[i])
		}
	} else if start < total {
		actions = history[start:end]
	}

	if actions == nil {
		actions = []engine.ActionHistoryEntry{}
	}

	return &HistoryResponse{
		Actions:      actions,
		TotalActions: total,
		Page:         opts.Page,
		PageSize:     opts.Limit,
		TotalPages:   totalPages,
		HasNext:      opts.Page < totalPages,
		HasPrevious:  opts.Page > 1,
	}, nil
}

// ListConfigs returns available difficulty presets
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific preset
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	config, err := s.configs.LoadConfig(configName)
	if err != nil {
		return nil, err
	}
	return publicConfig(config), nil
}

// SaveConfig saves a preset to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	return s.configs.SaveConfig(configName, config)
}

// lookup fetches a session and marks it accessed. Callers hold s.mu for writing, since
// sessionInfo reads the access time without the manager's lock.
func (s *gameServiceImpl) lookup(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
		}
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

func (s *gameServiceImpl) sessionInfo(sess *Session, configID string) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     configID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		View:           engine.NewBoardView(sess.Engine.GetState(), s.now()),
		GameConfig:     publicConfig(sess.Engine.GetConfig()),
	}
}

// apply dispatches one player action to the engine
func apply(eng *engine.GameEngine, action engine.ActionType, x, y int) (*engine.Outcome, error) {
	switch action {
	case engine.ActionReveal:
		return eng.Reveal(x, y)
	case engine.ActionFlag:
		return eng.Flag(x, y)
	case engine.ActionChord:
		return eng.AutoExpand(x, y)
	default:
		return nil, fmt.Errorf("%w: unknown action %q", ErrInvalidAction, action)
	}
}

// normalizeAction accepts the common client spellings of each action
func normalizeAction(action engine.ActionType) engine.ActionType {
	switch strings.ToLower(strings.TrimSpace(string(action))) {
	case "reveal", "open", "click":
		return engine.ActionReveal
	case "flag", "mark", "toggle_flag":
		return engine.ActionFlag
	case "chord", "expand", "auto_expand":
		return engine.ActionChord
	default:
		return action
	}
}

// customConfig derives a one-off board from a preset
func customConfig(base *engine.GameConfig, board *BoardOptions) (*engine.GameConfig, error) {
	if err := engine.ValidateDimensions(board.Width, board.Height, board.Mines); err != nil {
		return nil, err
	}
	return &engine.GameConfig{
		Name:        "custom",
		Description: fmt.Sprintf("Custom %dx%d board with %d mines", board.Width, board.Height, board.Mines),
		Width:       board.Width,
		Height:      board.Height,
		Mines:       board.Mines,
		Seed:        base.Seed,
	}, nil
}

// publicConfig hides the seed, which would let a client replay the mine layout
func publicConfig(config *engine.GameConfig) *engine.GameConfig {
	if config == nil {
		return nil
	}
	c := *config
	c.Seed = nil
	return &c
}

func (s *gameServiceImpl) event(typ, message string, pos *engine.Position, cells []engine.Position) GameEvent {
	return GameEvent{
		ID:        uuid.NewString(),
		Type:      typ,
		Message:   message,
		Timestamp: s.now(),
		Position:  pos,
		Cells:     cells,
	}
}

// outcomeEvents turns an engine outcome into client-facing events
func (s *gameServiceImpl) outcomeEvents(eng *engine.GameEngine, o *engine.Outcome) []GameEvent {
	events := []GameEvent{}
	if !o.Changed {
		return events
	}
	p := o.Position

	// Mines uncovered by a loss are reported by the lost event
	var opened []engine.Position
	for _, c := range o.Revealed {
		if cell, err := eng.Cell(c.X, c.Y); err == nil && !cell.Mine {
			opened = append(opened, c)
		}
	}

	switch o.Action {
	case engine.ActionReveal:
		if len(opened) > 0 {
			events = append(events, s.event("reveal", fmt.Sprintf("Revealed (%d,%d)", p.X, p.Y), &p, nil))
		}
		if len(opened) > 1 {
			events = append(events, s.event("cascade", fmt.Sprintf("Cascade opened %d cells", len(opened)), &p, opened))
		}
	case engine.ActionFlag:
		if len(o.Flagged) > 0 {
			events = append(events, s.event("flag", fmt.Sprintf("Flagged (%d,%d)", p.X, p.Y), &p, nil))
		}
		if len(o.Unflagged) > 0 {
			events = append(events, s.event("unflag", fmt.Sprintf("Removed flag at (%d,%d)", p.X, p.Y), &p, nil))
		}
	case engine.ActionChord:
		if len(opened) > 0 {
			events = append(events, s.event("reveal", fmt.Sprintf("Chord at (%d,%d) opened %d cells", p.X, p.Y, len(opened)), &p, opened))
		}
		if len(o.Flagged) > 0 {
			events = append(events, s.event("auto_flag", fmt.Sprintf("Chord at (%d,%d) flagged %d cells", p.X, p.Y, len(o.Flagged)), &p, o.Flagged))
		}
	}

	switch o.Status {
	case engine.StatusWon:
		events = append(events, s.event("won", "Board cleared! Every mine is accounted for", nil, nil))
	case engine.StatusLost:
		if o.Exploded != nil {
			hit := *o.Exploded
			events = append(events, s.event("lost", fmt.Sprintf("Boom! Mine at (%d,%d)", hit.X, hit.Y), &hit, nil))
		} else {
			events = append(events, s.event("lost", "Board covered but a flag sits on a safe cell", nil, nil))
		}
	}

	return events
}

func outcomeMessage(eng *engine.GameEngine, o *engine.Outcome) string {
	p := o.Position
	switch {
	case o.Status == engine.StatusLost && o.Changed:
		if o.Exploded != nil {
			return fmt.Sprintf("Boom! Mine at (%d,%d). Game lost", o.Exploded.X, o.Exploded.Y)
		}
		return "Game lost: a flag was on a safe cell"
	case o.Status == engine.StatusWon && o.Changed:
		return "Victory! Board cleared"
	case !o.Changed && eng.IsGameOver():
		return fmt.Sprintf("Game already %s; reset to play again", o.Status)
	case !o.Changed:
		return fmt.Sprintf("Nothing to %s at (%d,%d)", o.Action, p.X, p.Y)
	}

	switch o.Action {
	case engine.ActionFlag:
		if len(o.Unflagged) > 0 {
			return fmt.Sprintf("Flag removed at (%d,%d)", p.X, p.Y)
		}
		return fmt.Sprintf("Flag placed at (%d,%d)", p.X, p.Y)
	case engine.ActionChord:
		return fmt.Sprintf("Chord at (%d,%d): revealed %d, flagged %d", p.X, p.Y, len(o.Revealed), len(o.Flagged))
	default:
		return fmt.Sprintf("Revealed %d cells", len(o.Revealed))
	}
}

func batchMessage(result *BatchResult, state *engine.GameState) string {
	switch state.Status {
	case engine.StatusWon:
		return "Victory! Board cleared"
	case engine.StatusLost:
		return "Game lost"
	}
	if result.StoppedReason != "" {
		return result.StoppedReason
	}
	return fmt.Sprintf("Executed %d of %d actions", result.ActionsExecuted, result.RequestedActions)
}
