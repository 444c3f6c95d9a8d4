package session

import (
	"fmt"
	"sort"
	"time"

	"github.com/wricardo/mcp-training/minesweeper/game/engine"
	"github.com/wricardo/mcp-training/minesweeper/game/service"
)

// SessionPersistence defines the interface for persisting sessions
type SessionPersistence interface {
	// Save persists a session to storage
	Save(session *service.Session) error

	// Load retrieves a session from storage by ID
	Load(id string) (*service.Session, error)

	// Delete removes a session from storage
	Delete(id string) error

	// ListAll returns all persisted session IDs
	ListAll() ([]string, error)

	// Exists checks if a session exists in storage
	Exists(id string) bool
}

// PersistedSessionData is the stored form of a session. The board config travels with
// the state so custom boards survive a restart.
type PersistedSessionData struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	Config         *engine.GameConfig `json:"config,omitempty"`
	GameState      *engine.GameState  `json:"game_state"`
}

// snapshot captures a session for storage
func snapshot(session *service.Session, configID string) *PersistedSessionData {
	return &PersistedSessionData{
		ID:             session.ID,
		ConfigName:     configID,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		Config:         session.Engine.GetConfig(),
		GameState:      session.Engine.GetState(),
	}
}

// restore rebuilds a live session from stored data. The stored config wins; the
// preset named by ConfigName is the fallback for records without one.
func restore(data *PersistedSessionData, configs service.ConfigManager) (*service.Session, error) {
	if data.GameState == nil {
		return nil, fmt.Errorf("session %s has no game state", data.ID)
	}

	gameConfig := data.Config
	if engine.ValidateGameConfig(gameConfig) != nil {
		if configs == nil {
			return nil, fmt.Errorf("session %s has no usable config", data.ID)
		}
		var err error
		gameConfig, err = configs.LoadConfig(data.ConfigName)
		if err != nil {
			return nil, fmt.Errorf("failed to load config '%s': %w", data.ConfigName, err)
		}
	}

	gameEngine, err := engine.NewEngine(gameConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create game engine: %w", err)
	}

	if err := gameEngine.SetState(data.GameState); err != nil {
		return nil, fmt.Errorf("failed to set game state: %w", err)
	}

	return &service.Session{
		ID:             data.ID,
		Engine:         gameEngine,
		Config:         gameConfig,
		CreatedAt:      data.CreatedAt,
		LastAccessedAt: data.LastAccessedAt,
	}, nil
}

// configIDFromName returns the preset ID (file name without extension) for a display name
func configIDFromName(configs service.ConfigManager, displayName string) string {
	if configs == nil {
		return displayName
	}
	list, err := configs.ListConfigs()
	if err != nil {
		return displayName
	}
	for _, config := range list {
		if config.Name == displayName {
			return config.ConfigID
		}
	}
	// If not found, assume the displayName is already the config ID
	return displayName
}

func sortSessions(sessions []*service.Session) {
	sort.Slice(sessions, func(i, j int) bool {
		if !sessions[i].CreatedAt.Equal(sessions[j].CreatedAt) {
			return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
		}
		return sessions[i].ID < sessions[j].ID
	})
}
