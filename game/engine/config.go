package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidConfig = errors.New("invalid board configuration")
	ErrOutOfBounds   = errors.New("cell out of bounds")
)

// ValidateDimensions checks that a board of the given size can hold the mine count.
// Mines must leave at least one safe cell so the first reveal can never lose. Boards with more
// than width*height-9 mines only guarantee that the first cell itself is safe: its neighbours
// may hold mines, so the first reveal can open a number instead of a zero region.
func ValidateDimensions(width, height, mines int) error {
	if width < MinBoardSize || width > MaxBoardSize {
		return fmt.Errorf("%w: width must be between %d and %d, got %d", ErrInvalidConfig, MinBoardSize, MaxBoardSize, width)
	}
	if height < MinBoardSize || height > MaxBoardSize {
		return fmt.Errorf("%w: height must be between %d and %d, got %d", ErrInvalidConfig, MinBoardSize, MaxBoardSize, height)
	}
	if mines < 0 {
		return fmt.Errorf("%w: mines must not be negative, got %d", ErrInvalidConfig, mines)
	}
	if mines >= width*height {
		return fmt.Errorf("%w: mines must be less than width*height (%d), got %d", ErrInvalidConfig, width*height, mines)
	}
	return nil
}

// ValidateGameConfig validates a preset for correctness and playability
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("%w: config cannot be nil", ErrInvalidConfig)
	}
	if config.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidConfig)
	}
	if config.Description == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidConfig)
	}
	return ValidateDimensions(config.Width, config.Height, config.Mines)
}

// DecodeGameConfig parses a preset encoded as JSON or YAML, selected by file extension
func DecodeGameConfig(data []byte, ext string) (*GameConfig, error) {
	var config GameConfig
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse yaml config: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse json config: %w", err)
		}
	}
	return &config, nil
}

// LoadGameConfig loads and validates a preset from a JSON or YAML file
func LoadGameConfig(filename string) (*GameConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	config, err := DecodeGameConfig(data, filepath.Ext(filename))
	if err != nil {
		return nil, err
	}

	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// DefaultConfig returns the classic beginner board
func DefaultConfig() *GameConfig {
	return &GameConfig{
		Name:        "beginner",
		Description: "Classic 9x9 board with 10 mines",
		Width:       9,
		Height:      9,
		Mines:       10,
	}
}

// InitGameState creates a fresh board: every cell hidden, unflagged and mine-free
func InitGameState(width, height, mines int) *GameState {
	board := make([][]Cell, height)
	for y := 0; y < height; y++ {
		board[y] = make([]Cell, width)
		for x := 0; x < width; x++ {
			board[y][x] = Cell{X: x, Y: y}
		}
	}

	return &GameState{
		Width:          width,
		Height:         height,
		Mines:          mines,
		Board:          board,
		Status:         StatusPlay,
		ActionHistory:  []ActionHistoryEntry{},
		CurrentActions: []ActionHistoryEntry{},
	}
}
