// Package config loads and caches Minesweeper difficulty presets.
//
// Presets live in the configs directory as JSON (.json) or YAML (.yaml, .yml) files.
// Each one names a board:
//
//	name: Expert
//	description: 30x16 board with 99 mines
//	width: 30
//	height: 16
//	mines: 99
//	seed: 42        # optional, replays the same layout on every reset
//
// The preset identifier is the file name without its extension. "beginner" is the
// default; when it is missing the first valid preset is used, and an empty directory
// falls back to the built-in 9x9 board with 10 mines.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	expert, err := manager.LoadConfig("expert")
//	presets, err := manager.ListConfigs()
package config
