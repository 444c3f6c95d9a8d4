// Package engine provides the rule engine for the minesweeper game.
//
// The engine package implements the game mechanics including:
//   - Board creation and configuration validation
//   - Deferred mine placement that keeps the first reveal safe
//   - Adjacency counting and flood-fill reveal of empty regions
//   - Flagging and chording (auto-expand) of numbered cells
//   - Win and loss detection
//
// Core Types:
//
// The Engine interface defines the main contract for game operations,
// implemented by GameEngine. GameState is the serializable game state,
// GameConfig a board preset, and BoardView the masked state shown to players.
//
// Usage:
//
//	gameEngine, err := engine.NewEngine(engine.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	outcome, err := gameEngine.Reveal(4, 4)
//	if err != nil {
//		log.Fatal(err)
//	}
//	view := engine.NewBoardView(gameEngine.GetState(), time.Now())
//
// Game Rules:
//
// Mines are placed on the first reveal, outside the 3x3 square around the
// revealed cell. Revealing a mine loses the game. Revealing a cell with no
// adjacent mines opens its whole empty region. The game is won once every
// cell is revealed or flagged and every flag sits on a mine; a wrong flag on
// a fully resolved board loses it.
//
// Observation:
//
// GameEngine is not safe for concurrent use. Listeners registered with
// Subscribe are called synchronously after every operation.
package engine
