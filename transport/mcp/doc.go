// Package mcp exposes Minesweeper to AI agents over the Model Context Protocol.
//
// Client is a thin proxy: every tool call becomes a REST request against the
// api package and the JSON reply is rendered as plain text for the agent.
//
// MCP Tools:
//   - create_session: New game from a preset or a custom width/height/mines
//   - list_sessions, get_session: Inspect sessions
//   - game_state: Board summary and grid with axis labels
//   - reveal, flag, chord: Single-cell actions taking x, y
//   - batch_actions: Up to 50 actions in one call
//   - reset_game: New board, optionally resized
//   - action_history: Paginated history, optionally for the current game only
//   - list_configs: Difficulty presets
//   - game_instructions: Rules and solving tips
//   - describe_cell: Neighbour counts and chord/flag hints for one cell
//
// Transport Modes:
//
// The server returned by GetMCPServer is served over stdio by the stdio-mcp
// command, or through the /mcp HTTP endpoint of the server command.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	if err := server.ServeStdio(client.GetMCPServer()); err != nil {
//		log.Fatal(err)
//	}
package mcp
