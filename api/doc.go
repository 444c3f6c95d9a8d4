// Package api provides the HTTP REST API for Minesweeper sessions.
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create a session from a preset or a custom board
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N&status=play)
//   - GET /api/sessions/unified - Several sessions at once (?sessionIds=a,b or ?configName=expert)
//   - GET /api/sessions/{id} - Get a session
//   - DELETE /api/sessions/{id} - Delete a session
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Masked board view
//   - POST /api/sessions/{id}/reveal - Reveal a cell, body {"x":3,"y":4}
//   - POST /api/sessions/{id}/flag - Toggle a flag, body {"x":3,"y":4}
//   - POST /api/sessions/{id}/chord - Expand around a satisfied number, body {"x":3,"y":4}
//   - POST /api/sessions/{id}/batch - Several actions, body {"actions":[...],"reset":false}
//   - POST /api/sessions/{id}/reset - New game, optional body {"width":..,"height":..,"mines":..}
//   - GET /api/sessions/{id}/history - Action history (?page=1&limit=20&order=desc&current=true)
//
// Configuration:
//   - GET /api/configs - List difficulty presets
//   - POST /api/configs - Save a preset
//   - GET /api/configs/{name} - Get a preset
//
// Other:
//   - GET /health - Liveness probe
//   - GET /ws?session={id} - WebSocket board updates
//
// Errors are returned as {"error": "..."} with 404 for unknown sessions or
// presets, 400 for out-of-bounds coordinates, invalid boards and unknown
// actions, and 500 otherwise. Every mutating call broadcasts the new board to
// the session's WebSocket clients.
package api
