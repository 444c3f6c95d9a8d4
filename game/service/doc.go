// Package service provides the business logic layer for Minesweeper sessions.
//
// GameService is the main interface used by the REST, WebSocket and MCP
// transports. It resolves a session, applies the player action to that
// session's engine and returns a masked engine.BoardView together with the
// events the action produced (reveal, cascade, flag, unflag, auto_flag, won,
// lost, reset).
//
// SessionManager and ConfigManager are the storage seams; the session and
// config packages implement them.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	info, err := gameService.CreateSession(ctx, "expert", nil)
//	result, err := gameService.Reveal(ctx, info.ID, 15, 8)
package service
