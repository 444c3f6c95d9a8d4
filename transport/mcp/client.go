package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cast"
	"github.com/wricardo/mcp-training/minesweeper/game/engine"
	"github.com/wricardo/mcp-training/minesweeper/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Minesweeper",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Minesweeper - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Reveal every cell that is not a mine. Revealing a mine loses the game.

AVAILABLE TOOLS:
- create_session: Create a new game from a preset or a custom board
- list_sessions / get_session: Inspect sessions
- game_state: Current board (# hidden, F flag, . empty, 1-8 counts)
- reveal: Open one cell (the first reveal is always safe)
- flag: Toggle a flag on a hidden cell
- chord: On a revealed number whose flags match, open the other neighbours
- batch_actions: Several reveal/flag/chord actions in one call
- reset_game: Start over, optionally on a new board size
- action_history: Past actions
- list_configs: Difficulty presets
- game_instructions: Rules and solving tips
- describe_cell: Neighbourhood of one cell

Coordinates are 0-based: x is the column, y is the row.
NOTE: The 'intent' parameter on action tools serves as rubber duck debugging - explain your reasoning!`),
	)

	c.registerTools()
}

func sessionProp() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

func coordProps(verb string) map[string]interface{} {
	return map[string]interface{}{
		"session_id": sessionProp(),
		"x": map[string]interface{}{
			"type":        "integer",
			"description": fmt.Sprintf("Column of the cell to %s (0-based)", verb),
		},
		"y": map[string]interface{}{
			"type":        "integer",
			"description": fmt.Sprintf("Row of the cell to %s (0-based)", verb),
		},
		"intent": map[string]interface{}{
			"type":        "string",
			"description": "Brief explanation of why this cell (serves as a rubber duck to help explain your reasoning)",
		},
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session from a preset, or a custom board when width, height and mines are given",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_name": map[string]interface{}{
					"type":        "string",
					"description": "Preset to use, e.g. beginner, intermediate, expert (optional)",
				},
				"width": map[string]interface{}{
					"type":        "integer",
					"description": "Custom board width",
				},
				"height": map[string]interface{}{
					"type":        "integer",
					"description": "Custom board height",
				},
				"mines": map[string]interface{}{
					"type":        "integer",
					"description": "Custom mine count",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProp()},
			Required:   []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current board as the player sees it",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProp()},
			Required:   []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reveal",
		Description: "Reveal a cell. Empty cells open their neighbours automatically.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: coordProps("reveal"),
			Required:   []string{"session_id", "x", "y"},
		},
	}, c.handleAction(engine.ActionReveal))

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "flag",
		Description: "Toggle a flag on a hidden cell",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: coordProps("flag"),
			Required:   []string{"session_id", "x", "y"},
		},
	}, c.handleAction(engine.ActionFlag))

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "chord",
		Description: "On a revealed number whose adjacent flags equal the number, reveal the remaining neighbours. Also flags neighbours that must be mines.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: coordProps("chord"),
			Required:   []string{"session_id", "x", "y"},
		},
	}, c.handleAction(engine.ActionChord))

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "batch_actions",
		Description: fmt.Sprintf("Execute up to %d actions in sequence. Stops at the first rejected action or when the game ends.", engine.MaxBulkActions),
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
				"actions": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"action": map[string]interface{}{
								"type": "string",
								"enum": []string{"reveal", "flag", "chord"},
							},
							"x": map[string]interface{}{"type": "integer"},
							"y": map[string]interface{}{"type": "integer"},
						},
						"required": []string{"action", "x", "y"},
					},
					"description": "Actions to apply in order",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this sequence (serves as a rubber duck to help explain your reasoning)",
				},
				"reset": map[string]interface{}{
					"type":        "boolean",
					"description": "Reset before applying the actions",
				},
			},
			Required: []string{"session_id", "actions"},
		},
	}, c.handleBatch)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Start a new game in the session, optionally on a different board size",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
				"width":      map[string]interface{}{"type": "integer", "description": "New board width (optional)"},
				"height":     map[string]interface{}{"type": "integer", "description": "New board height (optional)"},
				"mines":      map[string]interface{}{"type": "integer", "description": "New mine count (optional)"},
			},
			Required: []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "action_history",
		Description: "Get action history for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
				"current_game": map[string]interface{}{
					"type":        "boolean",
					"description": "Only actions since the last reset",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleActionHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available difficulty presets",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the rules of Minesweeper and solving tips",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "Describe one cell and its neighbours: hidden and flagged counts, and whether a chord or flag is certain",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
				"x": map[string]interface{}{
					"type":        "integer",
					"description": "Column of the cell to describe (0-based)",
				},
				"y": map[string]interface{}{
					"type":        "integer",
					"description": "Row of the cell to describe (0-based)",
				},
			},
			Required: []string{"session_id", "x", "y"},
		},
	}, c.handleDescribeCell)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// intArg reads an integer argument. JSON numbers arrive as float64.
func intArg(args map[string]interface{}, key string) (int, bool, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return 0, false, nil
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return 0, true, fmt.Errorf("%s must be an integer: %v", key, err)
	}
	return n, true, nil
}

func requireCoords(args map[string]interface{}) (int, int, error) {
	x, okX, err := intArg(args, "x")
	if err != nil {
		return 0, 0, err
	}
	y, okY, err := intArg(args, "y")
	if err != nil {
		return 0, 0, err
	}
	if !okX || !okY {
		return 0, 0, fmt.Errorf("x and y are required")
	}
	return x, y, nil
}

// boardArgs returns custom board options when any of width, height or mines is set
func boardArgs(args map[string]interface{}) (*service.BoardOptions, error) {
	var board service.BoardOptions
	var set bool
	for key, dst := range map[string]*int{"width": &board.Width, "height": &board.Height, "mines": &board.Mines} {
		n, ok, err := intArg(args, key)
		if err != nil {
			return nil, err
		}
		if ok {
			*dst = n
			set = true
		}
	}
	if !set {
		return nil, nil
	}
	return &board, nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	configName := cast.ToString(args["config_name"])

	board, err := boardArgs(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	body := map[string]interface{}{}
	if configName != "" {
		body["config_id"] = configName
	}
	if board != nil {
		body["width"] = board.Width
		body["height"] = board.Height
		body["mines"] = board.Mines
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                    `json:"count"`
		Sessions []*service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionList(response.Sessions)), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := cast.ToString(request.GetArguments()["session_id"])

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := cast.ToString(request.GetArguments()["session_id"])

	var view engine.BoardView
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &view); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatView(&view)), nil
}

// handleAction proxies reveal, flag and chord
func (c *Client) handleAction(action engine.ActionType) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		sessionID := cast.ToString(args["session_id"])

		x, y, err := requireCoords(args)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var result service.ActionResult
		body := map[string]int{"x": x, "y": y}
		if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/"+string(action)), body, &result); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText(formatActionResult(&result)), nil
	}
}

func (c *Client) handleBatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID := cast.ToString(args["session_id"])
	reset := cast.ToBool(args["reset"])

	raw, _ := args["actions"].([]interface{})
	actions := make([]service.Action, 0, len(raw))
	for i, item := range raw {
		fields, ok := item.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("action %d must be an object with action, x and y", i+1)), nil
		}
		x, y, err := requireCoords(fields)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("action %d: %v", i+1, err)), nil
		}
		actions = append(actions, service.Action{
			Action: engine.ActionType(cast.ToString(fields["action"])),
			X:      x,
			Y:      y,
		})
	}

	body := map[string]interface{}{
		"actions": actions,
		"reset":   reset,
	}

	var result service.BatchResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/batch"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBatchResult(sessionID, &result)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID := cast.ToString(args["session_id"])

	board, err := boardArgs(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var response struct {
		Message string            `json:"message"`
		View    *engine.BoardView `json:"view"`
	}

	var body interface{}
	if board != nil {
		body = board
	}
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/reset"), body, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("%s\n\n%s", response.Message, formatView(response.View))), nil
}

func (c *Client) handleActionHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID := cast.ToString(args["session_id"])

	params := url.Values{}
	if page, ok, _ := intArg(args, "page"); ok {
		params.Set("page", fmt.Sprint(page))
	}
	if limit, ok, _ := intArg(args, "limit"); ok {
		params.Set("limit", fmt.Sprint(limit))
	}
	if cast.ToBool(args["current_game"]) {
		params.Set("current", "true")
	}

	path := sessionPath(sessionID, "/history")
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []*service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatConfigs(configs)), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(instructions), nil
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID := cast.ToString(args["session_id"])

	x, y, err := requireCoords(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var view engine.BoardView
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &view); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if x < 0 || y < 0 || x >= view.Width || y >= view.Height {
		return mcp.NewToolResultError(fmt.Sprintf("Coordinates (%d, %d) are out of bounds. Board is %dx%d (x 0-%d, y 0-%d)",
			x, y, view.Width, view.Height, view.Width-1, view.Height-1)), nil
	}

	return mcp.NewToolResultText(describeCell(&view, x, y)), nil
}
