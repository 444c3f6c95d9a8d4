package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/wricardo/mcp-training/minesweeper/game/engine"
	"github.com/wricardo/mcp-training/minesweeper/game/service"
)

// Client plays one session through the REST API
type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// CreateSession starts a game from a preset, or a custom board when board is set
func (c *Client) CreateSession(ctx context.Context, configName string, board *service.BoardOptions) (*engine.BoardView, error) {
	req := map[string]interface{}{}
	if configName != "" {
		req["config_id"] = configName
	}
	if board != nil {
		req["width"] = board.Width
		req["height"] = board.Height
		req["mines"] = board.Mines
	}

	var session service.SessionInfo
	if err := c.do(ctx, http.MethodPost, "/api/sessions", req, &session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	c.sessionID = session.ID
	return session.View, nil
}

// Resume attaches the client to an existing session
func (c *Client) Resume(ctx context.Context, sessionID string) (*engine.BoardView, error) {
	var session service.SessionInfo
	if err := c.do(ctx, http.MethodGet, "/api/sessions/"+url.PathEscape(sessionID), nil, &session); err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	c.sessionID = session.ID
	return session.View, nil
}

func (c *Client) State(ctx context.Context) (*engine.BoardView, error) {
	var view engine.BoardView
	if err := c.do(ctx, http.MethodGet, c.sessionPath("/state"), nil, &view); err != nil {
		return nil, fmt.Errorf("get state: %w", err)
	}
	return &view, nil
}

// Batch applies actions in order; the server stops early when the game ends
func (c *Client) Batch(ctx context.Context, actions []service.Action) (*service.BatchResult, error) {
	req := map[string]interface{}{"actions": actions}

	var result service.BatchResult
	if err := c.do(ctx, http.MethodPost, c.sessionPath("/batch"), req, &result); err != nil {
		return nil, fmt.Errorf("execute batch: %w", err)
	}
	return &result, nil
}

type resetResponse struct {
	Message string            `json:"message"`
	View    *engine.BoardView `json:"view"`
}

func (c *Client) Reset(ctx context.Context) (*engine.BoardView, error) {
	var resp resetResponse
	if err := c.do(ctx, http.MethodPost, c.sessionPath("/reset"), nil, &resp); err != nil {
		return nil, fmt.Errorf("reset: %w", err)
	}
	return resp.View, nil
}

func (c *Client) SessionID() string {
	return c.sessionID
}

func (c *Client) sessionPath(suffix string) string {
	return "/api/sessions/" + url.PathEscape(c.sessionID) + suffix
}

func (c *Client) do(ctx context.Context, method, path string, body, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		var errResp map[string]string
		if json.Unmarshal(data, &errResp) == nil && errResp["error"] != "" {
			return fmt.Errorf("%s - %s", resp.Status, errResp["error"])
		}
		return fmt.Errorf("%s - %s", resp.Status, string(data))
	}

	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}
