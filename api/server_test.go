package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/wricardo/mcp-training/minesweeper/game/engine"
	"github.com/wricardo/mcp-training/minesweeper/game/service"
	"github.com/wricardo/mcp-training/minesweeper/transport/websocket"
)

// MockGameService implements service.GameService for testing
type MockGameService struct {
	// Session Management
	CreateSessionFunc func(ctx context.Context, configName string, board *service.BoardOptions) (*service.SessionInfo, error)
	GetSessionFunc    func(ctx context.Context, sessionID string) (*service.SessionInfo, error)
	ListSessionsFunc  func(ctx context.Context) ([]*service.SessionInfo, error)
	DeleteSessionFunc func(ctx context.Context, sessionID string) error

	// Game Operations
	ActionFunc func(ctx context.Context, sessionID string, action engine.ActionType, x, y int) (*service.ActionResult, error)
	BatchFunc  func(ctx context.Context, sessionID string, actions []service.Action, reset bool) (*service.BatchResult, error)
	ResetFunc  func(ctx context.Context, sessionID string, board *service.BoardOptions) (*engine.BoardView, error)

	// Game State
	GetGameStateFunc     func(ctx context.Context, sessionID string) (*engine.BoardView, error)
	GetActionHistoryFunc func(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error)

	// Configuration
	ListConfigsFunc func(ctx context.Context) ([]*service.ConfigInfo, error)
	LoadConfigFunc  func(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfigFunc  func(ctx context.Context, configName string, config *engine.GameConfig) error
}

// Session Management
func (m *MockGameService) CreateSession(ctx context.Context, configName string, board *service.BoardOptions) (*service.SessionInfo, error) {
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(ctx, configName, board)
	}
	return &service.SessionInfo{
		ID:         "test-session",
		ConfigName: configName,
		CreatedAt:  time.Now(),
	}, nil
}

func (m *MockGameService) GetSession(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(ctx, sessionID)
	}
	return &service.SessionInfo{
		ID:         sessionID,
		ConfigName: "test-config",
		CreatedAt:  time.Now(),
	}, nil
}

func (m *MockGameService) ListSessions(ctx context.Context) ([]*service.SessionInfo, error) {
	if m.ListSessionsFunc != nil {
		return m.ListSessionsFunc(ctx)
	}
	return []*service.SessionInfo{}, nil
}

func (m *MockGameService) DeleteSession(ctx context.Context, sessionID string) error {
	if m.DeleteSessionFunc != nil {
		return m.DeleteSessionFunc(ctx, sessionID)
	}
	return nil
}

// Game Operations
func (m *MockGameService) act(ctx context.Context, sessionID string, action engine.ActionType, x, y int) (*service.ActionResult, error) {
	if m.ActionFunc != nil {
		return m.ActionFunc(ctx, sessionID, action, x, y)
	}
	return &service.ActionResult{
		Success:  true,
		Action:   action,
		Position: engine.Position{X: x, Y: y},
		View:     &engine.BoardView{Status: engine.StatusPlay},
	}, nil
}

func (m *MockGameService) Reveal(ctx context.Context, sessionID string, x, y int) (*service.ActionResult, error) {
	return m.act(ctx, sessionID, engine.ActionReveal, x, y)
}

func (m *MockGameService) Flag(ctx context.Context, sessionID string, x, y int) (*service.ActionResult, error) {
	return m.act(ctx, sessionID, engine.ActionFlag, x, y)
}

func (m *MockGameService) Chord(ctx context.Context, sessionID string, x, y int) (*service.ActionResult, error) {
	return m.act(ctx, sessionID, engine.ActionChord, x, y)
}

func (m *MockGameService) Batch(ctx context.Context, sessionID string, actions []service.Action, reset bool) (*service.BatchResult, error) {
	if m.BatchFunc != nil {
		return m.BatchFunc(ctx, sessionID, actions, reset)
	}
	return &service.BatchResult{
		Success: true,
		View:    &engine.BoardView{},
	}, nil
}

func (m *MockGameService) Reset(ctx context.Context, sessionID string, board *service.BoardOptions) (*engine.BoardView, error) {
	if m.ResetFunc != nil {
		return m.ResetFunc(ctx, sessionID, board)
	}
	return &engine.BoardView{}, nil
}

// Game State
func (m *MockGameService) GetGameState(ctx context.Context, sessionID string) (*engine.BoardView, error) {
	if m.GetGameStateFunc != nil {
		return m.GetGameStateFunc(ctx, sessionID)
	}
	return &engine.BoardView{}, nil
}

func (m *MockGameService) GetActionHistory(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error) {
	if m.GetActionHistoryFunc != nil {
		return m.GetActionHistoryFunc(ctx, sessionID, opts)
	}
	return &service.HistoryResponse{
		Actions:      []engine.ActionHistoryEntry{},
		TotalActions: 0,
		Page:         opts.Page,
		PageSize:     opts.Limit,
		TotalPages:   1,
	}, nil
}

// Configuration
func (m *MockGameService) ListConfigs(ctx context.Context) ([]*service.ConfigInfo, error) {
	if m.ListConfigsFunc != nil {
		return m.ListConfigsFunc(ctx)
	}
	return []*service.ConfigInfo{}, nil
}

func (m *MockGameService) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	if m.LoadConfigFunc != nil {
		return m.LoadConfigFunc(ctx, configName)
	}
	return &engine.GameConfig{
		Name:        configName,
		Description: "Test config",
		Width:       9,
		Height:      9,
		Mines:       10,
	}, nil
}

func (m *MockGameService) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	if m.SaveConfigFunc != nil {
		return m.SaveConfigFunc(ctx, configName, config)
	}
	return nil
}

// Test helpers
func setupTestServer(t *testing.T, mockService *MockGameService) *Server {
	hub := websocket.NewHub()
	go hub.Run()
	t.Cleanup(hub.Stop)
	return NewServer(mockService, hub)
}

func makeRequest(method, path string, body interface{}) *http.Request {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), target); err != nil {
		t.Fatalf("Failed to parse response: %v (body %s)", err, w.Body.String())
	}
}

func serve(t *testing.T, m *MockGameService, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	server := setupTestServer(t, m)
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	return w
}

// Session Management Tests

func TestCreateSession(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    map[string]interface{}
		setupMock      func(*MockGameService)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:        "Create session with default config",
			requestBody: nil,
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, configName string, board *service.BoardOptions) (*service.SessionInfo, error) {
					if configName != "" || board != nil {
						t.Errorf("expected defaults, got %q %+v", configName, board)
					}
					return &service.SessionInfo{ID: "sess-123", ConfigName: "beginner", CreatedAt: time.Now()}, nil
				}
			},
			expectedStatus: http.StatusCreated,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.SessionInfo
				parseResponse(t, w, &resp)
				if resp.ID != "sess-123" {
					t.Errorf("Expected session ID sess-123, got %s", resp.ID)
				}
			},
		},
		{
			name:        "Create session with config_id",
			requestBody: map[string]interface{}{"config_id": "expert"},
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, configName string, board *service.BoardOptions) (*service.SessionInfo, error) {
					if configName != "expert" {
						t.Errorf("Expected config name 'expert', got %s", configName)
					}
					return &service.SessionInfo{ID: "sess-456", ConfigName: configName}, nil
				}
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:        "Deprecated config_name still accepted",
			requestBody: map[string]interface{}{"config_name": "intermediate"},
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, configName string, board *service.BoardOptions) (*service.SessionInfo, error) {
					if configName != "intermediate" {
						t.Errorf("Expected config name 'intermediate', got %s", configName)
					}
					return &service.SessionInfo{ID: "sess-789", ConfigName: configName}, nil
				}
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:        "Custom board",
			requestBody: map[string]interface{}{"width": 5, "height": 4, "mines": 3},
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, configName string, board *service.BoardOptions) (*service.SessionInfo, error) {
					if board == nil || *board != (service.BoardOptions{Width: 5, Height: 4, Mines: 3}) {
						t.Errorf("unexpected board %+v", board)
					}
					return &service.SessionInfo{ID: "cust", ConfigName: "custom"}, nil
				}
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:        "Unknown config",
			requestBody: map[string]interface{}{"config_id": "nope"},
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, configName string, board *service.BoardOptions) (*service.SessionInfo, error) {
					return nil, fmt.Errorf("%w: '%s'", service.ErrConfigNotFound, configName)
				}
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:        "Invalid board",
			requestBody: map[string]interface{}{"width": 2, "height": 2, "mines": 9},
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, configName string, board *service.BoardOptions) (*service.SessionInfo, error) {
					return nil, fmt.Errorf("%w: too many mines", engine.ErrInvalidConfig)
				}
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Handle service error",
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, configName string, board *service.BoardOptions) (*service.SessionInfo, error) {
					return nil, fmt.Errorf("service error")
				}
			},
			expectedStatus: http.StatusInternalServerError,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp map[string]string
				parseResponse(t, w, &resp)
				if resp["error"] != "service error" {
					t.Errorf("Expected error message 'service error', got %s", resp["error"])
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			var body interface{}
			if tt.requestBody != nil {
				body = tt.requestBody
			}
			w := serve(t, mockService, makeRequest("POST", "/api/sessions", body))

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d (%s)", tt.expectedStatus, w.Code, w.Body.String())
			}

			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

func TestCreateSessionBadBody(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/sessions", bytes.NewBufferString("{not json"))
	w := serve(t, &MockGameService{}, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestListSessions(t *testing.T) {
	now := time.Now()
	sessions := func() []*service.SessionInfo {
		return []*service.SessionInfo{
			{ID: "a", CreatedAt: now.Add(-3 * time.Hour), LastAccessedAt: now.Add(-1 * time.Hour), View: &engine.BoardView{Status: engine.StatusPlay}},
			{ID: "b", CreatedAt: now.Add(-2 * time.Hour), LastAccessedAt: now.Add(-3 * time.Hour), View: &engine.BoardView{Status: engine.StatusWon}},
			{ID: "c", CreatedAt: now.Add(-1 * time.Hour), LastAccessedAt: now.Add(-2 * time.Hour), View: &engine.BoardView{Status: engine.StatusPlay}},
		}
	}

	tests := []struct {
		name        string
		query       string
		expectedIDs []string
		total       int
	}{
		{"default sorts by access desc", "", []string{"a", "c", "b"}, 3},
		{"created asc", "?sort=created&order=asc", []string{"a", "b", "c"}, 3},
		{"limit", "?sort=created&limit=2", []string{"c", "b"}, 3},
		{"status filter", "?status=play", []string{"a", "c"}, 3},
		{"bad limit ignored", "?limit=zero", []string{"a", "c", "b"}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{
				ListSessionsFunc: func(ctx context.Context) ([]*service.SessionInfo, error) {
					return sessions(), nil
				},
			}

			w := serve(t, mockService, makeRequest("GET", "/api/sessions"+tt.query, nil))
			if w.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d", w.Code)
			}

			var resp struct {
				Count    int                    `json:"count"`
				Total    int                    `json:"total"`
				Sessions []*service.SessionInfo `json:"sessions"`
			}
			parseResponse(t, w, &resp)

			if resp.Total != tt.total {
				t.Errorf("Expected total %d, got %d", tt.total, resp.Total)
			}
			if resp.Count != len(tt.expectedIDs) {
				t.Fatalf("Expected count %d, got %d", len(tt.expectedIDs), resp.Count)
			}
			for i, id := range tt.expectedIDs {
				if resp.Sessions[i].ID != id {
					t.Errorf("position %d: expected %s, got %s", i, id, resp.Sessions[i].ID)
				}
			}
		})
	}
}

func TestGetAndDeleteSession(t *testing.T) {
	notFound := func(ctx context.Context, id string) (*service.SessionInfo, error) {
		return nil, fmt.Errorf("%w: %s", service.ErrSessionNotFound, id)
	}

	tests := []struct {
		name           string
		method         string
		mock           *MockGameService
		expectedStatus int
	}{
		{"get existing", "GET", &MockGameService{}, http.StatusOK},
		{"get missing", "GET", &MockGameService{GetSessionFunc: notFound}, http.StatusNotFound},
		{"delete existing", "DELETE", &MockGameService{}, http.StatusOK},
		{"delete missing", "DELETE", &MockGameService{
			DeleteSessionFunc: func(ctx context.Context, id string) error {
				return fmt.Errorf("%w: %s", service.ErrSessionNotFound, id)
			},
		}, http.StatusNotFound},
		{"delete failure", "DELETE", &MockGameService{
			DeleteSessionFunc: func(ctx context.Context, id string) error {
				return fmt.Errorf("disk full")
			},
		}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(t, tt.mock, makeRequest(tt.method, "/api/sessions/ab12", nil))
			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}

// Game Operation Tests

func TestCellActions(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		body           interface{}
		actionErr      error
		expectedAction engine.ActionType
		expectedStatus int
	}{
		{"reveal", "/api/sessions/ab12/reveal", map[string]int{"x": 3, "y": 4}, nil, engine.ActionReveal, http.StatusOK},
		{"flag", "/api/sessions/ab12/flag", map[string]int{"x": 0, "y": 0}, nil, engine.ActionFlag, http.StatusOK},
		{"chord", "/api/sessions/ab12/chord", map[string]int{"x": 1, "y": 2}, nil, engine.ActionChord, http.StatusOK},
		{"missing coordinates", "/api/sessions/ab12/reveal", map[string]int{"x": 1}, nil, "", http.StatusBadRequest},
		{"out of bounds", "/api/sessions/ab12/reveal", map[string]int{"x": 99, "y": 0}, fmt.Errorf("%w: (99,0)", engine.ErrOutOfBounds), engine.ActionReveal, http.StatusBadRequest},
		{"unknown session", "/api/sessions/zz99/flag", map[string]int{"x": 1, "y": 1}, service.ErrSessionNotFound, engine.ActionFlag, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var called engine.ActionType
			mockService := &MockGameService{
				ActionFunc: func(ctx context.Context, sessionID string, action engine.ActionType, x, y int) (*service.ActionResult, error) {
					called = action
					if tt.actionErr != nil {
						return nil, tt.actionErr
					}
					return &service.ActionResult{
						Success:  true,
						Action:   action,
						Position: engine.Position{X: x, Y: y},
						View:     &engine.BoardView{Status: engine.StatusPlay},
					}, nil
				},
			}

			w := serve(t, mockService, makeRequest("POST", tt.path, tt.body))

			if w.Code != tt.expectedStatus {
				t.Fatalf("Expected status %d, got %d (%s)", tt.expectedStatus, w.Code, w.Body.String())
			}
			if called != tt.expectedAction {
				t.Errorf("Expected action %q, got %q", tt.expectedAction, called)
			}
			if w.Code == http.StatusOK {
				var resp service.ActionResult
				parseResponse(t, w, &resp)
				if resp.Action != tt.expectedAction {
					t.Errorf("Expected response action %q, got %q", tt.expectedAction, resp.Action)
				}
			}
		})
	}
}

func TestBatch(t *testing.T) {
	t.Run("passes actions and reset", func(t *testing.T) {
		mockService := &MockGameService{
			BatchFunc: func(ctx context.Context, sessionID string, actions []service.Action, reset bool) (*service.BatchResult, error) {
				if !reset {
					t.Error("expected reset=true")
				}
				if len(actions) != 2 || actions[0].Action != engine.ActionReveal || actions[1].X != 2 {
					t.Errorf("unexpected actions %+v", actions)
				}
				return &service.BatchResult{
					RequestedActions: 2,
					ActionsExecuted:  2,
					Success:          true,
					View:             &engine.BoardView{Status: engine.StatusWon},
					GameOver:         true,
					StopReasonCode:   "won",
				}, nil
			},
		}

		body := map[string]interface{}{
			"reset": true,
			"actions": []map[string]interface{}{
				{"action": "reveal", "x": 0, "y": 0},
				{"action": "flag", "x": 2, "y": 2},
			},
		}
		w := serve(t, mockService, makeRequest("POST", "/api/sessions/ab12/batch", body))
		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}

		var resp service.BatchResult
		parseResponse(t, w, &resp)
		if resp.StopReasonCode != "won" || !resp.GameOver {
			t.Errorf("unexpected batch result %+v", resp)
		}
	})

	t.Run("invalid body", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/sessions/ab12/batch", bytes.NewBufferString("[]"))
		w := serve(t, &MockGameService{}, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})
}

func TestReset(t *testing.T) {
	tests := []struct {
		name          string
		body          interface{}
		expectedBoard *service.BoardOptions
	}{
		{"same board", nil, nil},
		{"new board", service.BoardOptions{Width: 8, Height: 8, Mines: 10}, &service.BoardOptions{Width: 8, Height: 8, Mines: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{
				ResetFunc: func(ctx context.Context, sessionID string, board *service.BoardOptions) (*engine.BoardView, error) {
					if (board == nil) != (tt.expectedBoard == nil) || (board != nil && *board != *tt.expectedBoard) {
						t.Errorf("Expected board %+v, got %+v", tt.expectedBoard, board)
					}
					return &engine.BoardView{Width: 8, Height: 8, Status: engine.StatusPlay}, nil
				},
			}

			w := serve(t, mockService, makeRequest("POST", "/api/sessions/ab12/reset", tt.body))
			if w.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d", w.Code)
			}

			var resp struct {
				Message string            `json:"message"`
				View    *engine.BoardView `json:"view"`
			}
			parseResponse(t, w, &resp)
			if resp.View == nil || resp.View.Status != engine.StatusPlay {
				t.Errorf("unexpected view %+v", resp.View)
			}
		})
	}
}

func TestGetHistory(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected service.HistoryOptions
	}{
		{"defaults", "", service.HistoryOptions{Page: 1, Limit: 20, Order: "desc"}},
		{"explicit", "?page=3&limit=5&order=asc&current=true", service.HistoryOptions{Page: 3, Limit: 5, Order: "asc", CurrentGame: true}},
		{"invalid values fall back", "?page=-1&limit=abc&order=sideways", service.HistoryOptions{Page: 1, Limit: 20, Order: "desc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got service.HistoryOptions
			mockService := &MockGameService{
				GetActionHistoryFunc: func(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error) {
					got = opts
					return &service.HistoryResponse{Actions: []engine.ActionHistoryEntry{}, Page: opts.Page, PageSize: opts.Limit, TotalPages: 1}, nil
				},
			}

			w := serve(t, mockService, makeRequest("GET", "/api/sessions/ab12/history"+tt.query, nil))
			if w.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d", w.Code)
			}
			if got != tt.expected {
				t.Errorf("Expected options %+v, got %+v", tt.expected, got)
			}
		})
	}
}

func TestGetGameState(t *testing.T) {
	mockService := &MockGameService{
		GetGameStateFunc: func(ctx context.Context, sessionID string) (*engine.BoardView, error) {
			if sessionID != "ab12" {
				return nil, service.ErrSessionNotFound
			}
			return &engine.BoardView{Width: 9, Height: 9, Mines: 10, RemainingMines: 10}, nil
		},
	}

	w := serve(t, mockService, makeRequest("GET", "/api/sessions/ab12/state", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var view engine.BoardView
	parseResponse(t, w, &view)
	if view.RemainingMines != 10 {
		t.Errorf("Expected remaining mines 10, got %d", view.RemainingMines)
	}

	w = serve(t, mockService, makeRequest("GET", "/api/sessions/nope/state", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

// Configuration Tests

func TestConfigs(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		mockService := &MockGameService{
			ListConfigsFunc: func(ctx context.Context) ([]*service.ConfigInfo, error) {
				return []*service.ConfigInfo{{ConfigID: "beginner", Width: 9, Height: 9, Mines: 10}}, nil
			},
		}
		w := serve(t, mockService, makeRequest("GET", "/api/configs", nil))
		var resp []*service.ConfigInfo
		parseResponse(t, w, &resp)
		if len(resp) != 1 || resp[0].ConfigID != "beginner" {
			t.Errorf("unexpected configs %+v", resp)
		}
	})

	t.Run("get", func(t *testing.T) {
		mockService := &MockGameService{
			LoadConfigFunc: func(ctx context.Context, name string) (*engine.GameConfig, error) {
				if name != "expert" {
					return nil, fmt.Errorf("%w: %s", service.ErrConfigNotFound, name)
				}
				return &engine.GameConfig{Name: "Expert", Width: 30, Height: 16, Mines: 99}, nil
			},
		}
		w := serve(t, mockService, makeRequest("GET", "/api/configs/expert", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}
		w = serve(t, mockService, makeRequest("GET", "/api/configs/missing", nil))
		if w.Code != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", w.Code)
		}
	})

	t.Run("create", func(t *testing.T) {
		var savedID string
		mockService := &MockGameService{
			SaveConfigFunc: func(ctx context.Context, name string, cfg *engine.GameConfig) error {
				savedID = name
				if cfg.Width != 10 || cfg.Mines != 12 {
					t.Errorf("unexpected config %+v", cfg)
				}
				return nil
			},
		}
		body := map[string]interface{}{"name": "Lunch Break", "width": 10, "height": 10, "mines": 12}
		w := serve(t, mockService, makeRequest("POST", "/api/configs", body))
		if w.Code != http.StatusCreated {
			t.Fatalf("Expected status 201, got %d", w.Code)
		}
		if savedID != "lunch_break" {
			t.Errorf("Expected config id lunch_break, got %s", savedID)
		}
	})

	t.Run("create without name", func(t *testing.T) {
		w := serve(t, &MockGameService{}, makeRequest("POST", "/api/configs", map[string]int{"width": 3}))
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})
}

func TestUnifiedSessions(t *testing.T) {
	all := []*service.SessionInfo{
		{ID: "a", ConfigName: "expert", View: &engine.BoardView{Status: engine.StatusPlay}},
		{ID: "b", ConfigName: "expert", View: &engine.BoardView{Status: engine.StatusLost}},
		{ID: "c", ConfigName: "beginner", View: &engine.BoardView{Status: engine.StatusWon}},
	}
	mockService := &MockGameService{
		ListSessionsFunc: func(ctx context.Context) ([]*service.SessionInfo, error) { return all, nil },
	}

	w := serve(t, mockService, makeRequest("GET", "/api/sessions/unified?configName=expert", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp struct {
		ConfigName string                   `json:"config_name"`
		Playing    int                      `json:"playing"`
		Lost       int                      `json:"lost"`
		Won        int                      `json:"won"`
		Sessions   []map[string]interface{} `json:"sessions"`
	}
	parseResponse(t, w, &resp)
	if resp.ConfigName != "expert" || len(resp.Sessions) != 2 {
		t.Errorf("unexpected response %+v", resp)
	}
	if resp.Playing != 1 || resp.Lost != 1 || resp.Won != 0 {
		t.Errorf("unexpected totals %+v", resp)
	}
}

func TestHealth(t *testing.T) {
	w := serve(t, &MockGameService{}, makeRequest("GET", "/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
}

func TestWebSocket(t *testing.T) {
	tests := []struct {
		name           string
		queryParams    string
		setupMock      func(*MockGameService)
		expectedStatus int
	}{
		{
			name:           "Missing session parameter",
			queryParams:    "",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "Invalid session",
			queryParams: "?session=invalid",
			setupMock: func(m *MockGameService) {
				m.GetSessionFunc = func(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
					return nil, service.ErrSessionNotFound
				}
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "Valid session",
			queryParams:    "?session=sess-123",
			expectedStatus: http.StatusSwitchingProtocols,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(t, mockService)
			w := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/ws"+tt.queryParams, nil)

			if tt.expectedStatus == http.StatusSwitchingProtocols {
				req.Header.Set("Upgrade", "websocket")
				req.Header.Set("Connection", "Upgrade")
				req.Header.Set("Sec-WebSocket-Key", "dGhlIHNhbXBsZSBub25jZQ==")
				req.Header.Set("Sec-WebSocket-Version", "13")
			}

			server.handleWebSocket(w, req)

			// httptest.ResponseRecorder does not implement http.Hijacker, so the
			// upgrade itself fails with 500 once it is attempted
			if tt.expectedStatus == http.StatusSwitchingProtocols && w.Code == http.StatusInternalServerError {
				return
			}

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}
