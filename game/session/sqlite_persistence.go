package session

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/wricardo/mcp-training/minesweeper/game/service"
)

//go:embed schema.sql
var schemaSQL string

// SQLitePersistence implements SessionPersistence with a single SQLite table. Each row
// keeps the session JSON next to a few queryable columns.
type SQLitePersistence struct {
	db            *sql.DB
	configManager service.ConfigManager
}

// NewSQLitePersistence opens or creates the database at path. ":memory:" works for tests.
func NewSQLitePersistence(path string, configManager service.ConfigManager) (*SQLitePersistence, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite allows one writer; a single connection also keeps :memory: databases shared
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLitePersistence{db: db, configManager: configManager}, nil
}

// Close closes the database connection
func (sp *SQLitePersistence) Close() error {
	if sp.db == nil {
		return nil
	}
	return sp.db.Close()
}

// Save upserts a session row
func (sp *SQLitePersistence) Save(session *service.Session) error {
	if session == nil {
		return fmt.Errorf("session cannot be nil")
	}

	data := snapshot(session, configIDFromName(sp.configManager, session.Engine.GetConfig().Name))
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal session data: %w", err)
	}

	_, err = sp.db.Exec(`
		INSERT INTO sessions (id, config_name, status, created_at, last_accessed_at, data)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			config_name = excluded.config_name,
			status = excluded.status,
			last_accessed_at = excluded.last_accessed_at,
			data = excluded.data`,
		strings.ToLower(session.ID),
		data.ConfigName,
		string(data.GameState.Status),
		session.CreatedAt.UnixMilli(),
		session.LastAccessedAt.UnixMilli(),
		string(jsonData),
	)
	if err != nil {
		return fmt.Errorf("failed to save session %s: %w", session.ID, err)
	}
	return nil
}

// Load reads a session row and rebuilds the session
func (sp *SQLitePersistence) Load(id string) (*service.Session, error) {
	var raw string
	err := sp.db.QueryRow("SELECT data FROM sessions WHERE id = ?", strings.ToLower(id)).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session %s: %w", id, err)
	}

	var data PersistedSessionData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session data: %w", err)
	}

	return restore(&data, sp.configManager)
}

// Delete removes a session row
func (sp *SQLitePersistence) Delete(id string) error {
	result, err := sp.db.Exec("DELETE FROM sessions WHERE id = ?", strings.ToLower(id))
	if err != nil {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// ListAll returns all persisted session IDs, most recently used first
func (sp *SQLitePersistence) ListAll() ([]string, error) {
	rows, err := sp.db.Query("SELECT id FROM sessions ORDER BY last_accessed_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan session id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Exists checks if a session row exists
func (sp *SQLitePersistence) Exists(id string) bool {
	var one int
	err := sp.db.QueryRow("SELECT 1 FROM sessions WHERE id = ?", strings.ToLower(id)).Scan(&one)
	return err == nil
}

// CountByStatus reports how many stored sessions are in play, won or lost
func (sp *SQLitePersistence) CountByStatus() (map[string]int, error) {
	rows, err := sp.db.Query("SELECT status, COUNT(*) FROM sessions GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("failed to count sessions: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}
