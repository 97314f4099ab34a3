package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	// Counter updates run in transactions; one connection keeps SQLite from reporting busy.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err = store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS usage_counters (
        key TEXT PRIMARY KEY,
        count INTEGER NOT NULL DEFAULT 0,
        window_start DATETIME NOT NULL
    );

    CREATE TABLE IF NOT EXISTS generations (
        id TEXT PRIMARY KEY, -- UUID
        type TEXT NOT NULL,
        context TEXT NOT NULL CHECK (context IN ('builder', 'public')),
        subject TEXT NOT NULL,
        params_json TEXT,
        content_json TEXT NOT NULL,
        model TEXT,
        tokens_used INTEGER DEFAULT 0,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );

    CREATE INDEX IF NOT EXISTS idx_generations_subject ON generations (subject, created_at);
    `
	_, err := s.db.Exec(schema)
	return err
}

// Usage methods

// GetUsage returns the counter stored under key, or nil when there is none.
func (s *SQLiteStore) GetUsage(key string) (*UsageCounter, error) {
	var c UsageCounter
	err := s.db.QueryRow("SELECT key, count, window_start FROM usage_counters WHERE key = ?", key).Scan(&c.Key, &c.Count, &c.WindowStart)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to query usage: %w", err)
	}
	return &c, nil
}

// IncrementUsage adds one to the counter under key. A missing counter, or one whose window
// started at least window before now, restarts at one with the window starting now.
func (s *SQLiteStore) IncrementUsage(key string, window time.Duration, now time.Time) (*UsageCounter, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var c UsageCounter
	err = tx.QueryRow("SELECT key, count, window_start FROM usage_counters WHERE key = ?", key).Scan(&c.Key, &c.Count, &c.WindowStart)
	switch {
	case err == sql.ErrNoRows || (err == nil && !now.Before(c.WindowStart.Add(window))):
		c = UsageCounter{Key: key, Count: 1, WindowStart: now}
	case err != nil:
		return nil, fmt.Errorf("failed to query usage: %w", err)
	default:
		c.Count++
	}

	_, err = tx.Exec(`INSERT INTO usage_counters (key, count, window_start) VALUES (?, ?, ?)
        ON CONFLICT(key) DO UPDATE SET count = excluded.count, window_start = excluded.window_start`,
		c.Key, c.Count, c.WindowStart)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert usage: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit usage: %w", err)
	}
	return &c, nil
}

func (s *SQLiteStore) ResetUsage(key string) error {
	if _, err := s.db.Exec("DELETE FROM usage_counters WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to reset usage: %w", err)
	}
	return nil
}

// Generation methods

func (s *SQLiteStore) CreateGeneration(genType, context, subject string, params map[string]any, content any, model string, tokensUsed int) (*Generation, error) {
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal params: %w", err)
	}
	contentJSON, err := json.Marshal(content)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal content: %w", err)
	}

	stmt, err := s.db.Prepare("INSERT INTO generations (id, type, context, subject, params_json, content_json, model, tokens_used, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare generation insert: %w", err)
	}
	defer stmt.Close()

	gen := &Generation{
		ID:         uuid.NewString(),
		Type:       genType,
		Context:    context,
		Subject:    subject,
		ParamsJSON: string(paramsJSON),
		Content:    string(contentJSON),
		Model:      model,
		TokensUsed: tokensUsed,
		CreatedAt:  time.Now(),
	}
	_, err = stmt.Exec(gen.ID, gen.Type, gen.Context, gen.Subject, gen.ParamsJSON, gen.Content, gen.Model, gen.TokensUsed, gen.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to execute generation insert: %w", err)
	}
	return gen, nil
}

// GetGenerationsBySubject returns the latest generations for subject, newest first.
func (s *SQLiteStore) GetGenerationsBySubject(subject string, limit int) ([]Generation, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query("SELECT id, type, context, subject, params_json, content_json, model, tokens_used, created_at FROM generations WHERE subject = ? ORDER BY created_at DESC LIMIT ?", subject, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query generations: %w", err)
	}
	defer rows.Close()

	var gens []Generation
	for rows.Next() {
		var g Generation
		var params, model sql.NullString
		if err := rows.Scan(&g.ID, &g.Type, &g.Context, &g.Subject, &params, &g.Content, &model, &g.TokensUsed, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan generation: %w", err)
		}
		g.ParamsJSON = params.String
		g.Model = model.String
		gens = append(gens, g)
	}
	return gens, rows.Err()
}
