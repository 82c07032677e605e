package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"CardSight/internal/domain/models"
)

// SQLiteSessionLog stores the most recent result bundles per session,
// pruning oldest entries past the cap.
type SQLiteSessionLog struct {
	db  *sql.DB
	cap int
	mu  sync.Mutex
}

func NewSQLiteSessionLog(path string, maxEntries int) (*SQLiteSessionLog, error) {
	if maxEntries <= 0 {
		maxEntries = 50
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open session log: %w", err)
	}

	const schema = `
CREATE TABLE IF NOT EXISTS session_log (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL,
	bundle     TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_session_log_session ON session_log(session_id, id);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init session log schema: %w", err)
	}

	return &SQLiteSessionLog{db: db, cap: maxEntries}, nil
}

func (l *SQLiteSessionLog) Append(ctx context.Context, sessionID string, b *models.ResultBundle) error {
	raw, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("encode bundle: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO session_log (session_id, bundle, created_at) VALUES (?, ?, ?)`,
		sessionID, string(raw), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("append session log: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
DELETE FROM session_log WHERE session_id = ? AND id NOT IN (
	SELECT id FROM session_log WHERE session_id = ? ORDER BY id DESC LIMIT ?
)`, sessionID, sessionID, l.cap)
	if err != nil {
		return fmt.Errorf("prune session log: %w", err)
	}

	return tx.Commit()
}

// History returns the capped entries for a session, newest first.
func (l *SQLiteSessionLog) History(ctx context.Context, sessionID string) ([]*models.ResultBundle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rows, err := l.db.QueryContext(ctx,
		`SELECT bundle FROM session_log WHERE session_id = ? ORDER BY id DESC LIMIT ?`,
		sessionID, l.cap,
	)
	if err != nil {
		return nil, fmt.Errorf("read session log: %w", err)
	}
	defer rows.Close()

	var bundles []*models.ResultBundle
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan session log: %w", err)
		}
		var b models.ResultBundle
		if err := json.Unmarshal([]byte(raw), &b); err != nil {
			return nil, fmt.Errorf("decode bundle: %w", err)
		}
		bundles = append(bundles, &b)
	}
	return bundles, rows.Err()
}

func (l *SQLiteSessionLog) Close() error {
	return l.db.Close()
}
