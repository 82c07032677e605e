package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"CardSight/internal/domain/models"
)

// SQLitePriceCache persists price snapshots keyed by identity hash.
// Entries expire after the configured TTL and are purged lazily.
type SQLitePriceCache struct {
	db  *sql.DB
	ttl time.Duration
	mu  sync.Mutex
}

func NewSQLitePriceCache(path string, ttl time.Duration) (*SQLitePriceCache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open price cache: %w", err)
	}

	const schema = `
CREATE TABLE IF NOT EXISTS price_cache (
	key        TEXT PRIMARY KEY,
	snapshot   TEXT NOT NULL,
	created_at INTEGER NOT NULL
);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init price cache schema: %w", err)
	}

	return &SQLitePriceCache{db: db, ttl: ttl}, nil
}

func (c *SQLitePriceCache) Get(ctx context.Context, key string) (*models.PriceSnapshot, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var raw string
	var createdAt int64
	err := c.db.QueryRowContext(ctx,
		`SELECT snapshot, created_at FROM price_cache WHERE key = ?`, key,
	).Scan(&raw, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read price cache: %w", err)
	}

	if time.Since(time.Unix(createdAt, 0)) >= c.ttl {
		_, _ = c.db.ExecContext(ctx, `DELETE FROM price_cache WHERE key = ?`, key)
		return nil, false, nil
	}

	var snap models.PriceSnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, false, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, true, nil
}

func (c *SQLitePriceCache) Set(ctx context.Context, key string, snap *models.PriceSnapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	_, err = c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO price_cache (key, snapshot, created_at) VALUES (?, ?, ?)`,
		key, string(raw), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("write price cache: %w", err)
	}
	return nil
}

// PurgeExpired deletes every entry older than the TTL.
func (c *SQLitePriceCache) PurgeExpired(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := time.Now().Add(-c.ttl).Unix()
	_, err := c.db.ExecContext(ctx, `DELETE FROM price_cache WHERE created_at < ?`, cutoff)
	if err != nil {
		return fmt.Errorf("purge price cache: %w", err)
	}
	return nil
}

func (c *SQLitePriceCache) Close() error {
	return c.db.Close()
}
