// Package cache provides an incremental export cache backed by SQLite, so
// re-running an export over a vault that hasn't changed can skip
// re-parsing and rewriting notes whose own content and destination are
// identical to the last successful run. The content of notes a note
// embeds is not part of the cache key: a change to an embedded note alone
// does not make the embedding note stale.
package cache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"

	_ "modernc.org/sqlite"
)

// Cache records, per source file, the content hash that was last
// successfully exported from it.
type Cache struct {
	db *sql.DB
}

// Open opens (creating if necessary) the cache database at path.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open export cache: %w", err)
	}

	const schema = `
CREATE TABLE IF NOT EXISTS export_cache (
	source_path TEXT PRIMARY KEY,
	content_hash TEXT NOT NULL,
	dest_path TEXT NOT NULL
);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init export cache schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the underlying database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}

// HashContent returns the cache key for a file's raw content.
func HashContent(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Fresh reports whether sourcePath's content (identified by contentHash)
// was already exported to destPath in a prior run, meaning this run can
// skip re-processing it.
func (c *Cache) Fresh(ctx context.Context, sourcePath, contentHash, destPath string) (bool, error) {
	var existingHash, existingDest string
	err := c.db.QueryRowContext(ctx,
		`SELECT content_hash, dest_path FROM export_cache WHERE source_path = ?`, sourcePath,
	).Scan(&existingHash, &existingDest)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query export cache: %w", err)
	}
	return existingHash == contentHash && existingDest == destPath, nil
}

// Record stores sourcePath's content hash and destination for future
// freshness checks.
func (c *Cache) Record(ctx context.Context, sourcePath, contentHash, destPath string) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO export_cache (source_path, content_hash, dest_path) VALUES (?, ?, ?)
		 ON CONFLICT(source_path) DO UPDATE SET content_hash = excluded.content_hash, dest_path = excluded.dest_path`,
		sourcePath, contentHash, destPath,
	)
	if err != nil {
		return fmt.Errorf("record export cache entry: %w", err)
	}
	return nil
}
