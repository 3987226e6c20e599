// Package sqlstore is the durable embedding tier on SQLite or PostgreSQL.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/davidbz/quill/internal/domain"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS cache_entries (
	fingerprint TEXT PRIMARY KEY,
	model       TEXT NOT NULL,
	vector      BLOB NOT NULL,
	dimension   INTEGER NOT NULL,
	created_at  INTEGER NOT NULL,
	expires_at  INTEGER
);
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS cache_entries (
	fingerprint TEXT PRIMARY KEY,
	model       TEXT NOT NULL,
	vector      BYTEA NOT NULL,
	dimension   INTEGER NOT NULL,
	created_at  BIGINT NOT NULL,
	expires_at  BIGINT
);
`

const upsertQuery = `
INSERT INTO cache_entries (fingerprint, model, vector, dimension, created_at, expires_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (fingerprint) DO UPDATE SET
	model = excluded.model,
	vector = excluded.vector,
	dimension = excluded.dimension,
	created_at = excluded.created_at,
	expires_at = excluded.expires_at
WHERE cache_entries.vector <> excluded.vector`

const selectQuery = `
SELECT model, vector, dimension, created_at, expires_at
FROM cache_entries
WHERE fingerprint = ?`

const purgeQuery = `DELETE FROM cache_entries WHERE expires_at IS NOT NULL AND expires_at <= ?`

// Store keeps cache entries in a single table keyed by fingerprint.
type Store struct {
	db     *sql.DB
	driver string
	now    func() time.Time
}

// Open connects to the database and creates the table if needed.
func Open(ctx context.Context, config Config) (*Store, error) {
	var schema string
	switch config.Driver {
	case DriverSQLite:
		schema = sqliteSchema
	case DriverPostgres, "postgres":
		config.Driver = DriverPostgres
		schema = postgresSchema
	default:
		return nil, fmt.Errorf("unsupported store driver %q", config.Driver)
	}

	db, err := sql.Open(config.Driver, strings.TrimSpace(config.DSN))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping store: %w", err)
	}

	if config.Driver == DriverSQLite {
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("pragma: %w", err)
		}
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate store: %w", err)
	}

	return &Store{db: db, driver: config.Driver, now: time.Now}, nil
}

// SetClock replaces the time source used for expiry.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the entry for fingerprint, or domain.ErrCacheMiss when absent or expired.
func (s *Store) Get(ctx context.Context, fingerprint string) (*domain.CacheEntry, error) {
	var (
		model     string
		blob      []byte
		dimension int
		createdAt int64
		expiresAt sql.NullInt64
	)

	err := s.db.QueryRowContext(ctx, s.rebind(selectQuery), fingerprint).
		Scan(&model, &blob, &dimension, &createdAt, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("query entry: %w", err)
	}

	vector, err := domain.DecodeVector(blob)
	if err != nil {
		return nil, fmt.Errorf("decode entry %s: %w", fingerprint, err)
	}

	entry := &domain.CacheEntry{
		Fingerprint: fingerprint,
		Model:       model,
		Vector:      vector,
		Dimension:   dimension,
		SourceTier:  domain.TierPersistent,
		CreatedAt:   time.UnixMilli(createdAt),
		ExpiresAt:   nil,
	}
	if expiresAt.Valid {
		expires := time.UnixMilli(expiresAt.Int64)
		entry.ExpiresAt = &expires
	}

	if entry.Expired(s.now()) {
		return nil, domain.ErrCacheMiss
	}
	return entry, nil
}

// Put upserts entry. Writing the same vector again leaves the row untouched.
func (s *Store) Put(ctx context.Context, entry *domain.CacheEntry) error {
	if entry == nil || entry.Fingerprint == "" {
		return errors.New("entry must have a fingerprint")
	}

	var expiresAt sql.NullInt64
	if entry.ExpiresAt != nil {
		expiresAt = sql.NullInt64{Int64: entry.ExpiresAt.UnixMilli(), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, s.rebind(upsertQuery),
		entry.Fingerprint,
		entry.Model,
		domain.EncodeVector(entry.Vector),
		entry.Dimension,
		entry.CreatedAt.UnixMilli(),
		expiresAt,
	)
	if err != nil {
		return fmt.Errorf("upsert entry: %w", err)
	}
	return nil
}

// PurgeExpired deletes expired rows and reports how many were removed.
func (s *Store) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, s.rebind(purgeQuery), s.now().UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("purge expired: %w", err)
	}
	return res.RowsAffected()
}

// rebind turns ? placeholders into $n for PostgreSQL.
func (s *Store) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
