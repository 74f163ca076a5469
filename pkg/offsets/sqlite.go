package offsets

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	"github.com/rvno/roadline/pkg/errors"
	"github.com/rvno/roadline/pkg/geom"
)

// SQLiteStore keeps offsets in a table of an SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at path and
// migrates the offsets table.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	// modernc.org/sqlite registers itself as "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "open %s", path)
	}
	// One writer at a time; WAL lets readers proceed while the server writes.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, errors.Wrap(errors.ErrCodeStorage, err, "configure %s", path)
		}
	}
	if err := migrateSQLite(ctx, db); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "migrate %s", path)
	}
	return &SQLiteStore{db: db}, nil
}

func migrateSQLite(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS marker_offsets (
			key TEXT PRIMARY KEY,
			dx REAL NOT NULL,
			dy REAL NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (geom.Offset, error) {
	var o geom.Offset
	err := s.db.QueryRowContext(ctx,
		`SELECT dx, dy FROM marker_offsets WHERE key = ?`, key).Scan(&o.DX, &o.DY)
	if err == sql.ErrNoRows {
		return geom.Offset{}, nil
	}
	if err != nil {
		return geom.Offset{}, errors.Wrap(errors.ErrCodeStorage, err, "get offset %s", key)
	}
	return o, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key string, o geom.Offset) error {
	if err := errors.ValidateKey(key); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO marker_offsets(key, dx, dy, updated_at_unixms) VALUES(?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET dx = excluded.dx, dy = excluded.dy,
		 updated_at_unixms = excluded.updated_at_unixms`,
		key, o.DX, o.DY, time.Now().UTC().UnixMilli())
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "set offset %s", key)
	}
	return nil
}

func (s *SQLiteStore) All(ctx context.Context) (map[string]geom.Offset, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, dx, dy FROM marker_offsets`)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list offsets")
	}
	defer rows.Close()

	out := map[string]geom.Offset{}
	for rows.Next() {
		var (
			key string
			o   geom.Offset
		)
		if err := rows.Scan(&key, &o.DX, &o.DY); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStorage, err, "scan offset")
		}
		out[key] = o
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list offsets")
	}
	return out, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM marker_offsets WHERE key = ?`, key); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete offset %s", key)
	}
	return nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

var _ Store = (*SQLiteStore)(nil)
