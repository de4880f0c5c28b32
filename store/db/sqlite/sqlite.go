// Package sqlite implements the KV driver on a local SQLite file.
// Intended for single-user, single-instance deployments; concurrent
// writers from multiple processes are not supported.
package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"

	// Import the SQLite driver.
	_ "modernc.org/sqlite"

	"github.com/hrygo/ideasense/internal/profile"
	"github.com/hrygo/ideasense/store"
)

type Driver struct {
	db *sql.DB
}

// NewDriver opens the SQLite database named by the profile DSN.
func NewDriver(p *profile.Profile) (store.Driver, error) {
	if p.DSN == "" {
		return nil, errors.New("dsn required")
	}

	// WAL journal mode with a generous busy timeout; the modernc driver
	// takes pragmas as `_pragma=` query parameters.
	db, err := sql.Open("sqlite", p.DSN+"?_pragma=foreign_keys(0)&_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open db with dsn: %s", p.DSN)
	}

	// A single connection is optimal for SQLite with WAL; the file is
	// local so there is no lifetime management to do.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	return &Driver{db: db}, nil
}

func (d *Driver) Migrate(ctx context.Context) error {
	_, err := d.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value BLOB NOT NULL,
			updated_ts BIGINT NOT NULL
		)`)
	return errors.Wrap(err, "failed to create kv table")
}

func (d *Driver) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := d.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "failed to get key %s", key)
	}
	return value, true, nil
}

func (d *Driver) Set(ctx context.Context, key string, value []byte) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_ts)
		VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET
			value = excluded.value,
			updated_ts = excluded.updated_ts`,
		key, value, time.Now().Unix())
	return errors.Wrapf(err, "failed to set key %s", key)
}

func (d *Driver) Delete(ctx context.Context, key string) error {
	_, err := d.db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key)
	return errors.Wrapf(err, "failed to delete key %s", key)
}

func (d *Driver) Close() error {
	return d.db.Close()
}
