// Package postgres implements the KV driver on PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"

	// Import the PostgreSQL driver.
	_ "github.com/lib/pq"

	"github.com/hrygo/ideasense/internal/profile"
	"github.com/hrygo/ideasense/store"
)

type Driver struct {
	db *sql.DB
}

// NewDriver opens a PostgreSQL connection pool for the profile DSN.
func NewDriver(p *profile.Profile) (store.Driver, error) {
	if p.DSN == "" {
		return nil, errors.New("dsn required")
	}
	db, err := sql.Open("postgres", p.DSN)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open postgres db")
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	return &Driver{db: db}, nil
}

func (d *Driver) Migrate(ctx context.Context) error {
	_, err := d.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value BYTEA NOT NULL,
			updated_ts BIGINT NOT NULL
		)`)
	return errors.Wrap(err, "failed to create kv table")
}

func (d *Driver) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := d.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = $1", key).Scan(&value)
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
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_ts = EXCLUDED.updated_ts`,
		key, value, time.Now().Unix())
	return errors.Wrapf(err, "failed to set key %s", key)
}

func (d *Driver) Delete(ctx context.Context, key string) error {
	_, err := d.db.ExecContext(ctx, "DELETE FROM kv WHERE key = $1", key)
	return errors.Wrapf(err, "failed to delete key %s", key)
}

func (d *Driver) Close() error {
	return d.db.Close()
}
