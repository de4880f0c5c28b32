// Package db selects the concrete KV driver for a profile.
package db

import (
	"github.com/pkg/errors"

	"github.com/hrygo/ideasense/internal/profile"
	"github.com/hrygo/ideasense/store"
	"github.com/hrygo/ideasense/store/db/memory"
	"github.com/hrygo/ideasense/store/db/postgres"
	"github.com/hrygo/ideasense/store/db/sqlite"
)

// NewDriver creates the KV driver named by the profile.
func NewDriver(p *profile.Profile) (store.Driver, error) {
	switch p.Driver {
	case "sqlite":
		return sqlite.NewDriver(p)
	case "postgres":
		return postgres.NewDriver(p)
	case "memory":
		return memory.NewDriver(), nil
	default:
		return nil, errors.Errorf("unknown db driver %q", p.Driver)
	}
}
