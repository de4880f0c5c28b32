// Package profile holds the runtime configuration of the server.
package profile

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Profile is the configuration used to start the server.
type Profile struct {
	// Mode can be "prod", "dev" or "demo".
	Mode string
	// Addr is the binding address of the server.
	Addr string
	// Port is the binding port of the server.
	Port int
	// Data is the directory for local state (sqlite database file).
	Data string
	// Driver selects the KV backend: "sqlite", "postgres" or "memory".
	Driver string
	// DSN is the driver-specific data source name.
	DSN string
	// Version is the current service version.
	Version string
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// getEnvOrDefault returns the environment variable value or a default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// FromEnv overlays environment variables onto the profile. Only fields the
// environment actually sets are replaced, so flag values survive.
func (p *Profile) FromEnv() {
	p.Mode = getEnvOrDefault("IDEASENSE_MODE", p.Mode)
	p.Addr = getEnvOrDefault("IDEASENSE_ADDR", p.Addr)
	p.Port = getEnvOrDefaultInt("IDEASENSE_PORT", p.Port)
	p.Data = getEnvOrDefault("IDEASENSE_DATA", p.Data)
	p.Driver = getEnvOrDefault("IDEASENSE_DRIVER", p.Driver)
	p.DSN = getEnvOrDefault("IDEASENSE_DSN", p.DSN)
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if a relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}
	// Trim trailing \ or / in case the user supplies one.
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

// Validate normalizes the profile and rejects unusable combinations.
func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	switch p.Driver {
	case "sqlite":
		if p.Data == "" {
			p.Data = "."
		}
		dataDir, err := checkDataDir(p.Data)
		if err != nil {
			return err
		}
		p.Data = dataDir
		if p.DSN == "" {
			p.DSN = filepath.Join(dataDir, "ideasense_"+p.Mode+".db")
		}
	case "postgres":
		if p.DSN == "" {
			return errors.New("dsn required for postgres driver")
		}
	case "memory":
		// Nothing to validate; state lives and dies with the process.
	default:
		return errors.Errorf("unsupported driver %q", p.Driver)
	}

	if p.Port <= 0 || p.Port > 65535 {
		return errors.Errorf("invalid port %d", p.Port)
	}
	return nil
}
