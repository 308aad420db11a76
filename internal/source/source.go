package source

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
)

// ErrMissingName is returned when the database name is absent from the
// environment. The name is the one parameter with no usable default.
var ErrMissingName = errors.New("source: LOGVEIL_DB_NAME is not set")

// Config holds connection parameters for the tabular data source.
type Config struct {
	Driver   string
	Host     string
	User     string
	Password string
	Name     string
}

// FromEnv reads connection parameters from LOGVEIL_DB_* variables. Missing
// name is fatal here, at construction, never deferred to the first query.
func FromEnv() (Config, error) {
	cfg := Config{
		Driver:   envOr("LOGVEIL_DB_DRIVER", "mysql"),
		Host:     envOr("LOGVEIL_DB_HOST", "localhost"),
		User:     envOr("LOGVEIL_DB_USER", "root"),
		Password: os.Getenv("LOGVEIL_DB_PASSWORD"),
		Name:     os.Getenv("LOGVEIL_DB_NAME"),
	}
	if cfg.Name == "" {
		return Config{}, ErrMissingName
	}
	return cfg, nil
}

// DSN renders the driver-specific connection string. For sqlite the Name is
// the DSN verbatim (a file path or :memory:).
func (c Config) DSN() string {
	switch c.Driver {
	case "sqlite":
		return c.Name
	default:
		return fmt.Sprintf("%s:%s@tcp(%s)/%s", c.User, c.Password, c.Host, c.Name)
	}
}

// Open connects and pings. The caller owns Close.
func (c Config) Open(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open(c.Driver, c.DSN())
	if err != nil {
		return nil, fmt.Errorf("source: open %s: %w", c.Driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("source: ping %s: %w", c.Host, err)
	}
	return db, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
