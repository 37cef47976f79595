// Package database manages the connection to the pattern store database.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "modernc.org/sqlite"             // SQLite driver

	"github.com/witcherai/savescan/internal/config"
)

// Supported store drivers.
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// ErrUnsupportedDriver is returned for a store driver other than mysql or sqlite.
var ErrUnsupportedDriver = errors.New("unsupported store driver")

// OpenFunc opens a database handle. It matches sql.Open.
type OpenFunc func(driver, dsn string) (*sql.DB, error)

// Manager owns the store connection.
type Manager struct {
	DB     *sql.DB
	config *config.StoreConfig

	open       OpenFunc
	maxRetries int
	backoff    time.Duration
}

// NewManager creates a new database manager from store configuration.
func NewManager(cfg *config.StoreConfig) *Manager {
	return &Manager{
		config:     cfg,
		open:       sql.Open,
		maxRetries: 3,
		backoff:    time.Second,
	}
}

// Driver returns the configured driver name.
func (m *Manager) Driver() string {
	if m.config == nil {
		return ""
	}
	return m.config.Driver
}

// Connect opens and verifies the store connection.
func (m *Manager) Connect(ctx context.Context) error {
	if m.config == nil {
		return errors.New("store configuration is missing")
	}

	dsn, err := DSN(m.config)
	if err != nil {
		return err
	}

	m.DB, err = m.connectWithRetry(ctx, dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to %s store: %w", m.config.Driver, err)
	}
	return nil
}

// connectWithRetry attempts to connect with exponential backoff.
func (m *Manager) connectWithRetry(ctx context.Context, dsn string) (*sql.DB, error) {
	var err error
	backoff := m.backoff

	for i := 0; i < m.maxRetries; i++ {
		var db *sql.DB
		db, err = m.connect(dsn)
		if err == nil {
			pingErr := db.PingContext(ctx)
			if pingErr == nil {
				return db, nil
			}
			db.Close()
			err = pingErr
		}

		if i < m.maxRetries-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
				backoff *= 2
			}
		}
	}

	return nil, fmt.Errorf("failed after %d retries: %w", m.maxRetries, err)
}

func (m *Manager) connect(dsn string) (*sql.DB, error) {
	db, err := m.open(m.config.Driver, dsn)
	if err != nil {
		return nil, err
	}

	if m.config.MaxConnections > 0 {
		db.SetMaxOpenConns(m.config.MaxConnections)
	}
	if m.config.MaxIdleConnections > 0 {
		db.SetMaxIdleConns(m.config.MaxIdleConnections)
	}
	db.SetConnMaxLifetime(10 * time.Minute)

	return db, nil
}

// DSN builds the data source name for the configured driver.
func DSN(cfg *config.StoreConfig) (string, error) {
	switch cfg.Driver {
	case DriverMySQL:
		return BuildDSN(cfg), nil
	case DriverSQLite:
		return BuildSQLiteDSN(cfg.Path), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedDriver, cfg.Driver)
	}
}

// BuildDSN constructs a MySQL DSN from configuration.
func BuildDSN(cfg *config.StoreConfig) string {
	// Format: user:password@tcp(host:port)/database?params
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
	)

	if cfg.Database != "" {
		dsn += cfg.Database
	}

	params := "?parseTime=true"
	switch cfg.TLS {
	case "disable":
		params += "&tls=false"
	case "required":
		params += "&tls=true"
	case "preferred", "":
		params += "&tls=preferred"
	}

	return dsn + params
}

// BuildSQLiteDSN constructs a modernc SQLite DSN for a database file.
func BuildSQLiteDSN(path string) string {
	return filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

// Close closes the store connection.
func (m *Manager) Close() error {
	if m.DB == nil {
		return nil
	}
	if err := m.DB.Close(); err != nil {
		return fmt.Errorf("store close: %w", err)
	}
	m.DB = nil
	return nil
}

// Ping verifies the connection is alive.
func (m *Manager) Ping(ctx context.Context) error {
	if m.DB == nil {
		return errors.New("store is not connected")
	}
	if err := m.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("store ping failed: %w", err)
	}
	return nil
}
