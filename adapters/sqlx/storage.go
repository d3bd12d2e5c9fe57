package sqlx

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	// database drivers
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"lifesystem/core"
)

// Driver names a supported SQL backend.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverMySQL    Driver = "mysql"
	DriverSQLite   Driver = "sqlite"
)

// Config holds SQL connection configuration
type Config struct {
	Driver          Driver        `json:"driver" yaml:"driver" env:"LIFESYSTEM_SQL_DRIVER"`
	DSN             string        `json:"dsn,omitempty" yaml:"dsn" env:"LIFESYSTEM_SQL_DSN"`
	MaxOpenConns    int           `json:"max_open_conns" yaml:"max_open_conns" env:"LIFESYSTEM_SQL_MAX_OPEN_CONNS"`
	MaxIdleConns    int           `json:"max_idle_conns" yaml:"max_idle_conns" env:"LIFESYSTEM_SQL_MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime" yaml:"conn_max_lifetime" env:"LIFESYSTEM_SQL_CONN_MAX_LIFETIME"`
	AutoMigrate     bool          `json:"auto_migrate" yaml:"auto_migrate" env:"LIFESYSTEM_SQL_AUTO_MIGRATE"`
}

// DefaultConfig returns defaults for driver.
func DefaultConfig(driver Driver) Config {
	cfg := Config{
		Driver:          driver,
		MaxOpenConns:    4,
		MaxIdleConns:    2,
		ConnMaxLifetime: 30 * time.Minute,
		AutoMigrate:     true,
	}
	switch driver {
	case DriverPostgres:
		cfg.DSN = "postgres://localhost:5432/lifesystem?sslmode=disable"
	case DriverMySQL:
		cfg.DSN = "root@tcp(localhost:3306)/lifesystem?parseTime=true"
	case DriverSQLite:
		cfg.DSN = "./data/lifesystem.db"
		cfg.MaxOpenConns = 1
	}
	return cfg
}

// Validate checks the driver and DSN.
func (c Config) Validate() error {
	switch c.Driver {
	case DriverPostgres, DriverMySQL, DriverSQLite:
	default:
		return fmt.Errorf("driver must be one of: postgres, mysql, sqlite")
	}
	if c.DSN == "" {
		return errors.New("dsn cannot be empty")
	}
	return nil
}

// Store implements engine.Storage with one row per slot in player_state.
type Store struct {
	db     *sqlx.DB
	driver Driver
	slot   string
}

// New opens a connection pool, verifies it and optionally creates the table.
func New(cfg Config, slot string) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	db, err := sqlx.Open(string(cfg.Driver), cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", cfg.Driver, err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Driver, err)
	}

	s := NewWithDB(db, cfg.Driver, slot)
	if cfg.AutoMigrate {
		if err := s.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return s, nil
}

// NewWithDB wraps an existing handle (useful for testing)
func NewWithDB(db *sqlx.DB, driver Driver, slot string) *Store {
	return &Store{db: db, driver: driver, slot: slot}
}

func (s *Store) Close() error { return s.db.Close() }

// Migrate creates the player_state table if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	var ddl string
	switch s.driver {
	case DriverPostgres:
		ddl = `CREATE TABLE IF NOT EXISTS player_state (
	slot VARCHAR(191) PRIMARY KEY,
	data TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
)`
	case DriverMySQL:
		ddl = `CREATE TABLE IF NOT EXISTS player_state (
	slot VARCHAR(191) PRIMARY KEY,
	data LONGTEXT NOT NULL,
	updated_at DATETIME(6) NOT NULL
)`
	default:
		ddl = `CREATE TABLE IF NOT EXISTS player_state (
	slot TEXT PRIMARY KEY,
	data TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
)`
	}
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("failed to migrate player_state: %w", err)
	}
	return nil
}

func (s *Store) Load(ctx context.Context) ([]byte, error) {
	var data string
	query := s.db.Rebind(`SELECT data FROM player_state WHERE slot = ?`)
	err := s.db.GetContext(ctx, &data, query, s.slot)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}
	return []byte(data), nil
}

func (s *Store) upsertQuery() string {
	switch s.driver {
	case DriverMySQL:
		return `INSERT INTO player_state (slot, data, updated_at) VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE data = VALUES(data), updated_at = VALUES(updated_at)`
	default:
		return s.db.Rebind(`INSERT INTO player_state (slot, data, updated_at) VALUES (?, ?, ?)
ON CONFLICT (slot) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`)
	}
}

func (s *Store) Save(ctx context.Context, data []byte) error {
	if _, err := s.db.ExecContext(ctx, s.upsertQuery(), s.slot, string(data), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}
