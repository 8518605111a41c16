// Package dialect opens sqlw engines for the database/sql drivers sqlw ships
// with and maps their errors to numeric codes.
//
//	db, err := dialect.Open(ctx, dialect.Config{Driver: dialect.SQLite, DSN: ":memory:"})
//	if err != nil { ... }
//	defer db.DB().Close()
//	c := sqlw.NewCursor(db)
package dialect

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-mizu/sqlw"
)

// Supported driver names.
const (
	SQLite = "sqlite"
	DuckDB = "duckdb"
	MySQL  = "mysql"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvDriver = "SQLW_DRIVER"
	EnvDSN    = "SQLW_DSN"
)

var (
	// ErrUnknownDriver is returned for a driver name Open does not know.
	ErrUnknownDriver = errors.New("dialect: unknown driver")
	// ErrMissingDSN is returned when a driver that needs a DSN has none.
	ErrMissingDSN = errors.New("dialect: missing DSN")
)

// Config selects and configures an engine.
type Config struct {
	Driver string // sqlite, duckdb or mysql
	DSN    string // driver specific; empty means in-memory for sqlite and duckdb

	// MaxOpenConns caps the pool; zero keeps the driver default. In-memory
	// SQLite always uses a single connection so every statement sees the
	// same database.
	MaxOpenConns int
}

// ConfigFromEnv builds a Config from SQLW_DRIVER and SQLW_DSN. The driver
// defaults to sqlite.
func ConfigFromEnv() Config {
	cfg := Config{
		Driver: os.Getenv(EnvDriver),
		DSN:    os.Getenv(EnvDSN),
	}
	if cfg.Driver == "" {
		cfg.Driver = SQLite
	}
	return cfg
}

// Validate reports whether cfg can be opened.
func (c Config) Validate() error {
	switch strings.ToLower(c.Driver) {
	case SQLite, DuckDB:
	case MySQL:
		if c.DSN == "" {
			return fmt.Errorf("%w for %s", ErrMissingDSN, MySQL)
		}
	default:
		return fmt.Errorf("%w %q (want %s, %s or %s)", ErrUnknownDriver, c.Driver, SQLite, DuckDB, MySQL)
	}
	if c.MaxOpenConns < 0 {
		return fmt.Errorf("dialect: MaxOpenConns must not be negative, got %d", c.MaxOpenConns)
	}
	return nil
}

// Open connects to the database cfg describes, verifies the connection and
// returns it as a sqlw.Database whose LastErrno uses the driver's own error
// codes. opts are applied after the errno mapping and may override it.
//
// The caller owns the pool and closes it with Database.DB().Close().
func Open(ctx context.Context, cfg Config, opts ...sqlw.DatabaseOption) (*sqlw.Database, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var (
		db  *sql.DB
		err error
	)
	switch strings.ToLower(cfg.Driver) {
	case SQLite:
		db, err = openSQLite(cfg)
	case DuckDB:
		db, err = openDuckDB(cfg)
	case MySQL:
		db, err = openMySQL(cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("dialect: open %s: %w", cfg.Driver, err)
	}
	if cfg.MaxOpenConns > 0 && !isSQLiteMemory(cfg) {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("dialect: ping %s: %w", cfg.Driver, err)
	}
	all := append([]sqlw.DatabaseOption{sqlw.WithErrno(Errno)}, opts...)
	return sqlw.NewDatabase(db, all...), nil
}

// Errno maps err to the driver's numeric error code: the SQLite result
// code, the DuckDB error type or the MySQL error number. Errors that carry
// no code map to 1, and nil to 0.
func Errno(err error) int {
	if err == nil {
		return 0
	}
	for _, classify := range []func(error) (int, bool){sqliteErrno, duckdbErrno, mysqlErrno} {
		if code, ok := classify(err); ok && code != 0 {
			return code
		}
	}
	return 1
}
