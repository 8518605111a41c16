package dialect

import (
	"database/sql"
	"errors"
	"strings"

	"modernc.org/sqlite"
)

const sqliteMemory = ":memory:"

func openSQLite(cfg Config) (*sql.DB, error) {
	dsn := cfg.DSN
	if dsn == "" {
		dsn = sqliteMemory
	}
	db, err := sql.Open(SQLite, dsn)
	if err != nil {
		return nil, err
	}
	if isSQLiteMemory(cfg) {
		// Each connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	}
	return db, nil
}

func isSQLiteMemory(cfg Config) bool {
	if !strings.EqualFold(cfg.Driver, SQLite) {
		return false
	}
	return cfg.DSN == "" || cfg.DSN == sqliteMemory ||
		strings.HasPrefix(cfg.DSN, "file::memory:") ||
		strings.Contains(cfg.DSN, "mode=memory")
}

func sqliteErrno(err error) (int, bool) {
	var e *sqlite.Error
	if errors.As(err, &e) {
		return e.Code(), true
	}
	return 0, false
}
