package dialect

import (
	"database/sql"
	"errors"

	"github.com/duckdb/duckdb-go/v2"
)

func openDuckDB(cfg Config) (*sql.DB, error) {
	connector, err := duckdb.NewConnector(cfg.DSN, nil)
	if err != nil {
		return nil, err
	}
	return sql.OpenDB(connector), nil
}

func duckdbErrno(err error) (int, bool) {
	var e *duckdb.Error
	if errors.As(err, &e) {
		return int(e.Type), true
	}
	return 0, false
}
