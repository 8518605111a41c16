package dialect

import (
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
)

func openMySQL(cfg Config) (*sql.DB, error) {
	mc, err := mysql.ParseDSN(cfg.DSN)
	if err != nil {
		return nil, err
	}
	// DATETIME columns come back as time.Time and print as RFC 3339.
	mc.ParseTime = true
	connector, err := mysql.NewConnector(mc)
	if err != nil {
		return nil, err
	}
	return sql.OpenDB(connector), nil
}

func mysqlErrno(err error) (int, bool) {
	var e *mysql.MySQLError
	if errors.As(err, &e) {
		return int(e.Number), true
	}
	return 0, false
}
