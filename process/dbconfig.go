package process

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-adodb"
	_ "modernc.org/sqlite"

	"github.com/kanat1390/network-actualizer/config"
)

const sqliteDriver = "sqlite"

// DriverAndSource resolves the database/sql driver name and data source for
// cfg. "sqlite" opens db_name as a SQLite file; any other sql_driver is an
// ODBC driver reached through the OLE DB provider for ODBC.
func DriverAndSource(cfg config.Config) (string, string) {
	if strings.EqualFold(strings.TrimSpace(cfg.SQLDriver), sqliteDriver) {
		return sqliteDriver, cfg.DBName
	}

	connStr := fmt.Sprintf(
		"Provider=MSDASQL;Driver={%s};Server=%s;Database=%s;Trusted_Connection=yes;Uid=%s;Pwd=%s;",
		cfg.SQLDriver, cfg.DBServerIP, cfg.DBName, cfg.DBUserName, cfg.DBPassword,
	)
	return "adodb", connStr
}

// Connect opens and pings the planning database.
func Connect(cfg config.Config) (*sqlx.DB, error) {
	driver, source := DriverAndSource(cfg)

	db, err := sqlx.Connect(driver, source)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database %s: %w", driver, cfg.DBName, err)
	}
	return db, nil
}
