package store

import (
	"database/sql"

	"dotmap/internal/config"
	"dotmap/internal/logger"

	_ "github.com/lib/pq"
)

// OpenPostgres：按配置打开连接池；不做 Ping，由调用方决定是否必须可达
func OpenPostgres(pg config.Postgres) (*sql.DB, error) {
	db, err := sql.Open("postgres", pg.DSN())
	if err != nil {
		return nil, err
	}
	maxOpen, maxIdle := pg.MaxOpen, pg.MaxIdle
	if maxOpen <= 0 {
		maxOpen = 10
	}
	if maxIdle <= 0 {
		maxIdle = 5
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	logger.L().Debug("db_open", "host", pg.Host, "port", pg.Port, "db", pg.DB, "max_open", maxOpen)
	return db, nil
}
