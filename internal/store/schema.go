package store

import (
	"context"
	"database/sql"

	"dotmap/internal/logger"
)

var schemaStmts = []string{
	`CREATE TABLE IF NOT EXISTS _dotmap_datasets (
            id SERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            cols INT NOT NULL,
            rows INT NOT NULL,
            resolution TEXT NOT NULL,
            dot_count INT NOT NULL,
            country_count INT NOT NULL,
            payload JSONB NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
            active BOOLEAN NOT NULL DEFAULT TRUE
        )`,
	`CREATE INDEX IF NOT EXISTS idx_dotmap_datasets_name_active ON _dotmap_datasets(name, active, id DESC)`,
}

// 背景：首次运行自动建表，生成任务与查询服务都会调用
// 约束：只用 IF NOT EXISTS，可重复执行
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for i, s := range schemaStmts {
		logger.L().Debug("schema_exec", "idx", i)
		if _, err := db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	logger.L().Debug("schema_done")
	return nil
}
