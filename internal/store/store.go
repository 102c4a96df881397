// 包 store: 点阵数据集在 PostgreSQL 中的版本化存储
package store

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"dotmap/internal/dataset"
	"dotmap/internal/logger"
)

var ErrNotFound = errors.New("store: dataset not found")

// Store: 数据库访问入口
type Store struct {
	db *sql.DB
}

func AttachDB(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) DB() *sql.DB { return s.db }

// Version: 一次保存的元数据（不含 payload）
type Version struct {
	ID           int64
	Name         string
	Cols         int
	Rows         int
	Resolution   string
	DotCount     int
	CountryCount int
	CreatedAt    time.Time
	Active       bool
}

// 文档注释：保存新版本
// 背景：每次生成都写入新行，旧版本保留以便回滚；同名的其它版本在同一事务内置为非活动。
// 约束：保存前校验数据集；任一步失败整体回滚。
func (s *Store) Save(ctx context.Context, name string, ds dataset.Dataset) (int64, error) {
	if err := ds.Validate(); err != nil {
		return 0, err
	}
	payload, err := ds.MarshalCompact()
	if err != nil {
		return 0, fmt.Errorf("store: encode: %w", err)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("store: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.ExecContext(ctx, `UPDATE _dotmap_datasets SET active=FALSE WHERE name=$1 AND active`, name); err != nil {
		return 0, fmt.Errorf("store: deactivate: %w", err)
	}
	var id int64
	err = tx.QueryRowContext(ctx, `INSERT INTO _dotmap_datasets(name, cols, rows, resolution, dot_count, country_count, payload, active)
        VALUES($1,$2,$3,$4,$5,$6,$7,TRUE) RETURNING id`,
		name, ds.Cols, ds.Rows, ds.Spec().String(), len(ds.Dots), len(ds.Countries()), string(payload),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("store: insert: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("store: commit: %w", err)
	}
	logger.L().Info("dataset_saved", "name", name, "id", id, "dots", len(ds.Dots), "kb", len(payload)/1024)
	return id, nil
}

// Latest: 读取同名的活动版本；不存在时返回 ErrNotFound
func (s *Store) Latest(ctx context.Context, name string) (dataset.Dataset, int64, error) {
	var (
		id      int64
		payload []byte
	)
	err := s.db.QueryRowContext(ctx, `SELECT id, payload FROM _dotmap_datasets WHERE name=$1 AND active ORDER BY id DESC LIMIT 1`, name).Scan(&id, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return dataset.Dataset{}, 0, ErrNotFound
	}
	if err != nil {
		return dataset.Dataset{}, 0, fmt.Errorf("store: latest %s: %w", name, err)
	}
	ds, err := dataset.Decode(bytes.NewReader(payload))
	if err != nil {
		return dataset.Dataset{}, 0, fmt.Errorf("store: decode %s#%d: %w", name, id, err)
	}
	logger.L().Debug("dataset_loaded", "name", name, "id", id)
	return ds, id, nil
}

// Versions: 同名的全部版本，新的在前
func (s *Store) Versions(ctx context.Context, name string) ([]Version, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, cols, rows, resolution, dot_count, country_count, created_at, active
        FROM _dotmap_datasets WHERE name=$1 ORDER BY id DESC`, name)
	if err != nil {
		return nil, fmt.Errorf("store: versions %s: %w", name, err)
	}
	defer rows.Close()
	var out []Version
	for rows.Next() {
		var v Version
		if err := rows.Scan(&v.ID, &v.Name, &v.Cols, &v.Rows, &v.Resolution, &v.DotCount, &v.CountryCount, &v.CreatedAt, &v.Active); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// 文档注释：回滚到指定版本
// 背景：新生成的数据集有问题时，把旧版本重新设为活动，无需重跑生成。
// 约束：版本不存在或不属于该名称时返回 ErrNotFound，不改动任何行。
func (s *Store) Activate(ctx context.Context, name string, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	var found int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM _dotmap_datasets WHERE name=$1 AND id=$2`, name, id).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("store: activate lookup: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE _dotmap_datasets SET active=(id=$2) WHERE name=$1`, name, id); err != nil {
		return fmt.Errorf("store: activate: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	logger.L().Info("dataset_activated", "name", name, "id", id)
	return nil
}

// 文档注释：保留窗口
// 背景：每次生成都会新增一行，长期运行后按名称只保留最近 keep 个版本。
// 约束：活动版本永不删除；keep<=0 时不做任何事。
func (s *Store) Prune(ctx context.Context, name string, keep int) (int64, error) {
	if keep <= 0 {
		return 0, nil
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM _dotmap_datasets
        WHERE name=$1 AND NOT active
          AND id NOT IN (SELECT id FROM _dotmap_datasets WHERE name=$1 ORDER BY id DESC LIMIT $2)`, name, keep)
	if err != nil {
		return 0, fmt.Errorf("store: prune %s: %w", name, err)
	}
	n, _ := res.RowsAffected()
	logger.L().Info("dataset_pruned", "name", name, "keep", keep, "deleted", n)
	return n, nil
}
