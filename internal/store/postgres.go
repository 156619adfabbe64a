package store

import (
	"database/sql"
	"fmt"
	"strconv"

	"location-hierarchy/internal/migrate"
	"location-hierarchy/internal/utils"
)

// Postgres：BIGSERIAL 主键，ID 以十进制文本对外暴露
type Postgres struct {
	sqlStore
}

// OpenPostgresFromEnv：按 PG_* 环境变量连接并初始化表结构
func OpenPostgresFromEnv() (*Postgres, error) {
	db, err := utils.OpenPostgresFromEnv()
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	s, err := NewPostgres(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func NewPostgres(db *sql.DB) (*Postgres, error) {
	if err := migrate.EnsureSchema(db); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &Postgres{sqlStore{db: db, d: dialect{
		name:   "postgres",
		dollar: true,
		insert: `INSERT INTO terms (namespace, name, slug, parent_id, level) VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (namespace, slug) DO NOTHING`,
		validID: func(id string) bool {
			n, err := strconv.ParseInt(id, 10, 64)
			return err == nil && n > 0
		},
	}}}, nil
}
