package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"location-hierarchy/internal/migrate"
	"location-hierarchy/internal/utils"
)

// SQLite：文件库存储，节点 ID 为 UUID
type SQLite struct {
	sqlStore
}

// OpenSQLite：打开并初始化表结构
func OpenSQLite(path string) (*SQLite, error) {
	db, err := utils.OpenSQLite(path)
	if err != nil {
		return nil, err
	}
	s, err := NewSQLite(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func NewSQLite(db *sql.DB) (*SQLite, error) {
	if err := migrate.EnsureSQLiteSchema(db); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &SQLite{sqlStore{db: db, d: dialect{
		name:    "sqlite",
		insert:  `INSERT OR IGNORE INTO terms (id, namespace, name, slug, parent_id, level) VALUES (?, ?, ?, ?, ?, ?)`,
		newID:   func() string { return uuid.New().String() },
		validID: func(id string) bool { return id != "" },
	}}}, nil
}
