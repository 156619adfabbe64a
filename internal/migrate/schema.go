// 包 migrate：首次运行时创建分类表与关联表
package migrate

import (
	"database/sql"
	"fmt"

	"location-hierarchy/internal/logger"
)

// 约束：使用 IF NOT EXISTS，可重复执行；(namespace, slug) 唯一约束承担并发“不存在才创建”
var postgresStmts = []string{
	`CREATE TABLE IF NOT EXISTS terms (
		id BIGSERIAL PRIMARY KEY,
		namespace TEXT NOT NULL,
		name TEXT NOT NULL,
		slug TEXT NOT NULL,
		parent_id BIGINT REFERENCES terms(id) ON DELETE SET NULL,
		level INT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uniq_terms_ns_slug ON terms(namespace, slug)`,
	`CREATE INDEX IF NOT EXISTS idx_terms_ns_parent ON terms(namespace, parent_id)`,
	`CREATE TABLE IF NOT EXISTS term_assoc (
		owner_id TEXT NOT NULL,
		namespace TEXT NOT NULL,
		term_id BIGINT NOT NULL REFERENCES terms(id) ON DELETE CASCADE,
		position INT NOT NULL,
		PRIMARY KEY (owner_id, namespace, term_id)
	)`,
}

var sqliteStmts = []string{
	`CREATE TABLE IF NOT EXISTS terms (
		id TEXT PRIMARY KEY,
		namespace TEXT NOT NULL,
		name TEXT NOT NULL,
		slug TEXT NOT NULL,
		parent_id TEXT REFERENCES terms(id) ON DELETE SET NULL,
		level INTEGER NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uniq_terms_ns_slug ON terms(namespace, slug)`,
	`CREATE INDEX IF NOT EXISTS idx_terms_ns_parent ON terms(namespace, parent_id)`,
	`CREATE TABLE IF NOT EXISTS term_assoc (
		owner_id TEXT NOT NULL,
		namespace TEXT NOT NULL,
		term_id TEXT NOT NULL REFERENCES terms(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		PRIMARY KEY (owner_id, namespace, term_id)
	)`,
}

// EnsureSchema：Postgres
func EnsureSchema(db *sql.DB) error {
	return exec(db, "postgres", postgresStmts)
}

func EnsureSQLiteSchema(db *sql.DB) error {
	return exec(db, "sqlite", sqliteStmts)
}

func exec(db *sql.DB, dialect string, stmts []string) error {
	for i, s := range stmts {
		logger.L().Debug("schema_exec", "dialect", dialect, "idx", i)
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("schema %s stmt %d: %w", dialect, i, err)
		}
	}
	logger.L().Debug("schema_done", "dialect", dialect)
	return nil
}
