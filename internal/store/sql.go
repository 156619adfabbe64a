package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"location-hierarchy/internal/terms"
)

// dialect：SQLite 与 Postgres 的差异点
type dialect struct {
	name string
	// dollar：占位符改写为 $1..$n
	dollar bool
	// insert：不存在才创建的插入语句，参数顺序 namespace, name, slug, parent_id, level
	insert string
	// newID：为空表示由数据库生成
	newID func() string
	// validID：非法 ID 直接视为未命中
	validID func(string) bool
}

// queryer：*sql.DB 与 *sql.Tx 的公共部分
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// sqlStore：基于 database/sql 的 terms.Store 实现
// 约束：(namespace, slug) 唯一索引保证并发创建不重复；关联写入在单个事务内整体替换
type sqlStore struct {
	db *sql.DB
	d  dialect
}

// columns：节点列，ID 统一转为文本，空父节点转为 ''
func columns(p string) string {
	return "CAST(" + p + "id AS TEXT), " + p + "namespace, " + p + "name, " + p + "slug, COALESCE(CAST(" + p + "parent_id AS TEXT), ''), " + p + "level"
}

var nodeColumns = columns("")

func (s *sqlStore) q(query string) string {
	if !s.d.dollar {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *sqlStore) Close() error { return s.db.Close() }

func (s *sqlStore) DB() *sql.DB { return s.db }

func scanNode(sc interface{ Scan(...any) error }) (*terms.Node, error) {
	var n terms.Node
	if err := sc.Scan(&n.ID, &n.Namespace, &n.Name, &n.Slug, &n.ParentID, &n.Level); err != nil {
		return nil, err
	}
	return &n, nil
}

func (s *sqlStore) one(ctx context.Context, qr queryer, query string, args ...any) (*terms.Node, error) {
	n, err := scanNode(qr.QueryRowContext(ctx, s.q(query), args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return n, err
}

func (s *sqlStore) many(ctx context.Context, qr queryer, query string, args ...any) ([]terms.Node, error) {
	rows, err := qr.QueryContext(ctx, s.q(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []terms.Node
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, fmt.Errorf("scan term: %w", err)
		}
		out = append(out, *n)
	}
	return out, rows.Err()
}

func (s *sqlStore) FindBySlug(ctx context.Context, namespace, slug string) (*terms.Node, error) {
	n, err := s.one(ctx, s.db, `SELECT `+nodeColumns+` FROM terms WHERE namespace = ? AND slug = ?`, namespace, slug)
	if err != nil {
		return nil, fmt.Errorf("find term by slug: %w", err)
	}
	return n, nil
}

func (s *sqlStore) get(ctx context.Context, qr queryer, id string) (*terms.Node, error) {
	if !s.d.validID(id) {
		return nil, nil
	}
	return s.one(ctx, qr, `SELECT `+nodeColumns+` FROM terms WHERE id = ?`, id)
}

func (s *sqlStore) Get(ctx context.Context, id string) (*terms.Node, error) {
	n, err := s.get(ctx, s.db, id)
	if err != nil {
		return nil, fmt.Errorf("get term: %w", err)
	}
	return n, nil
}

func nullable(id string) any {
	if id == "" {
		return nil
	}
	return id
}

func (s *sqlStore) Create(ctx context.Context, namespace, name, slug, parentID string, level int) (*terms.Node, error) {
	if slug == "" {
		return nil, terms.ErrEmptySlug
	}
	if existing, err := s.FindBySlug(ctx, namespace, slug); err != nil || existing != nil {
		return existing, err
	}
	if parentID != "" {
		p, err := s.Get(ctx, parentID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, terms.ErrInvalidParent
		}
	}
	args := []any{namespace, name, slug, nullable(parentID), level}
	if s.d.newID != nil {
		args = append([]any{s.d.newID()}, args...)
	}
	if _, err := s.db.ExecContext(ctx, s.q(s.d.insert), args...); err != nil {
		return nil, fmt.Errorf("insert term (%s): %w", s.d.name, err)
	}
	n, err := s.FindBySlug(ctx, namespace, slug)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, fmt.Errorf("insert term %q: row not visible after insert", slug)
	}
	return n, nil
}

func (s *sqlStore) UpdateParent(ctx context.Context, id, parentID string) error {
	if parentID != "" {
		p, err := s.Get(ctx, parentID)
		if err != nil {
			return err
		}
		if p == nil {
			return terms.ErrInvalidParent
		}
	}
	if !s.d.validID(id) {
		return terms.ErrNotFound
	}
	res, err := s.db.ExecContext(ctx, s.q(`UPDATE terms SET parent_id = ? WHERE id = ?`), nullable(parentID), id)
	if err != nil {
		return fmt.Errorf("update term parent: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return terms.ErrNotFound
	}
	return nil
}

func (s *sqlStore) ListChildren(ctx context.Context, namespace, id string) ([]terms.Node, error) {
	var (
		out []terms.Node
		err error
	)
	if id == "" {
		out, err = s.many(ctx, s.db, `SELECT `+nodeColumns+` FROM terms WHERE namespace = ? AND parent_id IS NULL ORDER BY name, id`, namespace)
	} else if s.d.validID(id) {
		out, err = s.many(ctx, s.db, `SELECT `+nodeColumns+` FROM terms WHERE namespace = ? AND parent_id = ? ORDER BY name, id`, namespace, id)
	}
	if err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}
	return out, nil
}

// Associate：删除旧关联后按顺序写入；ids 为空时仅删除
func (s *sqlStore) Associate(ctx context.Context, ownerID, namespace string, ids []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin associate: %w", err)
	}
	defer tx.Rollback()
	for _, id := range ids {
		n, err := s.get(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("check term %s: %w", id, err)
		}
		if n == nil {
			return terms.ErrNotFound
		}
	}
	if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM term_assoc WHERE owner_id = ? AND namespace = ?`), ownerID, namespace); err != nil {
		return fmt.Errorf("clear associations: %w", err)
	}
	for i, id := range ids {
		if _, err := tx.ExecContext(ctx, s.q(`INSERT INTO term_assoc (owner_id, namespace, term_id, position) VALUES (?, ?, ?, ?)`), ownerID, namespace, id, i); err != nil {
			return fmt.Errorf("insert association: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit associate: %w", err)
	}
	return nil
}

func (s *sqlStore) ListAssociated(ctx context.Context, ownerID, namespace string) ([]terms.Node, error) {
	out, err := s.many(ctx, s.db, `SELECT `+columns("t.")+` FROM term_assoc a JOIN terms t ON t.id = a.term_id
		WHERE a.owner_id = ? AND a.namespace = ? ORDER BY a.position`, ownerID, namespace)
	if err != nil {
		return nil, fmt.Errorf("list associated: %w", err)
	}
	return out, nil
}
