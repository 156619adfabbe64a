// 包 terms：地理分类节点模型与存储契约
package terms

import (
	"context"
	"errors"
	"strconv"
)

// 层级编号：1=大洲 … 6=街道+门牌
const (
	LevelContinent    = 1
	LevelCountry      = 2
	LevelState        = 3
	LevelCity         = 4
	LevelStreet       = 5
	LevelStreetNumber = 6

	MinLevel = LevelContinent
	MaxLevel = LevelStreetNumber
)

var levelNames = [...]string{"", "continent", "country", "state", "city", "street", "street_number"}

// LevelName：层级编号对应的字段名，越界返回 "level_N"
func LevelName(level int) string {
	if level >= MinLevel && level <= MaxLevel {
		return levelNames[level]
	}
	return "level_" + strconv.Itoa(level)
}

// Node：一个层级上的地理实体
// 约束：Slug 在 Namespace 内唯一；ParentID 为空表示根（大洲或链的起点）
type Node struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	ParentID  string `json:"parent_id,omitempty"`
	Level     int    `json:"level"`
	Namespace string `json:"namespace"`
}

func (n Node) IsRoot() bool { return n.ParentID == "" }

var (
	ErrInvalidParent = errors.New("terms: parent does not exist")
	ErrNotFound      = errors.New("terms: node not found")
	ErrEmptySlug     = errors.New("terms: empty slug")
)

// Store：层级分类存储
// 约束：
// - FindBySlug / Get 未命中返回 (nil, nil)；
// - Create 需具备“不存在才创建”语义：同 (namespace, slug) 并发创建时返回已存在的节点而非重复插入；
// - UpdateParent 的新父节点必须存在（或为空），否则返回 ErrInvalidParent；
// - Associate 以整体替换方式写入 owner 的关联集合。
type Store interface {
	FindBySlug(ctx context.Context, namespace, slug string) (*Node, error)
	Get(ctx context.Context, id string) (*Node, error)
	Create(ctx context.Context, namespace, name, slug, parentID string, level int) (*Node, error)
	UpdateParent(ctx context.Context, id, parentID string) error
	ListChildren(ctx context.Context, namespace, id string) ([]Node, error)
	Associate(ctx context.Context, ownerID, namespace string, ids []string) error
	ListAssociated(ctx context.Context, ownerID, namespace string) ([]Node, error)
}
