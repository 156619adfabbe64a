package store

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"location-hierarchy/internal/terms"
)

// Memory：进程内分类存储，用于测试与 STORE_DRIVER=memory
// 约束：所有操作持锁执行，Create 的“不存在才创建”在锁内判定
type Memory struct {
	mu     sync.RWMutex
	seq    int64
	nodes  map[string]terms.Node
	bySlug map[string]string
	assoc  map[string][]string
}

func NewMemory() *Memory {
	return &Memory{
		nodes:  make(map[string]terms.Node),
		bySlug: make(map[string]string),
		assoc:  make(map[string][]string),
	}
}

func slugKey(namespace, slug string) string { return namespace + "\x00" + slug }

func (m *Memory) FindBySlug(_ context.Context, namespace, slug string) (*terms.Node, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.bySlug[slugKey(namespace, slug)]
	if !ok {
		return nil, nil
	}
	n := m.nodes[id]
	return &n, nil
}

func (m *Memory) Get(_ context.Context, id string) (*terms.Node, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.nodes[id]
	if !ok {
		return nil, nil
	}
	return &n, nil
}

func (m *Memory) Create(_ context.Context, namespace, name, slug, parentID string, level int) (*terms.Node, error) {
	if slug == "" {
		return nil, terms.ErrEmptySlug
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.bySlug[slugKey(namespace, slug)]; ok {
		n := m.nodes[id]
		return &n, nil
	}
	if parentID != "" {
		if _, ok := m.nodes[parentID]; !ok {
			return nil, terms.ErrInvalidParent
		}
	}
	m.seq++
	n := terms.Node{
		ID:        strconv.FormatInt(m.seq, 10),
		Name:      name,
		Slug:      slug,
		ParentID:  parentID,
		Level:     level,
		Namespace: namespace,
	}
	m.nodes[n.ID] = n
	m.bySlug[slugKey(namespace, slug)] = n.ID
	return &n, nil
}

func (m *Memory) UpdateParent(_ context.Context, id, parentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.nodes[id]
	if !ok {
		return terms.ErrNotFound
	}
	if parentID != "" {
		if _, ok := m.nodes[parentID]; !ok {
			return terms.ErrInvalidParent
		}
	}
	n.ParentID = parentID
	m.nodes[id] = n
	return nil
}

func (m *Memory) ListChildren(_ context.Context, namespace, id string) ([]terms.Node, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []terms.Node
	for _, n := range m.nodes {
		if n.Namespace == namespace && n.ParentID == id {
			out = append(out, n)
		}
	}
	sortNodes(out)
	return out, nil
}

func (m *Memory) Associate(_ context.Context, ownerID, namespace string, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		if _, ok := m.nodes[id]; !ok {
			return terms.ErrNotFound
		}
	}
	key := slugKey(namespace, ownerID)
	if len(ids) == 0 {
		delete(m.assoc, key)
		return nil
	}
	m.assoc[key] = append([]string(nil), ids...)
	return nil
}

func (m *Memory) ListAssociated(_ context.Context, ownerID, namespace string) ([]terms.Node, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := m.assoc[slugKey(namespace, ownerID)]
	out := make([]terms.Node, 0, len(ids))
	for _, id := range ids {
		if n, ok := m.nodes[id]; ok {
			out = append(out, n)
		}
	}
	return out, nil
}

// Len：节点总数（测试断言使用）
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.nodes)
}

func sortNodes(ns []terms.Node) {
	sort.Slice(ns, func(i, j int) bool {
		if ns[i].Name != ns[j].Name {
			return ns[i].Name < ns[j].Name
		}
		return ns[i].ID < ns[j].ID
	})
}
