// 包 hierarchy：由节点集合重建根到叶路径、按层级窗口裁剪并渲染展示文本
package hierarchy

import "location-hierarchy/internal/terms"

// MaxDepth：自叶向上回溯的最大节点数
const MaxDepth = 10

// Path：根到叶的节点序列
type Path []terms.Node

func (p Path) Names() []string {
	out := make([]string, len(p))
	for i, n := range p {
		out[i] = n.Name
	}
	return out
}

func (p Path) Leaf() (terms.Node, bool) {
	if len(p) == 0 {
		return terms.Node{}, false
	}
	return p[len(p)-1], true
}

type scope struct {
	order []terms.Node
	byID  map[string]terms.Node
}

// newScope：按 ID 去重，保留首次出现的顺序
func newScope(nodes []terms.Node) scope {
	s := scope{byID: make(map[string]terms.Node, len(nodes))}
	for _, n := range nodes {
		if _, dup := s.byID[n.ID]; dup {
			continue
		}
		s.byID[n.ID] = n
		s.order = append(s.order, n)
	}
	return s
}

// FindLeaves：集合内没有任何节点以其为父的节点
func FindLeaves(nodes []terms.Node) []terms.Node {
	return newScope(nodes).leaves()
}

func (s scope) leaves() []terms.Node {
	hasChild := make(map[string]bool, len(s.order))
	for _, n := range s.order {
		if n.ParentID != "" && n.ParentID != n.ID {
			hasChild[n.ParentID] = true
		}
	}
	var out []terms.Node
	for _, n := range s.order {
		if !hasChild[n.ID] {
			out = append(out, n)
		}
	}
	return out
}

// BuildPath：自 term 向上回溯并前插
// 停止条件：父为空、父不在集合内、达到 MaxDepth、或节点重复出现（返回已构建部分）
func BuildPath(term terms.Node, nodes []terms.Node) Path {
	return newScope(nodes).pathTo(term)
}

func (s scope) pathTo(term terms.Node) Path {
	var rev []terms.Node
	seen := make(map[string]bool)
	cur, ok := term, true
	for ok && len(rev) < MaxDepth {
		if seen[cur.ID] {
			break
		}
		seen[cur.ID] = true
		rev = append(rev, cur)
		if cur.ParentID == "" {
			break
		}
		cur, ok = s.byID[cur.ParentID]
	}
	out := make(Path, len(rev))
	for i, n := range rev {
		out[len(rev)-1-i] = n
	}
	return out
}

// Paths：每个叶节点一条路径
// 约束：集合非空但不存在叶（纯环）时，以层级最深的节点作为唯一叶
func Paths(nodes []terms.Node) []Path {
	s := newScope(nodes)
	if len(s.order) == 0 {
		return nil
	}
	leaves := s.leaves()
	if len(leaves) == 0 {
		deepest := s.order[0]
		for _, n := range s.order[1:] {
			if n.Level > deepest.Level {
				deepest = n
			}
		}
		leaves = []terms.Node{deepest}
	}
	out := make([]Path, 0, len(leaves))
	for _, l := range leaves {
		out = append(out, s.pathTo(l))
	}
	return out
}
