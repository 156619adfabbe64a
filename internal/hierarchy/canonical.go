package hierarchy

import (
	"context"
	"fmt"

	"location-hierarchy/internal/terms"
)

// Canonical：沿“恰好一个子节点”的链向下，返回最深的单子后代
// 约束：node 有 0 个或 ≥2 个子节点时返回 (nil, nil)，页面即自身规范地址；
// 链长受 MaxDepth 限制，重复节点即停止
func Canonical(ctx context.Context, st terms.Store, node terms.Node) (*terms.Node, error) {
	var target *terms.Node
	seen := map[string]bool{node.ID: true}
	cur := node
	for i := 0; i < MaxDepth; i++ {
		children, err := st.ListChildren(ctx, cur.Namespace, cur.ID)
		if err != nil {
			return nil, fmt.Errorf("list children of %s: %w", cur.ID, err)
		}
		if len(children) != 1 || seen[children[0].ID] {
			break
		}
		child := children[0]
		seen[child.ID] = true
		target = &child
		cur = child
	}
	return target, nil
}

// Ancestors：经存储自 node 向上回溯的面包屑路径（根在前）
// 约束：父节点缺失时以当前节点为根；与 BuildPath 同样的深度与重复保护
func Ancestors(ctx context.Context, st terms.Store, node terms.Node) (Path, error) {
	var rev []terms.Node
	seen := make(map[string]bool)
	cur := &node
	for cur != nil && len(rev) < MaxDepth && !seen[cur.ID] {
		seen[cur.ID] = true
		rev = append(rev, *cur)
		if cur.ParentID == "" {
			break
		}
		p, err := st.Get(ctx, cur.ParentID)
		if err != nil {
			return nil, fmt.Errorf("get parent %s: %w", cur.ParentID, err)
		}
		cur = p
	}
	out := make(Path, len(rev))
	for i, n := range rev {
		out[len(rev)-1-i] = n
	}
	return out, nil
}
