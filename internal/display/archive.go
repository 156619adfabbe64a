package display

import (
	"context"
	"fmt"

	"location-hierarchy/internal/hierarchy"
	"location-hierarchy/internal/terms"
)

// Archive：分类归档页数据
type Archive struct {
	Node         terms.Node  `json:"node"`
	Path         []string    `json:"path"`
	Breadcrumb   string      `json:"breadcrumb"`
	Canonical    *terms.Node `json:"canonical,omitempty"`
	CanonicalURL string      `json:"canonical_url,omitempty"`
}

// Archive：slug 未命中返回 (nil, nil)
// 约束：规范目标为最深的单子后代；无链接函数或链接不可用时 CanonicalURL 为空
func (s *Surface) Archive(ctx context.Context, slug string, links bool) (*Archive, error) {
	n, err := s.store.FindBySlug(ctx, s.namespace, slug)
	if err != nil {
		return nil, fmt.Errorf("find archive term: %w", err)
	}
	if n == nil {
		return nil, nil
	}
	path, err := hierarchy.Ancestors(ctx, s.store, *n)
	if err != nil {
		return nil, err
	}
	target, err := hierarchy.Canonical(ctx, s.store, *n)
	if err != nil {
		return nil, err
	}
	out := s.renderer.Render([]hierarchy.Path{path}, hierarchy.Options{Separator: s.separator, Linkify: links})
	a := &Archive{Node: *n, Path: path.Names(), Breadcrumb: out.HTML, Canonical: target}
	if target != nil && s.link != nil {
		if u, err := s.link(*target); err == nil && hierarchy.ValidURL(u) {
			a.CanonicalURL = u
		}
	}
	return a, nil
}
