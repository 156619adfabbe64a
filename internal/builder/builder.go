// 包 builder：按层级自上而下查找或创建分类节点，修复错误的父链接，并把结果链关联到所属记录
package builder

import (
	"context"
	"fmt"
	"log/slog"

	"location-hierarchy/internal/address"
	"location-hierarchy/internal/logger"
	"location-hierarchy/internal/metrics"
	"location-hierarchy/internal/slug"
	"location-hierarchy/internal/terms"
)

// Candidate：写入前的节点描述，交给 Hook 定制
// 约束：Hook 对 Namespace 与 Level 的修改会被忽略
type Candidate struct {
	Name      string
	Slug      string
	ParentID  string
	Namespace string
	Level     int
	Location  address.LocationLevels
}

// Hook：写入前定制名称、标识与父节点；默认原样返回
type Hook func(Candidate) Candidate

func identity(c Candidate) Candidate { return c }

type Builder struct {
	store terms.Store
	slugs *slug.Generator
	hook  Hook
	log   *slog.Logger
}

type Option func(*Builder)

func WithHook(h Hook) Option {
	return func(b *Builder) {
		if h != nil {
			b.hook = h
		}
	}
}

func New(st terms.Store, g *slug.Generator, opts ...Option) *Builder {
	if g == nil {
		g = slug.New("en")
	}
	b := &Builder{store: st, slugs: g, hook: identity, log: logger.Component("builder")}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Plan：进入链的层级，自上而下
// 规则：
// - 区间外层级整体跳过，下一个层级挂到最近一次处理成功的父节点；
// - 仅大洲可以为空而跳过（国家代码未收录），链从国家开始；
// - 其余空层级即停止，保证前缀顺序。
func Plan(levels address.LocationLevels, r LevelRange) []address.Pair {
	r = r.Clamp()
	var out []address.Pair
	for _, p := range levels.Pairs() {
		if !r.Contains(p.Level) {
			continue
		}
		if p.Name == "" {
			if p.Level == terms.LevelContinent {
				continue
			}
			break
		}
		out = append(out, p)
	}
	return out
}

// BuildChain：返回按层级顺序成功产出的节点 ID
// 规则：
// - 层级取自 Plan；
// - 存储失败时中止剩余层级，已产出的 ID 与错误一并返回；
// - 命中的节点已是当前链上的节点（同名层级折叠）时不重复加入，也不改父链接。
func (b *Builder) BuildChain(ctx context.Context, levels address.LocationLevels, r LevelRange, namespace string) ([]string, error) {
	var (
		ids      []string
		parentID string
	)
	for _, p := range Plan(levels, r) {
		c := b.candidate(p, parentID, namespace, levels)
		node, err := b.upsert(ctx, c, ids)
		if err != nil {
			metrics.ChainsAbortedTotal.Inc()
			b.log.Error("chain_aborted", "level", terms.LevelName(p.Level), "slug", c.Slug, "err", err)
			return ids, fmt.Errorf("upsert %s %q: %w", terms.LevelName(p.Level), c.Name, err)
		}
		if node == nil {
			continue
		}
		ids = append(ids, node.ID)
		parentID = node.ID
	}
	return ids, nil
}

// SlugFor：层级标识；国家层级且国家代码已知时使用小写国家代码
func SlugFor(g *slug.Generator, p address.Pair, countryCode string) string {
	if p.Level == terms.LevelCountry && countryCode != "" {
		return slug.Country(countryCode)
	}
	return g.Make(p.Name)
}

func (b *Builder) candidate(p address.Pair, parentID, namespace string, levels address.LocationLevels) Candidate {
	c := Candidate{
		Name:      p.Name,
		Slug:      SlugFor(b.slugs, p, levels.CountryCode),
		ParentID:  parentID,
		Namespace: namespace,
		Level:     p.Level,
		Location:  levels,
	}
	h := b.hook(c)
	if h.Name != "" {
		c.Name = h.Name
	}
	if h.Slug != "" {
		c.Slug = h.Slug
	}
	c.ParentID = h.ParentID
	return c
}

// upsert：查找或创建；返回 nil 表示命中当前链上已有节点
func (b *Builder) upsert(ctx context.Context, c Candidate, chain []string) (*terms.Node, error) {
	existing, err := b.store.FindBySlug(ctx, c.Namespace, c.Slug)
	if err != nil {
		return nil, fmt.Errorf("find by slug: %w", err)
	}
	if existing == nil {
		n, err := b.store.Create(ctx, c.Namespace, c.Name, c.Slug, c.ParentID, c.Level)
		if err != nil {
			return nil, fmt.Errorf("create: %w", err)
		}
		metrics.TermsCreatedTotal.WithLabelValues(terms.LevelName(c.Level)).Inc()
		b.log.Debug("term_created", "id", n.ID, "slug", n.Slug, "parent", n.ParentID, "level", c.Level)
		existing = n
	}
	for _, id := range chain {
		if id == existing.ID {
			b.log.Debug("term_collapsed", "id", existing.ID, "slug", existing.Slug, "level", c.Level)
			return nil, nil
		}
	}
	if existing.ParentID != c.ParentID {
		if err := b.store.UpdateParent(ctx, existing.ID, c.ParentID); err != nil {
			return nil, fmt.Errorf("update parent: %w", err)
		}
		metrics.ParentsRepairedTotal.Inc()
		b.log.Info("term_parent_repaired", "id", existing.ID, "slug", existing.Slug, "from", existing.ParentID, "to", c.ParentID)
		existing.ParentID = c.ParentID
	}
	return existing, nil
}

// BuildAndAssociate：建链后以整体替换方式关联到 owner
// 约束：链为空时不触碰既有关联；建链中途失败时仍关联已产出的前缀并返回建链错误
func (b *Builder) BuildAndAssociate(ctx context.Context, ownerID string, levels address.LocationLevels, r LevelRange, namespace string) ([]string, error) {
	ids, buildErr := b.BuildChain(ctx, levels, r, namespace)
	if len(ids) == 0 {
		return ids, buildErr
	}
	if err := b.store.Associate(ctx, ownerID, namespace, ids); err != nil {
		b.log.Error("associate_error", "owner", ownerID, "err", err)
		return ids, fmt.Errorf("associate owner %s: %w", ownerID, err)
	}
	b.log.Debug("associated", "owner", ownerID, "terms", len(ids))
	return ids, buildErr
}
