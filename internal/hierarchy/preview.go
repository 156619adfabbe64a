package hierarchy

import (
	"location-hierarchy/internal/address"
	"location-hierarchy/internal/builder"
	"location-hierarchy/internal/slug"
	"location-hierarchy/internal/terms"
)

// PreviewNamespace：预览伪节点所属命名空间，不落库
const PreviewNamespace = "preview"

// PreviewPath：按建链规则把临时 LocationLevels 转为伪节点路径
// 约束：层级选择与同名折叠和 Builder 一致，渲染端再套用同一窗口与渲染器
func PreviewPath(levels address.LocationLevels, r builder.LevelRange, g *slug.Generator) Path {
	if g == nil {
		g = slug.New("en")
	}
	var (
		out    Path
		parent string
	)
	seen := make(map[string]bool)
	for _, p := range builder.Plan(levels, r) {
		s := builder.SlugFor(g, p, levels.CountryCode)
		if seen[s] {
			continue
		}
		seen[s] = true
		n := terms.Node{
			ID:        PreviewNamespace + ":" + s,
			Name:      p.Name,
			Slug:      s,
			ParentID:  parent,
			Level:     p.Level,
			Namespace: PreviewNamespace,
		}
		out = append(out, n)
		parent = n.ID
	}
	return out
}
