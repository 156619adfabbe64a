// 包 display：面向记录页与分类归档页的展示入口
package display

import (
	"context"
	"fmt"
	"log/slog"

	"location-hierarchy/internal/builder"
	"location-hierarchy/internal/hierarchy"
	"location-hierarchy/internal/logger"
	"location-hierarchy/internal/terms"
)

// Placeholder：编辑端无可展示内容时的提示
const Placeholder = "No location hierarchy available."

// 展示结果类别
const (
	OutcomeRendered      = "rendered"
	OutcomeVenueOnly     = "venue_only"
	OutcomeEmpty         = "empty"
	OutcomePlaceholder   = "placeholder"
	OutcomeScopeMismatch = "scope_mismatch"
)

type Request struct {
	OwnerID   string
	OwnerType string
	Window    hierarchy.Window
	Links     bool
	ShowVenue bool
	Venue     hierarchy.Venue
	// Authoring：编辑端，空结果输出 Placeholder
	Authoring bool
}

type View struct {
	Block   string `json:"block"`
	Text    string `json:"text"`
	Outcome string `json:"outcome"`
}

type Config struct {
	Store     terms.Store
	Link      hierarchy.LinkFunc
	OwnerType string
	Namespace string
	Separator string
	Levels    builder.RangeFunc
}

type Surface struct {
	store     terms.Store
	link      hierarchy.LinkFunc
	renderer  *hierarchy.Renderer
	ownerType string
	namespace string
	separator string
	levels    builder.RangeFunc
	log       *slog.Logger
}

func New(cfg Config) *Surface {
	if cfg.Levels == nil {
		cfg.Levels = builder.DefaultLevelRange
	}
	if cfg.OwnerType == "" {
		cfg.OwnerType = "event"
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "location"
	}
	return &Surface{
		store:     cfg.Store,
		link:      cfg.Link,
		renderer:  hierarchy.NewRenderer(cfg.Link),
		ownerType: cfg.OwnerType,
		namespace: cfg.Namespace,
		separator: cfg.Separator,
		levels:    cfg.Levels,
		log:       logger.Component("display"),
	}
}

// Window：请求窗口约束到层级区间可产出的路径长度内；零值窗口为完整区间
func (s *Surface) Window(w hierarchy.Window) hierarchy.Window {
	r := s.levels().Clamp()
	span := r.Max - r.Min + 1
	if w.Start == 0 && w.End == 0 {
		return hierarchy.Window{Start: 1, End: span}
	}
	w = w.Clamp()
	if w.End > span {
		w.End = span
	}
	if w.Start > w.End {
		w.Start = w.End
	}
	return w
}

// Options：请求对应的渲染参数
func (s *Surface) Options(req Request) hierarchy.Options {
	o := hierarchy.Options{
		Separator: s.separator,
		Linkify:   req.Links,
		ShowVenue: req.ShowVenue,
		Venue:     req.Venue,
	}
	if req.Authoring {
		o.Placeholder = Placeholder
	}
	return o
}

// Render：owner 类型不符时只输出说明，不访问存储；存储读取失败按无数据降级
func (s *Surface) Render(ctx context.Context, req Request) View {
	if req.OwnerType != s.ownerType {
		msg := fmt.Sprintf("Location hierarchy is only available for %s records.", s.ownerType)
		return View{Block: hierarchy.Message(msg), Text: msg, Outcome: OutcomeScopeMismatch}
	}
	nodes, err := s.store.ListAssociated(ctx, req.OwnerID, s.namespace)
	if err != nil {
		s.log.Error("display_store_error", "owner", req.OwnerID, "err", err)
		nodes = nil
	}
	paths := hierarchy.FilterAll(hierarchy.Paths(nodes), s.Window(req.Window))
	return s.view(s.renderer.Render(paths, s.Options(req)))
}

// RenderPaths：预览等不经存储的路径渲染，窗口与选项规则同 Render
func (s *Surface) RenderPaths(paths []hierarchy.Path, req Request) View {
	paths = hierarchy.FilterAll(paths, s.Window(req.Window))
	return s.view(s.renderer.Render(paths, s.Options(req)))
}

func (s *Surface) view(out hierarchy.Output) View {
	v := View{Block: out.Block(), Text: out.Text}
	switch {
	case out.VenueOnly:
		v.Outcome = OutcomeVenueOnly
	case out.Empty && out.Text != "":
		v.Outcome = OutcomePlaceholder
	case out.Empty:
		v.Outcome = OutcomeEmpty
	default:
		v.Outcome = OutcomeRendered
	}
	return v
}
