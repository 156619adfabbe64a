package hierarchy

import (
	"bytes"
	"errors"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"location-hierarchy/internal/metrics"
	"location-hierarchy/internal/terms"
)

const (
	DefaultSeparator = " > "
	pathJoiner       = ", "
	// BlockClass：宿主文档的块级包裹样式名
	BlockClass = "wp-block-location-hierarchy"
)

// Venue：可选的尾部场馆标签
type Venue struct {
	Label string `json:"label,omitempty"`
	URL   string `json:"url,omitempty"`
}

type Options struct {
	Separator string
	Linkify   bool
	ShowVenue bool
	Venue     Venue
	// Placeholder：非空时，无可展示内容会输出该提示（编辑端使用）
	Placeholder string
}

// LinkFunc：解析节点归档页地址
type LinkFunc func(terms.Node) (string, error)

var ErrNoArchive = errors.New("hierarchy: no archive url")

// ArchiveLinker：{base}/{namespace}/{slug}/
func ArchiveLinker(base string) LinkFunc {
	base = strings.TrimRight(base, "/")
	return func(n terms.Node) (string, error) {
		if n.Slug == "" || n.Namespace == "" {
			return "", ErrNoArchive
		}
		u := base + "/" + url.PathEscape(n.Namespace) + "/" + url.PathEscape(n.Slug) + "/"
		if !ValidURL(u) {
			return "", ErrNoArchive
		}
		return u, nil
	}
}

// ValidURL：仅接受带主机名的 http/https 绝对地址
func ValidURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

type segment struct {
	text string
	href string
}

// Output：同一次渲染的纯文本与 HTML 两种形式
type Output struct {
	Text      string `json:"text"`
	HTML      string `json:"html"`
	Empty     bool   `json:"empty"`
	VenueOnly bool   `json:"venue_only,omitempty"`
	segs      []segment
}

// Renderer：无状态，可并发使用
type Renderer struct {
	link LinkFunc
}

func NewRenderer(link LinkFunc) *Renderer {
	return &Renderer{link: link}
}

// Render：paths 为已按窗口裁剪的路径
func (r *Renderer) Render(paths []Path, opts Options) Output {
	sep := opts.Separator
	if sep == "" {
		sep = DefaultSeparator
	}
	var segs []segment
	for i, p := range paths {
		if len(p) == 0 {
			continue
		}
		if i > 0 && len(segs) > 0 {
			segs = append(segs, segment{text: pathJoiner})
		}
		for j, n := range p {
			if j > 0 {
				segs = append(segs, segment{text: sep})
			}
			segs = append(segs, r.nodeSegment(n, opts.Linkify))
		}
	}

	venue, hasVenue := venueSegment(opts)
	switch {
	case len(segs) > 0 && hasVenue:
		segs = append(segs, segment{text: sep}, venue)
		metrics.RendersTotal.WithLabelValues("hierarchy_venue").Inc()
	case len(segs) > 0:
		metrics.RendersTotal.WithLabelValues("hierarchy").Inc()
	case hasVenue:
		metrics.RendersTotal.WithLabelValues("venue_only").Inc()
		return newOutput([]segment{venue}, false, true)
	case opts.Placeholder != "":
		metrics.RendersTotal.WithLabelValues("placeholder").Inc()
		o := newOutput([]segment{{text: opts.Placeholder}}, true, false)
		return o
	default:
		metrics.RendersTotal.WithLabelValues("empty").Inc()
		return Output{Empty: true}
	}
	return newOutput(segs, false, false)
}

func (r *Renderer) nodeSegment(n terms.Node, linkify bool) segment {
	s := segment{text: n.Name}
	if !linkify || r.link == nil {
		return s
	}
	if u, err := r.link(n); err == nil && ValidURL(u) {
		s.href = u
	}
	return s
}

func venueSegment(opts Options) (segment, bool) {
	label := strings.TrimSpace(opts.Venue.Label)
	if !opts.ShowVenue || label == "" {
		return segment{}, false
	}
	s := segment{text: label}
	if opts.Linkify && ValidURL(opts.Venue.URL) {
		s.href = opts.Venue.URL
	}
	return s, true
}

func newOutput(segs []segment, empty, venueOnly bool) Output {
	var b strings.Builder
	for _, s := range segs {
		b.WriteString(s.text)
	}
	return Output{
		Text:      b.String(),
		HTML:      renderNodes(segmentNodes(segs)),
		Empty:     empty,
		VenueOnly: venueOnly,
		segs:      segs,
	}
}

// Block：以宿主块级标记包裹，<div class="…"><p>…</p></div>；无内容时返回空串
func (o Output) Block() string {
	if len(o.segs) == 0 {
		return ""
	}
	div := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div,
		Attr: []html.Attribute{{Key: "class", Val: BlockClass}}}
	p := &html.Node{Type: html.ElementNode, Data: "p", DataAtom: atom.P}
	for _, n := range segmentNodes(o.segs) {
		p.AppendChild(n)
	}
	div.AppendChild(p)
	return renderNodes([]*html.Node{div})
}

// Message：仅含一段说明文字的块（作用域不符等场景）
func Message(text string) string {
	return newOutput([]segment{{text: text}}, true, false).Block()
}

func segmentNodes(segs []segment) []*html.Node {
	out := make([]*html.Node, 0, len(segs))
	for _, s := range segs {
		text := &html.Node{Type: html.TextNode, Data: s.text}
		if s.href == "" {
			out = append(out, text)
			continue
		}
		a := &html.Node{Type: html.ElementNode, Data: "a", DataAtom: atom.A,
			Attr: []html.Attribute{{Key: "href", Val: s.href}}}
		a.AppendChild(text)
		out = append(out, a)
	}
	return out
}

func renderNodes(nodes []*html.Node) string {
	var buf bytes.Buffer
	for _, n := range nodes {
		_ = html.Render(&buf, n)
	}
	return buf.String()
}
