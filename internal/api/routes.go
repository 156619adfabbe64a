// 包 api：集中注册 HTTP API 路由，主入口挂载到 API_BASE 前缀下
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"location-hierarchy/internal/address"
	"location-hierarchy/internal/builder"
	"location-hierarchy/internal/display"
	"location-hierarchy/internal/hierarchy"
	"location-hierarchy/internal/logger"
	"location-hierarchy/internal/middleware"
	"location-hierarchy/internal/resolve"
	"location-hierarchy/internal/slug"
)

type Deps struct {
	Resolver  *resolve.Service
	Surface   *display.Surface
	Slugs     *slug.Generator
	Levels    builder.RangeFunc
	OwnerType string
	Namespace string
}

// maxBody：请求体上限
const maxBody = 64 << 10

// BuildRoutes：独立 ServeMux，路径不含 API_BASE
func BuildRoutes(d Deps) *http.ServeMux {
	if d.Levels == nil {
		d.Levels = builder.DefaultLevelRange
	}
	if d.OwnerType == "" {
		d.OwnerType = "event"
	}
	if d.Namespace == "" {
		d.Namespace = "location"
	}
	h := &handlers{d: d}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.health)
	mux.HandleFunc("POST /events/{id}/location", h.resolveLocation)
	mux.HandleFunc("GET /events/{id}/hierarchy", h.hierarchy)
	mux.HandleFunc("POST /preview", h.preview)
	mux.HandleFunc("GET /terms/{slug}", h.term)
	return mux
}

type handlers struct {
	d Deps
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.Header().Set("cache-control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	if err := dec.Decode(v); err != nil {
		logger.L().Debug("api_bad_request", "path", r.URL.Path, "err", err, "request_id", middleware.RequestIDFrom(r.Context()))
		writeError(w, http.StatusBadRequest, "invalid json body")
		return false
	}
	return true
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// resolveLocation：解析失败也返回 200，由 Outcome 描述
func (h *handlers) resolveLocation(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Address string `json:"address"`
	}
	if !decode(w, r, &body) {
		return
	}
	out := h.d.Resolver.Resolve(r.Context(), r.PathValue("id"), body.Address)
	logger.L().Debug("api_resolve", "owner", out.OwnerID, "reason", out.Reason, "request_id", middleware.RequestIDFrom(r.Context()))
	writeJSON(w, http.StatusOK, out)
}

func (h *handlers) hierarchy(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ownerType := q.Get("type")
	if ownerType == "" {
		ownerType = h.d.OwnerType
	}
	req := display.Request{
		OwnerID:   r.PathValue("id"),
		OwnerType: ownerType,
		Window:    hierarchy.Window{Start: atoi(q.Get("start")), End: atoi(q.Get("end"))},
		Links:     flag(q.Get("links")),
		ShowVenue: flag(q.Get("show_venue")) || (q.Get("show_venue") == "" && q.Get("venue") != ""),
		Venue:     hierarchy.Venue{Label: q.Get("venue"), URL: q.Get("venue_url")},
		Authoring: q.Get("mode") == "authoring",
	}
	v := h.d.Surface.Render(r.Context(), req)
	w.Header().Set("content-type", "text/html; charset=utf-8")
	w.Header().Set("x-hierarchy-outcome", v.Outcome)
	_, _ = w.Write([]byte(v.Block))
}

type previewRequest struct {
	Levels    address.LocationLevels `json:"levels"`
	Start     int                    `json:"start"`
	End       int                    `json:"end"`
	Links     bool                   `json:"links"`
	ShowVenue bool                   `json:"show_venue"`
	Venue     string                 `json:"venue"`
	VenueURL  string                 `json:"venue_url"`
}

// preview：编辑端预览，总是以编辑模式渲染
func (h *handlers) preview(w http.ResponseWriter, r *http.Request) {
	var body previewRequest
	if !decode(w, r, &body) {
		return
	}
	path := hierarchy.PreviewPath(body.Levels, h.d.Levels(), h.d.Slugs)
	// 链接指向同 slug 的正式归档页
	for i := range path {
		path[i].Namespace = h.d.Namespace
	}
	v := h.d.Surface.RenderPaths([]hierarchy.Path{path}, display.Request{
		Window:    hierarchy.Window{Start: body.Start, End: body.End},
		Links:     body.Links,
		ShowVenue: body.ShowVenue,
		Venue:     hierarchy.Venue{Label: body.Venue, URL: body.VenueURL},
		Authoring: true,
	})
	writeJSON(w, http.StatusOK, map[string]string{"text": v.Text, "html": v.Block, "outcome": v.Outcome})
}

func (h *handlers) term(w http.ResponseWriter, r *http.Request) {
	a, err := h.d.Surface.Archive(r.Context(), r.PathValue("slug"), flag(r.URL.Query().Get("links")))
	if err != nil {
		logger.L().Error("api_term_error", "slug", r.PathValue("slug"), "err", err)
		writeError(w, http.StatusInternalServerError, "term lookup failed")
		return
	}
	if a == nil {
		writeError(w, http.StatusNotFound, "term not found")
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func flag(s string) bool {
	b, _ := strconv.ParseBool(s)
	return b
}
