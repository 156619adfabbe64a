package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"location-hierarchy/internal/logger"
)

// Nominatim：OpenStreetMap Nominatim 搜索接口客户端
// 约束：公共实例要求可识别的 User-Agent；每次请求只取首个结果（limit=1）
type Nominatim struct {
	base      string
	userAgent string
	email     string
	client    *http.Client
}

// NewNominatim：timeout<=0 时使用 10s
func NewNominatim(base, userAgent, email string, timeout time.Duration) *Nominatim {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Nominatim{
		base:      strings.TrimRight(base, "/"),
		userAgent: userAgent,
		email:     email,
		client:    &http.Client{Timeout: timeout},
	}
}

func (n *Nominatim) Name() string { return "nominatim" }

type nominatimPlace struct {
	DisplayName string            `json:"display_name"`
	Address     map[string]string `json:"address"`
}

// Geocode：GET {base}/search?format=jsonv2&addressdetails=1&limit=1&q=
// 返回：空数组时返回 ErrNoResult；非 200 返回携带状态码的错误
func (n *Nominatim) Geocode(ctx context.Context, addr string) (*Result, error) {
	if strings.TrimSpace(addr) == "" {
		return nil, ErrEmptyQuery
	}
	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("addressdetails", "1")
	q.Set("limit", "1")
	q.Set("q", addr)
	if n.email != "" {
		q.Set("email", n.email)
	}
	var places []nominatimPlace
	if err := n.get(ctx, "/search?"+q.Encode(), &places); err != nil {
		return nil, err
	}
	if len(places) == 0 || len(places[0].Address) == 0 {
		logger.L().Debug("nominatim_empty", "q", addr)
		return nil, ErrNoResult
	}
	p := places[0]
	logger.L().Debug("nominatim_resp", "q", addr, "country_code", p.Address["country_code"], "display", p.DisplayName)
	return newResult(p.Address["country_code"], p.Address, p.DisplayName), nil
}

// Heartbeat：/status?format=json 返回 200 视为健康
func (n *Nominatim) Heartbeat(ctx context.Context) error {
	return n.get(ctx, "/status?format=json", nil)
}

func (n *Nominatim) get(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.base+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if n.userAgent != "" {
		req.Header.Set("User-Agent", n.userAgent)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := n.client.Do(req)
	if err != nil {
		logger.L().Error("nominatim_http_error", "err", err)
		return fmt.Errorf("nominatim request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("nominatim status %d", resp.StatusCode)
	}
	if v == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		logger.L().Error("nominatim_decode_error", "err", err)
		return fmt.Errorf("decode nominatim response: %w", err)
	}
	return nil
}
