package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HTTPProvider：进程外地理编码提供方适配器
// 约定：GET /health 返回 200 为健康；GET /geocode?q= 返回 {country_code, components}，404 表示无结果
type HTTPProvider struct {
	name     string
	endpoint string
	client   *http.Client
}

func NewHTTPProvider(name, endpoint string, timeout time.Duration) *HTTPProvider {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &HTTPProvider{name: name, endpoint: strings.TrimRight(endpoint, "/"), client: &http.Client{Timeout: timeout}}
}

func (h *HTTPProvider) Name() string { return h.name }

func (h *HTTPProvider) Heartbeat(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.endpoint+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s health status %d", h.name, resp.StatusCode)
	}
	return nil
}

func (h *HTTPProvider) Geocode(ctx context.Context, addr string) (*Result, error) {
	if strings.TrimSpace(addr) == "" {
		return nil, ErrEmptyQuery
	}
	u := h.endpoint + "/geocode?q=" + url.QueryEscape(addr)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", h.name, err)
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrNoResult
	default:
		return nil, fmt.Errorf("%s status %d", h.name, resp.StatusCode)
	}
	var m struct {
		CountryCode string            `json:"country_code"`
		Components  map[string]string `json:"components"`
		DisplayName string            `json:"display_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", h.name, err)
	}
	if len(m.Components) == 0 {
		return nil, ErrNoResult
	}
	return newResult(m.CountryCode, m.Components, m.DisplayName), nil
}
