// 包 geocode：地址文本到原始地址字段的外部地理编码，含多提供方管理与两级缓存
package geocode

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"location-hierarchy/internal/address"
)

// Result：一次地理编码的原始结果
// 约束：CountryCode 已小写；Components 键名保持提供方原样，由 address.Normalize 解释
type Result struct {
	CountryCode string             `json:"country_code"`
	Components  address.Components `json:"components"`
	DisplayName string             `json:"display_name,omitempty"`
}

type Geocoder interface {
	Geocode(ctx context.Context, addr string) (*Result, error)
}

// Provider：可注册到 Manager 的地理编码提供方
type Provider interface {
	Geocoder
	Name() string
	Heartbeat(ctx context.Context) error
}

var (
	ErrNoResult   = errors.New("geocode: no result")
	ErrNoProvider = errors.New("geocode: no healthy provider")
	ErrEmptyQuery = errors.New("geocode: empty address")
)

// NormalizeAddress：去首尾空白、合并空白、小写
func NormalizeAddress(addr string) string {
	return strings.ToLower(strings.Join(strings.Fields(addr), " "))
}

// CacheKey：geocode:{xxhash64(规范化地址) 十六进制}
func CacheKey(addr string) string {
	return "geocode:" + strconv.FormatUint(xxhash.Sum64String(NormalizeAddress(addr)), 16)
}

func newResult(cc string, comps map[string]string, display string) *Result {
	c := make(address.Components, len(comps))
	for k, v := range comps {
		c[k] = v
	}
	cc = strings.ToLower(strings.TrimSpace(cc))
	if cc == "" {
		cc = strings.ToLower(strings.TrimSpace(c["country_code"]))
	}
	return &Result{CountryCode: cc, Components: c, DisplayName: display}
}
