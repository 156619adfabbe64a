// 包 resolve：一次保存操作内的层级解析，地址文本 → 地理编码 → 归一化 → 建链 → 关联
package resolve

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"location-hierarchy/internal/address"
	"location-hierarchy/internal/builder"
	"location-hierarchy/internal/geocode"
	"location-hierarchy/internal/logger"
	"location-hierarchy/internal/metrics"
)

// 解析结果原因
const (
	ReasonOK           = "ok"
	ReasonEmptyAddress = "empty_address"
	ReasonNoResult     = "no_result"
	ReasonGeocodeError = "geocode_failed"
	ReasonEmptyChain   = "empty_chain"
	ReasonStoreError   = "store_failed"
)

// Outcome：对调用方的失败软化描述
// 约束：Aborted 为真且 Chain 为空时，owner 既有关联未被修改
type Outcome struct {
	OwnerID string                 `json:"owner_id"`
	Levels  address.LocationLevels `json:"levels"`
	Chain   []string               `json:"chain"`
	Aborted bool                   `json:"aborted"`
	Reason  string                 `json:"reason"`
	Error   string                 `json:"error,omitempty"`
}

type Service struct {
	geo       geocode.Geocoder
	b         *builder.Builder
	levels    builder.RangeFunc
	namespace string
	timeout   time.Duration
	log       *slog.Logger
}

type Options struct {
	Namespace string
	Levels    builder.RangeFunc
	// Timeout：单次地理编码上限，<=0 时为 10s
	Timeout time.Duration
}

func New(geo geocode.Geocoder, b *builder.Builder, opts Options) *Service {
	if opts.Levels == nil {
		opts.Levels = builder.DefaultLevelRange
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Namespace == "" {
		opts.Namespace = "location"
	}
	return &Service{
		geo:       geo,
		b:         b,
		levels:    opts.Levels,
		namespace: opts.Namespace,
		timeout:   opts.Timeout,
		log:       logger.Component("resolve"),
	}
}

// Resolve：不向调用方返回错误，全部失败以 Outcome 表达
// 规则：
// - 地址为空或地理编码失败：不触碰既有关联，等待下次保存重试；
// - 建链中途存储失败：已产出的前缀仍被关联，Reason=store_failed。
func (s *Service) Resolve(ctx context.Context, ownerID, addr string) Outcome {
	out := Outcome{OwnerID: ownerID}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return s.abort(out, ReasonEmptyAddress, nil)
	}

	gctx, cancel := context.WithTimeout(ctx, s.timeout)
	res, err := s.geo.Geocode(gctx, addr)
	cancel()
	if err != nil {
		if errors.Is(err, geocode.ErrNoResult) {
			return s.abort(out, ReasonNoResult, err)
		}
		return s.abort(out, ReasonGeocodeError, err)
	}

	out.Levels = address.Normalize(res.Components, res.CountryCode)
	return s.Apply(ctx, ownerID, out.Levels)
}

// Apply：直接以已归一化的层级建链并关联（导入、预解析数据）
func (s *Service) Apply(ctx context.Context, ownerID string, levels address.LocationLevels) Outcome {
	out := Outcome{OwnerID: ownerID, Levels: levels}
	ids, err := s.b.BuildAndAssociate(ctx, ownerID, levels, s.levels(), s.namespace)
	out.Chain = ids
	if err != nil {
		return s.abort(out, ReasonStoreError, err)
	}
	if len(ids) == 0 {
		return s.abort(out, ReasonEmptyChain, nil)
	}
	out.Reason = ReasonOK
	metrics.ResolutionsTotal.WithLabelValues(ReasonOK).Inc()
	s.log.Info("resolved", "owner", ownerID, "terms", len(ids), "depth", levels.Depth())
	return out
}

func (s *Service) abort(out Outcome, reason string, err error) Outcome {
	out.Aborted = true
	out.Reason = reason
	metrics.ResolutionsTotal.WithLabelValues(reason).Inc()
	attrs := []any{"owner", out.OwnerID, "reason", reason}
	if err != nil {
		out.Error = err.Error()
		attrs = append(attrs, "err", err)
		s.log.Warn("resolution_aborted", attrs...)
		return out
	}
	s.log.Info("resolution_aborted", attrs...)
	return out
}
