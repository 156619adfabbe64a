package geocode

import (
	"context"
	"errors"
	"sync"
	"time"

	"location-hierarchy/internal/logger"
	"location-hierarchy/internal/metrics"
)

type status struct {
	healthy bool
	last    time.Time
}

// Manager：提供方注册、心跳与健康筛选
// 约束：按注册顺序尝试健康提供方，返回首个成功结果；心跳失败的提供方在下次心跳成功前不参与查询
type Manager struct {
	mu         sync.RWMutex
	ps         []Provider
	st         map[string]status
	hbInterval time.Duration
}

func NewManager(interval time.Duration) *Manager {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Manager{st: make(map[string]status), hbInterval: interval}
}

// Register：注册即视为健康；重名时替换原提供方并保留其位置
func (m *Manager) Register(p Provider) {
	m.mu.Lock()
	defer m.mu.Unlock()
	replaced := false
	for i, old := range m.ps {
		if old.Name() == p.Name() {
			m.ps[i] = p
			replaced = true
			break
		}
	}
	if !replaced {
		m.ps = append(m.ps, p)
	}
	m.st[p.Name()] = status{healthy: true, last: time.Now()}
	logger.L().Info("geocoder_registered", "name", p.Name())
}

func (m *Manager) Healthy() []Provider {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Provider
	for _, p := range m.ps {
		if m.st[p.Name()].healthy {
			out = append(out, p)
		}
	}
	return out
}

// Start：周期心跳，ctx 取消时停止
func (m *Manager) Start(ctx context.Context) {
	t := time.NewTicker(m.hbInterval)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				m.Heartbeat(ctx)
			}
		}
	}()
}

// Heartbeat：对全部提供方执行一次心跳；网络调用不持锁
func (m *Manager) Heartbeat(ctx context.Context) {
	m.mu.RLock()
	ps := append([]Provider(nil), m.ps...)
	m.mu.RUnlock()
	for _, p := range ps {
		err := p.Heartbeat(ctx)
		s := status{healthy: err == nil, last: time.Now()}
		m.mu.Lock()
		m.st[p.Name()] = s
		m.mu.Unlock()
		if err != nil {
			logger.L().Warn("geocoder_heartbeat_fail", "name", p.Name(), "err", err)
			metrics.GeocodeHeartbeatTotal.WithLabelValues(p.Name(), "fail").Inc()
			continue
		}
		logger.L().Debug("geocoder_heartbeat_ok", "name", p.Name())
		metrics.GeocodeHeartbeatTotal.WithLabelValues(p.Name(), "ok").Inc()
	}
}

// Geocode：依次尝试健康提供方
// 返回：全部无结果时返回 ErrNoResult；存在其他错误时返回最后一个错误；无健康提供方返回 ErrNoProvider
func (m *Manager) Geocode(ctx context.Context, addr string) (*Result, error) {
	hs := m.Healthy()
	if len(hs) == 0 {
		return nil, ErrNoProvider
	}
	var lastErr error
	for _, p := range hs {
		t0 := time.Now()
		metrics.GeocodeRequestsTotal.WithLabelValues(p.Name()).Inc()
		r, err := p.Geocode(ctx, addr)
		metrics.GeocodeDurationMs.WithLabelValues(p.Name()).Observe(float64(time.Since(t0).Milliseconds()))
		if err == nil && r != nil {
			metrics.GeocodeSuccessTotal.WithLabelValues(p.Name()).Inc()
			return r, nil
		}
		metrics.GeocodeFailTotal.WithLabelValues(p.Name()).Inc()
		if err == nil {
			err = ErrNoResult
		}
		logger.L().Debug("geocoder_query_fail", "name", p.Name(), "err", err)
		if lastErr == nil || !errors.Is(err, ErrNoResult) {
			lastErr = err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}
