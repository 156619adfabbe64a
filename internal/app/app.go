// 包 app：按配置装配存储、地理编码链、建链器、解析服务与展示入口，服务端与 CLI 共用
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"location-hierarchy/internal/api"
	"location-hierarchy/internal/builder"
	"location-hierarchy/internal/config"
	"location-hierarchy/internal/display"
	"location-hierarchy/internal/geocode"
	"location-hierarchy/internal/hierarchy"
	"location-hierarchy/internal/logger"
	"location-hierarchy/internal/resolve"
	"location-hierarchy/internal/slug"
	"location-hierarchy/internal/store"
	"location-hierarchy/internal/terms"
	"location-hierarchy/internal/utils"
)

type App struct {
	Config   *config.Config
	Store    terms.Store
	Geocoder geocode.Geocoder
	Manager  *geocode.Manager
	Slugs    *slug.Generator
	Levels   builder.RangeFunc
	Builder  *builder.Builder
	Resolver *resolve.Service
	Surface  *display.Surface

	closers []io.Closer
	log     *slog.Logger
}

// OpenStore：STORE_DRIVER 选择 postgres | sqlite | memory
func OpenStore(cfg *config.Config) (terms.Store, io.Closer, error) {
	switch cfg.StoreDriver {
	case "postgres":
		st, err := store.OpenPostgresFromEnv()
		if err != nil {
			return nil, nil, err
		}
		return st, st, nil
	case "sqlite", "":
		st, err := store.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return st, st, nil
	case "memory":
		return store.NewMemory(), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// Providers：Nominatim 总是注册在首位，EXT_GEOCODER_ENDPOINT 非空时追加外部提供方
func Providers(cfg *config.Config) []geocode.Provider {
	ps := []geocode.Provider{geocode.NewNominatim(cfg.GeocoderURL, cfg.GeocoderUserAgent, cfg.GeocoderEmail, cfg.GeocodeTimeout)}
	if cfg.ExtGeocoderURL != "" {
		ps = append(ps, geocode.NewHTTPProvider(cfg.ExtGeocoderName, cfg.ExtGeocoderURL, cfg.GeocodeTimeout))
	}
	return ps
}

// New：st 为空时按配置打开存储；geo 为空时按配置装配提供方与缓存
func New(ctx context.Context, cfg *config.Config, st terms.Store, geo geocode.Geocoder) (*App, error) {
	a := &App{Config: cfg, log: logger.Component("app")}
	if st == nil {
		var (
			c   io.Closer
			err error
		)
		st, c, err = OpenStore(cfg)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		if c != nil {
			a.closers = append(a.closers, c)
		}
		a.log.Info("store_open_ok", "driver", cfg.StoreDriver)
	}
	a.Store = st

	if geo == nil {
		a.Manager = geocode.NewManager(cfg.HeartbeatInterval)
		for _, p := range Providers(cfg) {
			a.Manager.Register(p)
		}
		geo = geocode.NewCached(a.Manager, geocode.NewLRU(cfg.GeocodeLRUSize, cfg.GeocodeCacheTTL), a.redis(ctx), cfg.GeocodeCacheTTL)
	}
	a.Geocoder = geo

	a.Slugs = slug.New(cfg.SlugLocale)
	a.Levels = builder.StaticRange(builder.LevelRange{Min: cfg.MinLevel, Max: cfg.MaxLevel})
	a.Builder = builder.New(st, a.Slugs)
	a.Resolver = resolve.New(geo, a.Builder, resolve.Options{
		Namespace: cfg.Namespace,
		Levels:    a.Levels,
		Timeout:   cfg.GeocodeTimeout,
	})
	a.Surface = display.New(display.Config{
		Store:     st,
		Link:      hierarchy.ArchiveLinker(cfg.ArchiveBaseURL),
		OwnerType: cfg.OwnerType,
		Namespace: cfg.Namespace,
		Separator: cfg.Separator,
		Levels:    a.Levels,
	})
	return a, nil
}

// redis：REDIS_ENABLED 为假或 Ping 失败时返回 nil，缓存退化为仅进程内
func (a *App) redis(ctx context.Context) *redis.Client {
	if !a.Config.RedisEnabled {
		a.log.Info("redis_disabled")
		return nil
	}
	rc := utils.OpenRedisFromEnv()
	if err := rc.Ping(ctx).Err(); err != nil {
		a.log.Error("redis_ping_error", "err", err)
		rc.Close()
		return nil
	}
	a.log.Info("redis_ping_ok")
	a.closers = append(a.closers, rc)
	return rc
}

// Deps：API 路由依赖
func (a *App) Deps() api.Deps {
	return api.Deps{
		Resolver:  a.Resolver,
		Surface:   a.Surface,
		Slugs:     a.Slugs,
		Levels:    a.Levels,
		OwnerType: a.Config.OwnerType,
		Namespace: a.Config.Namespace,
	}
}

func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
