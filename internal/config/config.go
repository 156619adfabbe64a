// 包 config：集中读取 .env 与环境变量，供服务入口与 CLI 共用
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// HTTP
	Addr         string
	APIBase      string
	RateLimit    bool
	RateLimitQPS int
	TLSEnable    bool
	TLSCertPath  string
	TLSKeyPath   string

	// 存储
	StoreDriver string // postgres | sqlite | memory
	SQLitePath  string

	// Redis 缓存（可选）
	RedisEnabled bool

	// 分类法
	Namespace      string
	OwnerType      string
	SlugLocale     string
	MinLevel       int
	MaxLevel       int
	Separator      string
	ArchiveBaseURL string

	// 地理编码
	GeocoderURL       string
	GeocoderUserAgent string
	GeocoderEmail     string
	GeocodeTimeout    time.Duration
	GeocodeCacheTTL   time.Duration
	GeocodeLRUSize    int
	ExtGeocoderURL    string
	ExtGeocoderName   string
	HeartbeatInterval time.Duration
}

// Load：加载 .env（当前目录与 data/env）后读取环境变量
// 约束：.env 缺失不视为错误；非法数值回退为默认值
func Load() (*Config, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join("data", "env", ".env"))

	cfg := &Config{
		Addr:         getEnv("ADDR", ":8080"),
		APIBase:      getEnv("API_BASE", "/api"),
		RateLimit:    getEnvAsBool("RATE_LIMIT_ENABLED", false),
		RateLimitQPS: getEnvAsInt("RATE_LIMIT_QPS", 200),
		TLSEnable:    getEnvAsBool("TLS_ENABLE", false),
		TLSCertPath:  getEnv("TLS_CERT_PATH", filepath.Join("data", "certs", "server.crt")),
		TLSKeyPath:   getEnv("TLS_KEY_PATH", filepath.Join("data", "certs", "server.key")),

		StoreDriver: getEnv("STORE_DRIVER", "sqlite"),
		SQLitePath:  getEnv("SQLITE_PATH", filepath.Join("data", "hierarchy.db")),

		RedisEnabled: getEnvAsBool("REDIS_ENABLED", false),

		Namespace:      getEnv("TERM_NAMESPACE", "location"),
		OwnerType:      getEnv("OWNER_TYPE", "event"),
		SlugLocale:     getEnv("SLUG_LOCALE", "en"),
		MinLevel:       getEnvAsInt("HIERARCHY_MIN_LEVEL", 1),
		MaxLevel:       getEnvAsInt("HIERARCHY_MAX_LEVEL", 6),
		Separator:      getEnvRaw("HIERARCHY_SEPARATOR", " > "),
		ArchiveBaseURL: getEnv("ARCHIVE_BASE_URL", "http://localhost:8080"),

		GeocoderURL:       getEnv("GEOCODER_URL", "https://nominatim.openstreetmap.org"),
		GeocoderUserAgent: getEnv("GEOCODER_USER_AGENT", "location-hierarchy/1.0"),
		GeocoderEmail:     getEnv("GEOCODER_EMAIL", ""),
		GeocodeTimeout:    getEnvAsDuration("GEOCODE_TIMEOUT", 10*time.Second),
		GeocodeCacheTTL:   getEnvAsDuration("GEOCODE_CACHE_TTL", time.Hour),
		GeocodeLRUSize:    getEnvAsInt("GEOCODE_LRU_SIZE", 1024),
		ExtGeocoderURL:    getEnv("EXT_GEOCODER_ENDPOINT", ""),
		ExtGeocoderName:   getEnv("EXT_GEOCODER_NAME", "ext"),
		HeartbeatInterval: getEnvAsDuration("GEOCODER_HEARTBEAT_INTERVAL", 30*time.Second),
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvRaw：保留首尾空白（分隔符 " > " 依赖空格）
func getEnvRaw(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
