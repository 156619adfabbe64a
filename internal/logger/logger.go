// 包 logger：进程级日志器的初始化与获取，级别与格式由环境变量控制
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	mu            sync.RWMutex
	defaultLogger *slog.Logger
)

// Setup：按 LOG_LEVEL / LOG_FORMAT 构建默认日志器并写入标准错误
// 约束：重复调用会替换默认日志器；已通过 L() 取得的引用不受影响
func Setup() *slog.Logger {
	return SetupWriter(os.Stderr)
}

// SetupWriter：与 Setup 相同，但输出到指定 writer（测试与 CLI 静默模式使用）
func SetupWriter(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(os.Getenv("LOG_LEVEL"))}
	var h slog.Handler
	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	l := slog.New(h)
	mu.Lock()
	defaultLogger = l
	mu.Unlock()
	return l
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// L：获取默认日志器；未初始化时回退到 Setup
func L() *slog.Logger {
	mu.RLock()
	l := defaultLogger
	mu.RUnlock()
	if l == nil {
		return Setup()
	}
	return l
}

// Component：带 component 字段的子日志器，各服务对象构造时取一次
func Component(name string) *slog.Logger {
	return L().With("component", name)
}
