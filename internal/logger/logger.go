package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ContextKey context 中存放 logger 的 key 型別
type ContextKey string

const (
	// LoggerKey context 中 logger 的 key
	LoggerKey ContextKey = "logger"
)

// New 建立輸出到 stderr 的 console logger
// stdout 保留給選單輸出
func New() zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).With().Timestamp().Logger()
}

// NewWithWriter 建立寫到指定 writer 的 JSON logger
func NewWithWriter(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}

// NewWithLevel 依設定檔的 log.level 建立 logger
// 無法解析的等級使用 info
func NewWithLevel(level string) zerolog.Logger {
	return New().Level(ParseLevel(level))
}

// ParseLevel 解析等級字串 ("debug", "info", "warn", "error", "disabled")
func ParseLevel(level string) zerolog.Level {
	if strings.TrimSpace(level) == "" {
		return zerolog.InfoLevel
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

// WithContext 把 logger 放進 context
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// FromContext 從 context 取出 logger，沒有則回傳預設 logger
func FromContext(ctx context.Context) zerolog.Logger {
	if logger, ok := ctx.Value(LoggerKey).(zerolog.Logger); ok {
		return logger
	}
	return New()
}

// WithFields 附加結構化欄位
func WithFields(logger zerolog.Logger, fields map[string]any) zerolog.Logger {
	ctx := logger.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return ctx.Logger()
}
