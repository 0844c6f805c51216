package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Config holds the logger configuration
type Config struct {
	Level        string // debug, info, warn, error
	Format       string // json, text
	Output       io.Writer
	EnableCaller bool
	Component    string
	Environment  string
}

// Logger wraps slog.Logger with the request and caller helpers the API uses
type Logger struct {
	*slog.Logger
	enableCaller bool
}

const requestIDKey = "request_id"

var defaultLogger = New(Config{Level: "info", Format: "text", Output: os.Stdout})

// New creates a logger from the given configuration
func New(cfg Config) *Logger {
	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}

	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		handler = slog.NewTextHandler(output, opts)
	} else {
		handler = slog.NewJSONHandler(output, opts)
	}

	l := slog.New(handler)
	if cfg.Component != "" {
		l = l.With("component", cfg.Component)
	}
	if cfg.Environment != "" {
		l = l.With("environment", cfg.Environment)
	}

	return &Logger{Logger: l, enableCaller: cfg.EnableCaller}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Get returns the process-wide logger
func Get() *Logger {
	return defaultLogger
}

// Set replaces the process-wide logger and makes it the slog default
func Set(l *Logger) {
	defaultLogger = l
	slog.SetDefault(l.Logger)
}

// With returns a logger carrying additional attributes
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...), enableCaller: l.enableCaller}
}

// WithComponent returns a logger tagged with a component name
func (l *Logger) WithComponent(component string) *Logger {
	return l.With("component", component)
}

// Error logs at error level, adding the caller when enabled
func (l *Logger) Error(msg string, args ...any) {
	if l.enableCaller {
		if _, file, line, ok := runtime.Caller(1); ok {
			args = append(args, "caller", fmt.Sprintf("%s:%d", filepath.Base(file), line))
		}
	}
	l.Logger.Error(msg, args...)
}

// GinMiddleware logs every request's start and completion with a request id
func (l *Logger) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Header("X-Request-ID", requestID)

		reqLog := l.With(
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"remote_addr", c.ClientIP(),
		)
		reqLog.Debug("HTTP request started")

		c.Next()

		status := c.Writer.Status()
		args := []any{"status_code", status, "duration_ms", time.Since(start).Milliseconds()}
		switch {
		case status >= 500:
			reqLog.Error("HTTP request completed", args...)
		case status >= 400:
			reqLog.Warn("HTTP request completed", args...)
		default:
			reqLog.Info("HTTP request completed", args...)
		}
	}
}

// RequestID returns the id assigned to the current request by GinMiddleware
func RequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
