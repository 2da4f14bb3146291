package middleware

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
)

// NewJSONHandler builds the slog handler used across the service. The record
// time is written as "ts" in RFC3339Nano, rendered in loc.
func NewJSONHandler(w io.Writer, level slog.Leveler, loc *time.Location) slog.Handler {
	if loc == nil {
		loc = time.UTC
	}
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.String("ts", a.Value.Time().In(loc).Format(time.RFC3339Nano))
			}
			return a
		},
	})
}

// InitLogger installs the default JSON logger on stdout. Unknown levels fall back to info.
func InitLogger(level string, loc *time.Location) {
	var programLevel slog.Level
	if err := (&programLevel).UnmarshalText([]byte(level)); err != nil {
		fmt.Fprintf(os.Stderr, "invalid log level %s: %v, using info\n", level, err)
		programLevel = slog.LevelInfo
	}

	leveler := &slog.LevelVar{}
	leveler.Set(programLevel)
	slog.SetDefault(slog.New(NewJSONHandler(os.Stdout, leveler, loc)))
}

// Logger logs each HTTP request through the default slog logger.
func Logger() fiber.Handler {
	return requestLogger(func() *slog.Logger { return slog.Default() })
}

// LoggerWithWriter logs each HTTP request as one JSON line on w.
func LoggerWithWriter(w io.Writer, loc *time.Location) fiber.Handler {
	l := slog.New(NewJSONHandler(w, slog.LevelInfo, loc))
	return requestLogger(func() *slog.Logger { return l })
}

// requestLogger emits request_id, method, path, status and latency in milliseconds.
func requestLogger(logger func() *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}

		level := slog.LevelInfo
		if status >= fiber.StatusInternalServerError {
			level = slog.LevelError
		}

		rid, _ := c.Locals(RequestIDLocalKey).(string)
		logger().LogAttrs(c.UserContext(), level, "request",
			slog.String("request_id", rid),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", status),
			slog.Float64("latency", float64(time.Since(start).Microseconds())/1000),
		)

		return err
	}
}
