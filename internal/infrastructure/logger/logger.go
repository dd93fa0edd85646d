package logger

import (
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/LavaJover/shvark-activity-service/internal/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup builds the process logger from cfg, installs it as the slog default
// and bridges the std log package into it. The returned closer releases the
// log file, if any.
func Setup(service string, cfg config.LogConfig) (*slog.Logger, io.Closer) {
	out, closer := output(cfg)

	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.LogLevel)}
	var handler slog.Handler
	if strings.EqualFold(cfg.LogFormat, "text") {
		handler = slog.NewTextHandler(out, opts)
	} else {
		handler = slog.NewJSONHandler(out, opts)
	}

	attrs := []slog.Attr{slog.String("service", service)}
	handler = handler.WithAttrs(attrs)

	base := slog.New(handler)
	slog.SetDefault(base)

	stdBridge := slog.NewLogLogger(handler, slog.LevelInfo)
	log.SetOutput(stdBridge.Writer())
	log.SetFlags(0)
	log.SetPrefix("")

	return base, closer
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func output(cfg config.LogConfig) (io.Writer, io.Closer) {
	switch strings.ToLower(strings.TrimSpace(cfg.LogOutput)) {
	case "", "stdout":
		return os.Stdout, nopCloser{}
	case "stderr":
		return os.Stderr, nopCloser{}
	}
	rotator := &lumberjack.Logger{
		Filename:   cfg.LogOutput,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}
	return rotator, rotator
}
