package log

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel defines the severity level for log messages.
type LogLevel string

const (
	// LogInfo is used for general informational messages.
	LogInfo LogLevel = "info"

	// LogWarn is used for potentially harmful situations.
	LogWarn LogLevel = "warn"

	// LogError is used for error events that might still allow the application to continue running.
	LogError LogLevel = "error"

	// LogDebug is used for debugging messages with detailed internal information.
	LogDebug LogLevel = "debug"
)

// Config selects the level and encoding of a logger.
// Encoding is "json" or "console".
type Config struct {
	Level    LogLevel
	Encoding string
}

// New builds a zap logger from cfg. An empty level means info and an empty
// encoding means console.
func New(cfg Config) (*zap.Logger, error) {
	level, err := zapLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	zcfg := zap.NewProductionConfig()
	if cfg.Encoding == "" || cfg.Encoding == "console" {
		zcfg = zap.NewDevelopmentConfig()
	} else if cfg.Encoding != "json" {
		return nil, fmt.Errorf("unknown log encoding: %q", cfg.Encoding)
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}

// NewConsole returns a console logger writing to w at the given level.
// A nil w means stdout.
func NewConsole(level LogLevel, w io.Writer) (*zap.Logger, error) {
	zl, err := zapLevel(level)
	if err != nil {
		return nil, err
	}
	if w == nil {
		w = os.Stdout
	}
	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.Lock(zapcore.AddSync(w)),
		zl,
	)
	return zap.New(consoleCore), nil
}

// OrNop returns logger, or a no-op logger when it is nil.
func OrNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func zapLevel(level LogLevel) (zapcore.Level, error) {
	switch level {
	case "", LogInfo:
		return zap.InfoLevel, nil
	case LogWarn:
		return zap.WarnLevel, nil
	case LogError:
		return zap.ErrorLevel, nil
	case LogDebug:
		return zap.DebugLevel, nil
	default:
		return zap.InfoLevel, fmt.Errorf("unknown log level: %q", level)
	}
}
