package logging

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// A Level is a logging priority. Higher levels are more important.
type Level int8

// Logging levels (matching zap core internals).
const (
	// DebugLevel logs are typically voluminous, and are usually disabled in
	// production.
	DebugLevel Level = -1
	// InfoLevel is the default logging priority.
	InfoLevel Level = 0
	// WarnLevel logs are more important than Info, but don't need individual
	// human review.
	WarnLevel Level = 1
	// ErrorLevel logs are high-priority. If an application is running smoothly,
	// it shouldn't generate any error-level logs.
	ErrorLevel Level = 2
)

// ZapLevel returns the zap core representation of the level.
func (l Level) ZapLevel() zapcore.Level {
	return zapcore.Level(l)
}

func (l Level) String() string {
	return l.ZapLevel().String()
}

// ParseLevel maps a string representation onto a Level.
func ParseLevel(l string) (Level, error) {
	var zl zapcore.Level
	if err := zl.UnmarshalText([]byte(l)); err != nil {
		return InfoLevel, errors.Wrapf(err, "invalid log level %q", l)
	}
	return Level(zl), nil
}

// Logger is a thin wrapper over a zap logger which keeps hold of its
// config so that named sub-loggers can be re-levelled independently.
type Logger struct {
	*zap.Logger
	config *zap.Config
	name   string
}

// New wraps an already built zap core in a Logger.
func New(core zapcore.Core, cfg *zap.Config) *Logger {
	return &Logger{
		Logger: zap.New(core),
		config: cfg,
	}
}

// Clone returns a copy of the logger with its own level, so changing the
// level of the clone does not affect the parent.
func (log *Logger) Clone() *Logger {
	newConfig := cloneConfig(log.config)
	newLogger, err := newConfig.Build()
	if err != nil {
		panic(err)
	}
	return &Logger{
		Logger: newLogger,
		config: newConfig,
		name:   log.name,
	}
}

// Named returns a clone of the logger with the given name appended to the
// logger hierarchy, e.g. "execution.matching".
func (log *Logger) Named(name string) *Logger {
	c := log.Clone()
	newName := name
	if log.name != "" {
		newName = fmt.Sprintf("%s.%s", log.name, name)
	}
	return &Logger{
		Logger: c.Logger.Named(newName),
		config: c.config,
		name:   newName,
	}
}

// GetLevel returns the current level of the logger.
func (log *Logger) GetLevel() Level {
	return Level(log.config.Level.Level())
}

// SetLevel changes the level of the logger in place.
func (log *Logger) SetLevel(level Level) {
	if log.config.Level.Level() == level.ZapLevel() {
		return
	}
	log.config.Level.SetLevel(level.ZapLevel())
}

// With returns a clone of the logger carrying the given fields.
func (log *Logger) With(fields ...zap.Field) *Logger {
	c := log.Clone()
	return &Logger{
		Logger: c.Logger.With(fields...),
		config: c.config,
		name:   c.name,
	}
}

// AtExit flushes the logs before exiting the process. This is meant to be
// used with defer when initialising your logger.
func (log *Logger) AtExit() {
	if log.Logger != nil {
		_ = log.Logger.Sync()
	}
}

func cloneConfig(cfg *zap.Config) *zap.Config {
	c := zap.Config{
		Level:             zap.NewAtomicLevelAt(cfg.Level.Level()),
		Development:       cfg.Development,
		DisableCaller:     cfg.DisableCaller,
		DisableStacktrace: cfg.DisableStacktrace,
		Encoding:          cfg.Encoding,
		EncoderConfig:     cfg.EncoderConfig,
		OutputPaths:       cfg.OutputPaths,
		ErrorOutputPaths:  cfg.ErrorOutputPaths,
		InitialFields:     make(map[string]interface{}),
	}
	for k, v := range cfg.InitialFields {
		c.InitialFields[k] = v
	}
	if cfg.Sampling != nil {
		c.Sampling = &zap.SamplingConfig{
			Initial:    cfg.Sampling.Initial,
			Thereafter: cfg.Sampling.Thereafter,
		}
	}
	return &c
}

// NewLoggerFromEnv builds a logger suited to the given environment, "dev"
// getting a human readable console encoding and anything else JSON.
func NewLoggerFromEnv(env string) *Logger {
	var (
		encoderConfig zapcore.EncoderConfig
		encoder       zapcore.Encoder
		level         zapcore.Level
		encoding      string
	)
	switch env {
	case "dev":
		encoderConfig = zapcore.EncoderConfig{
			CallerKey:      "C",
			EncodeCaller:   zapcore.ShortCallerEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeLevel:    zapcore.CapitalLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			LevelKey:       "L",
			LineEnding:     "\n",
			MessageKey:     "M",
			NameKey:        "N",
			TimeKey:        "T",
		}
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
		level = DebugLevel.ZapLevel()
		encoding = "console"
	default:
		encoderConfig = zapcore.EncoderConfig{
			CallerKey:      "caller",
			EncodeCaller:   zapcore.ShortCallerEncoder,
			EncodeDuration: zapcore.SecondsDurationEncoder,
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
			EncodeName:     zapcore.FullNameEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			LevelKey:       "level",
			LineEnding:     "\n",
			MessageKey:     "message",
			NameKey:        "logger",
			StacktraceKey:  "stacktrace",
			TimeKey:        "@timestamp",
		}
		encoder = zapcore.NewJSONEncoder(encoderConfig)
		level = InfoLevel.ZapLevel()
		encoding = "json"
	}

	config := &zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      env == "dev",
		Encoding:         encoding,
		EncoderConfig:    encoderConfig,
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}
	core := zapcore.NewCore(encoder, os.Stdout, config.Level)
	return New(core, config)
}

// NewTestLogger returns a debug level dev logger, for use in tests.
func NewTestLogger() *Logger {
	return NewLoggerFromEnv("dev")
}
