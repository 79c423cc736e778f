// Package logger provides structured logging using zap.
//
// Until Init is called every helper logs to a no-op logger, so library
// packages can log unconditionally.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is the global logger instance.
var Log = zap.NewNop()

// Sugar is the sugared logger for convenient logging.
var Sugar = Log.Sugar()

// Options configures Init.
type Options struct {
	Level string
	// Format is "console" (default) or "json" and applies to stderr output.
	Format  string
	File    FileConfig
	Console bool
}

// FileConfig holds file logging configuration. An empty Path disables
// file output.
type FileConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// DefaultFileConfig returns default file logging settings.
func DefaultFileConfig(path string) FileConfig {
	return FileConfig{
		Path:       path,
		MaxSizeMB:  50,
		MaxBackups: 3,
		MaxAgeDays: 7,
		Compress:   true,
	}
}

// Init initializes the logger with the given level and optional file output.
func Init(level string, logFile string) {
	opts := Options{Level: level, Console: true}
	if logFile != "" {
		opts.File = DefaultFileConfig(logFile)
	}
	InitWithOptions(opts)
}

// InitWithOptions builds the global logger from opts. Console output goes
// to stderr so command output on stdout stays clean.
func InitWithOptions(opts Options) {
	lvl := parseLevel(opts.Level)

	var cores []zapcore.Core

	if opts.Console {
		cfg := zapcore.EncoderConfig{
			TimeKey:          "time",
			LevelKey:         "level",
			NameKey:          "logger",
			MessageKey:       "msg",
			CallerKey:        "caller",
			EncodeTime:       zapcore.TimeEncoderOfLayout("15:04:05"),
			EncodeLevel:      zapcore.CapitalColorLevelEncoder,
			EncodeCaller:     zapcore.ShortCallerEncoder,
			EncodeName:       zapcore.FullNameEncoder,
			ConsoleSeparator: " ",
		}
		var enc zapcore.Encoder
		if opts.Format == "json" {
			cfg.EncodeTime = zapcore.ISO8601TimeEncoder
			cfg.EncodeLevel = zapcore.LowercaseLevelEncoder
			enc = zapcore.NewJSONEncoder(cfg)
		} else {
			enc = zapcore.NewConsoleEncoder(cfg)
		}
		cores = append(cores, zapcore.NewCore(enc, zapcore.AddSync(os.Stderr), lvl))
	}

	if opts.File.Path != "" {
		fileWriter := &lumberjack.Logger{
			Filename:   opts.File.Path,
			MaxSize:    opts.File.MaxSizeMB,
			MaxBackups: opts.File.MaxBackups,
			MaxAge:     opts.File.MaxAgeDays,
			Compress:   opts.File.Compress,
			LocalTime:  true,
		}

		fileEncoder := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
			TimeKey:          "time",
			LevelKey:         "level",
			NameKey:          "logger",
			MessageKey:       "msg",
			CallerKey:        "caller",
			EncodeTime:       zapcore.ISO8601TimeEncoder,
			EncodeLevel:      zapcore.CapitalLevelEncoder,
			EncodeCaller:     zapcore.ShortCallerEncoder,
			EncodeName:       zapcore.FullNameEncoder,
			ConsoleSeparator: " ",
		})
		cores = append(cores, zapcore.NewCore(fileEncoder, zapcore.AddSync(fileWriter), lvl))
	}

	SetLogger(zap.New(zapcore.NewTee(cores...), zap.AddCaller()))
}

// SetLogger replaces the global logger and returns a function restoring the
// previous one.
func SetLogger(l *zap.Logger) (restore func()) {
	prevLog, prevSugar := Log, Sugar
	Log = l
	Sugar = l.Sugar()
	return func() {
		Log, Sugar = prevLog, prevSugar
	}
}

// Named returns a child of the global logger. The child is bound at call
// time; later SetLogger calls do not affect it.
func Named(name string) *zap.Logger {
	return Log.Named(name)
}

// parseLevel converts a string level to zapcore.Level.
func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Sync flushes any buffered log entries.
func Sync() {
	_ = Log.Sync()
}

func Debug(msg string, fields ...zap.Field) {
	Log.Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	Log.Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	Log.Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	Log.Error(msg, fields...)
}
