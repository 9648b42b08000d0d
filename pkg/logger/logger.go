// Package logger wraps zap with the log levels kubelift uses on the
// console: the usual debug/info/warn/error plus SUCCESS (a confirmed state
// transition, shown green) and FAIL (unrecoverable, exits the process).
// Console output goes through a custom encoder; file output is JSON and
// rotated by lumberjack.
package logger

import (
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Level is kubelift's log level. SuccessLevel and FailLevel have no zap
// equivalent and are rendered by the console encoder from a field.
type Level int8

const (
	DebugLevel Level = iota - 1
	InfoLevel
	SuccessLevel
	WarnLevel
	ErrorLevel
	// FailLevel logs and then exits the process with status 1.
	FailLevel
)

func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "debug"
	case InfoLevel:
		return "info"
	case SuccessLevel:
		return "success"
	case WarnLevel:
		return "warn"
	case ErrorLevel:
		return "error"
	case FailLevel:
		return "fail"
	default:
		return fmt.Sprintf("level(%d)", l)
	}
}

// CapitalString returns the bracketed prefix form, e.g. "SUCCESS".
func (l Level) CapitalString() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case SuccessLevel:
		return "SUCCESS"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	case FailLevel:
		return "FAIL"
	default:
		return fmt.Sprintf("LEVEL(%d)", l)
	}
}

// ToZapLevel maps a Level onto the zap level it is logged at. Success rides
// on Info and Fail on Fatal; the customlevel field keeps them apart for the
// console encoder.
func (l Level) ToZapLevel() zapcore.Level {
	switch l {
	case DebugLevel:
		return zapcore.DebugLevel
	case SuccessLevel:
		return zapcore.InfoLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	case FailLevel:
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// Options configures a Logger.
type Options struct {
	ConsoleLevel  Level
	FileLevel     Level
	LogFilePath   string
	ConsoleOutput bool
	FileOutput    bool
	ColorConsole  bool
	// TimestampFormat defaults to time.RFC3339.
	TimestampFormat string
	// MaxFileSizeMB and MaxBackups bound the rotated file output.
	MaxFileSizeMB int
	MaxBackups    int
}

// DefaultOptions logs INFO+ to a colored console and, when file output is
// enabled, DEBUG+ to kubelift.log.
func DefaultOptions() Options {
	return Options{
		ConsoleLevel:    InfoLevel,
		FileLevel:       DebugLevel,
		LogFilePath:     "kubelift.log",
		ConsoleOutput:   true,
		FileOutput:      false,
		ColorConsole:    true,
		TimestampFormat: time.RFC3339,
		MaxFileSizeMB:   50,
		MaxBackups:      5,
	}
}

// Logger wraps a zap.SugaredLogger with the custom levels.
type Logger struct {
	*zap.SugaredLogger
	opts Options
}

var (
	globalLogger *Logger
	once         sync.Once
)

// Init initializes the global logger. Safe to call more than once; only the
// first call takes effect. On failure it falls back to a plain development
// logger so logging is never unavailable.
func Init(opts Options) {
	once.Do(func() {
		var err error
		globalLogger, err = NewLogger(opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "logger init failed: %v, falling back to console\n", err)
			cfg := zap.NewDevelopmentConfig()
			l, _ := cfg.Build(zap.AddCallerSkip(1))
			globalLogger = &Logger{SugaredLogger: l.Sugar(), opts: DefaultOptions()}
		}
	})
}

// Get returns the global logger, initializing it with defaults if Init was
// never called.
func Get() *Logger {
	if globalLogger == nil {
		Init(DefaultOptions())
	}
	return globalLogger
}

// SyncGlobal flushes the global logger.
func SyncGlobal() {
	if globalLogger != nil {
		_ = globalLogger.Sync()
	}
}

// NewLogger builds an independent logger instance from opts.
func NewLogger(opts Options) (*Logger, error) {
	if opts.TimestampFormat == "" {
		opts.TimestampFormat = time.RFC3339
	}

	var cores []zapcore.Core

	if opts.ConsoleOutput {
		encCfg := zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.TimeEncoderOfLayout(opts.TimestampFormat)
		encCfg.TimeKey = "time"
		encCfg.LevelKey = "" // level prefix is emitted by the console encoder
		encCfg.MessageKey = "msg"

		enc := NewConsoleEncoder(encCfg, opts)
		enabler := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
			return lvl >= opts.ConsoleLevel.ToZapLevel()
		})
		cores = append(cores, zapcore.NewCore(enc, zapcore.Lock(os.Stdout), enabler))
	}

	if opts.FileOutput {
		if opts.LogFilePath == "" {
			return nil, fmt.Errorf("log file path cannot be empty when file output is enabled")
		}
		encCfg := zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.TimeEncoderOfLayout(opts.TimestampFormat)
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

		sink := zapcore.AddSync(&lumberjack.Logger{
			Filename:   opts.LogFilePath,
			MaxSize:    opts.MaxFileSizeMB,
			MaxBackups: opts.MaxBackups,
			Compress:   true,
		})
		enabler := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
			return lvl >= opts.FileLevel.ToZapLevel()
		})
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), sink, enabler))
	}

	if len(cores) == 0 {
		return &Logger{SugaredLogger: zap.NewNop().Sugar(), opts: opts}, nil
	}

	zl := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1))
	return &Logger{SugaredLogger: zl.Sugar(), opts: opts}, nil
}

func (l *Logger) log(level Level, template string, args ...interface{}) {
	if l == nil || l.SugaredLogger == nil {
		fmt.Fprintf(os.Stderr, "[%s] %s\n", level.CapitalString(), fmt.Sprintf(template, args...))
		if level == FailLevel {
			os.Exit(1)
		}
		return
	}
	msg := fmt.Sprintf(template, args...)
	field := zap.String("customlevel", level.CapitalString())
	lg := l.SugaredLogger.WithOptions(zap.AddCallerSkip(1))
	switch level {
	case DebugLevel:
		lg.Debugw(msg, field)
	case WarnLevel:
		lg.Warnw(msg, field)
	case ErrorLevel:
		lg.Errorw(msg, field)
	case FailLevel:
		lg.Fatalw(msg, field)
	default:
		lg.Infow(msg, field)
	}
}

// Debugf logs at DebugLevel.
func (l *Logger) Debugf(template string, args ...interface{}) {
	l.log(DebugLevel, template, args...)
}

// Infof logs at InfoLevel.
func (l *Logger) Infof(template string, args ...interface{}) {
	l.log(InfoLevel, template, args...)
}

// Successf logs at SuccessLevel, rendered green on the console.
func (l *Logger) Successf(template string, args ...interface{}) {
	l.log(SuccessLevel, template, args...)
}

// Warnf logs at WarnLevel.
func (l *Logger) Warnf(template string, args ...interface{}) {
	l.log(WarnLevel, template, args...)
}

// Errorf logs at ErrorLevel.
func (l *Logger) Errorf(template string, args ...interface{}) {
	l.log(ErrorLevel, template, args...)
}

// Failf logs at FailLevel and exits the process.
func (l *Logger) Failf(template string, args ...interface{}) {
	l.log(FailLevel, template, args...)
}

// With returns a child logger with the given structured context attached.
// The console encoder promotes the keys "pass", "rule" and "service" into
// the line prefix.
func (l *Logger) With(args ...interface{}) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.With(args...), opts: l.opts}
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	if l == nil || l.SugaredLogger == nil {
		return nil
	}
	return l.SugaredLogger.Sync()
}

// Package-level helpers logging through the global logger.

func Debug(template string, args ...interface{})   { Get().Debugf(template, args...) }
func Info(template string, args ...interface{})    { Get().Infof(template, args...) }
func Success(template string, args ...interface{}) { Get().Successf(template, args...) }
func Warn(template string, args ...interface{})    { Get().Warnf(template, args...) }
func Error(template string, args ...interface{})   { Get().Errorf(template, args...) }
func Fail(template string, args ...interface{})    { Get().Failf(template, args...) }
