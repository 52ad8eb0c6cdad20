// Package logger holds the process-wide zap logger.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu    sync.RWMutex
	base  *zap.Logger
	sugar *zap.SugaredLogger
	once  sync.Once
)

// Conf configures the logger. Output is "stdout" or "file".
type Conf struct {
	Output     string
	Path       string
	Filename   string
	Level      string
	KeepDays   int // days a rotated file is kept
	RotateSize int // MB per file before rotation
	RotateNum  int // rotated files kept
}

func SetDefaults() *Conf {
	return &Conf{
		Output:     "stdout",
		Path:       "./logs",
		Filename:   "charge-tracker.log",
		Level:      "INFO",
		KeepDays:   7,
		RotateSize: 100,
		RotateNum:  10,
	}
}

func (c *Conf) Validate() error {
	if c.Output != "file" {
		return nil
	}
	if c.Path == "" {
		return fmt.Errorf("log path is required when output is 'file'")
	}
	if c.Filename == "" {
		c.Filename = "charge-tracker.log"
	}
	if c.RotateSize <= 0 {
		c.RotateSize = 100
	}
	if c.RotateNum <= 0 {
		c.RotateNum = 10
	}
	if c.KeepDays <= 0 {
		c.KeepDays = 7
	}
	return nil
}

// New builds a logger from conf and installs it as the global logger.
func New(conf *Conf) (*zap.Logger, error) {
	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("invalid log config: %w", err)
	}

	var ws zapcore.WriteSyncer
	switch conf.Output {
	case "file":
		if err := os.MkdirAll(conf.Path, 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		ws = zapcore.AddSync(&lumberjack.Logger{
			Filename:   filepath.Join(conf.Path, conf.Filename),
			MaxSize:    conf.RotateSize,
			MaxBackups: conf.RotateNum,
			MaxAge:     conf.KeepDays,
			Compress:   true,
		})
	default:
		ws = zapcore.AddSync(os.Stdout)
	}

	core := zapcore.NewCore(encoder(), ws, ParseLevel(conf.Level))
	l := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))

	mu.Lock()
	base = l
	sugar = l.Sugar()
	mu.Unlock()

	return l, nil
}

func Init(conf *Conf) error {
	_, err := New(conf)
	return err
}

func MustInit(conf *Conf) {
	if err := Init(conf); err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
}

// L returns the global sugared logger, initializing stdout defaults on first use.
func L() *zap.SugaredLogger {
	mu.RLock()
	s := sugar
	mu.RUnlock()
	if s != nil {
		return s
	}
	once.Do(func() {
		mu.RLock()
		ready := sugar != nil
		mu.RUnlock()
		if !ready {
			_ = Init(SetDefaults())
		}
	})
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

// Named returns a child logger tagged with a component name.
func Named(name string) *zap.SugaredLogger {
	return L().Desugar().WithOptions(zap.AddCallerSkip(-1)).Sugar().Named(name)
}

func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	if base != nil {
		_ = base.Sync()
	}
}

func encoder() zapcore.Encoder {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.TimeKey = "time"
	cfg.LevelKey = "level"
	cfg.NameKey = "logger"
	cfg.CallerKey = "caller"
	cfg.MessageKey = "msg"
	cfg.StacktraceKey = "stacktrace"
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.EncodeTime = timeEncoder
	cfg.EncodeDuration = zapcore.StringDurationEncoder
	cfg.EncodeCaller = zapcore.ShortCallerEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

func timeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("2006-01-02 15:04:05"))
}

// ParseLevel is case-insensitive and falls back to INFO.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return zapcore.DebugLevel
	case "WARN", "WARNING":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	case "FATAL":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

func Debug(args ...interface{})                 { L().Debug(args...) }
func Info(args ...interface{})                  { L().Info(args...) }
func Infof(format string, args ...interface{})  { L().Infof(format, args...) }
func Infow(msg string, kv ...interface{})       { L().Infow(msg, kv...) }
func Debugf(format string, args ...interface{}) { L().Debugf(format, args...) }
func Debugw(msg string, kv ...interface{})      { L().Debugw(msg, kv...) }
func Warn(args ...interface{})                  { L().Warn(args...) }
func Warnf(format string, args ...interface{})  { L().Warnf(format, args...) }
func Warnw(msg string, kv ...interface{})       { L().Warnw(msg, kv...) }
func Error(args ...interface{})                 { L().Error(args...) }
func Errorf(format string, args ...interface{}) { L().Errorf(format, args...) }
func Errorw(msg string, kv ...interface{})      { L().Errorw(msg, kv...) }
func Fatal(args ...interface{})                 { L().Fatal(args...) }
func Fatalf(format string, args ...interface{}) { L().Fatalf(format, args...) }
