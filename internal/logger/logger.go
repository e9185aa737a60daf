package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	defaultLogFile = "picfeed-server.log"

	rotateMaxSizeMB  = 50
	rotateMaxBackups = 10
	rotateMaxAgeDays = 14
)

// Log starts as a no-op so packages can log from tests without setup.
var Log = zap.NewNop()

// SugaredLog is used where a printf-style API is expected (the gorm adapter).
var SugaredLog = Log.Sugar()

// Initialize installs a logger that writes human-readable lines to stdout and
// rotated JSON lines to logFile. An unknown level is an error rather than a
// silent fallback so a typo in LOG_LEVEL is caught at boot.
func Initialize(logLevel string, logFile string) error {
	if logFile == "" {
		logFile = defaultLogFile
	}
	if logLevel == "" {
		logLevel = "info"
	}

	level, err := zapcore.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", logLevel, err)
	}

	rotated := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    rotateMaxSizeMB,
		MaxBackups: rotateMaxBackups,
		MaxAge:     rotateMaxAgeDays,
		Compress:   true,
	}

	fileCfg := zap.NewProductionEncoderConfig()
	fileCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	fileCfg.TimeKey = "ts"

	consoleCfg := zap.NewDevelopmentEncoderConfig()
	consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.Lock(os.Stdout), level),
		zapcore.NewCore(zapcore.NewJSONEncoder(fileCfg), zapcore.AddSync(rotated), level),
	)

	Log = zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.Fields(zap.String("service", "picfeed")),
	)
	SugaredLog = Log.Sugar()

	Log.Info("Logger ready", zap.Stringer("level", level), zap.String("file", logFile))
	return nil
}

// Close flushes buffered entries.
func Close() error {
	if Log == nil {
		return nil
	}
	return Log.Sync()
}

// ErrorWithFields logs msg at error level, attaching err when present.
func ErrorWithFields(msg string, err error) {
	if err == nil {
		Log.Error(msg)
		return
	}
	Log.Error(msg, zap.Error(err))
}

func WithRequestID(requestID string) zap.Field { return zap.String("request_id", requestID) }
func WithUserID(userID string) zap.Field       { return zap.String("user_id", userID) }
func WithPostID(postID string) zap.Field       { return zap.String("post_id", postID) }
func WithIP(ip string) zap.Field               { return zap.String("ip", ip) }
func WithStatus(status int) zap.Field          { return zap.Int("status", status) }
