package util

import (
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	globalLogger *zap.SugaredLogger
	loggerMu     sync.Mutex
)

// InitLogger configures the global logger. Log lines always go to logFile;
// with debugToConsole they are echoed to stderr as well.
func InitLogger(levelStr string, logFile string, debugToConsole bool) {
	loggerMu.Lock()
	defer loggerMu.Unlock()

	level := parseLogLevel(levelStr)

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	cores := make([]zapcore.Core, 0, 2)

	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err == nil {
			if f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
				cores = append(cores, zapcore.NewCore(
					zapcore.NewConsoleEncoder(encoderCfg),
					zapcore.AddSync(f),
					level,
				))
			}
		}
	}

	if debugToConsole || len(cores) == 0 {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoderCfg),
			zapcore.AddSync(os.Stderr),
			level,
		))
	}

	globalLogger = zap.New(zapcore.NewTee(cores...)).Sugar()
}

func parseLogLevel(levelStr string) zapcore.Level {
	switch levelStr {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func logger() *zap.SugaredLogger {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	if globalLogger == nil {
		globalLogger = zap.NewNop().Sugar()
	}
	return globalLogger
}

func LogDebug(msg string)                          { logger().Debug(msg) }
func LogDebugf(format string, args ...interface{}) { logger().Debugf(format, args...) }
func LogInfo(msg string)                           { logger().Info(msg) }
func LogInfof(format string, args ...interface{})  { logger().Infof(format, args...) }
func LogWarn(msg string)                           { logger().Warn(msg) }
func LogWarnf(format string, args ...interface{})  { logger().Warnf(format, args...) }
func LogError(msg string)                          { logger().Error(msg) }
func LogErrorf(format string, args ...interface{}) { logger().Errorf(format, args...) }

// SyncLogger flushes buffered log entries. Safe to call on shutdown.
func SyncLogger() {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	if globalLogger != nil {
		_ = globalLogger.Sync()
	}
}
