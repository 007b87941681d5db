package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"toolkit-keeper/internal/config"
	"toolkit-keeper/internal/env"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	defaultLogger atomic.Pointer[zap.SugaredLogger]
)

// LogLevel 日志级别类型
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

// GetLogLevelFromString 将字符串转换为日志级别
func GetLogLevelFromString(level string) LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return DEBUG
	case "info":
		return INFO
	case "warn", "warning":
		return WARN
	case "error":
		return ERROR
	default:
		return WARN
	}
}

func (l LogLevel) zapLevel() zapcore.Level {
	switch l {
	case DEBUG:
		return zapcore.DebugLevel
	case INFO:
		return zapcore.InfoLevel
	case ERROR:
		return zapcore.ErrorLevel
	default:
		return zapcore.WarnLevel
	}
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "time"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return cfg
}

/**
 * Initialize logger from log configuration
 * @param {*config.LogConfig} cfg - Logging configuration
 * @description
 * - Writes to stdout when path is empty or "console"
 * - Otherwise appends to the given file, falling back to stdout if it cannot be opened
 */
func InitLogger(cfg *config.LogConfig) {
	var ws zapcore.WriteSyncer
	if cfg.Path == "console" || cfg.Path == "" {
		ws = zapcore.Lock(os.Stdout)
	} else {
		ws = setupLogFileOutput(cfg.Path)
	}
	install(ws, GetLogLevelFromString(cfg.Level))
}

// InitLoggerWithMode 根据运行模式初始化日志系统
// isServerMode: true表示HTTP服务器模式，false表示CLI模式
func InitLoggerWithMode(cfg *config.LogConfig, isServerMode bool) {
	logPath := cfg.Path
	if logPath == "console" || logPath == "" {
		logPath = filepath.Join(env.KeeperDir, "logs", "toolkit-keeper.log")
	}
	ws := setupLogFileOutput(logPath)

	// 服务器模式同时输出到控制台
	if isServerMode {
		ws = zapcore.NewMultiWriteSyncer(zapcore.Lock(os.Stdout), ws)
	}
	install(ws, GetLogLevelFromString(cfg.Level))
}

func install(ws zapcore.WriteSyncer, level LogLevel) {
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig()), ws, level.zapLevel())
	SetLogger(zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)))
}

// setupLogFileOutput 设置日志文件输出
func setupLogFileOutput(logPath string) zapcore.WriteSyncer {
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		fmt.Fprintf(os.Stderr, "create log directory failed: %v\n", err)
		return zapcore.Lock(os.Stdout)
	}

	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open log file failed: %v\n", err)
		return zapcore.Lock(os.Stdout)
	}
	return zapcore.AddSync(file)
}

/**
 * Replace the logger backend
 * @param {*zap.Logger} l - zap logger, nil disables logging
 * @example
 * core, logs := observer.New(zap.DebugLevel)
 * logger.SetLogger(zap.New(core))
 */
func SetLogger(l *zap.Logger) {
	if l == nil {
		defaultLogger.Store(nil)
		return
	}
	defaultLogger.Store(l.Sugar())
}

// Sync flushes buffered entries.
func Sync() {
	if l := defaultLogger.Load(); l != nil {
		_ = l.Sync()
	}
}

// Debug 输出调试日志
func Debug(v ...interface{}) {
	if l := defaultLogger.Load(); l != nil {
		l.Debug(v...)
	}
}

// Debugf 输出格式化调试日志
func Debugf(format string, v ...interface{}) {
	if l := defaultLogger.Load(); l != nil {
		l.Debugf(format, v...)
	}
}

// Info 输出信息日志
func Info(v ...interface{}) {
	if l := defaultLogger.Load(); l != nil {
		l.Info(v...)
	}
}

// Infof 输出格式化信息日志
func Infof(format string, v ...interface{}) {
	if l := defaultLogger.Load(); l != nil {
		l.Infof(format, v...)
	}
}

// Warn 输出警告日志
func Warn(v ...interface{}) {
	if l := defaultLogger.Load(); l != nil {
		l.Warn(v...)
	}
}

// Warnf 输出格式化警告日志
func Warnf(format string, v ...interface{}) {
	if l := defaultLogger.Load(); l != nil {
		l.Warnf(format, v...)
	}
}

// Error 输出错误日志
func Error(v ...interface{}) {
	if l := defaultLogger.Load(); l != nil {
		l.Error(v...)
	}
}

// Errorf 输出格式化错误日志
func Errorf(format string, v ...interface{}) {
	if l := defaultLogger.Load(); l != nil {
		l.Errorf(format, v...)
	}
}

// Fatal 输出致命错误日志并退出程序
func Fatal(v ...interface{}) {
	if l := defaultLogger.Load(); l != nil {
		l.Fatal(v...)
		return
	}
	fmt.Fprintln(os.Stderr, append([]interface{}{"FATAL:"}, v...)...)
	os.Exit(1)
}

// Fatalf 输出格式化致命错误日志并退出程序
func Fatalf(format string, v ...interface{}) {
	if l := defaultLogger.Load(); l != nil {
		l.Fatalf(format, v...)
		return
	}
	fmt.Fprintf(os.Stderr, "FATAL: "+format+"\n", v...)
	os.Exit(1)
}
