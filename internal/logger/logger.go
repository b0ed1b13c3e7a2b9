// Package logger 全局结构化日志
// 调用方式: logger.Info("msg", "key", value)
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options 日志初始化选项
type Options struct {
	Level      string // debug, info, warn, error
	FilePath   string // 为空时只输出到控制台
	MaxSize    int    // MB
	MaxBackups int
	MaxAge     int // 天
	Compress   bool
	Stdout     bool // 写文件的同时输出到 stderr
	JSON       bool
}

var (
	mu      sync.RWMutex
	current = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	rotator *lumberjack.Logger
)

// Setup 初始化日志系统，可重复调用 (后一次覆盖前一次)
func Setup(opts Options) error {
	var writers []io.Writer

	var rot *lumberjack.Logger
	if opts.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(opts.FilePath), 0755); err != nil {
			return fmt.Errorf("create log dir: %w", err)
		}
		rot = &lumberjack.Logger{
			Filename:   opts.FilePath,
			MaxSize:    opts.MaxSize,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAge,
			Compress:   opts.Compress,
		}
		writers = append(writers, rot)
	}
	if opts.Stdout || len(writers) == 0 {
		writers = append(writers, os.Stderr)
	}

	New(io.MultiWriter(writers...), opts)

	mu.Lock()
	old := rotator
	rotator = rot
	mu.Unlock()
	if old != nil {
		_ = old.Close()
	}
	return nil
}

// New 使用给定 writer 替换全局 logger，主要用于测试
func New(w io.Writer, opts Options) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: ParseLevel(opts.Level)}

	var h slog.Handler
	if opts.JSON {
		h = slog.NewJSONHandler(w, handlerOpts)
	} else {
		h = slog.NewTextHandler(w, handlerOpts)
	}
	l := slog.New(h)

	mu.Lock()
	current = l
	mu.Unlock()
	return l
}

// ParseLevel 解析日志级别，无法识别时返回 info
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

// L 返回当前全局 logger
func L() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Close 关闭日志文件
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if rotator == nil {
		return nil
	}
	err := rotator.Close()
	rotator = nil
	return err
}

func Debug(msg string, args ...any) { L().Debug(msg, args...) }
func Info(msg string, args ...any)  { L().Info(msg, args...) }
func Warn(msg string, args ...any)  { L().Warn(msg, args...) }
func Error(msg string, args ...any) { L().Error(msg, args...) }
