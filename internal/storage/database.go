// Package storage 将扫描报告投影写入 SQLite
//
// 每次扫描生成独立的数据库文件并覆盖上一次的结果，不做跨次扫描的持久化。
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"docScanGuard/internal/logger"
)

// Options 数据库打开选项
type Options struct {
	LogLevel    string // silent, error, warn, info
	JournalMode string // DELETE，避免在报告目录留下 -wal/-shm 文件
	Synchronous string // NORMAL
	BatchSize   int    // 批量插入大小
}

// DefaultOptions 默认选项
func DefaultOptions() Options {
	return Options{
		LogLevel:    "silent",
		JournalMode: "DELETE",
		Synchronous: "NORMAL",
		BatchSize:   100,
	}
}

// DB 报告快照数据库
type DB struct {
	db   *gorm.DB
	opts Options
	path string
}

// Open 打开 (或创建) 数据库文件
func Open(path string, opts Options) (*DB, error) {
	defaults := DefaultOptions()
	if opts.JournalMode == "" {
		opts.JournalMode = defaults.JournalMode
	}
	if opts.Synchronous == "" {
		opts.Synchronous = defaults.Synchronous
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaults.BatchSize
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create db dir: %w", err)
	}

	gormConfig := &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormLogLevel(opts.LogLevel)),
		SkipDefaultTransaction: true,
	}

	conn, err := gorm.Open(sqlite.Open(path), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %s: %w", path, err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	// 单连接，PRAGMA 对后续所有语句生效
	sqlDB.SetMaxOpenConns(1)

	pragmas := []string{
		fmt.Sprintf("PRAGMA journal_mode = %s;", opts.JournalMode),
		fmt.Sprintf("PRAGMA synchronous = %s;", opts.Synchronous),
	}
	for _, p := range pragmas {
		if err := conn.Exec(p).Error; err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("failed to exec pragma %s: %w", p, err)
		}
	}

	if err := conn.AutoMigrate(&ScanRun{}, &ScanRecord{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	logger.Debug("Snapshot database opened", "path", path, "journal_mode", opts.JournalMode)
	return &DB{db: conn, opts: opts, path: path}, nil
}

// Close 关闭数据库连接
func (d *DB) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// RemoveFiles 删除数据库文件及其日志文件，文件不存在不视为错误
func RemoveFiles(path string) error {
	for _, p := range []string{path, path + "-journal", path + "-wal", path + "-shm"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

// withContext 返回绑定 ctx 的会话
func (d *DB) withContext(ctx context.Context) *gorm.DB {
	return d.db.WithContext(ctx)
}

func gormLogLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "error":
		return gormlogger.Error
	case "warn":
		return gormlogger.Warn
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Silent
	}
}
