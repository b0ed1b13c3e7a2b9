// Package watch 监听文档目录变化，去抖后触发重新扫描
package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"docScanGuard/internal/logger"
)

// relevantOps 会影响报告内容的事件
const relevantOps = fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename

// ErrOutputInWatchedDir 报告写入被监听目录会不断触发新的扫描
var ErrOutputInWatchedDir = errors.New("watch: output directory must differ from the watched directory")

// CheckOutputDir 拒绝与 dir 为同一目录的输出目录 (含符号链接指向同一目录)
// 输出目录位于 dir 的子目录中不受影响，监听不递归
func CheckOutputDir(dir, outputDir string) error {
	a, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	b, err := filepath.Abs(outputDir)
	if err != nil {
		return err
	}
	if a == b {
		return ErrOutputInWatchedDir
	}

	ai, err := os.Stat(a)
	if err != nil {
		return nil
	}
	bi, err := os.Stat(b)
	if err != nil {
		return nil
	}
	if os.SameFile(ai, bi) {
		return ErrOutputInWatchedDir
	}
	return nil
}

// Options 监听选项
type Options struct {
	// Debounce 最后一次变化后等待的静默时间
	Debounce time.Duration
	// Filter 返回 false 的文件变化被忽略，为 nil 时不过滤
	Filter func(path string) bool
}

// Handler 处理一批变化的文件 (已去重、排序)
type Handler func(ctx context.Context, changed []string)

// Watch 监听 dir (不递归)，阻塞直到 ctx 取消
// 同一批变化只触发一次 handler；handler 在监听协程中同步执行，执行期间的变化合并到下一批
func Watch(ctx context.Context, dir string, opts Options, handler Handler) error {
	if handler == nil {
		return errors.New("watch: nil handler")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return err
	}
	logger.Info("Watching directory", "dir", dir, "debounce", opts.Debounce)

	pending := make(map[string]struct{})
	timer := time.NewTimer(time.Hour)
	stopTimer(timer)

	flush := func() {
		if len(pending) == 0 {
			return
		}
		changed := make([]string, 0, len(pending))
		for p := range pending {
			changed = append(changed, p)
		}
		sort.Strings(changed)
		clear(pending)

		logger.Debug("Directory changed", "dir", dir, "files", len(changed))
		handler(ctx, changed)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case e, ok := <-w.Events:
			if !ok {
				return nil
			}
			if e.Op&relevantOps == 0 {
				continue
			}
			if opts.Filter != nil && !opts.Filter(e.Name) {
				continue
			}
			pending[e.Name] = struct{}{}

			if opts.Debounce <= 0 {
				flush()
				continue
			}
			stopTimer(timer)
			timer.Reset(opts.Debounce)

		case <-timer.C:
			flush()

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("Watcher error", "dir", dir, "error", err)
		}
	}
}

// stopTimer 停止计时器并排空通道
func stopTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}
