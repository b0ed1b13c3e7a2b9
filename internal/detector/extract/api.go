// Package extract 文档文本提取
//
// 按扩展名分发到各格式解析器，解析失败时在本地转换为
// "Error reading <FORMAT>: <cause>" 文本，调用方照常分类。
package extract

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	scanerrors "docScanGuard/internal/errors"
)

// ErrUnsupported 扩展名没有对应的解析器，调用方应跳过该文件
var ErrUnsupported = errors.New("unsupported file type")

// Extractor 单一格式的文本提取器
type Extractor interface {
	// Format 格式标签，如 "PDF"，同时用于错误文本
	Format() string
	// Extensions 支持的扩展名 (不带点)
	Extensions() []string
	// Extract 提取全部文本
	Extract(ctx context.Context, path string) (string, error)
}

// Registry 按扩展名索引的提取器注册表
type Registry struct {
	mu      sync.RWMutex
	typeMap map[string]Extractor
	formats []string
}

// NewRegistry 创建空注册表
func NewRegistry() *Registry {
	return &Registry{typeMap: make(map[string]Extractor)}
}

// Default 返回内置 PDF / DOCX / TXT 提取器的注册表
func Default() *Registry {
	r := NewRegistry()
	r.Register(NewPDFExtractor())
	r.Register(NewDocxExtractor())
	r.Register(NewTextExtractor())
	return r
}

// Register 注册提取器，后注册的同扩展名提取器覆盖先前的
func (r *Registry) Register(e Extractor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ext := range e.Extensions() {
		r.typeMap[normalizeExtension(ext)] = e
	}
	for _, f := range r.formats {
		if f == e.Format() {
			return
		}
	}
	r.formats = append(r.formats, e.Format())
}

// Lookup 根据文件名查找提取器，大小写不敏感
func (r *Registry) Lookup(path string) (Extractor, error) {
	ext := normalizeExtension(filepath.Ext(path))
	if ext == "" {
		return nil, ErrUnsupported
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.typeMap[ext]
	if !ok {
		return nil, ErrUnsupported
	}
	return e, nil
}

// Supports 文件是否有对应的提取器
func (r *Registry) Supports(path string) bool {
	_, err := r.Lookup(path)
	return err == nil
}

// Extensions 返回已注册的扩展名 (排序)
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exts := make([]string, 0, len(r.typeMap))
	for ext := range r.typeMap {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Formats 返回已注册的格式标签 (注册顺序)
func (r *Registry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.formats...)
}

func normalizeExtension(ext string) string {
	return strings.TrimPrefix(strings.ToLower(ext), ".")
}

type outcome struct {
	text string
	err  error
}

// Run 在超时与 panic 保护下执行一次提取
// 成功时返回文本；失败时返回错误文本 "Error reading <FORMAT>: <cause>" 以及 *errors.ScanError。
// 超时后解析协程被放弃，其结果丢弃。
func Run(ctx context.Context, e Extractor, path string, timeout time.Duration) (string, error) {
	scanCtx, cancel := ctx, context.CancelFunc(func() {})
	if timeout > 0 {
		scanCtx, cancel = context.WithTimeout(ctx, timeout)
	}
	defer cancel()

	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("panic within parser: %v", r)}
			}
		}()
		text, err := e.Extract(scanCtx, path)
		done <- outcome{text: text, err: err}
	}()

	var out outcome
	select {
	case out = <-done:
	case <-scanCtx.Done():
		out.err = scanCtx.Err()
	}

	if out.err != nil {
		se := scanerrors.Extraction(e.Format(), path, out.err)
		return se.Payload(), se
	}
	return out.text, nil
}
