// Package report 将扫描报告模型输出为各类产物
//
// 图表阶段先执行，随后各产物并发生成，单个产物失败不影响其他产物。
package report

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"sync"

	scanerrors "docScanGuard/internal/errors"
	"docScanGuard/internal/logger"
	"docScanGuard/internal/model"
	"docScanGuard/internal/storage"
)

// 产物格式
const (
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
	FormatPDF      = "pdf"
	FormatXLSX     = "xlsx"
	FormatSQLite   = "sqlite"
	FormatMetrics  = "metrics"
)

// 产物文件名
const (
	MarkdownFile = "scan_report.md"
	HTMLFile     = "scan_report.html"
	PDFFile      = "scan_report.pdf"
	XLSXFile     = "scan_report.xlsx"
	SQLiteFile   = "scan_report.db"
	MetricsFile  = "scan_metrics.prom"
)

// AllFormats 全部支持的格式
var AllFormats = []string{FormatMarkdown, FormatHTML, FormatPDF, FormatXLSX, FormatSQLite, FormatMetrics}

// DefaultFormats 默认生成的格式
var DefaultFormats = []string{FormatMarkdown, FormatHTML, FormatPDF}

// Options 发布配置
type Options struct {
	Formats []string        // 为空时使用 DefaultFormats
	Charts  bool            // 是否生成图表
	Storage storage.Options // sqlite 产物选项
}

// Artifact 成功生成的产物
type Artifact struct {
	Format string
	Path   string
}

// Summary 一次发布的结果
type Summary struct {
	Charts    []Chart
	Artifacts []Artifact
	Errors    []error // 均为 KindRender 的 *errors.ScanError
}

// OK 是否全部成功
func (s Summary) OK() bool { return len(s.Errors) == 0 }

// Publisher 报告发布器
type Publisher struct {
	opts      Options
	charts    ChartRenderer
	converter Converter
}

// NewPublisher 创建发布器；charts/converter 为 nil 时使用 go-chart 与 goldmark
func NewPublisher(opts Options, charts ChartRenderer, converter Converter) (*Publisher, error) {
	if len(opts.Formats) == 0 {
		opts.Formats = DefaultFormats
	}
	formats, err := NormalizeFormats(opts.Formats)
	if err != nil {
		return nil, err
	}
	opts.Formats = formats

	if charts == nil {
		charts = NewGoChartRenderer()
	}
	if converter == nil {
		converter = NewGoldmarkConverter()
	}
	return &Publisher{opts: opts, charts: charts, converter: converter}, nil
}

// NormalizeFormats 校验并去重格式名，保持 AllFormats 中的顺序
func NormalizeFormats(formats []string) ([]string, error) {
	want := make(map[string]bool, len(formats))
	for _, f := range formats {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" {
			continue
		}
		if f == "md" {
			f = FormatMarkdown
		}
		if !isKnownFormat(f) {
			return nil, fmt.Errorf("unknown report format %q (supported: %s)", f, strings.Join(AllFormats, ", "))
		}
		want[f] = true
	}

	out := make([]string, 0, len(want))
	for _, f := range AllFormats {
		if want[f] {
			out = append(out, f)
		}
	}
	return out, nil
}

func isKnownFormat(f string) bool {
	for _, k := range AllFormats {
		if k == f {
			return true
		}
	}
	return false
}

// sink 单个产物
type sink struct {
	format string
	file   string
	write  func(ctx context.Context, report *model.Report, charts []Chart, path string) error
}

func (p *Publisher) sinks() []sink {
	all := map[string]sink{
		FormatMarkdown: {FormatMarkdown, MarkdownFile, func(_ context.Context, r *model.Report, charts []Chart, path string) error {
			return writeFileAtomic(path, RenderMarkdown(r, charts))
		}},
		FormatHTML: {FormatHTML, HTMLFile, func(ctx context.Context, r *model.Report, charts []Chart, path string) error {
			page, err := RenderHTML(ctx, p.converter, r, charts)
			if err != nil {
				return err
			}
			return writeFileAtomic(path, page)
		}},
		FormatPDF: {FormatPDF, PDFFile, func(_ context.Context, r *model.Report, charts []Chart, path string) error {
			return RenderPDF(r, charts, path)
		}},
		FormatXLSX: {FormatXLSX, XLSXFile, func(_ context.Context, r *model.Report, _ []Chart, path string) error {
			return RenderXLSX(r, path)
		}},
		FormatSQLite: {FormatSQLite, SQLiteFile, func(ctx context.Context, r *model.Report, _ []Chart, path string) error {
			return storage.WriteSnapshot(ctx, path, r, p.opts.Storage)
		}},
		FormatMetrics: {FormatMetrics, MetricsFile, func(_ context.Context, r *model.Report, _ []Chart, path string) error {
			return RenderMetrics(r, path)
		}},
	}

	out := make([]sink, 0, len(p.opts.Formats))
	for _, f := range p.opts.Formats {
		out = append(out, all[f])
	}
	return out
}

// Publish 生成图表与全部产物
// 报告为空时跳过图表；图表失败时各产物不引用图表。返回值永不为致命错误。
func (p *Publisher) Publish(ctx context.Context, report *model.Report, outputDir string) Summary {
	var summary Summary

	if p.opts.Charts && !report.Empty() {
		charts, err := p.renderCharts(ctx, report, outputDir)
		if err != nil {
			summary.Errors = append(summary.Errors, err)
			logger.Warn("Chart rendering failed", "error", err)
		} else {
			summary.Charts = charts
		}
	}
	if len(summary.Charts) == 0 {
		removeStaleCharts(outputDir)
	}

	sinks := p.sinks()
	results := make([]error, len(sinks))
	var wg sync.WaitGroup
	for i, s := range sinks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			path := filepath.Join(outputDir, s.file)
			results[i] = runSink(ctx, s, report, summary.Charts, path)
		}()
	}
	wg.Wait()

	for i, s := range sinks {
		path := filepath.Join(outputDir, s.file)
		if results[i] != nil {
			summary.Errors = append(summary.Errors, results[i])
			logger.Warn("Report artifact failed", "format", s.format, "path", path, "error", results[i])
			continue
		}
		summary.Artifacts = append(summary.Artifacts, Artifact{Format: s.format, Path: path})
		logger.Info("Report artifact written", "format", s.format, "path", path)
	}

	return summary
}

func (p *Publisher) renderCharts(ctx context.Context, report *model.Report, outputDir string) (charts []Chart, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = scanerrors.Render("charts", outputDir, fmt.Errorf("panic: %v", r))
			charts = nil
		}
	}()

	charts, err = p.charts.Render(ctx, report, outputDir)
	if err != nil {
		return nil, scanerrors.Render("charts", outputDir, err)
	}
	return charts, nil
}

// removeStaleCharts 删除上一次扫描留下的图表，避免与本次报告不一致
func removeStaleCharts(outputDir string) {
	for _, name := range []string{StatusChartFile, RiskChartFile} {
		if err := os.Remove(filepath.Join(outputDir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Warn("Failed to remove stale chart", "file", name, "error", err)
		}
	}
}

// runSink 执行单个产物，panic 与错误均转换为 RenderError
func runSink(ctx context.Context, s sink, report *model.Report, charts []Chart, path string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Report artifact panic", "format", s.format, "panic", r, "stack", string(debug.Stack()))
			err = scanerrors.Render(s.format, path, fmt.Errorf("panic: %v", r))
		}
	}()

	if err := ctx.Err(); err != nil {
		return scanerrors.Render(s.format, path, err)
	}
	if err := s.write(ctx, report, charts, path); err != nil {
		return scanerrors.Render(s.format, path, err)
	}
	return nil
}
