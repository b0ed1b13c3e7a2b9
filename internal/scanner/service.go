// Package scanner 遍历文档目录，完成 提取 -> 分类 -> 汇总
package scanner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"docScanGuard/internal/detector/extract"
	"docScanGuard/internal/detector/indicator"
	scanerrors "docScanGuard/internal/errors"
	"docScanGuard/internal/logger"
	"docScanGuard/internal/model"
)

// Config 扫描配置
type Config struct {
	Workers     int           // 并发提取数，<=1 时顺序执行
	FileTimeout time.Duration // 单文件提取超时，<=0 表示不限制
}

// DefaultConfig 默认配置
func DefaultConfig() Config {
	return Config{
		Workers:     1,
		FileTimeout: 30 * time.Second,
	}
}

// Service 扫描服务
type Service struct {
	config     Config
	registry   *extract.Registry
	classifier *indicator.Classifier
}

// NewService 创建扫描服务
func NewService(cfg Config, registry *extract.Registry, classifier *indicator.Classifier) *Service {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if registry == nil {
		registry = extract.Default()
	}
	if classifier == nil {
		classifier = indicator.MustDefault()
	}
	return &Service{
		config:     cfg,
		registry:   registry,
		classifier: classifier,
	}
}

// task 一个待扫描文件，index 为目录枚举顺序
type task struct {
	index     int
	name      string
	path      string
	extractor extract.Extractor
}

// Run 扫描 inputDir 并构建报告模型
// 输出目录在此创建 (已存在时直接使用)；输入目录不存在或输出目录无法创建时返回环境错误。
// 单个文件的解析失败不会中断扫描。
func (s *Service) Run(ctx context.Context, inputDir, outputDir string) (*model.Report, error) {
	if err := s.prepare(inputDir, outputDir); err != nil {
		return nil, err
	}

	tasks, err := s.collect(inputDir)
	if err != nil {
		return nil, err
	}

	logger.Info("Scan started", "input", inputDir, "files", len(tasks), "workers", s.config.Workers)
	start := time.Now()

	records := make([]model.DocumentRecord, len(tasks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Workers)

	for _, t := range tasks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			records[t.index] = s.scanFile(gctx, t)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := model.NewReport(model.ReportMeta{SourceDir: inputDir}, records)
	logger.Info("Scan finished",
		"scan_id", report.ScanID(),
		"records", report.Len(),
		"suspicious", report.StatusCount(model.StatusSuspicious),
		"duration", time.Since(start),
	)
	return report, nil
}

// prepare 校验输入目录并创建输出目录
func (s *Service) prepare(inputDir, outputDir string) error {
	info, err := os.Stat(inputDir)
	if err != nil {
		return scanerrors.Environment("stat input", inputDir, err)
	}
	if !info.IsDir() {
		return scanerrors.Environment("stat input", inputDir, errors.New("not a directory"))
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return scanerrors.Environment("create output", outputDir, err)
	}
	// 目录存在但不可写时同样视为环境错误
	f, err := os.CreateTemp(outputDir, ".docscan-*")
	if err != nil {
		return scanerrors.Environment("access output", outputDir, err)
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return nil
}

// collect 按目录枚举顺序收集可识别的文件，跳过子目录与不支持的扩展名
func (s *Service) collect(inputDir string) ([]task, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, scanerrors.Environment("read input", inputDir, err)
	}

	var tasks []task
	for _, e := range entries {
		path := filepath.Join(inputDir, e.Name())
		if isDir(e, path) {
			continue
		}
		ext, err := s.registry.Lookup(e.Name())
		if err != nil {
			logger.Debug("Skip unsupported file", "file", e.Name())
			continue
		}
		tasks = append(tasks, task{index: len(tasks), name: e.Name(), path: path, extractor: ext})
	}
	return tasks, nil
}

func isDir(e os.DirEntry, path string) bool {
	if e.IsDir() {
		return true
	}
	if e.Type()&os.ModeSymlink != 0 {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			return true
		}
	}
	return false
}

// scanFile 提取并分类单个文件，解析失败时以错误文本参与分类
func (s *Service) scanFile(ctx context.Context, t task) model.DocumentRecord {
	text, err := extract.Run(ctx, t.extractor, t.path, s.config.FileTimeout)

	var extractErr string
	if err != nil {
		extractErr = text
		logger.Warn("Extraction failed", "file", t.name, "format", t.extractor.Format(), "error", err)
	}

	c := s.classifier.Classify(text)
	if c.Status == model.StatusSuspicious {
		logger.Debug("Suspicious document", "file", t.name, "indicators", c.MatchedIndicators)
	}
	return model.NewDocumentRecord(t.name, t.extractor.Format(), c, extractErr)
}
