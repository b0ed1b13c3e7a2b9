package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"docScanGuard/internal/config"
	"docScanGuard/internal/detector/extract"
	"docScanGuard/internal/detector/indicator"
	"docScanGuard/internal/logger"
	"docScanGuard/internal/model"
	"docScanGuard/internal/report"
	"docScanGuard/internal/scanner"
	"docScanGuard/internal/storage"
)

// pipeline 一次完整的 扫描 -> 发布
type pipeline struct {
	cfg       *config.AppConfig
	registry  *extract.Registry
	scanner   *scanner.Service
	publisher *report.Publisher
}

// loadConfig 读取配置文件并应用命令行覆盖
func loadConfig(cmd *cobra.Command) (*config.AppConfig, error) {
	if err := config.LoadConfig(configPath); err != nil {
		return nil, err
	}
	cfg := *config.Get()

	flags := cmd.Flags()
	if flags.Changed("input") || cfg.Scanner.InputDir == "" {
		cfg.Scanner.InputDir = inputDir
	}
	if flags.Changed("output") || cfg.Report.OutputDir == "" {
		cfg.Report.OutputDir = outputDir
	}
	if flags.Changed("workers") {
		if workers < 1 {
			return nil, fmt.Errorf("--workers must be >= 1")
		}
		cfg.Scanner.Workers = workers
	}
	if flags.Changed("formats") {
		cfg.Report.Formats = formats
	}
	if flags.Changed("rules") {
		cfg.Indicators.RulesPath = rulesPath
	}
	if noCharts {
		cfg.Report.Charts = false
	}
	if verbose {
		cfg.Log.Level = "debug"
	}

	err := logger.Setup(logger.Options{
		Level:      cfg.Log.Level,
		FilePath:   cfg.Log.File,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
		Stdout:     cfg.Log.Stdout,
		JSON:       cfg.Log.JSON,
	})
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// newClassifier 根据配置构建分类器
func newClassifier(cfg *config.AppConfig) (*indicator.Classifier, error) {
	rules, err := cfg.Indicators.ResolveRules()
	if err != nil {
		return nil, fmt.Errorf("load indicator rules: %w", err)
	}
	return indicator.NewClassifier(rules)
}

func newPipeline(cmd *cobra.Command) (*pipeline, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	classifier, err := newClassifier(cfg)
	if err != nil {
		return nil, err
	}

	conv, err := report.NewConverter(cfg.Report.HTMLConverter, cfg.Report.PandocPath)
	if err != nil {
		return nil, err
	}

	storageOpts := storage.DefaultOptions()
	storageOpts.LogLevel = cfg.Report.DBLogLevel

	pub, err := report.NewPublisher(report.Options{
		Formats: cfg.Report.Formats,
		Charts:  cfg.Report.Charts,
		Storage: storageOpts,
	}, nil, conv)
	if err != nil {
		return nil, err
	}

	registry := extract.Default()
	svc := scanner.NewService(scanner.Config{
		Workers:     cfg.Scanner.Workers,
		FileTimeout: cfg.Scanner.FileTimeout,
	}, registry, classifier)

	return &pipeline{cfg: cfg, registry: registry, scanner: svc, publisher: pub}, nil
}

// run 扫描并发布，只有环境错误会返回 error
func (p *pipeline) run(ctx context.Context) (*model.Report, report.Summary, error) {
	rep, err := p.scanner.Run(ctx, p.cfg.Scanner.InputDir, p.cfg.Report.OutputDir)
	if err != nil {
		return nil, report.Summary{}, err
	}
	summary := p.publisher.Publish(ctx, rep, p.cfg.Report.OutputDir)
	return rep, summary, nil
}
