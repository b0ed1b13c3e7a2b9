// Package config
package config

import (
	"time"

	"docScanGuard/internal/detector/indicator"
)

// ==========================================
// 顶层配置结构
// ==========================================

type AppConfig struct {
	Log        LogConfig        `mapstructure:"log" yaml:"log"`
	Scanner    ScannerConfig    `mapstructure:"scanner" yaml:"scanner"`
	Report     ReportConfig     `mapstructure:"report" yaml:"report"`
	Indicators IndicatorsConfig `mapstructure:"indicators" yaml:"indicators"`
	Watch      WatchConfig      `mapstructure:"watch" yaml:"watch"`
}

// ==========================================
// 1. 日志配置
// ==========================================

type LogConfig struct {
	// 日志级别: debug, info, warn, error
	Level string `mapstructure:"level" yaml:"level"`
	// 日志文件路径，为空时只输出到控制台
	File string `mapstructure:"file" yaml:"file"`
	// 日志轮转
	MaxSize    int  `mapstructure:"max_size" yaml:"max_size"`       // MB
	MaxBackups int  `mapstructure:"max_backups" yaml:"max_backups"` // 个数
	MaxAge     int  `mapstructure:"max_age" yaml:"max_age"`         // 天数
	Compress   bool `mapstructure:"compress" yaml:"compress"`       // 是否压缩
	Stdout     bool `mapstructure:"stdout" yaml:"stdout"`           // 是否同时打印到控制台
	JSON       bool `mapstructure:"json" yaml:"json"`               // JSON 格式
}

// ==========================================
// 2. 扫描配置
// ==========================================

type ScannerConfig struct {
	// 待扫描的文档目录
	InputDir string `mapstructure:"input_dir" yaml:"input_dir"`
	// 并发提取数
	Workers int `mapstructure:"workers" yaml:"workers"`
	// 单文件提取超时
	FileTimeout time.Duration `mapstructure:"file_timeout" yaml:"file_timeout"`
}

// ==========================================
// 3. 报告配置
// ==========================================

type ReportConfig struct {
	// 报告输出目录
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`
	// 产物格式: markdown, html, pdf, xlsx, sqlite, metrics
	Formats []string `mapstructure:"formats" yaml:"formats"`
	// 是否生成图表
	Charts bool `mapstructure:"charts" yaml:"charts"`
	// HTML 转换器: goldmark, pandoc
	HTMLConverter string `mapstructure:"html_converter" yaml:"html_converter"`
	// pandoc 可执行文件路径
	PandocPath string `mapstructure:"pandoc_path" yaml:"pandoc_path"`
	// sqlite 产物的 GORM 日志级别
	DBLogLevel string `mapstructure:"db_log_level" yaml:"db_log_level"`
}

// ==========================================
// 4. 特征规则配置
// ==========================================

type IndicatorsConfig struct {
	// 是否加载内置规则
	UseDefaults bool `mapstructure:"use_defaults" yaml:"use_defaults"`
	// 规则文件或目录 (YAML)
	RulesPath string `mapstructure:"rules_path" yaml:"rules_path"`
	// 内联规则，同 ID 覆盖内置规则
	Rules []indicator.Rule `mapstructure:"rules" yaml:"rules"`
}

// ==========================================
// 5. 目录监听配置
// ==========================================

type WatchConfig struct {
	// 文件变化后等待的静默时间
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce"`
}
