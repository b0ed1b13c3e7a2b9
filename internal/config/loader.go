package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"

	"github.com/spf13/viper"

	"docScanGuard/internal/detector/indicator"
)

// GlobalConfig 全局配置单例
// 在调用 LoadConfig 成功后，该变量会被填充，后续模块直接读取即可
var (
	GlobalConfig *AppConfig
	loadOnce     sync.Once
)

// EnvPrefix 环境变量前缀，scanner.workers -> DSG_SCANNER_WORKERS
const EnvPrefix = "DSG"

// LoadConfig 加载配置并填充全局单例，只生效一次
func LoadConfig(configPath string) error {
	var err error

	loadOnce.Do(func() {
		var cfg *AppConfig
		cfg, err = Load(configPath)
		if err != nil {
			return
		}
		GlobalConfig = cfg
	})

	return err
}

// Load 读取配置
// configPath 为空时在默认路径搜索 config.yaml，找不到文件时使用默认值；
// 显式指定的文件不存在则返回错误。
func Load(configPath string) (*AppConfig, error) {
	v := viper.New()

	// 1. 设置默认值 (兜底策略)
	setDefaults(v)

	// 2. 配置读取规则
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/docScanGuard/")
		v.AddConfigPath(".")
	}

	// 3. 环境变量覆盖
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// 5. 反序列化到结构体
	var config AppConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults 定义配置文件的“默认行为”
func setDefaults(v *viper.Viper) {
	// Log 日志
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age", 30)
	v.SetDefault("log.compress", true)
	v.SetDefault("log.stdout", true)
	v.SetDefault("log.json", false)

	// Scanner 扫描
	v.SetDefault("scanner.input_dir", "doc")
	v.SetDefault("scanner.workers", runtime.NumCPU())
	v.SetDefault("scanner.file_timeout", "30s")

	// Report 报告
	v.SetDefault("report.output_dir", "reports")
	v.SetDefault("report.formats", []string{"markdown", "html", "pdf"})
	v.SetDefault("report.charts", true)
	v.SetDefault("report.html_converter", "goldmark")
	v.SetDefault("report.pandoc_path", "pandoc")
	v.SetDefault("report.db_log_level", "silent")

	// Indicators 特征规则
	v.SetDefault("indicators.use_defaults", true)
	v.SetDefault("indicators.rules_path", "")

	// Watch 目录监听
	v.SetDefault("watch.debounce", "2s")
}

// Validate 校验配置取值
func (c *AppConfig) Validate() error {
	if c.Scanner.Workers < 1 {
		return fmt.Errorf("scanner.workers must be >= 1, got %d", c.Scanner.Workers)
	}
	if c.Scanner.FileTimeout < 0 {
		return fmt.Errorf("scanner.file_timeout must not be negative")
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	for _, r := range c.Indicators.Rules {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("indicators.rules: %w", err)
		}
	}
	return nil
}

// ResolveRules 计算生效的规则：内置规则 -> 规则文件 -> 内联规则，同 ID 以后者为准
func (c IndicatorsConfig) ResolveRules() ([]indicator.Rule, error) {
	var rules []indicator.Rule
	if c.UseDefaults {
		rules = indicator.DefaultRules()
	}

	if c.RulesPath != "" {
		loaded, err := indicator.Load(c.RulesPath)
		if err != nil {
			return nil, err
		}
		rules = indicator.Merge(rules, loaded)
	}

	rules = indicator.Merge(rules, c.Rules)
	if len(rules) == 0 {
		return nil, fmt.Errorf("no indicator rules configured")
	}
	return rules, nil
}

// Get 获取配置的安全访问器
func Get() *AppConfig {
	if GlobalConfig == nil {
		panic("Config not initialized! Call LoadConfig() first.")
	}
	return GlobalConfig
}
