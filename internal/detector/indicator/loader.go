package indicator

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"docScanGuard/internal/logger"
)

// ruleFile 规则文件结构
//
//	indicators:
//	  - id: raw-hyperlink
//	    category: hyperlink
//	    pattern: 'http://'
//	    enabled: true
type ruleFile struct {
	Indicators []Rule `yaml:"indicators"`
}

// Load 从文件或目录加载规则
func Load(path string) ([]Rule, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat rules path: %w", err)
	}
	if info.IsDir() {
		return LoadDir(path)
	}
	return LoadFile(path)
}

// LoadFile 加载单个 YAML 规则文件，任何一条规则无效都返回错误
func LoadFile(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule file: %w", err)
	}

	var rf ruleFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parse rule file %s: %w", path, err)
	}

	for _, r := range rf.Indicators {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return rf.Indicators, nil
}

// LoadDir 按文件名顺序加载目录下所有 .yaml/.yml 文件
// 无效文件记录告警后跳过；同 ID 规则以后加载的为准
func LoadDir(dir string) ([]Rule, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read rules dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)

	var rules []Rule
	for _, f := range files {
		loaded, err := LoadFile(f)
		if err != nil {
			logger.Warn("Failed to load indicator rules", "file", f, "error", err)
			continue
		}
		rules = Merge(rules, loaded)
	}

	logger.Debug("Indicator rules loaded", "dir", dir, "files", len(files), "rules", len(rules))
	return rules, nil
}

// Merge 合并规则：同 ID 覆盖原位置，新 ID 追加到末尾
func Merge(base, overrides []Rule) []Rule {
	out := make([]Rule, len(base), len(base)+len(overrides))
	copy(out, base)

	index := make(map[string]int, len(out))
	for i, r := range out {
		index[r.ID] = i
	}
	for _, r := range overrides {
		if i, ok := index[r.ID]; ok {
			out[i] = r
			continue
		}
		index[r.ID] = len(out)
		out = append(out, r)
	}
	return out
}
