// Package indicator 可疑内容特征规则与分类器
package indicator

import (
	"fmt"
	"regexp"
	"strings"
)

// Rule 单条特征规则
// Pattern 为 RE2 正则，匹配时忽略大小写
type Rule struct {
	ID          string `mapstructure:"id" yaml:"id"`
	Category    string `mapstructure:"category" yaml:"category"`
	Pattern     string `mapstructure:"pattern" yaml:"pattern"`
	Description string `mapstructure:"description" yaml:"description"`
	// 未设置时视为启用
	Enabled *bool `mapstructure:"enabled" yaml:"enabled,omitempty"`
}

// IsEnabled 规则是否启用
func (r Rule) IsEnabled() bool {
	return r.Enabled == nil || *r.Enabled
}

// Validate 校验规则
func (r Rule) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("rule id is required")
	}
	if r.Pattern == "" {
		return fmt.Errorf("rule %s: pattern is required", r.ID)
	}
	if _, err := r.compile(); err != nil {
		return fmt.Errorf("rule %s: %w", r.ID, err)
	}
	return nil
}

func (r Rule) compile() (*regexp.Regexp, error) {
	return regexp.Compile("(?i)" + r.Pattern)
}

// 分类
const (
	CategoryHyperlink = "hyperlink"
	CategoryShortLink = "short-link"
	CategoryCommand   = "command-interpreter"
	CategoryScriptURI = "script-uri"
	CategoryPayload   = "encoded-payload"
	CategoryShellcode = "shellcode"
	CategoryMacro     = "macro"
	CategoryAutoExec  = "auto-exec"
)

// DefaultRules 内置规则集，顺序即报告中的命中顺序
func DefaultRules() []Rule {
	return []Rule{
		{ID: "raw-hyperlink", Category: CategoryHyperlink, Pattern: `http://`, Description: "unencrypted hyperlink"},
		{ID: "short-link", Category: CategoryShortLink, Pattern: `https?://.*(bit\.ly|tinyurl\.com|goo\.gl|is\.gd|ow\.ly)`, Description: "URL shortener domain"},
		{ID: "cmd-shell", Category: CategoryCommand, Pattern: `cmd\.exe`, Description: "Windows command shell"},
		{ID: "powershell", Category: CategoryCommand, Pattern: `powershell`, Description: "PowerShell invocation"},
		{ID: "script-host", Category: CategoryCommand, Pattern: `\b(wscript|cscript|mshta)(\.exe)?\b`, Description: "Windows script host"},
		{ID: "javascript-uri", Category: CategoryScriptURI, Pattern: `javascript:`, Description: "inline JavaScript execution"},
		{ID: "vbscript", Category: CategoryScriptURI, Pattern: `vbscript`, Description: "VBScript marker"},
		{ID: "base64-payload", Category: CategoryPayload, Pattern: `base64,`, Description: "embedded base64 data URI"},
		{ID: "shellcode", Category: CategoryShellcode, Pattern: `shellcode`, Description: "shellcode terminology"},
		{ID: "macro", Category: CategoryMacro, Pattern: `macro`, Description: "macro terminology"},
		{ID: "auto-exec", Category: CategoryAutoExec, Pattern: `auto_?open|autoexec|document_open`, Description: "Office macro auto-execution trigger"},
	}
}
