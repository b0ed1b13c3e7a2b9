package indicator

import (
	"fmt"
	"regexp"

	"docScanGuard/internal/model"
)

type compiledRule struct {
	rule Rule
	re   *regexp.Regexp
}

// Classifier 基于特征规则的二值分类器
// 无内部状态，可并发使用
type Classifier struct {
	rules []compiledRule
}

// NewClassifier 编译规则，跳过禁用规则；规则 ID 不可重复
func NewClassifier(rules []Rule) (*Classifier, error) {
	c := &Classifier{rules: make([]compiledRule, 0, len(rules))}
	seen := make(map[string]bool, len(rules))

	for _, r := range rules {
		if !r.IsEnabled() {
			continue
		}
		if err := r.Validate(); err != nil {
			return nil, err
		}
		if seen[r.ID] {
			return nil, fmt.Errorf("duplicate rule id %q", r.ID)
		}
		seen[r.ID] = true

		re, err := r.compile()
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", r.ID, err)
		}
		c.rules = append(c.rules, compiledRule{rule: r, re: re})
	}
	return c, nil
}

// MustDefault 使用内置规则创建分类器
func MustDefault() *Classifier {
	c, err := NewClassifier(DefaultRules())
	if err != nil {
		panic(err)
	}
	return c
}

// Classify 对全文逐条匹配，所有规则都会执行，不在首次命中时返回
func (c *Classifier) Classify(text string) model.Classification {
	var matched []string
	for _, cr := range c.rules {
		if cr.re.MatchString(text) {
			matched = append(matched, cr.rule.ID)
		}
	}

	if len(matched) > 0 {
		return model.Classification{
			Status:            model.StatusSuspicious,
			Risk:              model.RiskHigh,
			MatchedIndicators: matched,
		}
	}
	return model.Classification{
		Status:            model.StatusSafe,
		Risk:              model.RiskLow,
		MatchedIndicators: []string{},
	}
}

// Rules 返回生效的规则 (按匹配顺序)
func (c *Classifier) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	for i, cr := range c.rules {
		out[i] = cr.rule
	}
	return out
}
