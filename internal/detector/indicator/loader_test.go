package indicator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "rules.yaml", `
indicators:
  - id: canary
    category: custom
    pattern: 'canary-[0-9]+'
    description: test canary
  - id: legacy
    pattern: 'ole2'
    enabled: false
`)

	rules, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, rules, 2)

	assert.Equal(t, "canary", rules[0].ID)
	assert.Equal(t, "custom", rules[0].Category)
	assert.True(t, rules[0].IsEnabled())
	assert.False(t, rules[1].IsEnabled())

	c, err := NewClassifier(rules)
	require.NoError(t, err)
	assert.Equal(t, []string{"canary"}, c.Classify("id canary-42").MatchedIndicators)
}

func TestLoadFile_Invalid(t *testing.T) {
	dir := t.TempDir()

	badYAML := writeFile(t, dir, "bad.yaml", "indicators: [::")
	_, err := LoadFile(badYAML)
	assert.Error(t, err)

	badRule := writeFile(t, dir, "badrule.yaml", "indicators:\n  - id: broken\n    pattern: '(['\n")
	_, err = LoadFile(badRule)
	assert.Error(t, err)
}

func TestLoadDir_OrderAndOverride(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "01-base.yaml", `
indicators:
  - id: first
    pattern: 'one'
  - id: second
    pattern: 'two'
`)
	writeFile(t, dir, "02-override.yml", `
indicators:
  - id: first
    pattern: 'uno'
  - id: third
    pattern: 'three'
`)
	writeFile(t, dir, "03-broken.yaml", "indicators: [::")
	writeFile(t, dir, "notes.txt", "ignored")

	rules, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, rules, 3)

	assert.Equal(t, []string{"first", "second", "third"}, []string{rules[0].ID, rules[1].ID, rules[2].ID})
	assert.Equal(t, "uno", rules[0].Pattern)
}

func TestMerge_DefaultsWithOverrides(t *testing.T) {
	disabled := false
	merged := Merge(DefaultRules(), []Rule{
		{ID: "macro", Pattern: "macro", Enabled: &disabled},
		{ID: "canary", Pattern: "canary"},
	})

	assert.Len(t, merged, len(DefaultRules())+1)
	assert.Equal(t, "canary", merged[len(merged)-1].ID)

	c, err := NewClassifier(merged)
	require.NoError(t, err)
	got := c.Classify("macro canary")
	assert.Equal(t, []string{"canary"}, got.MatchedIndicators)
}
