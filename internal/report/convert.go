package report

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"docScanGuard/internal/logger"
)

// Converter 将 Markdown 转换为 HTML 片段
type Converter interface {
	Convert(ctx context.Context, markdown []byte) ([]byte, error)
}

// GoldmarkConverter 进程内转换，启用 GFM 表格
type GoldmarkConverter struct {
	md goldmark.Markdown
}

func NewGoldmarkConverter() *GoldmarkConverter {
	return &GoldmarkConverter{md: goldmark.New(goldmark.WithExtensions(extension.GFM))}
}

func (g *GoldmarkConverter) Convert(_ context.Context, markdown []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := g.md.Convert(markdown, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Runner 执行外部命令，测试中可替换
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	start := time.Now()

	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb

	err := cmd.Run()
	if err != nil {
		logger.Error("exec failed",
			"cmd", name,
			"args", strings.Join(args, " "),
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err,
			"stderr", truncate(errb.String(), 8<<10),
		)
	} else {
		logger.Debug("exec ok", "cmd", name, "duration_ms", time.Since(start).Milliseconds(), "stdout_bytes", out.Len())
	}
	return out.Bytes(), errb.Bytes(), err
}

// PandocConverter 调用 pandoc 转换
type PandocConverter struct {
	Path   string // pandoc 可执行文件，默认 "pandoc"
	Runner Runner
}

func NewPandocConverter(path string) *PandocConverter {
	if path == "" {
		path = "pandoc"
	}
	return &PandocConverter{Path: path, Runner: execRunner{}}
}

func (p *PandocConverter) Convert(ctx context.Context, markdown []byte) ([]byte, error) {
	tmp, err := os.CreateTemp("", "scan_report-*.md")
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(markdown); err != nil {
		tmp.Close()
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		return nil, err
	}

	stdout, stderr, err := p.Runner.Run(ctx, p.Path, "--from", "gfm", "--to", "html", filepath.Clean(tmp.Name()))
	if err != nil {
		if msg := strings.TrimSpace(string(stderr)); msg != "" {
			return nil, fmt.Errorf("%s: %w: %s", p.Path, err, truncate(msg, 512))
		}
		return nil, fmt.Errorf("%s: %w", p.Path, err)
	}
	return stdout, nil
}

// NewConverter 按名称选择转换器: goldmark (默认) 或 pandoc
func NewConverter(name, pandocPath string) (Converter, error) {
	switch strings.ToLower(name) {
	case "", "goldmark":
		return NewGoldmarkConverter(), nil
	case "pandoc":
		return NewPandocConverter(pandocPath), nil
	default:
		return nil, fmt.Errorf("unknown html converter %q", name)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
