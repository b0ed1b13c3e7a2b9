package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/wcharczuk/go-chart/v2"

	"docScanGuard/internal/model"
)

// 图表文件名
const (
	StatusChartFile = "status_distribution.png"
	RiskChartFile   = "risk_levels.png"
)

// Chart 已生成的图表
type Chart struct {
	Title string // 图片说明
	File  string // 相对输出目录的文件名，用于报告内引用
	Path  string // 绝对或调用方给出的完整路径
}

// ChartRenderer 根据报告统计生成图表
type ChartRenderer interface {
	Render(ctx context.Context, report *model.Report, outputDir string) ([]Chart, error)
}

// GoChartRenderer 使用 go-chart 输出 PNG
type GoChartRenderer struct {
	Width  int
	Height int
}

// NewGoChartRenderer 创建默认尺寸的图表渲染器
func NewGoChartRenderer() *GoChartRenderer {
	return &GoChartRenderer{Width: 640, Height: 480}
}

// Render 生成状态占比饼图和风险等级柱状图
func (g *GoChartRenderer) Render(ctx context.Context, report *model.Report, outputDir string) ([]Chart, error) {
	if report.Empty() {
		return nil, nil
	}

	statusPath := filepath.Join(outputDir, StatusChartFile)
	if err := g.renderStatus(report, statusPath); err != nil {
		return nil, fmt.Errorf("status chart: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	riskPath := filepath.Join(outputDir, RiskChartFile)
	if err := g.renderRisk(report, riskPath); err != nil {
		return nil, fmt.Errorf("risk chart: %w", err)
	}

	return []Chart{
		{Title: "Status Distribution", File: StatusChartFile, Path: statusPath},
		{Title: "Risk Levels", File: RiskChartFile, Path: riskPath},
	}, nil
}

func (g *GoChartRenderer) renderStatus(report *model.Report, path string) error {
	var values []chart.Value
	for _, s := range model.Statuses {
		n := report.StatusCount(s)
		if n == 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s (%d)", s, n),
			Value: float64(n),
		})
	}

	pie := chart.PieChart{
		Title:  "Status Distribution",
		Width:  g.Width,
		Height: g.Height,
		Values: values,
	}
	return writePNG(path, pie.Render)
}

func (g *GoChartRenderer) renderRisk(report *model.Report, path string) error {
	maxCount := 1
	bars := make([]chart.Value, 0, len(model.RiskLevels))
	for _, l := range model.RiskLevels {
		n := report.RiskCount(l)
		if n > maxCount {
			maxCount = n
		}
		bars = append(bars, chart.Value{Label: string(l), Value: float64(n)})
	}

	bar := chart.BarChart{
		Title:    "Risk Levels",
		Width:    g.Width,
		Height:   g.Height,
		BarWidth: 80,
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: float64(maxCount)},
		},
		Bars: bars,
	}
	return writePNG(path, bar.Render)
}

// writePNG 渲染到临时文件后重命名，失败时不留下半成品
func writePNG(path string, render func(chart.RendererProvider, io.Writer) error) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := render(chart.PNG, f); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
