package report

import (
	"bytes"
	"context"
	"html/template"

	"docScanGuard/internal/model"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; }
th, td { border: 1px solid #999; padding: 4px 10px; text-align: left; }
th { background: #2f4f6f; color: #fff; }
img { max-width: 640px; }
</style>
</head>
<body>
{{.Body}}
<footer><small>Scan {{.ScanID}} generated {{.Generated}}</small></footer>
</body>
</html>
`))

// RenderHTML 将 Markdown 重新生成后转换为完整的 HTML 页面
func RenderHTML(ctx context.Context, conv Converter, report *model.Report, charts []Chart) ([]byte, error) {
	body, err := conv.Convert(ctx, RenderMarkdown(report, charts))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	err = pageTemplate.Execute(&buf, struct {
		Title     string
		Body      template.HTML
		ScanID    string
		Generated string
	}{
		Title:     ReportTitle,
		Body:      template.HTML(body),
		ScanID:    report.ScanID(),
		Generated: report.GeneratedAt().Format("2006-01-02 15:04:05"),
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
