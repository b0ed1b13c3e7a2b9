package report

import (
	"bytes"
	"fmt"
	"strings"

	"docScanGuard/internal/model"
)

// ReportTitle 报告标题
const ReportTitle = "Document Security Scan Report"

// RenderMarkdown 由报告模型生成 Markdown 文本
// charts 为空时不输出图表段落；存在解析失败时追加错误列表
func RenderMarkdown(report *model.Report, charts []Chart) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", ReportTitle)
	buf.WriteString("| File | Status | Risk |\n")
	buf.WriteString("|------|--------|------|\n")
	for _, rec := range report.Records() {
		fmt.Fprintf(&buf, "| %s | %s | %s |\n", escapeMarkdown(rec.FileName), escapeMarkdown(StatusLabel(rec)), rec.Risk)
	}

	if len(charts) > 0 {
		buf.WriteString("\n## Charts\n\n")
		for _, c := range charts {
			fmt.Fprintf(&buf, "![%s](%s)\n\n", c.Title, c.File)
		}
	}

	if failures := report.Failures(); len(failures) > 0 {
		buf.WriteString("\n## Extraction Errors\n\n")
		for _, rec := range failures {
			fmt.Fprintf(&buf, "- %s: %s\n", codeSpan(rec.FileName), escapeMarkdown(rec.ExtractError))
		}
	}

	return buf.Bytes()
}

// StatusLabel 状态列文本，可疑时附带命中的规则 ID
func StatusLabel(rec model.DocumentRecord) string {
	if rec.IsSuspicious() {
		return fmt.Sprintf("⚠️ Suspicious (%s)", strings.Join(rec.MatchedIndicators, ", "))
	}
	return "✅ Safe"
}

// markdownEscaper 转义行内元字符，换行替换为空格，其余空白原样保留
var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	">", `\>`,
	"|", `\|`,
	"\r\n", " ",
	"\n", " ",
	"\r", " ",
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

var newlineReplacer = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// codeSpan 以行内代码输出文件名；名称本身含反引号时退回转义文本
func codeSpan(s string) string {
	if strings.Contains(s, "`") {
		return escapeMarkdown(s)
	}
	return "`" + newlineReplacer.Replace(s) + "`"
}
