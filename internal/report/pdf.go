package report

import (
	"strings"

	"github.com/go-pdf/fpdf"

	"docScanGuard/internal/model"
)

// RenderPDF 输出 A4 版式报告：标题、带表头样式的表格、图表
func RenderPDF(report *model.Report, charts []Chart, path string) error {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle(ReportTitle, true)
	doc.SetAutoPageBreak(true, 15)
	// 核心字体为 cp1252 编码
	tr := doc.UnicodeTranslatorFromDescriptor("")

	doc.AddPage()
	doc.SetFont("Helvetica", "B", 16)
	doc.CellFormat(0, 12, ReportTitle, "", 1, "C", false, 0, "")
	doc.SetFont("Helvetica", "", 9)
	doc.CellFormat(0, 6, tr("Scan "+report.ScanID()+"  "+report.GeneratedAt().Format("2006-01-02 15:04:05")), "", 1, "C", false, 0, "")
	doc.Ln(4)

	widths := []float64{80, 75, 25}
	headers := []string{"File", "Status", "Risk"}

	drawHeader := func() {
		doc.SetFont("Helvetica", "B", 11)
		doc.SetFillColor(47, 79, 111)
		doc.SetTextColor(255, 255, 255)
		for i, h := range headers {
			doc.CellFormat(widths[i], 8, h, "1", 0, "C", true, 0, "")
		}
		doc.Ln(-1)
		doc.SetFont("Helvetica", "", 10)
		doc.SetTextColor(0, 0, 0)
	}
	drawHeader()

	_, pageHeight := doc.GetPageSize()
	_, _, _, bottom := doc.GetMargins()
	for i, rec := range report.Records() {
		if doc.GetY()+7 > pageHeight-bottom-15 {
			doc.AddPage()
			drawHeader()
		}
		fill := i%2 == 1
		if fill {
			doc.SetFillColor(235, 240, 245)
		}
		doc.CellFormat(widths[0], 7, tr(fitText(doc, rec.FileName, widths[0])), "1", 0, "L", fill, 0, "")
		doc.CellFormat(widths[1], 7, tr(fitText(doc, pdfStatus(rec), widths[1])), "1", 0, "L", fill, 0, "")
		doc.CellFormat(widths[2], 7, string(rec.Risk), "1", 1, "C", fill, 0, "")
	}

	for _, c := range charts {
		doc.AddPage()
		doc.SetFont("Helvetica", "B", 13)
		doc.CellFormat(0, 10, c.Title, "", 1, "L", false, 0, "")
		doc.ImageOptions(c.Path, 15, doc.GetY()+2, 180, 0, false, fpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}, 0, "")
	}

	return doc.OutputFileAndClose(path)
}

// pdfStatus 核心字体无法显示 emoji，使用纯文本状态
func pdfStatus(rec model.DocumentRecord) string {
	if rec.IsSuspicious() {
		return "Suspicious (" + strings.Join(rec.MatchedIndicators, ", ") + ")"
	}
	return "Safe"
}

// fitText 截断超出单元格宽度的文本
func fitText(doc *fpdf.Fpdf, s string, width float64) string {
	limit := width - 2
	if doc.GetStringWidth(s) <= limit {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && doc.GetStringWidth(string(r)+"...") > limit {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}
