package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"docScanGuard/internal/model"
)

const (
	recordsSheet = "Records"
	summarySheet = "Summary"
)

// RenderXLSX 输出两张工作表：逐文件记录与汇总统计
func RenderXLSX(report *model.Report, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	// 默认工作表改名为记录表
	if err := f.SetSheetName(f.GetSheetName(0), recordsSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}
	activeIndex, _ := f.GetSheetIndex(recordsSheet)
	f.SetActiveSheet(activeIndex)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"2F4F6F"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	if err := writeRecords(f, report, headerStyle); err != nil {
		return err
	}
	if err := writeSummary(f, report, headerStyle); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}

func writeRecords(f *excelize.File, report *model.Report, headerStyle int) error {
	headers := []string{"File", "Format", "Status", "Risk", "Matched Indicators", "Extraction Error"}
	if err := writeRow(f, recordsSheet, 1, headers); err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(recordsSheet, "A1", last, headerStyle); err != nil {
		return err
	}

	for i, rec := range report.Records() {
		row := []any{
			rec.FileName,
			rec.Format,
			string(rec.Status),
			string(rec.Risk),
			strings.Join(rec.MatchedIndicators, ", "),
			rec.ExtractError,
		}
		if err := writeRow(f, recordsSheet, i+2, row); err != nil {
			return err
		}
	}

	_ = f.SetColWidth(recordsSheet, "A", "A", 36)
	_ = f.SetColWidth(recordsSheet, "B", "D", 12)
	_ = f.SetColWidth(recordsSheet, "E", "E", 40)
	_ = f.SetColWidth(recordsSheet, "F", "F", 60)
	return nil
}

func writeSummary(f *excelize.File, report *model.Report, headerStyle int) error {
	rows := [][]any{
		{"Scan ID", report.ScanID()},
		{"Source", report.SourceDir()},
		{"Generated", report.GeneratedAt().Format("2006-01-02 15:04:05")},
		{"Total", report.Len()},
		{},
		{"Status", "Count"},
	}
	headerRows := []int{len(rows)}
	for _, s := range model.Statuses {
		rows = append(rows, []any{string(s), report.StatusCount(s)})
	}
	rows = append(rows, []any{}, []any{"Risk", "Count"})
	headerRows = append(headerRows, len(rows))
	for _, l := range model.RiskLevels {
		rows = append(rows, []any{string(l), report.RiskCount(l)})
	}

	if hits := report.IndicatorHits(); len(hits) > 0 {
		rows = append(rows, []any{}, []any{"Indicator", "Files"})
		headerRows = append(headerRows, len(rows))
		ids := make([]string, 0, len(hits))
		for id := range hits {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			rows = append(rows, []any{id, hits[id]})
		}
	}

	for i, r := range rows {
		if err := writeRow(f, summarySheet, i+1, r); err != nil {
			return err
		}
	}
	for _, r := range headerRows {
		first, _ := excelize.CoordinatesToCellName(1, r)
		second, _ := excelize.CoordinatesToCellName(2, r)
		if err := f.SetCellStyle(summarySheet, first, second, headerStyle); err != nil {
			return err
		}
	}

	_ = f.SetColWidth(summarySheet, "A", "A", 24)
	_ = f.SetColWidth(summarySheet, "B", "B", 40)
	return nil
}

func writeRow[T any](f *excelize.File, sheet string, row int, values []T) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}
