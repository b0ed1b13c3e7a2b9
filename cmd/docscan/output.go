package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"docScanGuard/internal/model"
	"docScanGuard/internal/report"
)

func printSeparator() {
	fmt.Println(strings.Repeat("-", 60))
}

// printSummary 输出产物列表、失败信息与统计表
func printSummary(rep *model.Report, summary report.Summary, elapsed time.Duration) {
	printSeparator()
	for _, c := range summary.Charts {
		colorGreen.Printf("✅ Chart generated: %s\n", c.Path)
	}
	for _, a := range summary.Artifacts {
		colorGreen.Printf("✅ Report generated: %s\n", a.Path)
	}
	for _, err := range summary.Errors {
		colorRed.Printf("❌ %v\n", err)
	}
	if rep.Empty() {
		colorYellow.Println("📭 No supported documents found")
	}

	for _, rec := range rep.Records() {
		if rec.IsSuspicious() {
			colorYellow.Printf("⚠️  %s: %s\n", rec.FileName, strings.Join(rec.MatchedIndicators, ", "))
		}
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Metric", "Count"})
	table.Append([]string{"Documents", strconv.Itoa(rep.Len())})
	for _, s := range model.Statuses {
		table.Append([]string{string(s), strconv.Itoa(rep.StatusCount(s))})
	}
	for _, l := range model.RiskLevels {
		table.Append([]string{"Risk " + string(l), strconv.Itoa(rep.RiskCount(l))})
	}
	table.Append([]string{"Extraction errors", strconv.Itoa(len(rep.Failures()))})
	table.Render()

	colorCyan.Printf("Scan %s finished in %v\n", rep.ScanID(), elapsed.Round(time.Millisecond))
}
