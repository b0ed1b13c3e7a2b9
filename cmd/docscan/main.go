// Package main 文档安全扫描命令行工具
package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"docScanGuard/internal/config"
	"docScanGuard/internal/logger"
)

const appName = "docscan"

var (
	// 命令行参数
	configPath string
	inputDir   string
	outputDir  string
	workers    int
	formats    []string
	rulesPath  string
	noCharts   bool
	verbose    bool

	// 颜色输出
	colorRed    = color.New(color.FgRed, color.Bold)
	colorGreen  = color.New(color.FgGreen, color.Bold)
	colorYellow = color.New(color.FgYellow)
	colorCyan   = color.New(color.FgCyan)
)

func main() {
	err := rootCmd.Execute()
	_ = logger.Close()
	if err != nil {
		colorRed.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Scan a folder of documents for suspicious content",
	Long: `docscan extracts text from PDF, DOCX and TXT documents, matches it
against an ordered set of indicator rules and writes an aggregated report.

Examples:
  # scan ./doc and write reports to ./reports
  docscan scan

  # custom folders, extra artifacts
  docscan scan --input inbox --output out --formats markdown,html,pdf,xlsx,sqlite

  # re-scan whenever the folder changes
  docscan watch --input inbox

  # show the effective indicator rules
  docscan rules --rules ./rules.d`,
	Version:       config.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "config file (default: ./config.yaml or /etc/docScanGuard/config.yaml)")
	pf.StringVarP(&inputDir, "input", "i", "doc", "folder with documents to scan")
	pf.StringVarP(&outputDir, "output", "o", "reports", "folder for generated reports")
	pf.IntVarP(&workers, "workers", "w", 0, "concurrent extractions (default from config)")
	pf.StringSliceVarP(&formats, "formats", "f", nil, "report formats: markdown,html,pdf,xlsx,sqlite,metrics")
	pf.StringVarP(&rulesPath, "rules", "r", "", "indicator rules file or directory (YAML)")
	pf.BoolVar(&noCharts, "no-charts", false, "do not render charts")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(scanCmd, watchCmd, rulesCmd, versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(config.GetFullVersionInfo())
	},
}
