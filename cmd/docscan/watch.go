package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"docScanGuard/internal/logger"
	"docScanGuard/internal/watch"
)

var debounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Scan once, then re-scan whenever the input folder changes",
	Long: `Run a scan, then watch the input folder for created, modified, renamed
or removed documents and re-run the scan after the folder has been quiet for
the debounce interval. Press Ctrl+C to stop.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&debounce, "debounce", 0, "quiet period before re-scanning (default from config)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	p, err := newPipeline(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("debounce") {
		p.cfg.Watch.Debounce = debounce
	}
	if err := watch.CheckOutputDir(p.cfg.Scanner.InputDir, p.cfg.Report.OutputDir); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scanOnce := func(ctx context.Context) error {
		start := time.Now()
		rep, summary, err := p.run(ctx)
		if err != nil {
			return err
		}
		printSummary(rep, summary, time.Since(start))
		return nil
	}

	// 首次扫描失败 (目录不可用) 直接退出
	if err := scanOnce(ctx); err != nil {
		colorRed.Printf("❌ Scan failed: %v\n", err)
		return err
	}

	colorCyan.Printf("👀 Watching %s (debounce %v), press Ctrl+C to stop\n", p.cfg.Scanner.InputDir, p.cfg.Watch.Debounce)

	opts := watch.Options{
		Debounce: p.cfg.Watch.Debounce,
		Filter:   p.registry.Supports,
	}
	return watch.Watch(ctx, p.cfg.Scanner.InputDir, opts, func(ctx context.Context, changed []string) {
		colorYellow.Printf("🔄 %d file(s) changed, re-scanning\n", len(changed))
		if err := scanOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error("Re-scan failed", "error", err)
			colorRed.Printf("❌ Scan failed: %v\n", err)
		}
	})
}
