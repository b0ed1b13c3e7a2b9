package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the input folder once and write reports",
	Long: `Scan every .pdf, .docx and .txt file directly inside the input folder,
classify it and write the configured report artifacts to the output folder.

Files that cannot be parsed are still listed with an "Error reading <FORMAT>"
entry. Only a missing input folder or an unusable output folder fail the run.`,
	RunE: runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	p, err := newPipeline(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	colorCyan.Printf("🔍 Scanning %s\n", p.cfg.Scanner.InputDir)
	start := time.Now()

	rep, summary, err := p.run(ctx)
	if err != nil {
		colorRed.Printf("❌ Scan failed: %v\n", err)
		return err
	}

	printSummary(rep, summary, time.Since(start))
	return nil
}
