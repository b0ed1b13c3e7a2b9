package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"docScanGuard/internal/model"
)

// ScanRun 一次扫描的汇总
type ScanRun struct {
	ScanID      string `gorm:"primaryKey;size:36"`
	SourceDir   string
	GeneratedAt time.Time
	Total       int
	Safe        int
	Suspicious  int
	RiskLow     int
	RiskMedium  int
	RiskHigh    int
	Failures    int
}

// TableName 表名
func (ScanRun) TableName() string { return "scan_runs" }

// ScanRecord 单个文件的扫描记录
type ScanRecord struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"`
	ScanID       string `gorm:"index;size:36"`
	Seq          int    // 目录枚举顺序
	FileName     string
	Format       string
	Status       string `gorm:"index"`
	Risk         string
	Indicators   string // 逗号分隔的规则 ID
	ExtractError string
}

func (ScanRecord) TableName() string { return "scan_records" }

// MatchedIndicators 拆分命中规则列表
func (r ScanRecord) MatchedIndicators() []string {
	if r.Indicators == "" {
		return []string{}
	}
	return strings.Split(r.Indicators, ",")
}

// SaveReport 在一个事务中写入汇总与全部记录
func (d *DB) SaveReport(ctx context.Context, report *model.Report) error {
	run := ScanRun{
		ScanID:      report.ScanID(),
		SourceDir:   report.SourceDir(),
		GeneratedAt: report.GeneratedAt(),
		Total:       report.Len(),
		Safe:        report.StatusCount(model.StatusSafe),
		Suspicious:  report.StatusCount(model.StatusSuspicious),
		RiskLow:     report.RiskCount(model.RiskLow),
		RiskMedium:  report.RiskCount(model.RiskMedium),
		RiskHigh:    report.RiskCount(model.RiskHigh),
		Failures:    len(report.Failures()),
	}

	records := report.Records()
	rows := make([]ScanRecord, 0, len(records))
	for i, rec := range records {
		rows = append(rows, ScanRecord{
			ScanID:       run.ScanID,
			Seq:          i,
			FileName:     rec.FileName,
			Format:       rec.Format,
			Status:       string(rec.Status),
			Risk:         string(rec.Risk),
			Indicators:   strings.Join(rec.MatchedIndicators, ","),
			ExtractError: rec.ExtractError,
		})
	}

	return d.withContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&run).Error; err != nil {
			return fmt.Errorf("insert scan run: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(rows, d.opts.BatchSize).Error; err != nil {
			return fmt.Errorf("insert scan records: %w", err)
		}
		return nil
	})
}

// GetRun 查询扫描汇总
func (d *DB) GetRun(ctx context.Context, scanID string) (*ScanRun, error) {
	var run ScanRun
	if err := d.withContext(ctx).Where("scan_id = ?", scanID).First(&run).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

// ListRecords 按扫描顺序返回记录
func (d *DB) ListRecords(ctx context.Context, scanID string) ([]ScanRecord, error) {
	var rows []ScanRecord
	err := d.withContext(ctx).
		Where("scan_id = ?", scanID).
		Order("seq asc").
		Find(&rows).Error
	return rows, err
}

// WriteSnapshot 覆盖写入 path 处的快照数据库
func WriteSnapshot(ctx context.Context, path string, report *model.Report, opts Options) error {
	if err := RemoveFiles(path); err != nil {
		return fmt.Errorf("remove old snapshot: %w", err)
	}

	db, err := Open(path, opts)
	if err != nil {
		return err
	}
	defer db.Close()

	return db.SaveReport(ctx, report)
}
