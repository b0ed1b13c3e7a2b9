package model

import (
	"time"

	"github.com/google/uuid"
)

// ReportMeta 扫描任务的元信息
type ReportMeta struct {
	ScanID      string
	SourceDir   string
	GeneratedAt time.Time
}

// Report 一次扫描的聚合结果
// 由 NewReport 一次性构造，之后只读；各渲染器共享同一个实例
type Report struct {
	meta         ReportMeta
	records      []DocumentRecord
	statusCounts map[Status]int
	riskCounts   map[RiskLevel]int
}

// NewReport 构造聚合结果，records 的顺序即为展示顺序
func NewReport(meta ReportMeta, records []DocumentRecord) *Report {
	if meta.ScanID == "" {
		meta.ScanID = uuid.NewString()
	}
	if meta.GeneratedAt.IsZero() {
		meta.GeneratedAt = time.Now()
	}

	r := &Report{
		meta:         meta,
		records:      make([]DocumentRecord, len(records)),
		statusCounts: make(map[Status]int, len(Statuses)),
		riskCounts:   make(map[RiskLevel]int, len(RiskLevels)),
	}
	copy(r.records, records)

	for _, s := range Statuses {
		r.statusCounts[s] = 0
	}
	for _, l := range RiskLevels {
		r.riskCounts[l] = 0
	}
	for _, rec := range r.records {
		r.statusCounts[rec.Status]++
		r.riskCounts[rec.Risk]++
	}
	return r
}

// Records 返回记录副本
func (r *Report) Records() []DocumentRecord {
	out := make([]DocumentRecord, len(r.records))
	copy(out, r.records)
	return out
}

// Len 记录数
func (r *Report) Len() int { return len(r.records) }

// Empty 是否没有任何记录
func (r *Report) Empty() bool { return len(r.records) == 0 }

// StatusCount 某状态的文件数
func (r *Report) StatusCount(s Status) int { return r.statusCounts[s] }

// RiskCount 某风险等级的文件数
func (r *Report) RiskCount(l RiskLevel) int { return r.riskCounts[l] }

// StatusCounts 返回状态计数副本
func (r *Report) StatusCounts() map[Status]int {
	out := make(map[Status]int, len(r.statusCounts))
	for k, v := range r.statusCounts {
		out[k] = v
	}
	return out
}

// RiskCounts 返回风险等级计数副本
func (r *Report) RiskCounts() map[RiskLevel]int {
	out := make(map[RiskLevel]int, len(r.riskCounts))
	for k, v := range r.riskCounts {
		out[k] = v
	}
	return out
}

// Failures 解析失败的记录
func (r *Report) Failures() []DocumentRecord {
	var out []DocumentRecord
	for _, rec := range r.records {
		if rec.Failed() {
			out = append(out, rec)
		}
	}
	return out
}

// IndicatorHits 每个特征命中的文件数
func (r *Report) IndicatorHits() map[string]int {
	hits := make(map[string]int)
	for _, rec := range r.records {
		for _, id := range rec.MatchedIndicators {
			hits[id]++
		}
	}
	return hits
}

// ScanID 本次扫描的唯一标识
func (r *Report) ScanID() string { return r.meta.ScanID }

// SourceDir 被扫描的目录
func (r *Report) SourceDir() string { return r.meta.SourceDir }

// GeneratedAt 聚合结果生成时间
func (r *Report) GeneratedAt() time.Time { return r.meta.GeneratedAt }
