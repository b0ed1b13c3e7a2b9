// Package model 定义扫描结果的数据模型
package model

// Status 文档判定状态
type Status string

const (
	StatusSafe       Status = "Safe"
	StatusSuspicious Status = "Suspicious"
)

// Statuses 按展示顺序列出全部状态
var Statuses = []Status{StatusSafe, StatusSuspicious}

// RiskLevel 风险等级
// Medium 为保留等级，当前规则集只会产生 Low 或 High
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// RiskLevels 按展示顺序列出全部风险等级
var RiskLevels = []RiskLevel{RiskLow, RiskMedium, RiskHigh}

// Classification 分类器对一段文本的判定结果
type Classification struct {
	Status            Status    `json:"status"`
	Risk              RiskLevel `json:"risk"`
	MatchedIndicators []string  `json:"matched_indicators"`
}

// DocumentRecord 单个文件的扫描记录，创建后不再修改
type DocumentRecord struct {
	FileName          string    `json:"filename"`
	Format            string    `json:"format"` // PDF / DOCX / TXT
	Status            Status    `json:"status"`
	Risk              RiskLevel `json:"risk"`
	MatchedIndicators []string  `json:"matched_indicators"`
	// 解析失败时的替代文本 ("Error reading DOCX: ...")，成功时为空
	ExtractError string `json:"extract_error,omitempty"`
}

// NewDocumentRecord 由文件信息和分类结果组装记录
func NewDocumentRecord(fileName, format string, c Classification, extractErr string) DocumentRecord {
	matched := make([]string, len(c.MatchedIndicators))
	copy(matched, c.MatchedIndicators)
	return DocumentRecord{
		FileName:          fileName,
		Format:            format,
		Status:            c.Status,
		Risk:              c.Risk,
		MatchedIndicators: matched,
		ExtractError:      extractErr,
	}
}

// IsSuspicious 是否命中任意特征
func (r DocumentRecord) IsSuspicious() bool {
	return r.Status == StatusSuspicious
}

// Failed 文件是否解析失败
func (r DocumentRecord) Failed() bool {
	return r.ExtractError != ""
}
