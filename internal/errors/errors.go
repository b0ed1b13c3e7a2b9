// Package errors 定义扫描流水线的错误分类
//
// 三类错误对应三种处理策略:
//   - KindExtraction: 单个文件解析失败，在本地转换为文本记录，不中断扫描
//   - KindRender:     单个产物生成失败，记录后继续生成其余产物
//   - KindEnvironment: 输入目录或输出目录不可用，直接返回给调用方
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Kind 错误类别
type Kind int

const (
	KindUnknown Kind = iota
	KindExtraction
	KindRender
	KindEnvironment
)

// String 返回错误类别名称
func (k Kind) String() string {
	switch k {
	case KindExtraction:
		return "extraction"
	case KindRender:
		return "render"
	case KindEnvironment:
		return "environment"
	default:
		return "unknown"
	}
}

// ScanError 扫描错误
type ScanError struct {
	Kind Kind   // 错误类别
	Op   string // 组件或操作: PDF / DOCX / markdown / mkdir ...
	Path string // 相关文件路径
	Err  error  // 原始错误
}

// Error 实现 error 接口
func (e *ScanError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Kind.String())
	if e.Op != "" {
		sb.WriteString(" ")
		sb.WriteString(e.Op)
	}
	if e.Path != "" {
		sb.WriteString(" ")
		sb.WriteString(e.Path)
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

// Unwrap 返回原始错误
func (e *ScanError) Unwrap() error {
	return e.Err
}

// Payload 返回解析失败时代替文件内容参与分类的文本
// 格式固定为 "Error reading <FORMAT>: <cause>"
func (e *ScanError) Payload() string {
	cause := "unknown error"
	if e.Err != nil {
		cause = e.Err.Error()
	}
	return fmt.Sprintf("Error reading %s: %s", strings.ToUpper(e.Op), cause)
}

// Extraction 创建解析错误
func Extraction(format, path string, err error) *ScanError {
	return &ScanError{Kind: KindExtraction, Op: format, Path: path, Err: err}
}

// Render 创建产物生成错误
func Render(renderer, path string, err error) *ScanError {
	return &ScanError{Kind: KindRender, Op: renderer, Path: path, Err: err}
}

// Environment 创建环境错误
func Environment(op, path string, err error) *ScanError {
	return &ScanError{Kind: KindEnvironment, Op: op, Path: path, Err: err}
}

// KindOf 返回错误链中第一个 ScanError 的类别
func KindOf(err error) Kind {
	var se *ScanError
	if stderrors.As(err, &se) {
		return se.Kind
	}
	return KindUnknown
}

// IsEnvironment 是否为致命的环境错误
func IsEnvironment(err error) bool {
	return KindOf(err) == KindEnvironment
}
