package extract

import (
	"context"
	"io"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// TextExtractor 纯文本提取器
// 按 UTF-8 解码并去除 BOM (UTF-16 BOM 时按 UTF-16 解码)，非法字节替换为 U+FFFD，不会拒绝文件
type TextExtractor struct{}

func NewTextExtractor() *TextExtractor {
	return &TextExtractor{}
}

func (e *TextExtractor) Format() string       { return "TXT" }
func (e *TextExtractor) Extensions() []string { return []string{"txt"} }

func (e *TextExtractor) Extract(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	data, err := io.ReadAll(transform.NewReader(f, decoder))
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return string(data), nil
}
