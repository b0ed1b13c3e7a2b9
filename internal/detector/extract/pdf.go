package extract

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/h2non/filetype"
	"github.com/ledongthuc/pdf"
)

// headerSize 文件头嗅探长度，OOXML 子类型识别需要前几个 zip 条目
const headerSize = 8192

// PDFExtractor 使用 ledongthuc/pdf 提取纯文本
// 所有页按顺序以单个空格连接；空页或单页解析失败贡献空串，页序保持不变
type PDFExtractor struct{}

func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

func (e *PDFExtractor) Format() string       { return "PDF" }
func (e *PDFExtractor) Extensions() []string { return []string{"pdf"} }

func (e *PDFExtractor) Extract(ctx context.Context, path string) (string, error) {
	f, size, err := openWithHeader(path, e.Format(), "pdf")
	if err != nil {
		return "", err
	}
	defer f.Close()

	reader, err := pdf.NewReader(f, size)
	if err != nil {
		return "", err
	}

	total := reader.NumPage()
	pages := make([]string, 0, total)
	for i := 1; i <= total; i++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, content)
	}

	return strings.Join(pages, " "), nil
}

// openWithHeader 打开文件并按文件头识别实际类型
// 识别结果不在 accepted 中时报告实际类型，例如 "file is PDF, not DOCX"
func openWithHeader(path, format string, accepted ...string) (*os.File, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, err
	}

	header := make([]byte, headerSize)
	n, err := f.ReadAt(header, 0)
	if err != nil && err != io.EOF {
		f.Close()
		return nil, 0, err
	}
	if err := checkSignature(header[:n], format, accepted); err != nil {
		f.Close()
		return nil, 0, err
	}

	return f, stat.Size(), nil
}

func checkSignature(header []byte, format string, accepted []string) error {
	if len(header) == 0 {
		return fmt.Errorf("file is empty, not %s", format)
	}
	kind, err := filetype.Match(header)
	if err != nil {
		return err
	}
	if kind == filetype.Unknown {
		return fmt.Errorf("file has no %s signature", format)
	}
	if slices.Contains(accepted, kind.Extension) {
		return nil
	}
	return fmt.Errorf("file is %s, not %s", strings.ToUpper(kind.Extension), format)
}
