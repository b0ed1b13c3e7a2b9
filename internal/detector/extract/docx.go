package extract

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

const documentPart = "word/document.xml"

// DocxExtractor 读取 word/document.xml 中的段落文本
// 段落按文档顺序以单个空格连接，空段落同样占位
type DocxExtractor struct{}

func NewDocxExtractor() *DocxExtractor {
	return &DocxExtractor{}
}

func (e *DocxExtractor) Format() string       { return "DOCX" }
func (e *DocxExtractor) Extensions() []string { return []string{"docx"} }

func (e *DocxExtractor) Extract(ctx context.Context, path string) (string, error) {
	f, size, err := openWithHeader(path, e.Format(), "docx", "zip")
	if err != nil {
		return "", err
	}
	defer f.Close()

	zr, err := zip.NewReader(f, size)
	if err != nil {
		return "", err
	}

	for _, file := range zr.File {
		if file.Name != documentPart {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return "", err
		}
		defer rc.Close()

		paragraphs, err := parseParagraphs(ctx, rc)
		if err != nil {
			return "", err
		}
		return strings.Join(paragraphs, " "), nil
	}

	return "", fmt.Errorf("package has no %s part", documentPart)
}

// parseParagraphs 遍历 WordprocessingML，返回每个 <w:p> 的文本
// 嵌套段落 (文本框) 的内容并入外层段落
func parseParagraphs(ctx context.Context, r io.Reader) ([]string, error) {
	decoder := xml.NewDecoder(r)

	var (
		paragraphs []string
		current    strings.Builder
		depth      int
		inText     bool
	)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				if depth == 0 {
					current.Reset()
				}
				depth++
			case "t":
				inText = true
			case "tab":
				if depth > 0 {
					current.WriteString("\t")
				}
			case "br", "cr":
				if depth > 0 {
					current.WriteString("\n")
				}
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				if depth == 0 {
					continue
				}
				depth--
				if depth == 0 {
					paragraphs = append(paragraphs, current.String())
				}
			case "t":
				inText = false
			}

		case xml.CharData:
			if inText && depth > 0 {
				current.Write(t)
			}
		}
	}

	return paragraphs, nil
}
