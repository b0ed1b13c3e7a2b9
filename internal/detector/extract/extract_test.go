package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	scanerrors "docScanGuard/internal/errors"
)

// createMockDocx 创建一个内存中的 docx zip 流，每个参数对应一个段落
func createMockDocx(paragraphs ...string) *bytes.Buffer {
	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)

	f, _ := w.Create("word/document.xml")
	var body strings.Builder
	for _, p := range paragraphs {
		body.WriteString(`<w:p><w:r><w:t>` + p + `</w:t></w:r></w:p>`)
	}
	f.Write([]byte(`<w:document><w:body>` + body.String() + `</w:body></w:document>`))

	w.Close()
	return buf
}

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestRegistry_Lookup(t *testing.T) {
	r := Default()

	tests := []struct {
		name       string
		path       string
		wantFormat string
		wantErr    error
	}{
		{"PDF", "a.pdf", "PDF", nil},
		{"UpperCase", "REPORT.PDF", "PDF", nil},
		{"Docx", "memo.Docx", "DOCX", nil},
		{"Text", "notes.txt", "TXT", nil},
		{"LegacyDoc", "old.doc", "", ErrUnsupported},
		{"Image", "scan.png", "", ErrUnsupported},
		{"NoExt", "README", "", ErrUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := r.Lookup(tt.path)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.False(t, r.Supports(tt.path))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantFormat, e.Format())
		})
	}

	assert.Equal(t, []string{"docx", "pdf", "txt"}, r.Extensions())
	assert.Equal(t, []string{"PDF", "DOCX", "TXT"}, r.Formats())
}

func TestDocxExtractor(t *testing.T) {
	e := NewDocxExtractor()

	path := writeTemp(t, "memo.docx", createMockDocx("first paragraph", "", "macro inside").Bytes())
	text, err := e.Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "first paragraph  macro inside", text)

	notZip := writeTemp(t, "fake.docx", []byte("plain text pretending to be docx"))
	_, err = e.Extract(context.Background(), notZip)
	assert.Error(t, err)

	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)
	f, _ := w.Create("other.xml")
	f.Write([]byte("<x/>"))
	w.Close()
	noDocument := writeTemp(t, "empty.docx", buf.Bytes())
	_, err = e.Extract(context.Background(), noDocument)
	assert.Error(t, err)
}

func TestTextExtractor(t *testing.T) {
	e := NewTextExtractor()

	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"Plain", []byte("visit http://example.com now"), "visit http://example.com now"},
		{"BOM", append([]byte{0xEF, 0xBB, 0xBF}, []byte("hello")...), "hello"},
		{"InvalidUTF8", []byte("ok \xff end"), "ok � end"},
		{"Empty", []byte{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTemp(t, "in.txt", tt.data)
			got, err := e.Extract(context.Background(), path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPDFExtractor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "two_pages.pdf")
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetCompression(false)
	doc.SetFont("Helvetica", "", 12)
	doc.AddPage()
	doc.Cell(40, 10, "Hello")
	doc.AddPage()
	doc.Cell(40, 10, "World")
	require.NoError(t, doc.OutputFileAndClose(path))

	text, err := NewPDFExtractor().Extract(context.Background(), path)
	require.NoError(t, err)

	hello := strings.Index(text, "Hello")
	world := strings.Index(text, "World")
	require.GreaterOrEqual(t, hello, 0, "text: %q", text)
	require.Greater(t, world, hello, "text: %q", text)
}

func TestPDFExtractor_Garbage(t *testing.T) {
	path := writeTemp(t, "broken.pdf", []byte("this is not a pdf"))
	_, err := NewPDFExtractor().Extract(context.Background(), path)
	assert.Error(t, err)

	truncated := writeTemp(t, "truncated.pdf", []byte("%PDF-1.4\n%garbage"))
	_, err = NewPDFExtractor().Extract(context.Background(), truncated)
	assert.Error(t, err)
}

func TestExtract_SignatureMismatch(t *testing.T) {
	plainZip := new(bytes.Buffer)
	w := zip.NewWriter(plainZip)
	f, _ := w.Create("other.xml")
	f.Write([]byte("<x/>"))
	w.Close()

	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)

	tests := []struct {
		name    string
		file    string
		data    []byte
		extract Extractor
		wantErr string
	}{
		{"PDFAsDocx", "report.docx", []byte("%PDF-1.4\n%%EOF\n"), NewDocxExtractor(), "file is PDF, not DOCX"},
		{"ZipAsPDF", "archive.pdf", plainZip.Bytes(), NewPDFExtractor(), "file is ZIP, not PDF"},
		{"PNGAsPDF", "image.pdf", png, NewPDFExtractor(), "file is PNG, not PDF"},
		{"TextAsPDF", "notes.pdf", []byte("just some words"), NewPDFExtractor(), "file has no PDF signature"},
		{"EmptyDocx", "blank.docx", []byte{}, NewDocxExtractor(), "file is empty, not DOCX"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTemp(t, tt.file, tt.data)
			_, err := tt.extract.Extract(context.Background(), path)
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

type stubExtractor struct {
	format string
	fn     func(ctx context.Context) (string, error)
}

func (s *stubExtractor) Format() string       { return s.format }
func (s *stubExtractor) Extensions() []string { return []string{strings.ToLower(s.format)} }
func (s *stubExtractor) Extract(ctx context.Context, _ string) (string, error) {
	return s.fn(ctx)
}

func TestRun(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		e := &stubExtractor{format: "TXT", fn: func(context.Context) (string, error) { return "content", nil }}
		text, err := Run(context.Background(), e, "a.txt", time.Second)
		require.NoError(t, err)
		assert.Equal(t, "content", text)
	})

	t.Run("ErrorPayload", func(t *testing.T) {
		e := &stubExtractor{format: "DOCX", fn: func(context.Context) (string, error) {
			return "", errors.New("zip: not a valid zip file")
		}}
		text, err := Run(context.Background(), e, "bad.docx", time.Second)
		require.Error(t, err)
		assert.Equal(t, "Error reading DOCX: zip: not a valid zip file", text)
		assert.Equal(t, scanerrors.KindExtraction, scanerrors.KindOf(err))
	})

	t.Run("Panic", func(t *testing.T) {
		e := &stubExtractor{format: "PDF", fn: func(context.Context) (string, error) { panic("boom") }}
		text, err := Run(context.Background(), e, "x.pdf", time.Second)
		require.Error(t, err)
		assert.True(t, strings.HasPrefix(text, "Error reading PDF: panic within parser"), text)
	})

	t.Run("Timeout", func(t *testing.T) {
		release := make(chan struct{})
		defer close(release)
		e := &stubExtractor{format: "PDF", fn: func(context.Context) (string, error) {
			<-release
			return "late", nil
		}}
		start := time.Now()
		text, err := Run(context.Background(), e, "slow.pdf", 20*time.Millisecond)
		require.Error(t, err)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Equal(t, "Error reading PDF: context deadline exceeded", text)
		assert.Less(t, time.Since(start), time.Second)
	})
}
