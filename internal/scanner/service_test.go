package scanner

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docScanGuard/internal/detector/extract"
	"docScanGuard/internal/detector/indicator"
	scanerrors "docScanGuard/internal/errors"
	"docScanGuard/internal/model"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
}

func newTestService(workers int) *Service {
	return NewService(Config{Workers: workers, FileTimeout: 5 * time.Second}, extract.Default(), indicator.MustDefault())
}

func TestRun_Scenarios(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		wantLen int
		check   func(t *testing.T, r *model.Report)
	}{
		{
			name:    "HyperlinkText",
			files:   map[string]string{"a.txt": "visit http://example.com now"},
			wantLen: 1,
			check: func(t *testing.T, r *model.Report) {
				rec := r.Records()[0]
				assert.Equal(t, model.StatusSuspicious, rec.Status)
				assert.Equal(t, model.RiskHigh, rec.Risk)
				assert.Contains(t, rec.MatchedIndicators, "raw-hyperlink")
				assert.Equal(t, "TXT", rec.Format)
			},
		},
		{
			name:    "SafeText",
			files:   map[string]string{"b.txt": "hello world"},
			wantLen: 1,
			check: func(t *testing.T, r *model.Report) {
				rec := r.Records()[0]
				assert.Equal(t, model.StatusSafe, rec.Status)
				assert.Equal(t, model.RiskLow, rec.Risk)
				assert.Empty(t, rec.MatchedIndicators)
				assert.Equal(t, 1, r.StatusCount(model.StatusSafe))
			},
		},
		{
			name:    "EmptyFolder",
			files:   map[string]string{},
			wantLen: 0,
			check: func(t *testing.T, r *model.Report) {
				assert.True(t, r.Empty())
			},
		},
		{
			name:    "UnreadableDocx",
			files:   map[string]string{"broken.docx": "definitely not a zip archive"},
			wantLen: 1,
			check: func(t *testing.T, r *model.Report) {
				rec := r.Records()[0]
				assert.True(t, rec.Failed())
				assert.True(t, strings.HasPrefix(rec.ExtractError, "Error reading DOCX: "), rec.ExtractError)
				assert.Equal(t, model.StatusSafe, rec.Status)
				assert.Equal(t, "DOCX", rec.Format)
			},
		},
		{
			name: "UnsupportedSkipped",
			files: map[string]string{
				"keep.txt":   "plain",
				"image.png":  "http://ignored",
				"legacy.doc": "macro",
				"noext":      "cmd.exe",
			},
			wantLen: 1,
			check: func(t *testing.T, r *model.Report) {
				assert.Equal(t, "keep.txt", r.Records()[0].FileName)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := t.TempDir()
			out := filepath.Join(t.TempDir(), "reports")
			writeFiles(t, in, tt.files)

			report, err := newTestService(1).Run(context.Background(), in, out)
			require.NoError(t, err)
			require.Equal(t, tt.wantLen, report.Len())

			// 计数一致性
			total := 0
			for _, s := range model.Statuses {
				total += report.StatusCount(s)
			}
			assert.Equal(t, report.Len(), total)
			for _, rec := range report.Records() {
				assert.Equal(t, rec.IsSuspicious(), len(rec.MatchedIndicators) > 0)
			}

			info, err := os.Stat(out)
			require.NoError(t, err)
			assert.True(t, info.IsDir())

			tt.check(t, report)
		})
	}
}

func TestRun_SubdirectorySkipped(t *testing.T) {
	in := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(in, "nested.txt"), 0755))
	writeFiles(t, in, map[string]string{"top.txt": "ok"})

	report, err := newTestService(1).Run(context.Background(), in, t.TempDir())
	require.NoError(t, err)
	require.Equal(t, 1, report.Len())
	assert.Equal(t, "top.txt", report.Records()[0].FileName)
}

func TestRun_EnvironmentErrors(t *testing.T) {
	svc := newTestService(1)

	_, err := svc.Run(context.Background(), filepath.Join(t.TempDir(), "missing"), t.TempDir())
	require.Error(t, err)
	assert.True(t, scanerrors.IsEnvironment(err))

	file := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
	_, err = svc.Run(context.Background(), file, t.TempDir())
	assert.True(t, scanerrors.IsEnvironment(err))

	// 输出路径被普通文件占用
	in := t.TempDir()
	_, err = svc.Run(context.Background(), in, filepath.Join(file, "reports"))
	require.Error(t, err)
	assert.True(t, scanerrors.IsEnvironment(err))
}

func TestRun_ReadOnlyOutput(t *testing.T) {
	svc := newTestService(1)
	in := t.TempDir()
	writeFiles(t, in, map[string]string{"a.txt": "hello"})

	out := t.TempDir()
	if os.Geteuid() == 0 {
		// root 忽略权限位，改用内核只读目录
		if runtime.GOOS != "linux" {
			t.Skip("read-only directory needs linux when running as root")
		}
		out = "/proc"
	} else {
		require.NoError(t, os.Chmod(out, 0555))
		t.Cleanup(func() { os.Chmod(out, 0755) })
	}

	_, err := svc.Run(context.Background(), in, out)
	require.Error(t, err)
	assert.True(t, scanerrors.IsEnvironment(err))
	assert.Contains(t, err.Error(), "access output")
}

// delayExtractor 按文件名查表延迟后返回文件名
type delayExtractor struct {
	delays map[string]time.Duration
}

func (d *delayExtractor) Format() string       { return "SLOW" }
func (d *delayExtractor) Extensions() []string { return []string{"slow"} }
func (d *delayExtractor) Extract(ctx context.Context, path string) (string, error) {
	name := filepath.Base(path)
	select {
	case <-time.After(d.delays[name]):
		return name, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func TestRun_ParallelKeepsFolderOrder(t *testing.T) {
	in := t.TempDir()
	names := []string{"a.slow", "b.slow", "c.slow", "d.slow", "e.slow"}
	delays := make(map[string]time.Duration, len(names))
	for i, n := range names {
		// 越靠前的文件越慢
		delays[n] = time.Duration(len(names)-i) * 15 * time.Millisecond
		writeFiles(t, in, map[string]string{n: ""})
	}

	registry := extract.Default()
	registry.Register(&delayExtractor{delays: delays})
	svc := NewService(Config{Workers: 4, FileTimeout: time.Second}, registry, nil)

	report, err := svc.Run(context.Background(), in, t.TempDir())
	require.NoError(t, err)

	var got []string
	for _, rec := range report.Records() {
		got = append(got, rec.FileName)
	}
	assert.Equal(t, names, got)
}

func TestRun_TimeoutBecomesErrorRecord(t *testing.T) {
	in := t.TempDir()
	writeFiles(t, in, map[string]string{"hang.slow": "", "fine.txt": "hello"})

	registry := extract.Default()
	registry.Register(&delayExtractor{delays: map[string]time.Duration{"hang.slow": time.Minute}})
	svc := NewService(Config{Workers: 2, FileTimeout: 30 * time.Millisecond}, registry, nil)

	report, err := svc.Run(context.Background(), in, t.TempDir())
	require.NoError(t, err)
	require.Equal(t, 2, report.Len())

	failures := report.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, "hang.slow", failures[0].FileName)
	assert.Equal(t, "Error reading SLOW: context deadline exceeded", failures[0].ExtractError)
}

func TestRun_Cancelled(t *testing.T) {
	in := t.TempDir()
	writeFiles(t, in, map[string]string{"a.txt": "x"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestService(1).Run(ctx, in, t.TempDir())
	assert.ErrorIs(t, err, context.Canceled)
}
