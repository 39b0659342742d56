package stats

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nerdneilsfield/go-docprep/pkg/document"
	"github.com/nerdneilsfield/go-docprep/pkg/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord(t *testing.T, converged bool) *BuildRecord {
	t.Helper()
	doc := document.NewDocument(document.FormatMarkdown)
	doc.Index.Register(document.IndexTerm{Name: "apple"}, "a")
	doc.Index.Register(document.IndexTerm{Name: "pear"}, "b")

	res := &layout.Result{
		Document:   doc,
		Pages:      make([]*layout.Page, 3),
		Passes:     2,
		Converged:  converged,
		Unresolved: []document.UnresolvedReference{{TargetID: "x", Kind: document.PAGE}},
		Duration:   200 * time.Millisecond,
	}
	return NewBuildRecord(res, "in.md", "out.html", "html")
}

func TestNewBuildRecord(t *testing.T) {
	record := sampleRecord(t, true)
	assert.NotEmpty(t, record.ID)
	assert.Equal(t, "markdown", record.InputFormat)
	assert.Equal(t, 3, record.Pages)
	assert.Equal(t, 2, record.IndexEntries)
	assert.Equal(t, 1, record.Unresolved)
	assert.Equal(t, StatusCompleted, record.Status)

	assert.Equal(t, StatusUnstable, sampleRecord(t, false).Status)

	failed := NewFailedRecord("in.md", "out.txt", time.Second, errors.New("boom"))
	assert.Equal(t, StatusFailed, failed.Status)
	assert.Equal(t, "boom", failed.ErrorMessage)
}

func TestDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "stats.json")
	db, err := NewDatabase(path, nil)
	require.NoError(t, err)
	assert.FileExists(t, path)

	require.NoError(t, db.AddBuildRecord(sampleRecord(t, true)))
	require.NoError(t, db.AddBuildRecord(sampleRecord(t, false)))
	require.NoError(t, db.AddBuildRecord(NewFailedRecord("bad.md", "bad.txt", 0, errors.New("parse error"))))

	stats := db.GetStats()
	assert.EqualValues(t, 3, stats.TotalBuilds)
	assert.EqualValues(t, 1, stats.TotalErrors)
	assert.EqualValues(t, 6, stats.TotalPages)
	assert.EqualValues(t, 2, stats.TotalUnresolved)

	html := stats.FormatStats["html"]
	require.NotNil(t, html)
	assert.EqualValues(t, 2, html.BuildCount)
	assert.InDelta(t, 2.0, html.AveragePasses, 1e-9)
	assert.InDelta(t, 0.5, html.ConvergenceRate, 1e-9)
	assert.Equal(t, 200*time.Millisecond, html.AverageDuration)
	assert.InDelta(t, 15.0, stats.PerformanceStats.AveragePagesPerSecond, 1e-6)
	assert.Equal(t, 2, stats.PerformanceStats.MostPasses)

	// 重新打开后数据仍在
	reopened, err := NewDatabase(path, nil)
	require.NoError(t, err)
	recent := reopened.GetRecentBuilds(2)
	require.Len(t, recent, 2)
	assert.EqualValues(t, 3, reopened.GetStats().TotalBuilds)
	assert.Len(t, reopened.GetRecentBuilds(0), 3)
}

func TestDatabaseCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewDatabase(path, nil)
	assert.ErrorContains(t, err, "failed to parse stats file")
}

func TestVisualizer(t *testing.T) {
	db, err := NewDatabase(filepath.Join(t.TempDir(), "stats.json"), nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	v := NewVisualizer(db, &buf)
	v.ShowFormatStats()
	v.ShowRecentBuilds(5)
	assert.Contains(t, buf.String(), "No format data available.")
	assert.Contains(t, buf.String(), "No recent builds found.")

	require.NoError(t, db.AddBuildRecord(sampleRecord(t, true)))
	require.NoError(t, db.AddBuildRecord(NewFailedRecord("bad.md", "bad.txt", 0, errors.New("parse error"))))

	buf.Reset()
	v.ShowOverview()
	v.ShowFormatStats()
	v.ShowRecentBuilds(5)

	out := buf.String()
	assert.Contains(t, out, "Total Builds")
	assert.Contains(t, out, "HTML")
	assert.Contains(t, out, "in.md")
	assert.Contains(t, out, "bad.md: parse error")
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "1,234,567", formatNumber(1234567))
	assert.Equal(t, "999", formatNumber(999))
	assert.Equal(t, "0s", formatDuration(0))
	assert.Equal(t, "250ms", formatDuration(250*time.Millisecond))
	assert.Equal(t, "1.5s", formatDuration(1500*time.Millisecond))
	assert.Equal(t, "N/A", formatTime(time.Time{}))
	assert.Equal(t, "...6789", truncate("0123456789", 7))
	assert.Equal(t, "short", truncate("short", 7))
}
