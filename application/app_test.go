package application

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ScrpTrx-Go/GoVKStat/internal/domain/model"
	"github.com/ScrpTrx-Go/GoVKStat/internal/service/analyzer"
	"github.com/ScrpTrx-Go/GoVKStat/internal/service/fetcher"
	"github.com/ScrpTrx-Go/GoVKStat/internal/service/reporter"
	"github.com/ScrpTrx-Go/GoVKStat/internal/service/validator"
	pkg "github.com/ScrpTrx-Go/GoVKStat/pkg/logger"
)

// memoryWall is a newest-first wall that batches like the execute script.
type memoryWall struct {
	posts   []model.Post
	failAt  int
	batches int
}

func newMemoryWall(n int, newest time.Time, step time.Duration) *memoryWall {
	posts := make([]model.Post, n)
	for i := range posts {
		posts[i] = model.Post{
			ID:    int64(n - i),
			Date:  newest.Add(-time.Duration(i) * step).Unix(),
			Text:  "post",
			Likes: i % 5,
		}
	}
	posts[0].Text = "big SALE today"
	return &memoryWall{posts: posts, failAt: -1}
}

func (w *memoryWall) page(offset, count int) []model.Post {
	if offset >= len(w.posts) {
		return []model.Post{}
	}
	return w.posts[offset:min(offset+count, len(w.posts))]
}

func (w *memoryWall) WallPage(ctx context.Context, ownerID int64, offset, count int) (model.WallPage, error) {
	return model.WallPage{Count: len(w.posts), Items: w.page(offset, count)}, nil
}

func (w *memoryWall) WallBatch(ctx context.Context, ownerID int64, offset int, threshold int64) (model.BatchResult, error) {
	w.batches++
	if offset == w.failAt {
		return model.BatchResult{}, model.ErrRemoteUnavailable
	}
	res := model.BatchResult{Offset: offset}
	for i := 0; i < 15; i++ {
		page := w.page(offset+i*100, 100)
		res.Pages = append(res.Pages, page)
		if len(page) < 100 || page[99].Date <= threshold {
			break
		}
	}
	return res, nil
}

func newTestApp(wall *memoryWall, dir string) *App {
	log := pkg.NewNopLogger()
	probe := fetcher.NewProbe(wall, log)
	app := NewApp(
		probe,
		fetcher.NewScheduler(wall, log, 1),
		validator.NewValidator(probe, log),
		reporter.NewCSVSink(dir, log),
		reporter.NewExcelRenderer(dir, log),
		log,
	)
	app.Mentions = analyzer.NewDefaultMentionPipeline(log, []string{"sale"}, 2)
	app.Summary = reporter.NewSummaryWriter(dir, log)
	return app
}

func TestRunWritesArtifacts(t *testing.T) {
	dir := t.TempDir()
	newest := time.Now().UTC().Add(-time.Hour)
	wall := newMemoryWall(3000, newest, time.Minute)
	start := time.Date(newest.Year(), newest.Month(), newest.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -10)

	res, err := newTestApp(wall, dir).Run(context.Background(), -1, start)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(res.Records) != 3000 {
		t.Errorf("got %d records, want 3000", len(res.Records))
	}
	if wall.batches != 2 {
		t.Errorf("got %d batch calls, want 2", wall.batches)
	}
	if res.Stats.Years.Total() != 3000 || res.Stats.Hours.Total() != 3000 {
		t.Errorf("histogram totals %d/%d", res.Stats.Years.Total(), res.Stats.Hours.Total())
	}
	if res.Mentions["sale"] != 1 {
		t.Errorf("mentions = %v", res.Mentions)
	}
	// csv, four workbooks, summary
	if len(res.Artifacts) != 6 {
		t.Fatalf("got %d artifacts: %v", len(res.Artifacts), res.Artifacts)
	}

	f, err := os.Open(filepath.Join(dir, res.Run.ArtifactBase()+".csv"))
	if err != nil {
		t.Fatalf("open csv: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 3001 {
		t.Errorf("got %d csv rows, want 3001", len(rows))
	}
	if rows[1][0] != "3000" {
		t.Errorf("first record id %s, want newest post 3000", rows[1][0])
	}
}

func TestRunFailedBatchWritesNothing(t *testing.T) {
	dir := t.TempDir()
	newest := time.Now().UTC().Add(-time.Hour)
	wall := newMemoryWall(3000, newest, time.Minute)
	wall.failAt = 1500
	start := newest.AddDate(0, 0, -10)
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)

	res, err := newTestApp(wall, dir).Run(context.Background(), -1, start)
	if res != nil {
		t.Fatalf("expected no result, got %+v", res)
	}
	if !errors.Is(err, model.ErrBatchFetchFailed) || !errors.Is(err, model.ErrRemoteUnavailable) {
		t.Fatalf("unexpected error %v", err)
	}
	var batchErr *model.BatchFetchError
	if !errors.As(err, &batchErr) || batchErr.Offset != 1500 {
		t.Fatalf("expected failure at offset 1500, got %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no artifacts, found %d", len(entries))
	}
}

type failingStore struct{}

func (failingStore) SaveRun(ctx context.Context, run model.Run, records []model.Record, stats *model.Stats) error {
	return errors.New("connection refused")
}

// flakyCharts renders through the real workbook writer until it reaches failOn.
type flakyCharts struct {
	*reporter.ExcelRenderer
	failOn model.Dimension
}

func (c flakyCharts) Render(ctx context.Context, run model.Run, dim model.Dimension, buckets []model.LabeledBucket) (string, error) {
	if dim == c.failOn {
		return "", errors.New("disk full")
	}
	return c.ExcelRenderer.Render(ctx, run, dim, buckets)
}

func TestRunFailedEmitRemovesArtifacts(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(app *App, dir string)
		wantErr string
	}{
		{
			name:    "store fails",
			setup:   func(app *App, dir string) { app.Store = failingStore{} },
			wantErr: "connection refused",
		},
		{
			name: "chart fails",
			setup: func(app *App, dir string) {
				app.Charts = flakyCharts{ExcelRenderer: reporter.NewExcelRenderer(dir, pkg.NewNopLogger()), failOn: model.Months}
			},
			wantErr: "disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			newest := time.Now().UTC().Add(-time.Hour)
			wall := newMemoryWall(300, newest, time.Minute)
			start := newest.AddDate(0, 0, -10)
			start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)

			app := newTestApp(wall, dir)
			tt.setup(app, dir)

			res, err := app.Run(context.Background(), -1, start)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("got %v, want error containing %q", err, tt.wantErr)
			}
			if res != nil {
				t.Fatalf("expected no result, got %+v", res)
			}

			entries, err := os.ReadDir(dir)
			if err != nil {
				t.Fatal(err)
			}
			if len(entries) != 0 {
				names := make([]string, 0, len(entries))
				for _, e := range entries {
					names = append(names, e.Name())
				}
				t.Errorf("expected no artifacts, found %v", names)
			}
		})
	}
}

func TestRunRejectsInvalidRequest(t *testing.T) {
	wall := newMemoryWall(10, time.Now().Add(-time.Hour), time.Minute)
	_, err := newTestApp(wall, t.TempDir()).Run(context.Background(), 0, time.Now().AddDate(0, 0, -1))
	if !errors.Is(err, model.ErrInvalidRequest) {
		t.Fatalf("got %v, want ErrInvalidRequest", err)
	}
	if wall.batches != 0 {
		t.Errorf("no batches expected, got %d", wall.batches)
	}
}
