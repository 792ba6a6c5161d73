package application

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/ScrpTrx-Go/GoVKStat/internal/domain/contracts"
	"github.com/ScrpTrx-Go/GoVKStat/internal/domain/model"
	"github.com/ScrpTrx-Go/GoVKStat/internal/infra/vk"
	"github.com/ScrpTrx-Go/GoVKStat/internal/service/aggregator"
	"github.com/ScrpTrx-Go/GoVKStat/internal/service/fetcher"
	pkg "github.com/ScrpTrx-Go/GoVKStat/pkg/logger"
	"github.com/google/uuid"
)

// App runs one collection: validate, probe, fetch, aggregate, then emit.
// Mentions, Summary and Store are optional.
type App struct {
	Validator contracts.RequestValidator
	Probe     *fetcher.Probe
	Scheduler *fetcher.Scheduler
	Records   contracts.RecordSink
	Charts    contracts.ChartRenderer
	Mentions  contracts.MentionAnalyzer
	Summary   contracts.SummaryWriter
	Store     contracts.StatsSaver
	Logger    pkg.Logger
}

// Result describes a finished run.
type Result struct {
	Run       model.Run
	Records   []model.Record
	Stats     *model.Stats
	Mentions  map[string]int
	Artifacts []string
}

func NewApp(probe *fetcher.Probe, scheduler *fetcher.Scheduler, validator contracts.RequestValidator, records contracts.RecordSink, charts contracts.ChartRenderer, logger pkg.Logger) *App {
	return &App{
		Validator: validator,
		Probe:     probe,
		Scheduler: scheduler,
		Records:   records,
		Charts:    charts,
		Logger:    logger,
	}
}

// Run collects every post of ownerID's wall published after start. Nothing
// is written unless every batch was fetched.
func (a *App) Run(ctx context.Context, ownerID int64, start time.Time) (*Result, error) {
	startedAt := time.Now()

	if err := a.Validator.Validate(ctx, ownerID, start); err != nil {
		return nil, err
	}

	total, oldest, err := a.Probe.CountAndOldest(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	threshold := fetcher.Threshold(start.Unix(), oldest)
	offsets := fetcher.Plan(total, vk.BatchCap)
	a.Logger.Info("Fetch planned", "owner_id", ownerID, "total", total, "batches", len(offsets), "threshold", threshold)

	results, err := a.Scheduler.FetchAll(ctx, ownerID, offsets, threshold)
	if err != nil {
		return nil, err
	}

	records, stats := aggregator.Aggregate(fetcher.MergeAndFilter(results, threshold))
	a.Logger.Info("Posts aggregated", "owner_id", ownerID, "posts", len(records))

	res := &Result{
		Run: model.Run{
			ID:        uuid.New(),
			OwnerID:   ownerID,
			Start:     start,
			Threshold: threshold,
			StartedAt: startedAt,
		},
		Records: records,
		Stats:   stats,
	}

	if err := a.emit(ctx, res, results); err != nil {
		return nil, err
	}

	a.Logger.Info("Run finished", "run_id", res.Run.ID, "posts", len(records), "artifacts", len(res.Artifacts), "duration", time.Since(startedAt).String())
	return res, nil
}

// emit writes the artifacts and stores the run. When any step fails the
// files written so far are removed.
func (a *App) emit(ctx context.Context, res *Result, results []model.BatchResult) (err error) {
	defer func() {
		if err != nil {
			a.discard(res.Artifacts)
			res.Artifacts = nil
		}
	}()

	path, err := a.Records.WriteRecords(ctx, res.Run, res.Records)
	if err != nil {
		return fmt.Errorf("write records: %w", err)
	}
	res.Artifacts = append(res.Artifacts, path)

	buckets := aggregator.LabeledAll(res.Stats)
	for _, dim := range model.Dimensions {
		path, err := a.Charts.Render(ctx, res.Run, dim, buckets[dim])
		if err != nil {
			return fmt.Errorf("render %s: %w", dim, err)
		}
		res.Artifacts = append(res.Artifacts, path)
	}

	if a.Mentions != nil {
		posts := slices.Collect(fetcher.MergeAndFilter(results, res.Run.Threshold))
		res.Mentions = a.Mentions.CountMentions(ctx, posts)
	}

	if a.Summary != nil {
		path, err := a.Summary.WriteSummary(ctx, model.Summary{
			Run:      res.Run,
			Posts:    len(res.Records),
			Buckets:  buckets,
			Mentions: res.Mentions,
		})
		if err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
		res.Artifacts = append(res.Artifacts, path)
	}

	if a.Store != nil {
		if err := a.Store.SaveRun(ctx, res.Run, res.Records, res.Stats); err != nil {
			return fmt.Errorf("save run: %w", err)
		}
	}
	return nil
}

func (a *App) discard(paths []string) {
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			a.Logger.Error("Failed to remove artifact", "path", path, "err", err)
			continue
		}
		a.Logger.Warn("Artifact removed after failed run", "path", path)
	}
}
