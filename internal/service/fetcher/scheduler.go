package fetcher

import (
	"context"
	"time"

	"github.com/ScrpTrx-Go/GoVKStat/internal/domain/contracts"
	"github.com/ScrpTrx-Go/GoVKStat/internal/domain/model"
	pkg "github.com/ScrpTrx-Go/GoVKStat/pkg/logger"
	"golang.org/x/sync/errgroup"
)

const DefaultConcurrency = 3

// Scheduler runs one batch call per offset with a fixed number of calls in
// flight and hands the results back in offset order.
type Scheduler struct {
	api         contracts.FeedAPI
	log         pkg.Logger
	concurrency int
}

func NewScheduler(api contracts.FeedAPI, log pkg.Logger, concurrency int) *Scheduler {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Scheduler{
		api:         api,
		log:         log,
		concurrency: concurrency,
	}
}

// FetchAll returns len(offsets) results, results[i] belonging to offsets[i].
// The first failing batch cancels the others and the whole call fails with
// a *model.BatchFetchError.
func (s *Scheduler) FetchAll(ctx context.Context, ownerID int64, offsets []int, threshold int64) ([]model.BatchResult, error) {
	start := time.Now()
	results := make([]model.BatchResult, len(offsets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, offset := range offsets {
		g.Go(func() error {
			res, err := s.api.WallBatch(gctx, ownerID, offset, threshold)
			if err != nil {
				s.log.Error("Batch fetch failed", "owner_id", ownerID, "offset", offset, "err", err)
				return &model.BatchFetchError{Offset: offset, Err: err}
			}
			res.Offset = offset
			results[i] = res
			s.log.Debug("Batch done", "offset", offset, "pages", len(res.Pages), "posts", res.Len())
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.log.Info("All batches fetched", "owner_id", ownerID, "batches", len(offsets), "duration", time.Since(start).String())
	return results, nil
}
