package contracts

import (
	"context"
	"time"

	"github.com/ScrpTrx-Go/GoVKStat/internal/domain/model"
)

// FeedAPI is the remote wall collaborator.
type FeedAPI interface {
	WallPage(ctx context.Context, ownerID int64, offset, count int) (model.WallPage, error)
	WallBatch(ctx context.Context, ownerID int64, offset int, threshold int64) (model.BatchResult, error)
}

type RequestValidator interface {
	Validate(ctx context.Context, ownerID int64, start time.Time) error
}

type RecordSink interface {
	WriteRecords(ctx context.Context, run model.Run, records []model.Record) (string, error)
}

type ChartRenderer interface {
	Render(ctx context.Context, run model.Run, dim model.Dimension, buckets []model.LabeledBucket) (string, error)
}

type MentionAnalyzer interface {
	CountMentions(ctx context.Context, posts []model.Post) map[string]int
}

type SummaryWriter interface {
	WriteSummary(ctx context.Context, summary model.Summary) (string, error)
}

type StatsSaver interface {
	SaveRun(ctx context.Context, run model.Run, records []model.Record, stats *model.Stats) error
}
