package fetcher

import (
	"context"
	"fmt"

	"github.com/ScrpTrx-Go/GoVKStat/internal/domain/contracts"
	"github.com/ScrpTrx-Go/GoVKStat/internal/domain/model"
	pkg "github.com/ScrpTrx-Go/GoVKStat/pkg/logger"
)

// Probe learns the size and the time span of a wall with single-item reads.
type Probe struct {
	api contracts.FeedAPI
	log pkg.Logger
}

func NewProbe(api contracts.FeedAPI, log pkg.Logger) *Probe {
	return &Probe{api: api, log: log}
}

// CountAndOldest returns the number of posts on the wall and the date of the
// oldest one. Walls are newest-first, so the oldest post sits at total-1.
func (p *Probe) CountAndOldest(ctx context.Context, ownerID int64) (int, int64, error) {
	head, err := p.api.WallPage(ctx, ownerID, 0, 1)
	if err != nil {
		return 0, 0, fmt.Errorf("probe wall size: %w", err)
	}
	if head.Count == 0 {
		return 0, 0, model.ErrEmptyFeed
	}

	tail, err := p.api.WallPage(ctx, ownerID, head.Count-1, 1)
	if err != nil {
		return 0, 0, fmt.Errorf("probe oldest post: %w", err)
	}
	if len(tail.Items) == 0 {
		return 0, 0, fmt.Errorf("%w: no post at offset %d", model.ErrMalformedResponse, head.Count-1)
	}

	oldest := tail.Items[0].Date
	p.log.Info("Wall probed", "owner_id", ownerID, "total", head.Count, "oldest", oldest)
	return head.Count, oldest, nil
}

// Latest returns the number of posts and the date of the newest one. Two
// posts are read since a pinned post on top may be older than the newest.
func (p *Probe) Latest(ctx context.Context, ownerID int64) (int, int64, error) {
	head, err := p.api.WallPage(ctx, ownerID, 0, 2)
	if err != nil {
		return 0, 0, fmt.Errorf("probe latest post: %w", err)
	}
	if head.Count == 0 || len(head.Items) == 0 {
		return 0, 0, model.ErrEmptyFeed
	}
	newest := head.Items[0].Date
	for _, post := range head.Items {
		if post.Date > newest {
			newest = post.Date
		}
	}
	return head.Count, newest, nil
}
