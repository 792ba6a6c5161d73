package fetcher

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ScrpTrx-Go/GoVKStat/internal/domain/model"
)

const (
	testPageSize      = 100
	testPagesPerBatch = 15
	testBatchCap      = testPageSize * testPagesPerBatch
)

// fakeFeed serves a newest-first wall from memory and mimics the execute
// script: up to 15 pages, stopping on a short page or on a page whose last
// post is not newer than the threshold.
type fakeFeed struct {
	posts      []model.Post
	failOffset int
	failErr    error
	delay      func(offset int) time.Duration

	mu          sync.Mutex
	batchCalls  []int
	pagesServed int
	inFlight    int32
	maxInFlight int32
}

func newFakeFeed(n int, newest int64, step int64) *fakeFeed {
	posts := make([]model.Post, n)
	for i := range posts {
		posts[i] = model.Post{
			ID:       int64(n - i),
			Date:     newest - int64(i)*step,
			Text:     "post",
			Likes:    i % 7,
			Comments: i % 3,
			Reposts:  i % 2,
		}
	}
	return &fakeFeed{posts: posts, failOffset: -1}
}

func (f *fakeFeed) page(offset, count int) []model.Post {
	if offset >= len(f.posts) {
		return []model.Post{}
	}
	end := min(offset+count, len(f.posts))
	out := make([]model.Post, end-offset)
	copy(out, f.posts[offset:end])
	return out
}

func (f *fakeFeed) WallPage(ctx context.Context, ownerID int64, offset, count int) (model.WallPage, error) {
	return model.WallPage{Count: len(f.posts), Items: f.page(offset, count)}, nil
}

func (f *fakeFeed) WallBatch(ctx context.Context, ownerID int64, offset int, threshold int64) (model.BatchResult, error) {
	cur := atomic.AddInt32(&f.inFlight, 1)
	defer atomic.AddInt32(&f.inFlight, -1)
	for {
		prev := atomic.LoadInt32(&f.maxInFlight)
		if cur <= prev || atomic.CompareAndSwapInt32(&f.maxInFlight, prev, cur) {
			break
		}
	}

	f.mu.Lock()
	f.batchCalls = append(f.batchCalls, offset)
	f.mu.Unlock()

	if f.delay != nil {
		select {
		case <-ctx.Done():
			return model.BatchResult{}, ctx.Err()
		case <-time.After(f.delay(offset)):
		}
	}
	if offset == f.failOffset {
		return model.BatchResult{}, f.failErr
	}

	res := model.BatchResult{Offset: offset}
	for i := 0; i < testPagesPerBatch; i++ {
		page := f.page(offset+i*testPageSize, testPageSize)
		res.Pages = append(res.Pages, page)
		if len(page) < testPageSize || page[testPageSize-1].Date <= threshold {
			break
		}
	}

	f.mu.Lock()
	f.pagesServed += len(res.Pages)
	f.mu.Unlock()
	return res, nil
}
