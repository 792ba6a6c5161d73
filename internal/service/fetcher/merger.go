package fetcher

import (
	"iter"

	"github.com/ScrpTrx-Go/GoVKStat/internal/domain/model"
)

// MergeAndFilter walks the batches in the given order, then their pages, then
// the posts of each page, and yields the posts newer than threshold.
// Batches planned contiguously keep the wall's newest-first order.
//
// Pinned posts come first on the wall whatever their date; they are held back
// and yielded at their date position. A post seen twice, which happens when
// the wall shifts between batch calls, is yielded once.
func MergeAndFilter(results []model.BatchResult, threshold int64) iter.Seq[model.Post] {
	return func(yield func(model.Post) bool) {
		seen := make(map[int64]struct{})
		var pinned []model.Post

		emit := func(post model.Post) bool {
			if _, ok := seen[post.ID]; ok {
				return true
			}
			seen[post.ID] = struct{}{}
			return yield(post)
		}

		for _, batch := range results {
			for _, page := range batch.Pages {
				for _, post := range page {
					if post.Date <= threshold {
						continue
					}
					if post.IsPinned {
						pinned = insertByDate(pinned, post)
						continue
					}
					for len(pinned) > 0 && pinned[0].Date >= post.Date {
						if !emit(pinned[0]) {
							return
						}
						pinned = pinned[1:]
					}
					if !emit(post) {
						return
					}
				}
			}
		}
		for _, post := range pinned {
			if !emit(post) {
				return
			}
		}
	}
}

// insertByDate keeps posts newest-first.
func insertByDate(posts []model.Post, post model.Post) []model.Post {
	i := 0
	for i < len(posts) && posts[i].Date >= post.Date {
		i++
	}
	posts = append(posts, model.Post{})
	copy(posts[i+1:], posts[i:])
	posts[i] = post
	return posts
}

// Threshold is the cursor of a run: posts at or before it are dropped.
// It never goes below one second before the oldest post, so the oldest post
// itself still passes the filter.
func Threshold(start, oldest int64) int64 {
	return max(start, oldest-1)
}
