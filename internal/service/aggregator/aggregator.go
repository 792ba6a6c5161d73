package aggregator

import (
	"iter"
	"time"

	"github.com/ScrpTrx-Go/GoVKStat/internal/domain/model"
)

// Keys returns the hour, weekday (0 is Monday), month and year of a post
// date, read in UTC.
func Keys(date int64) (hour, weekday, month, year int) {
	t := time.Unix(date, 0).UTC()
	return t.Hour(), (int(t.Weekday()) + 6) % 7, int(t.Month()), t.Year()
}

// Aggregate folds posts into per-post records and the four histograms.
// Records keep the order of posts; the histograms do not depend on it.
func Aggregate(posts iter.Seq[model.Post]) ([]model.Record, *model.Stats) {
	records := make([]model.Record, 0)
	stats := model.NewStats()
	for post := range posts {
		records = append(records, model.NewRecord(post))
		Add(stats, post)
	}
	return records, stats
}

func Add(stats *model.Stats, post model.Post) {
	hour, weekday, month, year := Keys(post.Date)
	stats.Hours.Add(hour, post)
	stats.Weekdays.Add(weekday, post)
	stats.Months.Add(month, post)
	stats.Years.Add(year, post)
}
