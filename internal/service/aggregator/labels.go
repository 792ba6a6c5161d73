package aggregator

import (
	"fmt"
	"strconv"
	"time"

	"github.com/ScrpTrx-Go/GoVKStat/internal/domain/model"
)

var weekdayNames = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Label renders a bucket key the way charts show it.
func Label(dim model.Dimension, key int) string {
	switch dim {
	case model.Hours:
		return fmt.Sprintf("%d:00-%d:00", key, key+1)
	case model.Weekdays:
		if key >= 0 && key < len(weekdayNames) {
			return weekdayNames[key]
		}
	case model.Months:
		if key >= 1 && key <= 12 {
			return time.Month(key).String()
		}
	}
	return strconv.Itoa(key)
}

// Labeled returns the buckets of one histogram in ascending key order.
func Labeled(dim model.Dimension, h model.Histogram) []model.LabeledBucket {
	keys := h.Keys()
	out := make([]model.LabeledBucket, 0, len(keys))
	for _, k := range keys {
		out = append(out, model.LabeledBucket{Key: k, Label: Label(dim, k), StatBucket: *h[k]})
	}
	return out
}

func LabeledAll(stats *model.Stats) map[model.Dimension][]model.LabeledBucket {
	out := make(map[model.Dimension][]model.LabeledBucket, len(model.Dimensions))
	for _, dim := range model.Dimensions {
		out[dim] = Labeled(dim, stats.Histogram(dim))
	}
	return out
}
