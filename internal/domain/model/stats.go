package model

import (
	"math"
	"sort"
)

type Dimension string

const (
	Hours    Dimension = "hours"
	Weekdays Dimension = "days"
	Months   Dimension = "months"
	Years    Dimension = "years"
)

// Dimensions lists the histograms in the order they are emitted.
var Dimensions = []Dimension{Hours, Weekdays, Months, Years}

type StatBucket struct {
	Amount   int
	Likes    int
	Comments int
	Reposts  int
}

func (b *StatBucket) Add(p Post) {
	b.Amount++
	b.Likes += p.Likes
	b.Comments += p.Comments
	b.Reposts += p.Reposts
}

func (b StatBucket) AverageLikes() float64    { return average(b.Likes, b.Amount) }
func (b StatBucket) AverageComments() float64 { return average(b.Comments, b.Amount) }
func (b StatBucket) AverageReposts() float64  { return average(b.Reposts, b.Amount) }

func average(total, amount int) float64 {
	if amount == 0 {
		return 0
	}
	return math.Round(float64(total)/float64(amount)*100) / 100
}

// Histogram maps a bucket key (hour, weekday, month or year) to its accumulator.
type Histogram map[int]*StatBucket

func (h Histogram) Add(key int, p Post) {
	b, ok := h[key]
	if !ok {
		b = &StatBucket{}
		h[key] = b
	}
	b.Add(p)
}

func (h Histogram) Total() int {
	total := 0
	for _, b := range h {
		total += b.Amount
	}
	return total
}

// Keys returns the bucket keys in ascending order.
func (h Histogram) Keys() []int {
	keys := make([]int, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

type LabeledBucket struct {
	Key   int
	Label string
	StatBucket
}

// Stats holds the four histograms of one run.
type Stats struct {
	Hours    Histogram
	Weekdays Histogram
	Months   Histogram
	Years    Histogram
}

func NewStats() *Stats {
	return &Stats{
		Hours:    Histogram{},
		Weekdays: Histogram{},
		Months:   Histogram{},
		Years:    Histogram{},
	}
}

func (s *Stats) Histogram(dim Dimension) Histogram {
	switch dim {
	case Hours:
		return s.Hours
	case Weekdays:
		return s.Weekdays
	case Months:
		return s.Months
	case Years:
		return s.Years
	}
	return nil
}
