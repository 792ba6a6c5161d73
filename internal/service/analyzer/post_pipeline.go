package analyzer

import (
	"context"
	"sync"

	"github.com/ScrpTrx-Go/GoVKStat/internal/domain/model"
	pkg "github.com/ScrpTrx-Go/GoVKStat/pkg/logger"
)

// MentionPipeline fans posts out to keyword workers and tallies, per keyword,
// how many posts mention it.
type MentionPipeline struct {
	Log     pkg.Logger
	Workers []MentionWorker
	dict    *Dictionary
}

func NewMentionPipeline(log pkg.Logger, dict *Dictionary, workers []MentionWorker) *MentionPipeline {
	return &MentionPipeline{
		Log:     log,
		Workers: workers,
		dict:    dict,
	}
}

// NewDefaultMentionPipeline builds a pipeline of n workers over keywords.
func NewDefaultMentionPipeline(log pkg.Logger, keywords []string, n int) *MentionPipeline {
	dict := NewDictionaryCreator(keywords).CreateDictionary()
	if n <= 0 {
		n = 1
	}
	workers := make([]MentionWorker, 0, n)
	for i := 0; i < n; i++ {
		workers = append(workers, NewKeywordWorker(NewMatcherCreator(dict), log, *dict))
	}
	return NewMentionPipeline(log, dict, workers)
}

func (p *MentionPipeline) CountMentions(ctx context.Context, posts []model.Post) map[string]int {
	counts := make(map[string]int)
	if p.dict == nil || len(p.dict.Keywords) == 0 || len(p.Workers) == 0 {
		return counts
	}
	for _, kw := range p.dict.Keywords {
		counts[kw] = 0
	}

	in := make(chan model.Post)
	out := make(chan []string)
	var wg sync.WaitGroup

	for _, worker := range p.Workers {
		wg.Add(1)
		go func(w MentionWorker) {
			defer wg.Done()
			w.Run(ctx, in, out)
		}(worker)
	}

	go func() {
		defer close(in)
		for _, post := range posts {
			select {
			case <-ctx.Done():
				return
			case in <- post:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(out)
	}()

	for found := range out {
		for _, kw := range found {
			counts[kw]++
		}
	}
	p.Log.Info("Keyword mentions counted", "posts", len(posts), "keywords", len(p.dict.Keywords))
	return counts
}
