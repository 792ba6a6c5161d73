package analyzer

import (
	"context"
	"strings"
	"time"

	"github.com/ScrpTrx-Go/GoVKStat/internal/domain/model"
	pkg "github.com/ScrpTrx-Go/GoVKStat/pkg/logger"
)

// KeywordWorker reports, for every post it reads, the keywords its text
// mentions. Each worker owns its matcher.
type KeywordWorker struct {
	matchers Matchers
	log      pkg.Logger
	dict     Dictionary
	count    int
	skipped  int
}

func NewKeywordWorker(factory MatchersCreator, log pkg.Logger, dict Dictionary) MentionWorker {
	return &KeywordWorker{
		matchers: factory.CreateMatchers(),
		log:      log,
		dict:     dict,
	}
}

func (a *KeywordWorker) Run(ctx context.Context, in <-chan model.Post, out chan<- []string) {
	start := time.Now()
	for post := range in {
		select {
		case <-ctx.Done():
			a.log.Warn("Context canceled in keyword worker")
			return
		default:
		}

		found := a.Mentions(post.Text)
		if len(found) == 0 {
			a.skipped++
			continue
		}
		a.count++

		select {
		case <-ctx.Done():
			a.log.Warn("Context canceled during mention output")
			return
		case out <- found:
		}
	}
	a.log.Debug("KeywordWorker completed", "matched", a.count, "skipped", a.skipped, "duration", time.Since(start).String())
}

// Mentions returns each keyword found in text once.
func (a *KeywordWorker) Mentions(text string) []string {
	hits := a.matchers.Keywords.Match([]byte(strings.ToLower(text)))
	found := make([]string, 0, len(hits))
	for _, idx := range hits {
		found = append(found, a.dict.Keywords[idx])
	}
	return found
}
