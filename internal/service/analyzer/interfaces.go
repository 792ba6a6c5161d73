package analyzer

import (
	"context"

	"github.com/ScrpTrx-Go/GoVKStat/internal/domain/model"
)

type MentionWorker interface {
	Run(ctx context.Context, in <-chan model.Post, out chan<- []string)
}

type MatchersCreator interface {
	CreateMatchers() Matchers
}

type DictionaryCreator interface {
	CreateDictionary() *Dictionary
}
