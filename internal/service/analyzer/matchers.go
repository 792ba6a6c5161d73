package analyzer

import (
	"github.com/cloudflare/ahocorasick"
)

type DefaultMatchersCreator struct {
	dict *Dictionary
}

type Matchers struct {
	Keywords *ahocorasick.Matcher
}

func NewMatcherCreator(dict *Dictionary) MatchersCreator {
	return &DefaultMatchersCreator{
		dict: dict,
	}
}

func (m *DefaultMatchersCreator) CreateMatchers() Matchers {
	return Matchers{
		Keywords: ahocorasick.NewStringMatcher(m.dict.Keywords),
	}
}
