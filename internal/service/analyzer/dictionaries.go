package analyzer

import "strings"

type DefaultDictionaryCreator struct {
	keywords []string
}

type Dictionary struct {
	Keywords []string
}

func NewDictionaryCreator(keywords []string) DictionaryCreator {
	return &DefaultDictionaryCreator{keywords: keywords}
}

// CreateDictionary lowercases, trims and dedups the configured keywords.
func (c *DefaultDictionaryCreator) CreateDictionary() *Dictionary {
	seen := make(map[string]struct{}, len(c.keywords))
	words := make([]string, 0, len(c.keywords))
	for _, kw := range c.keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if _, ok := seen[kw]; ok {
			continue
		}
		seen[kw] = struct{}{}
		words = append(words, kw)
	}
	return &Dictionary{Keywords: words}
}
