package corpus

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrMissingSource marks a required pipeline input that does not exist on
// disk. Steps treat it as fatal: nothing meaningful can be produced without
// the articles or index export.
var ErrMissingSource = errors.New("required source missing")

// LoadArticles reads the article corpus from path.
func LoadArticles(path string) ([]Article, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("articles source %s: %w", path, ErrMissingSource)
		}
		return nil, fmt.Errorf("failed to read articles from %s: %w", path, err)
	}

	var articles []Article
	if err := json.Unmarshal(data, &articles); err != nil {
		return nil, fmt.Errorf("failed to parse articles from %s: %w", path, err)
	}
	return articles, nil
}

// LoadIndex reads the authority index from path.
func LoadIndex(path string) ([]IndexEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("index source %s: %w", path, ErrMissingSource)
		}
		return nil, fmt.Errorf("failed to read index from %s: %w", path, err)
	}

	var entries []IndexEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse index from %s: %w", path, err)
	}
	return entries, nil
}
