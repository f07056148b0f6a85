// Package seed reads the static datasets the collections are reset to on startup.
package seed

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"dealer_reviews/internal/domain"
	"dealer_reviews/internal/validation"
)

const (
	DealershipsFile = "dealerships.json"
	ReviewsFile     = "reviews.json"
)

type Data struct {
	Dealerships []domain.Dealership
	Reviews     []domain.Review
}

// Load reads both seed files from dir. Every failure wraps domain.ErrStartup.
func Load(dir string) (Data, error) {
	var out Data
	ds, err := readList(filepath.Join(dir, DealershipsFile), "dealerships", validation.KindDealership)
	if err != nil {
		return Data{}, err
	}
	if out.Dealerships, err = decodeAll[domain.Dealership](ds); err != nil {
		return Data{}, fmt.Errorf("%w: %s: %v", domain.ErrStartup, DealershipsFile, err)
	}

	rs, err := readList(filepath.Join(dir, ReviewsFile), "reviews", validation.KindReview)
	if err != nil {
		return Data{}, err
	}
	if out.Reviews, err = decodeAll[domain.Review](rs); err != nil {
		return Data{}, fmt.Errorf("%w: %s: %v", domain.ErrStartup, ReviewsFile, err)
	}
	return out, nil
}

// readList returns the raw records under key, each checked against kind.
func readList(path, key string, kind validation.Kind) ([]json.RawMessage, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read seed: %v", domain.ErrStartup, err)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", domain.ErrStartup, path, err)
	}
	raw, ok := doc[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s has no %q list", domain.ErrStartup, path, key)
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %s: %q is not a list: %v", domain.ErrStartup, path, key, err)
	}
	for i, it := range items {
		if err := validation.Validate(kind, it); err != nil {
			return nil, fmt.Errorf("%w: %s[%d]: %v", domain.ErrStartup, key, i, err)
		}
	}
	return items, nil
}

func decodeAll[T any](items []json.RawMessage) ([]T, error) {
	out := make([]T, 0, len(items))
	for i, it := range items {
		var v T
		if err := json.Unmarshal(it, &v); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}
