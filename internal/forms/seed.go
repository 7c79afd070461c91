package forms

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
)

// SeedUser is recorded as created_by on seeded templates.
const SeedUser = "system"

//go:embed seeds.json
var seedData []byte

// Seeds returns fresh copies of the built-in government form templates.
func Seeds() ([]Template, error) {
	var seeds []Template
	if err := json.Unmarshal(seedData, &seeds); err != nil {
		return nil, fmt.Errorf("failed to parse seed templates: %w", err)
	}
	for i := range seeds {
		seeds[i].CreatedBy = SeedUser
	}
	return seeds, nil
}

// SeedResult reports what a seeding pass did.
type SeedResult struct {
	Added    int `json:"added"`
	Existing int `json:"existing"`
	Total    int `json:"total"`
}

// SeedIfEmpty inserts every seed template when the store holds none. Added
// is zero when templates already exist.
func SeedIfEmpty(ctx context.Context, store Store) (SeedResult, error) {
	count, err := store.CountTemplates(ctx)
	if err != nil {
		return SeedResult{}, err
	}
	if count > 0 {
		return SeedResult{Existing: count, Total: count}, nil
	}
	seeds, err := Seeds()
	if err != nil {
		return SeedResult{}, err
	}
	for i := range seeds {
		if err := store.CreateTemplate(ctx, &seeds[i]); err != nil {
			return SeedResult{}, fmt.Errorf("failed to seed %q: %w", seeds[i].Title, err)
		}
	}
	return SeedResult{Added: len(seeds), Total: len(seeds)}, nil
}

// SeedMissing inserts each seed template whose title is not already present.
func SeedMissing(ctx context.Context, store Store) (SeedResult, error) {
	seeds, err := Seeds()
	if err != nil {
		return SeedResult{}, err
	}
	var res SeedResult
	for i := range seeds {
		_, err := store.FindTemplateByTitle(ctx, seeds[i].Title)
		switch {
		case err == nil:
			res.Existing++
			continue
		case !errors.Is(err, ErrNotFound):
			return res, err
		}
		if err := store.CreateTemplate(ctx, &seeds[i]); err != nil {
			return res, fmt.Errorf("failed to seed %q: %w", seeds[i].Title, err)
		}
		res.Added++
	}
	total, err := store.CountTemplates(ctx)
	if err != nil {
		return res, err
	}
	res.Total = total
	return res, nil
}
