package coupon

import (
	"context"
	"fmt"
	"sync"
	"time"

	"prepkart/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Seeder loads coupon definition files and upserts them into a Store.
type Seeder struct {
	loader Loader
	store  Store
	logger zerolog.Logger
	now    func() time.Time
}

// NewSeeder creates a new coupon seeder.
func NewSeeder(loader Loader, store Store, logger zerolog.Logger) *Seeder {
	return &Seeder{
		loader: loader,
		store:  store,
		logger: logger.With().Str("component", "coupon-seeder").Logger(),
		now:    time.Now,
	}
}

// Load reads all files concurrently and merges them. When a code appears in
// more than one file, the file listed later wins.
func (s *Seeder) Load(ctx context.Context, filePaths []string) (Set, error) {
	type loadResult struct {
		index int
		set   Set
		err   error
	}

	resultChan := make(chan loadResult, len(filePaths))
	var wg sync.WaitGroup

	for i, filePath := range filePaths {
		wg.Add(1)
		go func(index int, path string) {
			defer wg.Done()

			set, err := s.loader.Load(ctx, path)
			resultChan <- loadResult{index: index, set: set, err: err}
		}(i, filePath)
	}

	wg.Wait()
	close(resultChan)

	results := make([]loadResult, len(filePaths))
	for result := range resultChan {
		results[result.index] = result
	}

	merged := newMapSet(64)
	for i, result := range results {
		if result.err != nil {
			s.logger.Error().
				Err(result.err).
				Str("file", filePaths[i]).
				Msg("failed to load coupon file")
			return nil, fmt.Errorf("failed to load coupon file %s: %w", filePaths[i], result.err)
		}
		for _, def := range result.set.Definitions() {
			merged.Add(def)
		}
	}

	return merged, nil
}

// Seed loads filePaths and upserts every definition. It returns the number of
// coupons written.
func (s *Seeder) Seed(ctx context.Context, filePaths []string) (int, error) {
	if len(filePaths) == 0 {
		s.logger.Debug().Msg("no coupon seed files configured")
		return 0, nil
	}

	s.logger.Info().Int("file_count", len(filePaths)).Msg("seeding coupons")

	set, err := s.Load(ctx, filePaths)
	if err != nil {
		return 0, err
	}

	now := s.now()
	defs := set.Definitions()
	coupons := make([]model.Coupon, 0, len(defs))
	for i := range defs {
		coupons = append(coupons, Build(&defs[i], uuid.New(), now))
	}

	if err := s.store.Upsert(ctx, coupons); err != nil {
		return 0, fmt.Errorf("failed to store seeded coupons: %w", err)
	}

	s.logger.Info().Int("coupons", len(coupons)).Msg("coupons seeded successfully")
	return len(coupons), nil
}
