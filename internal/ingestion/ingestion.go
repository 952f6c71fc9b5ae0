package ingestion

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/guttosm/gastos/internal/domain/models"
	"github.com/guttosm/gastos/internal/logger"
	"github.com/guttosm/gastos/internal/storage"
)

const (
	defaultBatchSize = 5000
	maxParallel      = 7
)

// RangeFetcher reads one spreadsheet range as a table (header first).
type RangeFetcher interface {
	FetchRange(ctx context.Context, rng string) (models.Table, error)
}

// repoCtor is an indirection for creating the repository; tests can override this.
var repoCtor = func(db *sql.DB) storage.SnapshotRepository {
	return storage.NewSnapshotRepository(db)
}

// now is swapped in tests to pin the snapshot date.
var now = time.Now

// ProcessRanges snapshots every range into PostgreSQL for the current day.
//
// Parameters:
//   - fetcher:  source of the range contents (Google Sheets in production).
//   - db:       open *sql.DB (PostgreSQL).
//   - ranges:   range names, passed through to the fetcher untouched.
//   - parallel: max concurrent ranges; <= 0 means min(7, NumCPU).
//   - force:    replace a snapshot already taken today.
//
// Behavior:
//   - A range already snapshotted today is skipped unless force is set.
//   - The range is fetched before anything is written, so a failed fetch
//     keeps the existing snapshot.
//   - Rows (header included) replace the day's snapshot in one transaction,
//     copied in batches of defaultBatchSize.
//   - The first failing range cancels the others.
//
// Returns:
//   - error: first error encountered (if any).
func ProcessRanges(ctx context.Context, fetcher RangeFetcher, db *sql.DB, ranges []string, parallel int, force bool) error {
	if len(ranges) == 0 {
		return errors.New("no ranges configured")
	}
	repo := repoCtor(db)

	t := now()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)

	limit := concurrency(parallel)
	logger.L().Info().Int("ranges", len(ranges)).Int("max_parallel", limit).Time("day", day).Msg("ingestion start")

	// errgroup will cancel siblings on first error.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, rng := range ranges {
		idx := i
		r := rng
		g.Go(func() error {
			start := time.Now()
			log := logger.L().With().Int("idx", idx+1).Int("total", len(ranges)).Str("range", r).Logger()

			exists, err := repo.HasSnapshotForDate(gctx, r, day)
			if err != nil {
				log.Error().Err(err).Msg("check snapshot log failed")
				return fmt.Errorf("range %s: check snapshot log: %w", r, err)
			}
			if exists && !force {
				log.Info().Bool("skipped", true).Msg("already snapshotted")
				return nil
			}

			table, err := fetcher.FetchRange(gctx, r)
			if err != nil {
				log.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("fetch failed")
				return fmt.Errorf("range %s: fetch: %w", r, err)
			}
			if len(table) == 0 {
				log.Error().Msg("range is empty")
				return fmt.Errorf("range %s: empty range: %w", r, models.ErrInvalidTable)
			}

			if err := repo.ReplaceSnapshot(gctx, r, day, table, defaultBatchSize); err != nil {
				log.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("store failed")
				return fmt.Errorf("range %s: store snapshot: %w", r, err)
			}
			log.Info().Int("rows", len(table)).Dur("elapsed", time.Since(start)).Bool("force", force).Msg("range done")
			return nil
		})
	}

	return g.Wait()
}

func concurrency(parallel int) int {
	if parallel > 0 {
		if parallel > maxParallel {
			return maxParallel
		}
		return parallel
	}
	if c := runtime.NumCPU(); c < maxParallel {
		return c
	}
	return maxParallel
}
