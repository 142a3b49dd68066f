// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/naka-gawa/contribution-stats/internal/domain"
	"github.com/naka-gawa/contribution-stats/internal/gateway"
	"golang.org/x/sync/errgroup"
)

// Aggregator is the use case for building a user's contribution statistics.
// It orchestrates the remote lookups and hands the raw data to ComputeStats.
type Aggregator struct {
	fetcher gateway.Fetcher
	logger  *log.Logger
	now     func() time.Time
}

// NewAggregator creates a new Aggregator instance.
func NewAggregator(fetcher gateway.Fetcher, logger *log.Logger) *Aggregator {
	return &Aggregator{
		fetcher: fetcher,
		logger:  logger,
		now:     time.Now,
	}
}

// Aggregate looks up username and computes its statistics for the current calendar year.
// The remote calls run one after another; the first failure aborts the whole run.
func (a *Aggregator) Aggregate(ctx context.Context, username string) (*domain.StatsResult, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, domain.ErrUsernameRequired
	}
	a.logger.Printf("Usecase: Starting aggregation for %q...", username)

	user, err := a.fetcher.LookupUser(ctx, username)
	if err != nil {
		return nil, err
	}

	contributions, err := a.fetcher.FetchContributions(ctx, user)
	if err != nil {
		return nil, err
	}

	projects, err := a.fetcher.ListProjects(ctx, user)
	if err != nil {
		return nil, err
	}
	a.logger.Printf("Usecase: Fetched %d calendar days and %d projects.", len(contributions), len(projects))

	result := ComputeStats(contributions, projects, a.now())
	a.logger.Printf("Usecase: Aggregation complete for %q.", username)
	return result, nil
}

// AggregateMany runs Aggregate for every username with at most limit runs in flight.
// onDone, when non-nil, is called after each successful run. The first failure cancels
// the remaining runs and is returned.
func (a *Aggregator) AggregateMany(ctx context.Context, usernames []string, limit int, onDone func(username string)) (map[string]*domain.StatsResult, error) {
	results := make(map[string]*domain.StatsResult, len(usernames))
	var mu sync.Mutex

	eg, egCtx := errgroup.WithContext(ctx)
	if limit > 0 {
		eg.SetLimit(limit)
	}

	for _, username := range usernames {
		eg.Go(func() error {
			result, err := a.Aggregate(egCtx, username)
			if err != nil {
				return fmt.Errorf("%s: %w", username, err)
			}
			mu.Lock()
			results[username] = result
			mu.Unlock()
			if onDone != nil {
				onDone(username)
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	a.logger.Printf("Usecase: Aggregated %d users.", len(results))
	return results, nil
}
