package aggregator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/maltedev/coupon-finder/internal/models"
	"github.com/maltedev/coupon-finder/internal/sources"
	"golang.org/x/sync/errgroup"
)

// Fetcher retrieves the candidate codes of a single source.
type Fetcher interface {
	Fetch(ctx context.Context, src models.Source, region models.Region) (sources.Result, error)
}

// Aggregator fans a search out over every configured source.
type Aggregator struct {
	fetcher Fetcher
	sources []models.Source
	logger  *slog.Logger
}

func New(fetcher Fetcher, srcs []models.Source, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		fetcher: fetcher,
		sources: srcs,
		logger:  logger.With("component", "aggregator"),
	}
}

// Search queries all sources concurrently and flattens the codes into
// (code, source) pairs. A failing source contributes nothing and never
// affects the others, so Search itself cannot fail.
func (a *Aggregator) Search(ctx context.Context, region models.Region) []models.Coupon {
	results := make([]*sources.Result, len(a.sources))

	// Branches always return nil: the group is only used to join.
	var g errgroup.Group
	for i, src := range a.sources {
		i, src := i, src
		g.Go(func() error {
			res, err := a.fetchIsolated(ctx, src, region)
			if err != nil {
				a.logger.Debug("source dropped", "source", src.Name, "region", region, "error", err)
				return nil
			}
			results[i] = &res
			return nil
		})
	}
	_ = g.Wait()

	coupons := make([]models.Coupon, 0)
	for _, res := range results {
		if res == nil {
			continue
		}
		for _, code := range res.Codes {
			coupons = append(coupons, models.Coupon{Code: code, Source: res.Source})
		}
	}

	a.logger.Info("search completed", "region", region, "sources", len(a.sources), "coupons", len(coupons))

	return coupons
}

func (a *Aggregator) fetchIsolated(ctx context.Context, src models.Source, region models.Region) (res sources.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("source %s panicked: %v", src.Name, r)
		}
	}()
	return a.fetcher.Fetch(ctx, src, region)
}
