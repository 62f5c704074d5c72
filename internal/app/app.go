package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/maltedev/coupon-finder/internal/aggregator"
	"github.com/maltedev/coupon-finder/internal/browser"
	"github.com/maltedev/coupon-finder/internal/cache"
	"github.com/maltedev/coupon-finder/internal/checkout"
	"github.com/maltedev/coupon-finder/internal/config"
	"github.com/maltedev/coupon-finder/internal/extractor"
	"github.com/maltedev/coupon-finder/internal/models"
	"github.com/maltedev/coupon-finder/internal/ratelimit"
	"github.com/maltedev/coupon-finder/internal/sources"
	"github.com/redis/go-redis/v9"
)

// App holds the wired search and validation services.
type App struct {
	Aggregator *aggregator.Aggregator
	Validator  *checkout.Validator
	Messages   checkout.MessageTable

	cache    cache.TextCache
	launcher *browser.PlaywrightLauncher
	redis    *redis.Client
	logger   *slog.Logger
}

// New wires every component from cfg. Redis is only contacted when configured,
// and an unreachable Redis leaves searches uncached.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	a := &App{
		Messages: checkout.DefaultMessages(),
		logger:   logger,
	}

	var textCache cache.TextCache = cache.Nop{}
	if cfg.Redis.Enabled() {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			logger.Warn("redis unreachable, searching without cache", "addr", cfg.Redis.Addr, "error", err)
		} else {
			a.redis = client
			textCache = cache.NewRedisCache(client, cfg.Redis.CacheTTL, logger)
		}
	}
	a.cache = textCache

	fetcher := sources.NewFetcher(&sources.Options{
		ReaderBaseURL: cfg.Reader.BaseURL,
		UserAgent:     sources.DefaultUserAgent,
		Timeout:       cfg.Reader.Timeout,
	},
		extractor.New(cfg.Reader.Brand),
		ratelimit.NewTokenBucket(cfg.Reader.RatePerSec, cfg.Reader.Burst),
		textCache,
		logger,
	)
	a.Aggregator = aggregator.New(fetcher, sources.Default(), logger)

	browserOpts := browser.DefaultOptions()
	browserOpts.Headless = cfg.Browser.Headless
	a.launcher = browser.NewLauncher(browserOpts, logger)

	timeouts := checkout.Timeouts{
		Navigation: cfg.Browser.NavigationTimeout,
		Consent:    cfg.Browser.ConsentTimeout,
		AddToCart:  cfg.Browser.AddToCartTimeout,
		Settle:     cfg.Browser.SettleDelay,
		Keystroke:  cfg.Browser.KeystrokeDelay,
	}
	selectors := checkout.DefaultSelectors()
	navigator := checkout.NewNavigator(models.DefaultStorefronts(), selectors, timeouts, logger)
	applier := checkout.NewApplier(selectors, checkout.DefaultClassifier(), a.Messages, timeouts, logger)
	a.Validator = checkout.NewValidator(a.launcher, navigator, applier, cfg.Browser.MaxSessions, logger)

	return a, nil
}

// Close stops the playwright driver and the redis client.
func (a *App) Close() error {
	var errs []error
	if err := a.launcher.Stop(); err != nil {
		errs = append(errs, err)
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close redis: %w", err))
		}
	}
	return errors.Join(errs...)
}
