package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/maltedev/coupon-finder/internal/browser"
	"github.com/maltedev/coupon-finder/internal/models"
	"golang.org/x/sync/semaphore"
)

var ErrEmptyCode = errors.New("code is required")

// Validator tests one code against a live cart in its own browser session.
type Validator struct {
	launcher  browser.Launcher
	navigator *Navigator
	applier   *Applier
	sessions  *semaphore.Weighted
	logger    *slog.Logger
}

// NewValidator allows at most maxSessions browsers at once. Sessions are
// never shared between calls.
func NewValidator(launcher browser.Launcher, navigator *Navigator, applier *Applier, maxSessions int, logger *slog.Logger) *Validator {
	if maxSessions < 1 {
		maxSessions = 1
	}
	return &Validator{
		launcher:  launcher,
		navigator: navigator,
		applier:   applier,
		sessions:  semaphore.NewWeighted(int64(maxSessions)),
		logger:    logger.With("component", "validator"),
	}
}

// Validate adds the sample product to a fresh cart and applies code. Only a
// failure to run the flow at all is returned as an error.
func (v *Validator) Validate(ctx context.Context, code string, region models.Region) (models.ValidationOutcome, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return models.ValidationOutcome{}, ErrEmptyCode
	}

	if err := v.sessions.Acquire(ctx, 1); err != nil {
		return models.ValidationOutcome{}, fmt.Errorf("waiting for a browser slot: %w", err)
	}
	defer v.sessions.Release(1)

	logger := v.logger.With("session_id", uuid.New().String(), "code", code, "region", region)
	start := time.Now()
	logger.Info("validation started")

	outcome, err := browser.WithSession(ctx, v.launcher, func(page browser.Page) (models.ValidationOutcome, error) {
		steps := v.navigator.AddSampleProductToCart(ctx, page, region)
		for _, s := range steps {
			if s.Outcome != Succeeded {
				logger.Info("cart step did not succeed", "step", s.Name, "outcome", s.Outcome, "error", s.Err)
			}
		}
		return v.applier.ApplyPromoCode(ctx, page, code, region), nil
	})
	if err != nil {
		logger.Error("validation failed", "error", err, "duration", time.Since(start))
		return models.ValidationOutcome{}, err
	}

	logger.Info("validation finished", "valid", outcome.Valid, "savings", outcome.Savings, "duration", time.Since(start))
	return outcome, nil
}
