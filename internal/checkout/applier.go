package checkout

import (
	"context"
	"log/slog"

	"github.com/maltedev/coupon-finder/internal/browser"
	"github.com/maltedev/coupon-finder/internal/models"
)

// Applier enters a code into the cart's promo field and reads back the result.
type Applier struct {
	selectors  Selectors
	classifier Classifier
	messages   MessageTable
	timeouts   Timeouts
	logger     *slog.Logger
}

func NewApplier(selectors Selectors, classifier Classifier, messages MessageTable, timeouts Timeouts, logger *slog.Logger) *Applier {
	return &Applier{
		selectors:  selectors,
		classifier: classifier,
		messages:   messages,
		timeouts:   timeouts,
		logger:     logger.With("component", "promo_applier"),
	}
}

// ApplyPromoCode tries each promo input selector in order. The first field
// whose submission produces an accepted or rejected page decides the outcome;
// an inconclusive page moves on to the next selector.
func (a *Applier) ApplyPromoCode(ctx context.Context, page browser.Page, code string, region models.Region) models.ValidationOutcome {
	msgs := a.messages.For(region)

	for _, sel := range a.selectors.PromoInputs {
		if ctx.Err() != nil {
			break
		}

		field, err := page.Query(sel)
		if err != nil || field == nil {
			continue
		}

		verdict, savings := a.submit(page, field, code)
		a.logger.Debug("promo field submitted", "selector", sel, "verdict", verdict, "savings", savings)

		switch verdict {
		case Accepted:
			return models.ValidationOutcome{Valid: true, Message: msgs.Accepted, Savings: savings}
		case Rejected:
			return models.ValidationOutcome{Valid: false, Message: msgs.Rejected}
		}
	}

	return models.ValidationOutcome{Valid: false, Message: msgs.NotFound}
}

func (a *Applier) submit(page browser.Page, field browser.Element, code string) (Verdict, string) {
	if err := field.Clear(); err != nil {
		a.logger.Debug("failed to clear promo field", "error", err)
	}
	if err := field.Type(code, a.timeouts.Keystroke); err != nil {
		a.logger.Debug("failed to type promo code", "error", err)
	}

	// Without an apply control the field's own submit behaviour is relied on.
	for _, sel := range a.selectors.Apply {
		btn, err := page.Query(sel)
		if err != nil || btn == nil {
			continue
		}
		if err := btn.Click(); err != nil {
			a.logger.Debug("failed to click apply", "selector", sel, "error", err)
		}
		break
	}

	page.Wait(a.timeouts.Settle)

	text, err := page.BodyText()
	if err != nil {
		return Inconclusive, ""
	}
	return a.classifier.Classify(text)
}
