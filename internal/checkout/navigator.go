package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/maltedev/coupon-finder/internal/browser"
	"github.com/maltedev/coupon-finder/internal/models"
)

// Navigator puts the region's sample product into the cart and opens the cart page.
type Navigator struct {
	storefronts models.Storefronts
	selectors   Selectors
	timeouts    Timeouts
	logger      *slog.Logger
}

func NewNavigator(storefronts models.Storefronts, selectors Selectors, timeouts Timeouts, logger *slog.Logger) *Navigator {
	return &Navigator{
		storefronts: storefronts,
		selectors:   selectors,
		timeouts:    timeouts,
		logger:      logger.With("component", "cart_navigator"),
	}
}

type step struct {
	name string
	run  func(browser.Page, models.Storefront) error
}

// AddSampleProductToCart runs every step in order. No step is fatal: the page
// is left in whatever state was reachable and the per-step results are returned.
func (n *Navigator) AddSampleProductToCart(ctx context.Context, page browser.Page, region models.Region) []StepResult {
	sf := n.storefronts.For(region)
	steps := []step{
		{"open_product", n.openProduct},
		{"accept_cookies", n.acceptCookies},
		{"select_size", n.selectSize},
		{"add_to_cart", n.addToCart},
		{"open_cart", n.openCart},
	}

	results := make([]StepResult, 0, len(steps))
	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			results = append(results, StepResult{Name: s.name, Outcome: Skipped, Err: err})
			continue
		}

		err := s.run(page, sf)
		res := StepResult{Name: s.name, Outcome: outcomeOf(err), Err: err}
		results = append(results, res)

		n.logger.Debug("cart step finished", "step", s.name, "region", region, "outcome", res.Outcome, "error", err)
	}

	return results
}

func (n *Navigator) openProduct(page browser.Page, sf models.Storefront) error {
	return page.Goto(sf.ProductURL, n.timeouts.Navigation)
}

func (n *Navigator) acceptCookies(page browser.Page, _ models.Storefront) error {
	return page.ClickFirst(n.selectors.Consent, n.timeouts.Consent)
}

// selectSize clicks the first element whose text looks like a shoe size.
func (n *Navigator) selectSize(page browser.Page, _ models.Storefront) error {
	elements, err := page.QueryAll(n.selectors.Clickable)
	if err != nil {
		return err
	}

	for _, el := range elements {
		label, err := el.InnerText()
		if err != nil || !n.selectors.SizeLabel.MatchString(strings.TrimSpace(label)) {
			continue
		}
		if err := el.Click(); err != nil {
			continue
		}
		return nil
	}

	return fmt.Errorf("%w: size option", browser.ErrNotFound)
}

func (n *Navigator) addToCart(page browser.Page, _ models.Storefront) error {
	return page.ClickFirst(n.selectors.AddToCart, n.timeouts.AddToCart)
}

func (n *Navigator) openCart(page browser.Page, sf models.Storefront) error {
	return page.Goto(sf.CartURL, n.timeouts.Navigation)
}
