package checkout

import (
	"regexp"
	"time"
)

// Selectors are the best-effort locators used against the storefront. They
// are plain data so a markup change only needs a new table.
type Selectors struct {
	Consent     []string
	Clickable   string
	SizeLabel   *regexp.Regexp
	AddToCart   []string
	PromoInputs []string
	Apply       []string
}

func DefaultSelectors() Selectors {
	return Selectors{
		Consent: []string{
			`button[aria-label*="Accept" i]`,
			`button:has-text("Accept")`,
		},
		Clickable: "button, a",
		SizeLabel: regexp.MustCompile(`(?i)^\s*(M|W|EU)?\s?\d{1,2}\s*$`),
		AddToCart: []string{
			`button[id*="add-to-cart" i]`,
			`button:has-text("Add to Bag")`,
			`button:has-text("Add to Cart")`,
			`button:has-text("Add to basket")`,
		},
		PromoInputs: []string{
			`input[name*="coupon" i]`,
			`input[name*="promo" i]`,
			`input[placeholder*="promo" i]`,
			`input[placeholder*="code" i]`,
		},
		Apply: []string{
			`button:has-text("Apply")`,
			`button:has-text("Toepassen")`,
			`button[name*="apply" i]`,
		},
	}
}

// Timeouts bound every browser step; together they stay under a 60s request ceiling.
type Timeouts struct {
	Navigation time.Duration
	Consent    time.Duration
	AddToCart  time.Duration
	Settle     time.Duration
	Keystroke  time.Duration
}

func DefaultTimeouts() Timeouts {
	return Timeouts{
		Navigation: 45 * time.Second,
		Consent:    5 * time.Second,
		AddToCart:  15 * time.Second,
		Settle:     3500 * time.Millisecond,
		Keystroke:  20 * time.Millisecond,
	}
}
