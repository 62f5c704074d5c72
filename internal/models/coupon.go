package models

// Coupon is a candidate code attributed to the source it was scraped from.
// The same code may appear once per source.
type Coupon struct {
	Code   string `json:"code"`
	Source string `json:"source"`
}

// Source is a coupon-aggregator site scraped for candidate codes.
type Source struct {
	Name string
	URL  func(Region) string
}

// ValidationOutcome is the result of applying one code to a live cart.
type ValidationOutcome struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
	Savings string `json:"savings,omitempty"`
}
