package checkout

import (
	"regexp"

	"github.com/maltedev/coupon-finder/internal/models"
)

type Verdict int

const (
	Inconclusive Verdict = iota
	Accepted
	Rejected
)

// Classifier reads the storefront's own feedback out of the page text. The
// keyword tables are tuned to crocs.com / crocs.eu copy and are not expected
// to generalise to other shops.
type Classifier struct {
	Accepted *regexp.Regexp
	Rejected *regexp.Regexp
	// Savings patterns are tried in order; the first match wins.
	Savings []*regexp.Regexp
}

// amount is a number with optional thousands groups and up to two decimals,
// in either 1,299.00 or 1.299,00 notation.
const amount = `[0-9]+(?:[.,][0-9]{3})*(?:[.,][0-9]{1,2})?`

func DefaultClassifier() Classifier {
	return Classifier{
		Accepted: regexp.MustCompile(`(?i)applied|success|discount|promotion applied`),
		Rejected: regexp.MustCompile(`(?i)invalid|not valid|expired|kan niet|ongeldig`),
		Savings: []*regexp.Regexp{
			regexp.MustCompile(`[$€£]\s?` + amount + `\b`),
			regexp.MustCompile(`\b` + amount + `\s?[€£]`),
			regexp.MustCompile(`(?i)save\s?[0-9]+%`),
		},
	}
}

// Classify checks for acceptance first, so a page mentioning both wins as accepted.
func (c Classifier) Classify(text string) (Verdict, string) {
	if c.Accepted.MatchString(text) {
		for _, re := range c.Savings {
			if m := re.FindString(text); m != "" {
				return Accepted, m
			}
		}
		return Accepted, ""
	}
	if c.Rejected.MatchString(text) {
		return Rejected, ""
	}
	return Inconclusive, ""
}

// Messages are the human-readable outcome texts for one region.
type Messages struct {
	Accepted string
	Rejected string
	NotFound string
	Failed   string
}

// MessageTable holds per-region outcome texts.
type MessageTable map[models.Region]Messages

func DefaultMessages() MessageTable {
	return MessageTable{
		models.RegionUS: {
			Accepted: "Code applied",
			Rejected: "Invalid or expired code",
			NotFound: "Could not find the promo field or no feedback",
			Failed:   "Error while testing the code",
		},
		models.RegionEU: {
			Accepted: "Code toegepast",
			Rejected: "Ongeldige of verlopen code",
			NotFound: "Kon veld niet vinden of geen feedback",
			Failed:   "Fout bij testen",
		},
	}
}

func (t MessageTable) For(region models.Region) Messages {
	if m, ok := t[region]; ok {
		return m
	}
	return t[models.DefaultRegion]
}
