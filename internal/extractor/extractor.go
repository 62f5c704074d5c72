package extractor

import (
	"regexp"
	"strings"
)

const (
	minCodeLength = 5
	maxCodeLength = 16
)

// DefaultBrand is the storefront brand whose prefixed codes get their own pattern.
const DefaultBrand = "crocs"

var longNumber = regexp.MustCompile(`^[0-9]{6,}$`)

// Extractor pulls candidate discount codes out of noisy page text.
// It favours recall: anything that survives the rejection rules is returned
// and the storefront decides whether the code is real.
type Extractor struct {
	patterns []*regexp.Regexp
	denylist map[string]struct{}
}

// New builds an Extractor for the given brand name. An empty brand uses DefaultBrand.
func New(brand string) *Extractor {
	if brand == "" {
		brand = DefaultBrand
	}
	brand = strings.ToUpper(brand)

	denylist := map[string]struct{}{}
	for _, w := range []string{"HTTPS", "HTTP", "WWW", brand + "COM", "COUPON", "VOUCHER", "EXPIRES"} {
		denylist[w] = struct{}{}
	}

	return &Extractor{
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\b[A-Z0-9]{5,12}\b`),
			regexp.MustCompile(`\b` + caseInsensitiveLiteral(brand) + `[A-Z0-9]{2,8}\b`),
			regexp.MustCompile(`\bWELCOME[A-Z0-9]{0,6}\b`),
			regexp.MustCompile(`\bSAVE[0-9]{1,3}\b`),
		},
		denylist: denylist,
	}
}

var defaultExtractor = New(DefaultBrand)

// Extract runs the default brand extractor over text.
func Extract(text string) []string {
	return defaultExtractor.Extract(text)
}

// Extract returns the deduplicated uppercase candidates found in text, in the
// order they were first matched.
func (e *Extractor) Extract(text string) []string {
	seen := make(map[string]struct{})
	var codes []string

	for _, pattern := range e.patterns {
		for _, match := range pattern.FindAllString(text, -1) {
			code := strings.ToUpper(match)
			if !e.accept(code) {
				continue
			}
			if _, dup := seen[code]; dup {
				continue
			}
			seen[code] = struct{}{}
			codes = append(codes, code)
		}
	}

	return codes
}

func (e *Extractor) accept(code string) bool {
	if _, noise := e.denylist[code]; noise {
		return false
	}
	// prices, phone numbers and order ids
	if longNumber.MatchString(code) {
		return false
	}
	return len(code) >= minCodeLength && len(code) <= maxCodeLength
}

// caseInsensitiveLiteral turns "CROCS" into "[Cc][Rr][Oo][Cc][Ss]" so only the
// brand prefix ignores case while the suffix stays upper case.
func caseInsensitiveLiteral(s string) string {
	var b strings.Builder
	for _, r := range s {
		lower, upper := strings.ToLower(string(r)), strings.ToUpper(string(r))
		if lower == upper {
			b.WriteString(regexp.QuoteMeta(string(r)))
			continue
		}
		b.WriteString("[" + upper + lower + "]")
	}
	return b.String()
}
