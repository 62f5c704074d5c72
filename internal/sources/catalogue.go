package sources

import "github.com/maltedev/coupon-finder/internal/models"

func fixed(url string) func(models.Region) string {
	return func(models.Region) string { return url }
}

// Default returns the coupon-aggregator sites scraped for crocs codes.
// None of them has a regional variant yet, so every URL ignores the region.
func Default() []models.Source {
	return []models.Source{
		{Name: "RetailMeNot", URL: fixed("https://www.retailmenot.com/view/crocs.com")},
		{Name: "Groupon", URL: fixed("https://www.groupon.com/coupons/stores/crocs.com")},
		{Name: "CouponBirds", URL: fixed("https://www.couponbirds.com/codes/crocs.com")},
		{Name: "DontPayFull", URL: fixed("https://www.dontpayfull.com/at/crocs.com")},
		{Name: "CupomGuru", URL: fixed("https://r.jina.ai/http://www.crocs.com/coupons")},
	}
}
