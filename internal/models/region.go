package models

import (
	"errors"
	"strings"
)

var ErrUnknownRegion = errors.New("unknown region")

// Region selects a storefront variant and the source URLs that apply to it.
type Region string

const (
	RegionUS Region = "us"
	RegionEU Region = "eu"
)

// DefaultRegion is used when a request does not name one.
const DefaultRegion = RegionUS

// ParseRegion accepts "us" or "eu" in any case. An empty string yields DefaultRegion.
func ParseRegion(s string) (Region, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultRegion, nil
	case string(RegionUS):
		return RegionUS, nil
	case string(RegionEU):
		return RegionEU, nil
	}
	return DefaultRegion, ErrUnknownRegion
}

func (r Region) String() string {
	return string(r)
}

// Storefront describes one regional variant of the shop.
type Storefront struct {
	Region     Region
	BaseURL    string
	ProductURL string
	CartURL    string
}

// Storefronts maps a region to the sample product and cart used for validation.
type Storefronts map[Region]Storefront

// DefaultStorefronts returns the crocs.com / crocs.eu table with a single
// representative product per region.
func DefaultStorefronts() Storefronts {
	return Storefronts{
		RegionUS: {
			Region:     RegionUS,
			BaseURL:    "https://www.crocs.com",
			ProductURL: "https://www.crocs.com/p/classic-clog/10001.html",
			CartURL:    "https://www.crocs.com/cart",
		},
		RegionEU: {
			Region:     RegionEU,
			BaseURL:    "https://www.crocs.eu",
			ProductURL: "https://www.crocs.eu/p/classic-clog/10001.html",
			CartURL:    "https://www.crocs.eu/cart",
		},
	}
}

// For returns the storefront for r, falling back to the default region.
func (s Storefronts) For(r Region) Storefront {
	if sf, ok := s[r]; ok {
		return sf
	}
	return s[DefaultRegion]
}
