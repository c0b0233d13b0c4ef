package domain

import (
	"fmt"
	"strings"
)

// Region identifies a country-specific eBay marketplace.
type Region string

const (
	RegionUS Region = "us"
	RegionUK Region = "uk"
	RegionDE Region = "de"
	RegionFR Region = "fr"
	RegionIT Region = "it"
	RegionES Region = "es"
	RegionAU Region = "au"
)

// AllRegions lists every supported region in a stable order.
var AllRegions = []Region{RegionUS, RegionUK, RegionDE, RegionFR, RegionIT, RegionES, RegionAU}

var regionDomains = map[Region]string{
	RegionUS: "ebay.com",
	RegionUK: "ebay.co.uk",
	RegionDE: "ebay.de",
	RegionFR: "ebay.fr",
	RegionIT: "ebay.it",
	RegionES: "ebay.es",
	RegionAU: "ebay.com.au",
}

// ParseRegion converts a user-supplied region code into a Region.
// Unknown codes are a validation error, rejected before any request is made.
func ParseRegion(code string) (Region, error) {
	r := Region(strings.ToLower(strings.TrimSpace(code)))
	if _, ok := regionDomains[r]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownRegion, code)
	}
	return r, nil
}

// ParseRegions converts a list of codes, collapsing duplicates while keeping
// the first occurrence's position.
func ParseRegions(codes []string) ([]Region, error) {
	seen := make(map[Region]bool, len(codes))
	regions := make([]Region, 0, len(codes))
	for _, code := range codes {
		r, err := ParseRegion(code)
		if err != nil {
			return nil, err
		}
		if seen[r] {
			continue
		}
		seen[r] = true
		regions = append(regions, r)
	}
	return regions, nil
}

// Domain returns the marketplace host for the region. Values that bypass
// ParseRegion fall back to the primary domain rather than producing an
// unroutable URL.
func (r Region) Domain() string {
	if d, ok := regionDomains[r]; ok {
		return d
	}
	return regionDomains[RegionUS]
}

func (r Region) String() string {
	return string(r)
}

// Site returns the provenance tag stamped on every extracted product,
// e.g. "eBay (US)".
func (r Region) Site() string {
	return fmt.Sprintf("eBay (%s)", strings.ToUpper(string(r)))
}
