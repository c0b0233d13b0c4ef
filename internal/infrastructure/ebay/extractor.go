package ebay

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/pricelens/backend/internal/domain"
)

// adPlaceholderTitle is the title eBay renders on its own "Shop on eBay"
// filler cards. Never a real listing.
const adPlaceholderTitle = "shop on ebay"

// extractProduct turns one listing card into a Product. The second return
// value reports whether the card was accepted; any anomaly in the fragment
// rejects the card without affecting the rest of the batch.
func extractProduct(card *goquery.Selection, region domain.Region) (domain.Product, bool) {
	// Sponsored "river answer" slots are UI chrome, not listings.
	if card.HasClass("srp-river-answer") {
		return domain.Product{}, false
	}

	title := card.Find("div.s-item__title span").First()
	if title.Length() == 0 || strings.Contains(title.Text(), "New Listing") {
		return domain.Product{}, false
	}

	name := strings.TrimSpace(title.Text())
	// Length is counted in characters, not bytes; accented titles from the
	// non-English regions must not slip past the minimum.
	if strings.Contains(strings.ToLower(name), adPlaceholderTitle) || utf8.RuneCountInString(name) <= 5 {
		return domain.Product{}, false
	}

	price := card.Find(".s-item__price").First()
	// "to" in the price text marks a range ("$10.00 to $20.00"); a single
	// scalar price is required downstream.
	if price.Length() == 0 || strings.Contains(strings.ToLower(price.Text()), "to") {
		return domain.Product{}, false
	}

	href, ok := card.Find("a.s-item__link").First().Attr("href")
	if !ok || href == "" {
		return domain.Product{}, false
	}

	return domain.Product{
		Name:  name,
		Price: strings.TrimSpace(price.Text()),
		URL:   cleanURL(href),
		Site:  region.Site(),
	}, true
}

// cleanURL strips the tracking query string eBay appends to listing links.
func cleanURL(href string) string {
	cleaned, _, _ := strings.Cut(href, "?")
	return cleaned
}
