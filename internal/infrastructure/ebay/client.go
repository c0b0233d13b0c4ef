package ebay

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pricelens/backend/internal/domain"
	"golang.org/x/time/rate"
)

const defaultPageSize = 100

// Client fetches search results pages from the regional eBay marketplaces.
// A single Client is shared by all concurrent region fetches; the underlying
// connection pool and rate limiter are safe for concurrent use.
type Client struct {
	httpClient  *http.Client
	headers     domain.HeaderProvider
	rateLimiter *rate.Limiter
	pageSize    int
	baseURL     string // overrides the per-region host; tests only
	debug       bool
}

// NewClient creates a marketplace client with the given request timeout and
// outbound request budget.
func NewClient(timeout time.Duration, requestsPerMinute int) *Client {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}

	// rate.Limit is requests per second; allow a burst covering one full
	// region fan-out so concurrent fetches are not serialized at startup.
	limiter := rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), len(domain.AllRegions))

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		headers:     RandomHeaderProvider{},
		rateLimiter: limiter,
		pageSize:    defaultPageSize,
	}
}

// SetHeaderProvider swaps the header strategy. Tests inject a static provider.
func (c *Client) SetHeaderProvider(p domain.HeaderProvider) {
	c.headers = p
}

// SetBaseURL routes every region to a fixed base URL instead of the real
// marketplace hosts. Tests point this at an httptest server.
func (c *Client) SetBaseURL(base string) {
	c.baseURL = base
}

// SetDebug enables per-card rejection logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// searchURL builds the one-page search request URL for a region. _ipg=100
// asks for up to 100 results in a single page so pagination never comes up.
func (c *Client) searchURL(query string, region domain.Region) string {
	base := c.baseURL
	if base == "" {
		base = fmt.Sprintf("https://www.%s", region.Domain())
	}
	return fmt.Sprintf("%s/sch/i.html?_nkw=%s&_ipg=%d", base, url.QueryEscape(query), c.pageSize)
}

// SearchRegion fetches one region's results page and extracts the accepted
// listings. Every failure mode — network error, timeout, bad status, empty
// or malformed markup — degrades to an empty slice with a logged warning,
// so one failing region can never take down its siblings.
func (c *Client) SearchRegion(ctx context.Context, query string, region domain.Region, maxProducts int) []domain.Product {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		log.Printf("[eBay] WARN rate limiter interrupted for region %s: %v", region, err)
		return nil
	}

	reqURL := c.searchURL(query, region)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		log.Printf("[eBay] WARN failed to build request for region %s: %v", region, err)
		return nil
	}
	req.Header = c.headers.Headers()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("[eBay] WARN request failed for region %s: %v", region, err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("[eBay] WARN region %s returned status %d", region, resp.StatusCode)
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		log.Printf("[eBay] WARN unable to parse response from region %s: %v", region, err)
		return nil
	}

	cards := doc.Find("div.s-item__wrapper")
	if cards.Length() == 0 {
		log.Printf("[eBay] WARN no product cards found on eBay %s", region)
		return nil
	}
	log.Printf("[eBay] found %d potential products on eBay %s", cards.Length(), region)

	return c.extractCards(cards, region, maxProducts)
}

// extractCards runs the extractor over the first maxProducts cards
// concurrently. Extraction is pure string work on disjoint subtrees, so the
// goroutines share nothing but their own result slot.
func (c *Client) extractCards(cards *goquery.Selection, region domain.Region, maxProducts int) []domain.Product {
	limit := cards.Length()
	if maxProducts > 0 && maxProducts < limit {
		limit = maxProducts
	}

	type slot struct {
		product  domain.Product
		accepted bool
	}
	slots := make([]slot, limit)

	var wg sync.WaitGroup
	cards.Slice(0, limit).Each(func(i int, card *goquery.Selection) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			product, ok := extractProduct(card, region)
			if !ok && c.debug {
				log.Printf("[eBay] rejected card %d on eBay %s", i, region)
			}
			slots[i] = slot{product: product, accepted: ok}
		}()
	})
	wg.Wait()

	products := make([]domain.Product, 0, limit)
	for _, s := range slots {
		if s.accepted {
			products = append(products, s.product)
		}
	}

	log.Printf("[eBay] extracted %d valid products from eBay %s", len(products), region)
	return products
}
