package ebay

import (
	"math/rand"
	"net/http"
)

// userAgents is a small pool of realistic browser signatures. eBay blocks
// the default Go client signature outright.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/92.0.4515.107 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/14.1.1 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:90.0) Gecko/20100101 Firefox/90.0",
}

func baseHeaders() http.Header {
	h := http.Header{}
	h.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	h.Set("Accept-Language", "en-US,en;q=0.5")
	h.Set("Connection", "keep-alive")
	h.Set("Upgrade-Insecure-Requests", "1")
	h.Set("Cache-Control", "max-age=0")
	return h
}

// RandomHeaderProvider draws a user agent uniformly from the pool for each
// request. This is the default provider in production.
type RandomHeaderProvider struct{}

// Headers returns a fresh header set with a randomly chosen user agent.
func (RandomHeaderProvider) Headers() http.Header {
	h := baseHeaders()
	h.Set("User-Agent", userAgents[rand.Intn(len(userAgents))])
	return h
}

// StaticHeaderProvider always returns the same user agent, making request
// headers deterministic. Used in tests.
type StaticHeaderProvider struct {
	UserAgent string
}

// Headers returns the fixed header set.
func (p StaticHeaderProvider) Headers() http.Header {
	h := baseHeaders()
	ua := p.UserAgent
	if ua == "" {
		ua = userAgents[0]
	}
	h.Set("User-Agent", ua)
	return h
}
