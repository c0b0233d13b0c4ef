package domain

// Product represents a single marketplace listing extracted from a search
// results page. Price keeps the site's original currency formatting verbatim.
type Product struct {
	Name  string `json:"name"`
	Price string `json:"price"`
	URL   string `json:"url"`
	Site  string `json:"site"` // e.g., "eBay (US)"
}

// SearchRequest describes one multi-region search invocation
type SearchRequest struct {
	Query        string   `json:"query"`
	Regions      []Region `json:"regions"`
	MaxPerRegion int      `json:"maxPerRegion"`
}
