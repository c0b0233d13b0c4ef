package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/pricelens/backend/config"
	"github.com/pricelens/backend/internal/domain"
	"github.com/pricelens/backend/internal/infrastructure/ebay"
	"github.com/pricelens/backend/internal/infrastructure/export"
	"github.com/pricelens/backend/internal/usecase"
)

// searchDeadline bounds the whole multi-region search so one hung region
// cannot keep the process alive indefinitely.
const searchDeadline = 2 * time.Minute

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("Failed to load configuration: %v", err)
		return 1
	}

	output := flag.String("output", "", "output xlsx file name (generated from the query when empty)")
	maxProducts := flag.Int("max-products", cfg.Search.MaxPerRegion, "maximum number of products to fetch per region")
	regionsFlag := flag.String("regions", strings.Join(cfg.Search.Regions, ","), "comma-separated eBay regions to search (us, uk, de, fr, it, es, au)")
	debug := flag.Bool("debug", false, "log per-card rejection details")
	flag.Usage = usage
	flag.Parse()

	query := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if query == "" {
		log.Printf("A search query is required")
		usage()
		return 1
	}

	// Reject bad input before any request goes out.
	regions, err := domain.ParseRegions(strings.Split(*regionsFlag, ","))
	if err != nil {
		log.Printf("Invalid regions: %v", err)
		return 1
	}
	if *maxProducts <= 0 {
		log.Printf("--max-products must be positive, got %d", *maxProducts)
		return 1
	}

	client := ebay.NewClient(cfg.Search.RequestTimeout, cfg.Search.RequestsPerMinute)
	client.SetDebug(*debug)

	service := usecase.NewSearchService(client, nil, usecase.SearchServiceConfig{})
	exporter := export.NewExcelExporter(cfg.Export.FilenamePrefix)

	log.Printf("Searching for %q on %d eBay sites...", query, len(regions))

	ctx, cancel := context.WithTimeout(context.Background(), searchDeadline)
	defer cancel()

	products, err := service.Search(ctx, &domain.SearchRequest{
		Query:        query,
		Regions:      regions,
		MaxPerRegion: *maxProducts,
	})
	if err != nil {
		log.Printf("Search failed: %v", err)
		return 1
	}

	if len(products) == 0 {
		log.Printf("No products found. Try a different search term.")
		return 1
	}

	path, err := exporter.Export(products, query, *output)
	if err != nil {
		log.Printf("Failed to export results: %v", err)
		return 1
	}

	log.Printf("Saved %d products to %s", len(products), path)
	return 0
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <query>\n\nCompare product prices across regional eBay sites.\n\nFlags:\n", os.Args[0])
	flag.PrintDefaults()
}

func init() {
	log.SetFlags(log.Ldate | log.Ltime)
	log.SetOutput(os.Stdout)
}
