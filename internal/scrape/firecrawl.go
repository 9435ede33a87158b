package scrape

import (
	"context"
	"fmt"

	"github.com/BerylCAtieno/listing-expert-agent/internal/config"
	"github.com/mendableai/firecrawl-go"
	"go.uber.org/zap"
)

// FirecrawlFetcher scrapes pages through the hosted Firecrawl API.
type FirecrawlFetcher struct {
	app      *firecrawl.FirecrawlApp
	maxChars int
	logger   *zap.Logger
}

func NewFirecrawlFetcher(cfg config.FetcherConfig, logger *zap.Logger) (*FirecrawlFetcher, error) {
	if cfg.FirecrawlAPIKey == "" {
		return nil, fmt.Errorf("firecrawl fetcher requires FIRECRAWL_API_KEY")
	}

	app, err := firecrawl.NewFirecrawlApp(cfg.FirecrawlAPIKey, cfg.FirecrawlURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firecrawl client: %w", err)
	}

	return &FirecrawlFetcher{
		app:      app,
		maxChars: cfg.MaxChars,
		logger:   logger.Named("firecrawl"),
	}, nil
}

func (f *FirecrawlFetcher) Fetch(ctx context.Context, url string) (*Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.logger.Debug("scraping page", zap.String("url", url))

	doc, err := f.app.ScrapeURL(url, &firecrawl.ScrapeParams{
		Formats: []string{"markdown"},
	})
	if err != nil {
		return nil, fmt.Errorf("scrape %s: %w", url, err)
	}
	if doc == nil || doc.Markdown == "" {
		return nil, fmt.Errorf("scrape %s: empty document", url)
	}

	return &Page{
		URL:   url,
		Title: markdownTitle(doc.Markdown),
		Text:  clip(doc.Markdown, f.maxChars),
	}, nil
}
