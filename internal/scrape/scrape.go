// Package scrape fetches competitor product pages so their copy can be used
// when the form only carries a URL.
package scrape

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/BerylCAtieno/listing-expert-agent/internal/config"
	"go.uber.org/zap"
)

// Page is the readable content of one fetched page.
type Page struct {
	URL   string
	Title string
	Text  string
}

// Blob renders the page as the competitor text sent to the model.
func (p *Page) Blob() string {
	switch {
	case p.Title == "":
		return p.Text
	case p.Text == "":
		return p.Title
	default:
		return p.Title + "\n" + p.Text
	}
}

// Fetcher loads a single page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Page, error)
}

// New returns the fetcher selected by cfg.Kind, or nil when fetching is off.
func New(cfg config.FetcherConfig, logger *zap.Logger) (Fetcher, error) {
	switch cfg.Kind {
	case config.FetcherNone, "":
		return nil, nil
	case config.FetcherFirecrawl:
		return NewFirecrawlFetcher(cfg, logger)
	case config.FetcherChromedp:
		return NewChromeFetcher(cfg, logger), nil
	default:
		return nil, fmt.Errorf("unknown fetcher: %s", cfg.Kind)
	}
}

// clip normalizes whitespace and truncates s to at most max runes.
func clip(s string, max int) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			kept = append(kept, line)
		}
	}
	s = strings.Join(kept, "\n")

	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}

// markdownTitle returns the first level-one heading of a markdown document.
func markdownTitle(md string) string {
	for _, line := range strings.Split(md, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "# "))
		}
	}
	return ""
}
