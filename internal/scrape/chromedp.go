package scrape

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/BerylCAtieno/listing-expert-agent/internal/config"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// ChromeFetcher renders pages in a local headless Chrome. Each Fetch starts
// its own browser so fetches can run concurrently.
type ChromeFetcher struct {
	chromeBin string
	timeout   time.Duration
	maxChars  int
	logger    *zap.Logger
}

func NewChromeFetcher(cfg config.FetcherConfig, logger *zap.Logger) *ChromeFetcher {
	bin := cfg.ChromeBin
	if bin == "" {
		bin = findChromeBinary()
	}
	return &ChromeFetcher{
		chromeBin: bin,
		timeout:   cfg.Timeout,
		maxChars:  cfg.MaxChars,
		logger:    logger.Named("chromedp"),
	}
}

func (f *ChromeFetcher) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(userAgent),
	)
	if f.chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(f.chromeBin))
	}
	return opts
}

func (f *ChromeFetcher) Fetch(ctx context.Context, url string) (*Page, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, f.allocatorOptions()...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	if f.timeout > 0 {
		var cancelTimeout context.CancelFunc
		browserCtx, cancelTimeout = context.WithTimeout(browserCtx, f.timeout)
		defer cancelTimeout()
	}

	f.logger.Debug("rendering page", zap.String("url", url), zap.String("chrome", f.chromeBin))

	var title, body string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Title(&title),
		chromedp.Text("body", &body, chromedp.ByQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", url, err)
	}

	return &Page{
		URL:   url,
		Title: clip(title, 0),
		Text:  clip(body, f.maxChars),
	}, nil
}

func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	for _, name := range []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	for _, p := range []string{"/usr/bin/chromium", "/snap/bin/chromium", "/opt/google/chrome/google-chrome"} {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
