package tools

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/chromedp"
)

// BrowserFetcher renders a page in headless Chrome before extracting it,
// for pages that build their content with JavaScript.
type BrowserFetcher struct {
	Timeout time.Duration

	mu            sync.Mutex
	allocCtx      context.Context
	browserCtx    context.Context
	allocCancel   context.CancelFunc
	browserCancel context.CancelFunc
}

func NewBrowserFetcher() *BrowserFetcher {
	return &BrowserFetcher{Timeout: 60 * time.Second}
}

func (b *BrowserFetcher) Name() string {
	return "browser"
}

func (b *BrowserFetcher) Description() string {
	return "Render a webpage in a headless browser and extract the main content as clean, sanitized text."
}

func (b *BrowserFetcher) initBrowser() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browserCtx != nil {
		select {
		case <-b.browserCtx.Done():
			b.cleanup()
		default:
			return nil
		}
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.Flag("headless", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("no-default-browser-check", true),
	)

	b.allocCtx, b.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	b.browserCtx, b.browserCancel = chromedp.NewContext(b.allocCtx)

	return chromedp.Run(b.browserCtx)
}

func (b *BrowserFetcher) cleanup() {
	if b.browserCancel != nil {
		b.browserCancel()
	}
	if b.allocCancel != nil {
		b.allocCancel()
	}
	b.browserCtx = nil
	b.allocCtx = nil
}

// Close shuts the browser down. The next Fetch starts a new one.
func (b *BrowserFetcher) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cleanup()
}

func (b *BrowserFetcher) Fetch(ctx context.Context, rawURL string) (Document, error) {
	pageURL, err := parseHTTPURL(rawURL)
	if err != nil {
		return Document{}, err
	}
	if err := b.initBrowser(); err != nil {
		return Document{}, fmt.Errorf("failed to initialize browser: %w", err)
	}

	b.mu.Lock()
	browserCtx := b.browserCtx
	b.mu.Unlock()

	tabCtx, closeTab := chromedp.NewContext(browserCtx)
	defer closeTab()
	actionCtx, cancel := context.WithTimeout(tabCtx, b.Timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var html string
	err = chromedp.Run(actionCtx,
		chromedp.Navigate(pageURL.String()),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			node, err := dom.GetDocument().Do(ctx)
			if err != nil {
				return err
			}
			html, err = dom.GetOuterHTML().WithNodeID(node.NodeID).Do(ctx)
			return err
		}),
	)
	if err != nil {
		return Document{}, fmt.Errorf("browser fetch failed: %w", err)
	}
	return extractArticle([]byte(html), pageURL), nil
}
