package tools

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"
	"github.com/microcosm-cc/bluemonday"
)

// maxContent caps the text handed to the extractor.
const maxContent = 50000

// LinkFetcher downloads a web page and keeps its main article text.
type LinkFetcher struct {
	UserAgent string
	Client    *http.Client
}

func NewLinkFetcher() *LinkFetcher {
	return &LinkFetcher{
		UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (s *LinkFetcher) Name() string {
	return "link"
}

func (s *LinkFetcher) Description() string {
	return "Fetch a webpage URL and extract the main content as clean, sanitized text."
}

func (s *LinkFetcher) Fetch(ctx context.Context, rawURL string) (Document, error) {
	parsedURL, err := parseHTTPURL(rawURL)
	if err != nil {
		return Document{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsedURL.String(), nil)
	if err != nil {
		return Document{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", s.UserAgent)

	resp, err := s.Client.Do(req)
	if err != nil {
		return Document{}, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Document{}, fmt.Errorf("failed to fetch URL: status code %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10*maxContent))
	if err != nil {
		return Document{}, fmt.Errorf("failed to read body: %w", err)
	}
	return extractArticle(body, parsedURL), nil
}

func parseHTTPURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported URL scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("URL %q has no host", rawURL)
	}
	return u, nil
}

// extractArticle keeps the readable part of an HTML page. Pages readability
// cannot parse fall back to the whole page with tags stripped.
func extractArticle(html []byte, pageURL *url.URL) Document {
	p := bluemonday.StrictPolicy()
	doc := Document{Format: FormatText}

	article, err := readability.FromReader(bytes.NewReader(html), pageURL)
	if err == nil {
		doc.Title = strings.TrimSpace(article.Title)
		doc.Excerpt = strings.TrimSpace(article.Excerpt)
		doc.Content = p.Sanitize(article.TextContent)
	}
	if strings.TrimSpace(doc.Content) == "" {
		doc.Content = p.Sanitize(string(html))
	}
	doc.Content = truncate(collapseBlankLines(doc.Content))
	return doc
}

func collapseBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	blank := false
	for _, l := range lines {
		l = strings.TrimRight(l, " \t\r")
		if strings.TrimSpace(l) == "" {
			if blank {
				continue
			}
			blank = true
		} else {
			blank = false
		}
		out = append(out, l)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// Limit content length to avoid massive token usage.
func truncate(s string) string {
	if len(s) > maxContent {
		return s[:maxContent] + "\n... (content truncated) ..."
	}
	return s
}
