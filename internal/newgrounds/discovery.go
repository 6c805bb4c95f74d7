package newgrounds

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	// DefaultListingURL is the page enumerating recent audio submissions.
	DefaultListingURL = "https://www.newgrounds.com/audio"

	// ListenPathPattern identifies submission listen pages in link targets.
	ListenPathPattern = "/audio/listen/"
)

// ErrNoLinksFound is returned when the listing page has no matching links.
var ErrNoLinksFound = errors.New("no submission links found on page")

// PageOpener fetches a page body. *http.Client from internal/http satisfies it.
type PageOpener interface {
	Open(ctx context.Context, url string) (io.ReadCloser, error)
}

// Scraper collects submission links from a listing page.
//
// Example usage:
//
//	scraper := NewScraper(client, ListenPathPattern)
//	links, err := scraper.RecentLinks(ctx, DefaultListingURL, 10)
type Scraper struct {
	opener  PageOpener
	pattern string
}

// NewScraper creates a Scraper. An empty pattern falls back to ListenPathPattern.
func NewScraper(opener PageOpener, pattern string) *Scraper {
	if pattern == "" {
		pattern = ListenPathPattern
	}
	return &Scraper{opener: opener, pattern: pattern}
}

// RecentLinks fetches listingURL and returns up to limit unique submission
// links in page order.
//
// Relative links are resolved against listingURL. The page is requested
// once. Returns ErrNoLinksFound when the page parses but holds no
// matching link.
func (s *Scraper) RecentLinks(ctx context.Context, listingURL string, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, nil
	}

	base, err := url.Parse(listingURL)
	if err != nil {
		return nil, fmt.Errorf("invalid listing URL %q: %w", listingURL, err)
	}

	body, err := s.opener.Open(ctx, listingURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listing page: %w", err)
	}
	defer body.Close()

	links, err := ExtractLinks(body, base, s.pattern, limit)
	if err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return nil, ErrNoLinksFound
	}

	return links, nil
}

// ExtractLinks scans the anchors of an HTML document in document order and
// returns up to limit unique targets containing pattern.
//
// Scanning stops as soon as limit unique links are collected. When base is
// non-nil, targets are resolved against it before de-duplication, so
// "/audio/listen/1" and "https://host/audio/listen/1" count once.
func ExtractLinks(r io.Reader, base *url.URL, pattern string, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, nil
	}

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	links := make([]string, 0, limit)
	seen := make(map[string]struct{}, limit)

	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		href = strings.TrimSpace(href)
		if !strings.Contains(href, pattern) {
			return true
		}

		link := resolve(base, href)
		if _, ok := seen[link]; ok {
			return true
		}
		seen[link] = struct{}{}
		links = append(links, link)

		return len(links) < limit
	})

	return links, nil
}

// resolve makes href absolute against base. Unparseable hrefs are kept as-is.
func resolve(base *url.URL, href string) string {
	if base == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
