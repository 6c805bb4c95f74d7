// Package newgrounds discovers recently published audio submissions on
// the Newgrounds audio portal.
//
// The listing page (https://www.newgrounds.com/audio) links to every
// recent submission through its listen page, e.g.
// https://www.newgrounds.com/audio/listen/123456. The Scraper fetches the
// listing once and collects those links in page order.
//
// # Discovery
//
//	scraper := newgrounds.NewScraper(client, newgrounds.ListenPathPattern)
//	links, err := scraper.RecentLinks(ctx, newgrounds.DefaultListingURL, 10)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, link := range links {
//	    fmt.Println(link) // absolute listen page URL
//	}
//
// # Parsing Without Network
//
// ExtractLinks works on any reader, which keeps the parsing testable:
//
//	links, err := newgrounds.ExtractLinks(strings.NewReader(html), base, "/audio/listen/", 10)
package newgrounds
