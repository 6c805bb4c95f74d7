// Package http provides the HTTP client used to fetch listing pages.
//
// The Client in this package handles:
//   - A static browser-like User-Agent header
//   - Request timeouts, so a stalled server cannot hang the run
//   - Status code checking
//
// # Basic Usage
//
//	client := http.NewClient("Mozilla/5.0", 30*time.Second)
//
//	// Stream a page into a parser
//	body, err := client.Open(ctx, "https://www.newgrounds.com/audio")
//	defer body.Close()
package http
