package model

import (
	"net/url"
	"strings"
)

// Status is the download outcome of a single submission.
type Status int

const (
	// StatusPending means the submission has not been handed to the downloader yet.
	StatusPending Status = iota

	// StatusDownloaded means a file for the submission exists on disk.
	StatusDownloaded

	// StatusFailed means the downloader produced no file for the submission.
	StatusFailed
)

// String returns a human readable status name.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusDownloaded:
		return "downloaded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Submission is one audio submission discovered on the listing page.
//
// Index is the 1-based position of the link in discovery order (the
// "playlist index"). It never changes after the batch is built.
type Submission struct {
	// Index is the 1-based discovery position.
	Index int

	// URL is the absolute listen page URL.
	URL string

	// Title is the submission title as reported by the downloader.
	Title string

	// Artist is the uploader name as reported by the downloader.
	Artist string

	// FileName is the name of the downloaded file inside the batch directory.
	// Empty until the submission is downloaded.
	FileName string

	// Status is the download outcome.
	Status Status

	// Err describes why the download failed, if it did.
	Err string
}

// Batch holds the ordered submissions of one run and the directory their
// files are written to.
type Batch struct {
	// Dir is the output directory of the run.
	Dir string

	// Submissions are ordered by Index, starting at 1.
	Submissions []*Submission
}

// NewBatch creates a Batch from links in discovery order.
//
// Duplicate links are dropped, so indexes stay dense and 1-based.
func NewBatch(links []string) *Batch {
	b := &Batch{Submissions: make([]*Submission, 0, len(links))}
	seen := make(map[string]struct{}, len(links))
	for _, link := range links {
		key := normalizeURL(link)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		b.Submissions = append(b.Submissions, &Submission{
			Index: len(b.Submissions) + 1,
			URL:   link,
		})
	}
	return b
}

// Len returns the number of submissions.
func (b *Batch) Len() int {
	return len(b.Submissions)
}

// URLs returns the submission URLs in index order.
func (b *Batch) URLs() []string {
	urls := make([]string, len(b.Submissions))
	for i, s := range b.Submissions {
		urls[i] = s.URL
	}
	return urls
}

// ByIndex returns the submission with the given 1-based index.
func (b *Batch) ByIndex(index int) (*Submission, bool) {
	if index < 1 || index > len(b.Submissions) {
		return nil, false
	}
	return b.Submissions[index-1], true
}

// ByURL returns the submission whose URL matches u.
//
// Matching ignores the scheme, host case and a trailing slash, since the
// downloader may report a canonicalized form of the URL it was given.
func (b *Batch) ByURL(u string) (*Submission, bool) {
	key := normalizeURL(u)
	for _, s := range b.Submissions {
		if normalizeURL(s.URL) == key {
			return s, true
		}
	}
	return nil, false
}

// ByFileName returns the downloaded submission stored under name.
func (b *Batch) ByFileName(name string) (*Submission, bool) {
	if name == "" {
		return nil, false
	}
	for _, s := range b.Submissions {
		if s.Status == StatusDownloaded && s.FileName == name {
			return s, true
		}
	}
	return nil, false
}

// Downloaded returns the submissions that have a file on disk.
func (b *Batch) Downloaded() []*Submission {
	return b.filter(StatusDownloaded)
}

// Failed returns the submissions the downloader could not fetch.
func (b *Batch) Failed() []*Submission {
	return b.filter(StatusFailed)
}

func (b *Batch) filter(status Status) []*Submission {
	var out []*Submission
	for _, s := range b.Submissions {
		if s.Status == status {
			out = append(out, s)
		}
	}
	return out
}

// normalizeURL reduces a URL to host+path+query for comparisons.
func normalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return strings.TrimSuffix(raw, "/")
	}
	key := strings.ToLower(u.Host) + strings.TrimSuffix(u.Path, "/")
	if u.RawQuery != "" {
		key += "?" + u.RawQuery
	}
	return key
}
