package download

import (
	"errors"
	"fmt"
)

// ErrDownloaderMissing is returned when the yt-dlp executable cannot be found.
var ErrDownloaderMissing = errors.New("yt-dlp is not installed")

// DownloadError reports a batch download that produced nothing usable.
type DownloadError struct {
	Message  string
	Original error
}

func (e *DownloadError) Error() string {
	if e.Original != nil {
		return fmt.Sprintf("download error: %s: %v", e.Message, e.Original)
	}
	return fmt.Sprintf("download error: %s", e.Message)
}

func (e *DownloadError) Unwrap() error {
	return e.Original
}
