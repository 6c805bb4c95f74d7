// Package download runs the newbeach pipeline: link discovery, the batch
// download through yt-dlp, tagging, metadata files and playback.
//
// # Manager
//
// The Manager coordinates a run:
//
//  1. Fetch the listing page and collect submission links
//  2. Download every link with a single yt-dlp process
//  3. Tag the MP3 files with ID3 metadata and cover art
//  4. Write playlist.m3u, tracks.txt and failed.txt
//  5. Launch the player (separate step, see Manager.Play)
//
// # Basic Usage
//
//	manager := download.NewManager(settings, func(event download.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	result, err := manager.Run(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if result == nil {
//	    return // nothing found
//	}
//
//	err = manager.Play(ctx, result)
//
// # Downloader
//
// Downloader drives yt-dlp through github.com/lrstanley/go-ytdlp. Files
// are written under their submission id (OutputTemplate) and yt-dlp prints
// one record per finished file (PrintTemplate). Records are matched to the
// batch by URL and every file is renamed to "<index> - <title>.<ext>" in
// two passes through a staging name, so the playlist
// order and the link index never depend on which downloads succeeded.
//
// Links without a record are marked failed and listed in failed.txt. A
// failed link never aborts the batch and is not retried.
//
// # Concurrency
//
// Downloads are sequential inside yt-dlp. Tagging runs concurrently, up to
// settings.MaxConcurrentTags files at a time.
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives ProgressEvent:
//
//	type ProgressEvent struct {
//	    Message string
//	    Level   ProgressLevel // Info, Verbose, Warning, Error, Success
//	}
//
// Callbacks are serialized, so the callback does not need its own locking.
package download
