package audio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ioutils "github.com/handiism/newbeach/internal/io"
	"github.com/handiism/newbeach/internal/model"
)

// UnknownURL is written to the link index for files with no known link.
const UnknownURL = "Unknown URL"

// separatorWidth is the length of the rule between link index blocks.
const separatorWidth = 40

// MetadataConfig holds the names and format of the metadata artifacts.
type MetadataConfig struct {
	// AudioExtension selects the files to list, including the dot.
	AudioExtension string

	// PlaylistFileName is the playlist written into the batch directory.
	PlaylistFileName string

	// TracksFileName is the link index written into the batch directory.
	TracksFileName string

	// FailedFileName lists links the downloader could not fetch.
	FailedFileName string

	// PlaylistFormat is the format of the playlist file.
	PlaylistFormat PlaylistFormat

	// M3UExtended adds #EXTM3U/#EXTINF lines to M3U playlists.
	M3UExtended bool
}

// DefaultMetadataConfig returns the layout produced by a default run.
func DefaultMetadataConfig() MetadataConfig {
	return MetadataConfig{
		AudioExtension:   ".mp3",
		PlaylistFileName: "playlist.m3u",
		TracksFileName:   "tracks.txt",
		FailedFileName:   "failed.txt",
		PlaylistFormat:   FormatM3U,
	}
}

// MetadataWriter writes the playlist and link index of a batch directory.
type MetadataWriter struct {
	config   MetadataConfig
	playlist *PlaylistCreator
}

// NewMetadataWriter creates a MetadataWriter.
func NewMetadataWriter(cfg MetadataConfig) *MetadataWriter {
	return &MetadataWriter{
		config:   cfg,
		playlist: NewPlaylistCreator(cfg.PlaylistFormat, cfg.M3UExtended),
	}
}

// Tracks lists the audio files in dir, sorted by playlist index, with
// their links resolved against batch.
func (w *MetadataWriter) Tracks(dir string, batch *model.Batch) ([]*model.Track, error) {
	names, err := ioutils.ListFiles(dir, w.config.AudioExtension)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	tracks := make([]*model.Track, len(names))
	for i, name := range names {
		track := model.NewTrack(name, dir)
		track.URL = ResolveURL(track, batch)
		tracks[i] = track
	}
	SortTracks(tracks)

	return tracks, nil
}

// Write lists the audio files of dir and writes the playlist and the link
// index, overwriting existing files. It returns both paths.
//
// An empty directory produces two empty files. When batch records failed
// downloads they are listed in the failed file; otherwise a stale failed
// file from an earlier run is removed.
func (w *MetadataWriter) Write(dir string, batch *model.Batch) (playlistPath, tracksPath string, err error) {
	tracks, err := w.Tracks(dir, batch)
	if err != nil {
		return "", "", err
	}

	playlistPath = filepath.Join(dir, w.config.PlaylistFileName)
	tracksPath = filepath.Join(dir, w.config.TracksFileName)

	if err := ioutils.WriteFile(playlistPath, []byte(w.playlist.CreatePlaylist(tracks))); err != nil {
		return "", "", fmt.Errorf("failed to write playlist: %w", err)
	}

	if err := ioutils.WriteFile(tracksPath, []byte(LinkIndex(tracks))); err != nil {
		return "", "", fmt.Errorf("failed to write link index: %w", err)
	}

	if w.config.FailedFileName != "" {
		if err := w.writeFailed(dir, batch); err != nil {
			return "", "", err
		}
	}

	return playlistPath, tracksPath, nil
}

func (w *MetadataWriter) writeFailed(dir string, batch *model.Batch) error {
	path := filepath.Join(dir, w.config.FailedFileName)

	var failed []*model.Submission
	if batch != nil {
		failed = batch.Failed()
	}
	if len(failed) == 0 {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove stale %s: %w", w.config.FailedFileName, err)
		}
		return nil
	}

	if err := ioutils.WriteFile(path, []byte(FailedIndex(failed))); err != nil {
		return fmt.Errorf("failed to write %s: %w", w.config.FailedFileName, err)
	}
	return nil
}

// ResolveURL returns the submission link of a downloaded file.
//
// The batch mapping is consulted by file name first. A file the batch does
// not know about falls back to its embedded index, but only when that
// submission has no recorded outcome yet; a submission that was
// downloaded under another name, or failed, never lends its link to a
// leftover file.
func ResolveURL(track *model.Track, batch *model.Batch) string {
	if batch == nil {
		return UnknownURL
	}
	if sub, ok := batch.ByFileName(track.FileName); ok {
		return sub.URL
	}
	if !track.HasIndex() {
		return UnknownURL
	}
	sub, ok := batch.ByIndex(track.Index)
	if !ok || sub.Status != model.StatusPending {
		return UnknownURL
	}
	return sub.URL
}

// LinkIndex renders the human readable file to link record.
//
//	File: 1 - Alpha.mp3
//	Link: https://www.newgrounds.com/audio/listen/1
//	----------------------------------------
func LinkIndex(tracks []*model.Track) string {
	var sb strings.Builder
	rule := strings.Repeat("-", separatorWidth)

	for _, track := range tracks {
		url := track.URL
		if url == "" {
			url = UnknownURL
		}
		fmt.Fprintf(&sb, "File: %s\n", track.FileName)
		fmt.Fprintf(&sb, "Link: %s\n", url)
		sb.WriteString(rule + "\n")
	}

	return sb.String()
}

// FailedIndex renders the links the downloader could not fetch.
func FailedIndex(failed []*model.Submission) string {
	var sb strings.Builder
	rule := strings.Repeat("-", separatorWidth)

	for _, sub := range failed {
		reason := sub.Err
		if reason == "" {
			reason = "no file produced"
		}
		fmt.Fprintf(&sb, "Index: %d\n", sub.Index)
		fmt.Fprintf(&sb, "Link: %s\n", sub.URL)
		fmt.Fprintf(&sb, "Error: %s\n", reason)
		sb.WriteString(rule + "\n")
	}

	return sb.String()
}
