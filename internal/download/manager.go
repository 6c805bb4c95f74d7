package download

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/handiism/newbeach/internal/audio"
	"github.com/handiism/newbeach/internal/config"
	"github.com/handiism/newbeach/internal/http"
	ioutils "github.com/handiism/newbeach/internal/io"
	"github.com/handiism/newbeach/internal/model"
	"github.com/handiism/newbeach/internal/newgrounds"
	"github.com/handiism/newbeach/internal/player"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a pipeline progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// LinkSource discovers submission links on a listing page.
type LinkSource interface {
	RecentLinks(ctx context.Context, listingURL string, limit int) ([]string, error)
}

// BatchDownloader fetches a whole batch into a directory.
type BatchDownloader interface {
	Available() (string, bool)
	Install(ctx context.Context) (string, error)
	Download(ctx context.Context, batch *model.Batch, dir string) (*Report, error)
}

// Launcher plays a playlist with an external program.
type Launcher interface {
	Name() string
	Available() (string, bool)
	Play(ctx context.Context, dir, playlist string) error
}

// RunResult describes the output of a completed run.
type RunResult struct {
	Batch        *model.Batch
	Dir          string
	PlaylistPath string
	TracksPath   string
	Downloaded   int
	Failed       int
}

// Manager runs the discovery, download, tagging, metadata and playback
// stages of a batch.
type Manager struct {
	settings     *config.Settings
	links        LinkSource
	downloader   BatchDownloader
	tagger       *audio.Tagger
	writer       *audio.MetadataWriter
	player       Launcher
	imageService *ioutils.ImageService
	now          func() time.Time

	onProgress func(ProgressEvent)
	mu         sync.Mutex
}

// NewManager creates a new Manager.
func NewManager(settings *config.Settings, onProgress func(ProgressEvent)) *Manager {
	client := http.NewClient(settings.UserAgent, settings.Timeout())

	return &Manager{
		settings: settings,
		links:    newgrounds.NewScraper(client, settings.LinkPattern),
		downloader: NewDownloader(Options{
			Executable:      settings.YtDlpPath,
			Format:          settings.Format,
			ExtractAudio:    settings.ExtractAudio,
			AudioFormat:     settings.AudioCodec,
			WriteThumbnails: settings.WriteThumbnails,
		}),
		tagger:       audio.NewTagger(settings.ToTagConfig()),
		writer:       audio.NewMetadataWriter(settings.ToMetadataConfig()),
		player:       player.New(settings.PlayerCommand),
		imageService: ioutils.NewImageService(),
		now:          time.Now,
		onProgress:   onProgress,
	}
}

// Discover fetches the listing page and returns the submission links.
//
// Any failure is reported and yields no links, so the run ends with
// "No songs found." instead of an error.
func (m *Manager) Discover(ctx context.Context) []string {
	m.progress(ProgressEvent{Message: fmt.Sprintf("[1/4] Fetching recent tracks from %s...", m.settings.ListingURL), Level: LevelInfo})

	links, err := m.links.RecentLinks(ctx, m.settings.ListingURL, m.settings.Limit)
	if err != nil {
		if errors.Is(err, newgrounds.ErrNoLinksFound) {
			m.progress(ProgressEvent{Message: err.Error(), Level: LevelVerbose})
		} else {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error scraping Newgrounds: %v", err), Level: LevelError})
		}
		return nil
	}

	for i, link := range links {
		m.progress(ProgressEvent{Message: fmt.Sprintf("%d. %s", i+1, link), Level: LevelVerbose})
	}
	return links
}

// Run discovers links, downloads them, tags the files and writes the
// playlist and link index. It does not start playback, see Play.
//
// A run that finds no links returns a nil result and no error.
func (m *Manager) Run(ctx context.Context) (*RunResult, error) {
	links := m.Discover(ctx)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(links) == 0 {
		m.progress(ProgressEvent{Message: "No songs found.", Level: LevelWarning})
		return nil, nil
	}

	return m.Process(ctx, model.NewBatch(links))
}

// Process runs every stage after discovery for batch.
func (m *Manager) Process(ctx context.Context, batch *model.Batch) (*RunResult, error) {
	dir, err := m.settings.OutputDir(m.now())
	if err != nil {
		return nil, err
	}

	if err := m.ensureDownloader(ctx); err != nil {
		return nil, err
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("[2/4] Downloading %d songs to %s...", batch.Len(), dir), Level: LevelInfo})

	report, err := m.downloader.Download(ctx, batch, dir)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	m.reportDownload(batch, report)

	if err := m.TagTracks(ctx, batch); err != nil {
		return nil, err
	}

	m.progress(ProgressEvent{Message: "[3/4] Generating playlist and track records...", Level: LevelInfo})

	playlistPath, tracksPath, err := m.writer.Write(dir, batch)
	if err != nil {
		return nil, err
	}

	return &RunResult{
		Batch:        batch,
		Dir:          dir,
		PlaylistPath: playlistPath,
		TracksPath:   tracksPath,
		Downloaded:   len(batch.Downloaded()),
		Failed:       len(batch.Failed()),
	}, nil
}

func (m *Manager) ensureDownloader(ctx context.Context) error {
	if _, ok := m.downloader.Available(); ok {
		return nil
	}
	if !m.settings.AutoInstallYtDlp {
		m.progress(ProgressEvent{Message: "Error: 'yt-dlp' is not installed.", Level: LevelError})
		return ErrDownloaderMissing
	}
	return m.InstallDownloader(ctx)
}

// InstallDownloader fetches a managed copy of yt-dlp.
func (m *Manager) InstallDownloader(ctx context.Context) error {
	m.progress(ProgressEvent{Message: "Installing yt-dlp...", Level: LevelInfo})
	path, err := m.downloader.Install(ctx)
	if err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error installing yt-dlp: %v", err), Level: LevelError})
		return err
	}
	m.progress(ProgressEvent{Message: fmt.Sprintf("Using yt-dlp at %s", path), Level: LevelVerbose})
	return nil
}

func (m *Manager) reportDownload(batch *model.Batch, report *Report) {
	for _, sub := range batch.Downloaded() {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Downloaded: %s", sub.FileName), Level: LevelVerbose})
	}
	for _, sub := range batch.Failed() {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Failed to download %s: %s", sub.URL, sub.Err), Level: LevelWarning})
	}
	for _, rec := range report.Unmatched {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Unexpected file from %s: %s", rec.URL, filepath.Base(rec.Path)), Level: LevelVerbose})
	}

	if report.Failed == 0 {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Downloaded %d songs", report.Downloaded), Level: LevelSuccess})
	} else {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Downloaded %d songs, %d failed", report.Downloaded, report.Failed), Level: LevelWarning})
	}
}

// TagTracks writes ID3 tags and cover art to the downloaded mp3 files of
// batch. Files are tagged concurrently; a file that cannot be tagged is
// reported and left as is.
func (m *Manager) TagTracks(ctx context.Context, batch *model.Batch) error {
	if !m.settings.ModifyTags && !m.settings.SaveCoverArtInTags {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, m.settings.MaxConcurrentTags))

	var tagged int32
	for _, sub := range batch.Downloaded() {
		if !strings.EqualFold(filepath.Ext(sub.FileName), ".mp3") {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if m.tagSubmission(ctx, batch.Dir, sub) {
				atomic.AddInt32(&tagged, 1)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	if n := atomic.LoadInt32(&tagged); n > 0 {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Tagged %d files", n), Level: LevelVerbose})
	}
	return nil
}

func (m *Manager) tagSubmission(ctx context.Context, dir string, sub *model.Submission) bool {
	path := filepath.Join(dir, sub.FileName)
	thumbnail := ThumbnailPath(dir, sub.FileName)
	hasThumbnail := ioutils.FileExists(thumbnail)

	var artwork []byte
	if m.settings.SaveCoverArtInTags && hasThumbnail {
		art, err := m.imageService.LoadCoverArt(ctx, thumbnail, m.settings.CoverArtInTagsMaxSize)
		if err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error reading cover art for %s: %v", sub.FileName, err), Level: LevelWarning})
		} else {
			artwork = art
		}
	}

	info := audio.TagInfo{
		Title:     sub.Title,
		Artist:    sub.Artist,
		Index:     sub.Index,
		SourceURL: sub.URL,
	}

	ok := true
	if err := m.tagger.SaveTags(path, info, artwork); err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error tagging %s: %v", sub.FileName, err), Level: LevelWarning})
		ok = false
	}

	if hasThumbnail && !m.settings.KeepThumbnails {
		if err := os.Remove(thumbnail); err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error removing thumbnail %s: %v", filepath.Base(thumbnail), err), Level: LevelVerbose})
		}
	}

	return ok
}

// PlayerAvailable reports whether the player is installed, reporting its
// absence when it is not.
func (m *Manager) PlayerAvailable() bool {
	if _, ok := m.player.Available(); ok {
		return true
	}
	m.progress(ProgressEvent{Message: fmt.Sprintf("Error: '%s' is not installed.", m.player.Name()), Level: LevelError})
	return false
}

// Play launches the player on the playlist of result and waits for it.
//
// A missing player is reported and is not an error; the files stay in
// place. The player's own exit status is reported as a warning.
func (m *Manager) Play(ctx context.Context, result *RunResult) error {
	if result == nil || result.PlaylistPath == "" {
		return nil
	}
	if !m.PlayerAvailable() {
		return nil
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("[4/4] Launching %s... (Press 'Enter' to skip, 'q' to quit)", strings.ToUpper(m.player.Name())), Level: LevelInfo})

	if err := m.player.Play(ctx, result.Dir, result.PlaylistPath); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if errors.Is(err, player.ErrPlayerMissing) {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error: '%s' is not installed.", m.player.Name()), Level: LevelError})
			return nil
		}
		m.progress(ProgressEvent{Message: err.Error(), Level: LevelWarning})
	}
	return nil
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onProgress(event)
}
