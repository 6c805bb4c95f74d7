package download

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/lrstanley/go-ytdlp"

	ioutils "github.com/handiism/newbeach/internal/io"
	"github.com/handiism/newbeach/internal/model"
)

// DefaultExecutable is the yt-dlp binary looked up on PATH.
const DefaultExecutable = "yt-dlp"

// Options configures the yt-dlp invocation.
type Options struct {
	// Executable is the yt-dlp binary name or path. Empty means DefaultExecutable.
	Executable string

	// Format is the yt-dlp format selector, e.g. "bestaudio/best".
	Format string

	// ExtractAudio converts downloads to AudioFormat with ffmpeg.
	ExtractAudio bool

	// AudioFormat is the target codec when ExtractAudio is set.
	AudioFormat string

	// WriteThumbnails saves each submission's thumbnail as a jpg next to
	// the audio file, for embedding as cover art.
	WriteThumbnails bool
}

// Report summarizes one batch download.
type Report struct {
	Downloaded int
	Failed     int

	// Unmatched are files yt-dlp reported for a URL outside the batch.
	Unmatched []Record

	// Stderr is the raw diagnostic output of yt-dlp.
	Stderr string
}

// Downloader runs yt-dlp once for a whole batch.
//
// Example usage:
//
//	dl := NewDownloader(Options{Format: "bestaudio/best"})
//	report, err := dl.Download(ctx, batch, "/music/newbeach/0108")
type Downloader struct {
	opts       Options
	executable string
}

// NewDownloader creates a Downloader.
func NewDownloader(opts Options) *Downloader {
	if opts.Executable == "" {
		opts.Executable = DefaultExecutable
	}
	return &Downloader{opts: opts}
}

// Available reports whether yt-dlp can be run and returns its path.
func (d *Downloader) Available() (string, bool) {
	if d.executable != "" {
		return d.executable, true
	}
	path, err := exec.LookPath(d.opts.Executable)
	if err != nil {
		return "", false
	}
	return path, true
}

// Install downloads a managed copy of yt-dlp into the user cache and uses
// it for subsequent downloads.
func (d *Downloader) Install(ctx context.Context) (string, error) {
	resolved, err := ytdlp.Install(ctx, &ytdlp.InstallOptions{})
	if err != nil {
		return "", &DownloadError{Message: "failed to install yt-dlp", Original: err}
	}
	d.executable = resolved.Executable
	return d.executable, nil
}

// Download fetches every submission of batch into dir with a single yt-dlp
// process and records each submission's outcome in the batch.
//
// dir is created when missing. Individual link failures never abort the
// run; they are marked StatusFailed. An error is returned only when the
// downloader is missing, dir cannot be created, or yt-dlp failed without
// producing a single file.
func (d *Downloader) Download(ctx context.Context, batch *model.Batch, dir string) (*Report, error) {
	if err := ioutils.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	batch.Dir = dir

	if batch.Len() == 0 {
		return &Report{}, nil
	}

	executable, ok := d.Available()
	if !ok {
		return nil, ErrDownloaderMissing
	}

	result, runErr := d.command(executable, dir).Run(ctx, batch.URLs()...)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var stdout, stderr string
	if result != nil {
		stdout, stderr = result.Stdout, result.Stderr
	}

	report := &Report{Stderr: stderr}
	report.Unmatched = Reconcile(batch, dir, ParseRecords(stdout), stderr)
	report.Downloaded = len(batch.Downloaded())
	report.Failed = len(batch.Failed())

	if report.Downloaded == 0 && runErr != nil {
		return report, &DownloadError{Message: "yt-dlp produced no files", Original: runErr}
	}

	return report, nil
}

func (d *Downloader) command(executable, dir string) *ytdlp.Command {
	cmd := ytdlp.New().
		SetExecutable(executable).
		Output(filepath.Join(dir, OutputTemplate)).
		NoPlaylist().
		Quiet().
		NoWarnings().
		IgnoreErrors().
		NoSimulate().
		Print(PrintTemplate)

	if d.opts.Format != "" {
		cmd.Format(d.opts.Format)
	}
	if d.opts.ExtractAudio {
		cmd.ExtractAudio()
		if d.opts.AudioFormat != "" {
			cmd.AudioFormat(d.opts.AudioFormat)
		}
	}
	if d.opts.WriteThumbnails {
		cmd.WriteThumbnail().ConvertThumbnails("jpg")
	}

	return cmd
}
