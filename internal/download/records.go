package download

import (
	"fmt"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	ioutils "github.com/handiism/newbeach/internal/io"
	"github.com/handiism/newbeach/internal/model"
)

// OutputTemplate names downloaded files by their Newgrounds id.
//
// Ids are unique within a batch and never look like "<index> - <title>",
// so a download can not land on a finished file. Files are renamed to
// their batch index once the printed records are matched, see Reconcile.
const OutputTemplate = "%(id)s.%(ext)s"

// PrintTemplate is printed by yt-dlp once per file after it reaches its
// final location.
const PrintTemplate = "after_move:%(original_url)s\t%(title)s\t%(uploader)s\t%(filepath)s"

// ThumbnailExtension is the format thumbnails are converted to.
const ThumbnailExtension = ".jpg"

// notAvailable is what yt-dlp prints for a missing template field.
const notAvailable = "NA"

// Record is one line printed by yt-dlp for a materialized file.
type Record struct {
	URL      string
	Title    string
	Uploader string
	Path     string
}

// ParseRecords parses the lines yt-dlp printed with PrintTemplate.
//
// Lines that do not carry all four fields are skipped. A file reported
// twice is kept once.
func ParseRecords(stdout string) []Record {
	var records []Record
	seen := make(map[string]struct{})

	for _, line := range strings.Split(stdout, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.SplitN(line, "\t", 4)
		if len(fields) != 4 {
			continue
		}

		rec := Record{
			URL:      strings.TrimSpace(fields[0]),
			Title:    strings.TrimSpace(fields[1]),
			Uploader: strings.TrimSpace(fields[2]),
			Path:     strings.TrimSpace(fields[3]),
		}
		if rec.Path == "" || rec.Path == notAvailable {
			continue
		}
		if rec.Title == notAvailable {
			rec.Title = ""
		}
		if rec.Uploader == notAvailable {
			rec.Uploader = ""
		}

		if _, ok := seen[rec.Path]; ok {
			continue
		}
		seen[rec.Path] = struct{}{}
		records = append(records, rec)
	}

	return records
}

// Reconcile records the outcome of every submission in batch.
//
// Each record is matched to its submission by URL and the file is renamed
// to "<index> - <title><ext>" inside dir, together with its thumbnail.
// Submissions without a record are marked failed, with the matching yt-dlp
// error line from stderr as the reason when there is one.
//
// Renaming happens in two passes. Every matched file is first moved to a
// staging name unique to its index, then to its final name, so one file
// never replaces another from the same batch.
//
// Records that match no submission are returned so the caller can report
// them; their files are left untouched.
func Reconcile(batch *model.Batch, dir string, records []Record, stderr string) (unmatched []Record) {
	type move struct {
		sub    *model.Submission
		staged string
		final  string
	}
	var moves []move

	for _, rec := range records {
		sub, ok := batch.ByURL(rec.URL)
		if !ok || sub.Status == model.StatusDownloaded {
			unmatched = append(unmatched, rec)
			continue
		}

		// yt-dlp may print the path in a different encoding than dir;
		// only the base name is trusted.
		current := filepath.Base(rec.Path)
		ext := filepath.Ext(current)
		title := rec.Title
		if title == "" {
			title = strings.TrimSuffix(current, ext)
		}

		staged := stagingName(sub.Index, ext)
		if err := ioutils.RenameFile(filepath.Join(dir, current), filepath.Join(dir, staged)); err != nil {
			staged = current
		} else {
			renameThumbnail(dir, current, staged)
		}

		sub.Title = rec.Title
		sub.Artist = rec.Uploader
		sub.FileName = staged
		sub.Status = model.StatusDownloaded
		sub.Err = ""

		moves = append(moves, move{sub: sub, staged: staged, final: model.FileName(sub.Index, title, ext)})
	}

	for _, m := range moves {
		if err := ioutils.RenameFile(filepath.Join(dir, m.staged), filepath.Join(dir, m.final)); err != nil {
			continue
		}
		renameThumbnail(dir, m.staged, m.final)
		m.sub.FileName = m.final
	}

	errs := errorLines(stderr)
	for _, sub := range batch.Submissions {
		if sub.Status != model.StatusPending {
			continue
		}
		sub.Status = model.StatusFailed
		sub.Err = failureReason(sub.URL, errs)
	}

	return unmatched
}

// stagingName is the temporary name of the file for index during Reconcile.
func stagingName(index int, ext string) string {
	return fmt.Sprintf(".newbeach-%d%s", index, ext)
}

// ThumbnailPath returns where the converted thumbnail of an audio file lives.
func ThumbnailPath(dir, fileName string) string {
	return filepath.Join(dir, strings.TrimSuffix(fileName, filepath.Ext(fileName))+ThumbnailExtension)
}

func renameThumbnail(dir, from, to string) {
	src := ThumbnailPath(dir, from)
	if !ioutils.FileExists(src) {
		return
	}
	_ = ioutils.RenameFile(src, ThumbnailPath(dir, to))
}

func errorLines(stderr string) []string {
	var lines []string
	for _, line := range strings.Split(stderr, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "ERROR:") {
			lines = append(lines, strings.TrimSpace(strings.TrimPrefix(line, "ERROR:")))
		}
	}
	return lines
}

// failureReason picks the error line mentioning the submission id, which
// is the last path segment of its listen URL. The id must stand alone, so
// 12345 does not match a line about 123456.
func failureReason(link string, errs []string) string {
	id := path.Base(strings.TrimRight(stripQuery(link), "/"))
	if id != "" && id != "." && id != "/" {
		pattern := regexp.MustCompile(`(^|[^\pL\pN])` + regexp.QuoteMeta(id) + `([^\pL\pN]|$)`)
		for _, line := range errs {
			if pattern.MatchString(line) {
				return line
			}
		}
	}
	return "no file produced"
}

func stripQuery(link string) string {
	if i := strings.IndexAny(link, "?#"); i >= 0 {
		return link[:i]
	}
	return link
}
