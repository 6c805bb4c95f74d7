package download

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/handiism/newbeach/internal/model"
)

func TestParseRecords(t *testing.T) {
	stdout := "https://www.newgrounds.com/audio/listen/1\tAlpha\tsomeone\t/tmp/0108/00001 - Alpha.mp3\r\n" +
		"garbage line\n" +
		"\n" +
		"https://www.newgrounds.com/audio/listen/2\tNA\tNA\t/tmp/0108/00002 - NA.mp3\n" +
		"https://www.newgrounds.com/audio/listen/1\tAlpha\tsomeone\t/tmp/0108/00001 - Alpha.mp3\n" +
		"https://www.newgrounds.com/audio/listen/3\tGamma\tx\tNA\n"

	records := ParseRecords(stdout)
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2: %+v", len(records), records)
	}

	want := Record{
		URL:      "https://www.newgrounds.com/audio/listen/1",
		Title:    "Alpha",
		Uploader: "someone",
		Path:     "/tmp/0108/00001 - Alpha.mp3",
	}
	if records[0] != want {
		t.Errorf("records[0] = %+v, want %+v", records[0], want)
	}
	if records[1].Title != "" || records[1].Uploader != "" {
		t.Errorf("NA fields should be empty, got %+v", records[1])
	}
}

func TestParseRecords_Empty(t *testing.T) {
	if got := ParseRecords(""); len(got) != 0 {
		t.Errorf("ParseRecords(\"\") = %v", got)
	}
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestReconcile(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "00001 - Alpha.mp3"))
	touch(t, filepath.Join(dir, "00001 - Alpha.jpg"))
	touch(t, filepath.Join(dir, "00002 - Gamma_ Part 2.mp3"))
	touch(t, filepath.Join(dir, "00003 - Stray.mp3"))

	batch := model.NewBatch([]string{
		"https://www.newgrounds.com/audio/listen/100",
		"https://www.newgrounds.com/audio/listen/200",
		"https://www.newgrounds.com/audio/listen/300",
	})

	records := []Record{
		{URL: "https://www.newgrounds.com/audio/listen/100", Title: "Alpha", Uploader: "ann", Path: filepath.Join(dir, "00001 - Alpha.mp3")},
		{URL: "http://WWW.newgrounds.com/audio/listen/300/", Title: "Gamma: Part 2", Uploader: "cat", Path: filepath.Join(dir, "00002 - Gamma_ Part 2.mp3")},
		{URL: "https://www.newgrounds.com/audio/listen/999", Title: "Stray", Path: filepath.Join(dir, "00003 - Stray.mp3")},
	}
	stderr := "ERROR: [Newgrounds] 200: Unable to download webpage: HTTP Error 404: Not Found\n"

	unmatched := Reconcile(batch, dir, records, stderr)

	if len(unmatched) != 1 || unmatched[0].Title != "Stray" {
		t.Errorf("unmatched = %+v", unmatched)
	}

	first := batch.Submissions[0]
	if first.Status != model.StatusDownloaded || first.FileName != "1 - Alpha.mp3" || first.Artist != "ann" {
		t.Errorf("first = %+v", first)
	}

	third := batch.Submissions[2]
	if third.Status != model.StatusDownloaded || third.FileName != "3 - Gamma_ Part 2.mp3" {
		t.Errorf("third = %+v", third)
	}

	second := batch.Submissions[1]
	if second.Status != model.StatusFailed {
		t.Fatalf("second status = %v, want failed", second.Status)
	}
	if second.Err != "[Newgrounds] 200: Unable to download webpage: HTTP Error 404: Not Found" {
		t.Errorf("second.Err = %q", second.Err)
	}

	for _, name := range []string{"1 - Alpha.mp3", "1 - Alpha.jpg", "3 - Gamma_ Part 2.mp3", "00003 - Stray.mp3"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "00001 - Alpha.mp3")); !os.IsNotExist(err) {
		t.Error("original name should be gone after rename")
	}
}

func TestReconcile_NoRecords(t *testing.T) {
	batch := model.NewBatch([]string{"https://www.newgrounds.com/audio/listen/5"})

	Reconcile(batch, t.TempDir(), nil, "")

	sub := batch.Submissions[0]
	if sub.Status != model.StatusFailed || sub.Err != "no file produced" {
		t.Errorf("sub = %+v", sub)
	}
}

func TestReconcile_MissingFileKeepsReportedName(t *testing.T) {
	batch := model.NewBatch([]string{"https://www.newgrounds.com/audio/listen/5"})
	records := []Record{{URL: "https://www.newgrounds.com/audio/listen/5", Title: "Five", Path: "/elsewhere/00001 - Five.mp3"}}

	Reconcile(batch, t.TempDir(), records, "")

	if got := batch.Submissions[0].FileName; got != "00001 - Five.mp3" {
		t.Errorf("FileName = %q", got)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestReconcile_DuplicateTitles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "1 - Untitled.mp3"), []byte("from-link-2"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "2 - Untitled.mp3"), []byte("from-link-3"), 0644); err != nil {
		t.Fatal(err)
	}

	batch := model.NewBatch([]string{
		"https://www.newgrounds.com/audio/listen/1",
		"https://www.newgrounds.com/audio/listen/2",
		"https://www.newgrounds.com/audio/listen/3",
	})
	records := []Record{
		{URL: "https://www.newgrounds.com/audio/listen/2", Title: "Untitled", Path: filepath.Join(dir, "1 - Untitled.mp3")},
		{URL: "https://www.newgrounds.com/audio/listen/3", Title: "Untitled", Path: filepath.Join(dir, "2 - Untitled.mp3")},
	}

	Reconcile(batch, dir, records, "")

	tests := []struct {
		sub     *model.Submission
		name    string
		content string
	}{
		{batch.Submissions[1], "2 - Untitled.mp3", "from-link-2"},
		{batch.Submissions[2], "3 - Untitled.mp3", "from-link-3"},
	}
	for _, tt := range tests {
		if tt.sub.Status != model.StatusDownloaded || tt.sub.FileName != tt.name {
			t.Errorf("submission %d = %+v, want %s", tt.sub.Index, tt.sub, tt.name)
		}
		if got := readFile(t, filepath.Join(dir, tt.name)); got != tt.content {
			t.Errorf("%s holds %q, want %q", tt.name, got, tt.content)
		}
	}

	if batch.Submissions[0].Status != model.StatusFailed {
		t.Errorf("first status = %v, want failed", batch.Submissions[0].Status)
	}
	if _, err := os.Stat(filepath.Join(dir, "1 - Untitled.mp3")); !os.IsNotExist(err) {
		t.Error("1 - Untitled.mp3 should not exist for a failed link")
	}
	if _, err := os.Stat(filepath.Join(dir, stagingName(2, ".mp3"))); !os.IsNotExist(err) {
		t.Error("staging file should be gone")
	}
}

func TestFailureReason(t *testing.T) {
	errs := []string{
		"[Newgrounds] 123456: Unable to download webpage: HTTP Error 404: Not Found",
		"[Newgrounds] 12345: This submission is restricted",
	}

	tests := []struct {
		link string
		want string
	}{
		{"https://www.newgrounds.com/audio/listen/12345", errs[1]},
		{"https://www.newgrounds.com/audio/listen/123456?ref=x", errs[0]},
		{"https://www.newgrounds.com/audio/listen/1234", "no file produced"},
		{"https://www.newgrounds.com/audio/listen/23456", "no file produced"},
	}

	for _, tt := range tests {
		t.Run(tt.link, func(t *testing.T) {
			if got := failureReason(tt.link, errs); got != tt.want {
				t.Errorf("failureReason(%q) = %q, want %q", tt.link, got, tt.want)
			}
		})
	}
}

func TestThumbnailPath(t *testing.T) {
	if got := ThumbnailPath("/music", "1 - Alpha.mp3"); got != filepath.Join("/music", "1 - Alpha.jpg") {
		t.Errorf("ThumbnailPath() = %q", got)
	}
}

func TestDownloader_MissingExecutable(t *testing.T) {
	d := NewDownloader(Options{Executable: "newbeach-test-ytdlp-that-does-not-exist"})

	if _, ok := d.Available(); ok {
		t.Fatal("Available() = true for missing executable")
	}

	batch := model.NewBatch([]string{"https://www.newgrounds.com/audio/listen/1"})
	dir := filepath.Join(t.TempDir(), "0108")
	_, err := d.Download(t.Context(), batch, dir)
	if err != ErrDownloaderMissing {
		t.Errorf("Download() error = %v, want ErrDownloaderMissing", err)
	}
	if _, statErr := os.Stat(dir); statErr != nil {
		t.Errorf("output directory should be created before the lookup: %v", statErr)
	}
}

func TestDownloadError(t *testing.T) {
	err := &DownloadError{Message: "yt-dlp produced no files", Original: os.ErrPermission}
	if err.Error() != "download error: yt-dlp produced no files: permission denied" {
		t.Errorf("Error() = %q", err.Error())
	}
	if err.Unwrap() != os.ErrPermission {
		t.Error("Unwrap() should return the original error")
	}
}
