package audio

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/handiism/newbeach/internal/model"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("audio"), 0644); err != nil {
			t.Fatal(err)
		}
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

func sortedNames(names []string) []string {
	tracks := make([]*model.Track, len(names))
	for i, name := range names {
		tracks[i] = model.NewTrack(name, "")
	}
	SortTracks(tracks)

	sorted := make([]string, len(tracks))
	for i, track := range tracks {
		sorted[i] = track.FileName
	}
	return sorted
}

func TestSortTracks(t *testing.T) {
	names := []string{"b - Zed.mp3", "10 - Kappa.mp3", "a - Aaa.mp3", "2 - Beta.mp3", "1 - Alpha.mp3"}

	got := sortedNames(names)
	want := []string{"1 - Alpha.mp3", "2 - Beta.mp3", "10 - Kappa.mp3", "a - Aaa.mp3", "b - Zed.mp3"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SortTracks() = %v, want %v", got, want)
	}

	if again := sortedNames(got); !reflect.DeepEqual(again, got) {
		t.Errorf("sorting is not idempotent: %v", again)
	}
}

func TestSortTracks_UnparseableAlwaysLast(t *testing.T) {
	// "0000" sorts before "1" alphabetically, but has no " - " index
	names := []string{"0000 Intro.mp3", "99999 - Late.mp3", "AAA.mp3", "3 - Gamma.mp3"}

	got := sortedNames(names)
	want := []string{"3 - Gamma.mp3", "99999 - Late.mp3", "0000 Intro.mp3", "AAA.mp3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SortTracks() = %v, want %v", got, want)
	}
}

func TestMetadataWriter_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "2 - Beta.mp3", "1 - Alpha.mp3", "10 - Kappa.mp3", "cover.jpg")

	writer := NewMetadataWriter(DefaultMetadataConfig())
	playlist, tracks, err := writer.Write(dir, model.NewBatch([]string{"urlA", "urlB"}))
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if playlist != filepath.Join(dir, "playlist.m3u") {
		t.Errorf("playlist path = %q", playlist)
	}
	if tracks != filepath.Join(dir, "tracks.txt") {
		t.Errorf("tracks path = %q", tracks)
	}

	if got := readFile(t, playlist); got != "1 - Alpha.mp3\n2 - Beta.mp3\n10 - Kappa.mp3\n" {
		t.Errorf("playlist = %q", got)
	}

	rule := strings.Repeat("-", 40)
	want := "File: 1 - Alpha.mp3\nLink: urlA\n" + rule + "\n" +
		"File: 2 - Beta.mp3\nLink: urlB\n" + rule + "\n" +
		"File: 10 - Kappa.mp3\nLink: Unknown URL\n" + rule + "\n"
	if got := readFile(t, tracks); got != want {
		t.Errorf("tracks.txt =\n%s\nwant\n%s", got, want)
	}

	if _, err := os.Stat(filepath.Join(dir, "failed.txt")); !os.IsNotExist(err) {
		t.Error("failed.txt should not exist when nothing failed")
	}
}

func TestMetadataWriter_EmptyDirectory(t *testing.T) {
	dir := t.TempDir()

	playlist, tracks, err := NewMetadataWriter(DefaultMetadataConfig()).Write(dir, model.NewBatch(nil))
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	for _, path := range []string{playlist, tracks} {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("%s not written: %v", path, err)
		}
		if info.Size() != 0 {
			t.Errorf("%s has %d bytes, want 0", path, info.Size())
		}
	}
}

func TestMetadataWriter_MoreFilesThanLinks(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "1 - A.mp3", "2 - B.mp3", "3 - C.mp3", "4 - D.mp3")

	_, tracks, err := NewMetadataWriter(DefaultMetadataConfig()).Write(dir, model.NewBatch([]string{"u1"}))
	if err != nil {
		t.Fatal(err)
	}

	content := readFile(t, tracks)
	if n := strings.Count(content, "File: "); n != 4 {
		t.Errorf("got %d file blocks, want 4", n)
	}
	if n := strings.Count(content, "Link: Unknown URL"); n != 3 {
		t.Errorf("got %d unknown links, want 3", n)
	}
}

func TestMetadataWriter_PartialFailureKeepsLinks(t *testing.T) {
	dir := t.TempDir()
	// link 2 failed; the file for link 3 must keep link 3
	writeFiles(t, dir, "1 - One.mp3", "3 - Three.mp3")

	batch := model.NewBatch([]string{"url1", "url2", "url3"})
	batch.Submissions[0].Status = model.StatusDownloaded
	batch.Submissions[0].FileName = "1 - One.mp3"
	batch.Submissions[1].Status = model.StatusFailed
	batch.Submissions[1].Err = "HTTP Error 404"
	batch.Submissions[2].Status = model.StatusDownloaded
	batch.Submissions[2].FileName = "3 - Three.mp3"

	_, tracks, err := NewMetadataWriter(DefaultMetadataConfig()).Write(dir, batch)
	if err != nil {
		t.Fatal(err)
	}

	content := readFile(t, tracks)
	if !strings.Contains(content, "File: 3 - Three.mp3\nLink: url3\n") {
		t.Errorf("file 3 lost its link:\n%s", content)
	}

	failed := readFile(t, filepath.Join(dir, "failed.txt"))
	if !strings.Contains(failed, "Link: url2\nError: HTTP Error 404\n") {
		t.Errorf("failed.txt = %q", failed)
	}
}

func TestMetadataWriter_RemovesStaleFailedFile(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "failed.txt")

	if _, _, err := NewMetadataWriter(DefaultMetadataConfig()).Write(dir, model.NewBatch(nil)); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "failed.txt")); !os.IsNotExist(err) {
		t.Error("stale failed.txt should be removed")
	}
}

func TestMetadataWriter_MissingDirectory(t *testing.T) {
	_, _, err := NewMetadataWriter(DefaultMetadataConfig()).Write(filepath.Join(t.TempDir(), "missing"), nil)
	if err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestResolveURL(t *testing.T) {
	batch := model.NewBatch([]string{"url1", "url2", "url3"})
	batch.Submissions[0].Status = model.StatusDownloaded
	batch.Submissions[0].FileName = "1 - Renamed.mp3"
	batch.Submissions[1].Status = model.StatusFailed

	tests := []struct {
		file string
		want string
	}{
		{"1 - Renamed.mp3", "url1"},
		{"1 - Leftover.mp3", UnknownURL},
		{"2 - Leftover.mp3", UnknownURL},
		{"3 - Pending.mp3", "url3"},
		{"Loose.mp3", UnknownURL},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			if got := ResolveURL(model.NewTrack(tt.file, ""), batch); got != tt.want {
				t.Errorf("ResolveURL(%q) = %q, want %q", tt.file, got, tt.want)
			}
		})
	}

	if got := ResolveURL(model.NewTrack("1 - A.mp3", ""), nil); got != UnknownURL {
		t.Errorf("nil batch: got %q", got)
	}
}
