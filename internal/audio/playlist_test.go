package audio

import (
	"strings"
	"testing"

	"github.com/handiism/newbeach/internal/model"
)

func TestPlaylistCreator_M3U(t *testing.T) {
	creator := NewPlaylistCreator(FormatM3U, false)

	content := creator.CreatePlaylist(createTestTracks())

	want := "1 - Alpha.mp3\n2 - Beta.mp3\n"
	if content != want {
		t.Errorf("M3U = %q, want %q", content, want)
	}
}

func TestPlaylistCreator_M3UExtended(t *testing.T) {
	creator := NewPlaylistCreator(FormatM3U, true)

	content := creator.CreatePlaylist(createTestTracks())

	if !strings.HasPrefix(content, "#EXTM3U\n") {
		t.Error("Extended M3U should start with #EXTM3U")
	}
	if !strings.Contains(content, "#EXTINF:-1,Alpha\n1 - Alpha.mp3\n") {
		t.Errorf("Extended M3U should pair #EXTINF with the file, got %q", content)
	}
}

func TestPlaylistCreator_PLS(t *testing.T) {
	creator := NewPlaylistCreator(FormatPLS, false)

	content := creator.CreatePlaylist(createTestTracks())

	if !strings.HasPrefix(content, "[playlist]") {
		t.Error("PLS should start with [playlist]")
	}
	if !strings.Contains(content, "File2=2 - Beta.mp3") {
		t.Error("PLS should contain File2=")
	}
	if !strings.Contains(content, "NumberOfEntries=2") {
		t.Error("PLS should contain NumberOfEntries")
	}
}

func TestPlaylistCreator_Empty(t *testing.T) {
	if got := NewPlaylistCreator(FormatM3U, false).CreatePlaylist(nil); got != "" {
		t.Errorf("empty M3U = %q, want empty", got)
	}
}

func TestParsePlaylistFormat(t *testing.T) {
	tests := []struct {
		name string
		want PlaylistFormat
		ext  string
	}{
		{"m3u", FormatM3U, ".m3u"},
		{"PLS", FormatPLS, ".pls"},
		{"wpl", FormatM3U, ".m3u"},
		{"", FormatM3U, ".m3u"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePlaylistFormat(tt.name)
			if got != tt.want {
				t.Errorf("ParsePlaylistFormat(%q) = %v, want %v", tt.name, got, tt.want)
			}
			if got.Extension() != tt.ext {
				t.Errorf("Extension() = %q, want %q", got.Extension(), tt.ext)
			}
		})
	}
}

func createTestTracks() []*model.Track {
	return []*model.Track{
		model.NewTrack("1 - Alpha.mp3", "/music"),
		model.NewTrack("2 - Beta.mp3", "/music"),
	}
}
