package audio

import (
	"fmt"
	"strings"

	"github.com/handiism/newbeach/internal/model"
)

// PlaylistFormat represents supported playlist file formats.
//
// Both formats are understood by mpv:
//   - M3U: Simple text format, one file per line
//   - PLS: INI-style format, used by Winamp
type PlaylistFormat int

const (
	// FormatM3U creates .m3u files (most compatible).
	// Can be extended with EXTINF lines for title info.
	FormatM3U PlaylistFormat = iota

	// FormatPLS creates .pls files (Winamp/SHOUTcast format).
	FormatPLS
)

// ParsePlaylistFormat maps a config value ("m3u", "pls") to a format.
// Unknown values fall back to FormatM3U.
func ParsePlaylistFormat(name string) PlaylistFormat {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "pls":
		return FormatPLS
	default:
		return FormatM3U
	}
}

// Extension returns the file extension for the format, including the dot.
func (f PlaylistFormat) Extension() string {
	if f == FormatPLS {
		return ".pls"
	}
	return ".m3u"
}

// PlaylistCreator generates playlist content from sorted tracks.
//
// Track paths in the playlist are relative (just the filename); the
// playlist lives in the same directory as the tracks.
//
// Example:
//
//	creator := NewPlaylistCreator(FormatM3U, false)
//	content := creator.CreatePlaylist(tracks)
//
//	// Result:
//	// 1 - Alpha.mp3
//	// 2 - Beta.mp3
type PlaylistCreator struct {
	format   PlaylistFormat
	extended bool // For M3U: include #EXTM3U header and #EXTINF lines
}

// NewPlaylistCreator creates a new PlaylistCreator.
//
// extended is ignored for formats other than M3U.
func NewPlaylistCreator(format PlaylistFormat, extended bool) *PlaylistCreator {
	return &PlaylistCreator{
		format:   format,
		extended: extended,
	}
}

// CreatePlaylist generates playlist content, keeping the order of tracks.
func (p *PlaylistCreator) CreatePlaylist(tracks []*model.Track) string {
	switch p.format {
	case FormatPLS:
		return p.createPLS(tracks)
	default:
		return p.createM3U(tracks)
	}
}

// createM3U generates an M3U playlist.
//
// Plain M3U lists one file name per line with no header. Extended M3U
// adds the header and an #EXTINF line per track; durations are unknown
// and written as -1.
func (p *PlaylistCreator) createM3U(tracks []*model.Track) string {
	var sb strings.Builder

	if p.extended {
		sb.WriteString("#EXTM3U\n")
	}

	for _, track := range tracks {
		if p.extended {
			fmt.Fprintf(&sb, "#EXTINF:-1,%s\n", track.Title)
		}
		sb.WriteString(track.FileName)
		sb.WriteString("\n")
	}

	return sb.String()
}

// createPLS generates a PLS playlist.
//
//	[playlist]
//	File1=1 - Alpha.mp3
//	Title1=Alpha
//	Length1=-1
//	NumberOfEntries=1
//	Version=2
func (p *PlaylistCreator) createPLS(tracks []*model.Track) string {
	var sb strings.Builder

	sb.WriteString("[playlist]\n")

	for i, track := range tracks {
		idx := i + 1
		fmt.Fprintf(&sb, "File%d=%s\n", idx, track.FileName)
		fmt.Fprintf(&sb, "Title%d=%s\n", idx, track.Title)
		fmt.Fprintf(&sb, "Length%d=-1\n", idx)
	}

	fmt.Fprintf(&sb, "NumberOfEntries=%d\n", len(tracks))
	sb.WriteString("Version=2\n")

	return sb.String()
}
