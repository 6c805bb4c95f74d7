package model

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	ioutils "github.com/handiism/newbeach/internal/io"
)

// UnknownIndex is the sort key of a file whose name has no leading index.
// It is larger than any real playlist index, so such files sort last.
const UnknownIndex = math.MaxInt

// indexSeparator separates the playlist index from the title in file names.
const indexSeparator = " - "

// Track is an audio file found in a batch directory.
//
// Track is built from the file name alone. The URL is filled in by the
// metadata writer from the Batch mapping.
//
// Example:
//
//	track := NewTrack("2 - Beta.mp3", "/music/newbeach/0108")
//	// track.Index = 2, track.Title = "Beta"
//	// track.Path = "/music/newbeach/0108/2 - Beta.mp3"
type Track struct {
	// Index is the playlist index embedded in the file name, or UnknownIndex.
	Index int

	// Title is the part of the file name after the index, without extension.
	Title string

	// FileName is the base name of the file.
	FileName string

	// Path is the full path of the file.
	Path string

	// URL is the submission link, empty when it could not be resolved.
	URL string
}

// NewTrack creates a Track for the file name inside dir.
func NewTrack(fileName, dir string) *Track {
	index := ParseIndex(fileName)
	title := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	if index != UnknownIndex {
		_, title, _ = strings.Cut(title, indexSeparator)
	}
	return &Track{
		Index:    index,
		Title:    title,
		FileName: fileName,
		Path:     filepath.Join(dir, fileName),
	}
}

// HasIndex reports whether the file name carried a playlist index.
func (t *Track) HasIndex() bool {
	return t.Index != UnknownIndex
}

// ParseIndex returns the integer before the first " - " in name, or
// UnknownIndex when there is none.
func ParseIndex(name string) int {
	prefix, _, _ := strings.Cut(name, indexSeparator)
	n, err := strconv.Atoi(strings.TrimSpace(prefix))
	if err != nil || n < 0 {
		return UnknownIndex
	}
	return n
}

// FileName computes the on-disk name for a submission.
//
// The title is sanitized and the extension must include the dot.
//
//	FileName(1, "Alpha", ".mp3") // "1 - Alpha.mp3"
func FileName(index int, title, ext string) string {
	title = ioutils.SanitizeFileName(title)
	if title == "" {
		title = "Untitled"
	}
	return fmt.Sprintf("%d%s%s%s", index, indexSeparator, title, ext)
}
