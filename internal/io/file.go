package ioutils

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// ListFiles returns the names of the regular files in dir whose extension
// matches ext (case-insensitive, including the dot).
//
// Names are returned in lexical order. Subdirectories are skipped.
//
// Example:
//
//	names, err := ListFiles("/music/newbeach/0108", ".mp3")
//	// ["1 - Alpha.mp3", "10 - Kappa.mp3", "2 - Beta.mp3"]
func ListFiles(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ext) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	return names, nil
}

// WriteFile writes data to a file, creating it if necessary.
//
// The file is created with mode 0644. If the file already exists,
// it is truncated before writing.
//
// Example:
//
//	err := WriteFile("/music/newbeach/0108/playlist.m3u", content)
func WriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0644)
}

// RenameFile moves src to dst, replacing dst if it exists.
//
// Renaming a file onto itself is a no-op.
func RenameFile(src, dst string) error {
	if src == dst {
		return nil
	}
	return os.Rename(src, dst)
}

// FileExists reports whether path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

var (
	invalidChars   = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	trailingDots   = regexp.MustCompile(`\.+$`)
	repeatedSpaces = regexp.MustCompile(`\s+`)
)

// SanitizeFileName removes or replaces characters that are invalid in file/folder names.
//
// This function ensures filenames are valid across different operating systems,
// particularly Windows which has the most restrictive naming rules.
//
// The following transformations are applied:
//   - Invalid characters (<>:"/\|?* and control chars 0x00-0x1f) → underscore
//   - Trailing dots → removed (Windows limitation)
//   - Multiple whitespace → single space
//   - Leading and trailing whitespace → removed
//
// Example:
//
//	SanitizeFileName("Song: Part 1/2")     // Returns "Song_ Part 1_2"
//	SanitizeFileName("Track...")           // Returns "Track"
//	SanitizeFileName("Name   with  spaces") // Returns "Name with spaces"
func SanitizeFileName(name string) string {
	name = invalidChars.ReplaceAllString(name, "_")
	name = trailingDots.ReplaceAllString(name, "")
	name = repeatedSpaces.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
//
// Example:
//
//	err := EnsureDir("/music/newbeach/0108")
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
