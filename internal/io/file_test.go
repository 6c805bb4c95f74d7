package ioutils

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestListFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"2 - Beta.mp3", "1 - Alpha.MP3", "notes.txt", "playlist.m3u"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "3 - Dir.mp3"), 0755); err != nil {
		t.Fatal(err)
	}

	got, err := ListFiles(dir, ".mp3")
	if err != nil {
		t.Fatalf("ListFiles() error = %v", err)
	}
	want := []string{"1 - Alpha.MP3", "2 - Beta.mp3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ListFiles() = %v, want %v", got, want)
	}
}

func TestListFiles_MissingDir(t *testing.T) {
	if _, err := ListFiles(filepath.Join(t.TempDir(), "missing"), ".mp3"); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestRenameFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "NA - Alpha.mp3")
	dst := filepath.Join(dir, "1 - Alpha.mp3")
	if err := os.WriteFile(src, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := RenameFile(src, src); err != nil {
		t.Fatalf("RenameFile onto itself: %v", err)
	}
	if err := RenameFile(src, dst); err != nil {
		t.Fatalf("RenameFile() error = %v", err)
	}
	if FileExists(src) {
		t.Error("source should be gone after rename")
	}
	if !FileExists(dst) {
		t.Error("destination should exist after rename")
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Song: Part 1/2", "Song_ Part 1_2"},
		{"Track...", "Track"},
		{"Name   with  spaces", "Name with spaces"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := SanitizeFileName(tt.input); got != tt.want {
				t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
