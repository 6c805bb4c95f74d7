// Package ioutils provides file system and image processing utilities.
//
// This package contains functions for:
//   - Directory creation and listing
//   - File writing and renaming
//   - Filename sanitization for cross-platform compatibility
//   - Image resizing and format conversion
//
// # File Operations
//
//	// Ensure the batch directory exists
//	err := ioutils.EnsureDir("/music/newbeach/0108")
//
//	// List audio files in a directory
//	names, err := ioutils.ListFiles("/music/newbeach/0108", ".mp3")
//
//	// Write data to file
//	err := ioutils.WriteFile("/music/newbeach/0108/playlist.m3u", []byte("1 - Alpha.mp3\n"))
//
// # Filename Sanitization
//
// Use SanitizeFileName to remove invalid characters from filenames:
//
//	safe := ioutils.SanitizeFileName("Song: Part 1/2") // Returns "Song_ Part 1_2"
//
// # Image Processing
//
// The ImageService handles thumbnails embedded as cover art:
//
//	svc := ioutils.NewImageService()
//
//	// Resize image to fit within 500x500
//	resized, _ := svc.ResizeImage(ctx, imageData, 500, 500)
//
//	// Convert to JPEG
//	jpeg, _ := svc.ConvertToJPEG(ctx, pngData)
package ioutils
