// Package ioutils provides file system and image utilities.
//
// This package contains functions for:
//   - Filename sanitization for cross-platform compatibility
//   - Directory creation
//   - Whole-buffer and atomic file writes
//   - Cover art resizing and JPEG conversion
//
// # File Operations
//
//	// Ensure directory exists
//	err := ioutils.EnsureDir("/music/Artist/Album")
//
//	// Write a downloaded track in one go
//	err := ioutils.WriteFile(ctx, "/music/Artist/Album/01 - Song.flac", data)
//
//	// Replace a state file without ever leaving it half-written
//	err := ioutils.WriteFileAtomic("tracks.json", data, 0644)
//
// Failures are reported as *FileError, which wraps the underlying
// *os.PathError.
//
// # Filename Sanitization
//
//	safe := ioutils.SanitizeFileName("Song: Part 1/2") // Returns "Song_ Part 1_2"
//
// # Image Processing
//
//	svc := ioutils.NewImageService()
//	cover, _ := svc.FitCover(ctx, imageData, 1000)
package ioutils
