package model

import (
	"fmt"
	"path/filepath"
	"strconv"

	ioutils "github.com/ZephyrCodesStuff/slavart/internal/io"
)

const (
	// UncategorizedFolder holds tracks downloaded without cached metadata.
	UncategorizedFolder = "Uncategorized"

	// UnknownAlbumFolder replaces the album folder for records without an album.
	UnknownAlbumFolder = "Unknown Album"

	// TrackExtension is the extension of every downloaded file.
	TrackExtension = ".flac"
)

// InvalidPathError is returned when a path component has nothing usable
// left after sanitization.
type InvalidPathError struct {
	Component string // "artist", "album" or "file name"
	Value     string
}

func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("invalid %s %q: nothing left after sanitization", e.Component, e.Value)
}

// Destination is where a downloaded track is written.
type Destination struct {
	Dir      string
	FileName string
}

// Path returns the full file path.
func (d Destination) Path() string {
	return filepath.Join(d.Dir, d.FileName)
}

// ResolvePath computes the destination of track id under root.
//
// With a cache record the file goes to root/<artist>/<album>/<NN> - <title>.flac,
// using UnknownAlbumFolder when the record has no album. Without one it goes
// to root/Uncategorized/<id>.flac. Every component is passed through
// ioutils.SanitizeFileName, so the result never leaves root.
//
// Example:
//
//	album := "B"
//	rec := &CacheRecord{ID: 7, Artist: "A", Album: &album, TrackNumber: "03", Title: "Song"}
//	dst, _ := ResolvePath("out", 7, rec)
//	// dst.Path() = "out/A/B/03 - Song.flac"
func ResolvePath(root string, id int, rec *CacheRecord) (Destination, error) {
	if root == "" {
		root = "."
	}
	root = filepath.Clean(root)

	if rec == nil {
		return Destination{
			Dir:      filepath.Join(root, UncategorizedFolder),
			FileName: strconv.Itoa(id) + TrackExtension,
		}, nil
	}

	artist, err := sanitize("artist", rec.Artist)
	if err != nil {
		return Destination{}, err
	}

	album := UnknownAlbumFolder
	if rec.AlbumTitle() != "" {
		if album, err = sanitize("album", rec.AlbumTitle()); err != nil {
			return Destination{}, err
		}
	}

	fileName, err := sanitize("file name", fmt.Sprintf("%s - %s%s", rec.TrackNumber, rec.Title, TrackExtension))
	if err != nil {
		return Destination{}, err
	}

	return Destination{
		Dir:      filepath.Join(root, artist, album),
		FileName: fileName,
	}, nil
}

func sanitize(component, value string) (string, error) {
	name := ioutils.SanitizeFileName(value)
	if name == "" {
		return "", &InvalidPathError{Component: component, Value: value}
	}
	return name, nil
}
