package audio

import (
	"fmt"
	"path/filepath"
	"strings"
)

// PlaylistFormat represents supported playlist file formats.
//
// Each format has different features and compatibility:
//   - M3U: Simple text format, widely supported
//   - PLS: INI-style format, used by Winamp
type PlaylistFormat int

const (
	// FormatM3U creates .m3u files (most compatible).
	// Can be extended with EXTINF lines for title info.
	FormatM3U PlaylistFormat = iota

	// FormatPLS creates .pls files (Winamp/SHOUTcast format).
	FormatPLS
)

// ParsePlaylistFormat maps a format name ("m3u", "pls") to a PlaylistFormat.
func ParsePlaylistFormat(name string) (PlaylistFormat, error) {
	switch strings.ToLower(name) {
	case "m3u":
		return FormatM3U, nil
	case "pls":
		return FormatPLS, nil
	}
	return 0, fmt.Errorf("unknown playlist format %q", name)
}

// Extension returns the file extension of the format, dot included.
func (f PlaylistFormat) Extension() string {
	if f == FormatPLS {
		return ".pls"
	}
	return ".m3u"
}

// unknownLength is written where a duration is expected but not known.
const unknownLength = -1

// Entry is one file in a playlist.
type Entry struct {
	// Path is where the file was written.
	Path string

	Artist string
	Title  string
}

func (e Entry) displayTitle() string {
	switch {
	case e.Artist != "" && e.Title != "":
		return e.Artist + " - " + e.Title
	case e.Title != "":
		return e.Title
	}
	return filepath.Base(e.Path)
}

// PlaylistCreator generates playlist files in various formats.
//
// PlaylistCreator takes the files saved by a download batch and lists
// them relative to the directory the playlist will be written to.
//
// Example:
//
//	creator := NewPlaylistCreator(FormatM3U, true)
//	content := creator.CreatePlaylist("/music", entries)
//	os.WriteFile("/music/downloads.m3u", []byte(content), 0644)
//
//	// Result:
//	// #EXTM3U
//	// #EXTINF:-1,Daft Punk - One More Time
//	// Daft Punk/Discovery/01 - One More Time.flac
type PlaylistCreator struct {
	format   PlaylistFormat
	extended bool // For M3U: include EXTINF lines with titles
}

// NewPlaylistCreator creates a new PlaylistCreator.
//
// Parameters:
//   - format: The playlist format to generate
//   - extended: For M3U format, whether to include #EXTM3U and #EXTINF lines
//     (ignored for other formats)
func NewPlaylistCreator(format PlaylistFormat, extended bool) *PlaylistCreator {
	return &PlaylistCreator{
		format:   format,
		extended: extended,
	}
}

// Format returns the format the creator writes.
func (p *PlaylistCreator) Format() PlaylistFormat {
	return p.format
}

// CreatePlaylist generates playlist content for entries.
//
// Entry paths are rewritten relative to dir with forward slashes. A path
// that cannot be made relative is kept as given.
func (p *PlaylistCreator) CreatePlaylist(dir string, entries []Entry) string {
	switch p.format {
	case FormatPLS:
		return p.createPLS(dir, entries)
	default:
		return p.createM3U(dir, entries)
	}
}

// createM3U generates an M3U playlist.
//
// Standard M3U format:
//
//	Artist/Album/01 - Title.flac
//
// Extended M3U format (when extended=true):
//
//	#EXTM3U
//	#EXTINF:-1,Artist - Title
//	Artist/Album/01 - Title.flac
func (p *PlaylistCreator) createM3U(dir string, entries []Entry) string {
	var sb strings.Builder

	if p.extended {
		sb.WriteString("#EXTM3U\n")
	}

	for _, entry := range entries {
		if p.extended {
			sb.WriteString(fmt.Sprintf("#EXTINF:%d,%s\n", unknownLength, entry.displayTitle()))
		}
		sb.WriteString(relativePath(dir, entry.Path) + "\n")
	}

	return sb.String()
}

// createPLS generates a PLS playlist.
//
// PLS format is an INI-style text file:
//
//	[playlist]
//	File1=Artist/Album/01 - Title.flac
//	Title1=Artist - Title
//	Length1=-1
//	NumberOfEntries=1
//	Version=2
func (p *PlaylistCreator) createPLS(dir string, entries []Entry) string {
	var sb strings.Builder

	sb.WriteString("[playlist]\n")

	for i, entry := range entries {
		idx := i + 1
		sb.WriteString(fmt.Sprintf("File%d=%s\n", idx, relativePath(dir, entry.Path)))
		sb.WriteString(fmt.Sprintf("Title%d=%s\n", idx, entry.displayTitle()))
		sb.WriteString(fmt.Sprintf("Length%d=%d\n", idx, unknownLength))
	}

	sb.WriteString(fmt.Sprintf("NumberOfEntries=%d\n", len(entries)))
	sb.WriteString("Version=2\n")

	return sb.String()
}

func relativePath(dir, path string) string {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		rel = path
	}
	return filepath.ToSlash(rel)
}
