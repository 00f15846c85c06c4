package model

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Track represents a single track returned by the catalog.
//
// ID, Title, TrackNumber, Performer, MaximumSamplingRate and Duration are
// guaranteed by decoding; a response missing any of them is rejected.
// Album is nil for tracks the API returns without a release.
type Track struct {
	Item

	Title       string
	TrackNumber int
	MediaNumber int
	Performer   BaseArtist
	Performers  string
	Composer    *BaseArtist
	Album       *Album
	AudioInfo   *AudioInfo
	ISRC        string
	Copyright   string
	Work        string
}

func (t *Track) UnmarshalJSON(data []byte) error {
	f := readObject("track", data)
	f.required("id", &t.ID)
	f.required("title", &t.Title)
	f.required("track_number", &t.TrackNumber)
	f.required("performer", &t.Performer)
	f.required("maximum_sampling_rate", &t.MaximumSamplingRate)
	f.required("duration", &t.Duration)
	readItem(f, &t.Item)
	f.optional("media_number", &t.MediaNumber)
	f.optional("performers", &t.Performers)
	f.optional("composer", &t.Composer)
	f.optional("album", &t.Album)
	f.optional("audio_info", &t.AudioInfo)
	f.optional("isrc", &t.ISRC)
	f.optional("copyright", &t.Copyright)
	f.optional("work", &t.Work)
	return f.err
}

// DecodeTrack decodes a single track object.
func DecodeTrack(data []byte) (*Track, error) {
	var t Track
	if err := decodeRoot("track", data, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// AlbumTitle returns the album title, or "" when the track has no album.
func (t *Track) AlbumTitle() string {
	if t.Album == nil {
		return ""
	}
	return t.Album.Title
}

// Summary column widths.
const (
	idWidth     = 10
	rateWidth   = 10
	artistWidth = 24
	titleWidth  = 32
	albumWidth  = 32
)

// String returns the fixed-width one-line summary printed for search results.
//
//	ID: 12345      Sample rate: 44.1 KHz  Artist: Someone   Title: Song   Album: Record
func (t *Track) String() string {
	album := "N/A"
	if t.Album != nil {
		album = t.Album.Title
	}

	return fmt.Sprintf("ID: %s Sample rate: %s Artist: %s Title: %s Album: %s",
		column(strconv.Itoa(t.ID), idWidth),
		column(formatRate(t.MaximumSamplingRate)+" KHz", rateWidth),
		column(t.Performer.Name, artistWidth),
		column(t.Title, titleWidth),
		column(album, albumWidth),
	)
}

// Record returns the flattened projection of t that is persisted in the track cache.
func (t *Track) Record() CacheRecord {
	rec := CacheRecord{
		ID:          t.ID,
		SampleRate:  t.MaximumSamplingRate,
		Artist:      t.Performer.Name,
		Title:       t.Title,
		TrackNumber: fmt.Sprintf("%02d", t.TrackNumber),
	}
	if t.Album != nil {
		title := t.Album.Title
		rec.Album = &title
		rec.Cover = t.Album.CoverURL()
	}
	return rec
}

// column pads s with spaces to width display cells, truncating with an
// ellipsis when it is wider.
func column(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	return runewidth.FillRight(runewidth.Truncate(s, width, "…"), width)
}

// formatRate prints a sampling rate with at least one decimal: 44.1, 96.0.
func formatRate(rate float64) string {
	s := strconv.FormatFloat(rate, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
