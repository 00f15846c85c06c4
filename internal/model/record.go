package model

// CacheRecord is the flattened snapshot of a Track kept in the local track
// cache. It is created when a search finds the track and read back when the
// track is downloaded, to name the file and pick its folder.
//
// Fields are declared in alphabetical order of their JSON keys so the
// encoded store has sorted keys.
type CacheRecord struct {
	// Album is the album title, nil when the track has no album.
	Album *string `json:"album"`

	// Artist is the performer name.
	Artist string `json:"artist"`

	// Cover is the large album art URL, if the search returned one.
	Cover string `json:"cover,omitempty"`

	ID         int     `json:"id"`
	SampleRate float64 `json:"sample_rate"`
	Title      string  `json:"title"`

	// TrackNumber is zero-padded to two digits ("03").
	TrackNumber string `json:"track_number"`
}

// AlbumTitle returns the album title, or "" when the record has none.
func (r *CacheRecord) AlbumTitle() string {
	if r.Album == nil {
		return ""
	}
	return *r.Album
}
