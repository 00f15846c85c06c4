package model

import "encoding/json"

// Image holds the cover art URLs of an album.
type Image struct {
	Small     string
	Thumbnail string
	Large     string
	Back      string
}

func (i *Image) UnmarshalJSON(data []byte) error {
	f := readObject("image", data)
	f.required("small", &i.Small)
	f.required("thumbnail", &i.Thumbnail)
	f.required("large", &i.Large)
	f.optional("back", &i.Back)
	return f.err
}

// Label is the record label that released an album.
type Label struct {
	Name        string
	ID          int
	AlbumsCount int
	SupplierID  int
	Slug        string
}

func (l *Label) UnmarshalJSON(data []byte) error {
	f := readObject("label", data)
	f.required("name", &l.Name)
	f.required("id", &l.ID)
	f.optional("albums_count", &l.AlbumsCount)
	f.optional("supplier_id", &l.SupplierID)
	f.optional("slug", &l.Slug)
	return f.err
}

// Genre is a catalog genre. Path lists the ids of its parent genres.
type Genre struct {
	Path  []int
	Color string
	Name  string
	ID    int
	Slug  string
}

func (g *Genre) UnmarshalJSON(data []byte) error {
	f := readObject("genre", data)
	f.required("name", &g.Name)
	f.required("id", &g.ID)
	f.optional("path", &g.Path)
	f.optional("color", &g.Color)
	f.optional("slug", &g.Slug)
	return f.err
}

// BaseArtist is the short artist reference used for performers and composers.
type BaseArtist struct {
	Name  string
	ID    int
	Roles []string
}

func (a *BaseArtist) UnmarshalJSON(data []byte) error {
	f := readObject("artist", data)
	f.required("name", &a.Name)
	f.required("id", &a.ID)
	f.optional("roles", &a.Roles)
	return f.err
}

// Artist is the full artist entity returned for albums and artist searches.
type Artist struct {
	Name        string
	ID          int
	AlbumsCount *int
	Slug        string
	Image       *ArtistImage
	Picture     string
	Roles       []string
}

func (a *Artist) UnmarshalJSON(data []byte) error {
	f := readObject("artist", data)
	f.required("name", &a.Name)
	f.required("id", &a.ID)
	f.optional("albums_count", &a.AlbumsCount)
	f.optional("slug", &a.Slug)
	f.optional("image", &a.Image)
	f.optional("picture", &a.Picture)
	f.optional("roles", &a.Roles)
	return f.err
}

// ArtistImage holds the portrait URLs of an artist. Every size is
// optional. Some responses send a single URL string instead of an object;
// it is kept in URL.
type ArtistImage struct {
	URL        string
	Small      string
	Medium     string
	Large      string
	ExtraLarge string
	Mega       string
}

func (i *ArtistImage) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &i.URL)
	}
	f := readObject("image", data)
	f.optional("small", &i.Small)
	f.optional("medium", &i.Medium)
	f.optional("large", &i.Large)
	f.optional("extralarge", &i.ExtraLarge)
	f.optional("mega", &i.Mega)
	return f.err
}

// Largest returns the biggest image available, or "".
func (i *ArtistImage) Largest() string {
	for _, u := range []string{i.Mega, i.ExtraLarge, i.Large, i.Medium, i.Small, i.URL} {
		if u != "" {
			return u
		}
	}
	return ""
}

// AudioInfo carries the ReplayGain values of a track.
type AudioInfo struct {
	ReplayGainTrackPeak float64
	ReplayGainTrackGain float64
}

func (a *AudioInfo) UnmarshalJSON(data []byte) error {
	f := readObject("audio_info", data)
	f.optional("replaygain_track_peak", &a.ReplayGainTrackPeak)
	f.optional("replaygain_track_gain", &a.ReplayGainTrackGain)
	return f.err
}

// Article is an editorial piece returned alongside search results.
type Article struct {
	ID            int
	Title         string
	URL           string
	Image         string
	Thumbnail     string
	ImageOriginal string
	SourceImage   string
	RootCategory  int
	CategoryID    int
	Category      string
	Author        string
	Abstract      string
	Source        string
	Type          string
	PublishedAt   int64
}

func (a *Article) UnmarshalJSON(data []byte) error {
	f := readObject("article", data)
	f.required("id", &a.ID)
	f.required("title", &a.Title)
	f.required("url", &a.URL)
	f.optional("image", &a.Image)
	f.optional("thumbnail", &a.Thumbnail)
	f.optional("image_original", &a.ImageOriginal)
	f.optional("source_image", &a.SourceImage)
	f.optional("root_category", &a.RootCategory)
	f.optional("category_id", &a.CategoryID)
	f.optional("category", &a.Category)
	f.optional("author", &a.Author)
	f.optional("abstract", &a.Abstract)
	f.optional("source", &a.Source)
	f.optional("type", &a.Type)
	f.optional("published_at", &a.PublishedAt)
	return f.err
}

// Analytics is the search tracking block attached to each collection.
type Analytics struct {
	SearchExternalID string
}

func (a *Analytics) UnmarshalJSON(data []byte) error {
	f := readObject("analytics", data)
	f.optional("search_external_id", &a.SearchExternalID)
	return f.err
}
