package model

// Item holds the attributes shared by tracks and albums.
type Item struct {
	ID                  int
	Duration            int
	ParentalWarning     bool
	MaximumChannelCount int
	MaximumSamplingRate float64
	MaximumBitDepth     int
	Purchasable         bool
	PurchasableAt       int64
	Streamable          bool
	StreamableAt        int64
	Downloadable        bool
	Displayable         bool
	Sampleable          bool
	Previewable         bool
	Hires               bool
	HiresStreamable     bool
	Version             string

	ReleaseDateOriginal string
	ReleaseDateDownload string
	ReleaseDateStream   string
}

// readItem decodes the Item members that every entity treats as optional.
// Callers add their own required fields.
func readItem(f *fields, it *Item) {
	f.optional("parental_warning", &it.ParentalWarning)
	f.optional("maximum_channel_count", &it.MaximumChannelCount)
	f.optional("maximum_bit_depth", &it.MaximumBitDepth)
	f.optional("purchasable", &it.Purchasable)
	f.optional("purchasable_at", &it.PurchasableAt)
	f.optional("streamable", &it.Streamable)
	f.optional("streamable_at", &it.StreamableAt)
	f.optional("downloadable", &it.Downloadable)
	f.optional("displayable", &it.Displayable)
	f.optional("sampleable", &it.Sampleable)
	f.optional("previewable", &it.Previewable)
	f.optional("hires", &it.Hires)
	f.optional("hires_streamable", &it.HiresStreamable)
	f.optional("version", &it.Version)
	f.optional("release_date_original", &it.ReleaseDateOriginal)
	f.optional("release_date_download", &it.ReleaseDateDownload)
	f.optional("release_date_stream", &it.ReleaseDateStream)
}

// Album represents a catalog release.
//
// Artist is always present. Artists lists every contributing artist when
// the API provides it.
type Album struct {
	Item

	Title       string
	Artist      Artist
	Artists     []Artist
	Image       *Image
	Label       *Label
	Genre       *Genre
	UPC         string
	ReleasedAt  int64
	QobuzID     int
	Popularity  int
	TracksCount int
	MediaCount  int
	URL         string
	Articles    []Article
}

func (a *Album) UnmarshalJSON(data []byte) error {
	f := readObject("album", data)
	f.required("id", &a.ID)
	f.required("title", &a.Title)
	f.required("artist", &a.Artist)
	readItem(f, &a.Item)
	f.optional("duration", &a.Duration)
	f.optional("maximum_sampling_rate", &a.MaximumSamplingRate)
	f.optional("artists", &a.Artists)
	f.optional("image", &a.Image)
	f.optional("label", &a.Label)
	f.optional("genre", &a.Genre)
	f.optional("upc", &a.UPC)
	f.optional("released_at", &a.ReleasedAt)
	f.optional("qobuz_id", &a.QobuzID)
	f.optional("popularity", &a.Popularity)
	f.optional("tracks_count", &a.TracksCount)
	f.optional("media_count", &a.MediaCount)
	f.optional("url", &a.URL)
	f.optional("articles", &a.Articles)
	return f.err
}

// CoverURL returns the large cover image URL, or "" when the album has none.
func (a *Album) CoverURL() string {
	if a.Image == nil {
		return ""
	}
	return a.Image.Large
}
