package model

import "encoding/json"

// Collection is one paginated block of search results.
//
// Limit, Offset and Total are kept exactly as the API sent them; Items is
// the page itself, in API order.
type Collection[T any] struct {
	Limit     int
	Offset    int
	Total     int
	Analytics *Analytics
	Items     []T
}

func (c *Collection[T]) UnmarshalJSON(data []byte) error {
	f := readObject("collection", data)
	f.required("limit", &c.Limit)
	f.required("offset", &c.Offset)
	f.required("total", &c.Total)
	f.required("items", &c.Items)
	f.optional("analytics", &c.Analytics)
	return f.err
}

// Results is the response of a catalog search.
//
// Playlists, Focus, Stories and MostPopular are not used by the client and
// their items are left undecoded.
type Results struct {
	Query    string
	Albums   Collection[Album]
	Tracks   Collection[Track]
	Artists  Collection[Artist]
	Articles Collection[Article]

	Playlists   *Collection[json.RawMessage]
	Focus       *Collection[json.RawMessage]
	Stories     *Collection[json.RawMessage]
	MostPopular *Collection[json.RawMessage]
}

func (r *Results) UnmarshalJSON(data []byte) error {
	f := readObject("results", data)
	f.required("query", &r.Query)
	f.required("albums", &r.Albums)
	f.required("tracks", &r.Tracks)
	f.required("artists", &r.Artists)
	f.required("articles", &r.Articles)
	f.optional("playlists", &r.Playlists)
	f.optional("focus", &r.Focus)
	f.optional("stories", &r.Stories)
	f.optional("most_popular", &r.MostPopular)
	return f.err
}

// DecodeResults decodes a search response body.
func DecodeResults(data []byte) (*Results, error) {
	var r Results
	if err := decodeRoot("results", data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Records returns the cache projection of every track in r, in result order.
func (r *Results) Records() []CacheRecord {
	records := make([]CacheRecord, 0, len(r.Tracks.Items))
	for i := range r.Tracks.Items {
		records = append(records, r.Tracks.Items[i].Record())
	}
	return records
}
