package slavart

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/ZephyrCodesStuff/slavart/internal/http"
	"github.com/ZephyrCodesStuff/slavart/internal/model"
)

// Default endpoints of the public deployment.
const (
	DefaultSearchEndpoint   = "https://slavart.gamesdrive.net/api"
	DefaultDownloadEndpoint = "https://slavart-api.gamesdrive.net/api"
)

// ErrEmptyQuery is returned by Search when the query is blank.
var ErrEmptyQuery = errors.New("empty search query")

// API is a client for the catalog search and download endpoints.
//
// Search requests go to {search endpoint}/search?q={query} and decode into
// model.Results. Track downloads go to
// {download endpoint}/download/track?id={id} and return the raw FLAC bytes.
//
// Example usage:
//
//	api := slavart.New(http.NewClient(90*time.Second, ""), "", "")
//
//	results, err := api.Search(ctx, "daft punk")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, track := range results.Tracks.Items {
//	    fmt.Println(track.String())
//	}
//
//	flac, err := api.DownloadTrack(ctx, results.Tracks.Items[0].ID)
type API struct {
	client           *http.Client
	searchEndpoint   string
	downloadEndpoint string
}

// New creates an API client. Empty endpoints fall back to the defaults.
// A trailing slash on an endpoint is ignored.
func New(client *http.Client, searchEndpoint, downloadEndpoint string) *API {
	if searchEndpoint == "" {
		searchEndpoint = DefaultSearchEndpoint
	}
	if downloadEndpoint == "" {
		downloadEndpoint = DefaultDownloadEndpoint
	}
	return &API{
		client:           client,
		searchEndpoint:   strings.TrimRight(searchEndpoint, "/"),
		downloadEndpoint: strings.TrimRight(downloadEndpoint, "/"),
	}
}

// SearchURL returns the URL queried for the given text.
func (a *API) SearchURL(query string) string {
	return a.searchEndpoint + "/search?" + url.Values{"q": {query}}.Encode()
}

// TrackURL returns the URL a track is downloaded from.
func (a *API) TrackURL(id int) string {
	return a.downloadEndpoint + "/download/track?" + url.Values{"id": {strconv.Itoa(id)}}.Encode()
}

// Search queries the catalog and decodes the answer.
//
// Returns:
//   - *http.APIError or *http.TimeoutError from the transport
//   - *model.DecodeError when the body is not a valid result document
func (a *API) Search(ctx context.Context, query string) (*model.Results, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	body, err := a.client.Get(ctx, a.SearchURL(query))
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	results, err := model.DecodeResults(body)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	return results, nil
}

// DownloadTrack fetches the audio of one track. The body is returned as is.
func (a *API) DownloadTrack(ctx context.Context, id int) ([]byte, error) {
	body, err := a.client.Get(ctx, a.TrackURL(id))
	if err != nil {
		return nil, fmt.Errorf("download track %d: %w", id, err)
	}
	return body, nil
}

// FetchCover downloads an album image.
func (a *API) FetchCover(ctx context.Context, coverURL string) ([]byte, error) {
	body, err := a.client.Get(ctx, coverURL)
	if err != nil {
		return nil, fmt.Errorf("fetch cover: %w", err)
	}
	return body, nil
}
