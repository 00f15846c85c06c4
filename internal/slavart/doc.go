// Package slavart talks to the catalog API: full-text search and track
// downloads.
//
// The API has two hosts. The search host answers
//
//	GET {search}/search?q={query}
//
// with a JSON result document holding albums, tracks, artists and
// articles. The download host answers
//
//	GET {download}/download/track?id={id}
//
// with the FLAC bytes of the track. Neither requires authentication.
//
// # Basic Usage
//
//	api := slavart.New(client, cfg.SearchEndpoint, cfg.DownloadEndpoint)
//
//	results, err := api.Search(ctx, "daft punk")
//	data, err := api.DownloadTrack(ctx, 1001)
//
// Transport failures come back as *http.APIError or *http.TimeoutError and
// bad documents as *model.DecodeError, wrapped with the operation.
package slavart
