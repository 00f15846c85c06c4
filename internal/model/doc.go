// Package model defines the catalog entities, the cached track record and
// the rules that turn a record into a file path.
//
// # Decoding
//
// Every entity implements json.Unmarshaler and checks its required fields:
//
//	results, err := model.DecodeResults(body)
//	var de *model.DecodeError
//	if errors.As(err, &de) {
//	    fmt.Println(de.Field) // e.g. "tracks.items.performer"
//	}
//
// # Cache records
//
// Track.Record flattens a track into the CacheRecord persisted by the
// cache package:
//
//	rec := track.Record()
//	fmt.Println(rec.TrackNumber) // "03"
//
// # Paths
//
// ResolvePath places a download under the output root:
//
//	dst, err := model.ResolvePath("out", id, rec)
//	fmt.Println(dst.Path()) // out/Artist/Album/03 - Title.flac
//	                        // or out/Uncategorized/<id>.flac without a record
package model
