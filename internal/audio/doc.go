// Package audio provides audio file manipulation services including
// FLAC tag writing and playlist generation.
//
// # FLAC Tagging
//
// Use the Tagger to write Vorbis comments into downloaded FLAC data
// before it is saved:
//
//	tagger := audio.NewTagger(audio.DefaultTagConfig())
//	tagged, err := tagger.Tag(data, record, jpegCover)
//
// The tagger supports:
//   - Artist, Album, Title and Track Number comments
//   - Cover Art (front cover PICTURE block)
//
// Data that is not FLAC is rejected with ErrNotFLAC.
//
// # Playlist Generation
//
// Generate a playlist of the files saved by a download batch:
//
//	creator := audio.NewPlaylistCreator(audio.FormatM3U, true) // extended M3U
//	content := creator.CreatePlaylist(outputDir, entries)
//	os.WriteFile(filepath.Join(outputDir, "downloads.m3u"), []byte(content), 0644)
//
// Supported formats:
//   - M3U (with optional extended info)
//   - PLS
package audio
