// Package download provides the orchestration behind the slavart
// commands: searching the catalog and saving tracks.
//
// # Manager
//
// The Manager coordinates both operations:
//
//  1. Search the catalog and report every track found
//  2. Append the new tracks to the local track cache
//  3. Download tracks by id, one at a time
//  4. Name each file from its cached record
//  5. Tag FLAC data with Vorbis comments and cover art (optional)
//  6. Write a playlist of the batch (optional)
//
// # Basic Usage
//
//	manager := download.NewManager(settings, func(event download.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	_, err := manager.Search(ctx, "daft punk")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	err = manager.Download(ctx, []int{1001, 1002}, "/music")
//	var batch *download.BatchError
//	if errors.As(err, &batch) {
//	    fmt.Println("failed:", batch.FailedIDs())
//	}
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives ProgressEvent:
//
//	type ProgressEvent struct {
//	    Message string
//	    Level   ProgressLevel // Info, Verbose, Warning, Error, Success
//	}
//
// GetProgress can be polled from another goroutine while a batch runs.
//
// # Failures
//
// There are no retries. A failing id is reported at LevelError and the
// batch moves on to the next one.
package download
