package download

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZephyrCodesStuff/slavart/internal/config"
	slhttp "github.com/ZephyrCodesStuff/slavart/internal/http"
	"github.com/ZephyrCodesStuff/slavart/internal/model"
)

type eventLog struct {
	mu     sync.Mutex
	events []ProgressEvent
}

func (l *eventLog) add(e ProgressEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *eventLog) contains(level ProgressLevel, substr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.events {
		if e.Level == level && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func testFLAC() []byte {
	file := &flac.File{
		Meta:   []*flac.MetaDataBlock{{Type: flac.StreamInfo, Data: make([]byte, 34)}},
		Frames: []byte{0xff, 0xf8, 0x00},
	}
	return file.Marshal()
}

func testJPEG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 64, 32)), nil))
	return buf.Bytes()
}

type fixture struct {
	settings *config.Settings
	log      *eventLog
	manager  *Manager
	server   *httptest.Server
	out      string
}

func newFixture(t *testing.T, configure func(*config.Settings)) *fixture {
	t.Helper()

	results, err := os.ReadFile("../model/testdata/results.json")
	require.NoError(t, err)
	cover := testJPEG(t)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/search", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") == "broken" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Write(results)
	})
	mux.HandleFunc("/api/download/track", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("id") {
		case "1001", "1002", "4242":
			w.Write(testFLAC())
		case "777":
			w.Write([]byte("RIFF not a flac"))
		case "555":
			time.Sleep(300 * time.Millisecond)
			w.Write(testFLAC())
		default:
			http.NotFound(w, r)
		}
	})
	mux.HandleFunc("/cover.jpg", func(w http.ResponseWriter, r *http.Request) {
		w.Write(cover)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	settings := config.DefaultSettings()
	settings.SearchEndpoint = srv.URL + "/api"
	settings.DownloadEndpoint = srv.URL + "/api"
	settings.CachePath = filepath.Join(dir, "tracks.json")
	settings.Timeout = 5
	settings.EmbedCoverArt = false
	if configure != nil {
		configure(settings)
	}

	log := &eventLog{}
	return &fixture{
		settings: settings,
		log:      log,
		manager:  NewManager(settings, log.add),
		server:   srv,
		out:      filepath.Join(dir, "out"),
	}
}

func TestManager_Search(t *testing.T) {
	f := newFixture(t, nil)

	results, err := f.manager.Search(context.Background(), "daft punk")
	require.NoError(t, err)
	assert.Len(t, results.Tracks.Items, 2)

	assert.True(t, f.log.contains(LevelInfo, "Found 57 tracks for query 'daft punk'"))
	assert.True(t, f.log.contains(LevelInfo, "ID: 1001"))

	records, err := f.manager.Store().Load()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 1001, records[0].ID)
	assert.Equal(t, "01", records[0].TrackNumber)

	before, err := os.ReadFile(f.settings.CachePath)
	require.NoError(t, err)

	_, err = f.manager.Search(context.Background(), "daft punk")
	require.NoError(t, err)

	after, err := os.ReadFile(f.settings.CachePath)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after), "repeating a search must not change the cache")
}

func TestManager_SearchAPIError(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.manager.Search(context.Background(), "broken")

	var apiErr *slhttp.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)

	_, statErr := os.Stat(f.settings.CachePath)
	assert.True(t, errors.Is(statErr, os.ErrNotExist), "a failed search must not create the cache")
}

func TestManager_DownloadTrackCached(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.manager.Search(context.Background(), "daft punk")
	require.NoError(t, err)

	path, err := f.manager.DownloadTrack(context.Background(), 1001, f.out)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(f.out, "Daft Punk", "Discovery", "01 - One More Time.flac"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	file, err := flac.ParseBytes(bytes.NewReader(data))
	require.NoError(t, err)

	var title []string
	for _, meta := range file.Meta {
		if meta.Type == flac.VorbisComment {
			cmts, err := flacvorbis.ParseFromMetaDataBlock(*meta)
			require.NoError(t, err)
			title, err = cmts.Get("TITLE")
			require.NoError(t, err)
		}
	}
	assert.Equal(t, []string{"One More Time"}, title)
}

func TestManager_DownloadTrackUncached(t *testing.T) {
	f := newFixture(t, nil)

	path, err := f.manager.DownloadTrack(context.Background(), 4242, f.out)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(f.out, model.UncategorizedFolder, "4242.flac"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, testFLAC(), data, "untagged tracks are written as received")
	assert.True(t, f.log.contains(LevelWarning, "not in the cache"))
}

func TestManager_DownloadTrackNoTags(t *testing.T) {
	f := newFixture(t, func(s *config.Settings) { s.ModifyTags = false })
	_, err := f.manager.Search(context.Background(), "daft punk")
	require.NoError(t, err)

	path, err := f.manager.DownloadTrack(context.Background(), 1001, f.out)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, testFLAC(), data)
}

func TestManager_DownloadTrackNotFLAC(t *testing.T) {
	f := newFixture(t, nil)

	path, err := f.manager.DownloadTrack(context.Background(), 777, f.out)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "RIFF not a flac", string(data))
	assert.True(t, f.log.contains(LevelWarning, "not FLAC"))
}

func TestManager_DownloadTrackCover(t *testing.T) {
	f := newFixture(t, func(s *config.Settings) {
		s.EmbedCoverArt = true
		s.CoverArtMaxSize = 16
	})

	album := "Discovery"
	_, err := f.manager.Store().AppendNew([]model.CacheRecord{{
		ID: 1001, Artist: "Daft Punk", Album: &album, Title: "One More Time",
		TrackNumber: "01", SampleRate: 44.1, Cover: f.server.URL + "/cover.jpg",
	}})
	require.NoError(t, err)

	path, err := f.manager.DownloadTrack(context.Background(), 1001, f.out)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	file, err := flac.ParseBytes(bytes.NewReader(data))
	require.NoError(t, err)

	pictures := 0
	for _, meta := range file.Meta {
		if meta.Type == flac.Picture {
			pictures++
		}
	}
	assert.Equal(t, 1, pictures)
}

func TestManager_DownloadBatchContinues(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.manager.Search(context.Background(), "daft punk")
	require.NoError(t, err)

	err = f.manager.Download(context.Background(), []int{1001, 404, 1002}, f.out)

	var batchErr *BatchError
	require.ErrorAs(t, err, &batchErr)
	assert.Equal(t, []int{404}, batchErr.FailedIDs())
	assert.Equal(t, 3, batchErr.Total)

	var apiErr *slhttp.APIError
	assert.ErrorAs(t, err, &apiErr, "individual failures stay inspectable")

	assert.FileExists(t, filepath.Join(f.out, "Daft Punk", "Discovery", "01 - One More Time.flac"))
	assert.FileExists(t, filepath.Join(f.out, "Daft Punk", model.UnknownAlbumFolder, "11 - Veridis Quo.flac"))
	assert.True(t, f.log.contains(LevelError, "Error downloading track 404"))

	_, done, total := f.manager.GetProgress()
	assert.Equal(t, int32(2), done)
	assert.Equal(t, int32(3), total)
}

func TestManager_DownloadPlaylist(t *testing.T) {
	f := newFixture(t, func(s *config.Settings) {
		s.Playlist = config.PlaylistM3U
		s.M3UExtended = true
	})
	_, err := f.manager.Search(context.Background(), "daft punk")
	require.NoError(t, err)

	require.NoError(t, f.manager.Download(context.Background(), []int{1001, 4242}, f.out))

	content, err := os.ReadFile(filepath.Join(f.out, PlaylistBaseName+".m3u"))
	require.NoError(t, err)

	want := "#EXTM3U\n" +
		"#EXTINF:-1,Daft Punk - One More Time\n" +
		"Daft Punk/Discovery/01 - One More Time.flac\n" +
		"#EXTINF:-1,4242.flac\n" +
		"Uncategorized/4242.flac\n"
	assert.Equal(t, want, string(content))
}

func TestManager_DownloadCancelled(t *testing.T) {
	f := newFixture(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := f.manager.Download(ctx, []int{1001, 1002}, f.out)
	assert.ErrorIs(t, err, context.Canceled)

	_, statErr := os.Stat(f.out)
	assert.True(t, errors.Is(statErr, os.ErrNotExist), "nothing should be written after cancellation")
}

func TestManager_RunSearch(t *testing.T) {
	f := newFixture(t, nil)

	err := f.manager.Run(context.Background(), config.Options{Query: "daft punk", Timeout: 5 * time.Second})
	require.NoError(t, err)

	assert.True(t, f.log.contains(LevelInfo, "Found 57 tracks for query 'daft punk'"))
	assert.FileExists(t, f.settings.CachePath)
}

func TestManager_RunDownload(t *testing.T) {
	f := newFixture(t, nil)

	err := f.manager.Run(context.Background(), config.Options{IDs: []int{4242}, Output: f.out, Timeout: 5 * time.Second})
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(f.out, model.UncategorizedFolder, "4242.flac"))
}

func TestManager_RunInvalidOptions(t *testing.T) {
	f := newFixture(t, nil)

	err := f.manager.Run(context.Background(), config.Options{Query: "x", IDs: []int{1}, Timeout: time.Second})

	assert.ErrorIs(t, err, config.ErrConflictingTargets)
}

func TestManager_RunTimeout(t *testing.T) {
	f := newFixture(t, nil)

	err := f.manager.Run(context.Background(), config.Options{IDs: []int{555}, Output: f.out, Timeout: 50 * time.Millisecond})

	var timeoutErr *slhttp.TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, 50*time.Millisecond, timeoutErr.Timeout)
	assert.Equal(t, 50*time.Millisecond, f.manager.client.Timeout())
}

func TestBatchError(t *testing.T) {
	err := &BatchError{
		Total: 3,
		Failures: []TrackFailure{
			{ID: 5, Err: errors.New("a")},
			{ID: 9, Err: context.DeadlineExceeded},
		},
	}

	assert.Equal(t, "2 of 3 downloads failed (ids 5, 9)", err.Error())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
