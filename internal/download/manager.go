package download

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/dustin/go-humanize"

	"github.com/ZephyrCodesStuff/slavart/internal/audio"
	"github.com/ZephyrCodesStuff/slavart/internal/cache"
	"github.com/ZephyrCodesStuff/slavart/internal/config"
	"github.com/ZephyrCodesStuff/slavart/internal/http"
	ioutils "github.com/ZephyrCodesStuff/slavart/internal/io"
	"github.com/ZephyrCodesStuff/slavart/internal/model"
	"github.com/ZephyrCodesStuff/slavart/internal/slavart"
)

// PlaylistBaseName is the file name, without extension, of the batch playlist.
const PlaylistBaseName = "downloads"

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

func (l ProgressLevel) String() string {
	switch l {
	case LevelVerbose:
		return "DEBUG"
	case LevelWarning:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelSuccess:
		return "OK"
	default:
		return "INFO"
	}
}

// ProgressEvent represents a progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// TrackFailure is one id of a batch that could not be downloaded.
type TrackFailure struct {
	ID  int
	Err error
}

// BatchError lists the ids of a batch that failed. The other ids were saved.
type BatchError struct {
	Total    int
	Failures []TrackFailure
}

func (e *BatchError) Error() string {
	ids := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		ids[i] = strconv.Itoa(f.ID)
	}
	return fmt.Sprintf("%d of %d downloads failed (ids %s)", len(e.Failures), e.Total, strings.Join(ids, ", "))
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (e *BatchError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f.Err
	}
	return errs
}

// FailedIDs returns the failed ids in batch order.
func (e *BatchError) FailedIDs() []int {
	ids := make([]int, len(e.Failures))
	for i, f := range e.Failures {
		ids[i] = f.ID
	}
	return ids
}

// Manager coordinates searches and track downloads.
type Manager struct {
	settings     *config.Settings
	client       *http.Client
	api          *slavart.API
	store        *cache.Store
	tagger       *audio.Tagger
	playlist     *audio.PlaylistCreator
	imageService *ioutils.ImageService

	covers map[string][]byte

	receivedBytes   int64
	totalFiles      int32
	downloadedFiles int32

	onProgress func(ProgressEvent)
	mu         sync.Mutex
}

// NewManager creates a new Manager.
func NewManager(settings *config.Settings, onProgress func(ProgressEvent)) *Manager {
	client := http.NewClient(settings.TimeoutDuration(), settings.UserAgent)

	tagCfg := audio.DefaultTagConfig()
	tagCfg.ModifyTags = settings.ModifyTags

	var playlist *audio.PlaylistCreator
	if format, err := audio.ParsePlaylistFormat(settings.Playlist); err == nil {
		playlist = audio.NewPlaylistCreator(format, settings.M3UExtended)
	}

	return &Manager{
		settings:     settings,
		client:       client,
		api:          slavart.New(client, settings.SearchEndpoint, settings.DownloadEndpoint),
		store:        cache.NewStore(settings.CachePath),
		tagger:       audio.NewTagger(tagCfg),
		playlist:     playlist,
		imageService: ioutils.NewImageService(),
		covers:       make(map[string][]byte),
		onProgress:   onProgress,
	}
}

// Run performs the operation opts describes: a search when it carries a
// query, otherwise a download of its ids under opts.Output. Requests made
// by the run use opts.Timeout.
func (m *Manager) Run(ctx context.Context, opts config.Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	if opts.Timeout != m.client.Timeout() {
		m.client = http.NewClient(opts.Timeout, m.settings.UserAgent)
		m.api = slavart.New(m.client, m.settings.SearchEndpoint, m.settings.DownloadEndpoint)
	}

	if opts.IsSearch() {
		_, err := m.Search(ctx, opts.Query)
		return err
	}
	return m.Download(ctx, opts.IDs, opts.Output)
}

// Search queries the catalog, reports every track found and stores the
// tracks not cached yet.
//
// The API or decode error is returned as is. A failure to update the
// cache is returned too, after the results were reported.
func (m *Manager) Search(ctx context.Context, query string) (*model.Results, error) {
	m.progress(ProgressEvent{Message: fmt.Sprintf("Searching for '%s'", query), Level: LevelVerbose})

	results, err := m.api.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	tracks := results.Tracks.Items
	m.progress(ProgressEvent{Message: fmt.Sprintf("Found %d tracks for query '%s'", results.Tracks.Total, query), Level: LevelInfo})
	for _, track := range tracks {
		m.progress(ProgressEvent{Message: track.String(), Level: LevelInfo})
	}

	added, err := m.store.AppendNew(results.Records())
	if err != nil {
		return results, fmt.Errorf("update track cache: %w", err)
	}
	m.progress(ProgressEvent{Message: fmt.Sprintf("Cached %d new tracks in %s", added, m.store.Path()), Level: LevelVerbose})

	return results, nil
}

// DownloadTrack fetches one track and writes it under root. It returns
// the path of the written file.
//
// The cached record of the track, if any, names the file and provides
// its tags. Unknown tracks are saved as Uncategorized/<id>.flac.
func (m *Manager) DownloadTrack(ctx context.Context, id int, root string) (string, error) {
	m.progress(ProgressEvent{Message: fmt.Sprintf("Downloading track %d", id), Level: LevelVerbose})

	data, err := m.api.DownloadTrack(ctx, id)
	if err != nil {
		return "", err
	}
	atomic.AddInt64(&m.receivedBytes, int64(len(data)))

	rec, err := m.store.FindByID(id)
	if err != nil {
		return "", fmt.Errorf("read track cache: %w", err)
	}
	if rec == nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Track %d is not in the cache, saving it as uncategorized", id), Level: LevelWarning})
	}

	dst, err := model.ResolvePath(root, id, rec)
	if err != nil {
		return "", err
	}

	if err := ioutils.EnsureDir(dst.Dir); err != nil {
		return "", err
	}

	data = m.tag(ctx, id, data, rec)

	if err := ioutils.WriteFile(ctx, dst.Path(), data); err != nil {
		return "", err
	}

	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Downloaded: %s (%s)", dst.Path(), humanize.IBytes(uint64(len(data)))),
		Level:   LevelSuccess,
	})
	return dst.Path(), nil
}

// Download saves every id under root, one after another.
//
// A failing id is reported and skipped. When any id failed the returned
// error is a *BatchError. Cancelling ctx stops the batch before the next
// id and returns the context error.
func (m *Manager) Download(ctx context.Context, ids []int, root string) error {
	atomic.StoreInt32(&m.totalFiles, int32(len(ids)))
	atomic.StoreInt32(&m.downloadedFiles, 0)
	atomic.StoreInt64(&m.receivedBytes, 0)

	var failures []TrackFailure
	var saved []audio.Entry

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			m.progress(ProgressEvent{Message: "Download cancelled", Level: LevelWarning})
			return err
		}

		path, err := m.DownloadTrack(ctx, id, root)
		if err != nil {
			if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
				m.progress(ProgressEvent{Message: "Download cancelled", Level: LevelWarning})
				return ctx.Err()
			}
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error downloading track %d: %v", id, err), Level: LevelError})
			failures = append(failures, TrackFailure{ID: id, Err: err})
			continue
		}

		atomic.AddInt32(&m.downloadedFiles, 1)
		saved = append(saved, m.entry(id, path))
	}

	if m.playlist != nil && len(saved) > 0 {
		m.writePlaylist(ctx, root, saved)
	}

	received := humanize.IBytes(uint64(atomic.LoadInt64(&m.receivedBytes)))
	if len(failures) > 0 {
		m.progress(ProgressEvent{
			Message: fmt.Sprintf("Finished, %d of %d tracks failed (%s received)", len(failures), len(ids), received),
			Level:   LevelWarning,
		})
		return &BatchError{Total: len(ids), Failures: failures}
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Successfully downloaded %d tracks (%s)", len(saved), received), Level: LevelSuccess})
	return nil
}

// GetProgress returns current download progress.
func (m *Manager) GetProgress() (received int64, filesReceived, filesTotal int32) {
	return atomic.LoadInt64(&m.receivedBytes),
		atomic.LoadInt32(&m.downloadedFiles), atomic.LoadInt32(&m.totalFiles)
}

// Store returns the track cache the manager reads and writes.
func (m *Manager) Store() *cache.Store {
	return m.store
}

// tag embeds comments and cover art. Tagging problems are reported and
// the original data is kept.
func (m *Manager) tag(ctx context.Context, id int, data []byte, rec *model.CacheRecord) []byte {
	if !m.settings.ModifyTags && !m.settings.EmbedCoverArt {
		return data
	}
	if !audio.IsFLAC(data) {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Track %d is not FLAC, saving without tags", id), Level: LevelWarning})
		return data
	}

	var cover []byte
	if m.settings.EmbedCoverArt && rec != nil && rec.Cover != "" {
		var err error
		cover, err = m.cover(ctx, rec.Cover)
		if err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error downloading artwork for track %d: %v", id, err), Level: LevelWarning})
		}
	}

	if rec == nil && cover == nil {
		return data
	}

	tagged, err := m.tagger.Tag(data, rec, cover)
	if err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error tagging track %d: %v", id, err), Level: LevelWarning})
		return data
	}
	return tagged
}

// cover fetches and resizes album art, once per URL.
func (m *Manager) cover(ctx context.Context, url string) ([]byte, error) {
	m.mu.Lock()
	cached, ok := m.covers[url]
	m.mu.Unlock()
	if ok {
		return cached, nil
	}

	raw, err := m.api.FetchCover(ctx, url)
	if err != nil {
		return nil, err
	}

	cover, err := m.imageService.FitCover(ctx, raw, m.settings.CoverArtMaxSize)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.covers[url] = cover
	m.mu.Unlock()

	m.progress(ProgressEvent{Message: fmt.Sprintf("Downloaded artwork (%s)", humanize.IBytes(uint64(len(cover)))), Level: LevelVerbose})
	return cover, nil
}

func (m *Manager) entry(id int, path string) audio.Entry {
	entry := audio.Entry{Path: path}
	if rec, err := m.store.FindByID(id); err == nil && rec != nil {
		entry.Artist = rec.Artist
		entry.Title = rec.Title
	}
	return entry
}

func (m *Manager) writePlaylist(ctx context.Context, root string, entries []audio.Entry) {
	if root == "" {
		root = "."
	}
	path := filepath.Join(root, PlaylistBaseName+m.playlist.Format().Extension())
	content := m.playlist.CreatePlaylist(root, entries)

	if err := ioutils.WriteFile(ctx, path, []byte(content)); err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error creating playlist: %v", err), Level: LevelWarning})
		return
	}
	m.progress(ProgressEvent{Message: fmt.Sprintf("Created playlist %s", path), Level: LevelSuccess})
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
