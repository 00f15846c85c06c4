package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/ZephyrCodesStuff/slavart/internal/cache"
	"github.com/ZephyrCodesStuff/slavart/internal/slavart"
)

const (
	appName        = "slavart"
	configFileName = "config.toml"
	localFileName  = "slavart.toml"
)

// Playlist formats accepted by Settings.Playlist. An empty value disables
// the batch playlist.
const (
	PlaylistNone = ""
	PlaylistM3U  = "m3u"
	PlaylistPLS  = "pls"
)

// Settings holds all configuration options.
type Settings struct {
	// API endpoints
	SearchEndpoint   string `koanf:"search_endpoint"`
	DownloadEndpoint string `koanf:"download_endpoint"`

	// Local files
	CachePath  string `koanf:"cache_path"`
	OutputPath string `koanf:"output_path"`

	// Transport
	Timeout   float64 `koanf:"timeout"` // seconds, fractions allowed
	UserAgent string  `koanf:"user_agent"`

	// Tag settings
	ModifyTags      bool `koanf:"modify_tags"`
	EmbedCoverArt   bool `koanf:"embed_cover_art"`
	CoverArtMaxSize int  `koanf:"cover_art_max_size"`

	// Playlist settings
	Playlist    string `koanf:"playlist"` // "", m3u, pls
	M3UExtended bool   `koanf:"m3u_extended"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		SearchEndpoint:   slavart.DefaultSearchEndpoint,
		DownloadEndpoint: slavart.DefaultDownloadEndpoint,

		CachePath:  cache.DefaultPath,
		OutputPath: ".",

		Timeout:   90,
		UserAgent: "slavart",

		ModifyTags:      true,
		EmbedCoverArt:   true,
		CoverArtMaxSize: 1000,

		Playlist:    PlaylistNone,
		M3UExtended: true,
	}
}

// Load reads settings from the default locations, then from explicitPath
// when it is not empty.
//
// Files are applied in order, later ones overriding earlier keys:
//  1. $XDG_CONFIG_HOME/slavart/config.toml
//  2. ./slavart.toml
//  3. explicitPath
//
// Missing default files are skipped. A missing explicitPath is an error.
func Load(explicitPath string) (*Settings, error) {
	paths := defaultPaths()
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
		paths = append(paths, explicitPath)
	}
	return loadFiles(paths)
}

// DefaultPath is the per-user config file location.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, appName, configFileName)
}

func defaultPaths() []string {
	return []string{DefaultPath(), localFileName}
}

func loadFiles(paths []string) (*Settings, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}

	settings := DefaultSettings()
	if err := k.Unmarshal("", settings); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}

	settings.normalize()
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return settings, nil
}

func (s *Settings) normalize() {
	s.SearchEndpoint = strings.TrimSuffix(s.SearchEndpoint, "/")
	s.DownloadEndpoint = strings.TrimSuffix(s.DownloadEndpoint, "/")
	s.Playlist = strings.ToLower(strings.TrimSpace(s.Playlist))
	s.CachePath = expandPath(s.CachePath)
	s.OutputPath = expandPath(s.OutputPath)
}

// Validate reports settings that cannot be used.
func (s *Settings) Validate() error {
	if s.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %g", s.Timeout)
	}
	if s.CoverArtMaxSize < 0 {
		return fmt.Errorf("cover_art_max_size must not be negative, got %d", s.CoverArtMaxSize)
	}
	if err := ValidatePlaylist(s.Playlist); err != nil {
		return err
	}
	return nil
}

// ValidatePlaylist checks a playlist format name.
func ValidatePlaylist(format string) error {
	switch format {
	case PlaylistNone, PlaylistM3U, PlaylistPLS:
		return nil
	}
	return fmt.Errorf("unknown playlist format %q (want m3u or pls)", format)
}

// TimeoutDuration returns Timeout as a time.Duration.
func (s *Settings) TimeoutDuration() time.Duration {
	return time.Duration(s.Timeout * float64(time.Second))
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

var (
	// ErrNoTarget is returned when a run has neither a query nor ids.
	ErrNoTarget = errors.New("either a query or at least one track id is required")

	// ErrConflictingTargets is returned when a run has both a query and ids.
	ErrConflictingTargets = errors.New("a query and track ids cannot be combined")
)

// Options are the per-run inputs of a command.
type Options struct {
	Query   string
	IDs     []int
	Output  string
	Timeout time.Duration
}

// Validate enforces that exactly one of Query and IDs is set.
func (o Options) Validate() error {
	hasQuery := strings.TrimSpace(o.Query) != ""
	hasIDs := len(o.IDs) > 0

	switch {
	case hasQuery && hasIDs:
		return ErrConflictingTargets
	case !hasQuery && !hasIDs:
		return ErrNoTarget
	}

	if o.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", o.Timeout)
	}
	return nil
}

// IsSearch reports whether the run is a search.
func (o Options) IsSearch() bool {
	return strings.TrimSpace(o.Query) != ""
}
