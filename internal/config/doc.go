// Package config provides configuration management for slavart.
//
// This package handles:
//   - Loading settings from TOML files
//   - Default configuration values
//   - Per-run Options and their validation
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Public API endpoints
//	// tracks.json in the working directory
//	// 90 second timeout, FLAC tagging and cover embedding enabled
//
// # Loading from Files
//
//	settings, err := config.Load("")
//
// Load reads $XDG_CONFIG_HOME/slavart/config.toml and then ./slavart.toml,
// each overriding the keys of the one before. Passing a path adds it last;
// unlike the default locations it must exist. An example file:
//
//	search_endpoint = "https://slavart.gamesdrive.net/api"
//	output_path = "~/Music/slavart"
//	timeout = 120
//	playlist = "m3u"
//
// # Options
//
// Options carry what a single run was asked to do. Exactly one of Query and
// IDs must be set:
//
//	opts := config.Options{IDs: []int{1001}, Output: ".", Timeout: 90 * time.Second}
//	if err := opts.Validate(); err != nil {
//	    // ErrNoTarget or ErrConflictingTargets
//	}
package config
