package audio

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestPlaylistCreator_M3U(t *testing.T) {
	creator := NewPlaylistCreator(FormatM3U, false)

	content := creator.CreatePlaylist("/music", createTestEntries())

	want := "Test Artist/Test Album/01 - track1.flac\nUncategorized/42.flac\n"
	if content != want {
		t.Errorf("M3U =\n%s\nwant\n%s", content, want)
	}
}

func TestPlaylistCreator_M3UExtended(t *testing.T) {
	creator := NewPlaylistCreator(FormatM3U, true)

	content := creator.CreatePlaylist("/music", createTestEntries())

	if !strings.HasPrefix(content, "#EXTM3U\n") {
		t.Error("Extended M3U should start with #EXTM3U")
	}
	if !strings.Contains(content, "#EXTINF:-1,Test Artist - track1\n") {
		t.Errorf("Extended M3U should contain #EXTINF with artist and title:\n%s", content)
	}
	if !strings.Contains(content, "#EXTINF:-1,42.flac\n") {
		t.Errorf("an entry without metadata should fall back to its file name:\n%s", content)
	}
}

func TestPlaylistCreator_PLS(t *testing.T) {
	creator := NewPlaylistCreator(FormatPLS, false)

	content := creator.CreatePlaylist("/music", createTestEntries())

	if !strings.HasPrefix(content, "[playlist]") {
		t.Error("PLS should start with [playlist]")
	}
	if !strings.Contains(content, "File1=Test Artist/Test Album/01 - track1.flac\n") {
		t.Errorf("PLS should contain File1=:\n%s", content)
	}
	if !strings.Contains(content, "Title2=42.flac\n") {
		t.Errorf("PLS should contain Title2=:\n%s", content)
	}
	if !strings.Contains(content, "NumberOfEntries=2\n") {
		t.Error("PLS should contain NumberOfEntries")
	}
}

func TestPlaylistCreator_Empty(t *testing.T) {
	if got := NewPlaylistCreator(FormatM3U, true).CreatePlaylist("/music", nil); got != "#EXTM3U\n" {
		t.Errorf("empty M3U = %q", got)
	}
	if got := NewPlaylistCreator(FormatPLS, false).CreatePlaylist("/music", nil); !strings.Contains(got, "NumberOfEntries=0") {
		t.Errorf("empty PLS = %q", got)
	}
}

func TestParsePlaylistFormat(t *testing.T) {
	tests := []struct {
		name    string
		want    PlaylistFormat
		ext     string
		wantErr bool
	}{
		{name: "m3u", want: FormatM3U, ext: ".m3u"},
		{name: "PLS", want: FormatPLS, ext: ".pls"},
		{name: "wpl", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePlaylistFormat(tt.name)
			if tt.wantErr {
				if err == nil {
					t.Error("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want || got.Extension() != tt.ext {
				t.Errorf("ParsePlaylistFormat(%q) = %v (%s), want %v (%s)", tt.name, got, got.Extension(), tt.want, tt.ext)
			}
		})
	}
}

func createTestEntries() []Entry {
	return []Entry{
		{
			Path:   filepath.Join("/music", "Test Artist", "Test Album", "01 - track1.flac"),
			Artist: "Test Artist",
			Title:  "track1",
		},
		{
			Path: filepath.Join("/music", "Uncategorized", "42.flac"),
		},
	}
}
