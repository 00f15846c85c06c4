package cache

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ZephyrCodesStuff/slavart/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "tracks.json"))
}

func record(id int, title string) model.CacheRecord {
	album := "Album"
	return model.CacheRecord{
		ID:          id,
		Artist:      "Artist",
		Album:       &album,
		Title:       title,
		TrackNumber: "01",
		SampleRate:  44.1,
	}
}

func mustAppend(t *testing.T, store *Store, records ...model.CacheRecord) int {
	t.Helper()
	added, err := store.AppendNew(records)
	if err != nil {
		t.Fatalf("AppendNew: %v", err)
	}
	return added
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestStore_LoadEmpty(t *testing.T) {
	tests := []struct {
		name    string
		content *string
	}{
		{name: "missing file"},
		{name: "blank file", content: func() *string { s := "  \n"; return &s }()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t)
			if tt.content != nil {
				if err := os.WriteFile(store.Path(), []byte(*tt.content), 0644); err != nil {
					t.Fatal(err)
				}
			}

			records, err := store.Load()
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if len(records) != 0 {
				t.Errorf("Load = %v, want no records", records)
			}
		})
	}
}

func TestStore_LoadMalformed(t *testing.T) {
	store := newTestStore(t)
	if err := os.WriteFile(store.Path(), []byte(`{"id": 1`), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := store.Load(); !errors.Is(err, ErrMalformed) {
		t.Fatalf("Load err = %v, want ErrMalformed", err)
	}
	if _, err := store.AppendNew([]model.CacheRecord{record(1, "x")}); !errors.Is(err, ErrMalformed) {
		t.Fatalf("AppendNew err = %v, want ErrMalformed", err)
	}

	if got := readFile(t, store.Path()); got != `{"id": 1` {
		t.Errorf("malformed store was overwritten: %q", got)
	}
}

func TestStore_FindByIDEmpty(t *testing.T) {
	store := newTestStore(t)

	for _, id := range []int{0, 1, 123456} {
		rec, err := store.FindByID(id)
		if err != nil {
			t.Fatalf("FindByID(%d): %v", id, err)
		}
		if rec != nil {
			t.Errorf("FindByID(%d) = %+v, want nil", id, rec)
		}
	}
}

func TestStore_AppendNewAndFind(t *testing.T) {
	store := newTestStore(t)

	if added := mustAppend(t, store, record(1, "One"), record(2, "Two")); added != 2 {
		t.Errorf("added = %d, want 2", added)
	}

	rec, err := store.FindByID(2)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if rec == nil || rec.Title != "Two" {
		t.Errorf("FindByID(2) = %+v, want title Two", rec)
	}

	rec, err = store.FindByID(3)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if rec != nil {
		t.Errorf("FindByID(3) = %+v, want nil", rec)
	}
}

func TestStore_AppendNewIdempotent(t *testing.T) {
	store := newTestStore(t)
	batch := []model.CacheRecord{record(1, "One"), record(2, "Two")}

	mustAppend(t, store, batch...)
	first := readFile(t, store.Path())

	if added := mustAppend(t, store, batch...); added != 0 {
		t.Errorf("added = %d, want 0", added)
	}
	if second := readFile(t, store.Path()); second != first {
		t.Errorf("file changed:\n%s\nwant:\n%s", second, first)
	}
}

func TestStore_AppendNewKeepsExisting(t *testing.T) {
	store := newTestStore(t)
	mustAppend(t, store, record(1, "Original"))

	changed := record(1, "Changed")
	changed.Artist = "Someone Else"
	if added := mustAppend(t, store, changed, record(2, "Two")); added != 1 {
		t.Errorf("added = %d, want 1", added)
	}

	rec, err := store.FindByID(1)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if rec == nil || rec.Title != "Original" || rec.Artist != "Artist" {
		t.Errorf("FindByID(1) = %+v, want the original record", rec)
	}
}

func TestStore_AppendNewOrderAndBatchDuplicates(t *testing.T) {
	store := newTestStore(t)
	mustAppend(t, store, record(5, "Five"))

	added := mustAppend(t, store,
		record(3, "Three"),
		record(5, "Five again"),
		record(1, "One"),
		record(3, "Three again"),
	)
	if added != 2 {
		t.Errorf("added = %d, want 2", added)
	}

	records, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	ids := make([]int, len(records))
	for i, rec := range records {
		ids[i] = rec.ID
	}
	if want := []int{5, 3, 1}; !reflect.DeepEqual(ids, want) {
		t.Errorf("ids = %v, want %v", ids, want)
	}
	if records[1].Title != "Three" {
		t.Errorf("records[1].Title = %q, want first occurrence %q", records[1].Title, "Three")
	}
}

func TestStore_FileFormat(t *testing.T) {
	store := newTestStore(t)

	noAlbum := record(2, "Loose")
	noAlbum.Album = nil
	mustAppend(t, store, record(1, "One"), noAlbum)

	got := readFile(t, store.Path())
	want := `[
    {
        "album": "Album",
        "artist": "Artist",
        "id": 1,
        "sample_rate": 44.1,
        "title": "One",
        "track_number": "01"
    },
    {
        "album": null,
        "artist": "Artist",
        "id": 2,
        "sample_rate": 44.1,
        "title": "Loose",
        "track_number": "01"
    }
]
`
	if got != want {
		t.Errorf("file content:\n%s\nwant:\n%s", got, want)
	}

	var raw []map[string]any
	if err := json.Unmarshal([]byte(got), &raw); err != nil {
		t.Fatal(err)
	}
	if v, ok := raw[1]["album"]; !ok || v != nil {
		t.Errorf(`raw[1]["album"] = %v (present %v), want null`, v, ok)
	}

	entries, err := os.ReadDir(filepath.Dir(store.Path()))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want only the store", len(entries))
	}
}

func TestNewStore_DefaultPath(t *testing.T) {
	if got := NewStore("").Path(); got != DefaultPath {
		t.Errorf("Path() = %q, want %q", got, DefaultPath)
	}
}
