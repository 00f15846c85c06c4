package slavart

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	slhttp "github.com/ZephyrCodesStuff/slavart/internal/http"
	"github.com/ZephyrCodesStuff/slavart/internal/model"
)

func newTestAPI(t *testing.T, handler http.HandlerFunc) *API {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(slhttp.NewClient(time.Second, ""), srv.URL+"/api/", srv.URL+"/api")
}

func TestAPI_Search(t *testing.T) {
	fixture, err := os.ReadFile("../model/testdata/results.json")
	if err != nil {
		t.Fatal(err)
	}

	var gotPath, gotQuery string
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("q")
		w.Write(fixture)
	})

	results, err := api.Search(context.Background(), "daft punk & co")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if gotPath != "/api/search" {
		t.Errorf("path = %q, want %q", gotPath, "/api/search")
	}
	if gotQuery != "daft punk & co" {
		t.Errorf("q = %q, want %q", gotQuery, "daft punk & co")
	}
	if len(results.Tracks.Items) != 2 {
		t.Errorf("len(Tracks.Items) = %d, want 2", len(results.Tracks.Items))
	}
}

func TestAPI_SearchErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		check   func(t *testing.T, err error)
	}{
		{
			name: "bad status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", http.StatusBadGateway)
			},
			check: func(t *testing.T, err error) {
				var apiErr *slhttp.APIError
				if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadGateway {
					t.Errorf("err = %v, want APIError 502", err)
				}
			},
		},
		{
			name: "invalid document",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"query": "x"}`))
			},
			check: func(t *testing.T, err error) {
				var de *model.DecodeError
				if !errors.As(err, &de) {
					t.Errorf("err = %v, want *model.DecodeError", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t, tt.handler)
			_, err := api.Search(context.Background(), "x")
			if err == nil {
				t.Fatal("expected an error")
			}
			tt.check(t, err)
		})
	}
}

func TestAPI_SearchEmptyQuery(t *testing.T) {
	api := New(slhttp.NewClient(time.Second, ""), "http://127.0.0.1:0", "")

	if _, err := api.Search(context.Background(), "   "); !errors.Is(err, ErrEmptyQuery) {
		t.Errorf("err = %v, want ErrEmptyQuery", err)
	}
}

func TestAPI_DownloadTrack(t *testing.T) {
	var gotPath, gotID string
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotID = r.URL.Query().Get("id")
		w.Write([]byte("fLaC-bytes"))
	})

	data, err := api.DownloadTrack(context.Background(), 1001)
	if err != nil {
		t.Fatalf("DownloadTrack: %v", err)
	}
	if string(data) != "fLaC-bytes" {
		t.Errorf("data = %q", data)
	}
	if gotPath != "/api/download/track" || gotID != "1001" {
		t.Errorf("request = %s?id=%s", gotPath, gotID)
	}
}

func TestNew_Defaults(t *testing.T) {
	api := New(nil, "", "")

	if got, want := api.SearchURL("a b"), DefaultSearchEndpoint+"/search?q=a+b"; got != want {
		t.Errorf("SearchURL = %q, want %q", got, want)
	}
	if got, want := api.TrackURL(7), DefaultDownloadEndpoint+"/download/track?id=7"; got != want {
		t.Errorf("TrackURL = %q, want %q", got, want)
	}
}
