package volby

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestFeedLoad(t *testing.T) {
	fixture, err := os.ReadFile(filepath.Join("testdata", "preferences_feed.xml"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}

	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if got := r.Header.Get("User-Agent"); got != DefaultUserAgent {
			t.Errorf("User-Agent = %q, want %q", got, DefaultUserAgent)
		}
		w.Write(fixture)
	}))
	defer srv.Close()

	feed := NewFeed(FeedConfig{URL: srv.URL})

	preferences, err := feed.PreferenceVotes()
	if err != nil {
		t.Fatalf("PreferenceVotes() error = %v", err)
	}
	if _, ok := preferences["Plzeňský"]; !ok {
		t.Fatalf("missing region in feed result: %v", preferences)
	}

	// Second extraction reuses the cached tree.
	if _, err := feed.PreferenceVotes(); err != nil {
		t.Fatalf("second PreferenceVotes() error = %v", err)
	}
	if requests != 1 {
		t.Fatalf("requests = %d, want 1 (cached document reused)", requests)
	}

	// Explicit reload replaces the tree with a fresh fetch.
	before := feed.Document()
	if _, err := feed.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if requests != 2 {
		t.Fatalf("requests = %d, want 2 after reload", requests)
	}
	if feed.Document() == before {
		t.Fatal("reload should replace the cached document")
	}
}

func TestFeedLoadErrors(t *testing.T) {
	t.Run("http error status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "gone", http.StatusNotFound)
		}))
		defer srv.Close()

		feed := NewFeed(FeedConfig{URL: srv.URL})
		_, err := feed.Load()
		var loadErr *LoadError
		if !errors.As(err, &loadErr) {
			t.Fatalf("Load() err = %v, want LoadError", err)
		}
	})

	t.Run("unreachable host", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := srv.URL
		srv.Close()

		feed := NewFeed(FeedConfig{URL: url})
		var loadErr *LoadError
		if _, err := feed.Load(); !errors.As(err, &loadErr) {
			t.Fatalf("Load() err = %v, want LoadError", err)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<VYSLEDKY>`))
		}))
		defer srv.Close()

		feed := NewFeed(FeedConfig{URL: srv.URL})
		var loadErr *LoadError
		if _, err := feed.Load(); !errors.As(err, &loadErr) {
			t.Fatalf("Load() err = %v, want LoadError", err)
		}
	})
}

func TestNewFeedDefaults(t *testing.T) {
	feed := NewFeed(FeedConfig{})
	if feed.URL() != DefaultResultsURL {
		t.Fatalf("URL() = %q, want default results endpoint", feed.URL())
	}
	if feed.Document() != nil {
		t.Fatal("new feed should start unloaded")
	}
}
