package volby

import (
	"fmt"
	"io"
	"net/http"
	"time"
)

// Default endpoints published by the upstream data provider.
const (
	DefaultResultsURL     = "https://www.volby.cz/pls/ps2021/vysledky"
	DefaultPreferencesURL = "https://www.volby.cz/pls/ps2021/vysledky_kandid"
)

// DefaultUserAgent is sent with feed requests unless overridden.
const DefaultUserAgent = "volby-feed-client/1.0"

const defaultTimeout = 30 * time.Second

// HTTPClient is the minimal HTTP surface the feed needs, satisfied by
// *http.Client and easy to fake in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// FeedConfig holds configuration for a Feed.
type FeedConfig struct {
	// URL of the XML feed. Default: DefaultResultsURL.
	URL string

	// HTTPClient used for requests. If nil, a client with a 30s timeout
	// is used.
	HTTPClient HTTPClient

	// UserAgent header sent with requests. Default: DefaultUserAgent.
	UserAgent string

	// Namespaces pre-registers namespace aliases on every loaded
	// document; the default alias is still auto-registered when free.
	Namespaces map[string]string
}

// Feed fetches an election XML feed and keeps the parsed document until the
// caller explicitly reloads. Both extraction views read the same cached
// tree, so they stay mutually consistent between loads.
type Feed struct {
	url        string
	client     HTTPClient
	userAgent  string
	namespaces map[string]string
	doc        *Document
}

// NewFeed creates a Feed from config, filling in defaults for any zero
// fields.
func NewFeed(config FeedConfig) *Feed {
	url := config.URL
	if url == "" {
		url = DefaultResultsURL
	}
	client := config.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Feed{
		url:        url,
		client:     client,
		userAgent:  userAgent,
		namespaces: config.Namespaces,
	}
}

// URL reports the feed endpoint this Feed fetches from.
func (f *Feed) URL() string { return f.url }

// Load fetches the feed and replaces the cached document wholesale. The
// previous tree, if any, stays untouched in the hands of whoever holds it.
func (f *Feed) Load() (*Document, error) {
	req, err := http.NewRequest(http.MethodGet, f.url, nil)
	if err != nil {
		return nil, &LoadError{Source: f.url, Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &LoadError{Source: f.url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, &LoadError{Source: f.url, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &LoadError{Source: f.url, Err: err}
	}

	doc, err := ParseWithNamespaces(data, f.namespaces)
	if err != nil {
		return nil, err
	}
	f.doc = doc
	return doc, nil
}

// EnsureLoaded returns the cached document, fetching the feed on first use.
func (f *Feed) EnsureLoaded() (*Document, error) {
	if f.doc != nil {
		return f.doc, nil
	}
	return f.Load()
}

// Document returns the cached document, which is nil before the first
// successful Load.
func (f *Feed) Document() *Document { return f.doc }

// RegionResults extracts the region/party vote-totals view from the cached
// document, loading the feed first if needed.
func (f *Feed) RegionResults() (map[string]Region, error) {
	doc, err := f.EnsureLoaded()
	if err != nil {
		return nil, err
	}
	return ExtractRegionResults(doc)
}

// PreferenceVotes extracts the per-candidate preference-votes view from the
// cached document, loading the feed first if needed.
func (f *Feed) PreferenceVotes() (map[string]map[int]*PreferenceEntry, error) {
	doc, err := f.EnsureLoaded()
	if err != nil {
		return nil, err
	}
	return ExtractPreferenceVotes(doc)
}
