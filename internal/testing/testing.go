// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/lyrx/internal/models"
	"github.com/desertthunder/lyrx/internal/shared"
)

// FakeCatalog is an in-memory stand-in for [services.MetadataSource].
//
// Songs are keyed by the exact query that finds them.
type FakeCatalog struct {
	mu       sync.Mutex
	songs    map[string]models.Record
	failing  map[string]error
	panics   map[string]bool
	searched []string
	onSearch func(query string)
}

func NewFakeCatalog() *FakeCatalog {
	return &FakeCatalog{
		songs:   make(map[string]models.Record),
		failing: make(map[string]error),
		panics:  make(map[string]bool),
	}
}

// AddSong makes query resolve to rec.
func (f *FakeCatalog) AddSong(query string, rec models.Record) *FakeCatalog {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.songs[query] = rec
	return f
}

// FailDetails makes SongDetails return err for id.
func (f *FakeCatalog) FailDetails(id string, err error) *FakeCatalog {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failing[id] = err
	return f
}

// PanicOn makes Search panic for query.
func (f *FakeCatalog) PanicOn(query string) *FakeCatalog {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.panics[query] = true
	return f
}

// OnSearch registers fn to run at the start of every Search call.
func (f *FakeCatalog) OnSearch(fn func(query string)) *FakeCatalog {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onSearch = fn
	return f
}

// Searched returns every query passed to Search, in call order.
func (f *FakeCatalog) Searched() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.searched...)
}

func (f *FakeCatalog) Search(ctx context.Context, query string, limit int) ([]models.Candidate, error) {
	f.mu.Lock()
	f.searched = append(f.searched, query)
	rec, ok := f.songs[query]
	panics := f.panics[query]
	hook := f.onSearch
	f.mu.Unlock()

	if hook != nil {
		hook(query)
	}

	if panics {
		panic(fmt.Sprintf("catalog exploded on %q", query))
	}
	if !ok {
		return []models.Candidate{}, nil
	}
	return []models.Candidate{{ID: rec.ID, Title: rec.Title, Artist: rec.Artist, URL: rec.URL}}, nil
}

func (f *FakeCatalog) SongDetails(ctx context.Context, id string) (*models.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err, ok := f.failing[id]; ok {
		return nil, err
	}
	for _, rec := range f.songs {
		if rec.ID == id {
			out := rec.Normalize()
			out.Lyrics = models.Unavailable
			out.VideoURL = models.Unavailable
			return &out, nil
		}
	}
	return nil, fmt.Errorf("%w: song %s", shared.ErrUpstreamRejected, id)
}

// FakeContent is an in-memory stand-in for [services.ContentSource], keyed by page URL.
type FakeContent struct {
	mu      sync.Mutex
	Pages   map[string]string
	Err     error // Returned for every page when set
	fetched []string
}

func (f *FakeContent) Lyrics(ctx context.Context, pageURL string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetched = append(f.fetched, pageURL)

	if f.Err != nil {
		return "", f.Err
	}
	if lyrics, ok := f.Pages[pageURL]; ok {
		return lyrics, nil
	}
	return "", shared.ErrNoContent
}

// Fetched returns every page URL passed to Lyrics, in call order.
func (f *FakeContent) Fetched() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.fetched...)
}

// FakeLinks is an in-memory stand-in for [services.LinkSource], keyed by "title artist".
type FakeLinks struct {
	mu    sync.Mutex
	Links map[string]string
	Err   error
	calls int
}

func (f *FakeLinks) VideoLink(ctx context.Context, title, artist string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	if f.Err != nil {
		return "", f.Err
	}
	if link, ok := f.Links[title+" "+artist]; ok {
		return link, nil
	}
	return "", shared.ErrNoMatch
}

// Calls returns how many times VideoLink ran.
func (f *FakeLinks) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
