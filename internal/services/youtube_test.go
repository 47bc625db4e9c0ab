package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/lyrx/internal/shared"
)

func TestYouTubeService(t *testing.T) {
	t.Run("NewYouTubeService", func(t *testing.T) {
		t.Run("creates service with default URLs", func(t *testing.T) {
			svc := NewYouTubeService(YouTubeOptions{})
			if svc.apiBaseURL != youtubeAPIBaseURL {
				t.Errorf("expected apiBaseURL to be %s, got %s", youtubeAPIBaseURL, svc.apiBaseURL)
			}
			if svc.webBaseURL != youtubeWebBaseURL {
				t.Errorf("expected webBaseURL to be %s, got %s", youtubeWebBaseURL, svc.webBaseURL)
			}
			if svc.Mode() != "scrape" {
				t.Errorf("expected scrape mode without key, got %s", svc.Mode())
			}
		})

		t.Run("api key selects api mode", func(t *testing.T) {
			if svc := NewYouTubeService(YouTubeOptions{APIKey: "key"}); svc.Mode() != "api" {
				t.Errorf("expected api mode, got %s", svc.Mode())
			}
		})
	})

	t.Run("Name", func(t *testing.T) {
		if svc := NewYouTubeService(YouTubeOptions{}); svc.Name() != "YouTube" {
			t.Errorf("expected name to be 'YouTube', got %s", svc.Name())
		}
	})

	t.Run("VideoLink", func(t *testing.T) {
		t.Run("api mode", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/search" {
					t.Errorf("expected path /search, got %s", r.URL.Path)
				}
				q := r.URL.Query()
				if q.Get("q") != "Obsesión Aventura" {
					t.Errorf("expected query 'Obsesión Aventura', got %q", q.Get("q"))
				}
				if q.Get("key") != "secret" || q.Get("type") != "video" || q.Get("maxResults") != "1" || q.Get("part") != "snippet" {
					t.Errorf("unexpected query params %v", q)
				}
				w.Write([]byte(`{"items":[{"id":{"kind":"youtube#video","videoId":"dQw4w9WgXcQ"},"snippet":{"title":"Obsesión"}}]}`))
			}))
			defer server.Close()

			svc := NewYouTubeService(YouTubeOptions{APIKey: "secret", APIBaseURL: server.URL, HTTPClient: server.Client()})
			link, err := svc.VideoLink(context.Background(), "Obsesión", "Aventura")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if link != "https://www.youtube.com/watch?v=dQw4w9WgXcQ" {
				t.Errorf("unexpected link %s", link)
			}
		})

		t.Run("api mode without items", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"items":[]}`))
			}))
			defer server.Close()

			svc := NewYouTubeService(YouTubeOptions{APIKey: "secret", APIBaseURL: server.URL, HTTPClient: server.Client()})
			link, err := svc.VideoLink(context.Background(), "a", "b")
			if !errors.Is(err, shared.ErrNoMatch) {
				t.Errorf("expected ErrNoMatch, got %v", err)
			}
			if link != "" {
				t.Errorf("expected empty link, got %s", link)
			}
		})

		t.Run("api quota exceeded", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusForbidden)
				w.Write([]byte(`{"error":{"code":403,"message":"quotaExceeded"}}`))
			}))
			defer server.Close()

			svc := NewYouTubeService(YouTubeOptions{APIKey: "secret", APIBaseURL: server.URL, HTTPClient: server.Client()})
			if _, err := svc.VideoLink(context.Background(), "a", "b"); !errors.Is(err, shared.ErrUpstreamRejected) {
				t.Errorf("expected ErrUpstreamRejected, got %v", err)
			}
		})

		t.Run("scrape mode", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/results" {
					t.Errorf("expected path /results, got %s", r.URL.Path)
				}
				if got := r.URL.Query().Get("search_query"); got != "Song A Artist1" {
					t.Errorf("expected search_query 'Song A Artist1', got %q", got)
				}
				w.Write([]byte(`<script>var ytInitialData = {"contents":[{"videoRenderer":{"videoId":"abcDEF12345","title":"x"}},{"videoRenderer":{"videoId":"zzzzzzzzzzz"}}]};</script>`))
			}))
			defer server.Close()

			svc := NewYouTubeService(YouTubeOptions{WebBaseURL: server.URL, HTTPClient: server.Client()})
			link, err := svc.VideoLink(context.Background(), "Song A", "Artist1")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if link != "https://www.youtube.com/watch?v=abcDEF12345" {
				t.Errorf("expected first video link, got %s", link)
			}
		})

		t.Run("scrape mode without results", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`<html>No results</html>`))
			}))
			defer server.Close()

			svc := NewYouTubeService(YouTubeOptions{WebBaseURL: server.URL, HTTPClient: server.Client()})
			if _, err := svc.VideoLink(context.Background(), "a", "b"); !errors.Is(err, shared.ErrNoMatch) {
				t.Errorf("expected ErrNoMatch, got %v", err)
			}
		})

		t.Run("empty query", func(t *testing.T) {
			svc := NewYouTubeService(YouTubeOptions{})
			if _, err := svc.VideoLink(context.Background(), " ", ""); !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
		})
	})
}
