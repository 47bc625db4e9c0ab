package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/lyrx/internal/models"
	"github.com/desertthunder/lyrx/internal/shared"
)

func newGeniusTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *GeniusService) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc, err := NewGeniusService(GeniusOptions{
		AccessToken: "test-token",
		BaseURL:     server.URL,
		HTTPClient:  server.Client(),
		API:         ClientOptions{UserAgent: "lyrx/test"},
	})
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	return server, svc
}

func TestGeniusService(t *testing.T) {
	t.Run("NewGeniusService", func(t *testing.T) {
		t.Run("requires access token", func(t *testing.T) {
			_, err := NewGeniusService(GeniusOptions{AccessToken: "  "})
			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})

		t.Run("applies defaults", func(t *testing.T) {
			svc, err := NewGeniusService(GeniusOptions{AccessToken: "token"})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if svc.baseURL != geniusBaseURL {
				t.Errorf("expected baseURL %s, got %s", geniusBaseURL, svc.baseURL)
			}
			if svc.perPage != defaultPerPage {
				t.Errorf("expected perPage %d, got %d", defaultPerPage, svc.perPage)
			}
			if svc.Name() != "Genius" {
				t.Errorf("expected name Genius, got %s", svc.Name())
			}
		})
	})

	t.Run("Search", func(t *testing.T) {
		t.Run("returns candidates", func(t *testing.T) {
			_, svc := newGeniusTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/search" {
					t.Errorf("expected path /search, got %s", r.URL.Path)
				}
				if got := r.URL.Query().Get("q"); got != "Obsesion Aventura" {
					t.Errorf("expected q 'Obsesion Aventura', got %q", got)
				}
				if got := r.URL.Query().Get("per_page"); got != "1" {
					t.Errorf("expected per_page 1, got %q", got)
				}
				if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
					t.Errorf("expected bearer token, got %q", got)
				}
				if got := r.Header.Get("User-Agent"); got != "lyrx/test" {
					t.Errorf("expected user agent, got %q", got)
				}

				json.NewEncoder(w).Encode(map[string]any{
					"meta": map[string]any{"status": 200},
					"response": map[string]any{
						"hits": []map[string]any{
							{"type": "song", "result": map[string]any{
								"id":             123,
								"title":          "Obsesión",
								"url":            "https://genius.com/Aventura-obsesion-lyrics",
								"primary_artist": map[string]any{"id": 1, "name": "Aventura"},
							}},
						},
					},
				})
			})

			candidates, err := svc.Search(context.Background(), "Obsesion Aventura", 0)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(candidates) != 1 {
				t.Fatalf("expected 1 candidate, got %d", len(candidates))
			}
			want := models.Candidate{ID: "123", Title: "Obsesión", Artist: "Aventura", URL: "https://genius.com/Aventura-obsesion-lyrics"}
			if candidates[0] != want {
				t.Errorf("expected %+v, got %+v", want, candidates[0])
			}
		})

		t.Run("caps results at limit", func(t *testing.T) {
			_, svc := newGeniusTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"meta":{"status":200},"response":{"hits":[
					{"result":{"id":1,"title":"a","url":"u1","primary_artist":{"name":"x"}}},
					{"result":{"id":2,"title":"b","url":"u2","primary_artist":{"name":"y"}}},
					{"result":{"id":3,"title":"c","url":"u3"}}
				]}}`))
			})

			candidates, err := svc.Search(context.Background(), "q", 2)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(candidates) != 2 || candidates[0].ID != "1" || candidates[1].ID != "2" {
				t.Errorf("expected first two candidates in order, got %+v", candidates)
			}
		})

		t.Run("no hits", func(t *testing.T) {
			_, svc := newGeniusTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"meta":{"status":200},"response":{"hits":[]}}`))
			})

			candidates, err := svc.Search(context.Background(), "unknown-garbage-xyz", 1)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(candidates) != 0 {
				t.Errorf("expected no candidates, got %d", len(candidates))
			}
		})

		t.Run("meta status rejection", func(t *testing.T) {
			_, svc := newGeniusTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"meta":{"status":403,"message":"forbidden"},"response":{}}`))
			})

			candidates, err := svc.Search(context.Background(), "q", 1)
			if !errors.Is(err, shared.ErrUpstreamRejected) {
				t.Errorf("expected ErrUpstreamRejected, got %v", err)
			}
			if candidates != nil {
				t.Errorf("expected nil candidates, got %v", candidates)
			}
		})

		t.Run("http rejection", func(t *testing.T) {
			_, svc := newGeniusTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"meta":{"status":401}}`))
			})

			_, err := svc.Search(context.Background(), "q", 1)
			if !errors.Is(err, shared.ErrUpstreamRejected) {
				t.Errorf("expected ErrUpstreamRejected, got %v", err)
			}
		})

		t.Run("malformed payload", func(t *testing.T) {
			_, svc := newGeniusTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`<html>oops</html>`))
			})

			_, err := svc.Search(context.Background(), "q", 1)
			if !errors.Is(err, shared.ErrMalformedResponse) {
				t.Errorf("expected ErrMalformedResponse, got %v", err)
			}
		})
	})

	t.Run("SongDetails", func(t *testing.T) {
		t.Run("full payload", func(t *testing.T) {
			_, svc := newGeniusTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/songs/123" {
					t.Errorf("expected path /songs/123, got %s", r.URL.Path)
				}
				w.Write([]byte(`{"meta":{"status":200},"response":{"song":{
					"id":123,
					"title":"Obsesión",
					"url":"https://genius.com/Aventura-obsesion-lyrics",
					"primary_artist":{"id":1,"name":"Aventura"},
					"album":{"id":9,"name":"We Broke the Rules","label":"Premium Latin"},
					"tags":[{"id":1,"name":"Bachata"},{"id":2,"name":"Latin"}],
					"release_date_for_display":"August 20, 2002"
				}}}`))
			})

			rec, err := svc.SongDetails(context.Background(), "123")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			want := models.Record{
				ID:          "123",
				Title:       "Obsesión",
				Artist:      "Aventura",
				URL:         "https://genius.com/Aventura-obsesion-lyrics",
				Genres:      "Bachata, Latin",
				Label:       "Premium Latin",
				Album:       "We Broke the Rules",
				ReleaseDate: "August 20, 2002",
				Lyrics:      models.Unavailable,
				VideoURL:    models.Unavailable,
			}
			if *rec != want {
				t.Errorf("expected %+v, got %+v", want, *rec)
			}
		})

		t.Run("optional fields default to sentinel", func(t *testing.T) {
			_, svc := newGeniusTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"meta":{"status":200},"response":{"song":{
					"id":7,"title":"Solo","url":"https://genius.com/solo","album":null,"tags":[]
				}}}`))
			})

			rec, err := svc.SongDetails(context.Background(), "7")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for name, v := range map[string]string{
				"Artist": rec.Artist, "Album": rec.Album, "Label": rec.Label,
				"Genres": rec.Genres, "ReleaseDate": rec.ReleaseDate,
			} {
				if v != models.Unavailable {
					t.Errorf("expected %s to be %q, got %q", name, models.Unavailable, v)
				}
			}
			if rec.Title != "Solo" {
				t.Errorf("expected title Solo, got %s", rec.Title)
			}
		})

		t.Run("missing song", func(t *testing.T) {
			_, svc := newGeniusTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"meta":{"status":200},"response":{}}`))
			})

			rec, err := svc.SongDetails(context.Background(), "1")
			if !errors.Is(err, shared.ErrMalformedResponse) {
				t.Errorf("expected ErrMalformedResponse, got %v", err)
			}
			if rec != nil {
				t.Error("expected nil record")
			}
		})

		t.Run("not found", func(t *testing.T) {
			_, svc := newGeniusTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte(`{"meta":{"status":404,"message":"Not found"}}`))
			})

			_, err := svc.SongDetails(context.Background(), "999")
			if !errors.Is(err, shared.ErrUpstreamRejected) {
				t.Errorf("expected ErrUpstreamRejected, got %v", err)
			}
		})

		t.Run("empty id", func(t *testing.T) {
			svc, _ := NewGeniusService(GeniusOptions{AccessToken: "token"})
			if _, err := svc.SongDetails(context.Background(), models.Unavailable); !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
		})
	})

	t.Run("Lyrics", func(t *testing.T) {
		t.Run("scrapes and cleans page", func(t *testing.T) {
			server, svc := newGeniusTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Header.Get("Authorization") != "" {
					t.Error("expected page request without bearer token")
				}
				w.Header().Set("Content-Type", "text/html")
				w.Write([]byte(lyricsPage))
			})

			lyrics, err := svc.Lyrics(context.Background(), server.URL+"/Aventura-obsesion-lyrics")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			want := strings.Join([]string{
				"Amor",
				"No es amor",
				"Me dice que te sueña & que te quiere",
				"Es obsesión",
			}, "\n")
			if lyrics != want {
				t.Errorf("expected %q, got %q", want, lyrics)
			}
		})

		t.Run("no containers", func(t *testing.T) {
			server, svc := newGeniusTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`<html><body>Lyrics for this song have yet to be released.</body></html>`))
			})

			lyrics, err := svc.Lyrics(context.Background(), server.URL+"/x")
			if !errors.Is(err, shared.ErrNoContent) {
				t.Errorf("expected ErrNoContent, got %v", err)
			}
			if lyrics != "" {
				t.Errorf("expected empty lyrics, got %q", lyrics)
			}
		})

		t.Run("only annotations", func(t *testing.T) {
			server, svc := newGeniusTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`<div data-lyrics-container="true">[Instrumental]</div>`))
			})

			_, err := svc.Lyrics(context.Background(), server.URL+"/x")
			if !errors.Is(err, shared.ErrNoContent) {
				t.Errorf("expected ErrNoContent, got %v", err)
			}
		})

		t.Run("page error", func(t *testing.T) {
			server, svc := newGeniusTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusForbidden)
			})

			_, err := svc.Lyrics(context.Background(), server.URL+"/x")
			if !errors.Is(err, shared.ErrUpstreamRejected) {
				t.Errorf("expected ErrUpstreamRejected, got %v", err)
			}
		})
	})
}
