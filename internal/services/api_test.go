package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/desertthunder/lyrx/internal/shared"
	tu "github.com/desertthunder/lyrx/internal/testing"
)

func TestAPIService(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		t.Run("With Custom Client", func(t *testing.T) {
			customClient := &http.Client{}
			srv := NewAPIService(customClient, ClientOptions{})

			if srv.httpClient != customClient {
				t.Error("expected custom client to be used")
			}
			if srv.limiter != nil {
				t.Error("expected no limiter without a rate")
			}
		})

		t.Run("With Nil Client", func(t *testing.T) {
			srv := NewAPIService(nil, ClientOptions{MaxRetries: -3, RequestsPerSecond: 2})

			if srv.httpClient != http.DefaultClient {
				t.Error("expected http.DefaultClient to be used")
			}
			if srv.maxRetries != 0 {
				t.Errorf("expected negative retries to clamp to 0, got %d", srv.maxRetries)
			}
			if srv.limiter == nil {
				t.Error("expected limiter to be created")
			}
		})
	})

	t.Run("Get", func(t *testing.T) {
		t.Run("Successful Request", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet {
					t.Errorf("expected GET method, got %s", r.Method)
				}
				if got := r.Header.Get("User-Agent"); got != "lyrx/test" {
					t.Errorf("expected user agent lyrx/test, got %s", got)
				}
				if got := r.Header.Get("X-Test"); got != "yes" {
					t.Errorf("expected X-Test header, got %q", got)
				}
				w.WriteHeader(http.StatusOK)
				w.Write([]byte(`{"status":"success"}`))
			}))
			defer server.Close()

			srv := NewAPIService(server.Client(), ClientOptions{UserAgent: "lyrx/test"})
			resp, err := srv.Get(context.Background(), server.URL+"/test", http.Header{"X-Test": {"yes"}})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if resp.StatusCode != http.StatusOK {
				t.Errorf("expected status 200, got %d", resp.StatusCode)
			}
			if string(resp.Body) != `{"status":"success"}` {
				t.Errorf("unexpected body %s", resp.Body)
			}
		})

		t.Run("Client Error Is Not Retried", func(t *testing.T) {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(http.StatusNotFound)
			}))
			defer server.Close()

			srv := NewAPIService(server.Client(), ClientOptions{MaxRetries: 3})
			resp, err := srv.Get(context.Background(), server.URL, nil)

			if !errors.Is(err, shared.ErrUpstreamRejected) {
				t.Errorf("expected ErrUpstreamRejected, got %v", err)
			}
			if resp == nil || resp.StatusCode != http.StatusNotFound {
				t.Error("expected the rejected response to be returned")
			}
			if calls.Load() != 1 {
				t.Errorf("expected 1 call, got %d", calls.Load())
			}
		})

		t.Run("Server Error Is Retried Until Success", func(t *testing.T) {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if calls.Add(1) < 3 {
					w.WriteHeader(http.StatusServiceUnavailable)
					return
				}
				w.Write([]byte("ok"))
			}))
			defer server.Close()

			srv := NewAPIService(server.Client(), ClientOptions{MaxRetries: 2, Backoff: time.Millisecond})
			resp, err := srv.Get(context.Background(), server.URL, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(resp.Body) != "ok" {
				t.Errorf("expected body ok, got %s", resp.Body)
			}
			if calls.Load() != 3 {
				t.Errorf("expected 3 calls, got %d", calls.Load())
			}
		})

		t.Run("Retries Exhausted", func(t *testing.T) {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(http.StatusTooManyRequests)
			}))
			defer server.Close()

			srv := NewAPIService(server.Client(), ClientOptions{MaxRetries: 1, Backoff: time.Millisecond})
			resp, err := srv.Get(context.Background(), server.URL, nil)

			if !errors.Is(err, shared.ErrUpstreamRejected) {
				t.Errorf("expected ErrUpstreamRejected, got %v", err)
			}
			if resp != nil {
				t.Error("expected nil response after exhausting retries")
			}
			if calls.Load() != 2 {
				t.Errorf("expected 2 calls, got %d", calls.Load())
			}
		})

		t.Run("Request Failure", func(t *testing.T) {
			client := &http.Client{
				Transport: tu.NewMockRoundTripper(nil, errors.New("connection failed")),
			}

			srv := NewAPIService(client, ClientOptions{MaxRetries: 1})
			_, err := srv.Get(context.Background(), "http://example.com/test", nil)

			if !errors.Is(err, shared.ErrTransport) {
				t.Errorf("expected ErrTransport, got %v", err)
			}
		})

		t.Run("Read Body Failure", func(t *testing.T) {
			client := &http.Client{
				Transport: tu.NewMockRoundTripper(&http.Response{
					StatusCode: http.StatusOK,
					Body:       &tu.FCloser{},
					Header:     http.Header{},
				}, nil),
			}

			srv := NewAPIService(client, ClientOptions{})
			_, err := srv.Get(context.Background(), "http://example.com/test", nil)

			if !errors.Is(err, shared.ErrTransport) {
				t.Errorf("expected ErrTransport, got %v", err)
			}
		})

		t.Run("Timeout", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-r.Context().Done():
				case <-time.After(time.Second):
				}
			}))
			defer server.Close()

			srv := NewAPIService(server.Client(), ClientOptions{Timeout: 20 * time.Millisecond})
			_, err := srv.Get(context.Background(), server.URL, nil)

			if !errors.Is(err, shared.ErrTimeout) {
				t.Errorf("expected ErrTimeout, got %v", err)
			}
		})

		t.Run("Invalid URL", func(t *testing.T) {
			srv := NewAPIService(nil, ClientOptions{MaxRetries: 2})
			_, err := srv.Get(context.Background(), "://bad", nil)

			if !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	})

	t.Run("GetJSON", func(t *testing.T) {
		t.Run("Decodes Body", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"name":"lyrx"}`))
			}))
			defer server.Close()

			var out struct {
				Name string `json:"name"`
			}
			srv := NewAPIService(server.Client(), ClientOptions{})
			if err := srv.GetJSON(context.Background(), server.URL, nil, &out); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out.Name != "lyrx" {
				t.Errorf("expected name lyrx, got %s", out.Name)
			}
		})

		t.Run("Malformed Body", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{not json`))
			}))
			defer server.Close()

			var out map[string]any
			srv := NewAPIService(server.Client(), ClientOptions{})
			err := srv.GetJSON(context.Background(), server.URL, nil, &out)

			if !errors.Is(err, shared.ErrMalformedResponse) {
				t.Errorf("expected ErrMalformedResponse, got %v", err)
			}
		})
	})
}
