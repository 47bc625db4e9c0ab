// Genius API implementation of [MetadataSource] and [ContentSource]
//
// Genius API response types based on https://docs.genius.com/
package services

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/desertthunder/lyrx/internal/models"
	"github.com/desertthunder/lyrx/internal/shared"
)

const (
	geniusBaseURL  = "https://api.genius.com"
	defaultPerPage = 1
)

type geniusMeta struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// GeniusArtist represents an artist reference.
type GeniusArtist struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// GeniusAlbum represents the album a song appears on.
//
// Label is not part of every payload.
type GeniusAlbum struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Label string `json:"label"`
}

// GeniusTag represents a genre tag.
type GeniusTag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// GeniusSong represents a song in search hits and detail responses.
type GeniusSong struct {
	ID                    int64         `json:"id"`
	Title                 string        `json:"title"`
	URL                   string        `json:"url"`
	PrimaryArtist         *GeniusArtist `json:"primary_artist"`
	Album                 *GeniusAlbum  `json:"album"`
	Tags                  []GeniusTag   `json:"tags"`
	ReleaseDateForDisplay string        `json:"release_date_for_display"`
}

// GeniusHit represents one search hit.
type GeniusHit struct {
	Type   string     `json:"type"`
	Result GeniusSong `json:"result"`
}

type geniusSearchResponse struct {
	Meta     geniusMeta `json:"meta"`
	Response struct {
		Hits []GeniusHit `json:"hits"`
	} `json:"response"`
}

type geniusSongResponse struct {
	Meta     geniusMeta `json:"meta"`
	Response struct {
		Song *GeniusSong `json:"song"`
	} `json:"response"`
}

// GeniusOptions configures a [GeniusService].
type GeniusOptions struct {
	AccessToken string
	BaseURL     string        // Defaults to https://api.genius.com
	PerPage     int           // Search result cap used when Search is called with limit <= 0
	API         ClientOptions // Catalog requests
	Scrape      ClientOptions // Lyrics page requests
	HTTPClient  *http.Client  // Base client for both; defaults to [http.DefaultClient]
	Logger      *log.Logger
}

// GeniusService implements [MetadataSource] and [ContentSource] for Genius.
//
// Catalog requests carry the bearer token through an [oauth2.Transport]; page requests are plain.
// Both share one rate limiter.
type GeniusService struct {
	baseURL string
	perPage int
	api     *APIService
	web     *APIService
	logger  *log.Logger
}

// NewGeniusService creates a new Genius service with the given credentials.
func NewGeniusService(opts GeniusOptions) (*GeniusService, error) {
	token := strings.TrimSpace(opts.AccessToken)
	if token == "" {
		return nil, fmt.Errorf("%w: missing Genius access token", shared.ErrMissingCredentials)
	}
	if opts.BaseURL == "" {
		opts.BaseURL = geniusBaseURL
	}
	if opts.PerPage <= 0 {
		opts.PerPage = defaultPerPage
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewDiscardLogger()
	}
	opts.API.Logger = opts.Logger
	opts.Scrape.Logger = opts.Logger
	if opts.API.Limiter == nil && opts.API.RequestsPerSecond > 0 {
		opts.API.Limiter = rate.NewLimiter(rate.Limit(opts.API.RequestsPerSecond), 1)
	}
	if opts.Scrape.Limiter == nil {
		opts.Scrape.Limiter = opts.API.Limiter
	}

	base := opts.HTTPClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	authed := &http.Client{
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
			Base:   base,
		},
	}

	return &GeniusService{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		perPage: opts.PerPage,
		api:     NewAPIService(authed, opts.API),
		web:     NewAPIService(opts.HTTPClient, opts.Scrape),
		logger:  opts.Logger,
	}, nil
}

// Name returns the service name.
func (g *GeniusService) Name() string {
	return "Genius"
}

// Search queries the catalog and returns up to limit candidates in upstream order.
func (g *GeniusService) Search(ctx context.Context, query string, limit int) ([]models.Candidate, error) {
	if limit <= 0 {
		limit = g.perPage
	}
	params := url.Values{}
	params.Set("q", query)
	params.Set("per_page", strconv.Itoa(limit))

	var resp geniusSearchResponse
	if err := g.getJSON(ctx, "/search?"+params.Encode(), &resp); err != nil {
		g.logger.Warn("search failed", "query", query, "kind", shared.FailureKind(err), "error", err)
		return nil, err
	}
	if err := checkMeta(resp.Meta); err != nil {
		g.logger.Warn("search rejected", "query", query, "error", err)
		return nil, err
	}

	candidates := make([]models.Candidate, 0, len(resp.Response.Hits))
	for _, hit := range resp.Response.Hits {
		candidates = append(candidates, hit.Result.candidate())
		if len(candidates) == limit {
			break
		}
	}
	return candidates, nil
}

// SongDetails fetches /songs/{id} and maps it onto a [models.Record].
func (g *GeniusService) SongDetails(ctx context.Context, id string) (*models.Record, error) {
	if strings.TrimSpace(id) == "" || models.IsUnavailable(id) {
		return nil, fmt.Errorf("%w: empty song id", shared.ErrInvalidArgument)
	}

	var resp geniusSongResponse
	if err := g.getJSON(ctx, "/songs/"+url.PathEscape(id), &resp); err != nil {
		g.logger.Warn("song details failed", "id", id, "kind", shared.FailureKind(err), "error", err)
		return nil, err
	}
	if err := checkMeta(resp.Meta); err != nil {
		g.logger.Warn("song details rejected", "id", id, "error", err)
		return nil, err
	}
	if resp.Response.Song == nil {
		err := fmt.Errorf("%w: song %s missing from response", shared.ErrMalformedResponse, id)
		g.logger.Warn("song details failed", "id", id, "error", err)
		return nil, err
	}

	record := resp.Response.Song.record()
	return &record, nil
}

// Lyrics fetches a song page and returns its cleaned lyrics.
func (g *GeniusService) Lyrics(ctx context.Context, pageURL string) (string, error) {
	if strings.TrimSpace(pageURL) == "" || models.IsUnavailable(pageURL) {
		return "", fmt.Errorf("%w: empty page url", shared.ErrInvalidArgument)
	}

	resp, err := g.web.Get(ctx, pageURL, nil)
	if err != nil {
		g.logger.Warn("lyrics page failed", "url", pageURL, "kind", shared.FailureKind(err), "error", err)
		return "", err
	}

	raw, err := ExtractLyrics(bytes.NewReader(resp.Body))
	if err != nil {
		g.logger.Warn("no lyrics extracted", "url", pageURL, "error", err)
		return "", err
	}

	lyrics := CleanLyrics(raw)
	if lyrics == "" {
		return "", fmt.Errorf("%w: lyrics empty after cleaning", shared.ErrNoContent)
	}
	return lyrics, nil
}

func (g *GeniusService) getJSON(ctx context.Context, endpoint string, v any) error {
	return g.api.GetJSON(ctx, g.baseURL+endpoint, http.Header{"Accept": {"application/json"}}, v)
}

func checkMeta(m geniusMeta) error {
	if m.Status != http.StatusOK {
		if m.Message != "" {
			return fmt.Errorf("%w: status %d: %s", shared.ErrUpstreamRejected, m.Status, m.Message)
		}
		return fmt.Errorf("%w: status %d", shared.ErrUpstreamRejected, m.Status)
	}
	return nil
}

func (s GeniusSong) candidate() models.Candidate {
	c := models.Candidate{
		ID:    formatID(s.ID),
		Title: models.OrUnavailable(s.Title),
		URL:   models.OrUnavailable(s.URL),
	}
	c.Artist = models.Unavailable
	if s.PrimaryArtist != nil {
		c.Artist = models.OrUnavailable(s.PrimaryArtist.Name)
	}
	return c
}

func (s GeniusSong) record() models.Record {
	r := models.Record{
		ID:          formatID(s.ID),
		Title:       s.Title,
		URL:         s.URL,
		ReleaseDate: s.ReleaseDateForDisplay,
	}
	if s.PrimaryArtist != nil {
		r.Artist = s.PrimaryArtist.Name
	}
	if s.Album != nil {
		r.Album = s.Album.Name
		r.Label = s.Album.Label
	}

	names := make([]string, 0, len(s.Tags))
	for _, tag := range s.Tags {
		if name := strings.TrimSpace(tag.Name); name != "" {
			names = append(names, name)
		}
	}
	r.Genres = strings.Join(names, ", ")

	return r.Normalize()
}

func formatID(id int64) string {
	if id == 0 {
		return models.Unavailable
	}
	return strconv.FormatInt(id, 10)
}
