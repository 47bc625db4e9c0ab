// YouTube implementation of [LinkSource]
//
// Uses the Data API v3 search endpoint when an API key is configured and falls back
// to reading the first video id from the public results page otherwise.
package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/lyrx/internal/shared"
)

const (
	youtubeAPIBaseURL = "https://www.googleapis.com/youtube/v3"
	youtubeWebBaseURL = "https://www.youtube.com"
)

var videoIDPattern = regexp.MustCompile(`"videoId":"([A-Za-z0-9_-]{11})"`)

// YouTubeSearchItem represents one item of a search.list response.
type YouTubeSearchItem struct {
	ID struct {
		Kind    string `json:"kind"`
		VideoID string `json:"videoId"`
	} `json:"id"`
	Snippet struct {
		Title        string `json:"title"`
		ChannelTitle string `json:"channelTitle"`
	} `json:"snippet"`
}

type youtubeSearchResponse struct {
	Items []YouTubeSearchItem `json:"items"`
}

// YouTubeOptions configures a [YouTubeService].
type YouTubeOptions struct {
	APIKey     string // Enables Data API mode
	APIBaseURL string // Defaults to https://www.googleapis.com/youtube/v3
	WebBaseURL string // Defaults to https://www.youtube.com
	Client     ClientOptions
	HTTPClient *http.Client
	Logger     *log.Logger
}

// YouTubeService implements [LinkSource].
type YouTubeService struct {
	apiKey     string
	apiBaseURL string
	webBaseURL string
	http       *APIService
	logger     *log.Logger
}

// NewYouTubeService creates a new YouTube link service.
func NewYouTubeService(opts YouTubeOptions) *YouTubeService {
	if opts.APIBaseURL == "" {
		opts.APIBaseURL = youtubeAPIBaseURL
	}
	if opts.WebBaseURL == "" {
		opts.WebBaseURL = youtubeWebBaseURL
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewDiscardLogger()
	}
	opts.Client.Logger = opts.Logger

	return &YouTubeService{
		apiKey:     strings.TrimSpace(opts.APIKey),
		apiBaseURL: strings.TrimRight(opts.APIBaseURL, "/"),
		webBaseURL: strings.TrimRight(opts.WebBaseURL, "/"),
		http:       NewAPIService(opts.HTTPClient, opts.Client),
		logger:     opts.Logger,
	}
}

// Name returns the service name.
func (y *YouTubeService) Name() string {
	return "YouTube"
}

// Mode reports which backend resolves links: "api" or "scrape".
func (y *YouTubeService) Mode() string {
	if y.apiKey != "" {
		return "api"
	}
	return "scrape"
}

// VideoLink searches for "<title> <artist>" and returns the watch URL of the first hit.
func (y *YouTubeService) VideoLink(ctx context.Context, title, artist string) (string, error) {
	query := strings.TrimSpace(title + " " + artist)
	if query == "" {
		return "", fmt.Errorf("%w: empty video query", shared.ErrInvalidArgument)
	}

	var (
		id  string
		err error
	)
	if y.apiKey != "" {
		id, err = y.searchAPI(ctx, query)
	} else {
		id, err = y.searchPage(ctx, query)
	}
	if err != nil {
		y.logger.Debug("video lookup failed", "query", query, "mode", y.Mode(), "error", err)
		return "", err
	}

	return WatchURL(id), nil
}

// WatchURL returns the canonical watch URL for a video id.
func WatchURL(id string) string {
	return youtubeWebBaseURL + "/watch?v=" + url.QueryEscape(id)
}

func (y *YouTubeService) searchAPI(ctx context.Context, query string) (string, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("type", "video")
	params.Set("maxResults", "1")
	params.Set("q", query)
	params.Set("key", y.apiKey)

	var resp youtubeSearchResponse
	if err := y.http.GetJSON(ctx, y.apiBaseURL+"/search?"+params.Encode(), nil, &resp); err != nil {
		return "", err
	}

	for _, item := range resp.Items {
		if item.ID.VideoID != "" {
			return item.ID.VideoID, nil
		}
	}
	return "", fmt.Errorf("%w: no video for %q", shared.ErrNoMatch, query)
}

func (y *YouTubeService) searchPage(ctx context.Context, query string) (string, error) {
	params := url.Values{}
	params.Set("search_query", query)

	header := http.Header{"Accept-Language": {"en-US,en;q=0.9"}}
	resp, err := y.http.Get(ctx, y.webBaseURL+"/results?"+params.Encode(), header)
	if err != nil {
		return "", err
	}

	m := videoIDPattern.FindSubmatch(resp.Body)
	if m == nil {
		return "", fmt.Errorf("%w: no video for %q", shared.ErrNoMatch, query)
	}
	return string(m[1]), nil
}
