package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gregjones/httpcache"
	"github.com/program-catalog-api/internal/cache"
	"github.com/program-catalog-api/internal/config"
	"github.com/program-catalog-api/internal/models"
	"github.com/rs/zerolog"
)

const untitled = "Untitled"

// YouTube talks to the YouTube Data API v3 over REST
type YouTube struct {
	client    *http.Client
	baseURL   string
	apiKey    string
	channelID string
	store     *cache.HTTPStore // nil without UseHTTPCache
	log       zerolog.Logger
}

// NewYouTube creates the YouTube strategy. Every request is bounded by
// cfg.Timeout. With UseHTTPCache the transport keeps up to
// cfg.HTTPCacheEntries responses and revalidates them with ETags.
func NewYouTube(cfg config.YouTubeConfig, log zerolog.Logger) *YouTube {
	var transport http.RoundTripper = http.DefaultTransport
	var store *cache.HTTPStore
	if cfg.UseHTTPCache {
		store = cache.NewHTTPStore(cfg.HTTPCacheEntries, cfg.HTTPCacheTTL)
		transport = httpcache.NewTransport(store)
	}
	return &YouTube{
		client:    &http.Client{Transport: transport, Timeout: cfg.Timeout},
		baseURL:   cfg.BaseURL,
		apiKey:    cfg.APIKey,
		channelID: cfg.ChannelID,
		store:     store,
		log:       log.With().Str("provider", "youtube").Logger(),
	}
}

type ytThumbnails struct {
	Default struct {
		URL string `json:"url"`
	} `json:"default"`
}

type ytSearchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title        string       `json:"title"`
			Thumbnails   ytThumbnails `json:"thumbnails"`
			ChannelTitle string       `json:"channelTitle"`
		} `json:"snippet"`
	} `json:"items"`
}

type ytVideosResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title        string       `json:"title"`
			Description  string       `json:"description"`
			Thumbnails   ytThumbnails `json:"thumbnails"`
			ChannelTitle string       `json:"channelTitle"`
			PublishedAt  string       `json:"publishedAt"`
		} `json:"snippet"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
		Statistics struct {
			ViewCount string `json:"viewCount"`
		} `json:"statistics"`
	} `json:"items"`
}

// Search lists channel videos matching query. Durations are not part of
// search results and are reported as 0.
func (y *YouTube) Search(ctx context.Context, query string, limit int) ([]models.SearchResult, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(limit))
	params.Set("type", "video")
	params.Set("fields", "items(id,snippet(title,thumbnails,channelTitle))")
	if y.channelID != "" {
		params.Set("channelId", y.channelID)
	}

	y.log.Debug().Str("query", query).Int("limit", limit).Msg("Searching videos")

	var resp ytSearchResponse
	if err := y.get(ctx, "search", params, &resp); err != nil {
		y.log.Error().Err(err).Str("query", query).Msg("Search failed")
		return nil, err
	}

	results := make([]models.SearchResult, 0, len(resp.Items))
	for _, item := range resp.Items {
		title := item.Snippet.Title
		if title == "" {
			title = untitled
		}
		results = append(results, models.SearchResult{
			ExternalID: item.ID.VideoID,
			Title:      title,
			Thumbnail:  item.Snippet.Thumbnails.Default.URL,
			Duration:   0,
			Provider:   models.ProviderYouTube,
		})
	}
	return results, nil
}

// FetchDetails loads a single video
func (y *YouTube) FetchDetails(ctx context.Context, externalID string) (*models.ProgramDetails, error) {
	params := url.Values{}
	params.Set("part", "snippet,contentDetails,statistics")
	params.Set("id", externalID)
	params.Set("fields", "items(id,snippet(title,description,thumbnails,channelTitle,publishedAt),contentDetails(duration),statistics(viewCount))")

	var resp ytVideosResponse
	if err := y.get(ctx, "videos", params, &resp); err != nil {
		y.log.Error().Err(err).Str("video_id", externalID).Msg("Fetch details failed")
		return nil, err
	}
	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("video %q: %w", externalID, models.ErrNotFound)
	}

	video := resp.Items[0]
	title := video.Snippet.Title
	if title == "" {
		title = untitled
	}
	uploadedAt := video.Snippet.PublishedAt
	if uploadedAt == "" {
		uploadedAt = time.Now().UTC().Format(time.RFC3339)
	}
	viewCount := video.Statistics.ViewCount
	if viewCount == "" {
		viewCount = "0"
	}

	return &models.ProgramDetails{
		ExternalID:      externalID,
		Title:           title,
		Description:     video.Snippet.Description,
		DurationSeconds: ParseISODuration(video.ContentDetails.Duration),
		Thumbnail:       video.Snippet.Thumbnails.Default.URL,
		Provider:        models.ProviderYouTube,
		SourceMetadata: models.NewYouTubeMetadata(models.YouTubeMetadata{
			VideoID:     externalID,
			Channel:     video.Snippet.ChannelTitle,
			UploadedAt:  uploadedAt,
			ViewCount:   viewCount,
			DurationISO: video.ContentDetails.Duration,
		}),
	}, nil
}

// get performs one API call and decodes the JSON body into out. Transport
// errors, timeouts and non-2xx statuses all become ErrProviderUnavailable.
func (y *YouTube) get(ctx context.Context, resource string, params url.Values, out any) error {
	params.Set("key", y.apiKey)
	endpoint := fmt.Sprintf("%s/%s?%s", y.baseURL, resource, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", models.ErrProviderUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := y.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: youtube %s: %v", models.ErrProviderUnavailable, resource, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: youtube %s returned %d: %s",
			models.ErrProviderUnavailable, resource, resp.StatusCode, body)
	}

	// read to EOF so httpcache stores the body
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read youtube %s: %v", models.ErrProviderUnavailable, resource, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode youtube %s: %v", models.ErrProviderUnavailable, resource, err)
	}
	return nil
}
