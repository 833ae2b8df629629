package video

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-dashboard/internal/models"
)

// Client fetches video cards from the third-party video API. Responses are
// cached in Redis so the provider is hit at most once per TTL.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	rdb        *redis.Client
	cacheTTL   time.Duration
}

// NewClient creates a video API client. rdb may be nil to disable caching.
func NewClient(baseURL, apiKey string, rdb *redis.Client, cacheTTL time.Duration) *Client {
	if cacheTTL <= 0 {
		cacheTTL = 15 * time.Minute
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		rdb:        rdb,
		cacheTTL:   cacheTTL,
	}
}

const cacheKey = "videos:fleet"

// Videos returns up to limit video cards. A missing base URL yields an
// empty list; provider failures return an error the caller degrades on.
func (c *Client) Videos(ctx context.Context, limit int) ([]models.Video, error) {
	if c.baseURL == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 5
	}

	if cached := c.fromCache(ctx); cached != nil {
		return clip(cached, limit), nil
	}

	url := fmt.Sprintf("%s/videos?topic=fleet&limit=%d", c.baseURL, limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("video api request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("video api status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var obj struct {
		Videos []models.Video `json:"videos"`
	}
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil, fmt.Errorf("video api response invalid: %w", err)
	}

	c.toCache(ctx, obj.Videos)
	return clip(obj.Videos, limit), nil
}

func clip(videos []models.Video, limit int) []models.Video {
	if len(videos) > limit {
		return videos[:limit]
	}
	return videos
}

func (c *Client) fromCache(ctx context.Context) []models.Video {
	if c.rdb == nil {
		return nil
	}
	data, err := c.rdb.Get(ctx, cacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.WithError(err).Warn("Video cache read failed")
		}
		return nil
	}
	var videos []models.Video
	if err := json.Unmarshal(data, &videos); err != nil {
		c.rdb.Del(ctx, cacheKey)
		return nil
	}
	return videos
}

func (c *Client) toCache(ctx context.Context, videos []models.Video) {
	if c.rdb == nil || len(videos) == 0 {
		return
	}
	data, err := json.Marshal(videos)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, cacheKey, data, c.cacheTTL).Err(); err != nil {
		log.WithError(err).Warn("Video cache write failed")
	}
}
