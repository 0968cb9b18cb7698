package content

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// FeedClient fetches recent posts from a Nitter-style feed mirror over
// HTTP.
type FeedClient struct {
	baseURL string
	client  *http.Client
}

// NewFeedClient creates a FeedClient for the given base URL.
func NewFeedClient(baseURL string) *FeedClient {
	return &FeedClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type feedResponse struct {
	Posts []Post `json:"posts"`
}

// Fetch retrieves up to count recent posts for a handle. A failed or
// empty fetch is the caller's cue for an informational empty result;
// there is no retry.
func (c *FeedClient) Fetch(ctx context.Context, handle string, count int) ([]Post, error) {
	endpoint := fmt.Sprintf("%s/api/users/%s/posts?limit=%d", c.baseURL, url.PathEscape(handle), count)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch posts for %s: %w", handle, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch posts for %s: unexpected status %d", handle, resp.StatusCode)
	}

	var payload feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode feed response for %s: %w", handle, err)
	}

	if len(payload.Posts) > count {
		payload.Posts = payload.Posts[:count]
	}
	return payload.Posts, nil
}
