// file: internals/features/publish/service/wordpress_client.go
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

/* =========================================================
   WORDPRESS REST CLIENT

   wp-json/wp/v2 with an application password. Post creation
   is not idempotent on the WordPress side; the publisher
   guards against double submission, not this client.
   ========================================================= */

type WordpressPost struct {
	Title   string
	Content string
	Slug    string
	Excerpt string
}

type WordpressResult struct {
	PostID int64
	URL    string
}

type CMSClient interface {
	CreatePost(ctx context.Context, post WordpressPost) (*WordpressResult, error)
}

// transientError marks failures worth a bounded retry (network, 5xx, 429).
type transientError struct{ err error }

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

func IsTransient(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}

type WordpressClient struct {
	baseURL string
	user    string
	appPass string
	http    *http.Client
}

func NewWordpressClient(baseURL, user, appPass string) *WordpressClient {
	return &WordpressClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		user:    user,
		appPass: appPass,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type wpPostPayload struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Slug    string `json:"slug,omitempty"`
	Excerpt string `json:"excerpt,omitempty"`
	Status  string `json:"status"`
}

type wpPostResponse struct {
	ID   int64  `json:"id"`
	Link string `json:"link"`
}

func (c *WordpressClient) CreatePost(ctx context.Context, post WordpressPost) (*WordpressResult, error) {
	payload, err := json.Marshal(wpPostPayload{
		Title:   post.Title,
		Content: post.Content,
		Slug:    post.Slug,
		Excerpt: post.Excerpt,
		Status:  "publish",
	})
	if err != nil {
		return nil, fmt.Errorf("marshal post: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/wp-json/wp/v2/posts", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.user, c.appPass)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) {
			return nil, &transientError{fmt.Errorf("wordpress unreachable: %w", err)}
		}
		return nil, fmt.Errorf("wordpress request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	switch {
	case resp.StatusCode == http.StatusCreated || resp.StatusCode == http.StatusOK:
		var out wpPostResponse
		if err := json.Unmarshal(body, &out); err != nil {
			return nil, fmt.Errorf("decode wordpress response: %w", err)
		}
		if out.ID == 0 {
			return nil, fmt.Errorf("wordpress returned no post id")
		}
		return &WordpressResult{PostID: out.ID, URL: out.Link}, nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, &transientError{fmt.Errorf("wordpress %d: %s", resp.StatusCode, truncate(body, 200))}
	default:
		return nil, fmt.Errorf("wordpress rejected post (%d): %s", resp.StatusCode, truncate(body, 200))
	}
}

type wpMediaResponse struct {
	ID        int64  `json:"id"`
	SourceURL string `json:"source_url"`
}

// UploadMedia pushes a file into the WordPress media library.
func (c *WordpressClient) UploadMedia(ctx context.Context, filename, contentType string, data []byte) (*wpMediaResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/wp-json/wp/v2/media", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.user, c.appPass)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wordpress media upload: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wordpress media upload failed (%d): %s", resp.StatusCode, truncate(body, 200))
	}
	var out wpMediaResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode media response: %w", err)
	}
	return &out, nil
}

// GetPost fetches one post (read-only passthrough for the dashboard).
func (c *WordpressClient) GetPost(ctx context.Context, id int64) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/wp-json/wp/v2/posts/%d", c.baseURL, id), nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.user, c.appPass)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wordpress request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("wordpress post %d not found", id)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wordpress fetch failed (%d)", resp.StatusCode)
	}
	var out map[string]any
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode post: %w", err)
	}
	return out, nil
}

func truncate(b []byte, n int) string {
	s := string(b)
	if len(s) > n {
		return s[:n] + "…"
	}
	return s
}
