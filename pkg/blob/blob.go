package blob

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Store uploads publicly readable objects and returns their URL. Car
// images are the only consumer.
type Store interface {
	Put(ctx context.Context, path string, data []byte, contentType string) (string, error)
}

type httpStore struct {
	endpoint string
	token    string
	client   *http.Client
}

// NewHTTPStore talks to the hosted blob API: an authenticated PUT per
// object, JSON body back with the public URL.
func NewHTTPStore(endpoint, token string) Store {
	return &httpStore{
		endpoint: endpoint,
		token:    token,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

type putResponse struct {
	URL string `json:"url"`
}

func (s *httpStore) Put(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	u := fmt.Sprintf("%s/%s", s.endpoint, url.PathEscape(path))

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, u, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("build blob request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", contentType)
	// Random suffix avoids collisions between same-named uploads.
	q := req.URL.Query()
	q.Set("addRandomSuffix", "1")
	req.URL.RawQuery = q.Encode()

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload blob %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("upload blob %s: status %d: %s", path, resp.StatusCode, string(body))
	}

	var pr putResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return "", fmt.Errorf("decode blob response: %w", err)
	}
	if pr.URL == "" {
		return "", fmt.Errorf("blob response for %s missing url", path)
	}

	return pr.URL, nil
}
