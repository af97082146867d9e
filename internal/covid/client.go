// Package covid implements the client for the disease.sh-compatible
// statistics API. Responses are cached briefly so keyboard navigation does
// not hammer the upstream.
package covid

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/coocood/freecache"
	json "github.com/goccy/go-json"
	"github.com/sirupsen/logrus"

	"tg_covid_bot/internal/logging"
)

const (
	defaultTimeout  = 15 * time.Second
	cacheTTLSeconds = 600
	cacheSizeBytes  = 16 * 1024 * 1024
	maxBodyBytes    = 8 * 1024 * 1024
)

// Client talks to the statistics API.
type Client struct {
	baseURL string
	http    *http.Client
	cache   *freecache.Cache
	logger  *logrus.Entry
}

// NewClient constructs a Client for the given base URL.
func NewClient(baseURL string, logger *logrus.Entry) *Client {
	if logger == nil {
		logger = logging.Logger()
	}

	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
		cache:   freecache.NewCache(cacheSizeBytes),
		logger:  logger,
	}
}

// getJSON fetches a path and decodes the JSON body into out. It returns
// found=false without error when the API reports no data for the request
// (HTTP 404), which callers must surface as "no data", never as a failure.
func (c *Client) getJSON(ctx context.Context, path string, out interface{}) (bool, error) {
	if c == nil || c.http == nil {
		return false, errors.New("covid client is not initialized")
	}
	if ctx == nil {
		return false, errors.New("context is required")
	}

	key := []byte(path)
	if body, err := c.cache.Get(key); err == nil {
		if err := json.Unmarshal(body, out); err != nil {
			return false, fmt.Errorf("decode cached %s: %w", path, err)
		}
		return true, nil
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("get %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		c.logger.WithFields(logging.Fields{
			"event": "covid_api_no_data",
			"path":  path,
		}).Debug("statistics API returned 404")
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("get %s: unexpected status %d", path, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return false, fmt.Errorf("decode %s: %w", path, err)
	}

	if err := c.cache.Set(key, body, cacheTTLSeconds); err != nil {
		c.logger.WithFields(logging.Fields{
			"event": "covid_api_cache_skip",
			"path":  path,
		}).WithError(err).Debug("response not cached")
	}

	return true, nil
}
