// Package geo fetches locator-map images for entities from Wikidata and
// Wikimedia Commons.
package geo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/coocood/freecache"
	json "github.com/goccy/go-json"
	"github.com/sirupsen/logrus"

	"tg_covid_bot/internal/logging"
)

const (
	defaultSparqlURL = "https://query.wikidata.org/sparql"
	worldMapURL      = "https://commons.wikimedia.org/wiki/Special:FilePath/COVID-19%20Outbreak%20World%20Map.svg?width=1280"

	requestTimeout  = 20 * time.Second
	cacheTTLSeconds = 6 * 3600
	cacheSizeBytes  = 32 * 1024 * 1024
	maxImageBytes   = 10 * 1024 * 1024

	// P297 is the ISO 3166-1 alpha-2 code, P242 the locator map image.
	locatorQuery = `SELECT ?map WHERE { ?country wdt:P297 "%s" . ?country wdt:P242 ?map } LIMIT 1`
)

type sparqlResponse struct {
	Results struct {
		Bindings []map[string]struct {
			Value string `json:"value"`
		} `json:"bindings"`
	} `json:"results"`
}

// Client resolves and downloads map images.
type Client struct {
	sparqlURL string
	http      *http.Client
	cache     *freecache.Cache
	logger    *logrus.Entry
}

// NewClient constructs a map-image client.
func NewClient(logger *logrus.Entry) *Client {
	if logger == nil {
		logger = logging.Logger()
	}

	return &Client{
		sparqlURL: defaultSparqlURL,
		http:      &http.Client{Timeout: requestTimeout},
		cache:     freecache.NewCache(cacheSizeBytes),
		logger:    logger,
	}
}

// CountryMapImage returns the locator map image bytes for an ISO2 code, or
// (nil, nil) when Wikidata has no map for it.
func (c *Client) CountryMapImage(ctx context.Context, iso2 string) ([]byte, error) {
	if c == nil || c.http == nil {
		return nil, errors.New("geo client is not initialized")
	}
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	iso2 = strings.ToUpper(strings.TrimSpace(iso2))
	if len(iso2) != 2 {
		return nil, nil
	}

	imageURL, err := c.locatorMapURL(ctx, iso2)
	if err != nil {
		return nil, err
	}
	if imageURL == "" {
		return nil, nil
	}

	return c.fetchImage(ctx, imageURL)
}

// WorldMapImage returns the fixed world outbreak map.
func (c *Client) WorldMapImage(ctx context.Context) ([]byte, error) {
	if c == nil || c.http == nil {
		return nil, errors.New("geo client is not initialized")
	}
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	return c.fetchImage(ctx, worldMapURL)
}

func (c *Client) locatorMapURL(ctx context.Context, iso2 string) (string, error) {
	cacheKey := []byte("locator:" + iso2)
	if cached, err := c.cache.Get(cacheKey); err == nil {
		return string(cached), nil
	}

	query := fmt.Sprintf(locatorQuery, iso2)
	reqURL := c.sparqlURL + "?format=json&query=" + url.QueryEscape(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("build sparql request: %w", err)
	}
	req.Header.Set("Accept", "application/sparql-results+json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("query wikidata: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("query wikidata: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return "", fmt.Errorf("read sparql response: %w", err)
	}

	var parsed sparqlResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode sparql response: %w", err)
	}

	if len(parsed.Results.Bindings) == 0 {
		c.logger.WithFields(logging.Fields{
			"event":  "geo_no_map",
			"entity": iso2,
		}).Debug("no locator map on wikidata")
		return "", nil
	}

	binding, ok := parsed.Results.Bindings[0]["map"]
	if !ok || binding.Value == "" {
		return "", nil
	}

	imageURL := binding.Value + "?width=1280"
	_ = c.cache.Set(cacheKey, []byte(imageURL), cacheTTLSeconds)

	return imageURL, nil
}

func (c *Client) fetchImage(ctx context.Context, imageURL string) ([]byte, error) {
	cacheKey := []byte("image:" + imageURL)
	if cached, err := c.cache.Get(cacheKey); err == nil {
		return cached, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build image request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch map image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch map image: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("read map image: %w", err)
	}

	_ = c.cache.Set(cacheKey, body, cacheTTLSeconds)

	return body, nil
}
