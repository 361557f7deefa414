// Package elevation looks up terrain elevation at record centroids via the
// Open-Meteo elevation API, with an in-memory LRU cache in front. Enrichment
// is best-effort; lookup failures never fail a record build.
package elevation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/aeriscope/cloudcatalog/internal/observability"
)

// Client implements domain.ElevationProvider against the Open-Meteo
// elevation API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an elevation API client.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// Elevation returns the terrain elevation in meters at the given point.
func (c *Client) Elevation(ctx context.Context, lat, lon float64) (float64, error) {
	params := url.Values{
		"latitude":  {fmt.Sprintf("%.6f", lat)},
		"longitude": {fmt.Sprintf("%.6f", lon)},
	}

	start := time.Now()
	value, err := c.doRequest(ctx, c.baseURL+"?"+params.Encode())
	c.metrics.ElevationAPIDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.ElevationRequests.WithLabelValues("error").Inc()
		return 0, err
	}
	c.metrics.ElevationRequests.WithLabelValues("success").Inc()
	return value, nil
}

func (c *Client) doRequest(ctx context.Context, fullURL string) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("elevation request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("elevation API error: status %d: %s", resp.StatusCode, body)
	}

	var apiResp response
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return 0, fmt.Errorf("decode response: %w", err)
	}
	if len(apiResp.Elevation) == 0 {
		return 0, fmt.Errorf("elevation API returned no values")
	}
	return apiResp.Elevation[0], nil
}

// Open-Meteo API response type.

type response struct {
	Elevation []float64 `json:"elevation"`
}
