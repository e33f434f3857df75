// Package mapillary implements the client for the Mapillary v4 Graph
// API, the external index of street-level photographs.
package mapillary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/paulmach/orb"
	"golang.org/x/sync/semaphore"
)

const (
	defaultBaseURL = "https://graph.mapillary.com"
	requestTimeout = 10 * time.Second

	// maxConcurrentRequests caps in-flight upstream calls process-wide;
	// the image index is rate-limited and all sessions share the budget
	maxConcurrentRequests = 4

	// imageFields is the fixed field set requested for every image
	imageFields = "id,captured_at,compass_angle,thumb_2048_url,thumb_1024_url,thumb_256_url"
)

// ErrNoToken indicates the image index credential is not configured
var ErrNoToken = errors.New("mapillary access token is not configured")

// UpstreamError is a non-success status from the image index
type UpstreamError struct {
	StatusCode int
	Status     string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("image index returned %s", e.Status)
}

// DecodeError is a response body that did not match the expected schema
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode image index response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Image is one validated record from the image index
type Image struct {
	ID           string
	CapturedAt   *time.Time
	CompassAngle *float64
	Thumb2048URL string
	Thumb1024URL string
	Thumb256URL  string
}

// BestThumbnail returns the highest-resolution thumbnail URL present,
// or an empty string when the record carries none
func (img Image) BestThumbnail() string {
	if img.Thumb2048URL != "" {
		return img.Thumb2048URL
	}
	if img.Thumb1024URL != "" {
		return img.Thumb1024URL
	}
	return img.Thumb256URL
}

// Client queries the Mapillary Graph API for images inside a bounding box
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
	sem        *semaphore.Weighted
}

// New creates a client. The token may be empty; every search then fails
// with ErrNoToken.
func New(token string) *Client {
	return NewWithBaseURL(token, defaultBaseURL)
}

// NewWithBaseURL creates a client against a non-default API endpoint
func NewWithBaseURL(token, baseURL string) *Client {
	return &Client{
		token:      token,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
		sem:        semaphore.NewWeighted(maxConcurrentRequests),
	}
}

// SearchImages returns the images the index holds inside the bounding
// box, up to limit records. The context cancels both the wait for a
// request slot and the request itself.
func (c *Client) SearchImages(ctx context.Context, bound orb.Bound, limit int) ([]Image, error) {
	if c.token == "" {
		return nil, ErrNoToken
	}

	if err := c.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer c.sem.Release(1)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildURL(bound, limit), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build image index request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image index request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	var apiResp imagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, &DecodeError{Err: err}
	}

	images := make([]Image, 0, len(apiResp.Data))
	for _, record := range apiResp.Data {
		images = append(images, record.toImage())
	}
	return images, nil
}

func (c *Client) buildURL(bound orb.Bound, limit int) string {
	params := url.Values{}
	params.Set("access_token", c.token)
	params.Set("fields", imageFields)
	params.Set("bbox", fmt.Sprintf("%f,%f,%f,%f",
		bound.Min[0], bound.Min[1], bound.Max[0], bound.Max[1]))
	params.Set("limit", strconv.Itoa(limit))

	return fmt.Sprintf("%s/images?%s", c.baseURL, params.Encode())
}

// --- Graph API response shapes ---

type imagesResponse struct {
	Data []imageRecord `json:"data"`
}

type imageRecord struct {
	ID           string   `json:"id"`
	CapturedAt   *int64   `json:"captured_at"`
	CompassAngle *float64 `json:"compass_angle"`
	Thumb2048URL string   `json:"thumb_2048_url"`
	Thumb1024URL string   `json:"thumb_1024_url"`
	Thumb256URL  string   `json:"thumb_256_url"`
}

func (r imageRecord) toImage() Image {
	img := Image{
		ID:           r.ID,
		CompassAngle: r.CompassAngle,
		Thumb2048URL: r.Thumb2048URL,
		Thumb1024URL: r.Thumb1024URL,
		Thumb256URL:  r.Thumb256URL,
	}
	if r.CapturedAt != nil {
		t := time.UnixMilli(*r.CapturedAt).UTC()
		img.CapturedAt = &t
	}
	return img
}
