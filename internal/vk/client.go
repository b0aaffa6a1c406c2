package vk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"

	"github.com/google/uuid"
	"github.com/stormozov/vkdisk/pkg/logger"
)

// ImageDescriptor is one profile photo, reduced to its largest size variant.
type ImageDescriptor struct {
	ID     int64  `json:"id"`
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Size is one size variant of a photo as the API reports it.
type Size struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type photoRecord struct {
	ID    int64  `json:"id"`
	Sizes []Size `json:"sizes"`
}

// TokenSource yields the access token attached to each request. The token
// is read at call time, so a refreshed token is picked up on the next call.
type TokenSource interface {
	Token() (string, error)
}

// Client fetches profile photos from the VK API.
type Client struct {
	base       string
	apiVersion string
	tokens     TokenSource
	httpClient *http.Client
}

// NewClient creates a photo API client rooted at base (e.g.
// https://api.vk.com/method).
func NewClient(base, apiVersion string, tokens TokenSource) *Client {
	return &Client{
		base:       base,
		apiVersion: apiVersion,
		tokens:     tokens,
		httpClient: &http.Client{},
	}
}

var ownerIDPattern = regexp.MustCompile(`^\d+$`)

// ValidateOwnerID checks that the profile identifier is a plain integer.
func ValidateOwnerID(id string) error {
	if !ownerIDPattern.MatchString(id) {
		return fmt.Errorf("owner id must be an integer (e.g. 123456), got %q", id)
	}
	return nil
}

// FetchImages requests the profile album of ownerID and returns one
// descriptor per photo, each carrying the largest size variant.
func (c *Client) FetchImages(ctx context.Context, ownerID string) ([]ImageDescriptor, error) {
	token, err := c.tokens.Token()
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("owner_id", ownerID)
	params.Set("album_id", "profile")
	params.Set("access_token", token)
	params.Set("v", c.apiVersion)

	requestID := uuid.NewString()
	requestURL := c.base + "/photos.get?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build photos.get request: %w", err)
	}

	logger.Debug("Requesting profile photos", "request_id", requestID, "owner_id", ownerID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("photos.get request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read photos.get response: %w", err)
	}

	images, err := parsePhotosResponse(body)
	if err != nil {
		return nil, err
	}

	logger.Debug("Received profile photos", "request_id", requestID, "count", len(images))
	return images, nil
}

// parsePhotosResponse validates the payload structure before any field
// access and reduces each record to its largest size variant.
func parsePhotosResponse(body []byte) ([]ImageDescriptor, error) {
	var envelope struct {
		Response json.RawMessage `json:"response"`
		Error    *RemoteError    `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidResponse, err)
	}
	if envelope.Error != nil {
		return nil, envelope.Error
	}
	if len(envelope.Response) == 0 {
		return nil, fmt.Errorf("%w: missing response envelope", ErrInvalidResponse)
	}

	var payload struct {
		Items json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(envelope.Response, &payload); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidResponse, err)
	}

	items := bytes.TrimSpace(payload.Items)
	if !bytes.HasPrefix(items, []byte("[")) {
		return nil, fmt.Errorf("%w: items is not a list", ErrInvalidResponse)
	}

	var records []photoRecord
	if err := json.Unmarshal(items, &records); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidResponse, err)
	}

	images := make([]ImageDescriptor, 0, len(records))
	for _, record := range records {
		if len(record.Sizes) == 0 {
			continue
		}
		size := LargestSize(record.Sizes)
		images = append(images, ImageDescriptor{
			ID:     record.ID,
			URL:    size.URL,
			Width:  size.Width,
			Height: size.Height,
		})
	}
	return images, nil
}

// LargestSize returns the variant maximizing width*height. Ties keep the
// first-encountered variant.
func LargestSize(sizes []Size) Size {
	largest := sizes[0]
	for _, size := range sizes[1:] {
		if size.Width*size.Height > largest.Width*largest.Height {
			largest = size
		}
	}
	return largest
}
