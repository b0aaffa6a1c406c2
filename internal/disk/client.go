package disk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/stormozov/vkdisk/pkg/logger"
)

// FileRecord is one entry of the cloud listing.
type FileRecord struct {
	Path        string    `json:"path"`
	Name        string    `json:"name"`
	Created     time.Time `json:"created"`
	Size        int64     `json:"size"`
	PreviewURL  string    `json:"preview"`
	DownloadURL string    `json:"file"`
}

// Link is the acknowledgment returned by the upload operation.
type Link struct {
	Href   string `json:"href"`
	Method string `json:"method"`
}

// TokenSource yields the OAuth token attached to each request, read at
// call time so a replaced token is picked up on the next call.
type TokenSource interface {
	Token() (string, error)
}

// Client talks to the disk-resource API. All three operations share one
// request primitive; the remote API expects parameters in the query
// string for every method, including POST and DELETE.
type Client struct {
	base       string
	prefix     string
	tokens     TokenSource
	httpClient *http.Client
}

// NewClient creates a cloud storage client rooted at base (e.g.
// https://cloud-api.yandex.net/v1/disk). prefix namespaces the files this
// application manages inside the account.
func NewClient(base, prefix string, tokens TokenSource) *Client {
	return &Client{
		base:       base,
		prefix:     prefix,
		tokens:     tokens,
		httpClient: &http.Client{},
	}
}

// Prefix returns the file-name prefix used to namespace uploads.
func (c *Client) Prefix() string {
	return c.prefix
}

// Upload asks the cloud to fetch sourceURL and store it under the
// prefixed destination path.
func (c *Client) Upload(ctx context.Context, destPath, sourceURL string) (*Link, error) {
	params := url.Values{}
	params.Set("path", c.prefix+destPath)
	params.Set("url", sourceURL)

	var ack Link
	if err := c.do(ctx, http.MethodPost, "/resources/upload", params, &ack); err != nil {
		return nil, err
	}
	logger.Debug("Upload accepted", "path", c.prefix+destPath)
	return &ack, nil
}

// Remove deletes the file stored at path.
func (c *Client) Remove(ctx context.Context, filePath string) error {
	params := url.Values{}
	params.Set("path", filePath)
	return c.do(ctx, http.MethodDelete, "/resources", params, nil)
}

// ListRecent returns the most recently uploaded files of the given media
// type, reduced to the ones this application manages (prefix match).
func (c *Client) ListRecent(ctx context.Context, limit int, mediaType string) ([]FileRecord, error) {
	params := url.Values{}
	params.Set("limit", fmt.Sprint(limit))
	params.Set("media_type", mediaType)

	var listing struct {
		Items []FileRecord `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, "/resources/last-uploaded", params, &listing); err != nil {
		return nil, err
	}

	records := make([]FileRecord, 0, len(listing.Items))
	for _, item := range listing.Items {
		if strings.HasPrefix(item.Name, c.prefix) {
			records = append(records, item)
		}
	}
	return records, nil
}

// Download fetches the signed download URL and saves the body into dir.
// The file name is the last URL path segment. Returns the saved path.
func (c *Client) Download(ctx context.Context, downloadURL, dir string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build download request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("download request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &APIError{StatusCode: resp.StatusCode, Message: resp.Status}
	}

	name := downloadName(downloadURL)
	target := filepath.Join(dir, name)

	out, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", target, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		os.Remove(target)
		return "", fmt.Errorf("failed to write %s: %w", target, err)
	}
	return target, nil
}

// do is the shared request primitive: method + URL + query parameters +
// OAuth header. Application-level failures (non-2xx) come back as
// *APIError; transport failures are wrapped as plain errors.
func (c *Client) do(ctx context.Context, method, apiPath string, params url.Values, out interface{}) error {
	token, err := c.tokens.Token()
	if err != nil {
		return err
	}

	requestURL := c.base + apiPath
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build %s %s request: %w", method, apiPath, err)
	}
	req.Header.Set("Authorization", "OAuth "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s request failed: %w", method, apiPath, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s %s response: %w", method, apiPath, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: resp.Status}
		// The error body carries message/description/error fields when
		// the failure is application-level.
		_ = json.Unmarshal(body, apiErr)
		return apiErr
	}

	if out != nil && len(body) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to decode %s %s response: %w", method, apiPath, err)
		}
	}
	return nil
}

func downloadName(downloadURL string) string {
	if u, err := url.Parse(downloadURL); err == nil {
		if name := u.Query().Get("filename"); name != "" {
			return name
		}
		return path.Base(u.Path)
	}
	return path.Base(downloadURL)
}
