// Package blob uploads files to an external object-storage service over its
// REST API and hands back public URLs.
package blob

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Config holds the storage service connection settings.
type Config struct {
	// BaseURL is the storage API root, e.g. https://project.example.co/storage/v1.
	BaseURL string
	// Bucket is the target bucket name.
	Bucket string
	// ServiceKey authorizes uploads.
	ServiceKey string
	// Timeout bounds a single upload request. Zero means 30s.
	Timeout time.Duration
}

// Client uploads objects into a single bucket.
type Client struct {
	baseURL    string
	bucket     string
	serviceKey string
	http       *http.Client
}

// NewClient creates a storage client with an instrumented HTTP transport.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		bucket:     cfg.Bucket,
		serviceKey: cfg.ServiceKey,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Upload stores the object under the given path and returns its public URL.
// Paths never overwrite: the service rejects duplicates and callers generate
// unique names.
func (c *Client) Upload(ctx context.Context, objectPath, contentType string, body io.Reader) (string, error) {
	uploadURL := c.baseURL + "/object/" + c.bucket + "/" + escapePath(objectPath)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, body)
	if err != nil {
		return "", errors.Wrap(err, "build upload request")
	}
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Cache-Control", "max-age=3600")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "upload object")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", errors.Errorf("upload object: %s: %s", resp.Status, strings.TrimSpace(string(msg)))
	}

	return c.PublicURL(objectPath), nil
}

// PublicURL returns the unauthenticated download URL for an object.
func (c *Client) PublicURL(objectPath string) string {
	return c.baseURL + "/object/public/" + c.bucket + "/" + escapePath(objectPath)
}

// escapePath escapes each path segment, keeping the separators.
func escapePath(p string) string {
	segments := strings.Split(p, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
