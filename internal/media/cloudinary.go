// Package media talks to the Cloudinary CDN: unsigned uploads for the
// admin panel and signed destroys for asset cleanup.
package media

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrMissingCredentials is returned for destroy calls when the API key
// or secret is not configured.
var ErrMissingCredentials = errors.New("missing cloudinary credentials")

// UploadResult is the subset of Cloudinary's upload response the app
// uses.
type UploadResult struct {
	PublicID     string `json:"public_id"`
	SecureURL    string `json:"secure_url"`
	Format       string `json:"format"`
	ResourceType string `json:"resource_type"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
}

// ProgressFunc receives upload progress as a 0-100 percentage.
type ProgressFunc func(percent int)

// Client wraps the Cloudinary REST API for one cloud.
type Client struct {
	cloudName    string
	uploadPreset string
	apiKey       string
	apiSecret    string

	httpClient *http.Client
	baseURL    string
	now        func() time.Time
}

// NewClient creates a Cloudinary client. apiKey and apiSecret are only
// needed for destroy calls; uploads use the unsigned preset.
func NewClient(cloudName, uploadPreset, apiKey, apiSecret string) *Client {
	return &Client{
		cloudName:    cloudName,
		uploadPreset: uploadPreset,
		apiKey:       apiKey,
		apiSecret:    apiSecret,
		httpClient:   &http.Client{Timeout: 60 * time.Second},
		baseURL:      "https://api.cloudinary.com",
		now:          time.Now,
	}
}

// Upload sends a file to the auto-detect upload endpoint and returns
// the hosted asset. folder is optional; onProgress is optional and is
// called with 0 before the request and 100 after the body is read.
func (c *Client) Upload(ctx context.Context, file io.Reader, filename, folder string, onProgress ProgressFunc) (*UploadResult, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("copy file: %w", err)
	}
	if err := writer.WriteField("upload_preset", c.uploadPreset); err != nil {
		return nil, fmt.Errorf("write preset field: %w", err)
	}
	if folder != "" {
		if err := writer.WriteField("folder", folder); err != nil {
			return nil, fmt.Errorf("write folder field: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1_1/%s/auto/upload", c.baseURL, c.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	if onProgress != nil {
		onProgress(0)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upload failed with status %d", resp.StatusCode)
	}

	var result UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}
	if onProgress != nil {
		onProgress(100)
	}
	return &result, nil
}

// Destroy deletes an asset by public id using the timestamp + secret
// signature scheme required by the destroy endpoint.
func (c *Client) Destroy(ctx context.Context, publicID string) error {
	if c.apiKey == "" || c.apiSecret == "" {
		return ErrMissingCredentials
	}

	timestamp := c.now().Unix()
	form := url.Values{}
	form.Set("public_id", publicID)
	form.Set("timestamp", strconv.FormatInt(timestamp, 10))
	form.Set("api_key", c.apiKey)
	form.Set("signature", signDestroy(publicID, timestamp, c.apiSecret))

	endpoint := fmt.Sprintf("%s/v1_1/%s/image/destroy", c.baseURL, c.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("destroy: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("destroy failed with status %d", resp.StatusCode)
	}

	var result struct {
		Result string `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode destroy response: %w", err)
	}
	if result.Result != "ok" && result.Result != "not found" {
		return fmt.Errorf("destroy result %q", result.Result)
	}
	return nil
}

// signDestroy computes sha1("public_id=<id>&timestamp=<ts><secret>"),
// hex encoded, as the destroy API expects.
func signDestroy(publicID string, timestamp int64, secret string) string {
	message := fmt.Sprintf("public_id=%s&timestamp=%d%s", publicID, timestamp, secret)
	sum := sha1.Sum([]byte(message))
	return hex.EncodeToString(sum[:])
}

var publicIDPattern = regexp.MustCompile(`/v\d+/(.+)\.\w+$`)

// ExtractPublicID pulls the public id out of a Cloudinary delivery URL.
// Returns "" when the URL does not look like one.
func ExtractPublicID(deliveryURL string) string {
	match := publicIDPattern.FindStringSubmatch(deliveryURL)
	if match == nil {
		return ""
	}
	return match[1]
}
