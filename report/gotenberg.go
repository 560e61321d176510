// Package report renders ledger reports into printable PDF documents
// through the external Gotenberg service.
package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// Client calls the Gotenberg HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a client for the Gotenberg instance at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Ping reports whether the Gotenberg service answers its health check.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("gotenberg health returned status %d", resp.StatusCode)
	}
	return nil
}

// RenderHTML converts report HTML into an A4 portrait PDF. The chromium
// route requires the page to be uploaded as index.html.
func (c *Client) RenderHTML(ctx context.Context, html string) ([]byte, error) {
	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)
	page, err := form.CreateFormFile("files", "index.html")
	if err != nil {
		return nil, err
	}
	if _, err := io.WriteString(page, html); err != nil {
		return nil, err
	}
	for field, value := range map[string]string{
		"paperWidth":   "8.27",
		"paperHeight":  "11.69",
		"marginTop":    "0.5",
		"marginBottom": "0.5",
	} {
		if err := form.WriteField(field, value); err != nil {
			return nil, err
		}
	}
	if err := form.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/forms/chromium/convert/html", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("gotenberg convert returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
