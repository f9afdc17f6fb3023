package client

import (
	"net/http"
	"strings"
	"time"

	"whisperstudio/config"
)

// Client is a thin HTTP client for the media backend API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new backend client. An empty baseURL falls back to
// STUDIO_BACKEND_URL or the local default, a zero timeout disables it.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = config.GetEnvOrDefault("STUDIO_BACKEND_URL", config.DefaultBackendURL)
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// NewClientWithHTTP creates a client around a caller-supplied *http.Client
func NewClientWithHTTP(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// BaseURL returns the backend base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}
