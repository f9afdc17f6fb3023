package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"whisperstudio/config"
)

// request describes a single backend call
type request struct {
	op          string
	method      string
	path        string // already escaped, may carry a query string
	body        io.Reader
	contentType string
	header      http.Header
}

// do executes the request and returns the response if the status is 2xx.
// On any other status the body is drained into a StatusError.
// The caller must close the returned body.
func (c *Client) do(ctx context.Context, r request) (*http.Response, error) {
	url := c.baseURL + r.path

	req, err := http.NewRequestWithContext(ctx, r.method, url, r.body)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create request: %w", r.op, err)
	}
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	for k, vs := range r.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to send request: %w", r.op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, config.MaxErrorBody))
		return nil, &StatusError{Op: r.op, StatusCode: resp.StatusCode, Body: string(bodyBytes)}
	}

	return resp, nil
}

// doJSON performs the request and decodes the response into result.
// If result is nil, the response body is discarded.
func (c *Client) doJSON(ctx context.Context, r request, result interface{}) error {
	resp, err := c.do(ctx, r)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if result == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%s: failed to decode response: %w", r.op, err)
	}
	return nil
}

// doBytes performs the request and returns the whole response body
func (c *Client) doBytes(ctx context.Context, r request) ([]byte, error) {
	resp, err := c.do(ctx, r)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read response: %w", r.op, err)
	}
	return data, nil
}
