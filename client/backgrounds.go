package client

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"whisperstudio/config"
	"whisperstudio/types"
)

// ListBackgrounds fetches the backgrounds known to the backend.
// Names and paths are zipped by index; if the arrays differ in length the
// result is truncated to the shorter one.
func (c *Client) ListBackgrounds(ctx context.Context) ([]types.Background, error) {
	var data types.BackgroundListResponse
	err := c.doJSON(ctx, request{
		op:     MsgListBackgrounds,
		method: http.MethodGet,
		path:   config.PathAvailableBackgrounds,
	}, &data)
	if err != nil {
		return nil, err
	}

	return ZipBackgrounds(data), nil
}

// ZipBackgrounds pairs names with paths index by index
func ZipBackgrounds(data types.BackgroundListResponse) []types.Background {
	n := min(len(data.Backgrounds), len(data.Paths))
	if len(data.Backgrounds) != len(data.Paths) {
		log.Printf("⚠️  Background listing is misaligned (%d names, %d paths); keeping %d",
			len(data.Backgrounds), len(data.Paths), n)
	}

	backgrounds := make([]types.Background, n)
	for i := 0; i < n; i++ {
		backgrounds[i] = types.Background{
			Name: data.Backgrounds[i],
			Path: data.Paths[i],
		}
	}
	return backgrounds
}

// DownloadBackground asks the backend to download a new background from url
func (c *Client) DownloadBackground(ctx context.Context, sourceURL string) (*types.DownloadResponse, error) {
	var data types.DownloadResponse
	err := c.doJSON(ctx, request{
		op:     MsgDownloadBackground,
		method: http.MethodGet,
		path:   config.PathDownloadVideo + "?url=" + url.QueryEscape(sourceURL),
	}, &data)
	if err != nil {
		return nil, err
	}
	return &data, nil
}

// BackgroundURL builds the playback URL for a background. The timestamp is
// appended as a cache buster so a re-downloaded file with the same name is
// never served stale.
func (c *Client) BackgroundURL(name string, t time.Time) string {
	return c.baseURL + config.PathBackground + url.PathEscape(name) +
		"?t=" + strconv.FormatInt(t.UnixMilli(), 10)
}

// StreamBackground opens the background stream, forwarding an optional Range
// header. The caller must close the response body.
func (c *Client) StreamBackground(ctx context.Context, name, rangeHeader string) (*http.Response, error) {
	r := request{
		op:     MsgStreamBackground,
		method: http.MethodGet,
		path:   config.PathBackground + url.PathEscape(name),
	}
	if rangeHeader != "" {
		r.header = http.Header{"Range": []string{rangeHeader}}
	}
	return c.do(ctx, r)
}
