package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	log "log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
)

var (
	ErrNoVideo = errors.New("no video found")

	videoIDRe = regexp.MustCompile(`"videoId":"([A-Za-z0-9_-]{11})"|watch\?v=([A-Za-z0-9_-]{11})`)
)

// Opener is satisfied by Browser.
type Opener interface {
	Open(u string) error
}

// YouTube resolves a query to its first result and opens it, so playback
// starts on its own.
type YouTube struct {
	client  *http.Client
	opener  Opener
	baseURL string
}

func NewYouTube(client *http.Client, opener Opener) *YouTube {
	if client == nil {
		client = http.DefaultClient
	}
	return &YouTube{client: client, opener: opener, baseURL: youtubeResultsURL}
}

func (y *YouTube) Play(ctx context.Context, query string) error {
	id, err := y.FirstVideo(ctx, query)
	if err != nil {
		return err
	}

	watch := YouTubeWatchURL(id)
	log.Debug("Resolved video", "query", query, "url", watch)

	return y.opener.Open(watch)
}

// FirstVideo scrapes the results page for the first video id.
func (y *YouTube) FirstVideo(ctx context.Context, query string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, y.baseURL+url.QueryEscape(query), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := y.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch results: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch results: status %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return "", fmt.Errorf("read results: %w", err)
	}

	m := videoIDRe.FindStringSubmatch(string(body))
	if m == nil {
		return "", fmt.Errorf("%w for %q", ErrNoVideo, query)
	}

	return strings.TrimSpace(m[1] + m[2]), nil
}
