package web

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeURL(t *testing.T) {
	tests := map[string]string{
		"google.com":          "https://google.com",
		" github.com/x ":      "https://github.com/x",
		"http://example.org":  "http://example.org",
		"https://example.org": "https://example.org",
		"HTTPS://Example.org": "HTTPS://Example.org",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeURL(in), in)
	}
}

func TestSearchURLs(t *testing.T) {
	assert.Equal(t, "https://www.youtube.com/results?search_query=rick+roll", YouTubeResultsURL("rick roll"))
	assert.Equal(t, "https://www.google.com/search?q=cats+%26+dogs", GoogleSearchURL("cats & dogs"))
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", YouTubeWatchURL("dQw4w9WgXcQ"))
}

type recordingOpener struct{ opened []string }

func (r *recordingOpener) Open(u string) error {
	r.opened = append(r.opened, u)
	return nil
}

func newYouTube(t *testing.T, h http.HandlerFunc) (*YouTube, *recordingOpener) {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	o := &recordingOpener{}
	y := NewYouTube(srv.Client(), o)
	y.baseURL = srv.URL + "/results?search_query="
	return y, o
}

func TestYouTube_PlayOpensFirstResult(t *testing.T) {
	var query string
	y, o := newYouTube(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query().Get("search_query")
		io.WriteString(w, `<script>var ytInitialData = {"contents":[{"videoRenderer":{"videoId":"dQw4w9WgXcQ"}},{"videoRenderer":{"videoId":"yPYZpwSpKmA"}}]}</script>`)
	})

	require.NoError(t, y.Play(context.Background(), "rick roll"))

	assert.Equal(t, "rick roll", query)
	assert.Equal(t, []string{"https://www.youtube.com/watch?v=dQw4w9WgXcQ"}, o.opened)
}

func TestYouTube_WatchLinkFallback(t *testing.T) {
	y, _ := newYouTube(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<a href="/watch?v=yPYZpwSpKmA">Together Forever</a>`)
	})

	id, err := y.FirstVideo(context.Background(), "together forever")
	require.NoError(t, err)
	assert.Equal(t, "yPYZpwSpKmA", id)
}

func TestYouTube_NoResults(t *testing.T) {
	y, o := newYouTube(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<html>nothing here</html>`)
	})

	err := y.Play(context.Background(), "zzzz")
	assert.ErrorIs(t, err, ErrNoVideo)
	assert.Empty(t, o.opened)
}

func TestYouTube_BadStatus(t *testing.T) {
	y, _ := newYouTube(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := y.FirstVideo(context.Background(), "x")
	assert.Error(t, err)
}
