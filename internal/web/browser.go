package web

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/pkg/browser"
)

const (
	googleSearchURL   = "https://www.google.com/search?q="
	youtubeResultsURL = "https://www.youtube.com/results?search_query="
	youtubeWatchURL   = "https://www.youtube.com/watch?v="
)

// Browser opens URLs in the user's default browser.
type Browser struct{}

func NewBrowser() *Browser { return &Browser{} }

func (Browser) Open(u string) error {
	if err := browser.OpenURL(u); err != nil {
		return fmt.Errorf("open %s: %w", u, err)
	}
	return nil
}

// NormalizeURL prefixes https:// unless the address already names an http
// scheme.
func NormalizeURL(u string) string {
	u = strings.TrimSpace(u)
	if strings.HasPrefix(strings.ToLower(u), "http") {
		return u
	}
	return "https://" + u
}

func GoogleSearchURL(query string) string {
	return googleSearchURL + url.QueryEscape(query)
}

func YouTubeResultsURL(query string) string {
	return youtubeResultsURL + url.QueryEscape(query)
}

func YouTubeWatchURL(id string) string {
	return youtubeWatchURL + id
}
