package netcheck

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const DefaultTarget = "https://www.google.com"

// Latency times one GET against target.
func Latency(ctx context.Context, client *http.Client, target string, timeout time.Duration) (time.Duration, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return 0, err
	}

	start := time.Now()

	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("get %s: %w", target, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	return time.Since(start), nil
}
