package main

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/theoremus-urban-solutions/gtfs-shape-validator/gtfsrt"
)

// fetcher reads feeds from URLs or local files.
// This is CLI-specific logic and is not part of the core library.
type fetcher struct {
	client *gtfsrt.Client
}

func newFetcher(timeout time.Duration) *fetcher {
	return &fetcher{client: gtfsrt.NewClient(timeout)}
}

// fetch returns nil if urlOrPath is empty (allows optional feeds).
func (f *fetcher) fetch(ctx context.Context, urlOrPath string) ([]byte, error) {
	if urlOrPath == "" {
		return nil, nil
	}
	if !isURL(urlOrPath) {
		return os.ReadFile(urlOrPath)
	}
	return f.client.Fetch(ctx, urlOrPath)
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
