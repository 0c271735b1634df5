package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// HTTP reads locations over http and https. It cannot create objects.
type HTTP struct {
	Client *http.Client
}

// Open implements Storage.
func (h *HTTP) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %q: %w", location, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %q: %w", location, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("failed to fetch %q: status %s", location, resp.Status)
	}
	return resp.Body, nil
}

// Create implements Storage and always fails.
func (h *HTTP) Create(_ context.Context, location string) (io.WriteCloser, error) {
	return nil, fmt.Errorf("%w: %s", ErrReadOnly, location)
}
