// Package jsonsrc reads the startup snapshot as a JSON document from a local
// file or an HTTP endpoint.
package jsonsrc

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"os"

	"github.com/vovakirdan/wirechat-inbox/internal/store"
)

// File reads the snapshot from a path on disk.
type File struct {
	Path string
}

// NewFile creates a file-backed source.
func NewFile(path string) *File {
	return &File{Path: path}
}

// Snapshot implements store.Source.
func (f *File) Snapshot(ctx context.Context) (*store.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fh, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer fh.Close()

	return store.Decode(fh)
}

// HTTP fetches the snapshot with a GET request.
type HTTP struct {
	URL    string
	Client *stdhttp.Client
}

// NewHTTP creates an HTTP source. A nil client uses http.DefaultClient.
func NewHTTP(url string, client *stdhttp.Client) *HTTP {
	if client == nil {
		client = stdhttp.DefaultClient
	}
	return &HTTP{URL: url, Client: client}
}

// Snapshot implements store.Source.
func (h *HTTP) Snapshot(ctx context.Context) (*store.Snapshot, error) {
	req, err := stdhttp.NewRequestWithContext(ctx, stdhttp.MethodGet, h.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build snapshot request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch snapshot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != stdhttp.StatusOK {
		return nil, fmt.Errorf("fetch snapshot: unexpected status %d", resp.StatusCode)
	}
	return store.Decode(resp.Body)
}
