package attachment

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var (
	// ErrReleased is returned when a handle is used or released after release.
	ErrReleased = errors.New("preview handle released")
	// ErrUnknownHandle is returned for handles this registry never issued.
	ErrUnknownHandle = errors.New("unknown preview handle")
)

// DefaultPrefix is the URL prefix used when none is configured.
const DefaultPrefix = "blob:"

// Descriptor describes a preview handle the way a message's media refers to it.
type Descriptor struct {
	Handle    string
	URL       string
	Thumbnail string
	Filename  string
	SizeBytes int64
	Kind      Kind
}

// Registry issues preview handles for blobs and keeps their bytes reachable
// until the handle is released. It is safe for concurrent use since previews
// are served to the presentation layer while the session mutates.
type Registry struct {
	prefix string

	mu       sync.Mutex
	live     map[string]Blob
	released map[string]struct{}
}

// NewRegistry creates a registry whose preview URLs start with prefix.
func NewRegistry(prefix string) *Registry {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Registry{
		prefix:   prefix,
		live:     make(map[string]Blob),
		released: make(map[string]struct{}),
	}
}

// Create allocates a preview handle referencing the blob bytes. Thumbnails
// are the handle itself for images and videos; no content is inspected.
func (r *Registry) Create(blob Blob) (*Preview, error) {
	if blob.Name == "" {
		return nil, errors.New("attachment has no filename")
	}

	handle := uuid.NewString()
	kind := Classify(blob.Type)
	desc := Descriptor{
		Handle:    handle,
		URL:       r.prefix + handle,
		Filename:  blob.Name,
		SizeBytes: blob.Size,
		Kind:      kind,
	}
	if kind.Visual() {
		desc.Thumbnail = desc.URL
	}

	r.mu.Lock()
	r.live[handle] = blob
	r.mu.Unlock()

	return &Preview{reg: r, desc: desc}, nil
}

// Open returns the bytes behind a live handle.
func (r *Registry) Open(handle string) (Blob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if blob, ok := r.live[handle]; ok {
		return blob, nil
	}
	if _, ok := r.released[handle]; ok {
		return Blob{}, fmt.Errorf("open %s: %w", handle, ErrReleased)
	}
	return Blob{}, fmt.Errorf("open %s: %w", handle, ErrUnknownHandle)
}

// HandleFromURL extracts the handle from a preview URL issued by r.
func (r *Registry) HandleFromURL(url string) (string, bool) {
	handle, ok := strings.CutPrefix(url, r.prefix)
	if !ok || handle == "" {
		return "", false
	}
	return handle, true
}

// Live returns the number of unreleased handles.
func (r *Registry) Live() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.live)
}

func (r *Registry) release(handle string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.live[handle]; ok {
		delete(r.live, handle)
		r.released[handle] = struct{}{}
		return nil
	}
	if _, ok := r.released[handle]; ok {
		return fmt.Errorf("release %s: %w", handle, ErrReleased)
	}
	return fmt.Errorf("release %s: %w", handle, ErrUnknownHandle)
}

// Preview is the owning reference to one handle. Whoever holds it is
// responsible for calling Release exactly once.
type Preview struct {
	reg  *Registry
	desc Descriptor
}

// Descriptor returns the handle metadata.
func (p *Preview) Descriptor() Descriptor {
	return p.desc
}

// Release frees the handle. A second call returns ErrReleased.
func (p *Preview) Release() error {
	return p.reg.release(p.desc.Handle)
}
