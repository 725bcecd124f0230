package attachment

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
)

// ErrTooLarge is returned when a blob exceeds the configured size limit.
var ErrTooLarge = errors.New("attachment too large")

// Blob is a file selected for upload together with its metadata.
type Blob struct {
	Name string
	Type string
	Size int64
	Data []byte
}

// NewBlob wraps in-memory bytes.
func NewBlob(name, mediaType string, data []byte) Blob {
	return Blob{
		Name: name,
		Type: mediaType,
		Size: int64(len(data)),
		Data: data,
	}
}

// ReadBlob reads r fully into a blob, refusing more than limit bytes.
// A non-positive limit disables the check.
func ReadBlob(name, mediaType string, r io.Reader, limit int64) (Blob, error) {
	if limit > 0 {
		r = io.LimitReader(r, limit+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return Blob{}, fmt.Errorf("read %s: %w", name, err)
	}
	if limit > 0 && int64(len(data)) > limit {
		return Blob{}, fmt.Errorf("%s: %w", name, ErrTooLarge)
	}
	return NewBlob(name, mediaType, data), nil
}

// OpenFile loads a file from disk. Files carry no declared type, so the media
// type is sniffed from the content.
func OpenFile(path string, limit int64) (Blob, error) {
	f, err := os.Open(path)
	if err != nil {
		return Blob{}, fmt.Errorf("open attachment: %w", err)
	}
	defer f.Close()

	blob, err := ReadBlob(filepath.Base(path), "", f, limit)
	if err != nil {
		return Blob{}, err
	}
	blob.Type = mimetype.Detect(blob.Data).String()
	return blob, nil
}
