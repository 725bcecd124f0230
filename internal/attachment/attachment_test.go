package attachment

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		mediaType string
		want      Kind
	}{
		{"image/png", KindImage},
		{"image/jpeg", KindImage},
		{"video/mp4", KindVideo},
		{"application/pdf", KindDocument},
		{"application/octet-stream", KindDocument},
		{"", KindDocument},
		{"IMAGE/PNG", KindDocument},
		{"imagery/png", KindDocument},
	}

	for _, tt := range tests {
		t.Run(tt.mediaType, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.mediaType))
		})
	}
}

func TestRegistryCreateDescriptor(t *testing.T) {
	reg := NewRegistry("/media/")

	img, err := reg.Create(NewBlob("cat.png", "image/png", []byte("png-bytes")))
	require.NoError(t, err)

	desc := img.Descriptor()
	assert.Equal(t, KindImage, desc.Kind)
	assert.Equal(t, "cat.png", desc.Filename)
	assert.Equal(t, int64(9), desc.SizeBytes)
	assert.True(t, strings.HasPrefix(desc.URL, "/media/"))
	assert.Equal(t, desc.URL, desc.Thumbnail)

	doc, err := reg.Create(NewBlob("report.pdf", "application/pdf", []byte("%PDF")))
	require.NoError(t, err)
	assert.Empty(t, doc.Descriptor().Thumbnail)
	assert.NotEqual(t, desc.Handle, doc.Descriptor().Handle)
	assert.Equal(t, 2, reg.Live())

	handle, ok := reg.HandleFromURL(desc.URL)
	require.True(t, ok)
	assert.Equal(t, desc.Handle, handle)
}

func TestPreviewReleaseExactlyOnce(t *testing.T) {
	reg := NewRegistry("")
	p, err := reg.Create(NewBlob("clip.mp4", "video/mp4", []byte{1, 2, 3}))
	require.NoError(t, err)

	blob, err := reg.Open(p.Descriptor().Handle)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, blob.Data)

	require.NoError(t, p.Release())
	assert.Equal(t, 0, reg.Live())

	assert.ErrorIs(t, p.Release(), ErrReleased)
	_, err = reg.Open(p.Descriptor().Handle)
	assert.ErrorIs(t, err, ErrReleased)

	_, err = reg.Open("never-issued")
	assert.ErrorIs(t, err, ErrUnknownHandle)
}

func TestCreateRequiresFilename(t *testing.T) {
	reg := NewRegistry("")
	_, err := reg.Create(NewBlob("", "image/png", nil))
	assert.Error(t, err)
	assert.Equal(t, 0, reg.Live())
}

func TestReadBlobLimit(t *testing.T) {
	_, err := ReadBlob("big.bin", "", bytes.NewReader(make([]byte, 11)), 10)
	assert.ErrorIs(t, err, ErrTooLarge)

	blob, err := ReadBlob("ok.bin", "application/octet-stream", bytes.NewReader(make([]byte, 10)), 10)
	require.NoError(t, err)
	assert.Equal(t, int64(10), blob.Size)
}

func TestOpenFileSniffsType(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pixel.png")
	png := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}
	require.NoError(t, os.WriteFile(path, png, 0o600))

	blob, err := OpenFile(path, 0)
	require.NoError(t, err)
	assert.Equal(t, "pixel.png", blob.Name)
	assert.Equal(t, "image/png", blob.Type)
	assert.Equal(t, KindImage, Classify(blob.Type))
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "1.0 KiB", FormatSize(1024))
	assert.Equal(t, "0 B", FormatSize(-5))

	n, err := ParseSize("25MiB")
	require.NoError(t, err)
	assert.Equal(t, int64(25<<20), n)
}
