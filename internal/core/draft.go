package core

import (
	"fmt"

	"github.com/vovakirdan/wirechat-inbox/internal/attachment"
)

// Draft is an attachment picked in the composer but not yet sent. It owns the
// preview handle until Session.Send takes it over or Discard releases it.
type Draft struct {
	preview *attachment.Preview
	spent   bool
}

// NewDraft allocates a preview for blob.
func NewDraft(reg *attachment.Registry, blob attachment.Blob) (*Draft, error) {
	p, err := reg.Create(blob)
	if err != nil {
		return nil, fmt.Errorf("create preview: %w", err)
	}
	return &Draft{preview: p}, nil
}

// Descriptor returns the preview metadata.
func (d *Draft) Descriptor() attachment.Descriptor {
	return d.preview.Descriptor()
}

// Media returns the media the sent message will carry.
func (d *Draft) Media() Media {
	desc := d.preview.Descriptor()
	return Media{
		URL:       desc.URL,
		Thumbnail: desc.Thumbnail,
		Filename:  desc.Filename,
		SizeBytes: desc.SizeBytes,
	}
}

// Spent reports whether the draft was sent or discarded.
func (d *Draft) Spent() bool {
	return d.spent
}

// Discard releases the preview of an abandoned draft.
func (d *Draft) Discard() error {
	if d.spent {
		return ErrDraftSpent
	}
	d.spent = true
	return d.preview.Release()
}

func (d *Draft) content() Content {
	return attachmentContent(d.preview.Descriptor().Kind, d.Media())
}

// take hands the preview to the caller; the draft can no longer release it.
func (d *Draft) take() *attachment.Preview {
	d.spent = true
	return d.preview
}
