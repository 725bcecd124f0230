// Package attachment turns raw file blobs picked by the user into content
// kinds and in-session preview handles whose lifetime is explicitly managed.
package attachment

import "strings"

// Kind is the content kind of an attachment.
type Kind string

const (
	KindImage    Kind = "image"
	KindVideo    Kind = "video"
	KindDocument Kind = "document"
)

// Classify maps a declared media type to a content kind. The prefix match is
// case-sensitive; anything that is not image/* or video/* is a document.
func Classify(mediaType string) Kind {
	switch {
	case strings.HasPrefix(mediaType, "image/"):
		return KindImage
	case strings.HasPrefix(mediaType, "video/"):
		return KindVideo
	default:
		return KindDocument
	}
}

// Visual reports whether the kind renders inline with a thumbnail.
func (k Kind) Visual() bool {
	return k == KindImage || k == KindVideo
}
