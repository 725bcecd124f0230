package utils

import "github.com/google/uuid"

// NewID returns a random identifier for event subscribers.
func NewID() string {
	return uuid.NewString()
}
