package core

import (
	"errors"
	"fmt"
)

// Error codes for domain errors.
const (
	ErrCodeNotFound       = "not_found"
	ErrCodeRoomNotFound   = "room_not_found"
	ErrCodeInvalidCompose = "invalid_compose"
	ErrCodeNotReady       = "not_ready"
	ErrCodeLoadFailure    = "load_failure"
	ErrCodeDraftSpent     = "draft_spent"
	ErrCodeBadRequest     = "bad_request"
	ErrCodeInternal       = "internal"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrRoomNotFound   = fmt.Errorf("room %w", ErrNotFound)
	ErrInvalidCompose = errors.New("message has no text and no attachment")
	ErrNotReady       = errors.New("directory is still loading")
	ErrLoadFailure    = errors.New("directory snapshot unavailable")
	ErrAlreadyLoaded  = errors.New("directory already loaded")
	ErrDraftSpent     = errors.New("draft already sent or discarded")
)

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}

// ToCoreError classifies err for the presentation layer.
func ToCoreError(err error) *CoreError {
	if err == nil {
		return nil
	}
	var ce *CoreError
	if errors.As(err, &ce) {
		return ce
	}
	switch {
	case errors.Is(err, ErrRoomNotFound):
		return coreError(ErrCodeRoomNotFound, err.Error())
	case errors.Is(err, ErrNotFound):
		return coreError(ErrCodeNotFound, err.Error())
	case errors.Is(err, ErrInvalidCompose):
		return coreError(ErrCodeInvalidCompose, err.Error())
	case errors.Is(err, ErrNotReady):
		return coreError(ErrCodeNotReady, err.Error())
	case errors.Is(err, ErrLoadFailure):
		return coreError(ErrCodeLoadFailure, err.Error())
	case errors.Is(err, ErrDraftSpent):
		return coreError(ErrCodeDraftSpent, err.Error())
	default:
		return coreError(ErrCodeInternal, err.Error())
	}
}
