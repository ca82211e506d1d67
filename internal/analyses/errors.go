package analyses

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnreadable   = errors.New("unreadable document")
)

const (
	ErrorCodeValidation  = "validation_error"
	ErrorCodeNotFound    = "not_found"
	ErrorCodeUnsupported = "unsupported_media_type"
	ErrorCodeUnreadable  = "unreadable_document"
	ErrorCodeTooLarge    = "payload_too_large"
	ErrorCodeInternal    = "internal_error"
)
