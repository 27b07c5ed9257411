package client

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingEventType is returned when an inbound frame has no string "type" field.
	ErrMissingEventType = errors.New("relay: event type missing")

	// ErrUnknownEventType is wrapped by UnknownEventError.
	ErrUnknownEventType = errors.New("relay: unknown event type")

	// ErrMalformedEvent is returned when a frame is not valid JSON or does not
	// match the shape of its declared type.
	ErrMalformedEvent = errors.New("relay: malformed event")

	// ErrInvalidMethod is returned when a webhook method is not an HTTP token.
	ErrInvalidMethod = errors.New("relay: invalid webhook method")

	// ErrInvalidDestination is returned when a webhook output destination is not an absolute URL.
	ErrInvalidDestination = errors.New("relay: invalid output destination")

	// ErrUnknownAction is returned when decoding an outbound message with an unrecognized action.
	ErrUnknownAction = errors.New("relay: unknown action")

	// ErrMissingBucket is returned by New when no bucket is configured.
	ErrMissingBucket = errors.New("relay: bucket is required")

	// ErrMissingCredentials is returned by New when the key or secret is empty.
	ErrMissingCredentials = errors.New("relay: key and secret are required")
)

// UnknownEventError reports a well-formed frame whose type the client does
// not handle.
type UnknownEventError struct {
	Type string
}

func (e *UnknownEventError) Error() string {
	return fmt.Sprintf("relay: unknown event type %q", e.Type)
}

func (e *UnknownEventError) Unwrap() error {
	return ErrUnknownEventType
}
