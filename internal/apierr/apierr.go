// Package apierr holds the failure kinds the site client reports. Callers
// match them with errors.Is (kinds) and errors.As (details) to decide
// between retrying and showing a message.
package apierr

import (
	"errors"
	"fmt"
)

// Transport kinds.
var (
	ErrTimeout          = errors.New("request timed out")
	ErrUnreachable      = errors.New("host unreachable")
	ErrUnknownTransport = errors.New("transport failure")
)

// Parse kinds.
var (
	ErrNotFound            = errors.New("not found")
	ErrMalformedSeasonData = errors.New("malformed season data")
)

// Mirror kinds.
var (
	ErrManifestUnavailable = errors.New("mirror manifest unavailable")
	ErrInvalidMirrorURL    = errors.New("invalid mirror url")
)

// TransportError is a failure below HTTP: no response was received.
type TransportError struct {
	Kind error // ErrTimeout, ErrUnreachable or ErrUnknownTransport
	Op   string
	URL  string
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v: %v", e.Op, e.URL, e.Kind, e.Err)
}

// Unwrap exposes both the kind and the underlying cause.
func (e *TransportError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// RemoteError is a non-2xx answer from the site.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	return e.Message
}

// ParseError reports a response that could not be turned into domain values.
type ParseError struct {
	Kind   error // ErrNotFound or ErrMalformedSeasonData
	Detail string
}

func (e *ParseError) Error() string {
	if e.Detail == "" {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Detail
}

func (e *ParseError) Unwrap() error { return e.Kind }

// NotFound builds a ParseError of kind ErrNotFound.
func NotFound(format string, args ...any) error {
	return &ParseError{Kind: ErrNotFound, Detail: fmt.Sprintf(format, args...)}
}

// MalformedSeasons builds a ParseError of kind ErrMalformedSeasonData.
func MalformedSeasons(format string, args ...any) error {
	return &ParseError{Kind: ErrMalformedSeasonData, Detail: fmt.Sprintf(format, args...)}
}

// Kind names the category of err for messages and logs.
func Kind(err error) string {
	var remote *RemoteError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrManifestUnavailable):
		// Checked first: manifest failures wrap a transport cause.
		return "manifest_unavailable"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrUnreachable):
		return "unreachable"
	case errors.Is(err, ErrUnknownTransport):
		return "transport"
	case errors.As(err, &remote):
		return "remote"
	case errors.Is(err, ErrMalformedSeasonData):
		return "malformed_season_data"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidMirrorURL):
		return "invalid_mirror_url"
	default:
		return "unknown"
	}
}

// Retryable reports whether repeating the same call may succeed.
func Retryable(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, ErrUnreachable)
}
