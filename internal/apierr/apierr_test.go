package apierr

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransportErrorUnwrapsKindAndCause(t *testing.T) {
	err := fmt.Errorf("search: %w", &TransportError{
		Kind: ErrTimeout,
		Op:   "GET",
		URL:  "https://rezka.ag/",
		Err:  context.DeadlineExceeded,
	})

	assert.ErrorIs(t, err, ErrTimeout)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotErrorIs(t, err, ErrUnreachable)
	assert.True(t, Retryable(err))
}

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"timeout", &TransportError{Kind: ErrTimeout, Err: errors.New("x")}, "timeout"},
		{"unreachable", &TransportError{Kind: ErrUnreachable, Err: errors.New("x")}, "unreachable"},
		{"transport", &TransportError{Kind: ErrUnknownTransport, Err: errors.New("x")}, "transport"},
		{"remote", fmt.Errorf("wrap: %w", &RemoteError{Status: 503, Message: "down"}), "remote"},
		{"manifest", fmt.Errorf("%w: eof", ErrManifestUnavailable), "manifest_unavailable"},
		{"manifest timeout", fmt.Errorf("%w: %w", ErrManifestUnavailable, &TransportError{Kind: ErrTimeout, Err: errors.New("x")}), "manifest_unavailable"},
		{"seasons", MalformedSeasons("2 seasons, 1 episode list"), "malformed_season_data"},
		{"not found", NotFound("no id in %q", "films/x"), "not_found"},
		{"invalid mirror", ErrInvalidMirrorURL, "invalid_mirror_url"},
		{"other", errors.New("boom"), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Kind(tt.err))
		})
	}
}

func TestParseErrorMessage(t *testing.T) {
	err := NotFound("no id in %q", "films/abc")
	assert.Equal(t, `not found: no id in "films/abc"`, err.Error())

	var pe *ParseError
	assert.True(t, errors.As(err, &pe))
	assert.False(t, Retryable(err))
}
