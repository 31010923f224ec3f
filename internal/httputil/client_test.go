package httputil

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lfilms/internal/apierr"
	"lfilms/internal/media"
)

type fixedMirror struct {
	m atomic.Pointer[media.Mirror]
}

func (f *fixedMirror) Current() media.Mirror { return *f.m.Load() }

func (f *fixedMirror) set(rawURL string) {
	u, _ := url.Parse(rawURL)
	f.m.Store(&media.Mirror{Scheme: u.Scheme, Host: u.Host})
}

func mirrorOf(rawURL string) *fixedMirror {
	f := &fixedMirror{}
	f.set(rawURL)
	return f
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestGateway(src MirrorSource, timeout time.Duration) *Gateway {
	return NewGateway(src, GatewayOptions{
		Timeout:            timeout,
		InsecureSkipVerify: true,
		Logger:             quietLogger(),
	})
}

func TestGatewaySendsHeadersAndForm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/ajax/get_cdn_series/", r.URL.Path)
		assert.Equal(t, "123", r.URL.Query().Get("t"))
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		assert.Equal(t, "XMLHttpRequest", r.Header.Get("X-Requested-With"))
		assert.Contains(t, r.Header.Get("Content-Type"), "application/x-www-form-urlencoded")
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "1171", r.PostForm.Get("id"))
		assert.Equal(t, "get_movie", r.PostForm.Get("action"))
		_, _ = io.WriteString(w, `{"success":true}`)
	}))
	defer srv.Close()

	gw := newTestGateway(mirrorOf(srv.URL), time.Second)
	body, err := gw.PostForm(context.Background(), "/ajax/get_cdn_series/?t=123", url.Values{
		"id":     {"1171"},
		"action": {"get_movie"},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"success":true}`, string(body))
}

func TestGatewayUsesMirrorAtSendTime(t *testing.T) {
	var hitsA, hitsB atomic.Int32
	srvA := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hitsA.Add(1)
		_, _ = io.WriteString(w, "a:"+r.URL.RequestURI())
	}))
	defer srvA.Close()
	srvB := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hitsB.Add(1)
		_, _ = io.WriteString(w, "b:"+r.URL.RequestURI())
	}))
	defer srvB.Close()

	src := mirrorOf(srvA.URL)
	gw := newTestGateway(src, time.Second)

	body, err := gw.Get(context.Background(), "https://old-mirror.example/films/1-x.html?a=1")
	require.NoError(t, err)
	assert.Equal(t, "a:/films/1-x.html?a=1", string(body))

	src.set(srvB.URL)
	body, err = gw.Get(context.Background(), "films/1-x.html")
	require.NoError(t, err)
	assert.Equal(t, "b:/films/1-x.html", string(body))

	assert.Equal(t, int32(1), hitsA.Load())
	assert.Equal(t, int32(1), hitsB.Load())
}

func TestGatewayFetchIgnoresMirror(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "https://rezka.ag\n")
	}))
	defer srv.Close()

	gw := newTestGateway(mirrorOf("https://unused.invalid"), time.Second)
	body, err := gw.Fetch(context.Background(), srv.URL+"/mirror.txt")
	require.NoError(t, err)
	assert.Equal(t, "https://rezka.ag\n", string(body))

	_, err = gw.Fetch(context.Background(), "ftp://example.com/mirror.txt")
	assert.Error(t, err)
}

func TestGatewayRemoteErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
		wantPrefix  bool
	}{
		{"json message", http.StatusBadRequest, `{"success":false,"message":"Время сессии истекло"}`, "Время сессии истекло", false},
		{"plain body", http.StatusInternalServerError, "oops", "GET ", true},
		{"json without message", http.StatusNotFound, `{"error":"x"}`, "GET ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			gw := newTestGateway(mirrorOf(srv.URL), time.Second)
			_, err := gw.Get(context.Background(), "/page/1/")
			require.Error(t, err)

			var remote *apierr.RemoteError
			require.True(t, errors.As(err, &remote))
			assert.Equal(t, tt.status, remote.Status)
			assert.Equal(t, "remote", apierr.Kind(err))
			if tt.wantPrefix {
				assert.Contains(t, remote.Message, tt.wantMessage+srv.URL+"/page/1/")
				assert.Contains(t, remote.Message, "Response code: ")
				assert.Contains(t, remote.Message, "Response body: "+tt.body)
			} else {
				assert.Equal(t, tt.wantMessage, remote.Message)
			}
		})
	}
}

func TestGatewayTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	gw := newTestGateway(mirrorOf(srv.URL), 50*time.Millisecond)
	_, err := gw.Get(context.Background(), "/")
	require.Error(t, err)
	assert.ErrorIs(t, err, apierr.ErrTimeout)
	assert.True(t, apierr.Retryable(err))
}

func TestGatewayContextDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	gw := newTestGateway(mirrorOf(srv.URL), 5*time.Second)
	_, err := gw.Get(ctx, "/")
	assert.ErrorIs(t, err, apierr.ErrTimeout)
}

func TestGatewayUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	gw := newTestGateway(mirrorOf(addr), time.Second)
	_, err := gw.Get(context.Background(), "/")
	require.Error(t, err)
	assert.ErrorIs(t, err, apierr.ErrUnreachable)

	var te *apierr.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.MethodGet, te.Op)
}

func TestGatewayCancelledIsUnknownTransport(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gw := newTestGateway(mirrorOf(srv.URL), time.Second)
	_, err := gw.Get(ctx, "/")
	assert.ErrorIs(t, err, apierr.ErrUnknownTransport)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGatewayTrustsSelfSignedMirror(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "ok")
	}))
	defer srv.Close()

	gw := newTestGateway(mirrorOf(srv.URL), time.Second)
	body, err := gw.Get(context.Background(), "/")
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))

	strict := NewGateway(mirrorOf(srv.URL), GatewayOptions{Timeout: time.Second, Logger: quietLogger()})
	_, err = strict.Get(context.Background(), "/")
	var te *apierr.TransportError
	assert.True(t, errors.As(err, &te))
}

func TestGatewayRequiresMirror(t *testing.T) {
	src := &fixedMirror{}
	src.m.Store(&media.Mirror{})

	gw := newTestGateway(src, time.Second)
	_, err := gw.Get(context.Background(), "/")
	assert.ErrorIs(t, err, apierr.ErrInvalidMirrorURL)
}
