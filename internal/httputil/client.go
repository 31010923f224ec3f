// Package httputil provides the gateway every site request goes through and
// the URL/path helpers shared by the scrapers.
package httputil

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	"github.com/go-resty/resty/v2"

	"lfilms/internal/apierr"
	"lfilms/internal/media"
)

// DefaultUserAgent is the fixed desktop browser identity sent with every request.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64)" +
	" AppleWebKit/537.36 (KHTML, like Gecko)" +
	" Chrome/117.0.0.0 Safari/537.36"

// DefaultTimeout bounds a whole call, connect through body read.
const DefaultTimeout = 15 * time.Second

// MirrorSource yields the mirror to send the next request to.
type MirrorSource interface {
	Current() media.Mirror
}

// Doer is the request surface the scrapers depend on. *Gateway implements it.
type Doer interface {
	Do(ctx context.Context, method, pathOrURL string, form url.Values) ([]byte, error)
}

// GatewayOptions configures a Gateway. Zero values pick defaults.
type GatewayOptions struct {
	UserAgent string
	Timeout   time.Duration

	// InsecureSkipVerify turns off TLS certificate checks. Mirrors are served
	// with ad-hoc certificates, so the site is unusable without it, but it
	// also means any on-path party can impersonate the mirror. Keep it a
	// visible, configurable exception.
	InsecureSkipVerify bool

	Debug  bool
	Logger *slog.Logger
}

// Gateway sends requests to whichever mirror is current at send time.
type Gateway struct {
	resty   *resty.Client
	mirrors MirrorSource
	logger  *slog.Logger
	timeout time.Duration
}

// NewGateway creates a gateway reading the target host from mirrors.
func NewGateway(mirrors MirrorSource, opts GatewayOptions) *Gateway {
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	client := resty.New().
		SetTimeout(opts.Timeout).
		SetRetryCount(0).
		SetLogger(restyLogger{logger}).
		SetHeader("User-Agent", opts.UserAgent).
		SetHeader("X-Requested-With", "XMLHttpRequest")

	if opts.InsecureSkipVerify {
		logger.Warn("TLS certificate verification is disabled for mirror requests",
			"option", "insecure_skip_verify")
		client.SetTLSClientConfig(&tls.Config{
			InsecureSkipVerify: true, //nolint:gosec // mirrors use ad-hoc certificates
		})
	} else {
		client.SetTLSClientConfig(&tls.Config{MinVersion: tls.VersionTLS12})
	}

	g := &Gateway{
		resty:   client,
		mirrors: mirrors,
		logger:  logger,
		timeout: opts.Timeout,
	}

	if opts.Debug {
		client.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
			g.logger.Debug("HTTP request", "method", r.Method, "url", r.URL)
			return nil
		})
		client.OnAfterResponse(func(_ *resty.Client, r *resty.Response) error {
			body := r.String()
			if len(body) > 1000 {
				body = body[:1000] + "... (truncated)"
			}
			g.logger.Debug("HTTP response",
				"status", r.StatusCode(),
				"url", r.Request.URL,
				"time", r.Time(),
				"body", body,
			)
			return nil
		})
	}

	return g
}

// Timeout returns the per-call timeout.
func (g *Gateway) Timeout() time.Duration {
	return g.timeout
}

// Do sends method to pathOrURL on the current mirror and returns the body.
// Only the path and query of pathOrURL are used; scheme and host always come
// from the mirror snapshot taken here. A non-nil form is sent url-encoded.
func (g *Gateway) Do(ctx context.Context, method, pathOrURL string, form url.Values) ([]byte, error) {
	target, err := g.onMirror(pathOrURL)
	if err != nil {
		return nil, err
	}
	return g.execute(ctx, method, target, form)
}

// Get is Do with GET and no form.
func (g *Gateway) Get(ctx context.Context, pathOrURL string) ([]byte, error) {
	return g.Do(ctx, http.MethodGet, pathOrURL, nil)
}

// PostForm is Do with POST.
func (g *Gateway) PostForm(ctx context.Context, pathOrURL string, form url.Values) ([]byte, error) {
	if form == nil {
		form = url.Values{}
	}
	return g.Do(ctx, http.MethodPost, pathOrURL, form)
}

// Fetch GETs an absolute URL as is, without mirror substitution.
func (g *Gateway) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if err := ValidateURL(rawURL); err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	return g.execute(ctx, http.MethodGet, rawURL, nil)
}

func (g *Gateway) onMirror(pathOrURL string) (string, error) {
	u, err := url.Parse(pathOrURL)
	if err != nil {
		return "", fmt.Errorf("parsing request path %q: %w", pathOrURL, err)
	}
	m := g.mirrors.Current()
	if m.Scheme == "" || m.Host == "" {
		return "", fmt.Errorf("no mirror configured: %w", apierr.ErrInvalidMirrorURL)
	}
	out := url.URL{
		Scheme:   m.Scheme,
		Host:     m.Host,
		Path:     "/" + strings.TrimPrefix(u.Path, "/"),
		RawQuery: u.RawQuery,
	}
	return out.String(), nil
}

func (g *Gateway) execute(ctx context.Context, method, target string, form url.Values) ([]byte, error) {
	req := g.resty.R().SetContext(ctx)
	if form != nil {
		req.SetFormDataFromValues(form)
	}

	resp, err := req.Execute(method, target)
	if err != nil {
		return nil, &apierr.TransportError{
			Kind: classify(ctx, err),
			Op:   method,
			URL:  target,
			Err:  err,
		}
	}

	if !resp.IsSuccess() {
		return nil, remoteError(method, target, resp.StatusCode(), resp.Body())
	}
	return resp.Body(), nil
}

// remoteError prefers the site's own JSON message over the raw response.
func remoteError(method, target string, status int, body []byte) error {
	var payload struct {
		Message *string `json:"message"`
	}
	if len(body) > 0 && json.Unmarshal(body, &payload) == nil && payload.Message != nil {
		return &apierr.RemoteError{Status: status, Message: *payload.Message}
	}
	return &apierr.RemoteError{
		Status: status,
		Message: fmt.Sprintf("%s %s\nResponse code: %d\nResponse body: %s",
			method, target, status, string(body)),
	}
}

func classify(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apierr.ErrTimeout
	}
	if errors.Is(err, context.Canceled) {
		return apierr.ErrUnknownTransport
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsTimeout {
			return apierr.ErrTimeout
		}
		return apierr.ErrUnreachable
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return apierr.ErrTimeout
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return apierr.ErrUnreachable
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.EHOSTUNREACH) ||
		errors.Is(err, syscall.ENETUNREACH) {
		return apierr.ErrUnreachable
	}

	return apierr.ErrUnknownTransport
}

// restyLogger routes resty's own diagnostics into slog at debug level.
type restyLogger struct {
	l *slog.Logger
}

func (r restyLogger) Errorf(format string, v ...interface{}) {
	r.l.Debug(fmt.Sprintf(format, v...), "source", "resty")
}

func (r restyLogger) Warnf(format string, v ...interface{}) {
	r.l.Debug(fmt.Sprintf(format, v...), "source", "resty")
}

func (r restyLogger) Debugf(format string, v ...interface{}) {
	r.l.Debug(fmt.Sprintf(format, v...), "source", "resty")
}
