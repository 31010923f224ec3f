// Package mirror keeps track of which site mirror requests go to and how it
// is chosen: a user override, the published manifest, or the last known one.
package mirror

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync/atomic"

	"lfilms/internal/apierr"
	"lfilms/internal/media"
)

const (
	// DefaultURL is used until a better mirror is known.
	DefaultURL = "https://rezka.ag"

	// DefaultManifestURL publishes the currently working mirror as plain text.
	DefaultManifestURL = "https://raw.githubusercontent.com/lrdcxdes/LFilms/master/mirror.txt"
)

// Config holds the active mirror. Scheme and host are swapped together, so a
// reader never sees one without the other.
type Config struct {
	current atomic.Pointer[media.Mirror]
}

// NewConfig creates a Config starting at initial.
func NewConfig(initial media.Mirror) *Config {
	c := &Config{}
	c.current.Store(&initial)
	return c
}

// Current returns a snapshot of the active mirror.
func (c *Config) Current() media.Mirror {
	if m := c.current.Load(); m != nil {
		return *m
	}
	return media.Mirror{}
}

// Swap installs m and returns the previous mirror.
func (c *Config) Swap(m media.Mirror) media.Mirror {
	if old := c.current.Swap(&m); old != nil {
		return *old
	}
	return media.Mirror{}
}

// ParseMirror validates raw as an http(s) URL with a host and keeps only
// scheme and host. Nothing is fetched.
func ParseMirror(raw string) (media.Mirror, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil {
		return media.Mirror{}, fmt.Errorf("%w: %q: %v", apierr.ErrInvalidMirrorURL, raw, err)
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return media.Mirror{}, fmt.Errorf("%w: %q: scheme must be http or https", apierr.ErrInvalidMirrorURL, raw)
	}
	if u.Host == "" || u.Hostname() == "" {
		return media.Mirror{}, fmt.Errorf("%w: %q: missing host", apierr.ErrInvalidMirrorURL, raw)
	}
	return media.Mirror{Scheme: scheme, Host: strings.ToLower(u.Host)}, nil
}

// MustParse is ParseMirror for constants.
func MustParse(raw string) media.Mirror {
	m, err := ParseMirror(raw)
	if err != nil {
		panic(err)
	}
	return m
}

// Fetcher downloads an absolute URL. *httputil.Gateway implements it.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

// Manager switches the shared Config between mirrors.
type Manager struct {
	cfg         *Config
	fetcher     Fetcher
	manifestURL string
	logger      *slog.Logger
}

// NewManager creates a Manager. An empty manifestURL uses DefaultManifestURL.
func NewManager(cfg *Config, fetcher Fetcher, manifestURL string, logger *slog.Logger) *Manager {
	if manifestURL == "" {
		manifestURL = DefaultManifestURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{cfg: cfg, fetcher: fetcher, manifestURL: manifestURL, logger: logger}
}

// Current returns the active mirror.
func (m *Manager) Current() media.Mirror {
	return m.cfg.Current()
}

// ResolveActual reads the manifest and returns the mirror it names without
// applying it.
func (m *Manager) ResolveActual(ctx context.Context) (media.Mirror, error) {
	body, err := m.fetcher.Fetch(ctx, m.manifestURL)
	if err != nil {
		return media.Mirror{}, fmt.Errorf("%w: %w", apierr.ErrManifestUnavailable, err)
	}

	line := strings.TrimSpace(string(body))
	if i := strings.IndexAny(line, "\r\n"); i >= 0 {
		line = line[:i]
	}
	mirror, err := ParseMirror(line)
	if err != nil {
		return media.Mirror{}, fmt.Errorf("%w: %w", apierr.ErrManifestUnavailable, err)
	}
	return mirror, nil
}

// SetActual resolves the manifest mirror and makes it active.
func (m *Manager) SetActual(ctx context.Context) (media.Mirror, error) {
	mirror, err := m.ResolveActual(ctx)
	if err != nil {
		return media.Mirror{}, err
	}
	old := m.cfg.Swap(mirror)
	m.logger.Info("mirror updated from manifest", "from", old.String(), "to", mirror.String())
	return mirror, nil
}

// Set makes raw the active mirror. Malformed input returns false and leaves
// the current mirror in place.
func (m *Manager) Set(raw string) bool {
	mirror, err := ParseMirror(raw)
	if err != nil {
		m.logger.Debug("rejected mirror", "input", raw, "error", err)
		return false
	}
	old := m.cfg.Swap(mirror)
	m.logger.Debug("mirror set", "from", old.String(), "to", mirror.String())
	return true
}

// Policy controls Bootstrap.
type Policy struct {
	// Override is the user's mirror. A valid override always wins.
	Override string
	// SkipManifest keeps the manifest out of the lookup.
	SkipManifest bool
	// LastKnown is the mirror adopted on an earlier run. It replaces the
	// configured default when the manifest is skipped or unavailable.
	LastKnown string
}

// Bootstrap applies the startup policy: a valid override wins, otherwise the
// manifest mirror is adopted. If the manifest is skipped or cannot be read
// the last known mirror, or failing that the current one, stays active. A
// manifest failure is returned as a warning only.
func (m *Manager) Bootstrap(ctx context.Context, p Policy) (media.Mirror, error) {
	if strings.TrimSpace(p.Override) != "" {
		if m.Set(p.Override) {
			return m.Current(), nil
		}
		m.logger.Warn("ignoring invalid mirror override", "mirror", p.Override)
	}

	if p.SkipManifest {
		m.useLastKnown(p.LastKnown)
		return m.Current(), nil
	}

	mirror, err := m.SetActual(ctx)
	if err == nil {
		return mirror, nil
	}

	m.useLastKnown(p.LastKnown)
	current := m.Current()
	m.logger.Warn("mirror manifest unavailable, keeping current mirror",
		"mirror", current.String(), "error", err)
	return current, err
}

func (m *Manager) useLastKnown(raw string) {
	if strings.TrimSpace(raw) != "" && !m.Set(raw) {
		m.logger.Debug("ignoring invalid last known mirror", "mirror", raw)
	}
}
