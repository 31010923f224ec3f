package httputil

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidateURL checks that a URL is absolute, uses http(s) and has a host.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("malformed URL: %w", err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return fmt.Errorf("only HTTP(S) URLs are allowed, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL has no host")
	}
	return nil
}

// ValidatePath checks a site-relative title path such as
// "films/drama/12345-title.html".
func ValidatePath(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}
	if len(path) > 512 {
		return fmt.Errorf("path too long: %d characters", len(path))
	}
	if strings.Contains(path, "://") {
		return fmt.Errorf("expected a site-relative path, got %q", path)
	}
	if strings.Contains(path, "..") {
		return fmt.Errorf("path contains traversal: %q", path)
	}
	if strings.ContainsAny(path, "\x00\r\n\t ?#") {
		return fmt.Errorf("path contains invalid characters: %q", path)
	}
	return nil
}

// SitePath strips scheme and host from a link found in a page:
// "https://rezka.ag/films/x.html" and "/films/x.html" both become
// "films/x.html".
func SitePath(link string) string {
	rest := link
	if i := strings.Index(rest, "://"); i >= 0 {
		rest = rest[i+3:]
	}
	if i := strings.Index(rest, "/"); i >= 0 {
		return rest[i+1:]
	}
	return rest
}

// EncodeQuery collapses whitespace in a search query and escapes it for a
// query string value.
func EncodeQuery(query string) string {
	return url.QueryEscape(strings.Join(strings.Fields(query), " "))
}
