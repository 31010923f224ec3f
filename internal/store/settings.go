package store

import (
	"context"
	"fmt"
	"strings"
)

// Theme is the preferred color scheme. The zero value follows the terminal.
type Theme string

const (
	ThemeAuto  Theme = ""
	ThemeLight Theme = "LIGHT"
	ThemeDark  Theme = "DARK"
)

// ParseTheme accepts light, dark or auto in any case.
func ParseTheme(s string) (Theme, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LIGHT":
		return ThemeLight, nil
	case "DARK":
		return ThemeDark, nil
	case "", "AUTO":
		return ThemeAuto, nil
	default:
		return ThemeAuto, fmt.Errorf("unknown theme %q (valid: light, dark, auto)", s)
	}
}

// MirrorOverride returns the saved mirror, or "" when none is saved.
func MirrorOverride(ctx context.Context, kv KV) (string, error) {
	v, _, err := kv.Get(ctx, KeyMirror)
	return v, err
}

// SetMirrorOverride saves the mirror; "" clears the override.
func SetMirrorOverride(ctx context.Context, kv KV, mirror string) error {
	return kv.Set(ctx, KeyMirror, strings.TrimSpace(mirror))
}

// LastMirror returns the mirror last adopted from the manifest.
func LastMirror(ctx context.Context, kv KV) (string, error) {
	v, _, err := kv.Get(ctx, KeyLastMirror)
	return v, err
}

// SetLastMirror records a mirror adopted from the manifest.
func SetLastMirror(ctx context.Context, kv KV, mirror string) error {
	return kv.Set(ctx, KeyLastMirror, strings.TrimSpace(mirror))
}

// GetTheme returns the saved theme. Unknown stored values read as ThemeAuto.
func GetTheme(ctx context.Context, kv KV) (Theme, error) {
	v, _, err := kv.Get(ctx, KeyTheme)
	if err != nil {
		return ThemeAuto, err
	}
	switch Theme(v) {
	case ThemeLight, ThemeDark:
		return Theme(v), nil
	default:
		return ThemeAuto, nil
	}
}

// SetTheme saves the theme.
func SetTheme(ctx context.Context, kv KV, theme Theme) error {
	return kv.Set(ctx, KeyTheme, string(theme))
}
