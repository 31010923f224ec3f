// Package favorites keeps the user's bookmarked titles in the KV store,
// one JSON-encoded preview per set entry.
package favorites

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"lfilms/internal/media"
	"lfilms/internal/store"
)

// List returns the saved previews in insertion order. Entries that no longer
// decode are skipped.
func List(ctx context.Context, kv store.KV) ([]media.MoviePreview, error) {
	raw, err := kv.GetStrings(ctx, store.KeyFavorites)
	if err != nil {
		return nil, fmt.Errorf("loading favorites: %w", err)
	}

	movies := make([]media.MoviePreview, 0, len(raw))
	for _, item := range raw {
		var m media.MoviePreview
		if err := json.Unmarshal([]byte(item), &m); err != nil {
			slog.Debug("skipping malformed favorite", "error", err)
			continue
		}
		movies = append(movies, m)
	}
	return movies, nil
}

// Set adds or removes movie and returns the updated list. Titles are matched
// by path.
func Set(ctx context.Context, kv store.KV, movie media.MoviePreview, isFavorite bool) ([]media.MoviePreview, error) {
	movies, err := List(ctx, kv)
	if err != nil {
		return nil, err
	}

	kept := movies[:0]
	for _, m := range movies {
		if m.Path != movie.Path {
			kept = append(kept, m)
		}
	}
	if isFavorite {
		kept = append(kept, movie)
	}

	encoded := make([]string, 0, len(kept))
	for _, m := range kept {
		data, err := json.Marshal(m)
		if err != nil {
			return nil, fmt.Errorf("encoding favorite: %w", err)
		}
		encoded = append(encoded, string(data))
	}
	if err := kv.SetStrings(ctx, store.KeyFavorites, encoded); err != nil {
		return nil, fmt.Errorf("saving favorites: %w", err)
	}
	return kept, nil
}

// Contains reports whether path is bookmarked.
func Contains(ctx context.Context, kv store.KV, path string) (bool, error) {
	movies, err := List(ctx, kv)
	if err != nil {
		return false, err
	}
	for _, m := range movies {
		if m.Path == path {
			return true, nil
		}
	}
	return false, nil
}

// Filter keeps the movies whose name contains text, ignoring case.
func Filter(text string, movies []media.MoviePreview) []media.MoviePreview {
	needle := strings.ToLower(text)
	out := make([]media.MoviePreview, 0, len(movies))
	for _, m := range movies {
		if strings.Contains(strings.ToLower(m.Name), needle) {
			out = append(out, m)
		}
	}
	return out
}
