// Package history records what was watched: one entry per title holding the
// last translation and episode chosen plus every episode seen so far.
// Entries live in the KV store as JSON, keyed by title path.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize/english"

	"lfilms/internal/media"
	"lfilms/internal/store"
)

// Load returns every history entry, oldest first.
func Load(ctx context.Context, kv store.KV) ([]media.HistoryPreview, error) {
	raw, err := kv.GetStrings(ctx, store.KeyHistory)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}

	entries := make([]media.HistoryPreview, 0, len(raw))
	for _, item := range raw {
		var e media.HistoryPreview
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			slog.Debug("skipping malformed history entry", "error", err)
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Save records that movie was opened with translation and, for serials,
// season and episode. The entry replaces any previous one for the same path
// and moves to the end; watched episodes accumulate.
func Save(ctx context.Context, kv store.KV, movie media.MoviePreview, translation int, season, episode *int) ([]media.MoviePreview, error) {
	entries, err := Load(ctx, kv)
	if err != nil {
		return nil, err
	}

	var watched []media.EpisodeRef
	kept := entries[:0]
	for _, e := range entries {
		if e.Path == movie.Path {
			watched = e.EpisodesWatched
			continue
		}
		kept = append(kept, e)
	}

	entry := media.HistoryPreview{
		Name:            movie.Name,
		Description:     movie.Description,
		ImageURL:        movie.ImageURL,
		Path:            movie.Path,
		Translation:     translation,
		Season:          season,
		Episode:         episode,
		EpisodesWatched: watched,
	}
	if season != nil && episode != nil {
		ref := media.EpisodeRef{Season: *season, Episode: *episode}
		if !entry.Watched(ref) {
			entry.EpisodesWatched = append(entry.EpisodesWatched, ref)
		}
	}
	kept = append(kept, entry)

	if err := write(ctx, kv, kept); err != nil {
		return nil, err
	}
	return Previews(kept), nil
}

// Get returns the entry for path.
func Get(ctx context.Context, kv store.KV, path string) (media.HistoryPreview, bool, error) {
	entries, err := Load(ctx, kv)
	if err != nil {
		return media.HistoryPreview{}, false, err
	}
	for _, e := range entries {
		if e.Path == path {
			return e, true, nil
		}
	}
	return media.HistoryPreview{}, false, nil
}

// Remove deletes the entry for path. Removing an unknown path is not an error.
func Remove(ctx context.Context, kv store.KV, path string) error {
	entries, err := Load(ctx, kv)
	if err != nil {
		return err
	}

	var filtered []media.HistoryPreview
	for _, e := range entries {
		if e.Path != path {
			filtered = append(filtered, e)
		}
	}
	return write(ctx, kv, filtered)
}

// Previews projects entries onto listing cards.
func Previews(entries []media.HistoryPreview) []media.MoviePreview {
	out := make([]media.MoviePreview, len(entries))
	for i, e := range entries {
		out[i] = e.Preview()
	}
	return out
}

// FormatForDisplay creates one display line per entry.
func FormatForDisplay(entries []media.HistoryPreview) []string {
	var items []string
	for _, e := range entries {
		display := e.Name
		if e.Season != nil && e.Episode != nil {
			display = fmt.Sprintf("%s S%02dE%02d", e.Name, *e.Season, *e.Episode)
		}
		if n := len(e.EpisodesWatched); n > 0 {
			display += fmt.Sprintf(" [%s watched]", english.Plural(n, "episode", ""))
		}
		items = append(items, display)
	}
	return items
}

func write(ctx context.Context, kv store.KV, entries []media.HistoryPreview) error {
	encoded := make([]string, 0, len(entries))
	for _, e := range entries {
		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("encoding history: %w", err)
		}
		encoded = append(encoded, string(data))
	}
	if err := kv.SetStrings(ctx, store.KeyHistory, encoded); err != nil {
		return fmt.Errorf("saving history: %w", err)
	}
	return nil
}
