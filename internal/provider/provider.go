// Package provider defines the interface for the site client and its
// HDRezka implementation.
package provider

import (
	"context"

	"lfilms/internal/media"
)

// Provider is the interface the CLI drives.
type Provider interface {
	// SearchHints returns the quick search dropdown rows for a query.
	SearchHints(ctx context.Context, query string) ([]media.SearchHint, error)

	// Search returns one page of full search results.
	Search(ctx context.Context, query string, page int) (media.MoviesList, error)

	// Browse returns one page of a named listing such as "watching".
	Browse(ctx context.Context, filter string, page int) (media.MoviesList, error)

	// Home returns the cards of the landing page.
	Home(ctx context.Context) (media.MoviesList, error)

	// GetMovie returns the detail record of a title by its site path.
	GetMovie(ctx context.Context, path string) (media.Movie, error)

	// GetTrailer returns a YouTube link, or "" when the title has none.
	GetTrailer(ctx context.Context, movieID int) (string, error)

	// LoadSeasons lists seasons and episodes of a serial for a translation.
	LoadSeasons(ctx context.Context, movieID, translationID int) ([]media.Season, error)

	// LoadStreams resolves quality variants. ep is nil for movies.
	LoadStreams(ctx context.Context, movieID, translationID int, ep *media.EpisodeRef) ([]media.Stream, error)
}
