// Package media defines the domain types produced by the site client.
// All values are immutable per request: the client builds them from a
// response and never mutates them afterwards.
package media

import (
	"fmt"
	"strings"
)

// Mirror is one (scheme, host) pair serving the site. It is the unit swapped
// atomically by the mirror manager; scheme and host never change separately.
type Mirror struct {
	Scheme string // "http" or "https"
	Host   string // e.g. "rezka.ag", may carry a port
}

func (m Mirror) String() string {
	return m.Scheme + "://" + m.Host
}

// IsZero reports whether the mirror is unset.
func (m Mirror) IsZero() bool {
	return m.Scheme == "" && m.Host == ""
}

// MoviePreview is a card as shown in listings. Path is the site-relative URL
// segment and identifies the title across favorites and history.
type MoviePreview struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	Path        string `json:"path"`
}

// MoviesList is one page of a listing.
type MoviesList struct {
	Page    int
	MaxPage int
	Movies  []MoviePreview
}

// SinglePage wraps movies in a one-page list.
func SinglePage(movies []MoviePreview) MoviesList {
	return MoviesList{Page: 1, MaxPage: 1, Movies: movies}
}

// Append returns l followed by next's movies, taking next's paging.
// Entries already in l keep their positions.
func (l MoviesList) Append(next MoviesList) MoviesList {
	movies := make([]MoviePreview, 0, len(l.Movies)+len(next.Movies))
	movies = append(movies, l.Movies...)
	movies = append(movies, next.Movies...)
	return MoviesList{Page: next.Page, MaxPage: next.MaxPage, Movies: movies}
}

// HasNext reports whether another page can be requested.
func (l MoviesList) HasNext() bool {
	return l.Page < l.MaxPage
}

// SearchHint is one row of the quick (ajax) search.
type SearchHint struct {
	Title  string
	Path   string
	Rating float64
}

// Translation is a dubbing/subtitle track option. ID is assigned by the server.
type Translation struct {
	ID   int
	Name string
}

// OriginalTranslationID is reserved for the synthetic "Original" track used
// when a page lists no translators.
const OriginalTranslationID = 110

// OriginalTranslation is the fallback translation list entry.
var OriginalTranslation = Translation{ID: OriginalTranslationID, Name: "Original"}

// Season groups episodes. IDs are opaque server integers.
type Season struct {
	ID       int
	Episodes []Episode
}

// Episode of a season.
type Episode struct {
	ID int
}

// EpisodeRef addresses one episode of a serial.
type EpisodeRef struct {
	Season  int `json:"season"`
	Episode int `json:"episode"`
}

// Stream is one quality variant of a resolved video.
type Stream struct {
	URL       string     `json:"url"`
	Quality   string     `json:"quality"`
	Subtitles []Subtitle `json:"subtitles,omitempty"`
}

// Subtitle track shared by all streams of a resolution.
type Subtitle struct {
	URL  string `json:"url"`
	Lang string `json:"lang"` // language code, e.g. "en"
	Name string `json:"name"` // display name, e.g. "English"
}

// Movie is the full detail record of a title page.
type Movie struct {
	ID              int
	Path            string
	Title           string
	OriginalTitle   string
	ImageURL        string
	PreviewImageURL string

	IMDb      Score
	Kinopoisk Score

	Slogan      string
	ReleaseDate ReleaseDate
	Countries   []string
	Directors   []string
	Genres      []string
	AgeRating   string
	Duration    Duration
	Series      []string
	Actors      []string
	Description string

	Translations []Translation

	IsSerial     bool
	IsComingSoon bool
	IsRestricted bool
}

// Score pairs a rating with its vote count.
type Score struct {
	Rating Rating
	Votes  Votes
}

// GenresString joins the genres for display.
func (m Movie) GenresString() string {
	return strings.Join(m.Genres, ", ")
}

// Preview projects the movie onto a listing card, e.g. "2019, США, Боевики".
func (m Movie) Preview() MoviePreview {
	year := "..."
	if y := m.ReleaseDate.Year(); y > 0 {
		year = fmt.Sprint(y)
	}
	country, genre := "...", "..."
	if len(m.Countries) > 0 {
		country = m.Countries[0]
	}
	if len(m.Genres) > 0 {
		genre = m.Genres[0]
	}
	return MoviePreview{
		Name:        m.Title,
		Description: fmt.Sprintf("%s, %s, %s", year, country, genre),
		ImageURL:    m.ImageURL,
		Path:        m.Path,
	}
}

// HistoryPreview is what history keeps per title: the card plus the last
// selection and every episode watched so far.
type HistoryPreview struct {
	Name            string       `json:"name"`
	Description     string       `json:"description"`
	ImageURL        string       `json:"imageUrl"`
	Path            string       `json:"path"`
	Translation     int          `json:"translation"`
	Season          *int         `json:"season,omitempty"`
	Episode         *int         `json:"episode,omitempty"`
	EpisodesWatched []EpisodeRef `json:"episodesWatched,omitempty"`
}

// Preview drops the history specific fields.
func (h HistoryPreview) Preview() MoviePreview {
	return MoviePreview{
		Name:        h.Name,
		Description: h.Description,
		ImageURL:    h.ImageURL,
		Path:        h.Path,
	}
}

// Watched reports whether the episode was recorded.
func (h HistoryPreview) Watched(ref EpisodeRef) bool {
	for _, e := range h.EpisodesWatched {
		if e == ref {
			return true
		}
	}
	return false
}
