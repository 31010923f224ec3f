package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"lfilms/internal/extract"
	"lfilms/internal/httputil"
	"lfilms/internal/media"
)

// WatchingFilter is the listing the site shows as "currently watched".
const WatchingFilter = "watching"

// Rezka implements Provider for HDRezka mirrors.
type Rezka struct {
	gw       httputil.Doer
	resolver *extract.Resolver
	logger   *slog.Logger
}

var _ Provider = (*Rezka)(nil)

// NewRezka creates a provider sending every request through gw.
func NewRezka(gw httputil.Doer, logger *slog.Logger) *Rezka {
	if logger == nil {
		logger = slog.Default()
	}
	return &Rezka{
		gw:       gw,
		resolver: extract.NewResolver(gw, logger),
		logger:   logger,
	}
}

// SearchHints posts the query to the quick search endpoint.
func (r *Rezka) SearchHints(ctx context.Context, query string) ([]media.SearchHint, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []media.SearchHint{}, nil
	}

	body, err := r.gw.Do(ctx, http.MethodPost, "/engine/ajax/search.php", url.Values{"q": {query}})
	if err != nil {
		return nil, fmt.Errorf("search hints for %q: %w", query, err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return []media.SearchHint{}, nil
	}
	return parseSearchAjax(string(body)), nil
}

// Search returns one page of full search results.
func (r *Rezka) Search(ctx context.Context, query string, page int) (media.MoviesList, error) {
	page = max(page, 1)
	path := fmt.Sprintf("/search/?do=search&subaction=search&q=%s&page=%d",
		httputil.EncodeQuery(query), page)

	list, err := r.fetchListing(ctx, path)
	if err != nil {
		return media.MoviesList{}, fmt.Errorf("searching for %q: %w", query, err)
	}
	r.logger.Debug("search", "query", query, "page", list.Page, "max_page", list.MaxPage, "results", len(list.Movies))
	return list, nil
}

// Browse returns one page of a named listing.
func (r *Rezka) Browse(ctx context.Context, filter string, page int) (media.MoviesList, error) {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		filter = WatchingFilter
	}
	page = max(page, 1)
	path := fmt.Sprintf("/page/%d/?filter=%s", page, url.QueryEscape(filter))

	list, err := r.fetchListing(ctx, path)
	if err != nil {
		return media.MoviesList{}, fmt.Errorf("browsing %q: %w", filter, err)
	}
	return list, nil
}

// Watching is Browse with the "watching" listing.
func (r *Rezka) Watching(ctx context.Context, page int) (media.MoviesList, error) {
	return r.Browse(ctx, WatchingFilter, page)
}

// Home returns the landing page cards.
func (r *Rezka) Home(ctx context.Context) (media.MoviesList, error) {
	list, err := r.fetchListing(ctx, "/")
	if err != nil {
		return media.MoviesList{}, fmt.Errorf("loading home page: %w", err)
	}
	return list, nil
}

// GetMovie fetches and parses a title page.
func (r *Rezka) GetMovie(ctx context.Context, path string) (media.Movie, error) {
	path = strings.TrimPrefix(path, "/")
	if err := httputil.ValidatePath(path); err != nil {
		return media.Movie{}, fmt.Errorf("invalid movie path: %w", err)
	}

	doc, err := r.fetchDocument(ctx, "/"+path)
	if err != nil {
		return media.Movie{}, fmt.Errorf("getting movie %q: %w", path, err)
	}
	movie, err := parseMovieDetail(doc, path)
	if err != nil {
		return media.Movie{}, fmt.Errorf("getting movie %q: %w", path, err)
	}
	return movie, nil
}

// GetTrailer asks the site for the trailer embed of a title.
func (r *Rezka) GetTrailer(ctx context.Context, movieID int) (string, error) {
	body, err := r.gw.Do(ctx, http.MethodPost, "/engine/ajax/gettrailervideo.php",
		url.Values{"id": {strconv.Itoa(movieID)}})
	if err != nil {
		return "", fmt.Errorf("getting trailer for %d: %w", movieID, err)
	}

	var resp struct {
		Success bool   `json:"success"`
		Code    string `json:"code"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("parsing trailer response: %w", err)
	}
	if !resp.Success {
		return "", nil
	}
	return parseTrailer(resp.Code), nil
}

// LoadSeasons delegates to the stream resolver.
func (r *Rezka) LoadSeasons(ctx context.Context, movieID, translationID int) ([]media.Season, error) {
	return r.resolver.LoadSeasons(ctx, movieID, translationID)
}

// LoadStreams delegates to the stream resolver.
func (r *Rezka) LoadStreams(ctx context.Context, movieID, translationID int, ep *media.EpisodeRef) ([]media.Stream, error) {
	return r.resolver.LoadStreams(ctx, movieID, translationID, ep)
}

func (r *Rezka) fetchListing(ctx context.Context, path string) (media.MoviesList, error) {
	doc, err := r.fetchDocument(ctx, path)
	if err != nil {
		return media.MoviesList{}, err
	}
	return parseListingPage(doc), nil
}

// fetchDocument GETs a page and parses it into a goquery Document.
func (r *Rezka) fetchDocument(ctx context.Context, path string) (*goquery.Document, error) {
	body, err := r.gw.Do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return doc, nil
}

// FilterHints returns no hints once the typed query matches one of them
// exactly, so a finished title stops prompting.
func FilterHints(hints []media.SearchHint, query string) []media.SearchHint {
	query = strings.TrimSpace(query)
	for _, h := range hints {
		if strings.EqualFold(strings.TrimSpace(h.Title), query) {
			return []media.SearchHint{}
		}
	}
	return hints
}

// FormatHint renders a hint row for display.
func FormatHint(h media.SearchHint) string {
	if h.Rating == 0 {
		return h.Title
	}
	return fmt.Sprintf("%s (%s)", h.Title, media.Rating(h.Rating))
}
