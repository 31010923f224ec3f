package provider

import (
	"html"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"lfilms/internal/apierr"
	"lfilms/internal/httputil"
	"lfilms/internal/media"
)

// searchHintPattern matches one row of the quick search dropdown.
var searchHintPattern = regexp.MustCompile(`<li>\s*<a href="([^"]+)">\s*<span class="enty">([^<]+)</span>\s*\(([^,]+),[^,]+, ([^)]+)\)\s*<span class="rating">\s*<i class="hd-tooltip rating-green-string" title="[^"]+">([^<]+)</i>\s*</span>\s*</a>\s*</li>`)

// parseSearchAjax extracts quick search rows. No match is not an error.
func parseSearchAjax(body string) []media.SearchHint {
	matches := searchHintPattern.FindAllStringSubmatch(body, -1)
	hints := make([]media.SearchHint, 0, len(matches))
	for _, m := range matches {
		rating, err := strconv.ParseFloat(strings.TrimSpace(m[5]), 64)
		if err != nil {
			rating = 0
		}
		hints = append(hints, media.SearchHint{
			Title:  strings.TrimSpace(html.UnescapeString(m[2])),
			Path:   httputil.SitePath(m[1]),
			Rating: rating,
		})
	}
	return hints
}

// parseListingPage extracts the cards and pagination of a listing or search page.
func parseListingPage(doc *goquery.Document) media.MoviesList {
	movies := []media.MoviePreview{}

	doc.Find("div.b-content__inline_item").Each(func(_ int, s *goquery.Selection) {
		link := s.Find("div.b-content__inline_item-link > a").First()
		movies = append(movies, media.MoviePreview{
			Name:        collapse(link.Text()),
			Description: collapse(s.Find("div.b-content__inline_item-link > div").First().Text()),
			ImageURL:    s.Find("div.b-content__inline_item-cover > a > img").AttrOr("src", ""),
			Path:        httputil.SitePath(link.AttrOr("href", "")),
		})
	})

	page, maxPage := parsePagination(doc)
	return media.MoviesList{Page: page, MaxPage: maxPage, Movies: movies}
}

// parsePagination reads the navigation widget. Fewer than two page links
// means a single page whatever else the widget shows. The active page is the
// first span without a class.
func parsePagination(doc *goquery.Document) (page, maxPage int) {
	nav := doc.Find("div.b-navigation").First()
	links := nav.Find("a")
	if nav.Length() == 0 || links.Length() < 2 {
		return 1, 1
	}

	page = 1
	nav.Find("span").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.AttrOr("class", "") != "" {
			return true
		}
		n, err := strconv.Atoi(strings.TrimSpace(s.Text()))
		if err != nil || n < 1 {
			return true
		}
		page = n
		return false
	})

	maxPage = page
	links.Each(func(_ int, a *goquery.Selection) {
		if n, err := strconv.Atoi(strings.TrimSpace(a.Text())); err == nil && n > maxPage {
			maxPage = n
		}
	})
	return page, maxPage
}

// Info table selectors. A row missing from the page yields an empty value.
const (
	sloganSelector      = `table.b-post__info td.l:contains("Слоган") + td`
	releaseDateSelector = `table.b-post__info td.l:contains("Дата выхода") + td`
	countrySelector     = `table.b-post__info td.l:contains("Страна") + td a`
	directorSelector    = `table.b-post__info td.l:contains("Режиссер") + td a`
	genreSelector       = `table.b-post__info td.l:contains("Жанр") + td a span[itemprop=genre]`
	ageSelector         = `table.b-post__info td.l:contains("Возраст") + td span.bold`
	durationSelector    = `table.b-post__info td.l:contains("Время") + td[itemprop=duration]`
	seriesSelector      = `table.b-post__info td.l:contains("Из серии") + td a`
	actorSelector       = `table.b-post__info span[itemprop=actor] span[itemprop=name]`
)

// comingSoonMarkers are the heading phrases of a title that only has a trailer.
var comingSoonMarkers = []string{"трейлер на русском языке", "trailer in russian"}

// parseMovieDetail builds a Movie from its page. path must end with the
// "<id>-<slug>" segment the site uses.
func parseMovieDetail(doc *goquery.Document, path string) (media.Movie, error) {
	id, ok := movieID(path)
	if !ok {
		return media.Movie{}, apierr.NotFound("no movie id in path %q", path)
	}

	cover := doc.Find("div.b-post__infotable_left > div.b-sidecover > a")

	m := media.Movie{
		ID:              id,
		Path:            path,
		Title:           text(doc.Find("div.b-post__title > h1")),
		OriginalTitle:   text(doc.Find("div.b-post__origtitle")),
		ImageURL:        cover.AttrOr("href", ""),
		PreviewImageURL: cover.Find("img").AttrOr("src", ""),
		IMDb:            parseScore(doc, "imdb"),
		Kinopoisk:       parseScore(doc, "kp"),

		Slogan:      text(doc.Find(sloganSelector)),
		ReleaseDate: media.ReleaseDate(text(doc.Find(releaseDateSelector))),
		Countries:   texts(doc.Find(countrySelector)),
		Directors:   texts(doc.Find(directorSelector)),
		Genres:      texts(doc.Find(genreSelector)),
		AgeRating:   text(doc.Find(ageSelector)),
		Duration:    media.Duration(text(doc.Find(durationSelector))),
		Series:      texts(doc.Find(seriesSelector)),
		Actors:      texts(doc.Find(actorSelector)),
		Description: text(doc.Find("div.b-post__description > div.b-post__description_text")),

		Translations: parseTranslations(doc),

		IsSerial:     strings.Contains(doc.Find("meta[property='og:type']").AttrOr("content", ""), "tv_series"),
		IsComingSoon: isComingSoon(text(doc.Find("div.b-post__lastepisodeout > h2"))),
		IsRestricted: doc.Find("span.b-player__restricted__block_message").Length() > 0,
	}
	return m, nil
}

// movieID reads the numeric prefix of the last path segment.
func movieID(path string) (int, bool) {
	seg := path
	if i := strings.LastIndex(seg, "/"); i >= 0 {
		seg = seg[i+1:]
	}
	if i := strings.Index(seg, "-"); i >= 0 {
		seg = seg[:i]
	}
	id, err := strconv.Atoi(seg)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func parseScore(doc *goquery.Document, class string) media.Score {
	rates := doc.Find("span.b-post__info_rates." + class)
	return media.Score{
		Rating: media.ParseRating(rates.Find("span").First().Text()),
		Votes:  media.ParseVotes(rates.Find("i").First().Text()),
	}
}

func isComingSoon(heading string) bool {
	heading = strings.ToLower(heading)
	for _, marker := range comingSoonMarkers {
		if strings.Contains(heading, marker) {
			return true
		}
	}
	return false
}

// parseTranslations lists the translator tracks of a title page. A page
// without a translator list plays the original track only.
func parseTranslations(doc *goquery.Document) []media.Translation {
	var out []media.Translation
	doc.Find("ul#translators-list > li.b-translator__item").Each(func(_ int, s *goquery.Selection) {
		id, err := strconv.Atoi(strings.TrimSpace(s.AttrOr("data-translator_id", "")))
		if err != nil {
			slog.Debug("skipping translator without id", "name", collapse(s.Text()))
			return
		}
		name := collapse(s.Text())
		if strings.Contains(s.Find("img").AttrOr("src", ""), "ua.png") {
			name += " 🇺🇦"
		}
		out = append(out, media.Translation{ID: id, Name: name})
	})
	if len(out) == 0 {
		return []media.Translation{media.OriginalTranslation}
	}
	return out
}

// parseTrailer turns the trailer embed markup into a short YouTube link.
func parseTrailer(code string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(code))
	if err != nil {
		return ""
	}
	src, ok := doc.Find("iframe").First().Attr("src")
	if !ok || src == "" {
		return ""
	}
	id := src[strings.LastIndex(src, "/")+1:]
	if i := strings.Index(id, "?"); i >= 0 {
		id = id[:i]
	}
	if id == "" {
		return ""
	}
	return "https://youtu.be/" + id
}

// text joins the text of every matched element with single spaces.
func text(s *goquery.Selection) string {
	return strings.Join(texts(s), " ")
}

func texts(s *goquery.Selection) []string {
	out := []string{}
	s.Each(func(_ int, el *goquery.Selection) {
		if t := collapse(el.Text()); t != "" {
			out = append(out, t)
		}
	})
	return out
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
