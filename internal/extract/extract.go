// Package extract resolves a title's seasons and its playable streams
// through the site's CDN AJAX endpoint.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"lfilms/internal/decrypt"
	"lfilms/internal/httputil"
	"lfilms/internal/media"
)

// cdnPath serves both the season listing and the stream lookup.
const cdnPath = "/ajax/get_cdn_series/"

// Resolver talks to the CDN endpoint of the current mirror.
type Resolver struct {
	gw     httputil.Doer
	logger *slog.Logger
	now    func() time.Time
}

// NewResolver creates a Resolver sending requests through gw.
func NewResolver(gw httputil.Doer, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{gw: gw, logger: logger, now: time.Now}
}

// LoadStreams returns the quality variants of a movie, or of one episode when
// ep is non-nil. A refusal from the site yields no streams and no error.
func (r *Resolver) LoadStreams(ctx context.Context, movieID, translationID int, ep *media.EpisodeRef) ([]media.Stream, error) {
	form := url.Values{
		"id":            {strconv.Itoa(movieID)},
		"translator_id": {strconv.Itoa(translationID)},
	}
	if ep != nil {
		form.Set("season", strconv.Itoa(ep.Season))
		form.Set("episode", strconv.Itoa(ep.Episode))
		form.Set("action", "get_stream")
	} else {
		form.Set("is_camrip", "0")
		form.Set("is_ads", "0")
		form.Set("is_director", "0")
		form.Set("action", "get_movie")
	}

	var resp streamResponse
	if err := r.call(ctx, form, &resp); err != nil {
		return nil, fmt.Errorf("loading streams for %d/%d: %w", movieID, translationID, err)
	}
	if !resp.Success {
		r.logger.Warn("site returned no streams",
			"movie", movieID, "translation", translationID, "message", string(resp.Message))
		return []media.Stream{}, nil
	}

	links, err := decrypt.Decode(string(resp.URL))
	if err != nil {
		return nil, fmt.Errorf("loading streams for %d/%d: %w", movieID, translationID, err)
	}

	subs := parseSubtitles(string(resp.Subtitle), resp.subtitleCodes())
	streams := parseStreams(links, subs)
	r.logger.Debug("resolved streams", "movie", movieID, "translation", translationID,
		"streams", len(streams), "subtitles", len(subs))
	return streams, nil
}

// LoadSeasons lists the seasons of a serial for one translation. A refusal
// from the site yields no seasons and no error.
func (r *Resolver) LoadSeasons(ctx context.Context, movieID, translationID int) ([]media.Season, error) {
	form := url.Values{
		"id":            {strconv.Itoa(movieID)},
		"translator_id": {strconv.Itoa(translationID)},
		"favs":          {"0"},
		"action":        {"get_episodes"},
	}

	var resp seasonsResponse
	if err := r.call(ctx, form, &resp); err != nil {
		return nil, fmt.Errorf("loading seasons for %d/%d: %w", movieID, translationID, err)
	}
	if !resp.Success {
		r.logger.Warn("site returned no seasons",
			"movie", movieID, "translation", translationID, "message", string(resp.Message))
		return []media.Season{}, nil
	}

	seasons, err := zipSeasons(string(resp.Seasons), string(resp.Episodes))
	if err != nil {
		return nil, fmt.Errorf("loading seasons for %d/%d: %w", movieID, translationID, err)
	}
	return seasons, nil
}

// call posts form to the CDN endpoint with a fresh cache-busting stamp.
func (r *Resolver) call(ctx context.Context, form url.Values, out any) error {
	endpoint := cdnPath + "?t=" + strconv.FormatInt(r.now().UnixMilli(), 10)
	body, err := r.gw.Do(ctx, http.MethodPost, endpoint, form)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parsing CDN response: %w", err)
	}
	return nil
}

type streamResponse struct {
	Success     bool            `json:"success"`
	Message     looseString     `json:"message"`
	URL         looseString     `json:"url"`
	Subtitle    looseString     `json:"subtitle"`
	SubtitleLns json.RawMessage `json:"subtitle_lns"`
}

// subtitleCodes maps a subtitle label to its language code. The site sends
// false instead of an object when there are none.
func (s streamResponse) subtitleCodes() map[string]string {
	codes := map[string]string{}
	if len(s.SubtitleLns) == 0 {
		return codes
	}
	var raw map[string]looseString
	if err := json.Unmarshal(s.SubtitleLns, &raw); err != nil {
		return codes
	}
	for k, v := range raw {
		codes[k] = string(v)
	}
	return codes
}

type seasonsResponse struct {
	Success  bool        `json:"success"`
	Message  looseString `json:"message"`
	Seasons  looseString `json:"seasons"`
	Episodes looseString `json:"episodes"`
}

// looseString accepts a JSON string and treats false, null and numbers as
// their plain text (false and null become empty).
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = looseString(str)
		return nil
	}
	switch string(data) {
	case "false", "null", "true":
		*s = ""
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err == nil {
		*s = looseString(num.String())
		return nil
	}
	return fmt.Errorf("unexpected JSON value %s", data)
}
