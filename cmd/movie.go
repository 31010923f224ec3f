package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"lfilms/internal/history"
	"lfilms/internal/media"
	"lfilms/internal/provider"
	"lfilms/internal/subtitle"
)

var (
	flagTranslation int
	flagSeason      int
	flagEpisode     int
	flagSubs        string
)

var movieCmd = &cobra.Command{
	Use:   "movie <path|url>",
	Short: "Show details and translations of a title",
	Args:  cobra.ExactArgs(1),
	RunE:  movieRun,
}

var trailerCmd = &cobra.Command{
	Use:   "trailer <path|url>",
	Short: "Print the trailer link of a title",
	Args:  cobra.ExactArgs(1),
	RunE:  trailerRun,
}

var seasonsCmd = &cobra.Command{
	Use:   "seasons <path|url>",
	Short: "List seasons and episodes of a serial for one translation",
	Args:  cobra.ExactArgs(1),
	RunE:  seasonsRun,
}

var streamsCmd = &cobra.Command{
	Use:   "streams <path|url>",
	Short: "Resolve stream and subtitle links",
	Long: `Resolve the stream links of a movie, or of one episode of a serial
when --season and --episode are given. Each quality is printed with its URL.`,
	Args: cobra.ExactArgs(1),
	RunE: streamsRun,
}

func init() {
	for _, c := range []*cobra.Command{seasonsCmd, streamsCmd} {
		c.Flags().IntVarP(&flagTranslation, "translation", "t", 0, "Translation id (default: first listed)")
	}
	streamsCmd.Flags().IntVarP(&flagSeason, "season", "s", 0, "Season number (serials)")
	streamsCmd.Flags().IntVarP(&flagEpisode, "episode", "e", 0, "Episode number (serials)")
	streamsCmd.Flags().StringVarP(&flagSubs, "subs", "l", "", "Keep only the best subtitle for a language, e.g. en or russian")
}

func movieRun(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()
	return showMovie(ctx, site(ctx), pathArg(args[0]))
}

func showMovie(ctx context.Context, p *provider.Rezka, path string) error {
	movie, err := p.GetMovie(ctx, path)
	if err != nil {
		return explain("loading title", err)
	}
	if flagJSON {
		return printJSON(movie)
	}
	out.Movie(movie)
	return nil
}

func trailerRun(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()
	p := site(ctx)

	movie, err := p.GetMovie(ctx, pathArg(args[0]))
	if err != nil {
		return explain("loading title", err)
	}
	link, err := p.GetTrailer(ctx, movie.ID)
	if err != nil {
		return explain("loading trailer", err)
	}
	if link == "" {
		fmt.Println("No trailer available.")
		return nil
	}
	fmt.Println(link)
	return nil
}

func seasonsRun(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()
	p := site(ctx)

	movie, err := p.GetMovie(ctx, pathArg(args[0]))
	if err != nil {
		return explain("loading title", err)
	}
	if !movie.IsSerial {
		return fmt.Errorf("%s is not a serial", movie.Title)
	}
	tr, err := pickTranslation(movie, flagTranslation)
	if err != nil {
		return err
	}

	seasons, err := p.LoadSeasons(ctx, movie.ID, tr.ID)
	if err != nil {
		return explain("loading seasons", err)
	}
	if flagJSON {
		return printJSON(seasons)
	}
	out.Seasons(seasons)
	return nil
}

func streamsRun(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()
	p := site(ctx)

	movie, err := p.GetMovie(ctx, pathArg(args[0]))
	if err != nil {
		return explain("loading title", err)
	}
	if movie.IsComingSoon {
		out.Warn("%s is marked as coming soon; streams may be missing.", movie.Title)
	}
	tr, err := pickTranslation(movie, flagTranslation)
	if err != nil {
		return err
	}

	var ep *media.EpisodeRef
	if movie.IsSerial {
		if flagSeason <= 0 || flagEpisode <= 0 {
			return fmt.Errorf("%s is a serial: pass --season and --episode (see `lfilms seasons`)", movie.Title)
		}
		ep = &media.EpisodeRef{Season: flagSeason, Episode: flagEpisode}
	}
	debugf("resolving %d with translation %d (%s)", movie.ID, tr.ID, tr.Name)

	streams, err := p.LoadStreams(ctx, movie.ID, tr.ID, ep)
	if err != nil {
		return explain("resolving streams", err)
	}

	if flagSubs != "" && len(streams) > 0 {
		streams = keepSubtitle(streams, flagSubs)
	}

	if cfg.History && len(streams) > 0 {
		var season, episode *int
		if ep != nil {
			season, episode = &ep.Season, &ep.Episode
		}
		if _, err := history.Save(ctx, kv, movie.Preview(), tr.ID, season, episode); err != nil {
			debugf("saving history failed: %v", err)
		}
	}

	if flagJSON {
		return printJSON(streams)
	}
	out.Streams(streams)
	return nil
}

// pickTranslation returns the translation with id, or the first one when id
// is zero. Every parsed title has at least one translation.
func pickTranslation(m media.Movie, id int) (media.Translation, error) {
	if len(m.Translations) == 0 {
		return media.OriginalTranslation, nil
	}
	if id == 0 {
		return m.Translations[0], nil
	}
	names := make([]string, 0, len(m.Translations))
	for _, t := range m.Translations {
		if t.ID == id {
			return t, nil
		}
		names = append(names, fmt.Sprintf("%d (%s)", t.ID, t.Name))
	}
	return media.Translation{}, fmt.Errorf("translation %d not offered for %s; available: %s",
		id, m.Title, strings.Join(names, ", "))
}

// keepSubtitle narrows the shared subtitle list to the best track for lang.
func keepSubtitle(streams []media.Stream, lang string) []media.Stream {
	best := subtitle.BestMatch(streams[0].Subtitles, lang)
	if best == nil {
		out.Warn("No %s subtitles for this video.", lang)
	}

	narrowed := make([]media.Stream, len(streams))
	for i, s := range streams {
		s.Subtitles = nil
		if best != nil {
			s.Subtitles = []media.Subtitle{*best}
		}
		narrowed[i] = s
	}
	return narrowed
}
