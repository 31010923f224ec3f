package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"lfilms/internal/media"
	"lfilms/internal/provider"
	"lfilms/internal/ui"
)

var (
	flagPage int
	flagPick bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search titles by name",
	Args:  cobra.MinimumNArgs(1),
	RunE:  searchRun,
}

var hintsCmd = &cobra.Command{
	Use:   "hints <query>",
	Short: "Quick search suggestions with ratings",
	Args:  cobra.MinimumNArgs(1),
	RunE:  hintsRun,
}

func init() {
	searchCmd.Flags().IntVar(&flagPage, "page", 1, "Result page")
	searchCmd.Flags().BoolVarP(&flagPick, "pick", "p", false, "Pick a result with fzf and show its details")
}

// searchRun is the default command: lfilms <query>. Without a query it
// shows the home page.
func searchRun(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	ctx, cancel := commandContext(cmd)
	defer cancel()
	p := site(ctx)

	var (
		list media.MoviesList
		err  error
	)
	if strings.TrimSpace(query) == "" {
		debugf("no query, loading home page")
		list, err = p.Home(ctx)
	} else {
		debugf("searching for: %s (page %d)", query, flagPage)
		list, err = p.Search(ctx, query, flagPage)
	}
	if err != nil {
		return explain("search failed", err)
	}

	return showListing(ctx, p, list)
}

func hintsRun(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	ctx, cancel := commandContext(cmd)
	defer cancel()

	hints, err := site(ctx).SearchHints(ctx, query)
	if err != nil {
		return explain("search hints failed", err)
	}
	hints = provider.FilterHints(hints, query)

	if flagJSON {
		return printJSON(hints)
	}
	if len(hints) == 0 {
		fmt.Println("No suggestions.")
		return nil
	}
	for _, h := range hints {
		fmt.Printf("%s\n    %s\n", provider.FormatHint(h), h.Path)
	}
	return nil
}

// showListing prints a page, or with --pick lets the user choose a title and
// shows its details.
func showListing(ctx context.Context, p *provider.Rezka, list media.MoviesList) error {
	if !flagPick || len(list.Movies) == 0 {
		if flagJSON {
			return printJSON(list)
		}
		out.Listing(list)
		return nil
	}

	items := make([]string, len(list.Movies))
	for i, m := range list.Movies {
		items[i] = fmt.Sprintf("%s  (%s)", m.Name, m.Description)
	}

	idx, err := ui.Select("Select", items)
	if errors.Is(err, ui.ErrCancelled) {
		return nil
	}
	if err != nil {
		return err
	}

	selected := list.Movies[idx]
	debugf("selected: %s (%s)", selected.Name, selected.Path)
	return showMovie(ctx, p, selected.Path)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
