package cmd

import (
	"github.com/spf13/cobra"

	"lfilms/internal/media"
	"lfilms/internal/provider"
)

var homeCmd = &cobra.Command{
	Use:   "home",
	Short: "Show the titles on the mirror's front page",
	Args:  cobra.NoArgs,
	RunE:  homeRun,
}

var browseCmd = &cobra.Command{
	Use:     "browse [filter]",
	Aliases: []string{"trending", "watching"},
	Short:   "Browse a listing (default: what people are watching now)",
	Long: `Browse one of the site's listings, e.g. "watching", "popular", "last"
or "soon". Without a filter the "watching" listing is shown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: browseRun,
}

func init() {
	for _, c := range []*cobra.Command{homeCmd, browseCmd} {
		c.Flags().BoolVarP(&flagPick, "pick", "p", false, "Pick a result with fzf and show its details")
	}
	browseCmd.Flags().IntVar(&flagPage, "page", 1, "Result page")
}

func homeRun(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	p := site(ctx)
	list, err := p.Home(ctx)
	if err != nil {
		return explain("loading home page", err)
	}
	return showListing(ctx, p, list)
}

func browseRun(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()
	p := site(ctx)

	var (
		list   media.MoviesList
		err    error
		filter = provider.WatchingFilter
	)
	if len(args) == 1 {
		filter = args[0]
		list, err = p.Browse(ctx, filter, flagPage)
	} else {
		list, err = p.Watching(ctx, flagPage)
	}
	debugf("browsed %s, page %d", filter, flagPage)
	if err != nil {
		return explain("browsing "+filter, err)
	}
	return showListing(ctx, p, list)
}
