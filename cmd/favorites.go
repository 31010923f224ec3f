package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"lfilms/internal/favorites"
	"lfilms/internal/media"
)

var favoritesCmd = &cobra.Command{
	Use:     "favorites [filter]",
	Aliases: []string{"fav"},
	Short:   "List bookmarked titles, optionally filtered by name",
	RunE:    favoritesRun,
}

var favoritesAddCmd = &cobra.Command{
	Use:   "add <path|url>",
	Short: "Bookmark a title",
	Args:  cobra.ExactArgs(1),
	RunE:  favoritesAddRun,
}

var favoritesRemoveCmd = &cobra.Command{
	Use:   "remove <path|url>",
	Short: "Remove a bookmark",
	Args:  cobra.ExactArgs(1),
	RunE:  favoritesRemoveRun,
}

func init() {
	favoritesCmd.AddCommand(favoritesAddCmd, favoritesRemoveCmd)
}

func favoritesRun(cmd *cobra.Command, args []string) error {
	movies, err := favorites.List(cmd.Context(), kv)
	if err != nil {
		return err
	}
	if text := strings.Join(args, " "); text != "" {
		movies = favorites.Filter(text, movies)
	}

	if flagJSON {
		return printJSON(movies)
	}
	out.Listing(media.SinglePage(movies))
	return nil
}

func favoritesAddRun(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	movie, err := site(ctx).GetMovie(ctx, pathArg(args[0]))
	if err != nil {
		return explain("loading title", err)
	}
	if _, err := favorites.Set(ctx, kv, movie.Preview(), true); err != nil {
		return err
	}
	fmt.Printf("Added %s to favorites.\n", movie.Title)
	return nil
}

func favoritesRemoveRun(cmd *cobra.Command, args []string) error {
	path := pathArg(args[0])
	ok, err := favorites.Contains(cmd.Context(), kv, path)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s is not in favorites", path)
	}
	if _, err := favorites.Set(cmd.Context(), kv, media.MoviePreview{Path: path}, false); err != nil {
		return err
	}
	fmt.Printf("Removed %s from favorites.\n", path)
	return nil
}
