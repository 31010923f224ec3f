package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"lfilms/internal/history"
	"lfilms/internal/ui"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the watch history",
	Args:  cobra.NoArgs,
	RunE:  historyRun,
}

var historyRemoveCmd = &cobra.Command{
	Use:   "remove <path|url>",
	Short: "Forget a title",
	Args:  cobra.ExactArgs(1),
	RunE:  historyRemoveRun,
}

func init() {
	historyCmd.Flags().BoolVarP(&flagPick, "pick", "p", false, "Pick an entry with fzf and show the title")
	historyCmd.AddCommand(historyRemoveCmd)
}

func historyRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	entries, err := history.Load(ctx, kv)
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(entries)
	}
	if len(entries) == 0 {
		fmt.Println("No history entries found.")
		return nil
	}

	// Most recent first
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	items := history.FormatForDisplay(entries)

	if !flagPick {
		out.Lines(items)
		return nil
	}

	idx, err := ui.Select("History", items)
	if errors.Is(err, ui.ErrCancelled) {
		return nil
	}
	if err != nil {
		return err
	}

	selected := entries[idx]
	debugf("resuming: %s (%s), translation %d", selected.Name, selected.Path, selected.Translation)

	cctx, cancel := commandContext(cmd)
	defer cancel()
	if err := showMovie(cctx, site(cctx), selected.Path); err != nil {
		return err
	}
	if selected.Season != nil && selected.Episode != nil {
		fmt.Printf("\nLast watched: translation %d, season %d, episode %d\n",
			selected.Translation, *selected.Season, *selected.Episode)
	}
	return nil
}

func historyRemoveRun(cmd *cobra.Command, args []string) error {
	path := pathArg(args[0])
	if err := history.Remove(cmd.Context(), kv, path); err != nil {
		return err
	}
	fmt.Printf("Removed %s from history.\n", path)
	return nil
}
