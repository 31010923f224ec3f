package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"lfilms/internal/store"
)

var themeCmd = &cobra.Command{
	Use:       "theme [light|dark|auto]",
	Short:     "Show or set the output color scheme",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"light", "dark", "auto"},
	RunE:      themeRun,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("lfilms %s\n", Version)
	},
}

func themeRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if len(args) == 0 {
		theme, err := store.GetTheme(ctx, kv)
		if err != nil {
			return err
		}
		if theme == store.ThemeAuto {
			fmt.Println("auto")
			return nil
		}
		fmt.Println(theme)
		return nil
	}

	theme, err := store.ParseTheme(args[0])
	if err != nil {
		return err
	}
	return store.SetTheme(ctx, kv, theme)
}
