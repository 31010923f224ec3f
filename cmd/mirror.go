package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"lfilms/internal/mirror"
	"lfilms/internal/store"
)

var mirrorCmd = &cobra.Command{
	Use:   "mirror",
	Short: "Show the mirror requests go to",
	Args:  cobra.NoArgs,
	RunE:  mirrorRun,
}

var mirrorSetCmd = &cobra.Command{
	Use:   "set <url>",
	Short: "Always use this mirror instead of the manifest",
	Args:  cobra.ExactArgs(1),
	RunE:  mirrorSetRun,
}

var mirrorResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget the saved mirror and follow the manifest again",
	Args:  cobra.NoArgs,
	RunE:  mirrorResetRun,
}

var mirrorResolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Print the mirror currently published in the manifest",
	Args:  cobra.NoArgs,
	RunE:  mirrorResolveRun,
}

func init() {
	mirrorCmd.AddCommand(mirrorSetCmd, mirrorResetCmd, mirrorResolveCmd)
}

func mirrorRun(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	site(ctx)
	fmt.Println(mirrors.Current())
	return nil
}

func mirrorSetRun(cmd *cobra.Command, args []string) error {
	m, err := mirror.ParseMirror(args[0])
	if err != nil {
		return err
	}
	if err := store.SetMirrorOverride(cmd.Context(), kv, m.String()); err != nil {
		return err
	}
	fmt.Printf("Mirror set to %s\n", m)
	return nil
}

func mirrorResetRun(cmd *cobra.Command, args []string) error {
	if err := store.SetMirrorOverride(cmd.Context(), kv, ""); err != nil {
		return err
	}
	fmt.Println("Saved mirror cleared.")
	return nil
}

func mirrorResolveRun(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	m, err := manager.ResolveActual(ctx)
	if err != nil {
		return explain("reading manifest", err)
	}
	fmt.Println(m)
	return nil
}
