// Package cmd implements the CLI commands using Cobra.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"lfilms/internal/apierr"
	"lfilms/internal/config"
	"lfilms/internal/httputil"
	"lfilms/internal/media"
	"lfilms/internal/mirror"
	"lfilms/internal/provider"
	"lfilms/internal/store"
	"lfilms/internal/ui"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Global flags
var (
	flagConfig    string
	flagMirror    string
	flagTimeout   int
	flagNoResolve bool
	flagInsecure  bool
	flagJSON      bool
	flagDebug     bool
)

// Shared state built by setup (merged: defaults < config file < flags).
var (
	cfg     *config.Config
	logger  *slog.Logger
	kv      *store.SQLite
	mirrors *mirror.Config
	manager *mirror.Manager
	gateway *httputil.Gateway
	out     *ui.Printer

	bootstrapped bool
)

var rootCmd = &cobra.Command{
	Use:   "lfilms [query]",
	Short: "Browse HDRezka mirrors from the terminal",
	Long: `lfilms searches an HDRezka mirror, shows title details and resolves
stream and subtitle links for movies and serial episodes.`,
	Args:               cobra.ArbitraryArgs,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
	RunE:               searchRun,
	SilenceUsage:       true,
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Config file (default: $XDG_CONFIG_HOME/lfilms/config.toml)")
	pf.StringVarP(&flagMirror, "mirror", "m", "", "Mirror URL for this run, e.g. https://rezka.ag")
	pf.IntVar(&flagTimeout, "timeout", 0, "Request timeout in seconds")
	pf.BoolVar(&flagNoResolve, "no-resolve", false, "Do not look up the current mirror in the manifest")
	pf.BoolVar(&flagInsecure, "insecure", false, "Skip TLS certificate verification")
	pf.BoolVarP(&flagJSON, "json", "j", false, "Output results as JSON")
	pf.BoolVarP(&flagDebug, "debug", "x", false, "Debug logging to stderr")

	rootCmd.Flags().IntVar(&flagPage, "page", 1, "Result page")
	rootCmd.Flags().BoolVarP(&flagPick, "pick", "p", false, "Pick a result with fzf and show its details")

	rootCmd.AddCommand(searchCmd, hintsCmd, homeCmd, browseCmd, movieCmd, trailerCmd,
		seasonsCmd, streamsCmd, historyCmd, favoritesCmd, mirrorCmd, themeCmd, versionCmd)
}

// setup loads configuration, then opens the logger, store and gateway.
// Nothing touches the network until a command asks for the site.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	if flagConfig != "" {
		cfg, err = config.LoadFile(flagConfig)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// CLI flags override config file values
	if flagTimeout > 0 {
		cfg.TimeoutSeconds = flagTimeout
	}
	if flagNoResolve {
		cfg.ResolveMirror = false
	}
	if cmd.Flags().Changed("insecure") {
		cfg.InsecureSkipVerify = flagInsecure
	}
	if flagDebug {
		cfg.Debug = true
	}

	// Re-validate after flag overrides
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err = config.InitLogger(cfg.Logging, cfg.Debug)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}

	storePath, err := config.StorePath()
	if err != nil {
		return err
	}
	kv, err = store.Open(storePath)
	if err != nil {
		return err
	}

	theme, err := store.GetTheme(cmd.Context(), kv)
	if err != nil {
		debugf("reading theme: %v", err)
	}
	out = ui.NewPrinter(os.Stdout, os.Stderr, theme)

	initial, err := mirror.ParseMirror(cfg.Mirror)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	mirrors = mirror.NewConfig(initial)
	gateway = httputil.NewGateway(mirrors, httputil.GatewayOptions{
		UserAgent:          cfg.UserAgent,
		Timeout:            cfg.Timeout(),
		InsecureSkipVerify: cfg.InsecureSkipVerify,
		Debug:              cfg.Debug,
		Logger:             logger,
	})
	manager = mirror.NewManager(mirrors, gateway, cfg.BootstrapURL, logger)
	return nil
}

func teardown(cmd *cobra.Command, args []string) error {
	if kv != nil {
		return kv.Close()
	}
	return nil
}

// site returns the scraper after settling on a mirror on first use.
func site(ctx context.Context) *provider.Rezka {
	if !bootstrapped {
		bootstrapped = true

		bctx, cancel := context.WithTimeout(ctx, cfg.Timeout())
		m, err := settleMirror(bctx, kv, manager, flagMirror, cfg.ResolveMirror)
		cancel()
		if err != nil {
			out.Warn("Could not reach the mirror manifest, using %s", m)
		}
		debugf("using mirror %s", m)
	}
	return provider.NewRezka(gateway, logger)
}

// settleMirror picks the mirror for this run. The --mirror flag beats a saved
// override and the manifest is consulted only when resolve is set. A mirror
// adopted from the manifest is remembered as the fallback for later runs.
func settleMirror(ctx context.Context, kv store.KV, m *mirror.Manager, flag string, resolve bool) (media.Mirror, error) {
	override := flag
	if override == "" {
		saved, err := store.MirrorOverride(ctx, kv)
		if err != nil {
			debugf("reading mirror override: %v", err)
		}
		override = saved
	}
	last, err := store.LastMirror(ctx, kv)
	if err != nil {
		debugf("reading last mirror: %v", err)
	}

	got, err := m.Bootstrap(ctx, mirror.Policy{
		Override:     override,
		SkipManifest: !resolve,
		LastKnown:    last,
	})
	if err != nil {
		return got, err
	}

	_, overrideErr := mirror.ParseMirror(override)
	if resolve && overrideErr != nil && got.String() != last {
		if err := store.SetLastMirror(ctx, kv, got.String()); err != nil {
			debugf("saving last mirror: %v", err)
		}
	}
	return got, nil
}

// commandContext bounds a command by the request timeout plus headroom for
// the several calls some commands make.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), 4*cfg.Timeout()+5*time.Second)
}

// explain turns client errors into a one-line hint for the user.
func explain(action string, err error) error {
	switch apierr.Kind(err) {
	case "timeout", "unreachable":
		return fmt.Errorf("%s: mirror %s did not respond, try --mirror or `lfilms mirror set`: %w", action, mirrors.Current(), err)
	case "not_found":
		return fmt.Errorf("%s: nothing at that address: %w", action, err)
	default:
		return fmt.Errorf("%s: %w", action, err)
	}
}

// debugf logs a message if debug mode is enabled.
func debugf(format string, args ...any) {
	if cfg != nil && cfg.Debug && logger != nil {
		logger.Debug(fmt.Sprintf(format, args...))
	}
}

// pathArg accepts a site path or a full title URL.
func pathArg(arg string) string {
	arg = strings.TrimSpace(arg)
	if strings.Contains(arg, "://") || strings.HasPrefix(arg, "/") {
		return httputil.SitePath(arg)
	}
	return arg
}
