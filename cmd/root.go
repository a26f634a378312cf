package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/Johannes-Berggren/GitHistory/internal/config"
	"github.com/Johannes-Berggren/GitHistory/internal/git"
	"github.com/Johannes-Berggren/GitHistory/internal/logger"
	"github.com/Johannes-Berggren/GitHistory/internal/printer"
	"github.com/Johannes-Berggren/GitHistory/internal/session"
	"github.com/Johannes-Berggren/GitHistory/internal/ui"
)

type rootFlags struct {
	path       string
	count      int
	configPath string
	backend    string
	plain      bool
	watch      bool
	overrides  []string
}

var flags rootFlags

var rootCmd = &cobra.Command{
	Use:   "githistory",
	Short: "Show the recent git history of a file or directory",
	Long: `githistory lists the most recent commits that touched a file or directory.

It opens an interactive list when stdout is a terminal and prints plain
lines otherwise.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, flags)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		if flags.plain || !isatty.IsTerminal(os.Stdout.Fd()) {
			return runPlain(ctx, cfg, flags.path, cmd.OutOrStdout())
		}
		return runInteractive(ctx, cfg, flags.path)
	},
}

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&flags.path, "path", "p", ".", "file or directory to show history for")
	f.IntVarP(&flags.count, "count", "n", 0, "number of commits to show (default from config, 5)")
	f.StringVar(&flags.configPath, "config", "", "config file (default ~/.githistory/config.toml)")
	f.StringVar(&flags.backend, "backend", "", "history backend: cli or go-git")
	f.BoolVar(&flags.plain, "plain", false, "print the list instead of opening the interactive view")
	f.BoolVar(&flags.watch, "watch", false, "reload when the repository changes")
	f.StringArrayVar(&flags.overrides, "set", nil, "override a config key (key=value), may be repeated")
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig layers the config file, --set overrides and explicit flags.
func loadConfig(cmd *cobra.Command, f rootFlags) (config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}
	cfg = config.ApplyKVOverrides(cfg, f.overrides)

	if cmd.Flags().Changed("count") {
		cfg.Count = f.count
	}
	if f.backend != "" {
		cfg.Backend = f.backend
	}
	if cmd.Flags().Changed("watch") {
		cfg.Watch = f.watch
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// checkInput reports a missing path or git binary before the interactive
// view starts, so they fail the command instead of showing an error screen.
func checkInput(cfg config.Config, path string) error {
	if err := git.CheckTarget(path); err != nil {
		return err
	}
	if cfg.Backend == config.BackendCLI {
		return git.NewCLIFetcher(cfg.GitBinary).Available()
	}
	return nil
}

func newFetcher(cfg config.Config) git.Fetcher {
	if cfg.Backend == config.BackendGoGit {
		return git.NewGoGitFetcher()
	}
	return git.NewCLIFetcher(cfg.GitBinary)
}

// runPlain fetches once and prints the list. Logs go to stderr.
func runPlain(ctx context.Context, cfg config.Config, path string, out io.Writer) error {
	logger.Configure()
	logger.SetOutput(os.Stderr)

	fetcher := newFetcher(cfg)

	s, _ := session.Session{}.Begin()
	raw, err := fetcher.FetchLog(ctx, path, cfg.Count)
	if err != nil {
		return err
	}
	s = s.Complete(raw, cfg.Metrics())

	branch, err := fetcher.Branch(ctx, path)
	if err != nil {
		logger.Named("cli").WithError(err).Debug("failed to get current branch")
		branch = ""
	}

	width := printer.TerminalWidth(os.Stdout)
	return printer.New(out, width, cfg.Tint()).Print(path, branch, s.List)
}

// runInteractive logs to a file so the alternate screen stays clean, and
// forwards warnings to the status line.
func runInteractive(ctx context.Context, cfg config.Config, path string) error {
	if err := checkInput(cfg, path); err != nil {
		return err
	}

	logger.Configure()
	if closer, logPath, err := logger.SetupFile(cfg.LogFile); err != nil {
		logger.SetOutput(io.Discard)
	} else {
		defer closer.Close()
		logger.Named("cli").WithField("log", logPath).Info("starting")
	}

	hook := logger.NewNotifyHook(8)
	logger.Install(hook)

	opts := ui.Options{
		Context:  ctx,
		Fetcher:  newFetcher(cfg),
		Path:     path,
		Count:    cfg.Count,
		Metrics:  cfg.Metrics(),
		Tint:     cfg.Tint(),
		Accent:   cfg.Theme.Accent,
		Warnings: hook.C,
	}

	if cfg.Watch {
		watcher, err := git.WatchRepository(ctx, path)
		if err != nil {
			logger.Named("cli").WithError(err).Warn("watch disabled")
		} else {
			defer watcher.Close()
			opts.Changes = watcher.Changes()
		}
	}

	return ui.Run(opts)
}
