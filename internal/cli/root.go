package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vidyasagar/tnav/internal/app"
	"github.com/vidyasagar/tnav/internal/config"
	"github.com/vidyasagar/tnav/internal/logging"
	"github.com/vidyasagar/tnav/internal/storage"
	"github.com/vidyasagar/tnav/internal/theme"
)

var version = "0.1.0"

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	ConfigPath string
	Theme      string
	LogLevel   string
	Format     string // "text" | "json"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command. Run bare it starts the
// browser; subcommands inspect the same data from outside the TUI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "tnav [url]",
		Short: "tnav - a terminal web browser that remembers where you've been",
		Long: `A keyboard-driven terminal web browser built around a session
history engine: every page becomes a session entry, back and forward
replay your path, and pinned pages ask before letting you leave.

Run without arguments to start on the new-tab page, or pass a URL or
search query to open it straight away.

Examples:
  tnav                           start with the welcome screen
  tnav https://go.dev            open a URL
  tnav golang.org                bare domains get https:// added
  tnav "errgroup tutorial"       anything else becomes a search
  tnav history --limit 10        print recent visits without the TUI`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if _, err := zerolog.ParseLevel(opts.LogLevel); err != nil {
				return fmt.Errorf("invalid log level %q: %w", opts.LogLevel, err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			startURL := ""
			if len(args) > 0 {
				startURL = args[0]
			}
			return runBrowser(opts, startURL)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default: the user config dir)")
	cmd.PersistentFlags().StringVar(&opts.Theme, "theme", "", "color theme override")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "info", "log level (trace|debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format for subcommands (text|json)")

	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewBookmarksCommand(opts))
	cmd.AddCommand(NewThemesCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// runBrowser starts the TUI.
func runBrowser(opts *RootOptions, startURL string) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	if !theme.Set(cfg.Theme) {
		return NewExitError(ExitCommandError,
			fmt.Sprintf("unknown theme %q, available: %s", cfg.Theme, strings.Join(theme.List(), ", ")))
	}

	logger := logging.Nop()
	if dataDir, derr := config.DataDir(); derr == nil {
		if l, closeLog, lerr := logging.Setup(dataDir, opts.LogLevel); lerr == nil {
			logger = l
			defer closeLog()
		}
	}
	logger.Info().Str("version", version).Str("url", startURL).Msg("starting")

	m := app.New(startURL, cfg, logger)
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	final, err := p.Run()
	if fm, ok := final.(app.Model); ok {
		fm.Close()
	}
	if err != nil {
		return WrapExitError(ExitFailure, "running browser", err)
	}
	logger.Info().Msg("exiting")
	return nil
}

// loadConfig loads the config file and applies flag overrides.
func loadConfig(opts *RootOptions) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.ConfigPath != "" {
		cfg, err = config.LoadFrom(opts.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "loading config", err)
	}
	if opts.Theme != "" {
		cfg.Theme = opts.Theme
	}
	return cfg, nil
}

// openDatabase opens the browser database the TUI writes, creating it on
// first run. Callers own the returned handle.
func openDatabase(opts *RootOptions) (*storage.DB, *config.Config, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, nil, err
	}
	dir, err := config.DataDir()
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "locating data directory", err)
	}
	db, err := storage.OpenDB(dir)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "opening database", err)
	}
	return db, cfg, nil
}
