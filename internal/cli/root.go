package cli

import (
	"fmt"
	"os"
	"strings"

	"accounts-cli/internal/format"
	"accounts-cli/internal/listview"
	"accounts-cli/internal/logging"
	"accounts-cli/internal/notify"
	"accounts-cli/internal/remote"
	"accounts-cli/internal/store"
	"accounts-cli/internal/tui"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type App struct {
	Dir        string
	Workspace  string
	Remote     string
	Token      string
	Format     string
	LogLevel   string
	LogFile    string
	PrettyJSON bool

	logger zerolog.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{logger: zerolog.Nop()}

	cmd := &cobra.Command{
		Use:          "accounts",
		Short:        "Account list (CLI + TUI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive list view
  accounts

  # Scriptable commands
  accounts list --search acme --sort Name --direction desc

  # Direct account lookup (shortcut for: accounts show <acc-id>)
  accounts acc-5x2kq7ma
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		level := app.LogLevel
		if level == "" {
			if cfg, err := store.LoadConfig(); err == nil {
				level = cfg.LogLevel
			}
		}
		app.logger = logging.New(level).With().Str("cmd", cmd.CommandPath()).Logger()
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("ACCOUNTS_DIR", ""), "Path to store dir (overrides workspace resolution)")
	cmd.PersistentFlags().StringVar(&app.Workspace, "workspace", envOr("ACCOUNTS_WORKSPACE", ""), "Workspace name (default: 'default')")
	cmd.PersistentFlags().StringVar(&app.Remote, "remote", envOr("ACCOUNTS_REMOTE", ""), "Base URL of an `accounts serve` backend (overrides the local workspace for list/show/update/TUI)")
	cmd.PersistentFlags().StringVar(&app.Token, "remote-token", envOr("ACCOUNTS_REMOTE_TOKEN", ""), "Bearer token for --remote (see `accounts token`)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("ACCOUNTS_FORMAT", "json"), "Output format (json|table)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", envOr("ACCOUNTS_LOG_LEVEL", ""), "Log level (debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&app.LogFile, "log-file", envOr("ACCOUNTS_LOG_FILE", ""), "TUI log file (the TUI never logs to the terminal)")

	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newSeedCmd(app))
	cmd.AddCommand(newCreateCmd(app))
	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newShowCmd(app))
	cmd.AddCommand(newUpdateCmd(app))
	cmd.AddCommand(newEventsCmd(app))
	cmd.AddCommand(newDoctorCmd(app))
	cmd.AddCommand(newBackupCmd(app))
	cmd.AddCommand(newServeCmd(app))
	cmd.AddCommand(newTokenCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newWorkspaceCmd(app))

	return cmd
}

func runTUI(cmd *cobra.Command, app *App) error {
	logger := zerolog.Nop()
	if strings.TrimSpace(app.LogFile) != "" {
		l, closer, err := logging.OpenFile(app.LogFile, app.LogLevel)
		if err != nil {
			return writeErr(cmd, err)
		}
		defer closer.Close()
		logger = l
	}

	be, source, err := openBackend(app)
	if err != nil {
		return writeErr(cmd, err)
	}
	return tui.Run(cmd.Context(), tui.Options{
		Backend: be,
		Source:  source,
		Logger:  logger,
	})
}

// openBackend returns the remote client when a remote is configured, else the
// local workspace store. source describes it for display.
func openBackend(app *App) (listview.Backend, string, error) {
	base := strings.TrimSpace(app.Remote)
	token := strings.TrimSpace(app.Token)
	if base == "" {
		if cfg, err := store.LoadConfig(); err == nil {
			base = strings.TrimSpace(cfg.Remote)
			if token == "" {
				token = strings.TrimSpace(cfg.RemoteToken)
			}
		}
	}
	if base != "" {
		c, err := remote.New(base, nil, remote.WithToken(token))
		if err != nil {
			return nil, "", err
		}
		return c, base, nil
	}

	s, err := loadStore(app)
	if err != nil {
		return nil, "", err
	}
	return s, workspaceLabel(app), nil
}

// newController wires a list view controller whose notifications are
// recorded for the output envelope and logged.
func newController(app *App, be listview.Backend) (*listview.Controller, *notify.Recorder) {
	rec := &notify.Recorder{}
	ctrl := listview.NewController(be,
		listview.WithNotifier(notify.Multi{rec, notify.Log{Logger: app.logger}}),
		listview.WithLogger(app.logger),
	)
	return ctrl, rec
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}

// writeErrNotifications reports err plus the notifications emitted on the way
// to it, as a JSON line on stderr.
func writeErrNotifications(cmd *cobra.Command, app *App, err error, ns []notify.Notification) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	if len(ns) > 0 {
		_ = format.WriteJSON(cmd.ErrOrStderr(), map[string]any{"notifications": ns}, app.PrettyJSON)
	}
	return err
}
