package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"todo-list/internal/config"
	"todo-list/internal/logging"
)

// Version is stamped at build time with -ldflags "-X todo-list/internal/cli.Version=...".
var Version = "dev"

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd    *cobra.Command
	config *config.Config
	logger *log.Logger
	errors *ErrorHandler
}

// NewRootCommand creates the root cobra command with global flags
func NewRootCommand() *RootCommand {
	root := &RootCommand{errors: NewErrorHandler()}

	root.cmd = &cobra.Command{
		Use:   "todo",
		Short: "A small web to-do list",
		Long: `todo serves a single-page to-do list over HTTP.

Two storage variants are available:
  serve        SQLite table with edit, toggle, delete and CSV import/export
  serve-text   one task per line in a plain text file

EXAMPLES:
  todo serve                               # Listen on :8080 with ./task.db
  todo serve --addr 127.0.0.1:9000         # Listen on another address
  todo serve-text --text-file ~/tasks.txt  # Flat-file list
  todo export --out tasks.csv              # Write every task as CSV
  todo import tasks.csv                    # Append tasks from a CSV file

CONFIGURATION:
  Configuration follows this priority order:
  command-line flags > environment variables > config file > defaults

  TODO_CONFIG                              YAML or TOML config file
  TODO_ADDR                                Listen address (default: :8080)
  TODO_DB_DIR                              Database directory (default: .)
  TODO_DB_FILENAME                         Database filename (default: task.db)
  TODO_DB_BUSY_TIMEOUT                     Wait on a locked database (default: 30s)
  TODO_TEXT_FILE                           Flat-file list (default: tasks.txt)
  TODO_TIMEZONE                            Display time zone (default: Asia/Hong_Kong)
  TODO_SERIALIZE_REQUESTS                  Handle one request at a time (default: true)
  TODO_RATE_RPS                            Per-client requests per second, 0 disables
  TODO_LOG_LEVEL                           debug, info, warn or error (default: info)
  TODO_DEBUG                               Any value enables debug tracing`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.loadConfig()
		},
	}

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// Command exposes the underlying cobra command
func (r *RootCommand) Command() *cobra.Command {
	return r.cmd
}

// ExecuteContext runs the root command with ctx
func (r *RootCommand) ExecuteContext(ctx context.Context) error {
	return r.cmd.ExecuteContext(ctx)
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	flags.String("config", "", "YAML or TOML config file (overrides TODO_CONFIG)")
	flags.String("addr", "", "Listen address (overrides TODO_ADDR)")

	// Database configuration
	flags.String("db-dir", "", "Database directory (overrides TODO_DB_DIR)")
	flags.String("db-filename", "", "Database filename (overrides TODO_DB_FILENAME)")
	flags.Duration("db-busy-timeout", 0, "Wait on a locked database (overrides TODO_DB_BUSY_TIMEOUT)")

	// Text store configuration
	flags.String("text-file", "", "Flat-file task list (overrides TODO_TEXT_FILE)")

	// Time configuration
	flags.String("timezone", "", "Display time zone (overrides TODO_TIMEZONE)")

	// Limits configuration
	flags.Bool("serialize", true, "Handle one request at a time (overrides TODO_SERIALIZE_REQUESTS)")
	flags.Float64("rate-rps", 0, "Per-client requests per second, 0 disables (overrides TODO_RATE_RPS)")

	// Logging configuration
	flags.String("log-level", "", "Log level (overrides TODO_LOG_LEVEL)")
	flags.Bool("debug", false, "Enable debug tracing (overrides TODO_DEBUG)")
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "todo %s\n", Version)
			return err
		},
	}

	r.cmd.AddCommand(
		r.newServeCommand(),
		r.newServeTextCommand(),
		r.newExportCommand(),
		r.newImportCommand(),
		versionCmd,
	)
}

// overridesFromFlags collects the flags the user actually set
func (r *RootCommand) overridesFromFlags() *config.ConfigOverrides {
	flags := r.cmd.PersistentFlags()
	overrides := &config.ConfigOverrides{}

	stringFlag := func(name string) *string {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetString(name)
		return &v
	}

	overrides.ConfigFile = stringFlag("config")
	overrides.Addr = stringFlag("addr")
	overrides.DBDir = stringFlag("db-dir")
	overrides.DBFilename = stringFlag("db-filename")
	overrides.TextFile = stringFlag("text-file")
	overrides.TimeZone = stringFlag("timezone")
	overrides.LogLevel = stringFlag("log-level")

	if flags.Changed("db-busy-timeout") {
		v, _ := flags.GetDuration("db-busy-timeout")
		overrides.BusyTimeout = &v
	}
	if flags.Changed("serialize") {
		v, _ := flags.GetBool("serialize")
		overrides.SerializeRequests = &v
	}
	if flags.Changed("rate-rps") {
		v, _ := flags.GetFloat64("rate-rps")
		overrides.RateRPS = &v
	}
	if flags.Changed("debug") {
		v, _ := flags.GetBool("debug")
		overrides.Debug = &v
	}

	return overrides
}

// loadConfig resolves configuration and installs the process logger
func (r *RootCommand) loadConfig() error {
	cfg, err := config.NewLoader().LoadWithOverrides(r.overridesFromFlags())
	if err != nil {
		return err
	}

	// debug tracing in the lower layers keys off the environment
	if cfg.Logging.Debug && !logging.DebugEnabled() {
		if err := os.Setenv("TODO_DEBUG", "1"); err != nil {
			return err
		}
	}

	logger, err := config.CreateLogger(cfg, r.cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	logging.SetDefault(logger)

	r.config = cfg
	r.logger = logger
	logging.Debugf("config loaded: addr=%s db=%s text=%s zone=%s",
		cfg.Server.Addr, cfg.GetDatabasePath(), cfg.TextStore.Path, cfg.Time.Zone)
	return nil
}
