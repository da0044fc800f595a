package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/saltyorg/recordstore/internal/config"
	"github.com/saltyorg/recordstore/internal/database"
	"github.com/saltyorg/recordstore/internal/logging"
	"github.com/saltyorg/recordstore/internal/records"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// CLI flags
var (
	dbPath    string
	logFile   string
	verbosity int
)

// app holds what a command needs once flags and environment are resolved.
type app struct {
	cfg     config.Config
	store   *database.Store
	records *records.Manager
	logs    io.Closer
}

// reportedError marks an error withApp has already logged.
type reportedError struct {
	error
}

func (e reportedError) Unwrap() error {
	return e.error
}

func main() {
	os.Exit(run(newRootCmd()))
}

// run executes cmd and returns the process exit code. Every failure is
// logged exactly once.
func run(cmd *cobra.Command) int {
	if err := cmd.Execute(); err != nil {
		if !errors.As(err, new(reportedError)) {
			log.Error().Err(err).Str("command", cmd.CommandPath()).Msg("Command failed")
		}
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "recordstore",
		Short: "Recordstore - user, admin and customer records in SQLite",
		Long: `Recordstore manages user, admin and customer records in a SQLite database.
Run without a sub-command to bootstrap the schema and load the sample records.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          withApp(runDemo),
	}

	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", config.DefaultDBPath, "SQLite database path (or set DB_PATH env var)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Log file path (default: recordstore.log next to the database)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v debug, -vv trace)")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "init",
			Short: "Create the database schema if it does not exist",
			Args:  cobra.NoArgs,
			RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
				fmt.Fprintf(cmd.OutOrStdout(), "Schema ready at %s\n", a.store.Path())
				return nil
			}),
		},
		newUserCmd(),
		newAdminCmd(),
		newCustomerCmd(),
		newBatchCmd(),
		newStatsCmd(),
		newMaintenanceCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Show version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "recordstore %s (commit: %s, built: %s)\n", version, commit, date)
			},
		},
	)

	return rootCmd
}

// withApp resolves configuration, sets up logging and migrates the schema
// before running fn.
func withApp(fn func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.logs.Close()

		err = a.store.Migrate(cmd.Context())
		if err == nil {
			err = fn(cmd, a, args)
		}
		if err != nil {
			log.Error().Err(err).Str("command", cmd.CommandPath()).Msg("Command failed")
			return reportedError{err}
		}
		return nil
	}
}

func setup(cmd *cobra.Command) (*app, error) {
	if err := config.LoadEnvFiles(); err != nil {
		return nil, err
	}

	loader := config.NewLoader(config.Env{Prefix: config.EnvPrefix})
	cfg := config.Load(loader)

	if cmd.Flags().Changed("db") {
		cfg.DBPath = dbPath
	}
	if logFile != "" {
		cfg.LogFile = logFile
	}
	if cfg.LogFile == "" {
		cfg.LogFile = logging.FilePathForDB(cfg.DBPath)
	}

	logs := logging.Apply(logging.LevelFromVerbosity(verbosity), loader, cfg.LogFile)

	log.Debug().
		Str("version", version).
		Str("database", cfg.DBPath).
		Str("log_file", cfg.LogFile).
		Msg("Starting Recordstore")

	store := database.New(cfg.DBPath, database.WithBusyTimeout(cfg.BusyTimeout))
	return &app{
		cfg:     cfg,
		store:   store,
		records: records.NewManager(store),
		logs:    logs,
	}, nil
}

// runDemo loads the sample records: one user looked up by name, one admin,
// one customer and a transaction of two more users.
func runDemo(cmd *cobra.Command, a *app, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if _, err := a.records.Users.Add(ctx, "john_doe", "john@example.com"); err != nil {
		return err
	}

	user, err := a.records.Users.GetByUsername(ctx, "john_doe")
	if err != nil {
		return err
	}
	printUser(out, user)

	if _, err := a.records.Admins.Add(ctx, "admin_user", "admin@example.com", 1); err != nil {
		return err
	}
	if _, err := a.records.Customers.Add(ctx, "customer_user", "customer@example.com", 100); err != nil {
		return err
	}

	created, err := a.records.Users.AddMany(ctx, []records.User{
		{Username: "user1", Email: "user1@example.com"},
		{Username: "user2", Email: "user2@example.com"},
	})
	if err != nil {
		return err
	}

	log.Info().Int("users", len(created)).Msg("Sample records loaded")
	return nil
}
