package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/saltyorg/recordstore/internal/maintenance"
)

func newMaintenanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "maintenance",
		Short: "Database housekeeping",
	}

	var (
		schedule string
		vacuum   bool
	)

	scheduleCmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run PRAGMA optimize on a cron schedule until interrupted",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			if !cmd.Flags().Changed("cron") {
				schedule = a.cfg.MaintenanceCron
			}

			scheduler := maintenance.NewScheduler(a.store, vacuum)
			if err := scheduler.Start(schedule); err != nil {
				return err
			}
			defer scheduler.Stop()

			log.Info().Time("next_run", scheduler.NextRun()).Msg("Waiting for next maintenance run")

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()

			log.Info().Msg("Received shutdown signal")
			return nil
		}),
	}
	scheduleCmd.Flags().StringVar(&schedule, "cron", "", "Cron schedule (default @daily, or set RECORDSTORE_MAINTENANCE_CRON)")
	scheduleCmd.Flags().BoolVar(&vacuum, "vacuum", false, "Also VACUUM on every run")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "optimize",
			Short: "Refresh query planner statistics",
			Args:  cobra.NoArgs,
			RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
				if err := a.store.Optimize(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Database optimized")
				return nil
			}),
		},
		&cobra.Command{
			Use:   "vacuum",
			Short: "Rebuild the database file to reclaim space",
			Args:  cobra.NoArgs,
			RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
				if err := a.store.Vacuum(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Database vacuumed")
				return nil
			}),
		},
		scheduleCmd,
	)

	return cmd
}
