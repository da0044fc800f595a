package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/saltyorg/recordstore/internal/batch"
	"github.com/saltyorg/recordstore/internal/database"
)

func newBatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "batch FILE",
		Short: "Run the statements of a YAML batch file as one transaction",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			ops, err := batch.Load(args[0])
			if err != nil {
				return err
			}

			res, err := a.store.ExecuteTransaction(cmd.Context(), ops)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Committed %d operations (tx %s)\n", len(res.Results), res.ID)
			return nil
		}),
	}
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the number of rows per table",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			for _, table := range database.Tables {
				n, err := a.store.CountRows(cmd.Context(), table)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s=%d\n", table, n)
			}
			return nil
		}),
	}
}
