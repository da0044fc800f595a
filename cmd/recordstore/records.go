package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/saltyorg/recordstore/internal/records"
)

func printUser(w io.Writer, u *records.User) {
	fmt.Fprintf(w, "id=%d username=%s email=%s\n", u.ID, u.Username, u.Email)
}

func printAdmin(w io.Writer, a *records.Admin) {
	fmt.Fprintf(w, "id=%d username=%s email=%s admin_level=%d\n", a.ID, a.Username, a.Email, a.AdminLevel)
}

func printCustomer(w io.Writer, c *records.Customer) {
	fmt.Fprintf(w, "id=%d username=%s email=%s loyalty_points=%d\n", c.ID, c.Username, c.Email, c.LoyaltyPoints)
}

func parseInt(name, value string) (int64, error) {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, value, err)
	}
	return n, nil
}

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user records",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add USERNAME EMAIL",
			Short: "Create a user",
			Args:  cobra.ExactArgs(2),
			RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
				user, err := a.records.Users.Add(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				printUser(cmd.OutOrStdout(), user)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "get ID",
			Short: "Show a user by id",
			Args:  cobra.ExactArgs(1),
			RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
				id, err := parseInt("id", args[0])
				if err != nil {
					return err
				}
				user, err := a.records.Users.GetByID(cmd.Context(), id)
				if err != nil {
					return err
				}
				if user == nil {
					return fmt.Errorf("user %d not found", id)
				}
				printUser(cmd.OutOrStdout(), user)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "find USERNAME",
			Short: "Show a user by username",
			Args:  cobra.ExactArgs(1),
			RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
				user, err := a.records.Users.GetByUsername(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if user == nil {
					return fmt.Errorf("user %q not found", args[0])
				}
				printUser(cmd.OutOrStdout(), user)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "delete ID",
			Short: "Delete a user by id",
			Args:  cobra.ExactArgs(1),
			RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
				id, err := parseInt("id", args[0])
				if err != nil {
					return err
				}
				return a.records.Users.Delete(cmd.Context(), id)
			}),
		},
	)

	return cmd
}

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage admin records",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add USERNAME EMAIL LEVEL",
			Short: "Create an admin and its user record",
			Args:  cobra.ExactArgs(3),
			RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
				level, err := parseInt("admin level", args[2])
				if err != nil {
					return err
				}
				admin, err := a.records.Admins.Add(cmd.Context(), args[0], args[1], level)
				if err != nil {
					return err
				}
				printAdmin(cmd.OutOrStdout(), admin)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "get ID",
			Short: "Show an admin by id",
			Args:  cobra.ExactArgs(1),
			RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
				id, err := parseInt("id", args[0])
				if err != nil {
					return err
				}
				admin, err := a.records.Admins.GetByID(cmd.Context(), id)
				if err != nil {
					return err
				}
				if admin == nil {
					return fmt.Errorf("admin %d not found", id)
				}
				printAdmin(cmd.OutOrStdout(), admin)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "delete ID",
			Short: "Delete an admin by id",
			Args:  cobra.ExactArgs(1),
			RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
				id, err := parseInt("id", args[0])
				if err != nil {
					return err
				}
				return a.records.Admins.Delete(cmd.Context(), id)
			}),
		},
	)

	return cmd
}

func newCustomerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "customer",
		Short: "Manage customer records",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add USERNAME EMAIL POINTS",
			Short: "Create a customer and its user record",
			Args:  cobra.ExactArgs(3),
			RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
				points, err := parseInt("loyalty points", args[2])
				if err != nil {
					return err
				}
				customer, err := a.records.Customers.Add(cmd.Context(), args[0], args[1], points)
				if err != nil {
					return err
				}
				printCustomer(cmd.OutOrStdout(), customer)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "get ID",
			Short: "Show a customer by id",
			Args:  cobra.ExactArgs(1),
			RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
				id, err := parseInt("id", args[0])
				if err != nil {
					return err
				}
				customer, err := a.records.Customers.GetByID(cmd.Context(), id)
				if err != nil {
					return err
				}
				if customer == nil {
					return fmt.Errorf("customer %d not found", id)
				}
				printCustomer(cmd.OutOrStdout(), customer)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "delete ID",
			Short: "Delete a customer by id",
			Args:  cobra.ExactArgs(1),
			RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
				id, err := parseInt("id", args[0])
				if err != nil {
					return err
				}
				return a.records.Customers.Delete(cmd.Context(), id)
			}),
		},
	)

	return cmd
}
