package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func usersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage accounts",
	}

	var limit, offset int
	list := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			users, err := a.users.ListUsers(cmd.Context(), limit, offset)
			if err != nil {
				return err
			}
			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "ID\tUSERNAME\tEMAIL\tADMIN\tJOINED")
			for _, u := range users {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%t\t%s\n", u.ID, u.Username, u.Email, u.IsAdmin, u.CreatedAt.Format("2006-01-02"))
			}
			return tw.Flush()
		},
	}
	list.Flags().IntVar(&limit, "limit", 50, "Maximum number of accounts")
	list.Flags().IntVar(&offset, "offset", 0, "Accounts to skip")

	var revoke bool
	admin := &cobra.Command{
		Use:   "admin <id>",
		Short: "Grant (or with --revoke, remove) admin rights",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.users.SetAdmin(cmd.Context(), id, !revoke); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "user %d admin=%t\n", id, !revoke)
			return nil
		},
	}
	admin.Flags().BoolVar(&revoke, "revoke", false, "Remove admin rights instead")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an account with its profile, posts, likes and comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.users.DeleteUser(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "user %d deleted\n", id)
			return nil
		},
	}

	cmd.AddCommand(list, admin, del)
	return cmd
}
