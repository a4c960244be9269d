package main

import (
	"fmt"

	"folio/internal/models"

	"github.com/spf13/cobra"
)

func servicesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "services",
		Short: "Manage the services listing",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List services in display order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, err := a.offerings.List(cmd.Context())
			if err != nil {
				return err
			}
			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "ID\tORDER\tICON\tTITLE\tDESCRIPTION")
			for _, o := range items {
				fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\n", o.ID, o.SortOrder, o.Icon, o.Title, clip(o.Description, 60))
			}
			return tw.Flush()
		},
	}

	var o models.Offering
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			item := o
			if err := a.offerings.Create(cmd.Context(), &item); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %d\n", item.ID)
			return nil
		},
	}
	add.Flags().StringVar(&o.Title, "title", "", "Service title")
	add.Flags().StringVar(&o.Description, "description", "", "Service description")
	add.Flags().StringVar(&o.Icon, "icon", "", "Short emoji or icon code")
	add.Flags().IntVar(&o.SortOrder, "order", 0, "Display order")
	_ = add.MarkFlagRequired("title")
	_ = add.MarkFlagRequired("description")

	remove := &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.offerings.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "service %d removed\n", id)
			return nil
		},
	}

	cmd.AddCommand(list, add, remove)
	return cmd
}
