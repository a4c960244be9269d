package main

import (
	"fmt"

	"folio/internal/models"

	"github.com/spf13/cobra"
)

func contactCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contact",
		Short: "Manage contact form messages",
	}

	var status string
	var limit, offset int
	list := &cobra.Command{
		Use:   "list",
		Short: "List messages, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			msgs, err := a.contacts.List(cmd.Context(), status, limit, offset)
			if err != nil {
				return err
			}
			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "ID\tSTATUS\tRECEIVED\tFROM\tSUBJECT")
			for _, m := range msgs {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s <%s>\t%s\n",
					m.ID, m.Status.Label(), m.CreatedAt.Format("2006-01-02 15:04"), m.Name, m.Email, clip(m.Subject, 50))
			}
			return tw.Flush()
		},
	}
	list.Flags().StringVar(&status, "status", "", "Only messages with this status (new, read, replied, archived)")
	list.Flags().IntVar(&limit, "limit", 50, "Maximum number of messages")
	list.Flags().IntVar(&offset, "offset", 0, "Messages to skip")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Print one message in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			m, err := a.contacts.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "From:    %s <%s>\n", m.Name, m.Email)
			if m.Phone != "" {
				fmt.Fprintf(out, "Phone:   %s\n", m.Phone)
			}
			fmt.Fprintf(out, "Subject: %s\nStatus:  %s\nDate:    %s\n\n%s\n",
				m.Subject, m.Status.Label(), m.CreatedAt.Format("2006-01-02 15:04"), m.Message)
			return nil
		},
	}

	setStatus := &cobra.Command{
		Use:   "status <id> <new|read|replied|archived>",
		Short: "Change a message's status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.contacts.SetStatus(cmd.Context(), id, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "message %d marked %s\n", id, models.ContactStatus(args[1]).Label())
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.contacts.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "message %d deleted\n", id)
			return nil
		},
	}

	cmd.AddCommand(list, show, setStatus, del)
	return cmd
}
