package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/dvasava/portfolio/internal/model"
	"github.com/dvasava/portfolio/internal/store"
)

const previewLen = 40

func newMessagesCmd(a *app) *cobra.Command {
	var opts model.ContactListOptions
	cmd := &cobra.Command{
		Use:     "messages",
		Aliases: []string{"m"},
		Short:   "List stored contact messages",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.listMessages(cmd, opts)
		},
	}
	cmd.Flags().IntVar(&opts.Limit, "limit", 50, "maximum number of messages")
	cmd.Flags().IntVar(&opts.Skip, "skip", 0, "messages to skip")
	cmd.Flags().BoolVarP(&opts.UnreadOnly, "unread", "u", false, "only unread messages")

	cmd.AddCommand(&cobra.Command{
		Use:   "read <id>",
		Short: "Mark a message as read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.markRead(cmd, args[0])
		},
	})
	return cmd
}

func (a *app) openContacts(cmd *cobra.Command) (*store.ContactRepository, func() error, error) {
	db, err := store.Open(cmd.Context(), a.cfg.DatabasePath)
	if err != nil {
		return nil, nil, err
	}
	return store.NewContactRepository(db), db.Close, nil
}

func (a *app) listMessages(cmd *cobra.Command, opts model.ContactListOptions) error {
	contacts, closeDB, err := a.openContacts(cmd)
	if err != nil {
		return err
	}
	defer closeDB()

	msgs, err := contacts.List(cmd.Context(), opts)
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"ID", "Received", "Name", "Email", "Read", "Message"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	for _, m := range msgs {
		table.Append([]string{
			m.ID,
			m.Timestamp.Local().Format(time.DateTime),
			m.Name,
			m.Email,
			strconv.FormatBool(m.Read),
			preview(m.Message),
		})
	}
	table.Render()

	if len(msgs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no messages")
	}
	return nil
}

func (a *app) markRead(cmd *cobra.Command, id string) error {
	contacts, closeDB, err := a.openContacts(cmd)
	if err != nil {
		return err
	}
	defer closeDB()

	if err := contacts.MarkRead(cmd.Context(), id); err != nil {
		return fmt.Errorf("mark %s read: %w", id, err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Message marked as read")
	return nil
}

// preview shortens a message body to one table-friendly line.
func preview(s string) string {
	r := []rune(s)
	for i, c := range r {
		if c == '\n' || c == '\r' {
			r[i] = ' '
		}
	}
	if len(r) > previewLen {
		return string(r[:previewLen-3]) + "..."
	}
	return string(r)
}
