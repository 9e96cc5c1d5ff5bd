package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/dvasava/portfolio/internal/store"
)

func newVisitsCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "visits",
		Short: "Show page view totals and the latest visits",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.listVisits(cmd, limit)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of recent visits to show")
	return cmd
}

func (a *app) listVisits(cmd *cobra.Command, limit int) error {
	db, err := store.Open(cmd.Context(), a.cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	// Hashes are only read back here, so the salt is irrelevant.
	visitors := store.NewVisitorRepository(db, "")
	views, unique, err := visitors.Counts(cmd.Context())
	if err != nil {
		return err
	}
	recent, err := visitors.Recent(cmd.Context(), limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Total views: %d\nUnique visitors: %d\n\n", views, unique)

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"ID", "When", "Visitor", "Path", "User agent"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	for _, v := range recent {
		table.Append([]string{
			strconv.FormatInt(v.ID, 10),
			v.Timestamp.Local().Format(time.DateTime),
			v.HashedIP,
			v.Path,
			preview(v.UserAgent),
		})
	}
	table.Render()
	return nil
}
