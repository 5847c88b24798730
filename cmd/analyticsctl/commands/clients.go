package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func clientsCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clients",
		Short: "Inspect the client registry",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List configured clients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tDATASET\tEMAIL\tCURRENCY")
			for _, c := range e.clients.List() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%s\n",
					c.ID, c.Name, c.Dataset, c.HasEmail, c.Dashboard.Currency)
			}
			return tw.Flush()
		},
	})
	return cmd
}
