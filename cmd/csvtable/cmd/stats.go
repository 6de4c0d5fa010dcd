package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats FILE",
		Short: "Print row and column counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, _, err := loadTable(cmd, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "rows: %d\n", table.Rows())
			fmt.Fprintf(out, "columns: %d\n", table.Columns())
			fmt.Fprintf(out, "header: %t\n", table.HasHeader())
			fmt.Fprintf(out, "fingerprint: %016x\n", table.Fingerprint())
			return nil
		},
	}
}
