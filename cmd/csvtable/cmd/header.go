package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newHeaderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "header FILE",
		Short: "Print column names, one per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, _, err := loadTable(cmd, args[0])
			if err != nil {
				return err
			}
			if !table.HasHeader() {
				return errors.New("no header: pass --header or set header: true")
			}

			for i, name := range table.Names() {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", i, name)
			}
			return nil
		},
	}
}
