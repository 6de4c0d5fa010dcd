package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var errAbsent = errors.New("field is absent")

func newGetCmd() *cobra.Command {
	var (
		col string
		row int
	)

	getCmd := &cobra.Command{
		Use:   "get FILE",
		Short: "Print a single field",
		Long: `Print the field at --col and --row. --col is a zero-based index, or a
column name when --header is set. Rows are counted after the header.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, _, err := loadTable(cmd, args[0])
			if err != nil {
				return err
			}

			c, err := strconv.Atoi(col)
			if err != nil {
				c = table.Index(col)
				if c < 0 {
					return fmt.Errorf("unknown column %q", col)
				}
			}

			field, ok := table.Field(c, row)
			if !ok {
				return fmt.Errorf("col %d row %d: %w", c, row, errAbsent)
			}
			fmt.Fprintln(cmd.OutOrStdout(), field)
			return nil
		},
	}

	getCmd.Flags().StringVar(&col, "col", "0", "column index or name")
	getCmd.Flags().IntVar(&row, "row", 0, "row index")
	return getCmd
}
