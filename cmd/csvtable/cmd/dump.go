package cmd

import (
	"github.com/shapestone/shape-core/pkg/ast"
	"github.com/spf13/cobra"

	"github.com/shapestone/shape-csvtable/pkg/csvtable"
)

func newDumpCmd() *cobra.Command {
	var (
		limit int
		crlf  bool
	)

	dumpCmd := &cobra.Command{
		Use:   "dump FILE",
		Short: "Re-emit the parsed records as CSV",
		Long: `Re-emit the parsed records as CSV, using the same delimiter and quote
the file was parsed with. The header, if any, is always written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, opts, err := loadTable(cmd, args[0])
			if err != nil {
				return err
			}

			node := table.ToAST()
			if limit >= 0 && limit < table.Rows() {
				keep := limit
				if table.HasHeader() {
					keep++
				}
				node = ast.NewArrayDataNode(node.Elements()[:keep], ast.ZeroPosition())
			}

			out, err := csvtable.Render(node, csvtable.RenderOptions{
				Delimiter: opts.Delimiter,
				Quote:     opts.Quote,
				CRLF:      crlf,
			})
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	dumpCmd.Flags().IntVarP(&limit, "limit", "n", -1, "maximum rows to print (-1 for all)")
	dumpCmd.Flags().BoolVar(&crlf, "crlf", false, "end records with CRLF")
	return dumpCmd
}
