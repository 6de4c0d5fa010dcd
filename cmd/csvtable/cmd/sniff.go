package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shapestone/shape-csvtable/pkg/csvtable"
)

func newSniffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sniff FILE",
		Short: "Guess the delimiter and header of a file",
		Long: `Read the start of FILE and report the most likely delimiter and
whether the first record looks like a header. The result can be fed back
through --delimiter and --header, or a config file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			opts, err := cfg.Options()
			if err != nil {
				return err
			}

			dialect, err := csvtable.SniffFile(args[0], opts.Quote)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "delimiter: %s\n", strconv.QuoteRune(rune(dialect.Delimiter)))
			fmt.Fprintf(out, "header: %t\n", dialect.Header)
			return nil
		},
	}
}
