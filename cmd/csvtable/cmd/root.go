// Package cmd implements the csvtable command line.
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/shapestone/shape-csvtable/internal/config"
	"github.com/shapestone/shape-csvtable/internal/metrics"
	"github.com/shapestone/shape-csvtable/pkg/csvtable"
)

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCmd builds the command tree. Each call returns independent flag state.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "csvtable",
		Short: "Parse CSV files into column tables",
		Long: `csvtable loads a CSV file with the parallel table parser and reports
on its shape, single fields, header names or the full record set.`,
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "YAML config file")
	flags.StringP("delimiter", "d", ",", "field delimiter: a single byte, \"tab\", or \"auto\" to sniff it")
	flags.StringP("quote", "q", "\"", "quote byte")
	flags.BoolP("header", "H", false, "treat the first record as column names")
	flags.Int("chunk-size", csvtable.DefaultOptions().ChunkSize, "bytes scanned per worker task")
	flags.IntP("workers", "w", 0, "parser goroutines (0 = GOMAXPROCS)")
	flags.Bool("trim-bom", false, "drop a leading UTF-8 byte order mark")
	flags.String("log-level", "warn", "log level: debug, info, warn, error")
	flags.Bool("metrics", false, "print parser metrics to stderr after the command")

	rootCmd.AddCommand(newStatsCmd(), newGetCmd(), newHeaderCmd(), newDumpCmd(), newSniffCmd())
	return rootCmd
}

// resolveConfig merges the config file, if any, with explicitly set flags.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()

	cfg := config.DefaultConfig()
	if path, _ := flags.GetString("config"); path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if flags.Changed("delimiter") {
		cfg.Delimiter, _ = flags.GetString("delimiter")
	}
	if flags.Changed("quote") {
		cfg.Quote, _ = flags.GetString("quote")
	}
	if flags.Changed("header") {
		header, _ := flags.GetBool("header")
		cfg.Header = &header
	}
	if flags.Changed("chunk-size") {
		cfg.ChunkSize, _ = flags.GetInt("chunk-size")
	}
	if flags.Changed("workers") {
		cfg.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("trim-bom") {
		cfg.TrimBOM, _ = flags.GetBool("trim-bom")
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level, _ = flags.GetString("log-level")
	}
	return cfg, nil
}

// loadTable parses path with the resolved configuration and returns the
// options it used. When --metrics is set the gathered families are written
// to stderr once parsing finishes.
func loadTable(cmd *cobra.Command, path string) (*csvtable.Table, csvtable.Options, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, csvtable.Options{}, err
	}
	opts, err := cfg.Options()
	if err != nil {
		return nil, opts, err
	}
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, opts, err
	}
	opts.Logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	if cfg.AutoDelimiter() {
		dialect, err := csvtable.SniffFile(path, opts.Quote)
		if err != nil {
			return nil, opts, err
		}
		opts.Delimiter = dialect.Delimiter
		if !cfg.HeaderSet() {
			opts.Header = dialect.Header
		}
		opts.Logger.Debug("dialect sniffed", "path", path, "delimiter", string(dialect.Delimiter), "header", dialect.Header)
	}

	var collector *metrics.Collector
	if on, _ := cmd.Flags().GetBool("metrics"); on {
		collector = metrics.NewCollector()
		opts.Observer = collector
	}

	table, err := csvtable.ParseFile(path, opts)
	if collector != nil {
		if werr := writeMetrics(cmd.ErrOrStderr(), collector); werr != nil && err == nil {
			err = werr
		}
	}
	return table, opts, err
}

// writeMetrics prints one line per sample: name, labels and value.
func writeMetrics(w io.Writer, collector *metrics.Collector) error {
	families, err := collector.Registry().Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := ""
			for _, lp := range m.GetLabel() {
				labels += fmt.Sprintf("{%s=%q}", lp.GetName(), lp.GetValue())
			}
			switch {
			case m.GetCounter() != nil:
				fmt.Fprintf(w, "%s%s %g\n", mf.GetName(), labels, m.GetCounter().GetValue())
			case m.GetGauge() != nil:
				fmt.Fprintf(w, "%s%s %g\n", mf.GetName(), labels, m.GetGauge().GetValue())
			case m.GetHistogram() != nil:
				h := m.GetHistogram()
				fmt.Fprintf(w, "%s%s count=%d sum=%g\n", mf.GetName(), labels, h.GetSampleCount(), h.GetSampleSum())
			}
		}
	}
	return nil
}
