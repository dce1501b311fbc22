// dosatsu-cpp indexes C++ sources into an embedded property-graph database.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/bitmonk8/dosatsu-cpp-sub000/internal/config"
	"github.com/bitmonk8/dosatsu-cpp-sub000/internal/pipeline"
)

var version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:           "dosatsu-cpp",
		Short:         "Index C++ sources into a property graph",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			})))
		},
	}
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	cmd.AddCommand(indexCmd())
	return cmd
}

func indexCmd() *cobra.Command {
	var (
		configPath  string
		out         string
		workers     int
		batchSize   int
		commitEvery int
	)

	cmd := &cobra.Command{
		Use:   "index [paths...]",
		Short: "Index the given directories or files",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := &config.Config{}
			if configPath != "" {
				loaded, err := config.Load(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			for _, arg := range args {
				info, err := os.Stat(arg)
				if err != nil {
					return fmt.Errorf("stat %s: %w", arg, err)
				}
				if info.IsDir() {
					cfg.Paths = append(cfg.Paths, arg)
				} else {
					cfg.Files = append(cfg.Files, arg)
				}
			}
			if out != "" {
				cfg.Database = out
			}
			if workers > 0 {
				cfg.Workers = workers
			}
			if batchSize > 0 {
				cfg.BatchSize = batchSize
			}
			if commitEvery > 0 {
				cfg.CommitEvery = commitEvery
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			res, err := pipeline.Run(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(),
				"indexed %d/%d files: %d entities, %d relationships (%d write failures)\n",
				res.Parsed, res.Files, res.Entities, res.Writes.RelOps, res.Writes.Failures)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output database path")
	cmd.Flags().IntVar(&workers, "workers", 0, "parse worker count (default: one per CPU)")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "write batch threshold")
	cmd.Flags().IntVar(&commitEvery, "commit-every", 0, "operations per transaction")
	return cmd
}
