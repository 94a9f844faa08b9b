package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/egrul-parser/app/config"
	"github.com/egrul-parser/app/models"
	"github.com/egrul-parser/app/requests"
	"github.com/egrul-parser/app/services"
	"github.com/egrul-parser/internal/bootstrap"
	"github.com/egrul-parser/internal/parser"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "egrul",
		Short:        "Load EGRUL registry extracts into storage",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return bootstrap.LoadConfig()
		},
	}

	root.AddCommand(
		newIngestCmd(models.ModeFill, "Truncate storage and load a full registry extract"),
		newIngestCmd(models.ModeUpdate, "Replace the entities found in an update extract"),
		newParseCmd(),
		newReindexCmd(),
		newVersionCmd(),
	)
	return root
}

func newLogger() (*zap.Logger, error) {
	return bootstrap.NewLogger(viper.GetString("app.env"))
}

func newIngestCmd(mode models.IngestMode, short string) *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   string(mode) + " <dir>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("workers") {
				workers = config.C.Ingest.Workers
			}
			if err := config.C.Ingest.CheckWorkers(workers); err != nil {
				return err
			}

			logger, err := newLogger()
			if err != nil {
				return err
			}
			defer logger.Sync()

			rt, err := bootstrap.NewRuntime(cmd.Context(), logger)
			if err != nil {
				return err
			}
			defer rt.Close(context.Background())

			report, err := rt.Ingest.Run(cmd.Context(), requests.IngestRequest{
				Dir:     args[0],
				Mode:    mode,
				Workers: workers,
			})
			if err != nil {
				return err
			}

			printReport(cmd.OutOrStdout(), report)
			return nil
		},
	}
	cmd.Flags().IntVarP(&workers, "workers", "n", config.C.Ingest.Workers, "number of parallel parser shards")
	return cmd
}

func printReport(w io.Writer, report *services.IngestReport) {
	for _, c := range report.Labeled {
		fmt.Fprintf(w, "%-28s %d\n", c.Label, c.Value)
	}
	fmt.Fprintf(w, "%-28s %d\n", "records deleted", report.Stats.RecordsDeleted)
	fmt.Fprintf(w, "%-28s %d\n", "records inserted", report.Stats.RecordsInserted)
	fmt.Fprintf(w, "%-28s %d\n", "records indexed", report.Indexed)
	fmt.Fprintf(w, "%-28s %s\n", "registry version", report.Version.Version)
	if report.SearchError != "" {
		fmt.Fprintf(w, "%-28s %s\n", "search error", report.SearchError)
	}
}

// newParseCmd parses without touching storage and writes records as JSON lines.
func newParseCmd() *cobra.Command {
	var (
		workers int
		retract bool
		out     string
	)

	cmd := &cobra.Command{
		Use:   "parse <dir>",
		Short: "Parse an extract and print records as JSON lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("workers") {
				workers = config.C.Ingest.Workers
			}
			if err := config.C.Ingest.CheckWorkers(workers); err != nil {
				return err
			}

			logger, err := newLogger()
			if err != nil {
				return err
			}
			defer logger.Sync()

			docs, err := parser.DiscoverFiles(args[0])
			if err != nil {
				return err
			}
			opts := services.ParserOptions(config.C.Parser)
			res, err := parser.ParseParallel(cmd.Context(), opts, parser.Chunk(docs, workers), retract, logger)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			enc := json.NewEncoder(w)
			for _, rec := range res.Records {
				if err := enc.Encode(rec); err != nil {
					return err
				}
			}

			errOut := cmd.ErrOrStderr()
			for _, c := range res.Stats.Labeled() {
				fmt.Fprintf(errOut, "%-28s %d\n", c.Label, c.Value)
			}
			if retract {
				fmt.Fprintf(errOut, "%-28s %d\n", "retraction keys", len(res.RetractionKeys))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&workers, "workers", "n", config.C.Ingest.Workers, "number of parallel parser shards")
	cmd.Flags().BoolVar(&retract, "retract", false, "collect retraction keys as in update mode")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write records to this file instead of stdout")
	return cmd
}

func newReindexCmd() *cobra.Command {
	var batchSize int

	cmd := &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the search index from storage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			defer logger.Sync()

			rt, err := bootstrap.NewRuntime(cmd.Context(), logger)
			if err != nil {
				return err
			}
			defer rt.Close(context.Background())

			res, err := rt.Admin.Reindex(cmd.Context(), batchSize)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "indexed %d records in %d ms\n", res.Indexed, res.ProcessingTimeMs)
			return nil
		},
	}
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "records per indexing batch (0 uses the configured default)")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the date of the last successful load",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			defer logger.Sync()

			rt, err := bootstrap.NewRuntime(cmd.Context(), logger)
			if err != nil {
				return err
			}
			defer rt.Close(context.Background())

			v, err := rt.Admin.Version(cmd.Context())
			if err != nil {
				return err
			}
			if v == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "registry not loaded")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s, %d records)\n", v.Version, v.Mode, v.Records)
			return nil
		},
	}
}
