package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tichalab/tichascrape/citation"
	"github.com/tichalab/tichascrape/config"
	"github.com/tichalab/tichascrape/document"
	"github.com/tichalab/tichascrape/listing"
	"github.com/tichalab/tichascrape/models"
	"github.com/tichalab/tichascrape/ratelimit"
	"github.com/tichalab/tichascrape/table"
)

var (
	cfg *config.Config

	flagManuscriptsOut string
	flagTextsOut       string
	flagInput          string
	flagRateLimit      float64
	flagNoHead         bool
	flagMaxPages       int
	flagMaxDocs        int
	flagVerbose        bool
)

var rootCmd = &cobra.Command{
	Use:   "tichascrape",
	Short: "Harvests the Ticha Colonial Zapotec manuscript catalog and document texts.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
		if cmd.Flags().Changed("rate-limit") {
			cfg.Scrape.RateLimit = time.Duration(flagRateLimit * float64(time.Second))
		}
		if flagNoHead {
			cfg.Browser.Headless = false
		}
		if flagVerbose {
			cfg.Log.Level = "debug"
		}
		initLogger(cfg.Log)
	},
}

var manuscriptsCmd = &cobra.Command{
	Use:   "manuscripts",
	Short: "Scrapes the paginated manuscript listing into a CSV.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagMaxPages > 0 {
			cfg.Scrape.MaxPages = flagMaxPages
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		session, err := listing.NewSession(cfg.Browser)
		if err != nil {
			return err
		}
		defer session.Close()

		limiter := ratelimit.New(cfg.Scrape.RateLimit)
		pager := listing.NewPager(session, limiter, cfg.Scrape)

		rows, err := pager.Run(ctx)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return models.NewScrapeError(
				models.ErrCodeSetup,
				"no records were produced; check the site and try again",
				nil,
			)
		}

		tbl := table.New(models.RowColumns...)
		for _, row := range rows {
			tbl.Append(row.Fields())
		}
		if err := tbl.WriteFile(flagManuscriptsOut); err != nil {
			return models.NewScrapeError(
				models.ErrCodeOutput,
				fmt.Sprintf("failed to write %s", flagManuscriptsOut),
				err,
			)
		}

		cite := citation.New(cfg.Scrape.ListingURL)
		citePath := flagManuscriptsOut + ".citation.json"
		if err := cite.WriteFile(citePath); err != nil {
			slog.Warn("failed to write citation sidecar", "path", citePath, "error", err)
		}

		slog.Info("listing scrape complete",
			"records", len(rows),
			"output", flagManuscriptsOut,
			"source", cite.Source,
			"accessed", cite.AccessDate,
		)
		return nil
	},
}

var textsCmd = &cobra.Command{
	Use:   "texts",
	Short: "Scrapes text content and metadata for each manuscript in the input CSV.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagMaxDocs > 0 {
			cfg.Scrape.MaxDocuments = flagMaxDocs
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		tbl, err := table.ReadFile(flagInput)
		if err != nil {
			return models.NewScrapeError(
				models.ErrCodeInvalidInput,
				fmt.Sprintf("failed to read %s", flagInput),
				err,
			)
		}
		if !hasColumn(tbl, models.ColDocumentLink) {
			return models.NewScrapeError(
				models.ErrCodeInvalidInput,
				fmt.Sprintf("%q column not found in %s; run the manuscripts command first", models.ColDocumentLink, flagInput),
				nil,
			)
		}

		rows := make([]models.ManuscriptRow, 0, tbl.Len())
		for _, fields := range tbl.Rows() {
			rows = append(rows, models.RowFromFields(fields))
		}
		slog.Info("input loaded", "path", flagInput, "rows", len(rows))

		limiter := ratelimit.New(cfg.Scrape.RateLimit)
		extractor, err := document.NewExtractor(cfg.Scrape, limiter)
		if err != nil {
			return err
		}

		runner := document.NewBatchRunner(extractor, cfg.Scrape.MaxDocuments)
		records, err := runner.Run(ctx, rows)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return models.NewScrapeError(
				models.ErrCodeInvalidInput,
				"no documents were scraped; input has no usable links",
				nil,
			)
		}

		columns := append(append([]string{}, models.RowColumns...),
			models.ColURL, models.ColTranscription, models.ColInterlinear, models.ColModernSpanish)
		out := table.New(columns...)
		for _, record := range records {
			out.Append(record)
		}
		if err := out.WriteFile(flagTextsOut); err != nil {
			return models.NewScrapeError(
				models.ErrCodeOutput,
				fmt.Sprintf("failed to write %s", flagTextsOut),
				err,
			)
		}

		transcription, interlinear, modernSpanish := document.ContentStats(records)
		slog.Info("text scrape complete",
			"records", len(records),
			"output", flagTextsOut,
			"with_transcription", transcription,
			"with_interlinear", interlinear,
			"with_modern_spanish", modernSpanish,
		)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().Float64VarP(&flagRateLimit, "rate-limit", "r", 2.0,
		"minimum delay between requests in seconds")
	rootCmd.PersistentFlags().BoolVar(&flagNoHead, "no-headless", false,
		"run the browser with a visible window")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false,
		"enable debug logging")

	manuscriptsCmd.Flags().StringVarP(&flagManuscriptsOut, "output", "o", "ticha_manuscripts.csv",
		"output CSV file path")
	manuscriptsCmd.Flags().IntVar(&flagMaxPages, "max-pages", 0,
		"override the traversal page cap")

	textsCmd.Flags().StringVarP(&flagInput, "input", "i", "",
		"input CSV with manuscript data (output of the manuscripts command)")
	textsCmd.Flags().StringVarP(&flagTextsOut, "output", "o", "ticha_texts.csv",
		"output CSV file path")
	textsCmd.Flags().IntVar(&flagMaxDocs, "max-docs", 0,
		"maximum number of documents to scrape (0 = all)")
	_ = textsCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(manuscriptsCmd)
	rootCmd.AddCommand(textsCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func hasColumn(t *table.Table, name string) bool {
	for _, c := range t.Columns() {
		if c == name {
			return true
		}
	}
	return false
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
