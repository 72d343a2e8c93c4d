package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dotcs/kmt2es/internal/config"
	"github.com/dotcs/kmt2es/internal/es"
	"github.com/dotcs/kmt2es/internal/komoot"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import komoot tours into Elasticsearch",
	Long: `Fetches the user's recorded tours from komoot and bulk-indexes them into
Elasticsearch. Fetch and mapping errors skip the affected tour and are listed
in the final summary; only an unreachable Elasticsearch instance or missing
required flags abort the run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if err := cfg.ValidateImport(); err != nil {
			return err
		}
		logger := newLogger(cfg.LogLevel)

		result, err := runImport(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}

		failed := result.Failed()
		fmt.Printf("\n📊 Import summary: %s documents indexed, %s failures\n",
			humanize.Comma(int64(result.Succeeded())),
			humanize.Comma(int64(len(failed))))
		for _, f := range failed {
			fmt.Printf("  ❌ tour %s: %s\n", f.TourID, f.Reason)
		}
		return nil
	},
}

func init() {
	importCmd.Flags().String("elasticsearch-host", "", "URL of the Elasticsearch instance")
	importCmd.Flags().String("elasticsearch-http-auth", "", "HTTP basic auth for Elasticsearch as user:password")
	importCmd.Flags().String("index", "", "target index name")
	importCmd.Flags().Int("workers", 0, "number of concurrent tour fetchers")

	viper.BindPFlag("elasticsearch_host", importCmd.Flags().Lookup("elasticsearch-host"))
	viper.BindPFlag("elasticsearch_http_auth", importCmd.Flags().Lookup("elasticsearch-http-auth"))
	viper.BindPFlag("index", importCmd.Flags().Lookup("index"))
	viper.BindPFlag("workers", importCmd.Flags().Lookup("workers"))

	rootCmd.AddCommand(importCmd)
}

// runImport drives the fetch→map→import pipeline to completion. The returned
// error is fatal (unreachable datastore); everything else lands on the
// Result.
func runImport(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*es.Result, error) {
	esClient, err := es.NewClient(es.Config{Host: cfg.ESHost, HTTPAuth: cfg.ESHTTPAuth})
	if err != nil {
		return nil, err
	}
	if err := es.Ping(esClient); err != nil {
		return nil, err
	}
	if err := es.EnsureIndex(esClient, cfg.Index); err != nil {
		return nil, err
	}

	result := &es.Result{}
	importer, err := es.NewImporter(esClient, cfg.Index, result)
	if err != nil {
		return nil, err
	}

	client := newKomootClient(cfg)

	// Detail fetches are network bound; a small worker pool overlaps them.
	// Tours are independent, so cross-tour ordering does not matter.
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	jobs := make(chan komoot.TourSummary)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for tour := range jobs {
				importTour(ctx, client, importer, result, tour, logger)
			}
		}()
	}

	scanner := client.ListTours(ctx, komoot.ListOptions{
		PageSize: cfg.EffectivePageSize(),
		AllPages: cfg.Full,
	})
	for scanner.Scan() {
		jobs <- scanner.Tour()
	}
	close(jobs)
	wg.Wait()

	if err := scanner.Err(); err != nil {
		// A failed listing page loses the remainder of the history but the
		// tours already queued still count.
		logger.Warn("tour listing aborted", "error", err)
		result.RecordFailure(pageID(err), err.Error())
	}

	if err := importer.Close(ctx); err != nil {
		return nil, err
	}
	return result, nil
}

func importTour(ctx context.Context, client *komoot.Client, importer *es.Importer, result *es.Result, tour komoot.TourSummary, logger *slog.Logger) {
	tourID := es.FormatTourID(tour.ID)

	detail, err := client.FetchDetail(ctx, tour.ID)
	if err != nil {
		logger.Warn("skipping tour", "id", tourID, "error", err)
		result.RecordFailure(tourID, err.Error())
		return
	}

	doc, err := es.MapTour(detail)
	if err != nil {
		logger.Warn("skipping tour", "id", tourID, "error", err)
		result.RecordFailure(tourID, err.Error())
		return
	}

	if err := importer.Add(ctx, doc); err != nil {
		result.RecordFailure(tourID, err.Error())
		return
	}
	logger.Info("queued tour", "id", tourID, "name", doc.Name, "points", len(doc.Track))
}

func newKomootClient(cfg *config.Config) *komoot.Client {
	opts := []komoot.Option{komoot.WithBaseURL(cfg.KomootHost)}
	if cfg.Timeout > 0 {
		opts = append(opts, komoot.WithTimeout(cfg.Timeout))
	}
	return komoot.NewClient(komoot.NewSession(cfg.UserID, cfg.Cookie), opts...)
}

// pageID renders a listing failure identifier for the summary, e.g. "page-2".
func pageID(err error) string {
	var fe *komoot.FetchError
	if errors.As(err, &fe) {
		return fmt.Sprintf("page-%d", fe.Page)
	}
	return "listing"
}
