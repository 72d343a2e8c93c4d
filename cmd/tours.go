package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dotcs/kmt2es/internal/config"
	"github.com/dotcs/kmt2es/internal/komoot"
)

// toursCmd lists tours without touching Elasticsearch, useful for checking
// that the supplied cookie still works.
var toursCmd = &cobra.Command{
	Use:   "tours",
	Short: "List recorded tours from komoot",
	Long: `Lists the user's recorded tours without importing anything. By default only
the latest listing page is shown; use --full for the complete history.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if err := cfg.ValidateFetch(); err != nil {
			return err
		}

		client := newKomootClient(cfg)
		scanner := client.ListTours(cmd.Context(), komoot.ListOptions{
			PageSize: cfg.EffectivePageSize(),
			AllPages: cfg.Full,
		})

		count := 0
		for scanner.Scan() {
			tour := scanner.Tour()
			fmt.Fprintf(cmd.OutOrStdout(), "ID: %d | %s | %s | %s | %.1f km\n",
				tour.ID, tour.Date, tour.Sport, tour.Name, tour.Distance/1000)
			count++
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("failed to list tours: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "\nTotal: %d tours\n", count)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(toursCmd)
}
