package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "kmt2es",
	Short: "kmt2es imports komoot tours into Elasticsearch",
	Long: `kmt2es is a CLI application that:
1. Authenticates against komoot with an operator-supplied session cookie
2. Fetches a user's recorded tours including their GPS tracks
3. Maps each tour into a flat document
4. Bulk-indexes the documents into Elasticsearch

Re-running an import is safe: documents are keyed by tour id and overwritten
in place.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringP("user-id", "u", "", "komoot user id")
	pf.StringP("cookie", "c", "", "cookie header of a valid komoot session (used for authentication)")
	pf.Bool("full", false, "walk the complete tour history instead of only the latest page")
	pf.Int("page-size", 0, "tours per listing page (default 100 with --full, 10 otherwise)")
	pf.Duration("timeout", 0, "per-request HTTP timeout")
	pf.StringP("log-level", "l", "", "log level (debug, info, warn, error)")

	viper.BindPFlag("user_id", pf.Lookup("user-id"))
	viper.BindPFlag("cookie", pf.Lookup("cookie"))
	viper.BindPFlag("full", pf.Lookup("full"))
	viper.BindPFlag("page_size", pf.Lookup("page-size"))
	viper.BindPFlag("timeout", pf.Lookup("timeout"))
	viper.BindPFlag("log_level", pf.Lookup("log-level"))
}

// newLogger builds the slog logger used by all commands.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
