package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	verbose  bool
	textLogs bool
)

var rootCmd = &cobra.Command{
	Use:   "fbia",
	Short: "Sync Facebook Instant Articles insights into a local registry",
	Long: `fbia reads the Instant Articles feed, fetches view, view duration and scroll
depth insights for every article from the Graph API, keeps them in a registry that
outlives the feed, and uploads a CSV snapshot to Slack.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if !textLogs {
			log.SetFormatter(log.JSONFormatter)
		}
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&textLogs, "text-logs", false, "Log as text instead of JSON")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your command '%s'\n", err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
