package main

import (
	"context"
	"fmt"
	"os"

	config "github.com/avvvet/cardscanner-services/configs"
	"github.com/avvvet/cardscanner-services/internal/scansvc/analyzer"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// set with -ldflags "-X main.version=..."
var version = "dev"

var (
	verbose       bool
	inventoryPath string
	settings      config.Settings
)

// newModel is swapped out in tests.
var newModel = func(ctx context.Context, s config.Settings) (analyzer.Model, error) {
	return analyzer.NewGeminiModel(ctx, s.GeminiAPIKey, s.GeminiModel)
}

var rootCmd = &cobra.Command{
	Use:   "scanctl",
	Short: "Identify and value sports cards from photos",
	Long: `scanctl sends card photos to the configured Gemini model and keeps the
results in a CSV inventory file that the scan service can import.

GEMINI_API_KEY is read from the environment or a .env file.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetOutput(cmd.ErrOrStderr())
		log.SetLevel(log.WarnLevel)
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
		config.LoadEnv("scanctl")
		settings = config.Load()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the scanctl version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "scanctl %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	scanCmd.Flags().StringVar(&inventoryPath, "inventory", "inventory.csv", "CSV inventory file to append to")
	scanCmd.Flags().StringVar(&scanFront, "front", "", "front image (jpg or png)")
	scanCmd.Flags().StringVar(&scanBack, "back", "", "optional back image")
	scanCmd.Flags().StringVar(&scanHint, "hint", "", "hint for the model, e.g. \"1989 Upper Deck\"")
	scanCmd.Flags().StringVar(&scanLocation, "location", "", "archive location of the physical card")
	_ = scanCmd.MarkFlagRequired("front")

	batchCmd.Flags().StringVar(&inventoryPath, "inventory", "inventory.csv", "CSV inventory file to append to")
	batchCmd.Flags().StringVar(&batchPairing, "pairing", "pairs", "pairs (front, back, front, back...) or singles")
	batchCmd.Flags().StringVar(&scanHint, "hint", "", "hint applied to every card")
	batchCmd.Flags().StringVar(&scanLocation, "location", "", "archive location applied to every card")

	rootCmd.AddCommand(scanCmd, batchCmd, summaryCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
