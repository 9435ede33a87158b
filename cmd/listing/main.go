package main

import (
	"fmt"
	"os"

	"github.com/BerylCAtieno/listing-expert-agent/internal/config"
	"github.com/BerylCAtieno/listing-expert-agent/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "listing",
	Short: "Listing Expert - Amazon listing analysis from the terminal",
	Long: `Listing Expert reads an ABA keyword report, competitor copy and customer
reviews, sends them to Gemini in a single request and prints the keyword,
competitor and review analysis together with two listing versions.

Run without arguments to start the interactive form.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		// The interactive UI owns the terminal; keep logs off stderr.
		if !cmd.HasParent() || cmd.Name() == "tui" {
			logger = zap.NewNop()
			return nil
		}

		logger, err = logging.New(cfg.Log, verbose)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/listing-expert/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(analyzeCmd, tuiCmd, configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
