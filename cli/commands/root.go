// Package commands implements the CLI command structure using Cobra.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/lumen-labs/lumen/cli/config"
)

var (
	// Global flags
	cfgFile      string
	providerFlag string
	verbose      bool

	// Loaded configuration
	cfg *config.Config
)

// rootCmd is the base command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "lumen",
	Short: "Lumen - image description service for low-vision users",
	Long: `Lumen serves detailed, ambiguity-aware image descriptions.

It fuses local object detection and OCR with a streaming vision-language
backend (Google Gemini or a local Ollama server) and exposes the result
over an HTTP event stream.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.lumen/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&providerFlag, "provider", "", "generation backend (gemini, ollama)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")
}

// initConfig reads in the config file and applies flag overrides.
func initConfig() error {
	path := cfgFile
	if path == "" {
		path = config.DefaultConfigPath()
	}

	var err error
	cfg, err = config.LoadConfig(path)
	if err != nil {
		return err
	}

	// Flags win over file and environment.
	if providerFlag != "" {
		cfg.Provider = providerFlag
	}

	return nil
}
