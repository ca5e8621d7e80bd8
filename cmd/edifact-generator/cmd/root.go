package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	version = "1.0.0"

	// Global flags
	verbose      bool
	outputFormat string

	logger zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "edifact-generator",
	Short: "Generate EDIFACT INVOIC interchanges from invoice records",
	Long: `EDIFACT Generator converts structured invoice records into EDIFACT
INVOIC interchanges.

Records are read from JSON or YAML files, validated against the INVOIC
schema and business rules, and encoded into segment-delimited EDIFACT text.

Examples:
  # Generate an interchange from a record file
  edifact-generator generate invoice.json

  # Generate with CRLF line endings into a named file
  edifact-generator generate invoice.yaml --crlf -o out/INV1.edi

  # Validate records without encoding
  edifact-generator validate *.json

  # Run the HTTP API
  edifact-generator serve --address :8080`,
	Version: version,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "json", "Output format for reports (json, table)")

	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// Optional .env for EDIFACT_* settings; absence is fine.
	_ = godotenv.Load()

	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}
