package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezonia/edifact-generator/internal/config"
	"github.com/rezonia/edifact-generator/internal/server"
)

var (
	serverAddr   string
	serverDebug  bool
	readTimeout  time.Duration
	writeTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP API server for encoding invoice records.

The API provides endpoints for:
  - POST /api/v1/encode    - Encode a JSON record into EDIFACT text
  - POST /api/v1/validate  - Validate a JSON record
  - GET  /api/v1/config    - Show the encoding configuration
  - GET  /health           - Health check

Configuration defaults come from EDIFACT_* environment variables
(EDIFACT_ADDRESS, EDIFACT_READ_TIMEOUT, EDIFACT_WRITE_TIMEOUT,
EDIFACT_DEBUG); flags override them.

Examples:
  edifact-generator serve
  edifact-generator serve --address :9090 --debug`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverAddr, "address", "", "Server listen address (default from env or :8080)")
	serveCmd.Flags().BoolVar(&serverDebug, "debug", false, "Enable debug mode")
	serveCmd.Flags().DurationVar(&readTimeout, "read-timeout", 0, "HTTP read timeout")
	serveCmd.Flags().DurationVar(&writeTimeout, "write-timeout", 0, "HTTP write timeout")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := server.ConfigFromEnv()
	if err != nil {
		return fmt.Errorf("invalid server environment: %w", err)
	}
	if serverAddr != "" {
		cfg.Address = serverAddr
	}
	if readTimeout > 0 {
		cfg.ReadTimeout = readTimeout
	}
	if writeTimeout > 0 {
		cfg.WriteTimeout = writeTimeout
	}
	if serverDebug {
		cfg.Debug = true
	}

	srv := server.NewServer(cfg, config.Default(), logger)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		fmt.Println("\nShutting down server...")
		os.Exit(0)
	}()

	fmt.Printf("Starting server on %s\n", cfg.Address)
	return srv.Run()
}
