package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lifeos/internal/api"
	"lifeos/internal/config"
	"lifeos/internal/version"

	"github.com/spf13/cobra"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server over HTTP",
	Long: `Start the LifeOS server on an HTTP listener. JSON-RPC messages are
accepted as POST bodies on /mcp; /health answers liveness probes. Set
REQUIRE_API_KEY and API_KEY to gate the MCP endpoint.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind to (overrides MCP_HOST)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides MCP_PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	if serveHost != "" {
		settings.MCPHost = serveHost
	}
	if servePort > 0 {
		settings.Port = servePort
	}

	logger, closeLogger, err := newLogger(settings)
	if err != nil {
		return err
	}
	defer closeLogger()

	dispatcher := buildDispatcher(settings, config.TransportHTTP, logger)

	addr := fmt.Sprintf("%s:%d", settings.MCPHost, settings.HTTPPort())
	server := api.NewServer(dispatcher, api.Options{
		Addr:          addr,
		AppName:       settings.AppName,
		Version:       version.Version,
		RequireAPIKey: settings.RequireAPIKey,
		APIKey:        settings.APIKey,
	}, logger)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		fmt.Printf("%s listening on http://%s\n", settings.AppName, addr)
		serverErr <- server.Start()
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Error("Server error", "error", err.Error())
			return err
		}
	case sig := <-shutdown:
		logger.Info("Received shutdown signal", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Error during shutdown", "error", err.Error())
			return err
		}

		logger.Info("Server stopped gracefully")
	}

	return nil
}
