package main

import (
	"lifeos/internal/config"

	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server on stdio",
	Long: `Start the Model Context Protocol (MCP) server on stdin/stdout.

The server reads one JSON-RPC 2.0 message per line and writes one response
per line. It exposes tools for notes, events, tasks, and allow-listed
filesystem access, plus lifeos:// resources and reusable prompts.

This command is typically invoked by MCP clients and not directly by users.`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	logger, closeLogger, err := newLogger(settings)
	if err != nil {
		return err
	}
	defer closeLogger()

	server := buildDispatcher(settings, config.TransportStdio, logger)

	logger.Info("Starting MCP server on stdio", "app", settings.AppName)
	return server.Start()
}
