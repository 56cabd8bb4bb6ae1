package main

import (
	"fmt"
	"log/slog"
	"os"

	"lifeos/internal/config"
	"lifeos/internal/fsops"
	"lifeos/internal/mcp"
	"lifeos/internal/slogutil"
	"lifeos/internal/storage"
	"lifeos/internal/version"

	"github.com/spf13/cobra"
)

var (
	// logLevelFlag overrides LOG_LEVEL from the command line
	logLevelFlag string
)

var rootCmd = &cobra.Command{
	Use:   "lifeos",
	Short: "LifeOS - personal data MCP server",
	Long: `LifeOS is a personal productivity data server speaking the Model Context
Protocol (MCP). It stores notes, calendar events, and tasks in SQLite and
exposes them as MCP tools, resources, and prompts over stdio or HTTP.`,
	Version: version.Version,
}

func init() {
	rootCmd.SetVersionTemplate("LifeOS version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "",
		"Log level: debug, info, warn, or error (overrides LOG_LEVEL)")
}

// loadSettings reads configuration and applies command-line overrides.
func loadSettings() (*config.Settings, error) {
	settings, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if logLevelFlag != "" {
		settings.LogLevel = logLevelFlag
	}
	return settings, nil
}

// buildDispatcher wires the storage, filesystem, and MCP layers from settings.
// The store opens lazily, so a bad database path does not fail the handshake.
func buildDispatcher(settings *config.Settings, transport string, logger *slog.Logger) *mcp.Server {
	store := storage.NewLazy(settings.SQLiteDBPath, logger)

	fs := fsops.NewService(settings.AllowedBasePaths(), fsops.Limits{
		SearchDefault: settings.FileSearchDefaultLimit,
		SearchMax:     settings.FileSearchMaxLimit,
		ListMax:       settings.FileListMaxLimit,
		ReadMaxBytes:  settings.FileReadMaxBytes,
	}, logger)

	info := mcp.ServerInfo{
		Name:      settings.AppName,
		Transport: transport,
		Host:      settings.MCPHost,
		Port:      settings.HTTPPort(),
	}

	return mcp.NewServer(version.Version, info, store, fs, logger)
}

// newLogger builds the process logger. Stdout belongs to the protocol on the
// stdio transport, so logs go to the configured file or to stderr.
func newLogger(settings *config.Settings) (*slog.Logger, func(), error) {
	level := slogutil.LevelFromString(settings.LogLevel)

	if settings.LogFile != "" {
		logger, f, err := slogutil.NewFileLogger(settings.LogFile, level)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		return logger, func() { f.Close() }, nil
	}

	return slogutil.NewLogger(os.Stderr, level), func() {}, nil
}
