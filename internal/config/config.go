// Package config loads LifeOS settings from the environment and an optional
// lifeos.yaml file. Environment variables win over the file; both win over
// the built-in defaults.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Transport names.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Settings is the complete LifeOS configuration.
type Settings struct {
	AppName      string `mapstructure:"app_name"`
	SQLiteDBPath string `mapstructure:"sqlite_db_path"`

	MCPTransport string `mapstructure:"mcp_transport"`
	MCPHost      string `mapstructure:"mcp_host"`
	MCPPort      int    `mapstructure:"mcp_port"`
	// Port is the platform-assigned port; when set it also selects the
	// HTTP transport unless MCP_TRANSPORT overrides.
	Port int `mapstructure:"port"`

	LogLevel string `mapstructure:"log_level"`
	LogFile  string `mapstructure:"log_file"`

	RequireAPIKey bool   `mapstructure:"require_api_key"`
	APIKey        string `mapstructure:"api_key"`

	AllowedBasePathsRaw    string `mapstructure:"allowed_base_paths"`
	FileSearchDefaultLimit int    `mapstructure:"file_search_default_limit"`
	FileSearchMaxLimit     int    `mapstructure:"file_search_max_limit"`
	FileListMaxLimit       int    `mapstructure:"file_list_max_limit"`
	FileReadMaxBytes       int64  `mapstructure:"file_read_max_bytes"`
}

// Load reads settings from lifeos.yaml in the working directory (if present)
// and the process environment. A missing file is not an error.
func Load() (*Settings, error) {
	v := viper.New()

	v.SetDefault("app_name", "LifeOS MCP")
	v.SetDefault("sqlite_db_path", "")
	v.SetDefault("mcp_transport", "")
	v.SetDefault("mcp_host", "0.0.0.0")
	v.SetDefault("mcp_port", 8000)
	v.SetDefault("port", 0)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("require_api_key", false)
	v.SetDefault("api_key", "")
	v.SetDefault("allowed_base_paths", "")
	v.SetDefault("file_search_default_limit", 25)
	v.SetDefault("file_search_max_limit", 100)
	v.SetDefault("file_list_max_limit", 500)
	v.SetDefault("file_read_max_bytes", int64(1024*1024))

	v.SetConfigName("lifeos")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, err
	}

	return &s, nil
}

// Transport resolves the effective transport. An explicit MCP_TRANSPORT
// wins; otherwise a platform-assigned PORT selects HTTP, and the default is
// stdio.
func (s *Settings) Transport() string {
	switch strings.ToLower(strings.TrimSpace(s.MCPTransport)) {
	case TransportHTTP:
		return TransportHTTP
	case TransportStdio:
		return TransportStdio
	}
	if s.Port > 0 {
		return TransportHTTP
	}
	return TransportStdio
}

// HTTPPort resolves the effective HTTP port. A platform-assigned PORT wins
// over the configured MCP_PORT.
func (s *Settings) HTTPPort() int {
	if s.Port > 0 {
		return s.Port
	}
	return s.MCPPort
}

// AllowedBasePaths parses the comma-separated allow list for filesystem
// tools. Empty means the filesystem tools refuse every path.
func (s *Settings) AllowedBasePaths() []string {
	raw := strings.TrimSpace(s.AllowedBasePathsRaw)
	if raw == "" {
		return nil
	}
	var paths []string
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}
