package mcpserver

import (
	"os"
	"strconv"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// ErrorLimit caps how many validation issues a tool response carries.
	ErrorLimit int
	// MaxInputBytes caps inline document content size.
	MaxInputBytes int
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from MAPTOOLS_MCP_* environment variables.
// Invalid values fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		ErrorLimit:    envInt("MAPTOOLS_MCP_ERROR_LIMIT", 100),
		MaxInputBytes: envInt("MAPTOOLS_MCP_MAX_INPUT_BYTES", 4*1024*1024),
	}
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
