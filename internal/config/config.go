package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Config holds process-wide settings for the taskgraph binary.
type Config struct {
	// DBPath is the SQLite file; ":memory:" opens a throwaway database.
	DBPath string
	// LogUseCases turns on structured use-case logging to stderr.
	LogUseCases bool
	// AtRiskSlackDays is the slack at or below which a task is reported at risk.
	AtRiskSlackDays int
}

// DefaultConfig returns a Config with sensible defaults. The database lives
// at ~/.taskgraph/taskgraph.db; an empty DBPath means the home directory
// could not be resolved.
func DefaultConfig() Config {
	cfg := Config{AtRiskSlackDays: 2}
	if home, err := os.UserHomeDir(); err == nil {
		cfg.DBPath = filepath.Join(home, ".taskgraph", "taskgraph.db")
	}
	return cfg
}

// LoadConfig reads configuration from environment variables, falling back
// to defaults for any unset values. Malformed numbers are ignored.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv("TASKGRAPH_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("TASKGRAPH_LOG_USECASES"); v != "" {
		cfg.LogUseCases, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("TASKGRAPH_AT_RISK_SLACK_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.AtRiskSlackDays = n
		}
	}

	if cfg.DBPath == "" {
		return cfg, fmt.Errorf("finding home directory: set TASKGRAPH_DB to choose a database path")
	}
	return cfg, nil
}
