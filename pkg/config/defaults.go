package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Default returns the default configuration.
//
// Both historical Claude Code data roots are scanned: newer installs use
// ~/.claude/projects, older ones ~/.config/claude/projects. A root that does
// not exist on disk is skipped at discovery time, not here.
func Default() *Config {
	return &Config{
		DataDirs: []string{
			filepath.Join(homeDir(), ".claude", "projects"),
			filepath.Join(homeDir(), ".config", "claude", "projects"),
		},
		ClaudeConfigFile: filepath.Join(homeDir(), ".claude.json"),
		SessionIndex: SessionIndexConfig{
			Path: filepath.Join(homeDir(), ".config", "tokenaudit", "sessions.db"),
		},
		Report: ReportConfig{
			Timezone: "",
			GroupBy:  "day",
			Format:   "table",
		},
		Pricing: PricingConfig{
			CostMode: "auto",
		},
		Performance: PerformanceConfig{
			Workers: defaultWorkers(),
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Output: "stderr",
			Format: "text",
		},
	}
}

// defaultConfigPath returns the standard config file location.
func defaultConfigPath() string {
	return filepath.Join(homeDir(), ".config", "tokenaudit", "config.yaml")
}

// defaultWorkers sizes the ingest pool to available I/O concurrency,
// capped to avoid opening hundreds of files at once on large machines.
func defaultWorkers() int {
	n := runtime.NumCPU()
	if n > 8 {
		n = 8
	}
	if n < 1 {
		n = 1
	}
	return n
}

// homeDir returns the user's home directory, or "." if it cannot be
// determined.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
