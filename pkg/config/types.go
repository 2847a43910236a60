// Package config provides configuration management for tokenaudit.
//
// Configuration is loaded from multiple sources with the following precedence:
// 1. Command-line flags (highest priority, applied by the caller)
// 2. Environment variables
// 3. Configuration file
// 4. Default values (lowest priority)
//
// Example usage:
//
//	cfg, err := config.NewLoader("").Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("data dirs: %v\n", cfg.DataDirs)
package config

// Config represents the complete application configuration.
//
// Invariants:
// - DataDirs must have at least one directory
// - Performance.Workers must be > 0
// - Pricing.CostMode must be one of auto, calculate, display.
type Config struct {
	// Claude Code data roots holding per-project log directories
	// (typically ~/.claude/projects and ~/.config/claude/projects).
	DataDirs []string `yaml:"data_dirs"`

	// Path to the Claude Code configuration file whose projects map is
	// the authoritative source for decoding project directory names.
	ClaudeConfigFile string `yaml:"claude_config_file"`

	// Session index settings
	SessionIndex SessionIndexConfig `yaml:"session_index"`

	// Report settings
	Report ReportConfig `yaml:"report"`

	// Pricing settings
	Pricing PricingConfig `yaml:"pricing"`

	// Performance settings
	Performance PerformanceConfig `yaml:"performance"`

	// Logging settings
	Logging LoggingConfig `yaml:"logging"`
}

// SessionIndexConfig locates the session index database maintained by the
// session browser. The index is optional; reports run without it.
type SessionIndexConfig struct {
	// Path to the bbolt database file.
	Path string `yaml:"path"`
}

// ReportConfig contains report defaults that flags may override.
type ReportConfig struct {
	// IANA time zone name for bucketing ("" means system local).
	Timezone string `yaml:"timezone"`

	// Default grouping dimension (day, week, month, session, model, project).
	GroupBy string `yaml:"group_by"`

	// Default output format (table, json, csv).
	Format string `yaml:"format"`
}

// PricingConfig contains cost computation settings.
type PricingConfig struct {
	// CostMode selects how per-event cost is derived:
	// auto (trust record cost when present, else compute),
	// calculate (always compute from the rate table),
	// display (only record-level cost values).
	CostMode string `yaml:"cost_mode"`
}

// PerformanceConfig contains performance tuning settings.
type PerformanceConfig struct {
	// Number of concurrent file ingest workers.
	Workers int `yaml:"workers"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Log level (debug, info, warn, error).
	Level string `yaml:"level"`

	// Output destination (stdout, stderr, or file path).
	Output string `yaml:"output"`

	// Output format (text, json).
	Format string `yaml:"format"`
}

// Validate checks the configuration invariants.
func (c *Config) Validate() error {
	if len(c.DataDirs) == 0 {
		return ErrNoDataDirs
	}

	if c.Performance.Workers <= 0 {
		return ErrInvalidWorkers
	}

	switch c.Pricing.CostMode {
	case "auto", "calculate", "display":
	default:
		return ErrInvalidCostMode
	}

	switch c.Report.GroupBy {
	case "", "day", "week", "month", "session", "model", "project":
	default:
		return ErrInvalidGroupBy
	}

	return nil
}
