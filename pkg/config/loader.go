package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Loader provides methods for loading configuration from various sources.
type Loader interface {
	// Load loads configuration with the following precedence:
	// 1. Environment variables
	// 2. Configuration file
	// 3. Default values
	//
	// Returns the merged configuration or an error if validation fails.
	Load() (*Config, error)

	// LoadFromFile loads configuration from a specific file.
	LoadFromFile(path string) (*Config, error)
}

// loader implements the Loader interface.
type loader struct {
	configPath string
}

// NewLoader creates a new configuration loader.
//
// If configPath is empty, searches for a config file in:
// 1. ./tokenaudit.yaml (current directory)
// 2. ~/.config/tokenaudit/config.yaml.
func NewLoader(configPath string) Loader {
	return &loader{configPath: configPath}
}

// Load implements Loader.Load.
func (l *loader) Load() (*Config, error) {
	cfg := Default()

	configPath := l.configPath
	if configPath == "" {
		configPath = l.findConfigFile()
	}

	if configPath != "" {
		fileCfg, err := l.LoadFromFile(configPath)
		if err != nil {
			// An explicitly named file that fails to load is an error;
			// a missing default-location file just means defaults apply.
			if l.configPath != "" {
				return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
			}
		} else {
			cfg = merge(cfg, fileCfg)
		}
	}

	cfg = applyEnvVars(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoadFromFile implements Loader.LoadFromFile.
func (l *loader) LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path) // nolint:gosec
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}

	return &cfg, nil
}

// findConfigFile searches for a config file in standard locations and
// returns the first one that exists, or an empty string.
func (l *loader) findConfigFile() string {
	candidates := []string{
		"./tokenaudit.yaml",
		defaultConfigPath(),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// merge overlays non-zero values from override onto base.
func merge(base, override *Config) *Config {
	result := *base

	if len(override.DataDirs) > 0 {
		result.DataDirs = override.DataDirs
	}
	if override.ClaudeConfigFile != "" {
		result.ClaudeConfigFile = override.ClaudeConfigFile
	}
	if override.SessionIndex.Path != "" {
		result.SessionIndex.Path = override.SessionIndex.Path
	}

	if override.Report.Timezone != "" {
		result.Report.Timezone = override.Report.Timezone
	}
	if override.Report.GroupBy != "" {
		result.Report.GroupBy = override.Report.GroupBy
	}
	if override.Report.Format != "" {
		result.Report.Format = override.Report.Format
	}

	if override.Pricing.CostMode != "" {
		result.Pricing.CostMode = override.Pricing.CostMode
	}

	if override.Performance.Workers > 0 {
		result.Performance.Workers = override.Performance.Workers
	}

	if override.Logging.Level != "" {
		result.Logging.Level = override.Logging.Level
	}
	if override.Logging.Output != "" {
		result.Logging.Output = override.Logging.Output
	}
	if override.Logging.Format != "" {
		result.Logging.Format = override.Logging.Format
	}

	return &result
}

// applyEnvVars applies environment variable overrides.
//
// Supported environment variables:
//   - CLAUDE_CONFIG_DIR: comma-separated list of data roots
//   - TOKENAUDIT_SESSION_INDEX: path to the session index database
//   - TOKENAUDIT_TZ: report time zone
//   - TOKENAUDIT_LOG_LEVEL: log level
func applyEnvVars(cfg *Config) *Config {
	result := *cfg

	if envDirs := os.Getenv("CLAUDE_CONFIG_DIR"); envDirs != "" {
		dirs := strings.Split(envDirs, ",")
		for i := range dirs {
			dirs[i] = strings.TrimSpace(dirs[i])
		}
		result.DataDirs = dirs
	}

	if path := os.Getenv("TOKENAUDIT_SESSION_INDEX"); path != "" {
		result.SessionIndex.Path = path
	}

	if tz := os.Getenv("TOKENAUDIT_TZ"); tz != "" {
		result.Report.Timezone = tz
	}

	if level := os.Getenv("TOKENAUDIT_LOG_LEVEL"); level != "" {
		result.Logging.Level = level
	}

	return &result
}
