package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if len(cfg.DataDirs) != 2 {
		t.Errorf("DataDirs = %v, want both historical roots", cfg.DataDirs)
	}
	if cfg.Report.GroupBy != "day" {
		t.Errorf("GroupBy = %q, want day", cfg.Report.GroupBy)
	}
	if cfg.Pricing.CostMode != "auto" {
		t.Errorf("CostMode = %q, want auto", cfg.Pricing.CostMode)
	}
	if cfg.Performance.Workers < 1 || cfg.Performance.Workers > 8 {
		t.Errorf("Workers = %d, want 1..8", cfg.Performance.Workers)
	}
}

func TestLoadFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
data_dirs:
  - /custom/projects
report:
  timezone: Asia/Tokyo
  group_by: month
pricing:
  cost_mode: calculate
performance:
  workers: 4
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewLoader(path).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.DataDirs) != 1 || cfg.DataDirs[0] != "/custom/projects" {
		t.Errorf("DataDirs = %v", cfg.DataDirs)
	}
	if cfg.Report.Timezone != "Asia/Tokyo" {
		t.Errorf("Timezone = %q, want Asia/Tokyo", cfg.Report.Timezone)
	}
	if cfg.Report.GroupBy != "month" {
		t.Errorf("GroupBy = %q, want month", cfg.Report.GroupBy)
	}
	if cfg.Pricing.CostMode != "calculate" {
		t.Errorf("CostMode = %q, want calculate", cfg.Pricing.CostMode)
	}
	if cfg.Performance.Workers != 4 {
		t.Errorf("Workers = %d, want 4", cfg.Performance.Workers)
	}

	// Unspecified fields keep their defaults.
	if cfg.Report.Format != "table" {
		t.Errorf("Format = %q, want table default", cfg.Report.Format)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Level = %q, want warn default", cfg.Logging.Level)
	}
}

func TestLoadExplicitMissingFile(t *testing.T) {
	t.Parallel()

	_, err := NewLoader(filepath.Join(t.TempDir(), "absent.yaml")).Load()
	if !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("Load() error = %v, want ErrConfigNotFound", err)
	}
}

func TestLoadFromFileInvalidYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("data_dirs: [unterminated"), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := NewLoader("").LoadFromFile(path)
	if !errors.Is(err, ErrInvalidYAML) {
		t.Errorf("LoadFromFile() error = %v, want ErrInvalidYAML", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CLAUDE_CONFIG_DIR", "/env/one, /env/two")
	t.Setenv("TOKENAUDIT_TZ", "Europe/Berlin")
	t.Setenv("TOKENAUDIT_SESSION_INDEX", "/env/sessions.db")
	t.Setenv("TOKENAUDIT_LOG_LEVEL", "debug")

	cfg, err := NewLoader("").Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.DataDirs) != 2 || cfg.DataDirs[0] != "/env/one" || cfg.DataDirs[1] != "/env/two" {
		t.Errorf("DataDirs = %v, want trimmed env roots", cfg.DataDirs)
	}
	if cfg.Report.Timezone != "Europe/Berlin" {
		t.Errorf("Timezone = %q, want Europe/Berlin", cfg.Report.Timezone)
	}
	if cfg.SessionIndex.Path != "/env/sessions.db" {
		t.Errorf("SessionIndex.Path = %q", cfg.SessionIndex.Path)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestEnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("report:\n  timezone: Asia/Tokyo\n"), 0600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("TOKENAUDIT_TZ", "Europe/Berlin")

	cfg, err := NewLoader(path).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Report.Timezone != "Europe/Berlin" {
		t.Errorf("Timezone = %q, want env value to beat the file", cfg.Report.Timezone)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"valid", func(*Config) {}, nil},
		{"no data dirs", func(c *Config) { c.DataDirs = nil }, ErrNoDataDirs},
		{"zero workers", func(c *Config) { c.Performance.Workers = 0 }, ErrInvalidWorkers},
		{"negative workers", func(c *Config) { c.Performance.Workers = -1 }, ErrInvalidWorkers},
		{"bad cost mode", func(c *Config) { c.Pricing.CostMode = "guess" }, ErrInvalidCostMode},
		{"bad group by", func(c *Config) { c.Report.GroupBy = "hour" }, ErrInvalidGroupBy},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
