package projects

import (
	"encoding/json"
	"fmt"
	"os"
)

// claudeConfig is the subset of ~/.claude.json the resolver cares about:
// the projects map, whose keys are the real absolute working-directory
// paths Claude Code has been run from.
type claudeConfig struct {
	Projects map[string]json.RawMessage `json:"projects"`
}

// LoadIndex reads the Claude configuration file and registers every known
// project path as the authoritative decoding of its encoded name.
//
// A missing file is not an error: the resolver simply stays in heuristic
// mode. A present-but-unreadable file is reported so the caller can warn.
func (r *Resolver) LoadIndex(configPath string) error {
	data, err := os.ReadFile(configPath) // nolint:gosec
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read claude config: %w", err)
	}

	var cfg claudeConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("failed to parse claude config: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for path := range cfg.Projects {
		r.index[Encode(path)] = path
	}

	return nil
}

// IndexSize returns the number of authoritative project paths loaded.
func (r *Resolver) IndexSize() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.index)
}
