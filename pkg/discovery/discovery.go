// Package discovery enumerates the record files belonging to Claude Code
// projects across the two log namespaces: primary per-session files at the
// top of each project directory, and satellite files written by delegated
// sub-agents one level below.
//
// The walk is deliberately not recursive. Project directories also contain
// cached artifacts in other nested directories that must never be scanned;
// blind recursive globbing both over- and under-counts, so only the two
// known namespaces are visited.
package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tokenaudit/tokenaudit/pkg/logger"
	"github.com/tokenaudit/tokenaudit/pkg/projects"
)

// Origin tags which namespace a log file came from.
type Origin string

const (
	// OriginPrimary is a main per-session record file.
	OriginPrimary Origin = "primary"

	// OriginSatellite is a record file for a sub-task delegated within a
	// session, stored under <sessionID>/subagents/.
	OriginSatellite Origin = "satellite"
)

// satelliteNamespace is the reserved subdirectory holding sub-agent logs.
const satelliteNamespace = "subagents"

// LogFile describes one discovered record file. Content is not loaded.
type LogFile struct {
	// Path is the absolute path to the JSONL file.
	Path string

	// Origin tags the namespace the file was found in.
	Origin Origin

	// SessionID identifies the owning session. For satellite files this
	// is the session that delegated the sub-task, not the file stem.
	SessionID string

	// Project is the resolved project directory the file belongs to.
	Project projects.ProjectDirectory

	// Size is the file size in bytes.
	Size int64

	// ModTime is the last modification time.
	ModTime time.Time
}

// Discoverer enumerates log files under the configured data roots.
type Discoverer interface {
	// Discover scans all data roots and returns every record file that
	// may contain billable events.
	//
	// Unreadable project directories are skipped with a warning. The only
	// error condition is that no data root exists at all: then nothing
	// can be reported and the caller should fail loudly.
	Discover() ([]LogFile, error)

	// Projects returns the resolved project directories under the data
	// roots, without touching their session files.
	Projects() ([]projects.ProjectDirectory, error)
}

// discoverer implements the Discoverer interface.
type discoverer struct {
	roots    []string
	resolver *projects.Resolver
	logger   logger.Logger
	warnings *logger.Warnings
}

// New creates a Discoverer over the given data roots.
func New(roots []string, resolver *projects.Resolver, log logger.Logger, warns *logger.Warnings) Discoverer {
	return &discoverer{
		roots:    roots,
		resolver: resolver,
		logger:   log,
		warnings: warns,
	}
}

// Discover implements Discoverer.Discover.
func (d *discoverer) Discover() ([]LogFile, error) {
	roots, err := d.existingRoots()
	if err != nil {
		return nil, err
	}

	var files []LogFile
	for _, root := range roots {
		entries, err := os.ReadDir(root)
		if err != nil {
			d.warnings.Addf("unreadable data root %s: %v", root, err)
			continue
		}

		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}

			project := d.resolver.Resolve(entry.Name())
			projectFiles, err := d.scanProject(filepath.Join(root, entry.Name()), project)
			if err != nil {
				d.warnings.Addf("failed to scan project %s: %v", entry.Name(), err)
				continue
			}
			files = append(files, projectFiles...)
		}
	}

	d.logger.Debug("discovery complete", "files", len(files))
	return files, nil
}

// Projects implements Discoverer.Projects.
func (d *discoverer) Projects() ([]projects.ProjectDirectory, error) {
	roots, err := d.existingRoots()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var dirs []projects.ProjectDirectory

	for _, root := range roots {
		entries, err := os.ReadDir(root)
		if err != nil {
			d.warnings.Addf("unreadable data root %s: %v", root, err)
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() || seen[entry.Name()] {
				continue
			}
			seen[entry.Name()] = true
			dirs = append(dirs, d.resolver.Resolve(entry.Name()))
		}
	}

	return dirs, nil
}

// existingRoots filters the configured roots down to the ones present on
// disk. An entirely absent root set is the one fatal discovery condition.
func (d *discoverer) existingRoots() ([]string, error) {
	var roots []string
	for _, root := range d.roots {
		if info, err := os.Stat(root); err == nil && info.IsDir() {
			roots = append(roots, root)
		} else {
			d.logger.Debug("data root not present, skipping", "path", root)
		}
	}

	if len(roots) == 0 {
		return nil, fmt.Errorf("%w: checked %s", ErrNoDataRoots, strings.Join(d.roots, ", "))
	}

	return roots, nil
}

// scanProject collects the primary session files at the top of a project
// directory, then visits exactly one nested namespace per session for
// satellite files. Nothing else is descended into.
func (d *discoverer) scanProject(dir string, project projects.ProjectDirectory) ([]LogFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var files []LogFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !strings.HasSuffix(entry.Name(), ".jsonl") {
			continue
		}

		sessionID := strings.TrimSuffix(entry.Name(), ".jsonl")
		if !isValidSessionID(sessionID) {
			d.logger.Debug("skipping non-session file", "file", entry.Name())
			continue
		}

		info, err := entry.Info()
		if err != nil {
			d.warnings.Addf("failed to stat %s: %v", entry.Name(), err)
			continue
		}

		files = append(files, LogFile{
			Path:      filepath.Join(dir, entry.Name()),
			Origin:    OriginPrimary,
			SessionID: sessionID,
			Project:   project,
			Size:      info.Size(),
			ModTime:   info.ModTime(),
		})

		files = append(files, d.scanSatellites(dir, sessionID, project)...)
	}

	return files, nil
}

// scanSatellites visits <projectDir>/<sessionID>/subagents and collects its
// JSONL files, attributing them to the owning session.
func (d *discoverer) scanSatellites(projectDir, sessionID string, project projects.ProjectDirectory) []LogFile {
	nsDir := filepath.Join(projectDir, sessionID, satelliteNamespace)
	entries, err := os.ReadDir(nsDir)
	if err != nil {
		// The namespace only exists for sessions that delegated work.
		return nil
	}

	var files []LogFile
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".jsonl") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			d.warnings.Addf("failed to stat %s: %v", entry.Name(), err)
			continue
		}

		files = append(files, LogFile{
			Path:      filepath.Join(nsDir, entry.Name()),
			Origin:    OriginSatellite,
			SessionID: sessionID,
			Project:   project,
			Size:      info.Size(),
			ModTime:   info.ModTime(),
		})
	}

	return files
}

// isValidSessionID checks the UUID shape of a session file stem
// (8-4-4-4-12 hex digits with dashes).
func isValidSessionID(id string) bool {
	if len(id) != 36 {
		return false
	}

	for i, c := range id {
		switch i {
		case 8, 13, 18, 23:
			if c != '-' {
				return false
			}
		default:
			if !isHexDigit(c) {
				return false
			}
		}
	}

	return true
}

// isHexDigit checks if a rune is a hexadecimal digit.
func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') ||
		(r >= 'a' && r <= 'f') ||
		(r >= 'A' && r <= 'F')
}
