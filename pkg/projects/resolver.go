// Package projects decodes Claude Code's encoded project directory names
// back into real filesystem paths.
//
// Claude Code names each log directory after the project's working
// directory with every path separator replaced by '-'. The substitution is
// lossy: a directory legitimately named "Foo-Bar" encodes identically to a
// nested "Foo/Bar". Resolution therefore consults the Claude configuration
// file first (the authoritative record of real project paths) and only
// falls back to a greedy longest-match walk of the live filesystem.
package projects

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Separator is the reserved character used by the directory name encoding.
const Separator = "-"

// Method records how a path was resolved.
type Method string

const (
	// MethodIndex means the path came from the Claude configuration
	// file's projects map and is trusted unconditionally.
	MethodIndex Method = "index"

	// MethodHeuristic means the path was reconstructed by the
	// filesystem walk and is best-effort.
	MethodHeuristic Method = "heuristic"
)

// ProjectDirectory maps an on-disk encoded directory name to a resolved
// absolute path.
type ProjectDirectory struct {
	EncodedName  string
	ResolvedPath string
	Method       Method
}

// Resolver resolves encoded directory names. Resolution is idempotent
// against an unchanged filesystem, so results are cached for the process
// lifetime.
//
// Thread-safety: all methods are safe for concurrent use.
type Resolver struct {
	mu    sync.Mutex
	index map[string]string // encoded name -> real path
	cache map[string]ProjectDirectory
}

// NewResolver creates a resolver with no index. Use LoadIndex to attach
// the authoritative project list.
func NewResolver() *Resolver {
	return &Resolver{
		index: make(map[string]string),
		cache: make(map[string]ProjectDirectory),
	}
}

// Resolve decodes an encoded directory name into the best-effort real
// absolute path. It never fails: when neither the index nor the filesystem
// can disambiguate, the result is a syntactically valid path that may not
// exist. Callers treat a non-existent resolved path as "directory not
// present" and skip it.
func (r *Resolver) Resolve(encoded string) ProjectDirectory {
	r.mu.Lock()
	if dir, ok := r.cache[encoded]; ok {
		r.mu.Unlock()
		return dir
	}
	real, indexed := r.index[encoded]
	r.mu.Unlock()

	var dir ProjectDirectory
	if indexed {
		dir = ProjectDirectory{EncodedName: encoded, ResolvedPath: real, Method: MethodIndex}
	} else {
		dir = ProjectDirectory{
			EncodedName:  encoded,
			ResolvedPath: decodeHeuristic(encoded),
			Method:       MethodHeuristic,
		}
	}

	r.mu.Lock()
	r.cache[encoded] = dir
	r.mu.Unlock()

	return dir
}

// Encode converts an absolute path to its encoded directory name by
// substituting every separator. Encode(Resolve(e).ResolvedPath) == e holds
// whenever the directory structure that produced e still exists on disk.
func Encode(path string) string {
	return strings.ReplaceAll(filepath.ToSlash(path), "/", Separator)
}

// decodeHeuristic reconstructs a path from an encoded name by walking the
// filesystem from the root. At each step it joins as many '-'-separated
// segments as still name an existing directory, preferring the longest
// join; this recovers directory names that legitimately contain '-'.
// A step with no match falls back to the single literal segment.
func decodeHeuristic(encoded string) string {
	segments := strings.Split(strings.TrimPrefix(encoded, Separator), Separator)

	resolved := string(os.PathSeparator)
	for i := 0; i < len(segments); {
		best := i // consume at least the literal segment
		candidate := segments[i]
		joined := candidate

		// Prefer the longest multi-segment join that exists on disk.
		// When none does, the single literal segment stands, whether or
		// not it exists: a wrong-but-plausible path is filtered out by
		// the caller's existence check, never raised here.
		for j := i + 1; j < len(segments); j++ {
			joined = joined + Separator + segments[j]
			if dirExists(filepath.Join(resolved, joined)) {
				best = j
				candidate = joined
			}
		}

		resolved = filepath.Join(resolved, candidate)
		i = best + 1
	}

	return resolved
}

// dirExists reports whether path names an existing directory.
func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
