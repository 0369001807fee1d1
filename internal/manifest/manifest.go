// Package manifest parses .deptrack/entries.yaml, a hand-authored file
// naming groups of entry-file globs so a query can be scoped to one group
// (e.g. "unit" vs "integration") without the driver re-listing entry files
// every run.
package manifest

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"deptrack/internal/paths"
)

// DefaultFilename is the manifest's conventional location relative to the
// repo root.
const DefaultFilename = ".deptrack/entries.yaml"

// Manifest is the parsed contents of entries.yaml: a named set of groups,
// each a list of glob patterns resolved against the repo root.
type Manifest struct {
	Groups map[string][]string `yaml:"groups"`
}

// Load reads and parses the manifest at repoRoot/.deptrack/entries.yaml. A
// missing file is not an error: it returns an empty Manifest so callers can
// treat "no manifest" and "empty manifest" identically.
func Load(repoRoot string) (*Manifest, error) {
	path := filepath.Join(repoRoot, DefaultFilename)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Manifest{Groups: map[string][]string{}}, nil
		}
		return nil, err
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if m.Groups == nil {
		m.Groups = map[string][]string{}
	}
	return &m, nil
}

// Group returns the glob patterns for name, or nil if the group is unknown.
func (m *Manifest) Group(name string) []string {
	return m.Groups[name]
}

// ResolveGroup expands a group's globs against repoRoot into matching file
// paths. Patterns that match nothing are silently skipped, same as a plain
// shell glob with nullglob. entries.yaml patterns are always forward-slashed
// (portable across the machine that wrote the file and the one reading it),
// so paths.JoinRepoPath rebuilds each one with the OS-native separator
// before globbing; results are run back through paths.NormalizePath so the
// returned set is comparable across platforms too.
func (m *Manifest) ResolveGroup(repoRoot, name string) ([]string, error) {
	var files []string
	for _, pattern := range m.Group(name) {
		matches, err := filepath.Glob(paths.JoinRepoPath(repoRoot, pattern))
		if err != nil {
			return nil, err
		}
		for _, match := range matches {
			files = append(files, paths.NormalizePath(match))
		}
	}
	return files, nil
}

// Save writes the manifest to repoRoot/.deptrack/entries.yaml.
func (m *Manifest) Save(repoRoot string) error {
	path := filepath.Join(repoRoot, DefaultFilename)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(m)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
