package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// IgnoreManifest is a hand-maintained companion to Config: per-language
// ignore globs a user edits directly, kept in its own TOML file instead of
// the structured JSON config so it stays easy to hand-edit.
type IgnoreManifest struct {
	Global []string            `toml:"global"`
	ByLang map[string][]string `toml:"languages"`
}

// DefaultIgnoreManifest returns an empty manifest; an absent ignore.toml is
// not an error, same as LoadConfig's handling of a missing config.json.
func DefaultIgnoreManifest() *IgnoreManifest {
	return &IgnoreManifest{ByLang: map[string][]string{}}
}

// LoadIgnoreManifest reads repoRoot/.deptrack/ignore.toml. A missing file
// returns the default empty manifest rather than an error.
func LoadIgnoreManifest(repoRoot string) (*IgnoreManifest, error) {
	path := filepath.Join(repoRoot, ".deptrack", "ignore.toml")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultIgnoreManifest(), nil
	}

	var m IgnoreManifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return nil, err
	}
	if m.ByLang == nil {
		m.ByLang = map[string][]string{}
	}
	return &m, nil
}

// ForLanguage returns the combined global and per-language ignore globs for
// lang.
func (m *IgnoreManifest) ForLanguage(lang string) []string {
	out := append([]string{}, m.Global...)
	out = append(out, m.ByLang[lang]...)
	return out
}

// Save writes the manifest to repoRoot/.deptrack/ignore.toml.
func (m *IgnoreManifest) Save(repoRoot string) error {
	dir := filepath.Join(repoRoot, ".deptrack")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(dir, "ignore.toml"))
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(m)
}
