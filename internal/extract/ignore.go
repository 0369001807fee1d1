package extract

import (
	"path/filepath"
	"strings"
)

// matchesIgnore reports whether path should be excluded from dependency
// discovery per patterns (Graph.ignored / config.ExtractConfig.Ignore). A
// pattern containing glob metacharacters is matched against the file's base
// name with filepath.Match; a plain pattern (the common case: "node_modules",
// "vendor", ".git") matches if it appears as a whole path segment anywhere
// in path, so it excludes the directory and everything beneath it.
func matchesIgnore(path string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	segments := strings.Split(filepath.ToSlash(path), "/")
	base := filepath.Base(path)
	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}
		if strings.ContainsAny(pattern, "*?[") {
			if ok, _ := filepath.Match(pattern, base); ok {
				return true
			}
			continue
		}
		for _, seg := range segments {
			if seg == pattern {
				return true
			}
		}
	}
	return false
}
