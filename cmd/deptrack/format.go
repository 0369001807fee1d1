package main

import (
	"encoding/json"
	"fmt"

	"deptrack/internal/paths"
)

// OutputFormat is the output format a command renders its response in.
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatHuman OutputFormat = "human"
	FormatList  OutputFormat = "list"
)

// FormatResponse renders resp according to format. FormatList is handled by
// each command directly (it needs the raw string slice, not a struct), so
// only json/human are dispatched here.
func FormatResponse(resp interface{}, format OutputFormat) (string, error) {
	switch format {
	case FormatJSON:
		return formatJSON(resp)
	case FormatHuman:
		if h, ok := resp.(humanFormatter); ok {
			return h.Human(), nil
		}
		return formatJSON(resp)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// humanFormatter is implemented by CLI response types that render their own
// human-readable summary.
type humanFormatter interface {
	Human() string
}

// displayPath renders abs relative to repoRoot with forward slashes, for
// terminal output a human is reading. JSON responses keep the absolute form
// so downstream tooling doesn't need repoRoot to resolve them. Falls back to
// abs unchanged if it can't be made repo-relative (e.g. outside repoRoot).
func displayPath(repoRoot, abs string) string {
	rel, err := paths.CanonicalizePath(abs, repoRoot)
	if err != nil || !paths.IsWithinRepo(abs, repoRoot) {
		return abs
	}
	return rel
}

// displayPaths applies displayPath to every element of abs.
func displayPaths(repoRoot string, abs []string) []string {
	out := make([]string, len(abs))
	for i, p := range abs {
		out[i] = displayPath(repoRoot, p)
	}
	return out
}

func formatJSON(resp interface{}) (string, error) {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}
