// Package extract turns a source file into the set of other files it
// imports, for the subset of languages and import forms the depgraph core
// needs to resolve to local siblings.
package extract

import "regexp"

const (
	LanguageGo         = "go"
	LanguageTypeScript = "typescript"
	LanguageJavaScript = "javascript"
	LanguagePython     = "python"
)

// LanguagePattern pairs a language's file extensions with the regexes that
// pull raw import strings out of a line of source.
type LanguagePattern struct {
	Extensions []string
	Patterns   []*regexp.Regexp
	Language   string
}

// builtinPatterns is deliberately narrower than a general-purpose import
// scanner: only the languages whose local imports this tool can resolve to
// a sibling file path (see resolve.go) are worth matching at all. Matching a
// language we can never resolve just produces raw import strings nothing
// downstream consumes.
var builtinPatterns = map[string]*LanguagePattern{
	LanguageTypeScript: {
		Extensions: []string{".ts", ".tsx"},
		Language:   LanguageTypeScript,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`import\s+.*?from\s+['"]([^'"]+)['"]`),
			regexp.MustCompile(`export\s+.*?from\s+['"]([^'"]+)['"]`),
			regexp.MustCompile(`require\s*\(\s*['"]([^'"]+)['"]\s*\)`),
			regexp.MustCompile(`import\s*\(\s*['"]([^'"]+)['"]\s*\)`),
		},
	},
	LanguageJavaScript: {
		Extensions: []string{".js", ".jsx", ".mjs", ".cjs"},
		Language:   LanguageJavaScript,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`import\s+.*?from\s+['"]([^'"]+)['"]`),
			regexp.MustCompile(`export\s+.*?from\s+['"]([^'"]+)['"]`),
			regexp.MustCompile(`require\s*\(\s*['"]([^'"]+)['"]\s*\)`),
			regexp.MustCompile(`import\s*\(\s*['"]([^'"]+)['"]\s*\)`),
		},
	},
	LanguageGo: {
		Extensions: []string{".go"},
		Language:   LanguageGo,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`^\s*import\s+"([^"]+)"`),
			regexp.MustCompile(`^\s*(?:\w+\s+)?"([^"]+)"\s*$`),
		},
	},
	LanguagePython: {
		Extensions: []string{".py"},
		Language:   LanguagePython,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`from\s+([^\s]+)\s+import`),
			regexp.MustCompile(`import\s+([^\s,;]+)`),
		},
	},
}

func languageForExtension(ext string) (*LanguagePattern, bool) {
	for _, pattern := range builtinPatterns {
		for _, e := range pattern.Extensions {
			if e == ext {
				return pattern, true
			}
		}
	}
	return nil, false
}
