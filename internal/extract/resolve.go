package extract

import (
	"os"
	"path/filepath"
	"strings"
)

// jsCandidateExtensions mirrors Node's module resolution order closely
// enough for this tool's purposes: exact file, then each extension, then an
// index file inside the import target if it turns out to be a directory.
var jsCandidateExtensions = []string{"", ".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs"}

// resolveLocal resolves a raw import string seen in fromFile to the absolute
// path of a file that actually exists. It returns ok=false for anything that
// isn't a local import: bare package specifiers and stdlib imports are left
// unresolved, not reported as a broken edge. Relative JS/TS and Python
// imports are resolved against fromFile's directory without checking that
// the result lies under repoRoot.
func resolveLocal(language, rawImport, fromFile, repoRoot string) ([]string, bool) {
	switch language {
	case LanguageTypeScript, LanguageJavaScript:
		return resolveNodeImport(rawImport, fromFile)
	case LanguagePython:
		return resolvePythonImport(rawImport, fromFile, repoRoot)
	case LanguageGo:
		return resolveGoImport(rawImport, repoRoot)
	default:
		return nil, false
	}
}

func resolveNodeImport(rawImport, fromFile string) ([]string, bool) {
	if !strings.HasPrefix(rawImport, "./") && !strings.HasPrefix(rawImport, "../") {
		return nil, false
	}

	fromDir := filepath.Dir(fromFile)
	base := filepath.Join(fromDir, rawImport)

	for _, ext := range jsCandidateExtensions {
		candidate := base + ext
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return []string{candidate}, true
		}
	}
	for _, ext := range jsCandidateExtensions[1:] {
		candidate := filepath.Join(base, "index"+ext)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return []string{candidate}, true
		}
	}
	return nil, false
}

func resolvePythonImport(rawImport, fromFile, repoRoot string) ([]string, bool) {
	rawImport = strings.TrimSpace(rawImport)
	relDots := 0
	for relDots < len(rawImport) && rawImport[relDots] == '.' {
		relDots++
	}
	module := strings.TrimPrefix(rawImport[relDots:], ".")
	if module == "" {
		return nil, false
	}
	importPath := strings.ReplaceAll(module, ".", string(filepath.Separator))

	var base string
	if relDots > 0 {
		base = filepath.Dir(fromFile)
		for i := 1; i < relDots; i++ {
			base = filepath.Dir(base)
		}
	} else {
		base = repoRoot
	}

	candidate := filepath.Join(base, importPath+".py")
	if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
		return []string{candidate}, true
	}
	candidate = filepath.Join(base, importPath, "__init__.py")
	if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
		return []string{candidate}, true
	}
	return nil, false
}

// resolveGoImport maps an import path under this module's own module path to
// every non-test .go file in the corresponding package directory: a Go
// import depends on the whole package, not a single file, so the package's
// files become the import's children in the graph.
func resolveGoImport(rawImport, repoRoot string) ([]string, bool) {
	modulePath := goModulePath(repoRoot)
	if modulePath == "" || !strings.HasPrefix(rawImport, modulePath) {
		return nil, false
	}
	rest := strings.TrimPrefix(rawImport, modulePath)
	rest = strings.TrimPrefix(rest, "/")
	dir := filepath.Join(repoRoot, filepath.FromSlash(rest))

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, false
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	if len(files) == 0 {
		return nil, false
	}
	return files, true
}

// goModulePath reads the module path declared in repoRoot/go.mod. It
// returns "" if go.mod is absent or unparsable, which simply disables Go
// import resolution for that repo rather than failing extraction.
func goModulePath(repoRoot string) string {
	data, err := os.ReadFile(filepath.Join(repoRoot, "go.mod"))
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "module ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "module "))
		}
	}
	return ""
}
