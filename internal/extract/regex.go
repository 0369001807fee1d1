package extract

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"deptrack/internal/config"
	"deptrack/internal/logging"
)

// RegexExtractor scans a file line by line with per-language regexes and
// resolves whatever raw import strings it finds to local sibling files.
// Unresolvable imports (external packages, stdlib) are silently dropped:
// they are not part of this repo's dependency graph.
type RegexExtractor struct {
	cfg    config.ExtractConfig
	logger *logging.Logger
}

// NewRegexExtractor constructs a RegexExtractor bound to cfg.
func NewRegexExtractor(cfg config.ExtractConfig, logger *logging.Logger) *RegexExtractor {
	return &RegexExtractor{cfg: cfg, logger: logger}
}

// Extract implements depgraph.Extractor.
func (e *RegexExtractor) Extract(filename, cwd string) ([]string, error) {
	pattern, ok := languageForExtension(strings.ToLower(filepath.Ext(filename)))
	if !ok {
		return nil, nil
	}
	if matchesIgnore(filename, e.cfg.Ignore) {
		return nil, nil
	}

	info, err := os.Stat(filename)
	if err != nil {
		return nil, err
	}
	if e.cfg.MaxFileSizeBytes > 0 && info.Size() > int64(e.cfg.MaxFileSizeBytes) {
		e.logger.Debug("skipping file: too large", map[string]interface{}{
			"file": filename,
			"size": info.Size(),
		})
		return nil, nil
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	seen := make(map[string]struct{})
	var children []string

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		for _, re := range pattern.Patterns {
			for _, match := range re.FindAllStringSubmatch(line, -1) {
				if len(match) < 2 {
					continue
				}
				raw := strings.TrimSpace(match[1])
				if raw == "" {
					continue
				}
				resolved, ok := resolveLocal(pattern.Language, raw, filename, cwd)
				if !ok {
					continue
				}
				for _, r := range resolved {
					if matchesIgnore(r, e.cfg.Ignore) {
						continue
					}
					if _, dup := seen[r]; dup {
						continue
					}
					seen[r] = struct{}{}
					children = append(children, r)
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return children, nil
}
