package extract

import (
	"path/filepath"
	"strings"

	"deptrack/internal/config"
	"deptrack/internal/logging"
)

// Composite dispatches extraction by file extension: Go files prefer the
// tree-sitter extractor when configured and available, falling back to the
// regex extractor on parse failure or when tree-sitter is disabled/stubbed;
// every other supported language always goes through the regex extractor.
type Composite struct {
	regex      *RegexExtractor
	treeSitter *TreeSitterExtractor
	preferTS   bool
	ignore     []string
}

// NewComposite constructs the default Extractor for depgraph: the one
// config-driven extractor the rest of the tool wires everywhere.
func NewComposite(cfg config.ExtractConfig, logger *logging.Logger) *Composite {
	return &Composite{
		regex:      NewRegexExtractor(cfg, logger),
		treeSitter: NewTreeSitterExtractor(cfg.Ignore),
		preferTS:   cfg.PreferTreeSitter,
		ignore:     cfg.Ignore,
	}
}

// Extract implements depgraph.Extractor.
func (c *Composite) Extract(filename, cwd string) ([]string, error) {
	if matchesIgnore(filename, c.ignore) {
		return nil, nil
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == ".go" && c.preferTS && c.treeSitter != nil {
		children, err := c.treeSitter.Extract(filename, cwd)
		if err == nil {
			return children, nil
		}
	}
	return c.regex.Extract(filename, cwd)
}
