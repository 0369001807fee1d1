//go:build cgo

package extract

import (
	"context"
	"os"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
)

// TreeSitterExtractor extracts Go import paths precisely via the golang
// grammar rather than the line-oriented regexes RegexExtractor uses, which
// cannot tell an import string apart from a string literal that merely looks
// like one on its own line inside a multi-line import block.
type TreeSitterExtractor struct {
	parser *sitter.Parser
	ignore []string
}

// NewTreeSitterExtractor constructs a TreeSitterExtractor. ignore is the
// same set of patterns consulted by RegexExtractor.
func NewTreeSitterExtractor(ignore []string) *TreeSitterExtractor {
	p := sitter.NewParser()
	p.SetLanguage(golang.GetLanguage())
	return &TreeSitterExtractor{parser: p, ignore: ignore}
}

// Extract implements depgraph.Extractor for .go files only; callers should
// fall back to RegexExtractor for every other extension.
func (e *TreeSitterExtractor) Extract(filename, cwd string) ([]string, error) {
	if matchesIgnore(filename, e.ignore) {
		return nil, nil
	}

	source, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	tree, err := e.parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, err
	}

	specs := findNodes(tree.RootNode(), []string{"import_spec"})

	seen := make(map[string]struct{})
	var children []string
	for _, spec := range specs {
		pathNode := spec.ChildByFieldName("path")
		if pathNode == nil {
			continue
		}
		raw := strings.Trim(pathNode.Content(source), `"`)
		if raw == "" {
			continue
		}
		resolved, ok := resolveGoImport(raw, cwd)
		if !ok {
			continue
		}
		for _, r := range resolved {
			if matchesIgnore(r, e.ignore) {
				continue
			}
			if _, dup := seen[r]; dup {
				continue
			}
			seen[r] = struct{}{}
			children = append(children, r)
		}
	}
	return children, nil
}

func findNodes(root *sitter.Node, types []string) []*sitter.Node {
	var result []*sitter.Node
	var walk func(*sitter.Node)
	walk = func(node *sitter.Node) {
		if node == nil {
			return
		}
		for _, t := range types {
			if node.Type() == t {
				result = append(result, node)
				break
			}
		}
		for i := 0; i < int(node.ChildCount()); i++ {
			walk(node.Child(i))
		}
	}
	walk(root)
	return result
}
