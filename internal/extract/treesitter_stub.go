//go:build !cgo

package extract

// TreeSitterExtractor is a stub used when CGO is unavailable; Composite
// falls back to RegexExtractor for .go files in that case.
type TreeSitterExtractor struct{}

// NewTreeSitterExtractor returns nil when CGO is not available. ignore is
// accepted only to keep the constructor signature identical across the
// cgo/!cgo build.
func NewTreeSitterExtractor(ignore []string) *TreeSitterExtractor {
	return nil
}

// Extract always returns nil, nil when CGO is not available.
func (e *TreeSitterExtractor) Extract(filename, cwd string) ([]string, error) {
	return nil, nil
}
