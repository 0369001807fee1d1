package depgraph

import (
	"path/filepath"
	"strings"

	depterrs "deptrack/internal/errors"
	"deptrack/internal/logging"
)

// Extractor resolves the direct, local dependencies of a single file. It
// must be pure with respect to on-disk content at call time and must never
// resolve non-local (package manager) imports.
type Extractor interface {
	Extract(filename, cwd string) ([]string, error)
}

// ChangeCache reports which of the graph's known files have changed since
// the last reconciled snapshot, and persists that snapshot across runs.
type ChangeCache interface {
	HasChanged(path string) bool
	UpdatedAmong(paths []string) map[string]struct{}
	RemoveEntry(path string)
	Reconcile(persist bool) error
	Destroy() error
}

// externalMarker is filtered out of every extractor result; it is the
// platform convention for "this import resolved to a package dependency,
// not a local file" and is never something the graph tracks.
const externalMarker = string(filepath.Separator) + "node_modules" + string(filepath.Separator)

// Populator runs the incremental graph-construction algorithm described in
// the component design: a depth-first walk, gated per-node by the change
// cache unless force is requested, that installs bidirectional edges as it
// discovers children.
type Populator struct {
	extractor Extractor
	changes   ChangeCache
	logger    *logging.Logger
}

// NewPopulator builds a Populator from its two collaborators.
func NewPopulator(extractor Extractor, changes ChangeCache, logger *logging.Logger) *Populator {
	if logger == nil {
		logger = logging.NewLogger(logging.Config{Level: logging.ErrorLevel})
	}
	return &Populator{extractor: extractor, changes: changes, logger: logger}
}

type frame struct {
	node        *Node
	entryAnchor *Node
}

// Populate visits each of start (and anything newly discovered beneath it),
// re-extracting a node's children when force is true or the change cache
// reports the node as changed, and installing parent/child/entryFiles edges
// for every newly discovered child. It terminates on cycles via a seen set
// keyed by filename.
func (p *Populator) Populate(g *Graph, start []*Node, force bool) error {
	seen := make(map[string]struct{}, len(start))
	stack := make([]frame, 0, len(start))

	for _, n := range start {
		var anchor *Node
		if g.IsEntryFile(n.Filename()) {
			anchor = n
		}
		stack = append(stack, frame{node: n, entryAnchor: anchor})
		seen[n.Filename()] = struct{}{}
	}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node := f.node

		if force || p.changes.HasChanged(node.Filename()) {
			children, err := p.extractor.Extract(node.Filename(), g.Cwd())
			if err != nil {
				return depterrs.New(depterrs.ExtractorFailure, "failed to extract dependencies for "+node.Filename(), err)
			}
			node.setChildren(filterChildren(children))
			p.logger.Debug("extracted dependencies", map[string]interface{}{
				"filename": node.Filename(),
				"count":    len(node.Children()),
			})
		}

		for _, childName := range node.Children() {
			child := g.getOrCreate(childName)
			if f.entryAnchor != nil {
				child.addEntryFile(f.entryAnchor.Filename())
			}
			child.addParent(node.Filename())
			g.Set(childName, child)

			if _, ok := seen[childName]; !ok {
				seen[childName] = struct{}{}
				stack = append(stack, frame{node: child, entryAnchor: f.entryAnchor})
			}
		}
	}

	p.logger.Info("populate complete", map[string]interface{}{
		"visited": len(seen),
		"force":   force,
	})
	return nil
}

func filterChildren(children []string) []string {
	out := make([]string, 0, len(children))
	for _, c := range children {
		if c == "" {
			continue
		}
		if strings.Contains(c, externalMarker) {
			continue
		}
		out = append(out, c)
	}
	return out
}
