package depgraph

import (
	depterrs "deptrack/internal/errors"
	"deptrack/internal/logging"
	"deptrack/internal/paths"
)

// Cache is the adapter the Graph uses to persist and load the module-map.
// Implementations live in internal/cache.
type Cache interface {
	All() (map[string]SerializedNode, error)
	SetKey(filename string, record SerializedNode)
	Save(persistAll bool) error
	Destroy() error
}

// Options configures a Graph at construction time.
type Options struct {
	EntryFiles []string
	Ignored    []string
	Cwd        string
	Reset      bool
	Logger     *logging.Logger
}

// Graph is the in-memory bidirectional dependency graph. One Graph belongs
// to one logical task; it is not safe for concurrent mutation from multiple
// goroutines.
type Graph struct {
	nodes       map[string]*Node
	entryFiles  map[string]struct{}
	ignored     []string
	cwd         string
	cache       Cache
	logger      *logging.Logger
	initialized bool
	initializing bool
}

// New constructs a Graph bound to cache but does not populate it; call
// Initialize to run the one-shot load-and-populate sequence described in the
// component design.
func New(cache Cache, opts Options) *Graph {
	cwd := opts.Cwd
	if cwd == "" {
		cwd = "."
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewLogger(logging.Config{Level: logging.ErrorLevel})
	}
	return &Graph{
		nodes:      make(map[string]*Node),
		entryFiles: make(map[string]struct{}),
		ignored:    append([]string(nil), opts.Ignored...),
		cwd:        cwd,
		cache:      cache,
		logger:     logger,
	}
}

// Node returns the node for filename, or nil if unknown.
func (g *Graph) Node(filename string) *Node {
	return g.nodes[filename]
}

// Nodes returns every filename currently in the graph.
func (g *Graph) Nodes() []string {
	return sortedKeys(toSetFromNodeMap(g.nodes))
}

func toSetFromNodeMap(nodes map[string]*Node) map[string]struct{} {
	set := make(map[string]struct{}, len(nodes))
	for k := range nodes {
		set[k] = struct{}{}
	}
	return set
}

// EntryFiles returns the current entry-file set, sorted.
func (g *Graph) EntryFiles() []string {
	return sortedKeys(g.entryFiles)
}

// IsEntryFile reports whether filename is a designated entry file.
func (g *Graph) IsEntryFile(filename string) bool {
	_, ok := g.entryFiles[filename]
	return ok
}

// Cwd returns the directory relative paths are resolved against.
func (g *Graph) Cwd() string { return g.cwd }

// Ignored returns the configured ignore patterns.
func (g *Graph) Ignored() []string { return g.ignored }

// AbsPath resolves path to an absolute, symlink-resolved filename anchored
// at g.cwd.
func (g *Graph) AbsPath(path string) (string, error) {
	if path == "" {
		return "", depterrs.New(depterrs.InvalidPath, "empty path", nil)
	}
	abs, err := paths.CanonicalizeAbsolute(path, g.cwd)
	if err != nil {
		return "", depterrs.New(depterrs.InvalidPath, "cannot make "+path+" absolute", err)
	}
	return abs, nil
}

// Set installs node in the graph under filename, replacing any prior node.
// It does not synchronize adjacent parent/child back-edges; callers (the
// Populator) own that responsibility because only they know the full set of
// edges being added in a given pass.
func (g *Graph) Set(filename string, node *Node) {
	g.nodes[filename] = node
}

// getOrCreate returns the existing node for filename, creating an empty one
// if absent.
func (g *Graph) getOrCreate(filename string) *Node {
	if n, ok := g.nodes[filename]; ok {
		return n
	}
	n := NewNode(filename, nil, nil, nil)
	g.nodes[filename] = n
	return n
}

// Delete removes filename from the graph, unlinking it from parents and
// children and cascading the delete to any child left with no parents.
// Deleting an unknown filename is a no-op.
func (g *Graph) Delete(filename string) {
	node, ok := g.nodes[filename]
	if !ok {
		return
	}

	for _, childName := range node.Children() {
		if child, ok := g.nodes[childName]; ok {
			child.removeParent(filename)
			if child.parentCount() == 0 {
				g.Delete(childName)
			}
		}
	}

	for _, parentName := range node.Parents() {
		if parent, ok := g.nodes[parentName]; ok {
			parent.removeChild(filename)
		}
	}

	delete(g.nodes, filename)
	delete(g.entryFiles, filename)
}

// AddEntryFile designates path (resolved against cwd) as an entry file. If
// the graph has no node for it yet, one is created and populated.
func (g *Graph) AddEntryFile(path string, populate func(*Graph, []*Node, bool) error) error {
	abs, err := g.AbsPath(path)
	if err != nil {
		return err
	}
	g.entryFiles[abs] = struct{}{}

	if _, ok := g.nodes[abs]; ok {
		return nil
	}
	node := g.getOrCreate(abs)
	if populate != nil {
		return populate(g, []*Node{node}, true)
	}
	return nil
}

// Load reads every record from the cache and installs a node for it. When
// destructive is true the in-memory graph is cleared first; otherwise loaded
// nodes overwrite any node sharing their filename and all others are kept.
func (g *Graph) Load(destructive bool) error {
	records, err := g.cache.All()
	if err != nil {
		return depterrs.New(depterrs.CacheIOFailure, "failed to read module-map cache", err)
	}

	if destructive {
		g.nodes = make(map[string]*Node)
	}
	for filename, record := range records {
		g.nodes[filename] = FromSerialized(record)
	}
	return nil
}

// Save writes every node's serialized form to the cache and flushes it.
func (g *Graph) Save() error {
	for filename, node := range g.nodes {
		g.cache.SetKey(filename, node.ToSerialized())
	}
	if err := g.cache.Save(true); err != nil {
		return depterrs.New(depterrs.CacheIOFailure, "failed to persist module-map cache", err)
	}
	return nil
}

// ToSerialized returns a deterministic, sort-stable snapshot of every node.
func (g *Graph) ToSerialized() map[string]SerializedNode {
	out := make(map[string]SerializedNode, len(g.nodes))
	for filename, node := range g.nodes {
		out[filename] = node.ToSerialized()
	}
	return out
}

// Reset destroys the backing cache, clears the in-memory graph, and forces a
// cold rebuild on the next Initialize.
func (g *Graph) Reset() error {
	if err := g.cache.Destroy(); err != nil {
		return depterrs.New(depterrs.CacheIOFailure, "failed to destroy caches", err)
	}
	g.nodes = make(map[string]*Node)
	g.entryFiles = make(map[string]struct{})
	return nil
}
