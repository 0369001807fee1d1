package depgraph

// Query answers reverse-reachability questions over a populated Graph: given
// a set of changed files, which entry files must be re-examined.
type Query struct {
	graph     *Graph
	populator *Populator
	changes   ChangeCache
}

// NewQuery binds a Query to the graph it walks and the collaborators it uses
// to refresh edges for the seed set before walking parents.
func NewQuery(g *Graph, populator *Populator, changes ChangeCache) *Query {
	return &Query{graph: g, populator: populator, changes: changes}
}

// AffectedEntryFiles computes the set of entry files affected by changed
// (plus anything in markChanged, which is force-invalidated in the change
// cache first). An empty changed set falls back to asking the change cache
// which of the graph's known files differ from their last snapshot.
func (q *Query) AffectedEntryFiles(changed []string, markChanged []string) (AffectedResult, error) {
	for _, path := range markChanged {
		abs, err := q.graph.AbsPath(path)
		if err != nil {
			return AffectedResult{}, err
		}
		q.changes.RemoveEntry(abs)
	}

	changeSet := changed
	if len(changeSet) == 0 {
		updated := q.changes.UpdatedAmong(q.graph.Nodes())
		changeSet = sortedKeys(updated)
	}

	seeds := make([]*Node, 0, len(changeSet))
	for _, path := range changeSet {
		abs, err := q.graph.AbsPath(path)
		if err != nil {
			return AffectedResult{}, err
		}
		if node := q.graph.Node(abs); node != nil {
			seeds = append(seeds, node)
		}
	}
	if len(seeds) == 0 {
		return AffectedResult{Affected: []string{}, EntryFiles: []string{}}, nil
	}

	if err := q.populator.Populate(q.graph, seeds, false); err != nil {
		return AffectedResult{}, err
	}

	affected := make(map[string]struct{})
	for _, seed := range seeds {
		for _, ef := range seed.EntryFiles() {
			affected[ef] = struct{}{}
		}
		if q.graph.IsEntryFile(seed.Filename()) {
			affected[seed.Filename()] = struct{}{}
		}
		for _, ancestor := range q.ancestors(seed) {
			affected[ancestor] = struct{}{}
		}
	}

	entryFiles := make(map[string]struct{})
	for f := range affected {
		if q.graph.IsEntryFile(f) {
			entryFiles[f] = struct{}{}
		}
	}

	return AffectedResult{
		Affected:   sortedKeys(affected),
		EntryFiles: sortedKeys(entryFiles),
	}, nil
}

// ChangedAmongTracked reports which of the graph's currently known files
// differ from their last recorded snapshot in the change cache, without
// mutating the graph or the cache. A poll loop calls this on a timer to
// discover work without needing an external notification source.
func (q *Query) ChangedAmongTracked() []string {
	updated := q.changes.UpdatedAmong(q.graph.Nodes())
	return sortedKeys(updated)
}

// ancestors walks node's parent edges with an iterative DFS, returning every
// filename reached. The visited set is scoped to this single call so that
// diamond-shaped ancestries are only reported once per seed.
func (q *Query) ancestors(node *Node) []string {
	visited := make(map[string]struct{})
	stack := node.Parents()

	for len(stack) > 0 {
		name := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := visited[name]; ok {
			continue
		}
		visited[name] = struct{}{}

		parent := q.graph.Node(name)
		if parent == nil {
			continue
		}
		for _, grandparent := range parent.Parents() {
			if _, ok := visited[grandparent]; !ok {
				stack = append(stack, grandparent)
			}
		}
	}

	return sortedKeys(visited)
}
