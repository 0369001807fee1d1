package depgraph

import (
	depterrs "deptrack/internal/errors"
)

// Initialize runs the one-shot construction sequence: optionally reset the
// caches, load the persisted graph, ensure every declared entry file has a
// node, determine which known files have changed, populate from the union
// of (changed known nodes, newly added entry nodes) with force=true, then
// save. It may be called exactly once per Graph; a second call returns
// AlreadyInitialized.
func (g *Graph) Initialize(opts Options, populator *Populator, changes ChangeCache) error {
	if g.initialized || g.initializing {
		return depterrs.New(depterrs.AlreadyInitialized, "Initialize called more than once on this graph", nil)
	}
	g.initializing = true

	if opts.Reset {
		if err := g.Reset(); err != nil {
			g.initializing = false
			return err
		}
	} else if err := g.Load(true); err != nil {
		g.initializing = false
		return err
	}

	newEntryNodes := make([]*Node, 0, len(opts.EntryFiles))
	for _, ef := range opts.EntryFiles {
		abs, err := g.AbsPath(ef)
		if err != nil {
			g.initializing = false
			return err
		}
		g.entryFiles[abs] = struct{}{}
		if _, existed := g.nodes[abs]; !existed {
			newEntryNodes = append(newEntryNodes, g.getOrCreate(abs))
		}
	}

	updated := changes.UpdatedAmong(g.Nodes())
	changedNodes := make([]*Node, 0, len(updated))
	for filename := range updated {
		if node := g.Node(filename); node != nil {
			changedNodes = append(changedNodes, node)
		}
	}

	toPopulate := append(changedNodes, newEntryNodes...)
	if len(toPopulate) > 0 {
		if err := populator.Populate(g, toPopulate, true); err != nil {
			g.initializing = false
			return err
		}
	}

	if err := changes.Reconcile(true); err != nil {
		g.initializing = false
		return depterrs.New(depterrs.CacheIOFailure, "failed to reconcile change cache", err)
	}

	if err := g.Save(); err != nil {
		g.initializing = false
		return err
	}

	g.initializing = false
	g.initialized = true
	return nil
}

// Initialized reports whether Initialize has completed successfully.
func (g *Graph) Initialized() bool { return g.initialized }
