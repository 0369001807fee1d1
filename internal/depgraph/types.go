// Package depgraph implements a persistent, incremental module dependency
// graph for watch-mode test selection.
//
// V1.0 Scope:
//   - bidirectional file dependency graph keyed by absolute path
//   - incremental population driven by a change cache and an extractor
//   - reverse-reachability query from changed files to affected entry files
//
// V1.1 Scope (not yet implemented):
//   - partial re-population of a single subtree without touching siblings
//   - graph diffing between two serialized snapshots
package depgraph

import "sort"

// SerializedNode is the on-disk shape of a Node, as written to the
// module-map cache and as returned by Graph.ToSerialized.
type SerializedNode struct {
	Filename   string   `json:"filename"`
	Children   []string `json:"children"`
	Parents    []string `json:"parents"`
	EntryFiles []string `json:"entryFiles"`
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		if it == "" {
			continue
		}
		set[it] = struct{}{}
	}
	return set
}

// AffectedResult is the output of Query.AffectedEntryFiles: the full set of
// affected files, and the subset of those that are entry files.
type AffectedResult struct {
	Affected   []string
	EntryFiles []string
}
