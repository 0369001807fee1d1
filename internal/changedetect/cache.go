package changedetect

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// Cache implements depgraph.ChangeCache, backed by file-entry.cache.json.
// HasChanged hashes a file's current contents against the last record it
// saw; a file that can no longer be stat'd is reported as changed so a
// stale node for a deleted file gets cleaned up the next time the core
// queries it. When repoRoot is inside a git working tree, a known file git reports
// as clean is taken as unchanged without touching the filesystem at all;
// everything else falls back to the stat/hash walk.
type Cache struct {
	mu       sync.Mutex
	path     string
	repoRoot string
	entries  map[string]Entry
	pending  map[string]Entry
	dirty    map[string]struct{}

	gitChecked bool
	gitReady   bool
	gitDirty   map[string]struct{}
}

// Load reads path (a file-entry.cache.json location) if it exists, starting
// from an empty cache otherwise. repoRoot is the directory git commands run
// in to determine the fast path's availability; it need not be a git
// repository at all, in which case every lookup uses the hash walk.
func Load(path, repoRoot string) (*Cache, error) {
	c := &Cache{
		path:     path,
		repoRoot: repoRoot,
		entries:  make(map[string]Entry),
		pending:  make(map[string]Entry),
		dirty:    make(map[string]struct{}),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, &c.entries); err != nil {
		return nil, err
	}
	return c, nil
}

// HasChanged reports whether path's content hash differs from the last
// record Reconcile committed for it, or whether path has no prior record at
// all, or whether path was explicitly invalidated via RemoveEntry.
func (c *Cache) HasChanged(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.dirty[path]; ok {
		return true
	}

	prev, known := c.entries[path]
	if known {
		if dirty, ok := c.gitDirtySet(); ok {
			if _, touched := dirty[path]; !touched {
				c.pending[path] = prev
				return false
			}
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return true
	}

	if known && info.Size() == prev.Size && info.ModTime().UnixNano() == prev.ModTime {
		c.pending[path] = prev
		return false
	}

	hash, err := hashFile(path)
	if err != nil {
		return true
	}
	rec := Entry{Hash: hash, Size: info.Size(), ModTime: info.ModTime().UnixNano()}
	c.pending[path] = rec

	return !known || prev.Hash != rec.Hash
}

// gitDirtySet returns the set of paths git considers touched in repoRoot,
// computing it at most once per reconcile cycle, and a bool reporting
// whether the fast path could be used at all this cycle (not inside a git
// working tree, or a git invocation failed, both fall back silently to the hash walk).
func (c *Cache) gitDirtySet() (map[string]struct{}, bool) {
	if !c.gitChecked {
		c.gitChecked = true
		c.gitReady = isGitRepo(c.repoRoot)
	}
	if !c.gitReady {
		return nil, false
	}
	if c.gitDirty == nil {
		set, err := gitStatusSet(c.repoRoot)
		if err != nil {
			c.gitReady = false
			return nil, false
		}
		c.gitDirty = set
	}
	return c.gitDirty, true
}

// UpdatedAmong reports which of paths have changed.
func (c *Cache) UpdatedAmong(paths []string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, p := range paths {
		if c.HasChanged(p) {
			out[p] = struct{}{}
		}
	}
	return out
}

// RemoveEntry drops path's stored record and marks it changed until the
// next successful HasChanged/Reconcile cycle re-establishes one.
func (c *Cache) RemoveEntry(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dirty[path] = struct{}{}
	delete(c.entries, path)
	delete(c.pending, path)
}

// Reconcile commits every record observed via HasChanged since the last
// Reconcile, clears pending invalidations, and optionally persists the
// result to disk.
func (c *Cache) Reconcile(persist bool) error {
	c.mu.Lock()
	for path, rec := range c.pending {
		c.entries[path] = rec
	}
	c.pending = make(map[string]Entry)
	c.dirty = make(map[string]struct{})
	c.gitChecked = false
	c.gitDirty = nil
	snapshot := make(map[string]Entry, len(c.entries))
	for k, v := range c.entries {
		snapshot[k] = v
	}
	c.mu.Unlock()

	if !persist {
		return nil
	}
	return c.save(snapshot)
}

func (c *Cache) save(snapshot map[string]Entry) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, data, 0644)
}

// Destroy deletes the persisted cache file and clears all in-memory state.
func (c *Cache) Destroy() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]Entry)
	c.pending = make(map[string]Entry)
	c.dirty = make(map[string]struct{})
	c.gitChecked = false
	c.gitDirty = nil

	if err := os.Remove(c.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
