package depgraph

// memCache is an in-memory Cache used by tests; the real JSON-backed
// implementation lives in internal/cache and is exercised by its own tests.
type memCache struct {
	records map[string]SerializedNode
}

func newMemCache() *memCache {
	return &memCache{records: make(map[string]SerializedNode)}
}

func (c *memCache) All() (map[string]SerializedNode, error) {
	out := make(map[string]SerializedNode, len(c.records))
	for k, v := range c.records {
		out[k] = v
	}
	return out, nil
}

func (c *memCache) SetKey(filename string, record SerializedNode) {
	c.records[filename] = record
}

func (c *memCache) Save(persistAll bool) error { return nil }

func (c *memCache) Destroy() error {
	c.records = make(map[string]SerializedNode)
	return nil
}

// mapExtractor resolves each file's children from a fixed adjacency map,
// standing in for a real source-file extractor in tests.
type mapExtractor struct {
	edges map[string][]string
}

func (e *mapExtractor) Extract(filename, cwd string) ([]string, error) {
	return e.edges[filename], nil
}

// fakeChangeCache reports every file in `changed` as having changed and
// nothing else; Reconcile/RemoveEntry mutate that set directly so tests can
// simulate a file being edited between calls.
type fakeChangeCache struct {
	changed map[string]struct{}
}

func newFakeChangeCache(changed ...string) *fakeChangeCache {
	set := make(map[string]struct{}, len(changed))
	for _, c := range changed {
		set[c] = struct{}{}
	}
	return &fakeChangeCache{changed: set}
}

func (c *fakeChangeCache) HasChanged(path string) bool {
	_, ok := c.changed[path]
	return ok
}

func (c *fakeChangeCache) UpdatedAmong(paths []string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, p := range paths {
		if _, ok := c.changed[p]; ok {
			out[p] = struct{}{}
		}
	}
	return out
}

func (c *fakeChangeCache) RemoveEntry(path string) {
	c.changed[path] = struct{}{}
}

func (c *fakeChangeCache) Reconcile(persist bool) error {
	c.changed = make(map[string]struct{})
	return nil
}

func (c *fakeChangeCache) Destroy() error {
	c.changed = make(map[string]struct{})
	return nil
}
