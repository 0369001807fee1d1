package watchloop

import (
	"sync"
	"testing"
	"time"

	"deptrack/internal/depgraph"
	"deptrack/internal/logging"
)

// fakeCache is a minimal in-memory depgraph.Cache for tests.
type fakeCache struct{ records map[string]depgraph.SerializedNode }

func newFakeCache() *fakeCache { return &fakeCache{records: map[string]depgraph.SerializedNode{}} }

func (c *fakeCache) All() (map[string]depgraph.SerializedNode, error) {
	out := make(map[string]depgraph.SerializedNode, len(c.records))
	for k, v := range c.records {
		out[k] = v
	}
	return out, nil
}
func (c *fakeCache) SetKey(filename string, record depgraph.SerializedNode) {
	c.records[filename] = record
}
func (c *fakeCache) Save(persistAll bool) error { return nil }
func (c *fakeCache) Destroy() error             { c.records = map[string]depgraph.SerializedNode{}; return nil }

// fakeChanges is a minimal depgraph.ChangeCache whose changed set is
// controlled directly by the test instead of real file hashing.
type fakeChanges struct {
	mu      sync.Mutex
	changed map[string]struct{}
}

func newFakeChanges() *fakeChanges { return &fakeChanges{changed: map[string]struct{}{}} }

func (c *fakeChanges) HasChanged(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.changed[path]
	return ok
}
func (c *fakeChanges) UpdatedAmong(paths []string) map[string]struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]struct{})
	for _, p := range paths {
		if _, ok := c.changed[p]; ok {
			out[p] = struct{}{}
		}
	}
	return out
}
func (c *fakeChanges) RemoveEntry(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.changed, path)
}
func (c *fakeChanges) Reconcile(persist bool) error { return nil }
func (c *fakeChanges) Destroy() error               { return nil }

func (c *fakeChanges) markChanged(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.changed[path] = struct{}{}
}

type noopExtractor struct{}

func (noopExtractor) Extract(filename, cwd string) ([]string, error) { return nil, nil }

func testLoopSetup(t *testing.T) (*depgraph.Graph, *depgraph.Query, *fakeChanges) {
	t.Helper()
	dir := t.TempDir()
	changes := newFakeChanges()
	logger := logging.NewLogger(logging.Config{Level: logging.ErrorLevel})

	g := depgraph.New(newFakeCache(), depgraph.Options{
		EntryFiles: []string{dir + "/entry.js"},
		Cwd:        dir,
		Logger:     logger,
	})
	populator := depgraph.NewPopulator(noopExtractor{}, changes, logger)
	query := depgraph.NewQuery(g, populator, changes)

	if err := g.AddEntryFile(dir+"/entry.js", populator.Populate); err != nil {
		t.Fatalf("AddEntryFile() error = %v", err)
	}
	return g, query, changes
}

func TestLoop_DetectsChangeAndInvokesCallback(t *testing.T) {
	g, query, changes := testLoopSetup(t)

	var mu sync.Mutex
	var gotChanged []string
	done := make(chan struct{}, 1)

	loop := New(Config{PollInterval: 20 * time.Millisecond, DebounceMs: 20}, query, g, logging.NewLogger(logging.Config{Level: logging.ErrorLevel}),
		func(result depgraph.AffectedResult, changed []string, err error) {
			mu.Lock()
			gotChanged = changed
			mu.Unlock()
			select {
			case done <- struct{}{}:
			default:
			}
		})

	entry := g.Nodes()[0]
	changes.markChanged(entry)

	loop.Start()
	defer loop.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("callback was never invoked")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(gotChanged) != 1 || gotChanged[0] != entry {
		t.Errorf("callback changed = %v, want [%s]", gotChanged, entry)
	}
}

func TestLoop_NoChangesNeverInvokesCallback(t *testing.T) {
	g, query, _ := testLoopSetup(t)

	called := make(chan struct{}, 1)
	loop := New(Config{PollInterval: 10 * time.Millisecond, DebounceMs: 10}, query, g, logging.NewLogger(logging.Config{Level: logging.ErrorLevel}),
		func(result depgraph.AffectedResult, changed []string, err error) {
			called <- struct{}{}
		})

	loop.Start()
	defer loop.Stop()

	select {
	case <-called:
		t.Fatal("callback invoked with no changes present")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestDebouncer_CollapsesRepeatedTriggers(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	count := 0
	for i := 0; i < 5; i++ {
		d.Trigger(func() { count++ })
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(80 * time.Millisecond)
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestBatchDebouncer_AccumulatesThenEmits(t *testing.T) {
	var mu sync.Mutex
	var batch []Event
	b := NewBatchDebouncer(30*time.Millisecond, func(events []Event) {
		mu.Lock()
		batch = events
		mu.Unlock()
	})

	b.Add(Event{Path: "a"})
	b.Add(Event{Path: "b"})
	if b.EventCount() != 2 {
		t.Fatalf("EventCount() = %d, want 2", b.EventCount())
	}

	time.Sleep(80 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if len(batch) != 2 {
		t.Errorf("batch = %v, want 2 events", batch)
	}
}

func TestBatchDebouncer_FlushEmitsImmediately(t *testing.T) {
	var mu sync.Mutex
	var got []Event
	b := NewBatchDebouncer(time.Hour, func(events []Event) {
		mu.Lock()
		got = events
		mu.Unlock()
	})
	b.Add(Event{Path: "a"})
	b.Flush()

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 {
		t.Errorf("got = %v, want 1 event after Flush", got)
	}
}
