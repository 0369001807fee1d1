package cache

import (
	"path/filepath"
	"testing"

	"deptrack/internal/depgraph"
)

func TestGraphCache_SaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "module-map.cache.json")

	c, err := Load(path, false)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	c.SetKey("/p/a.js", depgraph.SerializedNode{Filename: "/p/a.js", Children: []string{"/p/b.js"}})
	if err := c.Save(true); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	reloaded, err := Load(path, false)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	all, err := reloaded.All()
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(all) != 1 || all["/p/a.js"].Filename != "/p/a.js" {
		t.Errorf("All() = %+v, want one record for /p/a.js", all)
	}
}

func TestGraphCache_CompressedRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "module-map.cache.json")

	c, err := Load(path, true)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	c.SetKey("/p/a.js", depgraph.SerializedNode{Filename: "/p/a.js"})
	if err := c.Save(true); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	reloaded, err := Load(path, true)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	all, err := reloaded.All()
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(all) != 1 {
		t.Errorf("All() = %+v, want one record", all)
	}
}

func TestGraphCache_LoadMissingFileIsEmpty(t *testing.T) {
	dir := t.TempDir()
	c, err := Load(filepath.Join(dir, "module-map.cache.json"), false)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	all, err := c.All()
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(all) != 0 {
		t.Errorf("All() = %+v, want empty", all)
	}
}

func TestGraphCache_Destroy(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "module-map.cache.json")

	c, err := Load(path, false)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	c.SetKey("/p/a.js", depgraph.SerializedNode{Filename: "/p/a.js"})
	if err := c.Save(true); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := c.Destroy(); err != nil {
		t.Fatalf("Destroy() error = %v", err)
	}

	all, err := c.All()
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(all) != 0 {
		t.Errorf("All() after Destroy = %+v, want empty", all)
	}
}
