// Package cache implements depgraph.Cache over module-map.cache.json, with
// optional zstd compression of the file on disk.
package cache

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"

	"deptrack/internal/depgraph"
)

// GraphCache persists the depgraph's node set to a single JSON file,
// optionally zstd-compressed.
type GraphCache struct {
	mu       sync.Mutex
	path     string
	compress bool
	records  map[string]depgraph.SerializedNode
}

// Load reads path if it exists, starting from an empty cache otherwise.
// compress must match how the file was last written; a cache written
// compressed cannot be read back with compress=false and vice versa.
func Load(path string, compress bool) (*GraphCache, error) {
	c := &GraphCache{
		path:     path,
		compress: compress,
		records:  make(map[string]depgraph.SerializedNode),
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, err
	}

	data := raw
	if compress {
		data, err = decompress(raw)
		if err != nil {
			return nil, err
		}
	}
	if len(data) == 0 {
		return c, nil
	}
	if err := json.Unmarshal(data, &c.records); err != nil {
		return nil, err
	}
	return c, nil
}

// All returns a copy of every persisted record.
func (c *GraphCache) All() (map[string]depgraph.SerializedNode, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]depgraph.SerializedNode, len(c.records))
	for k, v := range c.records {
		out[k] = v
	}
	return out, nil
}

// SetKey stages record under filename for the next Save.
func (c *GraphCache) SetKey(filename string, record depgraph.SerializedNode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records[filename] = record
}

// Save writes the staged records to disk. persistAll is accepted for
// interface symmetry with future partial-save strategies; this
// implementation always writes the full record set.
func (c *GraphCache) Save(persistAll bool) error {
	c.mu.Lock()
	data, err := json.MarshalIndent(c.records, "", "  ")
	c.mu.Unlock()
	if err != nil {
		return err
	}

	if c.compress {
		data, err = compress(data)
		if err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return err
	}
	return os.WriteFile(c.path, data, 0644)
}

// Destroy deletes the persisted cache file and clears in-memory records.
func (c *GraphCache) Destroy() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = make(map[string]depgraph.SerializedNode)
	if err := os.Remove(c.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zstd.NewWriter(&buf)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompress(data []byte) ([]byte, error) {
	r, err := zstd.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
