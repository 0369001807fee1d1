// Package changedetect tracks which files have changed since the last time
// the depgraph core looked at them, persisting its findings to
// file-entry.cache.json between runs.
package changedetect

// Entry is the persisted record of a single file's last-known content hash
// and stat metadata.
type Entry struct {
	Hash    string `json:"hash"`
	Size    int64  `json:"size"`
	ModTime int64  `json:"modTime"`
}
