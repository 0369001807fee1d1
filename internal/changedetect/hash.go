package changedetect

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/blake2b"
)

// hashFile computes a blake2b-256 digest of path's contents, chosen over
// sha256 because this cache recomputes hashes on every watch tick rather
// than once per index, and blake2b is meaningfully faster at that frequency.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	h, err := blake2b.New256(nil)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}
