package paths

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCanonicalizeAbsolute(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "a.js")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	got, err := CanonicalizeAbsolute("a.js", tmpDir)
	if err != nil {
		t.Fatalf("CanonicalizeAbsolute() error = %v", err)
	}
	if !filepath.IsAbs(got) {
		t.Errorf("CanonicalizeAbsolute() = %q, want absolute path", got)
	}
	if filepath.Base(got) != "a.js" {
		t.Errorf("CanonicalizeAbsolute() = %q, want basename a.js", got)
	}
}

func TestCanonicalizeAbsolute_AlreadyAbsolute(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "b.js")

	got, err := CanonicalizeAbsolute(file, "/unused")
	if err != nil {
		t.Fatalf("CanonicalizeAbsolute() error = %v", err)
	}
	if got != filepath.Clean(file) {
		t.Errorf("CanonicalizeAbsolute() = %q, want %q", got, filepath.Clean(file))
	}
}

func TestCanonicalizeAbsolute_NonexistentPathIsAccepted(t *testing.T) {
	tmpDir := t.TempDir()
	got, err := CanonicalizeAbsolute("does-not-exist.js", tmpDir)
	if err != nil {
		t.Fatalf("CanonicalizeAbsolute() error = %v", err)
	}
	want := filepath.Join(tmpDir, "does-not-exist.js")
	if got != want {
		t.Errorf("CanonicalizeAbsolute() = %q, want %q", got, want)
	}
}

func TestCanonicalizeAbsolute_ResolvesSymlink(t *testing.T) {
	tmpDir := t.TempDir()
	real := filepath.Join(tmpDir, "real.js")
	if err := os.WriteFile(real, []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	link := filepath.Join(tmpDir, "link.js")
	if err := os.Symlink(real, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	got, err := CanonicalizeAbsolute(link, tmpDir)
	if err != nil {
		t.Fatalf("CanonicalizeAbsolute() error = %v", err)
	}
	wantResolved, _ := filepath.EvalSymlinks(real)
	if got != wantResolved {
		t.Errorf("CanonicalizeAbsolute() = %q, want resolved %q", got, wantResolved)
	}
}

func TestCanonicalizePath(t *testing.T) {
	tmpDir := t.TempDir()
	sub := filepath.Join(tmpDir, "src")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	file := filepath.Join(sub, "a.js")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	got, err := CanonicalizePath(file, tmpDir)
	if err != nil {
		t.Fatalf("CanonicalizePath() error = %v", err)
	}
	if got != "src/a.js" {
		t.Errorf("CanonicalizePath() = %q, want src/a.js", got)
	}
}

func TestIsWithinRepo(t *testing.T) {
	tmpDir := t.TempDir()
	inside := filepath.Join(tmpDir, "a.js")
	outside := filepath.Join(os.TempDir(), "definitely-outside-deptrack-test")

	if !IsWithinRepo(inside, tmpDir) {
		t.Error("IsWithinRepo() = false for a path under repoRoot, want true")
	}
	if IsWithinRepo(outside, tmpDir) {
		t.Error("IsWithinRepo() = true for a path outside repoRoot, want false")
	}
}

func TestNormalizePath(t *testing.T) {
	got := NormalizePath(`a\b\c.js`)
	if got != "a/b/c.js" {
		t.Errorf("NormalizePath() = %q, want a/b/c.js", got)
	}
}

func TestJoinRepoPath(t *testing.T) {
	got := JoinRepoPath("/repo", "src/a.js")
	want := filepath.Join("/repo", "src", "a.js")
	if got != want {
		t.Errorf("JoinRepoPath() = %q, want %q", got, want)
	}
}
