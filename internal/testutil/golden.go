// Package testutil provides golden-file comparison for graph snapshot tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// updateGolden controls whether golden files should be updated.
// Use: go test ./... -run TestGolden -update
var updateGolden = flag.Bool("update", false, "update golden files")

// ShouldUpdate returns true if golden files should be updated.
func ShouldUpdate() bool {
	return *updateGolden
}

// GoldenPath returns the conventional location of a golden fixture: a
// testdata/ directory next to the test, one file per name.
func GoldenPath(dir, name string) string {
	return filepath.Join(dir, "testdata", name+".golden.json")
}

// CompareGolden marshals got as indented JSON and compares it against the
// golden file at dir/testdata/name.golden.json, failing with a diff on
// mismatch. With -update, it writes got as the new golden file instead.
func CompareGolden(t *testing.T, dir, name string, got any) {
	t.Helper()

	data, err := json.MarshalIndent(got, "", "  ")
	if err != nil {
		t.Fatalf("failed to marshal golden data: %v", err)
	}
	data = append(data, '\n')

	goldenPath := GoldenPath(dir, name)

	if *updateGolden {
		if err := os.MkdirAll(filepath.Dir(goldenPath), 0o755); err != nil {
			t.Fatalf("failed to create testdata directory: %v", err)
		}
		if err := os.WriteFile(goldenPath, data, 0o644); err != nil {
			t.Fatalf("failed to write golden file: %v", err)
		}
		t.Logf("updated golden: %s", goldenPath)
		return
	}

	expected, err := os.ReadFile(goldenPath)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("golden file missing: %s\n\ngot:\n%s\n\nrun with -update to create:\n  go test ./... -run %s -update",
				goldenPath, string(data), t.Name())
		}
		t.Fatalf("failed to read golden file: %v", err)
	}

	if !bytes.Equal(data, expected) {
		t.Fatalf("golden mismatch for %s:\n%s\n\nrun with -update to refresh:\n  go test ./... -run %s -update",
			name, unifiedDiff(string(expected), string(data), goldenPath), t.Name())
	}
}

// unifiedDiff produces a simplified line-oriented diff between two strings.
func unifiedDiff(expected, got, path string) string {
	var buf bytes.Buffer
	expectedLines := strings.Split(expected, "\n")
	gotLines := strings.Split(got, "\n")

	fmt.Fprintf(&buf, "--- %s (expected)\n", path)
	fmt.Fprintf(&buf, "+++ %s (got)\n", path)

	maxLines := len(expectedLines)
	if len(gotLines) > maxLines {
		maxLines = len(gotLines)
	}

	for i := 0; i < maxLines; i++ {
		var expLine, gotLine string
		if i < len(expectedLines) {
			expLine = expectedLines[i]
		}
		if i < len(gotLines) {
			gotLine = gotLines[i]
		}
		if expLine == gotLine {
			continue
		}
		if i < len(expectedLines) {
			fmt.Fprintf(&buf, "-%s\n", expLine)
		}
		if i < len(gotLines) {
			fmt.Fprintf(&buf, "+%s\n", gotLine)
		}
	}

	return buf.String()
}
