package extract

import "testing"

func TestMatchesIgnore_PlainSegment(t *testing.T) {
	if !matchesIgnore("/repo/vendor/pkg/a.go", []string{"vendor"}) {
		t.Error("expected /repo/vendor/pkg/a.go to match pattern \"vendor\"")
	}
	if matchesIgnore("/repo/src/vendorish/a.go", []string{"vendor"}) {
		t.Error("pattern \"vendor\" should not match the unrelated segment \"vendorish\"")
	}
}

func TestMatchesIgnore_Glob(t *testing.T) {
	if !matchesIgnore("/repo/pkg/a.gen.go", []string{"*.gen.go"}) {
		t.Error("expected *.gen.go to match a.gen.go")
	}
	if matchesIgnore("/repo/pkg/a.go", []string{"*.gen.go"}) {
		t.Error("*.gen.go should not match a.go")
	}
}

func TestMatchesIgnore_NoPatterns(t *testing.T) {
	if matchesIgnore("/repo/anything.go", nil) {
		t.Error("expected no match with an empty pattern set")
	}
}
