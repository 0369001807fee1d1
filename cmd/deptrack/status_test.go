package main

import (
	"strings"
	"testing"
)

func TestStatusResponseCLI_HumanWithRuns(t *testing.T) {
	resp := &statusResponseCLI{
		NodeCount:  42,
		EntryCount: 3,
		RecentRuns: []statusRunCLI{
			{ID: "r1", StartedAt: "2026-08-02T10:00:00Z", DurationMs: 12, ChangedCount: 2},
			{ID: "r2", StartedAt: "2026-08-02T10:05:00Z", DurationMs: 8, ChangedCount: 1, Error: "boom"},
		},
	}

	out := resp.Human()
	if !strings.Contains(out, "Graph nodes:  42") {
		t.Errorf("output missing node count: %q", out)
	}
	if !strings.Contains(out, "boom") {
		t.Errorf("output missing error for failed run: %q", out)
	}
}

func TestStatusResponseCLI_HumanNoRuns(t *testing.T) {
	resp := &statusResponseCLI{NodeCount: 1, EntryCount: 1}

	out := resp.Human()
	if !strings.Contains(out, "No recorded runs yet.") {
		t.Errorf("output = %q, want no-runs message", out)
	}
}
