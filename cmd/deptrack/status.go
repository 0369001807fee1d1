package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	statusFormat string
	statusLimit  int
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Summarize recent runs and graph size",
	Run:   runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusFormat, "format", "human", "Output format (json, human)")
	statusCmd.Flags().IntVar(&statusLimit, "limit", 10, "Number of recent runs to show")
	registerCommand(statusCmd)
}

// statusResponseCLI is the response shape for `deptrack status`.
type statusResponseCLI struct {
	NodeCount  int            `json:"nodeCount"`
	EntryCount int            `json:"entryCount"`
	RecentRuns []statusRunCLI `json:"recentRuns"`
}

type statusRunCLI struct {
	ID           string `json:"id"`
	StartedAt    string `json:"startedAt"`
	DurationMs   int64  `json:"durationMs"`
	ChangedCount int    `json:"changedCount"`
	Error        string `json:"error,omitempty"`
}

func (r *statusResponseCLI) Human() string {
	var b strings.Builder
	b.WriteString("deptrack status\n")
	b.WriteString(strings.Repeat("─", 60) + "\n\n")
	fmt.Fprintf(&b, "Graph nodes:  %d\n", r.NodeCount)
	fmt.Fprintf(&b, "Entry files:  %d\n\n", r.EntryCount)

	if len(r.RecentRuns) == 0 {
		b.WriteString("No recorded runs yet.\n")
		return b.String()
	}

	b.WriteString("Recent runs:\n")
	for _, run := range r.RecentRuns {
		status := "ok"
		if run.Error != "" {
			status = "error: " + run.Error
		}
		fmt.Fprintf(&b, "  %s  %-6dms  %-4d changed  %s\n", run.StartedAt, run.DurationMs, run.ChangedCount, status)
	}
	return b.String()
}

func runStatus(cmd *cobra.Command, args []string) {
	logger := newLogger(statusFormat)
	repoRoot := mustGetRepoRoot()
	a := mustGetApp(repoRoot, logger, nil, false)

	runs, err := a.Store.RecentRuns(statusLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading run history: %v\n", err)
		os.Exit(1)
	}

	cliRuns := make([]statusRunCLI, 0, len(runs))
	for _, run := range runs {
		duration := int64(0)
		if !run.FinishedAt.IsZero() {
			duration = run.FinishedAt.Sub(run.StartedAt).Milliseconds()
		}
		cliRuns = append(cliRuns, statusRunCLI{
			ID:           run.ID,
			StartedAt:    run.StartedAt.Format(time.RFC3339),
			DurationMs:   duration,
			ChangedCount: run.ChangedCount,
			Error:        run.Error,
		})
	}

	resp := &statusResponseCLI{
		NodeCount:  len(a.Graph.Nodes()),
		EntryCount: len(a.Graph.EntryFiles()),
		RecentRuns: cliRuns,
	}

	output, err := FormatResponse(resp, OutputFormat(statusFormat))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(output)
}
