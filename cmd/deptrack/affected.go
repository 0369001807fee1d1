package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"deptrack/internal/manifest"
)

var (
	affectedFormat string
	affectedGroup  string
)

var affectedCmd = &cobra.Command{
	Use:   "affected [files...]",
	Short: "Find entry files affected by changed files",
	Long: `Compute the set of entry files affected by the given changed files.

If no files are given, asks the change cache which of the graph's known
files differ from their last reconciled snapshot.

Examples:
  deptrack affected src/a.ts src/b.ts
  deptrack affected --format=list
  deptrack affected --group=unit`,
	Run: runAffected,
}

func init() {
	affectedCmd.Flags().StringVar(&affectedFormat, "format", "human", "Output format (json, list, human)")
	affectedCmd.Flags().StringVar(&affectedGroup, "group", "", "Scope entry files to a named group from .deptrack/entries.yaml")
	registerCommand(affectedCmd)
}

// affectedResponseCLI is the JSON/human response shape for `deptrack affected`.
// EntryFiles stays absolute (downstream tooling consuming JSON shouldn't need
// repoRoot to resolve it); displayEntryFiles holds the same set rendered
// repo-relative for Human(), and is never marshaled.
type affectedResponseCLI struct {
	Changed           []string `json:"changed"`
	Affected          []string `json:"affected"`
	EntryFiles        []string `json:"entryFiles"`
	DurationMs        int64    `json:"durationMs"`
	displayEntryFiles []string
}

func (r *affectedResponseCLI) Human() string {
	var b strings.Builder
	b.WriteString("Affected entry files\n")
	b.WriteString(strings.Repeat("─", 60) + "\n\n")

	if len(r.EntryFiles) == 0 {
		b.WriteString("No affected entry files.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "Changed files:      %d\n", len(r.Changed))
	fmt.Fprintf(&b, "Affected files:     %d\n", len(r.Affected))
	fmt.Fprintf(&b, "Affected entries:   %d\n\n", len(r.EntryFiles))

	display := r.displayEntryFiles
	if display == nil {
		display = r.EntryFiles
	}
	for _, ef := range display {
		b.WriteString("  • " + ef + "\n")
	}
	fmt.Fprintf(&b, "\nduration: %dms\n", r.DurationMs)
	return b.String()
}

func runAffected(cmd *cobra.Command, args []string) {
	start := time.Now()
	logger := newLogger(affectedFormat)
	repoRoot := mustGetRepoRoot()
	a := mustGetApp(repoRoot, logger, nil, false)
	runID, startedAt, runErr := a.Store.StartRun()
	if runErr != nil {
		logger.Warn("Failed to record run start", map[string]interface{}{"error": runErr.Error()})
	}

	changed := args
	result, err := a.Query.AffectedEntryFiles(changed, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing affected entry files: %v\n", err)
		os.Exit(1)
	}

	if affectedGroup != "" {
		m, err := manifest.Load(repoRoot)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading entry manifest: %v\n", err)
			os.Exit(1)
		}
		groupFiles, err := m.ResolveGroup(repoRoot, affectedGroup)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error resolving group %q: %v\n", affectedGroup, err)
			os.Exit(1)
		}
		inGroup := make(map[string]struct{}, len(groupFiles))
		for _, f := range groupFiles {
			inGroup[f] = struct{}{}
		}
		scoped := result.EntryFiles[:0]
		for _, ef := range result.EntryFiles {
			if _, ok := inGroup[ef]; ok {
				scoped = append(scoped, ef)
			}
		}
		result.EntryFiles = scoped
	}

	if runID != "" {
		if err := a.Store.FinishRun(runID, startedAt.Add(time.Since(start)), len(changed), result.EntryFiles, nil); err != nil {
			logger.Warn("Failed to record run finish", map[string]interface{}{"error": err.Error()})
		}
	}

	switch OutputFormat(affectedFormat) {
	case FormatList:
		for _, ef := range displayPaths(repoRoot, result.EntryFiles) {
			fmt.Println(ef)
		}
		return
	}

	resp := &affectedResponseCLI{
		Changed:           changed,
		Affected:          result.Affected,
		EntryFiles:        result.EntryFiles,
		DurationMs:        time.Since(start).Milliseconds(),
		displayEntryFiles: displayPaths(repoRoot, result.EntryFiles),
	}
	output, err := FormatResponse(resp, OutputFormat(affectedFormat))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(output)
}
