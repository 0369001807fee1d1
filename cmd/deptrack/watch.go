package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"deptrack/internal/depgraph"
	"deptrack/internal/watchloop"
)

var watchFormat string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll the change cache and print affected entry files on each change",
	Long: `Runs the polling watch loop, printing the affected entry files each time
a debounced batch of file changes settles. Stops on SIGINT/SIGTERM.`,
	Run: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchFormat, "format", "human", "Output format (json, human)")
	registerCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) {
	logger := newLogger(watchFormat)
	repoRoot := mustGetRepoRoot()
	a := mustGetApp(repoRoot, logger, nil, false)

	cfg := watchloop.Config{
		PollInterval: time.Duration(a.Cfg.Watch.PollIntervalMs) * time.Millisecond,
		DebounceMs:   a.Cfg.Watch.DebounceMs,
	}

	loop := watchloop.New(cfg, a.Query, a.Graph, logger, func(result depgraph.AffectedResult, changed []string, err error) {
		runID, _, runErr := a.Store.StartRun()
		if runErr != nil {
			logger.Warn("Failed to record run start", map[string]interface{}{"error": runErr.Error()})
		}
		finished := time.Now()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error computing affected entry files: %v\n", err)
			if runID != "" {
				_ = a.Store.FinishRun(runID, finished, len(changed), nil, err)
			}
			return
		}
		if runID != "" {
			if finishErr := a.Store.FinishRun(runID, finished, len(changed), result.EntryFiles, nil); finishErr != nil {
				logger.Warn("Failed to record run finish", map[string]interface{}{"error": finishErr.Error()})
			}
		}
		printWatchTick(repoRoot, changed, result)
	})

	loop.Start()
	defer loop.Stop()

	fmt.Println("Watching for changes. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
}

func printWatchTick(repoRoot string, changed []string, result depgraph.AffectedResult) {
	if len(result.EntryFiles) == 0 {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n[%s] %d changed file(s) → %d affected entry file(s):\n",
		time.Now().Format(time.RFC3339), len(changed), len(result.EntryFiles))
	for _, ef := range displayPaths(repoRoot, result.EntryFiles) {
		b.WriteString("  • " + ef + "\n")
	}
	fmt.Print(b.String())
}
