// Package watchloop polls a dependency graph's tracked files for changes and,
// after a debounced quiet period, re-runs the affected-entry-files query and
// hands the result to a caller-supplied callback.
package watchloop

import (
	"context"
	"sync"
	"time"

	"deptrack/internal/depgraph"
	"deptrack/internal/logging"
)

// Config controls polling cadence and debounce behavior.
type Config struct {
	PollInterval time.Duration
	DebounceMs   int
}

// DefaultConfig returns sane polling defaults.
func DefaultConfig() Config {
	return Config{
		PollInterval: 2 * time.Second,
		DebounceMs:   300,
	}
}

// Callback receives the affected-entry-files result computed after a
// debounced batch of changes settles.
type Callback func(result depgraph.AffectedResult, changed []string, err error)

// Loop polls a Query's graph for tracked files that differ from their last
// known snapshot and drives Callback once changes settle.
type Loop struct {
	config   Config
	query    *depgraph.Query
	graph    *depgraph.Graph
	logger   *logging.Logger
	callback Callback

	debouncer *BatchDebouncer

	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.Mutex
	wg     sync.WaitGroup
	stopCh chan struct{}
}

// New creates a Loop bound to query (used to compute affected entry files)
// and graph (walked each tick to discover which tracked files changed).
func New(config Config, query *depgraph.Query, graph *depgraph.Graph, logger *logging.Logger, callback Callback) *Loop {
	ctx, cancel := context.WithCancel(context.Background())
	l := &Loop{
		config:   config,
		query:    query,
		graph:    graph,
		logger:   logger,
		callback: callback,
		ctx:      ctx,
		cancel:   cancel,
		stopCh:   make(chan struct{}),
	}
	l.debouncer = NewBatchDebouncer(time.Duration(config.DebounceMs)*time.Millisecond, l.onBatch)
	return l
}

// Start begins polling in a background goroutine.
func (l *Loop) Start() {
	l.logger.Info("Starting watch loop", map[string]interface{}{
		"pollInterval": l.config.PollInterval.String(),
		"debounceMs":   l.config.DebounceMs,
	})

	l.wg.Add(1)
	go l.run()
}

// Stop halts polling and waits for the background goroutine to exit. Any
// batch still pending in the debouncer is then flushed, so a final callback
// still fires for changes observed just before Stop was called.
func (l *Loop) Stop() {
	l.logger.Info("Stopping watch loop", nil)
	l.cancel()
	close(l.stopCh)
	l.wg.Wait()
	l.debouncer.Flush()
	l.logger.Info("Watch loop stopped", nil)
}

// Using polling instead of fsnotify for simplicity and cross-platform
// compatibility.
func (l *Loop) run() {
	defer l.wg.Done()

	pollInterval := l.config.PollInterval
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.poll()
		case <-l.stopCh:
			return
		case <-l.ctx.Done():
			return
		}
	}
}

// poll checks every tracked node for a change and queues one Event per
// changed file into the batch debouncer.
func (l *Loop) poll() {
	changed := l.query.ChangedAmongTracked()
	if len(changed) == 0 {
		return
	}

	now := time.Now()
	for _, path := range changed {
		l.debouncer.Add(Event{Path: path, Timestamp: now})
	}
}

// onBatch runs once a debounced batch of change events settles. It collects
// the distinct changed paths, re-runs AffectedEntryFiles, and invokes the
// callback with the result.
func (l *Loop) onBatch(events []Event) {
	seen := make(map[string]struct{}, len(events))
	changed := make([]string, 0, len(events))
	for _, e := range events {
		if _, ok := seen[e.Path]; ok {
			continue
		}
		seen[e.Path] = struct{}{}
		changed = append(changed, e.Path)
	}

	l.logger.Debug("Changes detected", map[string]interface{}{
		"changedCount": len(changed),
	})

	result, err := l.query.AffectedEntryFiles(changed, nil)
	if l.callback != nil {
		l.callback(result, changed, err)
	}
}
