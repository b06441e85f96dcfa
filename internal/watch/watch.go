// Package watch runs scheduled backend connectivity checks and reports
// transitions between connected and offline.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/jainpranitx-spec/DevBrain/internal/logs"
)

// parser accepts standard 5-field expressions plus descriptors such as
// "@every 30s" and "@hourly".
var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Checker probes the backend. store.Store satisfies it.
type Checker interface {
	CheckConnection(ctx context.Context) bool
}

// Opts configures a Watcher.
type Opts struct {
	Schedule string
	Checker  Checker
	OnChange func(connected bool) // called on the first result and on every flip
	Logger   *slog.Logger
}

// Watcher owns the cron scheduler of one Start call.
type Watcher struct {
	opts Opts
	cron *cron.Cron

	mu    sync.Mutex
	known bool
	last  bool
}

// Validate reports whether expr is a schedule Start accepts.
func Validate(expr string) error {
	if _, err := parser.Parse(expr); err != nil {
		return fmt.Errorf("watch: parse schedule %q: %w", expr, err)
	}
	return nil
}

// Start schedules connectivity checks and returns immediately. The
// scheduler stops when ctx is cancelled; overlapping checks are skipped.
func Start(ctx context.Context, opts Opts) (*Watcher, error) {
	if opts.Checker == nil {
		return nil, errors.New("watch: checker is required")
	}
	opts.Logger = logs.OrDiscard(opts.Logger)

	w := &Watcher{
		opts: opts,
		cron: cron.New(
			cron.WithParser(parser),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
	}
	if _, err := w.cron.AddFunc(opts.Schedule, func() { w.Check(ctx) }); err != nil {
		return nil, fmt.Errorf("watch: parse schedule %q: %w", opts.Schedule, err)
	}
	w.cron.Start()
	opts.Logger.Debug("connection watch started", "schedule", opts.Schedule)

	go func() {
		<-ctx.Done()
		<-w.cron.Stop().Done()
		opts.Logger.Debug("connection watch stopped")
	}()
	return w, nil
}

// Check runs one probe now and reports whether the state changed.
func (w *Watcher) Check(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}
	connected := w.opts.Checker.CheckConnection(ctx)

	w.mu.Lock()
	changed := !w.known || connected != w.last
	w.known, w.last = true, connected
	w.mu.Unlock()

	if !changed {
		return false
	}
	w.opts.Logger.Info("backend connectivity changed", "connected", connected)
	if w.opts.OnChange != nil {
		w.opts.OnChange(connected)
	}
	return true
}

// Connected returns the last probe result; ok is false before the first.
func (w *Watcher) Connected() (connected, ok bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last, w.known
}
