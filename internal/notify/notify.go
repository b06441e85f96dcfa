// Package notify posts node changes from the store to chat platforms.
//
// The Dispatcher subscribes to store events, formats each one as a Notice
// and hands it to every configured Notifier from a background goroutine,
// so a slow platform never stalls a store mutation. Delivery failures are
// logged and dropped.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jainpranitx-spec/DevBrain/internal/graph"
	"github.com/jainpranitx-spec/DevBrain/internal/logs"
	"github.com/jainpranitx-spec/DevBrain/internal/models"
	"github.com/jainpranitx-spec/DevBrain/internal/store"
)

const (
	defaultQueueSize = 64
	defaultTimeout   = 10 * time.Second
	colorDeleted     = "#ff453a"
)

// Notice is a platform-neutral message.
type Notice struct {
	Title  string
	Body   string
	Color  string // hex sidebar color, e.g. "#30d158"
	Fields []Field
}

// Field is a key-value pair rendered under the notice.
type Field struct {
	Name  string
	Value string
	Short bool
}

// Notifier delivers notices to one platform.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, n Notice) error
}

// Subscriber is the part of store.Store the dispatcher needs.
type Subscriber interface {
	Subscribe(fn func(store.Event))
}

// Opts configures a Dispatcher.
type Opts struct {
	Notifiers []Notifier
	Logger    *slog.Logger
	QueueSize int           // pending notices; defaults to 64
	Timeout   time.Duration // per delivery; defaults to 10s
}

// Dispatcher queues formatted events and fans them out to notifiers.
type Dispatcher struct {
	notifiers []Notifier
	logger    *slog.Logger
	timeout   time.Duration
	queue     chan Notice

	mu     sync.Mutex
	closed bool
}

// New creates a Dispatcher. Call Run to start delivering.
func New(opts Opts) (*Dispatcher, error) {
	if len(opts.Notifiers) == 0 {
		return nil, errors.New("notify: at least one notifier is required")
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaultQueueSize
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	return &Dispatcher{
		notifiers: opts.Notifiers,
		logger:    logs.OrDiscard(opts.Logger),
		timeout:   opts.Timeout,
		queue:     make(chan Notice, opts.QueueSize),
	}, nil
}

// Attach subscribes the dispatcher to s.
func (d *Dispatcher) Attach(s Subscriber) {
	s.Subscribe(d.Handle)
}

// Handle formats ev and queues it without blocking. Events without a
// notice (plain edits) are ignored; a full queue drops the notice.
func (d *Dispatcher) Handle(ev store.Event) {
	n, ok := Format(ev)
	if !ok {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	select {
	case d.queue <- n:
	default:
		d.logger.Warn("notify: queue full, dropping notice", "title", n.Title)
	}
}

// Run delivers queued notices until ctx is cancelled or Close is called
// and the queue is drained.
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-d.queue:
			if !ok {
				return
			}
			d.deliver(ctx, n)
		}
	}
}

// Close stops accepting notices. Run returns once the queue is drained.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, n Notice) {
	for _, nt := range d.notifiers {
		sendCtx, cancel := context.WithTimeout(ctx, d.timeout)
		err := nt.Notify(sendCtx, n)
		cancel()
		if err != nil {
			d.logger.Warn("notify: delivery failed", "notifier", nt.Name(), "title", n.Title, "error", err)
			continue
		}
		d.logger.Debug("notify: delivered", "notifier", nt.Name(), "title", n.Title)
	}
}

// Format turns a store event into a notice. Only additions, status
// changes and deletions are reported.
func Format(ev store.Event) (Notice, bool) {
	n := ev.Node
	switch ev.Kind {
	case store.EventNodeAdded:
		return Notice{
			Title:  fmt.Sprintf("Node added: %s", n.Label),
			Body:   n.Description,
			Color:  graph.StatusColor(n.Status),
			Fields: nodeFields(n),
		}, true

	case store.EventStatusChanged:
		from := "unknown"
		if ev.Previous != nil {
			if ev.Previous.Status == n.Status {
				return Notice{}, false
			}
			from = statusLabel(ev.Previous.Status)
		}
		return Notice{
			Title:  fmt.Sprintf("%s: %s → %s", n.Label, from, statusLabel(n.Status)),
			Color:  graph.StatusColor(n.Status),
			Fields: nodeFields(n),
		}, true

	case store.EventNodeDeleted:
		body := ""
		if extra := len(ev.Removed) - 1; extra > 0 {
			body = fmt.Sprintf("%d sub-node(s) removed with it.", extra)
		}
		return Notice{
			Title: fmt.Sprintf("Node deleted: %s", n.Label),
			Body:  body,
			Color: colorDeleted,
		}, true
	}
	return Notice{}, false
}

func nodeFields(n models.Node) []Field {
	fields := []Field{{Name: "Status", Value: statusLabel(n.Status), Short: true}}
	if n.Owner != nil {
		fields = append(fields, Field{Name: "Owner", Value: *n.Owner, Short: true})
	}
	return fields
}

func statusLabel(s models.Status) string {
	switch s {
	case models.StatusCompleted:
		return "Completed"
	case models.StatusInProgress:
		return "In progress"
	default:
		return "Not started"
	}
}
