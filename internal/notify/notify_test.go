package notify

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jainpranitx-spec/DevBrain/internal/models"
	"github.com/jainpranitx-spec/DevBrain/internal/store"
)

type recordingNotifier struct {
	name string
	err  error

	mu   sync.Mutex
	got  []Notice
	done chan struct{}
}

func newRecorder(name string, err error) *recordingNotifier {
	return &recordingNotifier{name: name, err: err, done: make(chan struct{}, 16)}
}

func (r *recordingNotifier) Name() string { return r.name }

func (r *recordingNotifier) Notify(ctx context.Context, n Notice) error {
	r.mu.Lock()
	r.got = append(r.got, n)
	r.mu.Unlock()
	r.done <- struct{}{}
	return r.err
}

func (r *recordingNotifier) wait(t *testing.T, count int) []Notice {
	t.Helper()
	for range count {
		select {
		case <-r.done:
		case <-time.After(2 * time.Second):
			t.Fatalf("%s: timed out waiting for %d notices", r.name, count)
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.got...)
}

type fakeSubscriber struct{ fns []func(store.Event) }

func (f *fakeSubscriber) Subscribe(fn func(store.Event)) { f.fns = append(f.fns, fn) }

func (f *fakeSubscriber) publish(ev store.Event) {
	for _, fn := range f.fns {
		fn(ev)
	}
}

func node(label string, status models.Status) models.Node {
	return models.Node{ID: models.RemoteID(label), Label: label, Status: status}
}

func TestFormat(t *testing.T) {
	owner := "Shams"
	added := node("Auth", models.StatusInProgress)
	added.Owner = &owner
	added.Description = "login flow"
	prev := node("Auth", models.StatusNotStarted)
	done := node("Auth", models.StatusCompleted)

	tests := []struct {
		name      string
		ev        store.Event
		wantOK    bool
		wantTitle string
		wantColor string
	}{
		{"added", store.Event{Kind: store.EventNodeAdded, Node: added}, true, "Node added: Auth", "#ff9f0a"},
		{"status", store.Event{Kind: store.EventStatusChanged, Node: done, Previous: &prev}, true, "Auth: Not started → Completed", "#30d158"},
		{"status unchanged", store.Event{Kind: store.EventStatusChanged, Node: done, Previous: &done}, false, "", ""},
		{"deleted", store.Event{Kind: store.EventNodeDeleted, Node: done, Removed: []models.NodeID{done.ID}}, true, "Node deleted: Auth", colorDeleted},
		{"plain update", store.Event{Kind: store.EventNodeUpdated, Node: done, Previous: &prev}, false, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Format(tt.ev)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if got.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", got.Title, tt.wantTitle)
			}
			if got.Color != tt.wantColor {
				t.Errorf("Color = %q, want %q", got.Color, tt.wantColor)
			}
		})
	}
}

func TestFormat_Fields(t *testing.T) {
	owner := "You"
	n := node("Graph", models.StatusNotStarted)
	n.Owner = &owner
	got, _ := Format(store.Event{Kind: store.EventNodeAdded, Node: n})
	if len(got.Fields) != 2 || got.Fields[0].Value != "Not started" || got.Fields[1].Value != "You" {
		t.Errorf("Fields = %+v", got.Fields)
	}

	del, _ := Format(store.Event{Kind: store.EventNodeDeleted, Node: n, Removed: []models.NodeID{n.ID, models.RemoteID("a"), models.RemoteID("b")}})
	if !strings.Contains(del.Body, "2 sub-node(s)") {
		t.Errorf("Body = %q, want cascade count", del.Body)
	}
}

func TestNew_RequiresNotifier(t *testing.T) {
	if _, err := New(Opts{}); err == nil {
		t.Error("New without notifiers should fail")
	}
}

func TestDispatcher_FansOut(t *testing.T) {
	slack := newRecorder("slack", nil)
	broken := newRecorder("discord", errors.New("boom"))
	d, err := New(Opts{Notifiers: []Notifier{broken, slack}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	sub := &fakeSubscriber{}
	d.Attach(sub)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	sub.publish(store.Event{Kind: store.EventNodeAdded, Node: node("A", models.StatusNotStarted)})
	sub.publish(store.Event{Kind: store.EventNodeUpdated, Node: node("A", models.StatusNotStarted)})
	sub.publish(store.Event{Kind: store.EventNodeDeleted, Node: node("A", models.StatusNotStarted)})

	got := slack.wait(t, 2)
	if len(got) != 2 || got[0].Title != "Node added: A" || got[1].Title != "Node deleted: A" {
		t.Errorf("slack got %+v", got)
	}
	if n := len(broken.wait(t, 2)); n != 2 {
		t.Errorf("failing notifier calls = %d, want 2", n)
	}
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	rec := newRecorder("slack", nil)
	d, _ := New(Opts{Notifiers: []Notifier{rec}, QueueSize: 1})

	ev := store.Event{Kind: store.EventNodeAdded, Node: node("A", models.StatusNotStarted)}
	d.Handle(ev)
	d.Handle(ev)
	d.Close()
	d.Handle(ev)

	d.Run(context.Background())
	if got := rec.wait(t, 1); len(got) != 1 {
		t.Errorf("delivered %d notices, want 1", len(got))
	}
}
