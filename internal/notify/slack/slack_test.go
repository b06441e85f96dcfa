package slack

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	slackapi "github.com/slack-go/slack"

	"github.com/jainpranitx-spec/DevBrain/internal/notify"
)

// --- Mock Slack client ---

type mockSlackClient struct {
	mu       sync.Mutex
	channels []string
	options  [][]slackapi.MsgOption
	errs     []error // returned in order, then nil
}

func (m *mockSlackClient) PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.errs) > 0 {
		err := m.errs[0]
		m.errs = m.errs[1:]
		if err != nil {
			return "", "", err
		}
	}
	m.channels = append(m.channels, channelID)
	m.options = append(m.options, options)
	return channelID, "1234567890.123456", nil
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		opts    Opts
		wantErr bool
	}{
		{"no token", Opts{ChannelID: "C1"}, true},
		{"no channel", Opts{BotToken: "xoxb-1"}, true},
		{"token and channel", Opts{BotToken: "xoxb-1", ChannelID: "C1"}, false},
		{"mock client", Opts{Client: &mockSlackClient{}, ChannelID: "C1"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNotify_Posts(t *testing.T) {
	mock := &mockSlackClient{}
	n, err := New(Opts{Client: mock, ChannelID: "C42"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if n.Name() != "slack" {
		t.Errorf("Name() = %q, want slack", n.Name())
	}

	if err := n.Notify(context.Background(), notify.Notice{Title: "Node added: Auth"}); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if len(mock.channels) != 1 || mock.channels[0] != "C42" {
		t.Errorf("channels = %v, want [C42]", mock.channels)
	}
	if len(mock.options[0]) != 2 {
		t.Errorf("options = %d, want text + attachments", len(mock.options[0]))
	}
}

func TestNotify_Error(t *testing.T) {
	mock := &mockSlackClient{errs: []error{errors.New("channel_not_found")}}
	n, _ := New(Opts{Client: mock, ChannelID: "C42"})

	err := n.Notify(context.Background(), notify.Notice{Title: "x"})
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Error(); got != "slack: post to C42: channel_not_found" {
		t.Errorf("error = %q", got)
	}
}

func TestNotify_RetriesRateLimit(t *testing.T) {
	mock := &mockSlackClient{errs: []error{&slackapi.RateLimitedError{RetryAfter: time.Millisecond}}}
	n, _ := New(Opts{Client: mock, ChannelID: "C42"})

	if err := n.Notify(context.Background(), notify.Notice{Title: "x"}); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if len(mock.channels) != 1 {
		t.Errorf("posts = %d, want 1 after retry", len(mock.channels))
	}
}

func TestNotify_RateLimitCancelled(t *testing.T) {
	mock := &mockSlackClient{errs: []error{&slackapi.RateLimitedError{RetryAfter: time.Hour}}}
	n, _ := New(Opts{Client: mock, ChannelID: "C42"})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := n.Notify(ctx, notify.Notice{Title: "x"}); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want deadline exceeded", err)
	}
}

func TestToAttachment(t *testing.T) {
	att := toAttachment(notify.Notice{
		Title: "Auth: Not started → Completed",
		Body:  "done",
		Color: "#30d158",
		Fields: []notify.Field{
			{Name: "Status", Value: "Completed", Short: true},
			{Name: "Owner", Value: "Shams", Short: true},
		},
	})
	if att.Title != "Auth: Not started → Completed" || att.Fallback != att.Title {
		t.Errorf("title = %q, fallback = %q", att.Title, att.Fallback)
	}
	if att.Text != "done" || att.Color != "#30d158" {
		t.Errorf("text = %q, color = %q", att.Text, att.Color)
	}
	if len(att.Fields) != 2 || att.Fields[1].Title != "Owner" || !att.Fields[1].Short {
		t.Errorf("fields = %+v", att.Fields)
	}
}
