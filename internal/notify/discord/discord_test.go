package discord

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/jainpranitx-spec/DevBrain/internal/notify"
)

// --- Mock Discord session ---

type mockSession struct {
	sent     []*discordgo.MessageEmbed
	channels []string
	errs     []error
}

func (m *mockSession) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	if len(m.errs) > 0 {
		err := m.errs[0]
		m.errs = m.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	m.channels = append(m.channels, channelID)
	m.sent = append(m.sent, embed)
	return &discordgo.Message{ID: "m1", ChannelID: channelID}, nil
}

func rateLimited() error {
	return &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusTooManyRequests}}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(Opts{ChannelID: "1"}); err == nil {
		t.Error("New without token should fail")
	}
	if _, err := New(Opts{Session: &mockSession{}}); err == nil {
		t.Error("New without channel should fail")
	}
	if _, err := New(Opts{BotToken: "token", ChannelID: "1"}); err != nil {
		t.Errorf("New with token: %v", err)
	}
}

func TestNotify_SendsEmbed(t *testing.T) {
	mock := &mockSession{}
	n, err := New(Opts{Session: mock, ChannelID: "chan-1"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	notice := notify.Notice{
		Title:  "Node added: Auth",
		Body:   "login flow",
		Color:  "#ff9f0a",
		Fields: []notify.Field{{Name: "Owner", Value: "You", Short: true}},
	}
	if err := n.Notify(context.Background(), notice); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if len(mock.sent) != 1 || mock.channels[0] != "chan-1" {
		t.Fatalf("sent = %d to %v", len(mock.sent), mock.channels)
	}
	e := mock.sent[0]
	if e.Title != "Node added: Auth" || e.Description != "login flow" {
		t.Errorf("embed = %+v", e)
	}
	if e.Color != 0xff9f0a {
		t.Errorf("color = %#x, want 0xff9f0a", e.Color)
	}
	if len(e.Fields) != 1 || !e.Fields[0].Inline || e.Fields[0].Value != "You" {
		t.Errorf("fields = %+v", e.Fields)
	}
}

func TestNotify_RetriesRateLimit(t *testing.T) {
	mock := &mockSession{errs: []error{rateLimited(), rateLimited()}}
	n, _ := New(Opts{Session: mock, ChannelID: "c"})
	n.baseBackoff = time.Millisecond

	if err := n.Notify(context.Background(), notify.Notice{Title: "x"}); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if len(mock.sent) != 1 {
		t.Errorf("sent = %d, want 1", len(mock.sent))
	}
}

func TestNotify_GivesUp(t *testing.T) {
	mock := &mockSession{errs: []error{rateLimited(), rateLimited(), rateLimited(), rateLimited()}}
	n, _ := New(Opts{Session: mock, ChannelID: "c"})
	n.baseBackoff = time.Millisecond

	if err := n.Notify(context.Background(), notify.Notice{Title: "x"}); err == nil {
		t.Fatal("expected error after retries are exhausted")
	}

	plain := &mockSession{errs: []error{errors.New("missing access")}}
	n, _ = New(Opts{Session: plain, ChannelID: "c"})
	err := n.Notify(context.Background(), notify.Notice{Title: "x"})
	if err == nil || err.Error() != "discord: send to c: missing access" {
		t.Errorf("error = %v", err)
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"#30d158", 0x30d158},
		{"8E8E93", 0x8e8e93},
		{"", 0},
		{"#zzz", 0},
	}
	for _, tt := range tests {
		if got := parseHexColor(tt.in); got != tt.want {
			t.Errorf("parseHexColor(%q) = %#x, want %#x", tt.in, got, tt.want)
		}
	}
}
