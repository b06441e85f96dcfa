package main

import (
	"strings"
	"testing"
)

func TestShell_Offline(t *testing.T) {
	cfg := writeConfig(t, offlineURL)
	script := strings.Join([]string{
		"help",
		"select local-demo-5",
		"add Retry Banner",
		"status in-progress",
		"chat what next?",
		"history",
		"deselect",
		"status local-demo-9 done",
		"delete",
		"bogus",
		"",
		"delete local-demo-6",
		"show",
		"quit",
		"show",
	}, "\n")

	out, _, err := runCmd(t, script, "shell", "-c", cfg)
	if err != nil {
		t.Fatalf("shell: %v", err)
	}

	wants := []string{
		"Hackathon App [local] offline: 9 nodes, 2 completed",
		"  select <node>",
		"Selected local-demo-5 (Error Handling)",
		"Added node local-",
		"Node local-demo-5 is now in-progress",
		"AI (fallback): ",
		"You: what next?\nAI (fallback): ",
		"Selection cleared.",
		`invalid status "done"`,
		"Error: no node given and none selected",
		`Error: unknown command "bogus"`,
		"Deleted node local-demo-6 (4 node(s) removed)",
		"offline: 6 nodes, 1 completed",
		"    [ ] Retry Banner  (local-",
	}
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("shell output missing %q:\n%s", want, out)
		}
	}
	if n := strings.Count(out, "offline: "); n != 2 {
		t.Errorf("header printed %d times, want 2 (commands after quit must not run)", n)
	}
}

func TestShell_Backend(t *testing.T) {
	cfg := writeConfig(t, startBackend(t))
	script := "check\nadd Backlog\nshow\nsearch anything\n"

	out, _, err := runCmd(t, script, "shell", "--no-notify", "-c", cfg)
	if err != nil {
		t.Fatalf("shell: %v", err)
	}
	for _, want := range []string{
		"connected: 0 nodes",
		"Backend reachable",
		"Added node ",
		"connected: 1 nodes, 0 completed",
		"No matching documents.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("shell output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Added node local-") {
		t.Errorf("connected add kept a local id:\n%s", out)
	}
}

func TestCompleteCommand(t *testing.T) {
	tests := []struct {
		line    string
		key     rune
		want    string
		wantPos int
		wantOK  bool
	}{
		{"sel", '\t', "select ", 7, true},
		{"his", '\t', "history ", 8, true},
		{"s", '\t', "", 0, false},
		{"zzz", '\t', "", 0, false},
		{"sel", 'x', "", 0, false},
		{"chat hel", '\t', "", 0, false},
	}
	for _, tt := range tests {
		got, pos, ok := completeCommand(tt.line, len(tt.line), tt.key)
		if got != tt.want || pos != tt.wantPos || ok != tt.wantOK {
			t.Errorf("completeCommand(%q, %q) = (%q, %d, %v), want (%q, %d, %v)",
				tt.line, tt.key, got, pos, ok, tt.want, tt.wantPos, tt.wantOK)
		}
	}
}
