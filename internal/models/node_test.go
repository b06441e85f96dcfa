package models

import (
	"encoding/json"
	"testing"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    Status
		wantErr bool
	}{
		{"not-started", StatusNotStarted, false},
		{"in-progress", StatusInProgress, false},
		{"completed", StatusCompleted, false},
		{"done", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseStatus(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseStatus(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseStatus(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNodeID_Kinds(t *testing.T) {
	local := LocalID("1700000000000-1")
	if !local.IsLocal() {
		t.Error("LocalID should be local")
	}
	if local.String() != "local-1700000000000-1" {
		t.Errorf("String() = %q, want local-1700000000000-1", local.String())
	}

	// A backend id that happens to look like a local one is still remote.
	remote := RemoteID("local-42")
	if remote.IsLocal() {
		t.Error("RemoteID should never be local, whatever its text")
	}
	if remote == LocalID("42") {
		t.Error("ids with the same text but different kinds must differ")
	}

	var zero NodeID
	if !zero.IsZero() {
		t.Error("zero NodeID should report IsZero")
	}
}

func TestNodeID_JSON(t *testing.T) {
	data, err := json.Marshal(LocalID("7"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"local-7"` {
		t.Errorf("marshal = %s, want \"local-7\"", data)
	}

	var n struct {
		ID       NodeID  `json:"id"`
		ParentID *NodeID `json:"parentId"`
	}
	if err := json.Unmarshal([]byte(`{"id": 12, "parentId": null}`), &n); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if n.ID.String() != "12" || n.ID.IsLocal() {
		t.Errorf("ID = %v (local=%v), want remote 12", n.ID, n.ID.IsLocal())
	}
	if n.ParentID != nil {
		t.Errorf("ParentID = %v, want nil", n.ParentID)
	}

	if err := json.Unmarshal([]byte(`{"id": true}`), &n); err == nil {
		t.Error("expected error decoding a bool id")
	}
}

func TestNodePatch_Apply(t *testing.T) {
	owner := "Shams"
	parent := RemoteID("1")
	base := Node{
		ID:       RemoteID("2"),
		Label:    "Login System",
		Status:   StatusNotStarted,
		Owner:    &owner,
		ParentID: &parent,
	}

	label := "Auth"
	status := StatusCompleted
	empty := ""
	got := NodePatch{Label: &label, Status: &status, Owner: &empty}.Apply(base)

	if got.Label != "Auth" || got.Status != StatusCompleted {
		t.Errorf("got label=%q status=%q", got.Label, got.Status)
	}
	if got.Owner != nil {
		t.Errorf("Owner = %q, want cleared", *got.Owner)
	}
	if base.Owner == nil || *base.Owner != "Shams" {
		t.Error("Apply must not mutate the input node")
	}

	root := NodePatch{MakeRoot: true, ParentID: &parent}.Apply(base)
	if !root.IsRoot() {
		t.Error("MakeRoot should detach the node")
	}

	if !(NodePatch{}).IsZero() {
		t.Error("empty patch should be zero")
	}
	if (NodePatch{Label: &label}).Reparents() {
		t.Error("label-only patch should not reparent")
	}
}

func TestNode_CloneIsIndependent(t *testing.T) {
	owner := "You"
	parent := RemoteID("1")
	n := Node{ID: RemoteID("2"), Owner: &owner, ParentID: &parent,
		ChatMessages: []ChatMessage{{ID: "m1"}}}

	c := n.Clone()
	*c.Owner = "Other"
	*c.ParentID = RemoteID("9")
	c.ChatMessages[0].ID = "changed"

	if *n.Owner != "You" || n.ParentID.String() != "1" || n.ChatMessages[0].ID != "m1" {
		t.Error("Clone shares memory with the original")
	}
}
