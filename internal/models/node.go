// Package models defines the project, node, edge and chat types shared by
// the DevBrain client packages.
package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Status is the progress state of a node.
type Status string

const (
	StatusNotStarted Status = "not-started"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{StatusNotStarted, StatusInProgress, StatusCompleted}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// ParseStatus converts user or wire text into a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("models: invalid status %q (want not-started, in-progress or completed)", s)
	}
	return st, nil
}

// IDKind tells which namespace minted a NodeID.
type IDKind uint8

const (
	// KindRemote ids were assigned by the backend.
	KindRemote IDKind = iota
	// KindLocal ids were minted by the client while the node had no
	// backend counterpart.
	KindLocal
)

func (k IDKind) String() string {
	if k == KindLocal {
		return "local"
	}
	return "remote"
}

// NodeID identifies a node. The kind travels with the value, so callers
// never inspect the string to decide whether the backend knows the node.
type NodeID struct {
	kind  IDKind
	value string
}

// RemoteID wraps a backend-assigned identifier.
func RemoteID(v string) NodeID {
	return NodeID{kind: KindRemote, value: v}
}

// LocalID builds a client-side identifier from a unique token.
func LocalID(token string) NodeID {
	return NodeID{kind: KindLocal, value: "local-" + token}
}

// Kind returns the namespace of the id.
func (id NodeID) Kind() IDKind { return id.kind }

// IsLocal reports whether the id has no backend counterpart.
func (id NodeID) IsLocal() bool { return id.kind == KindLocal }

// IsZero reports whether the id is unset.
func (id NodeID) IsZero() bool { return id.value == "" }

func (id NodeID) String() string { return id.value }

// MarshalJSON renders the id as a plain string.
func (id NodeID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.value)
}

// UnmarshalJSON accepts a string or number. Decoded ids are always
// remote: only the client mints local ids.
func (id *NodeID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var n json.Number
		if numErr := json.Unmarshal(data, &n); numErr != nil {
			return fmt.Errorf("models: decode node id: %w", err)
		}
		s = n.String()
	}
	*id = RemoteID(s)
	return nil
}

// MarshalText lets NodeID key JSON objects such as chat histories.
func (id NodeID) MarshalText() ([]byte, error) {
	return []byte(id.value), nil
}

// UnmarshalText decodes a map key. Like UnmarshalJSON it yields a remote id.
func (id *NodeID) UnmarshalText(text []byte) error {
	*id = RemoteID(string(text))
	return nil
}

// Position is the 2D layout coordinate of a node. It is never validated.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is a planning unit in the project tree.
type Node struct {
	ID          NodeID    `json:"id"`
	Label       string    `json:"label"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	Owner       *string   `json:"owner"`
	ParentID    *NodeID   `json:"parentId"`
	Position    Position  `json:"position"`
	CreatedAt   time.Time `json:"createdAt"`

	// ChatMessages is only populated on nodes decoded from the backend.
	// The store moves these into its chat history on load.
	ChatMessages []ChatMessage `json:"chatMessages,omitempty"`
}

// IsRoot reports whether the node has no parent.
func (n Node) IsRoot() bool { return n.ParentID == nil }

// HasParent reports whether the node's parent is id.
func (n Node) HasParent(id NodeID) bool {
	return n.ParentID != nil && *n.ParentID == id
}

// Clone returns a copy that shares no pointers or slices with n.
func (n Node) Clone() Node {
	c := n
	if n.Owner != nil {
		owner := *n.Owner
		c.Owner = &owner
	}
	if n.ParentID != nil {
		parent := *n.ParentID
		c.ParentID = &parent
	}
	if n.ChatMessages != nil {
		c.ChatMessages = append([]ChatMessage(nil), n.ChatMessages...)
	}
	return c
}

// NodeInput holds the caller-supplied fields of a new node.
type NodeInput struct {
	Label       string
	Description string
	Status      Status // defaults to not-started
	Owner       *string
	ParentID    *NodeID
	Position    Position
}

// NodePatch is a partial update. Nil fields are left unchanged.
type NodePatch struct {
	Label       *string
	Description *string
	Status      *Status
	Owner       *string // pointer to "" clears the owner
	ParentID    *NodeID
	MakeRoot    bool // detach from the current parent; wins over ParentID
	Position    *Position
}

// Reparents reports whether applying the patch changes parent links.
func (p NodePatch) Reparents() bool {
	return p.MakeRoot || p.ParentID != nil
}

// IsZero reports whether the patch changes nothing.
func (p NodePatch) IsZero() bool {
	return p.Label == nil && p.Description == nil && p.Status == nil &&
		p.Owner == nil && p.ParentID == nil && !p.MakeRoot && p.Position == nil
}

// Apply returns a copy of n with the patch fields set.
func (p NodePatch) Apply(n Node) Node {
	out := n.Clone()
	if p.Label != nil {
		out.Label = *p.Label
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Status != nil {
		out.Status = *p.Status
	}
	if p.Owner != nil {
		if *p.Owner == "" {
			out.Owner = nil
		} else {
			owner := *p.Owner
			out.Owner = &owner
		}
	}
	switch {
	case p.MakeRoot:
		out.ParentID = nil
	case p.ParentID != nil:
		parent := *p.ParentID
		out.ParentID = &parent
	}
	if p.Position != nil {
		out.Position = *p.Position
	}
	return out
}
