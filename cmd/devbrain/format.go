package main

import (
	"fmt"
	"strings"

	"github.com/jainpranitx-spec/DevBrain/internal/models"
	"github.com/jainpranitx-spec/DevBrain/internal/store"
)

var statusMarks = map[models.Status]string{
	models.StatusCompleted:  "[x]",
	models.StatusInProgress: "[~]",
	models.StatusNotStarted: "[ ]",
}

// formatTree renders the project as an indented tree in node order.
// Nodes whose parent is missing are printed as roots.
func formatTree(snap store.Snapshot) string {
	present := make(map[models.NodeID]bool, len(snap.Nodes))
	children := map[models.NodeID][]models.Node{}
	for _, n := range snap.Nodes {
		present[n.ID] = true
	}
	var roots []models.Node
	for _, n := range snap.Nodes {
		if n.ParentID == nil || !present[*n.ParentID] {
			roots = append(roots, n)
			continue
		}
		children[*n.ParentID] = append(children[*n.ParentID], n)
	}

	var b strings.Builder
	seen := map[models.NodeID]bool{}
	var walk func(n models.Node, depth int)
	walk = func(n models.Node, depth int) {
		if seen[n.ID] {
			return
		}
		seen[n.ID] = true
		fmt.Fprintf(&b, "%s%s %s", strings.Repeat("  ", depth), statusMarks[n.Status], n.Label)
		if n.Owner != nil {
			fmt.Fprintf(&b, " @%s", *n.Owner)
		}
		fmt.Fprintf(&b, "  (%s)\n", n.ID)
		for _, c := range children[n.ID] {
			walk(c, depth+1)
		}
	}
	for _, r := range roots {
		walk(r, 0)
	}
	return b.String()
}

// formatHeader is the one-line project summary printed above the tree.
func formatHeader(snap store.Snapshot) string {
	name := snap.ProjectName
	if name == "" {
		name = "(no project)"
	}
	mode := "offline"
	if snap.Connected {
		mode = "connected"
	}
	done := 0
	for _, n := range snap.Nodes {
		if n.Status == models.StatusCompleted {
			done++
		}
	}
	id := snap.ProjectID
	if id == "" {
		id = "local"
	}
	return fmt.Sprintf("%s [%s] %s: %d nodes, %d completed\n", name, id, mode, len(snap.Nodes), done)
}

func formatMessage(m models.ChatMessage) string {
	who := "You"
	if m.Role == models.RoleAI {
		who = "AI"
		if m.Source != "" {
			who += " (" + m.Source + ")"
		}
	}
	return fmt.Sprintf("%s: %s\n", who, m.Message)
}
