// Package graph derives the edge set of a project from node parent links.
package graph

import (
	"fmt"

	"github.com/jainpranitx-spec/DevBrain/internal/models"
)

// Status colors used for edge strokes and graph particles.
const (
	ColorCompleted  = "#30d158"
	ColorInProgress = "#ff9f0a"
	ColorNotStarted = "#8e8e93"
)

// StatusColor returns the render color of a status. Unknown statuses get
// the not-started color.
func StatusColor(s models.Status) string {
	switch s {
	case models.StatusCompleted:
		return ColorCompleted
	case models.StatusInProgress:
		return ColorInProgress
	default:
		return ColorNotStarted
	}
}

// EdgeID is the identifier of the edge from parent to child.
func EdgeID(parent, child models.NodeID) string {
	return fmt.Sprintf("e-%s-%s", parent, child)
}

// Derive returns one parent to child edge for every node that has a parent,
// in input order. It assumes the nodes form a forest and does not detect
// cycles or dangling parents.
func Derive(nodes []models.Node) []models.Edge {
	edges := make([]models.Edge, 0, len(nodes))
	for _, n := range nodes {
		if n.ParentID == nil {
			continue
		}
		edges = append(edges, models.Edge{
			ID:       EdgeID(*n.ParentID, n.ID),
			Source:   *n.ParentID,
			Target:   n.ID,
			Animated: n.Status == models.StatusInProgress,
			Color:    StatusColor(n.Status),
		})
	}
	return edges
}

// Descendants returns id and every node reachable from it through parent
// links. The set grows by repeated scans until a pass adds nothing, so
// grandchildren listed before their parents are still found.
func Descendants(nodes []models.Node, id models.NodeID) map[models.NodeID]bool {
	marked := map[models.NodeID]bool{id: true}
	for {
		added := false
		for _, n := range nodes {
			if marked[n.ID] || n.ParentID == nil {
				continue
			}
			if marked[*n.ParentID] {
				marked[n.ID] = true
				added = true
			}
		}
		if !added {
			return marked
		}
	}
}

// WouldCycle reports whether making parent the parent of child would make
// child its own ancestor.
func WouldCycle(nodes []models.Node, child, parent models.NodeID) bool {
	return Descendants(nodes, child)[parent]
}

// Roots returns the nodes without a parent, in input order.
func Roots(nodes []models.Node) []models.Node {
	var roots []models.Node
	for _, n := range nodes {
		if n.IsRoot() {
			roots = append(roots, n)
		}
	}
	return roots
}

// Children returns the direct children of id, in input order.
func Children(nodes []models.Node, id models.NodeID) []models.Node {
	var out []models.Node
	for _, n := range nodes {
		if n.HasParent(id) {
			out = append(out, n)
		}
	}
	return out
}
