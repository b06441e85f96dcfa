// Package demo provides the sample project shown before a backend project
// is loaded.
package demo

import (
	"time"

	"github.com/jainpranitx-spec/DevBrain/internal/models"
)

// Name is the demo project's display name.
const Name = "Hackathon App"

type seed struct {
	id, parent  string
	label, desc string
	status      models.Status
	owner       string
	x, y        float64
	minute      int
}

var seeds = []seed{
	{"1", "", "Hackathon App", "Main project root", models.StatusInProgress, "", 400, 50, 0},
	{"2", "1", "Login System", "User authentication module", models.StatusInProgress, "Shams", 200, 200, 10},
	{"3", "2", "Firebase Auth", "Set up Firebase SDK and configuration", models.StatusCompleted, "Shams", 50, 350, 15},
	{"4", "2", "Auth UI", "Login/signup forms with validation", models.StatusInProgress, "Shams", 200, 350, 20},
	{"5", "2", "Error Handling", "Toast notifications for auth errors", models.StatusNotStarted, "", 350, 350, 25},
	{"6", "1", "Mind Map Dashboard", "Interactive visualization interface", models.StatusInProgress, "You", 600, 200, 30},
	{"7", "6", "ReactFlow Setup", "Tree view implementation", models.StatusCompleted, "You", 500, 350, 35},
	{"8", "6", "Graph View", "Force-directed network visualization", models.StatusInProgress, "You", 650, 350, 40},
	{"9", "6", "AI Chat Integration", "Contextual chatbot for each node", models.StatusNotStarted, "", 800, 350, 45},
}

// ID returns the node id of demo seed n ("1" to "9"). Demo nodes carry
// local ids so edits to them never reach a backend.
func ID(n string) models.NodeID {
	return models.LocalID("demo-" + n)
}

// Project returns a fresh copy of the demo project.
func Project() models.Project {
	base := time.Date(2026, 1, 3, 1, 0, 0, 0, time.UTC)
	nodes := make([]models.Node, 0, len(seeds))
	for _, s := range seeds {
		n := models.Node{
			ID:          ID(s.id),
			Label:       s.label,
			Description: s.desc,
			Status:      s.status,
			Position:    models.Position{X: s.x, Y: s.y},
			CreatedAt:   base.Add(time.Duration(s.minute) * time.Minute),
		}
		if s.owner != "" {
			owner := s.owner
			n.Owner = &owner
		}
		if s.parent != "" {
			parent := ID(s.parent)
			n.ParentID = &parent
		}
		nodes = append(nodes, n)
	}
	return models.Project{Name: Name, Description: "Demo data shown until a backend project loads", Nodes: nodes, CreatedAt: base}
}
