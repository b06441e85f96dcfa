package graph

import (
	"reflect"
	"testing"

	"github.com/jainpranitx-spec/DevBrain/internal/models"
)

func node(id, parent string, status models.Status) models.Node {
	n := models.Node{ID: models.RemoteID(id), Label: "n" + id, Status: status}
	if parent != "" {
		p := models.RemoteID(parent)
		n.ParentID = &p
	}
	return n
}

func chain() []models.Node {
	return []models.Node{
		node("A", "", models.StatusNotStarted),
		node("B", "A", models.StatusInProgress),
		node("C", "B", models.StatusCompleted),
		node("D", "C", models.StatusNotStarted),
	}
}

func TestDerive_OneEdgePerChild(t *testing.T) {
	nodes := []models.Node{
		node("1", "", models.StatusInProgress),
		node("2", "1", models.StatusInProgress),
		node("3", "2", models.StatusCompleted),
		node("9", "", models.StatusNotStarted),
		node("4", "2", models.StatusNotStarted),
	}

	edges := Derive(nodes)
	if len(edges) != 3 {
		t.Fatalf("len(edges) = %d, want 3", len(edges))
	}

	wantTargets := []string{"2", "3", "4"}
	for i, e := range edges {
		if e.Target.String() != wantTargets[i] {
			t.Errorf("edges[%d].Target = %q, want %q", i, e.Target, wantTargets[i])
		}
	}

	if edges[0].ID != "e-1-2" {
		t.Errorf("edges[0].ID = %q, want e-1-2", edges[0].ID)
	}
	if !edges[0].Animated || edges[0].Color != ColorInProgress {
		t.Errorf("in-progress edge: animated=%v color=%q", edges[0].Animated, edges[0].Color)
	}
	if edges[1].Animated || edges[1].Color != ColorCompleted {
		t.Errorf("completed edge: animated=%v color=%q", edges[1].Animated, edges[1].Color)
	}
	if edges[2].Color != ColorNotStarted {
		t.Errorf("not-started edge color = %q", edges[2].Color)
	}
}

func TestDerive_Idempotent(t *testing.T) {
	nodes := chain()
	first := Derive(nodes)
	second := Derive(nodes)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Derive not idempotent:\n%v\n%v", first, second)
	}
}

func TestDerive_Empty(t *testing.T) {
	if got := Derive(nil); len(got) != 0 {
		t.Errorf("Derive(nil) = %v, want empty", got)
	}
	roots := []models.Node{node("1", "", ""), node("2", "", "")}
	if got := Derive(roots); len(got) != 0 {
		t.Errorf("Derive(roots only) = %v, want empty", got)
	}
}

func TestDescendants_Chain(t *testing.T) {
	got := Descendants(chain(), models.RemoteID("A"))
	for _, id := range []string{"A", "B", "C", "D"} {
		if !got[models.RemoteID(id)] {
			t.Errorf("Descendants(A) missing %s", id)
		}
	}

	got = Descendants(chain(), models.RemoteID("C"))
	if len(got) != 2 || !got[models.RemoteID("C")] || !got[models.RemoteID("D")] {
		t.Errorf("Descendants(C) = %v, want {C, D}", got)
	}
}

func TestDescendants_ChildrenBeforeParents(t *testing.T) {
	// Grandchild listed first: a single filter pass would miss it.
	nodes := []models.Node{
		node("D", "C", ""),
		node("C", "B", ""),
		node("B", "A", ""),
		node("A", "", ""),
		node("X", "", ""),
	}
	got := Descendants(nodes, models.RemoteID("A"))
	if len(got) != 4 {
		t.Errorf("len = %d, want 4 (%v)", len(got), got)
	}
	if got[models.RemoteID("X")] {
		t.Error("unrelated root X marked for deletion")
	}
}

func TestWouldCycle(t *testing.T) {
	nodes := chain()
	if !WouldCycle(nodes, models.RemoteID("A"), models.RemoteID("D")) {
		t.Error("A under D should be a cycle")
	}
	if !WouldCycle(nodes, models.RemoteID("B"), models.RemoteID("B")) {
		t.Error("self-parent should be a cycle")
	}
	if WouldCycle(nodes, models.RemoteID("D"), models.RemoteID("A")) {
		t.Error("D under A is not a cycle")
	}
}

func TestRootsAndChildren(t *testing.T) {
	nodes := []models.Node{
		node("1", "", ""),
		node("2", "1", ""),
		node("3", "1", ""),
		node("4", "", ""),
	}
	if got := Roots(nodes); len(got) != 2 || got[1].ID.String() != "4" {
		t.Errorf("Roots = %v", got)
	}
	if got := Children(nodes, models.RemoteID("1")); len(got) != 2 {
		t.Errorf("Children(1) = %v, want 2 nodes", got)
	}
}
