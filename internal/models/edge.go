package models

// Edge is a derived parent to child link. Edges are never stored on their
// own; they are recomputed from node parent links.
type Edge struct {
	ID       string `json:"id"`
	Source   NodeID `json:"source"`
	Target   NodeID `json:"target"`
	Animated bool   `json:"animated"`
	Color    string `json:"color"`
}
