package store

import (
	"context"

	"github.com/jainpranitx-spec/DevBrain/internal/graph"
	"github.com/jainpranitx-spec/DevBrain/internal/models"
)

// AddNode appends a node under a fresh local id and, when connected with a
// project loaded, creates it on the backend. On success the placeholder is
// swapped for the server node. It returns the node as last stored.
func (s *Store) AddNode(ctx context.Context, in models.NodeInput) models.Node {
	if !in.Status.Valid() {
		in.Status = models.StatusNotStarted
	}
	local := models.Node{
		ID:          s.newLocalID(),
		Label:       in.Label,
		Description: in.Description,
		Status:      in.Status,
		Owner:       in.Owner,
		ParentID:    in.ParentID,
		Position:    in.Position,
		CreatedAt:   s.now(),
	}
	local = local.Clone()

	snap := s.update(func(next *Snapshot) {
		next.setNodes(append(next.Nodes, local))
	})
	s.emit(Event{Kind: EventNodeAdded, Node: local})

	if !snap.Connected || snap.ProjectID == "" {
		return local
	}
	created, err := s.backend.CreateNode(ctx, snap.ProjectID, in)
	if err != nil {
		s.recordError("create node", err)
		return local
	}
	return s.reconcile(ctx, local, *created)
}

// reconcile replaces the placeholder with the server's node. References to
// the local id in parent links, chat history and selection follow the swap,
// and later chat replies addressed to the local id are redirected.
// A placeholder deleted in the meantime is not brought back.
//
// The backend never sees local parent ids, so parent links it could not
// store are kept locally and sent as follow-up patches once both ends of
// the link have server ids.
func (s *Store) reconcile(ctx context.Context, local, server models.Node) models.Node {
	server.ChatMessages = nil

	var relink []models.NodeID
	found := false
	s.update(func(next *Snapshot) {
		i := next.index(local.ID)
		if i < 0 {
			return
		}
		found = true
		if server.ParentID == nil && next.Nodes[i].ParentID != nil {
			// The current link may already have been rewritten by the
			// parent's own reconcile.
			parent := *next.Nodes[i].ParentID
			server.ParentID = &parent
			if !parent.IsLocal() {
				relink = append(relink, server.ID)
			}
		}
		nodes := next.Nodes
		nodes[i] = server
		for j := range nodes {
			if nodes[j].HasParent(local.ID) {
				id := server.ID
				nodes[j].ParentID = &id
				if !nodes[j].ID.IsLocal() {
					relink = append(relink, nodes[j].ID)
				}
			}
		}
		next.setNodes(nodes)
		if msgs, ok := next.ChatHistory[local.ID]; ok {
			next.ChatHistory[server.ID] = append(next.ChatHistory[server.ID], msgs...)
			delete(next.ChatHistory, local.ID)
		}
		if next.Selected != nil && *next.Selected == local.ID {
			id := server.ID
			next.Selected = &id
		}
		s.aliases[local.ID] = server.ID
	})
	if !found {
		return server.Clone()
	}
	s.logger.Debug("node reconciled", "local", local.ID, "remote", server.ID)

	for _, id := range relink {
		n, ok := s.current().Node(id)
		if !ok || n.ParentID == nil || n.ParentID.IsLocal() || !s.canSync(id) {
			continue
		}
		parent := *n.ParentID
		if _, err := s.backend.UpdateNode(ctx, id, models.NodePatch{ParentID: &parent}); err != nil {
			s.recordError("link node parent", err)
		}
	}
	return server.Clone()
}

// UpdateNode applies a partial update locally and sends it to the backend
// for nodes it knows. Backend failures are recorded, never returned.
func (s *Store) UpdateNode(ctx context.Context, id models.NodeID, patch models.NodePatch) error {
	if patch.Status != nil && !patch.Status.Valid() {
		return ErrInvalidStatus
	}
	if err := s.applyLocal(id, patch, EventNodeUpdated); err != nil {
		return err
	}
	if !s.canSync(id) {
		return nil
	}

	remotePatch := patch
	if !patch.MakeRoot && patch.ParentID != nil && patch.ParentID.IsLocal() {
		remotePatch.ParentID = nil
	}
	if remotePatch.IsZero() {
		return nil
	}
	if _, err := s.backend.UpdateNode(ctx, id, remotePatch); err != nil {
		s.recordError("update node", err)
	}
	return nil
}

// UpdateNodeStatus sets a node's status.
func (s *Store) UpdateNodeStatus(ctx context.Context, id models.NodeID, status models.Status) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	if err := s.applyLocal(id, models.NodePatch{Status: &status}, EventStatusChanged); err != nil {
		return err
	}
	if !s.canSync(id) {
		return nil
	}
	if _, err := s.backend.UpdateNodeStatus(ctx, id, status); err != nil {
		s.recordError("update node status", err)
	}
	return nil
}

// UpdateNodePosition moves a node. Position writes are frequent, so backend
// failures are only logged.
func (s *Store) UpdateNodePosition(ctx context.Context, id models.NodeID, pos models.Position) error {
	if err := s.applyLocal(id, models.NodePatch{Position: &pos}, EventNodeUpdated); err != nil {
		return err
	}
	if !s.canSync(id) {
		return nil
	}
	if _, err := s.backend.UpdateNodePosition(ctx, id, pos); err != nil {
		s.logger.Warn("update node position", "node", id, "error", err)
	}
	return nil
}

func (s *Store) applyLocal(id models.NodeID, patch models.NodePatch, kind EventKind) error {
	var prev, updated models.Node
	var err error
	s.update(func(next *Snapshot) {
		i := next.index(id)
		if i < 0 {
			err = ErrNotFound
			return
		}
		if !patch.MakeRoot && patch.ParentID != nil && graph.WouldCycle(next.Nodes, id, *patch.ParentID) {
			err = ErrCycle
			return
		}
		prev = next.Nodes[i]
		updated = patch.Apply(prev)
		next.Nodes[i] = updated
		next.setNodes(next.Nodes)
	})
	if err != nil {
		return err
	}
	s.emit(Event{Kind: kind, Node: updated.Clone(), Previous: &prev})
	return nil
}

// DeleteNode removes a node and all its descendants locally, then deletes
// the node on the backend, which cascades on its side.
func (s *Store) DeleteNode(ctx context.Context, id models.NodeID) error {
	var target models.Node
	var removed []models.NodeID
	s.update(func(next *Snapshot) {
		i := next.index(id)
		if i < 0 {
			return
		}
		target = next.Nodes[i]
		marked := graph.Descendants(next.Nodes, id)
		kept := make([]models.Node, 0, len(next.Nodes)-len(marked))
		for _, n := range next.Nodes {
			if marked[n.ID] {
				removed = append(removed, n.ID)
				delete(next.ChatHistory, n.ID)
				continue
			}
			kept = append(kept, n)
		}
		next.setNodes(kept)
		if next.Selected != nil && marked[*next.Selected] {
			next.Selected = nil
		}
	})
	if len(removed) == 0 {
		return ErrNotFound
	}
	s.emit(Event{Kind: EventNodeDeleted, Node: target, Removed: removed})

	if !s.canSync(id) {
		return nil
	}
	if err := s.backend.DeleteNode(ctx, id); err != nil {
		s.recordError("delete node", err)
	}
	return nil
}
