package store

import (
	"context"

	"github.com/jainpranitx-spec/DevBrain/internal/models"
	"github.com/jainpranitx-spec/DevBrain/internal/remote"
)

// InitializeProject creates a project on the backend and makes it current.
// On failure the store goes offline and keeps its nodes.
func (s *Store) InitializeProject(ctx context.Context, in models.ProjectInput) (*models.Project, error) {
	return s.replace(ctx, "create project", func() (*models.Project, error) {
		return s.backend.CreateProject(ctx, in)
	})
}

// LoadProject fetches a project and makes it current. On failure the store
// goes offline and keeps its nodes.
func (s *Store) LoadProject(ctx context.Context, id string) (*models.Project, error) {
	return s.replace(ctx, "load project", func() (*models.Project, error) {
		return s.backend.FetchProject(ctx, id)
	})
}

func (s *Store) replace(ctx context.Context, op string, fetch func() (*models.Project, error)) (*models.Project, error) {
	s.update(func(next *Snapshot) {
		next.Loading = true
		next.Err = ""
	})

	p, err := fetch()
	if err != nil {
		s.logger.Warn("backend unavailable, keeping local project", "op", op, "error", err)
		msg := err.Error()
		s.update(func(next *Snapshot) {
			next.Loading = false
			next.Connected = false
			next.Err = msg
		})
		return nil, err
	}

	s.update(func(next *Snapshot) {
		next.loadProject(*p)
		next.Loading = false
		next.Connected = true
	})
	s.logger.Info("project loaded", "project", p.ID, "name", p.Name, "nodes", len(p.Nodes))

	if s.session != nil {
		if err := s.session.SaveProjectID(ctx, p.ID); err != nil {
			s.logger.Warn("save project id", "project", p.ID, "error", err)
		}
	}
	return p, nil
}

// Open resumes the persisted project, or creates one from in when none is
// stored or the stored one no longer exists on the backend. Other load
// failures are returned without creating a project so an unreachable
// backend never orphans the stored one.
func (s *Store) Open(ctx context.Context, in models.ProjectInput) (*models.Project, error) {
	var id string
	if s.session != nil {
		stored, err := s.session.ProjectID(ctx)
		if err != nil {
			s.logger.Warn("read stored project id", "error", err)
		}
		id = stored
	}
	if id != "" {
		p, err := s.LoadProject(ctx, id)
		if err == nil {
			return p, nil
		}
		if !remote.IsNotFound(err) {
			return nil, err
		}
		s.logger.Info("stored project is gone, creating a new one", "project", id)
	}
	return s.InitializeProject(ctx, in)
}

// ClearProject forgets the current project. Connectivity is unchanged.
func (s *Store) ClearProject(ctx context.Context) {
	s.update(func(next *Snapshot) {
		next.ProjectID = ""
		next.ProjectName = ""
		next.ChatHistory = map[models.NodeID][]models.ChatMessage{}
		next.Selected = nil
		next.setNodes(nil)
	})
	if s.session != nil {
		if err := s.session.ClearProjectID(ctx); err != nil {
			s.logger.Warn("clear stored project id", "error", err)
		}
	}
}
