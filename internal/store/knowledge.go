package store

import (
	"context"
	"fmt"

	"github.com/jainpranitx-spec/DevBrain/internal/models"
)

// UploadKnowledge attaches a document to the current project.
func (s *Store) UploadKnowledge(ctx context.Context, file models.KnowledgeFile, description string) (*models.Knowledge, error) {
	projectID, err := s.onlineProject()
	if err != nil {
		return nil, err
	}
	k, err := s.backend.UploadKnowledge(ctx, projectID, file, description)
	if err != nil {
		s.recordError("upload knowledge", err)
		return nil, fmt.Errorf("store: upload knowledge: %w", err)
	}
	s.logger.Info("knowledge uploaded", "project", projectID, "title", k.Title)
	return k, nil
}

// SearchKnowledge finds documents of the current project matching query.
func (s *Store) SearchKnowledge(ctx context.Context, query string) ([]models.Knowledge, error) {
	projectID, err := s.onlineProject()
	if err != nil {
		return nil, err
	}
	found, err := s.backend.SearchKnowledge(ctx, projectID, query)
	if err != nil {
		s.recordError("search knowledge", err)
		return nil, fmt.Errorf("store: search knowledge: %w", err)
	}
	return found, nil
}

func (s *Store) onlineProject() (string, error) {
	snap := s.current()
	if !snap.Connected || snap.ProjectID == "" {
		return "", ErrOffline
	}
	return snap.ProjectID, nil
}
