package models

import (
	"io"
	"time"
)

// Project is the top-level container of a node set.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Nodes       []Node    `json:"nodes"`
	NodeCount   int       `json:"nodeCount,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ProjectInput holds the fields sent when creating a project.
type ProjectInput struct {
	Name        string
	Description string
}

// Knowledge is an uploaded reference document attached to a project.
type Knowledge struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	FileType       string    `json:"fileType"`
	ContentPreview string    `json:"contentPreview"`
	CreatedAt      time.Time `json:"createdAt"`
}

// KnowledgeFile is a document to upload.
type KnowledgeFile struct {
	Name    string
	Content io.Reader
}
