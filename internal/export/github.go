// Package export turns the open nodes of a project into GitHub issues.
package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"

	"github.com/jainpranitx-spec/DevBrain/internal/logs"
	"github.com/jainpranitx-spec/DevBrain/internal/models"
	"github.com/jainpranitx-spec/DevBrain/internal/store"
)

// Label is attached to every exported issue.
const Label = "devbrain"

// IssueCreator is the part of the GitHub issues API the exporter uses.
// *github.IssuesService satisfies it.
type IssueCreator interface {
	Create(ctx context.Context, owner, repo string, req *github.IssueRequest) (*github.Issue, *github.Response, error)
}

// Opts configures Issues.
type Opts struct {
	Issues IssueCreator
	Owner  string
	Repo   string
	Logger *slog.Logger
}

// Result links an exported node to its issue.
type Result struct {
	NodeID models.NodeID
	Label  string
	Number int
	URL    string
}

// NewClient returns a GitHub client authenticated with token. A non-empty
// baseURL targets a GitHub Enterprise server.
func NewClient(ctx context.Context, token, baseURL string) (*github.Client, error) {
	if token == "" {
		return nil, errors.New("export: github token is required")
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	client := github.NewClient(oauth2.NewClient(ctx, ts))
	if baseURL == "" {
		return client, nil
	}
	client, err := client.WithEnterpriseURLs(baseURL, baseURL)
	if err != nil {
		return nil, fmt.Errorf("export: enterprise url %q: %w", baseURL, err)
	}
	return client, nil
}

// Issues creates one issue per node that is not completed, in snapshot
// order. It stops at the first failure and returns the issues created so
// far along with the error.
func Issues(ctx context.Context, opts Opts, snap store.Snapshot) ([]Result, error) {
	if opts.Issues == nil {
		return nil, errors.New("export: issues client is required")
	}
	if opts.Owner == "" || opts.Repo == "" {
		return nil, errors.New("export: owner and repo are required")
	}
	logger := logs.OrDiscard(opts.Logger)

	var out []Result
	for _, n := range Pending(snap) {
		req := issueRequest(snap, n)
		issue, _, err := opts.Issues.Create(ctx, opts.Owner, opts.Repo, req)
		if err != nil {
			return out, fmt.Errorf("export: create issue for %q: %w", n.Label, err)
		}
		r := Result{NodeID: n.ID, Label: n.Label, Number: issue.GetNumber(), URL: issue.GetHTMLURL()}
		logger.Info("issue created", "node", n.ID.String(), "number", r.Number)
		out = append(out, r)
	}
	return out, nil
}

// Pending returns the nodes Issues would export.
func Pending(snap store.Snapshot) []models.Node {
	var out []models.Node
	for _, n := range snap.Nodes {
		if n.Status != models.StatusCompleted {
			out = append(out, n)
		}
	}
	return out
}

func issueRequest(snap store.Snapshot, n models.Node) *github.IssueRequest {
	var b strings.Builder
	if n.Description != "" {
		b.WriteString(n.Description)
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "- Status: %s\n", n.Status)
	if n.Owner != nil {
		fmt.Fprintf(&b, "- Owner: %s\n", *n.Owner)
	}
	if n.ParentID != nil {
		if parent, ok := snap.Node(*n.ParentID); ok {
			fmt.Fprintf(&b, "- Parent: %s\n", parent.Label)
		}
	}
	if snap.ProjectName != "" {
		fmt.Fprintf(&b, "- Project: %s\n", snap.ProjectName)
	}

	labels := []string{Label, "status:" + string(n.Status)}
	return &github.IssueRequest{
		Title:  github.Ptr(n.Label),
		Body:   github.Ptr(b.String()),
		Labels: &labels,
	}
}
