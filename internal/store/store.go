// Package store owns the client state of a DevBrain project.
//
// Every mutation is applied locally first and published as a new
// snapshot. When the store is connected and the entity has a backend id,
// the change is then sent to the backend. Failures never undo the local
// change; they are logged and kept in Snapshot.Err.
//
// Snapshots are replaced wholesale under a mutex and remote calls run
// outside it, so operations never block each other. Overlapping writes to
// the same node are last-writer-wins; callers that need stronger ordering
// must serialize their own writes per node.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jainpranitx-spec/DevBrain/internal/assistant"
	"github.com/jainpranitx-spec/DevBrain/internal/logs"
	"github.com/jainpranitx-spec/DevBrain/internal/models"
)

var (
	ErrNotFound      = errors.New("store: node not found")
	ErrCycle         = errors.New("store: node cannot become its own ancestor")
	ErrInvalidStatus = errors.New("store: invalid status")
	ErrOffline       = errors.New("store: backend not connected or no project loaded")
)

// Backend is the subset of the remote client the store calls.
type Backend interface {
	CreateProject(ctx context.Context, in models.ProjectInput) (*models.Project, error)
	FetchProject(ctx context.Context, id string) (*models.Project, error)
	CreateNode(ctx context.Context, projectID string, in models.NodeInput) (*models.Node, error)
	UpdateNode(ctx context.Context, id models.NodeID, patch models.NodePatch) (*models.Node, error)
	UpdateNodeStatus(ctx context.Context, id models.NodeID, status models.Status) (*models.Node, error)
	UpdateNodePosition(ctx context.Context, id models.NodeID, pos models.Position) (*models.Node, error)
	DeleteNode(ctx context.Context, id models.NodeID) error
	Chat(ctx context.Context, nodeID models.NodeID, message string, useKnowledge bool) (*models.ChatReply, error)
	UploadKnowledge(ctx context.Context, projectID string, file models.KnowledgeFile, description string) (*models.Knowledge, error)
	SearchKnowledge(ctx context.Context, projectID, query string) ([]models.Knowledge, error)
}

// Prober reports whether the backend is reachable.
type Prober interface {
	Check(ctx context.Context) bool
}

// Responder produces a local assistant reply. It must not fail.
type Responder interface {
	Respond(ctx context.Context, p assistant.Prompt) assistant.Reply
}

// Session persists the current project id between runs.
type Session interface {
	ProjectID(ctx context.Context) (string, error)
	SaveProjectID(ctx context.Context, id string) error
	ClearProjectID(ctx context.Context) error
}

// Opts holds parameters for creating a Store.
type Opts struct {
	Backend   Backend   // required
	Responder Responder // required
	Prober    Prober    // nil means CheckConnection always reports offline
	Session   Session   // nil disables project id persistence
	Logger    *slog.Logger
	Now       func() time.Time

	// Initial is shown until a project is loaded from the backend.
	Initial *models.Project

	// UseKnowledge is forwarded to the backend chat endpoint by callers
	// that do not choose per message.
	UseKnowledge bool
}

// Store is the single owner of project state.
type Store struct {
	backend      Backend
	responder    Responder
	prober       Prober
	session      Session
	logger       *slog.Logger
	now          func() time.Time
	useKnowledge bool

	seq atomic.Uint64

	mu        sync.Mutex
	snap      *Snapshot
	listeners []func(Event)
	aliases   map[models.NodeID]models.NodeID // reconciled local id -> server id
}

// New creates a Store. The initial snapshot is disconnected and holds
// opts.Initial when given.
func New(opts Opts) (*Store, error) {
	if opts.Backend == nil {
		return nil, fmt.Errorf("store: backend is required")
	}
	if opts.Responder == nil {
		return nil, fmt.Errorf("store: responder is required")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	snap := &Snapshot{ChatHistory: map[models.NodeID][]models.ChatMessage{}}
	if opts.Initial != nil {
		snap.loadProject(*opts.Initial)
		snap.ProjectID = ""
	}
	return &Store{
		backend:      opts.Backend,
		responder:    opts.Responder,
		prober:       opts.Prober,
		session:      opts.Session,
		logger:       logs.OrDiscard(opts.Logger),
		now:          now,
		useKnowledge: opts.UseKnowledge,
		snap:         snap,
		aliases:      map[models.NodeID]models.NodeID{},
	}, nil
}

// UseKnowledge returns the configured default for backend chat requests.
func (s *Store) UseKnowledge() bool { return s.useKnowledge }

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	return *s.current().clone()
}

// current returns the published snapshot. Callers must not modify it.
func (s *Store) current() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// update publishes a modified copy of the current snapshot.
func (s *Store) update(fn func(next *Snapshot)) *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.snap.clone()
	fn(next)
	s.snap = next
	return next
}

// Resolve finds the node whose id renders as text.
func (s *Store) Resolve(text string) (models.NodeID, bool) {
	for _, n := range s.current().Nodes {
		if n.ID.String() == text {
			return n.ID, true
		}
	}
	return models.NodeID{}, false
}

func (s *Store) newLocalID() models.NodeID {
	return models.LocalID(strconv.FormatInt(s.now().UnixMilli(), 10) + "-" + strconv.FormatUint(s.seq.Add(1), 10))
}

// canSync reports whether a write for id should reach the backend.
func (s *Store) canSync(id models.NodeID) bool {
	return !id.IsLocal() && s.current().Connected
}

// recordError keeps a failed remote call's message for display.
func (s *Store) recordError(op string, err error) {
	s.logger.Warn("backend call failed, keeping local state", "op", op, "error", err)
	msg := err.Error()
	s.update(func(next *Snapshot) { next.Err = msg })
}

// ClearError drops the last recorded error.
func (s *Store) ClearError() {
	s.update(func(next *Snapshot) { next.Err = "" })
}

// SelectNode marks id as the focused node. The id is not validated.
func (s *Store) SelectNode(id models.NodeID) {
	s.update(func(next *Snapshot) { next.Selected = &id })
}

// DeselectNode clears the focused node.
func (s *Store) DeselectNode() {
	s.update(func(next *Snapshot) { next.Selected = nil })
}

// CheckConnection probes the backend and records the result.
func (s *Store) CheckConnection(ctx context.Context) bool {
	ok := false
	if s.prober != nil {
		ok = s.prober.Check(ctx)
	}
	s.update(func(next *Snapshot) { next.Connected = ok })
	return ok
}
