package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jainpranitx-spec/DevBrain/internal/assistant"
	"github.com/jainpranitx-spec/DevBrain/internal/config"
	"github.com/jainpranitx-spec/DevBrain/internal/demo"
	"github.com/jainpranitx-spec/DevBrain/internal/logs"
	"github.com/jainpranitx-spec/DevBrain/internal/models"
	"github.com/jainpranitx-spec/DevBrain/internal/remote"
	"github.com/jainpranitx-spec/DevBrain/internal/session"
	"github.com/jainpranitx-spec/DevBrain/internal/store"
)

// app bundles everything a command needs: config, logger, backend client,
// session persistence and the store built on top of them.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	client  *remote.Client
	chain   *assistant.Chain
	session *session.Store
	store   *store.Store
}

// loadConfig reads the config file and builds the logger. Log records go
// to the command's stderr.
func loadConfig(cmd *cobra.Command, configPath string) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := logs.New(logs.Opts{
		Writer:  cmd.ErrOrStderr(),
		Level:   cfg.Log.Level,
		Journal: cfg.Log.Journal,
	})
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func newRemote(cfg *config.Config, logger *slog.Logger) (*remote.Client, error) {
	client, err := remote.New(remote.Opts{
		BaseURL:      cfg.Backend.URL,
		ProbeTimeout: cfg.Backend.ProbeTimeout(),
		Logger:       logger,
	})
	if err != nil {
		return nil, fmt.Errorf("backend client: %w", err)
	}
	return client, nil
}

// newChain builds the local provider chain: Gemini when a key is
// configured, then the offline fallback.
func newChain(cfg *config.Config, logger *slog.Logger) (*assistant.Chain, error) {
	var providers []assistant.Provider
	if cfg.Assistant.GeminiAPIKey != "" {
		g, err := assistant.NewGemini(assistant.GeminiOpts{
			APIKey:   cfg.Assistant.GeminiAPIKey,
			Model:    cfg.Assistant.GeminiModel,
			Endpoint: cfg.Assistant.GeminiEndpoint,
		})
		if err != nil {
			return nil, err
		}
		providers = append(providers, g)
	}
	return assistant.NewChain(logger, assistant.NewFallback(cfg.Assistant.FallbackDelay()), providers...)
}

// newApp wires the store. The demo project is loaded as the initial state
// so commands still work when the backend is unreachable.
func newApp(cmd *cobra.Command, configPath string) (*app, error) {
	cfg, logger, err := loadConfig(cmd, configPath)
	if err != nil {
		return nil, err
	}
	client, err := newRemote(cfg, logger)
	if err != nil {
		return nil, err
	}
	chain, err := newChain(cfg, logger)
	if err != nil {
		return nil, err
	}
	sess, err := session.Open(cfg.Session)
	if err != nil {
		chain.Close()
		return nil, err
	}

	initial := demo.Project()
	st, err := store.New(store.Opts{
		Backend:      client,
		Prober:       client,
		Responder:    chain,
		Session:      sess,
		Logger:       logger,
		Initial:      &initial,
		UseKnowledge: cfg.Backend.KnowledgeEnabled(),
	})
	if err != nil {
		chain.Close()
		sess.Close()
		return nil, err
	}
	return &app{cfg: cfg, logger: logger, client: client, chain: chain, session: sess, store: st}, nil
}

func (a *app) Close() error {
	return errors.Join(a.chain.Close(), a.session.Close())
}

// open resumes or creates the backend project. When the backend cannot be
// reached it prints a notice and leaves the demo data in place; the error
// is only returned for failures of a reachable backend.
func (a *app) open(ctx context.Context, out io.Writer) error {
	if !a.store.CheckConnection(ctx) {
		fmt.Fprintf(out, "Backend %s unreachable; working on demo data (changes are not saved).\n", a.cfg.Backend.URL)
		return nil
	}
	_, err := a.store.Open(ctx, models.ProjectInput{
		Name:        a.cfg.Project.Name,
		Description: a.cfg.Project.Description,
	})
	if err != nil {
		return fmt.Errorf("open project: %w", err)
	}
	return nil
}

// withStore runs fn against an opened store and reports any backend error
// the operation recorded.
func withStore(cmd *cobra.Command, configPath string, fn func(ctx context.Context, a *app) error) error {
	a, err := newApp(cmd, configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := a.open(ctx, cmd.ErrOrStderr()); err != nil {
		return err
	}
	if err := fn(ctx, a); err != nil {
		return err
	}
	if msg := a.store.Snapshot().Err; msg != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: backend sync failed: %s (local change kept)\n", msg)
	}
	return nil
}

// resolveNode maps user input to a node id of the open project.
func resolveNode(a *app, text string) (models.NodeID, error) {
	id, ok := a.store.Resolve(text)
	if !ok {
		return models.NodeID{}, fmt.Errorf("node %q not found", text)
	}
	return id, nil
}
