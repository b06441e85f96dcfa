// Package assistant produces AI replies for node chats without the
// backend. Providers are tried in order; the last one never fails.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/jainpranitx-spec/DevBrain/internal/logs"
	"github.com/jainpranitx-spec/DevBrain/internal/models"
)

// Prompt is a user message with the node it is about.
type Prompt struct {
	Message   string
	NodeLabel string
}

// Reply is a generated answer and the provider that produced it.
type Reply struct {
	Text   string
	Source string
}

// Provider generates a reply. Implementations report failures as errors so
// a Chain can move on to the next provider.
type Provider interface {
	Name() string
	Respond(ctx context.Context, p Prompt) (Reply, error)
}

// Chain tries providers in order and returns the first success.
type Chain struct {
	providers []Provider
	logger    *slog.Logger
}

// NewChain builds a chain. The fallback is appended after providers so the
// chain always produces a reply.
func NewChain(logger *slog.Logger, fallback *Fallback, providers ...Provider) (*Chain, error) {
	if fallback == nil {
		return nil, fmt.Errorf("assistant: fallback provider is required")
	}
	all := append(append([]Provider(nil), providers...), fallback)
	return &Chain{providers: all, logger: logs.OrDiscard(logger)}, nil
}

// Providers returns the provider names in the order they are tried.
func (c *Chain) Providers() []string {
	names := make([]string, len(c.providers))
	for i, p := range c.providers {
		names[i] = p.Name()
	}
	return names
}

// Close releases providers that hold connections.
func (c *Chain) Close() error {
	var errs []error
	for _, p := range c.providers {
		if cl, ok := p.(io.Closer); ok {
			errs = append(errs, cl.Close())
		}
	}
	return errors.Join(errs...)
}

// Respond returns the first successful reply. Failures are logged and the
// next provider is tried; the trailing fallback guarantees a reply.
func (c *Chain) Respond(ctx context.Context, p Prompt) Reply {
	for _, prov := range c.providers {
		reply, err := prov.Respond(ctx, p)
		if err == nil {
			return reply
		}
		c.logger.Warn("assistant provider failed, trying next", "provider", prov.Name(), "error", err)
	}
	return Reply{Text: defaultReply(p.NodeLabel), Source: models.SourceFallback}
}
