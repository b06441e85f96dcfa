package assistant

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/jainpranitx-spec/DevBrain/internal/models"
)

// Bucket is the kind of canned answer picked for a message.
type Bucket int

const (
	BucketDefault Bucket = iota
	BucketBreakdown
	BucketContext
)

var (
	breakdownKeywords = []string{"break", "task", "sub"}
	contextKeywords   = []string{"context", "search", "what is"}
)

// Classify picks the reply bucket for a message. Breakdown keywords are
// checked before context keywords.
func Classify(message string) Bucket {
	lower := strings.ToLower(message)
	if containsAny(lower, breakdownKeywords) {
		return BucketBreakdown
	}
	if containsAny(lower, contextKeywords) {
		return BucketContext
	}
	return BucketDefault
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// Fallback answers from keyword heuristics. It never fails. Delay and
// Jitter simulate model latency so interfaces keep their typing indicator;
// set both to zero in tests.
type Fallback struct {
	Delay  time.Duration
	Jitter time.Duration
}

// NewFallback returns a responder with the given base latency and up to
// the same amount again of random jitter.
func NewFallback(delay time.Duration) *Fallback {
	return &Fallback{Delay: delay, Jitter: delay}
}

// Name implements Provider.
func (f *Fallback) Name() string { return models.SourceFallback }

// Respond implements Provider. The error is always nil; a cancelled
// context only cuts the simulated latency short.
func (f *Fallback) Respond(ctx context.Context, p Prompt) (Reply, error) {
	f.wait(ctx)
	return Reply{Text: Text(p.Message, p.NodeLabel), Source: models.SourceFallback}, nil
}

func (f *Fallback) wait(ctx context.Context) {
	d := f.Delay
	if f.Jitter > 0 {
		d += rand.N(f.Jitter)
	}
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// Text is the deterministic reply for a message about a node.
func Text(message, nodeLabel string) string {
	if nodeLabel == "" {
		nodeLabel = "Unknown"
	}
	switch Classify(message) {
	case BucketBreakdown:
		return fmt.Sprintf("**Breakdown for %s:**\n\n"+
			"1. **Scaffold**: set up the base structure.\n"+
			"2. **State logic**: define the data and stores %s needs.\n"+
			"3. **Interface**: build the views and interaction states.\n"+
			"4. **Tests**: cover the core logic.\n\n"+
			"Would you like me to generate these nodes?", nodeLabel, nodeLabel)
	case BucketContext:
		return fmt.Sprintf("**Context analysis for %s:**\n\n"+
			"The knowledge base is offline, so this answer is based on the node alone.\n\n"+
			"Check the project documents linked to %s once the backend is reachable "+
			"for related patterns and decisions.", nodeLabel, nodeLabel)
	default:
		return defaultReply(nodeLabel)
	}
}

func defaultReply(nodeLabel string) string {
	return fmt.Sprintf("I'm analyzing **%s**.\n\n"+
		"I can assist with:\n"+
		"- Breaking this down into tasks\n"+
		"- Finding relevant code snippets\n"+
		"- Generating documentation\n\n"+
		"Just let me know what you're thinking.", nodeLabel)
}
