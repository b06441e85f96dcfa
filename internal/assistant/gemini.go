package assistant

import (
	"context"
	"fmt"
	"strings"
	"sync"

	generativelanguage "cloud.google.com/go/ai/generativelanguage/apiv1beta"
	"cloud.google.com/go/ai/generativelanguage/apiv1beta/generativelanguagepb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/option"

	"github.com/jainpranitx-spec/DevBrain/internal/models"
)

// ContentGenerator is the part of the Generative Language client Gemini
// uses. *generativelanguage.GenerativeClient satisfies it.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, req *generativelanguagepb.GenerateContentRequest, opts ...gax.CallOption) (*generativelanguagepb.GenerateContentResponse, error)
}

// Gemini answers prompts with the Generative Language API.
type Gemini struct {
	apiKey   string
	model    string
	endpoint string

	mu     sync.Mutex
	client ContentGenerator
	closer func() error
}

// GeminiOpts holds parameters for creating a Gemini provider.
type GeminiOpts struct {
	APIKey   string
	Model    string           // defaults to gemini-pro
	Endpoint string           // host:port, defaults to the SDK's endpoint
	Client   ContentGenerator // overrides the SDK client, mainly for tests
}

// NewGemini creates a Gemini provider. An API key is required. The SDK
// client is dialed on first use so offline commands never open a
// connection.
func NewGemini(opts GeminiOpts) (*Gemini, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("assistant: gemini api key is required")
	}
	if opts.Model == "" {
		opts.Model = "gemini-pro"
	}
	model := opts.Model
	if !strings.HasPrefix(model, "models/") {
		model = "models/" + model
	}
	return &Gemini{
		apiKey:   opts.APIKey,
		model:    model,
		endpoint: opts.Endpoint,
		client:   opts.Client,
	}, nil
}

// Name implements Provider.
func (g *Gemini) Name() string { return models.SourceGemini }

// Close releases the SDK client if one was dialed.
func (g *Gemini) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closer == nil {
		return nil
	}
	err := g.closer()
	g.client, g.closer = nil, nil
	return err
}

func (g *Gemini) generator(ctx context.Context) (ContentGenerator, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.client != nil {
		return g.client, nil
	}
	clientOptions := []option.ClientOption{option.WithAPIKey(g.apiKey)}
	if g.endpoint != "" {
		clientOptions = append(clientOptions, option.WithEndpoint(g.endpoint))
	}
	client, err := generativelanguage.NewGenerativeClient(ctx, clientOptions...)
	if err != nil {
		return nil, fmt.Errorf("assistant: gemini client: %w", err)
	}
	g.client, g.closer = client, client.Close
	return client, nil
}

// BuildPrompt renders the instruction sent to the model.
func BuildPrompt(p Prompt) string {
	return fmt.Sprintf("You are an intelligent assistant for a project management mind-map tool called \"DevBrain\".\n"+
		"The user is asking about a node named %q.\n\n"+
		"User query: %q\n\n"+
		"Provide a concise, helpful Markdown response. If they ask to break it down, provide a task list.",
		p.NodeLabel, p.Message)
}

// Respond implements Provider.
func (g *Gemini) Respond(ctx context.Context, p Prompt) (Reply, error) {
	client, err := g.generator(ctx)
	if err != nil {
		return Reply{}, err
	}

	resp, err := client.GenerateContent(ctx, &generativelanguagepb.GenerateContentRequest{
		Model: g.model,
		Contents: []*generativelanguagepb.Content{{
			Role: "user",
			Parts: []*generativelanguagepb.Part{{
				Data: &generativelanguagepb.Part_Text{Text: BuildPrompt(p)},
			}},
		}},
	})
	if err != nil {
		return Reply{}, fmt.Errorf("assistant: gemini call: %w", err)
	}
	if reason := resp.GetPromptFeedback().GetBlockReason(); reason > 0 {
		return Reply{}, fmt.Errorf("assistant: gemini blocked the prompt: %s", reason)
	}

	var text strings.Builder
	for _, c := range resp.GetCandidates() {
		for _, part := range c.GetContent().GetParts() {
			text.WriteString(part.GetText())
		}
		if text.Len() > 0 {
			break
		}
	}
	if text.Len() == 0 {
		return Reply{}, fmt.Errorf("assistant: gemini returned no text")
	}
	return Reply{Text: text.String(), Source: models.SourceGemini}, nil
}
