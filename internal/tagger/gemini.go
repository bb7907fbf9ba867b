package tagger

import (
	"context"
	"os"
	"sync"

	"tagdesk/internal/errors"

	"google.golang.org/genai"
)

// Gemini asks a Gemini model for a caption or a tag list
type Gemini struct {
	model   string
	apiKey  string
	mode    string
	maxTags int

	once      sync.Once
	client    *genai.Client
	clientErr error
}

// NewGemini reads the API key from the environment variable apiKeyEnv.
// The client itself is created on first use.
func NewGemini(model, apiKeyEnv, mode string, maxTags int) (*Gemini, error) {
	key := os.Getenv(apiKeyEnv)
	if key == "" {
		return nil, errors.NewModelError("api key not set in $"+apiKeyEnv, "gemini", errors.ModelUnavailable, nil)
	}
	return &Gemini{model: model, apiKey: key, mode: mode, maxTags: maxTags}, nil
}

// Name implements Tagger
func (g *Gemini) Name() string { return "gemini" }

// Close implements Tagger
func (g *Gemini) Close() error { return nil }

func (g *Gemini) connect(ctx context.Context) (*genai.Client, error) {
	g.once.Do(func() {
		g.client, g.clientErr = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  g.apiKey,
			Backend: genai.BackendGeminiAPI,
		})
	})
	if g.clientErr != nil {
		return nil, errors.NewModelError("failed to create client", g.Name(), errors.ModelUnavailable, g.clientErr)
	}
	return g.client, nil
}

// Tag implements Tagger
func (g *Gemini) Tag(ctx context.Context, imagePath string, progress func(string)) ([]string, error) {
	progress("Preparing image...")
	data, err := jpegForUpload(imagePath)
	if err != nil {
		return nil, err
	}

	client, err := g.connect(ctx)
	if err != nil {
		return nil, err
	}

	progress("Asking " + g.model + "...")
	parts := []*genai.Part{
		genai.NewPartFromBytes(data, "image/jpeg"),
		genai.NewPartFromText(buildPrompt(g.mode, g.maxTags)),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return nil, errors.NewModelError("generate content failed", g.Name(), errors.ModelFailed, err)
	}

	return parseReply(g.mode, resp.Text(), g.maxTags), nil
}
