package services

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// VertexClient invokes the hosted generative-3D model. The parametric core is
// the fallback when this path is unavailable
type VertexClient struct {
	client *genai.Client
	model  string
}

func NewVertexClient(ctx context.Context, apiKey, model string) (*VertexClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("generative model API key is required")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &VertexClient{client: client, model: model}, nil
}

// GenerateModel asks the hosted model for a 3D asset matching the prompt and
// returns the asset URI it reports
func (vc *VertexClient) GenerateModel(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(
			"Generate a 3D aircraft model asset for the following description and "+
				"respond with only the output asset URI: "+prompt, genai.RoleUser),
	}
	result, err := vc.client.Models.GenerateContent(ctx, vc.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("hosted model generation failed: %w", err)
	}
	uri := strings.TrimSpace(result.Text())
	if uri == "" {
		return "", fmt.Errorf("hosted model returned no asset URI")
	}
	return uri, nil
}
