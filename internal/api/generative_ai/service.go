package generativeAI

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// AIClient wraps the Gemini client used to enrich daily content with a
// short devotional reflection.
type AIClient struct {
	client *genai.Client
	model  string
}

func NewAIClient(ctx context.Context, apiKey, model string) (*AIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is not set")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &AIClient{
		client: client,
		model:  model,
	}, nil
}

func (ai *AIClient) GenerateContent(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	result, err := ai.client.Models.GenerateContent(ctx, ai.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	return strings.TrimSpace(result.Text()), nil
}

// GenerateReflection produces a one-paragraph devotional reflection in
// Portuguese over the day's verse.
func (ai *AIClient) GenerateReflection(ctx context.Context, referencia, texto string) (string, error) {
	prompt := fmt.Sprintf(
		"Escreva uma reflexão devocional curta (um parágrafo, em português) sobre o versículo %s: %q. "+
			"Seja acolhedor e prático, sem citar outros versículos.",
		referencia, texto)
	return ai.GenerateContent(ctx, prompt, &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.7),
	})
}
