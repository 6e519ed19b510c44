package ai

import (
	"context"
	"fmt"
	"iter"

	"google.golang.org/genai"
)

type geminiClient struct {
	client *genai.Client
}

// NewGeminiClient creates a TextGenerator backed by the Gemini API.
func NewGeminiClient(ctx context.Context, apiKey string) (TextGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &geminiClient{client: client}, nil
}

func (c *geminiClient) Stream(ctx context.Context, req Request) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		cfg := &genai.GenerateContentConfig{
			Temperature:     genai.Ptr(float32(req.Temperature)),
			TopP:            genai.Ptr(float32(req.TopP)),
			MaxOutputTokens: int32(req.MaxTokens),
		}

		for resp, err := range c.client.Models.GenerateContentStream(ctx, req.Model, genai.Text(req.Prompt), cfg) {
			if err != nil {
				yield("", fmt.Errorf("gemini stream failed: %w", err))
				return
			}
			text := resp.Text()
			if text == "" {
				continue
			}
			if !yield(text, nil) {
				return
			}
		}
	}
}
