// Package ai wraps the Gemini vision API as the photo classifier behind
// shelf scanning. Its output is untrusted: callers get back only minimally
// validated item suggestions.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/shelfmap/shelfmapgo/internal/suggest"
	"google.golang.org/api/option"
)

// GeminiClient interacts with Google Gemini API using the official SDK
type GeminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiClient creates a new Gemini API client
func NewGeminiClient(ctx context.Context, apiKey, modelName string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is empty")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}

	return &GeminiClient{
		client: client,
		model:  client.GenerativeModel(modelName),
	}, nil
}

// Close closes the client connection
func (c *GeminiClient) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

// AnalyzeImage sends a shelf photo to Gemini and parses the response into
// item suggestions. Every suggestion comes back pre-included with a sane
// quantity; the review UI unchecks what the user rejects.
func (c *GeminiClient) AnalyzeImage(ctx context.Context, imageData []byte, mimeType string) ([]suggest.Suggestion, error) {
	format := strings.TrimPrefix(mimeType, "image/")
	if format == "" || format == mimeType {
		format = "jpeg"
	}

	resp, err := c.model.GenerateContent(ctx,
		genai.ImageData(format, imageData),
		genai.Text(analyzePrompt),
	)
	if err != nil {
		return nil, fmt.Errorf("gemini generation error: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response from gemini")
	}

	var fullText string
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			fullText += string(txt)
		}
	}

	return parseSuggestions(fullText)
}

// parseSuggestions extracts the JSON array from the model output. Gemini
// often wraps JSON in markdown fences despite instructions not to.
func parseSuggestions(text string) ([]suggest.Suggestion, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var suggestions []suggest.Suggestion
	if err := json.Unmarshal([]byte(cleaned), &suggestions); err != nil {
		return nil, fmt.Errorf("gemini returned unparseable suggestions: %w", err)
	}

	for i := range suggestions {
		if suggestions[i].Quantity < 1 {
			suggestions[i].Quantity = 1
		}
		suggestions[i].Included = true
	}
	return suggestions, nil
}
