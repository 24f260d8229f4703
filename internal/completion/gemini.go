package completion

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Gemini implements the Completer interface using Google Gemini
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGemini creates a new Gemini Completer instance
func NewGemini(apiKey string, modelName string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	// Low temperature keeps OCR and field extraction deterministic
	model.SetTemperature(0.1)
	model.SetTopK(32)
	model.SetTopP(1)
	model.SetMaxOutputTokens(4096)

	return &Gemini{
		client: client,
		model:  model,
	}, nil
}

// Complete sends a prompt, optionally with an inline image, and returns the
// generated text
func (g *Gemini) Complete(ctx context.Context, prompt string, image *InlineData) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	parts := []genai.Part{genai.Text(prompt)}
	if image != nil {
		// genai.ImageData expects just the format suffix (e.g. "png"), not
		// the full MIME type (e.g. "image/png")
		format := strings.TrimPrefix(image.MIMEType, "image/")
		parts = append(parts, genai.ImageData(format, image.Data))
	}

	resp, err := g.model.GenerateContent(ctx, parts...)
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			return "", &APIError{StatusCode: apiErr.Code, Message: apiErr.Message}
		}
		return "", &TransportError{Err: err}
	}

	// A reply without the expected text parts means no content was
	// extracted, not a failure
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", nil
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}

	return text.String(), nil
}

// Close closes the Gemini client
func (g *Gemini) Close() error {
	return g.client.Close()
}
