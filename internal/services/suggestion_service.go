package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"google.golang.org/genai"
)

const suggestionPrompt = "You are an assistant that generates three open-ended, friendly, and non-sensitive questions " +
	"for a public anonymous messaging platform. Output the three questions as a single string " +
	"separated by '||'. Example: \"What's a hobby you've recently started?||If you could have dinner " +
	"with any historical figure, who would it be?||What's a simple thing that makes you happy?\""

// maxSuggestionLength bounds one question for display.
const maxSuggestionLength = 120

// DefaultSuggestions is the fixed fallback triple used when the model call
// fails or returns unparsable output.
var DefaultSuggestions = []string{
	"What's a hobby you've recently started?",
	"If you could have dinner with any historical figure, who would it be?",
	"What's a simple thing that makes you happy?",
}

type SuggestionService interface {
	// StreamSuggestions relays the model output verbatim, chunk by chunk.
	// The caller cancels by returning an error from onChunk or cancelling ctx.
	StreamSuggestions(ctx context.Context, onChunk func(text string) error) error
	// Suggestions returns three parsed questions, falling back to
	// DefaultSuggestions when the model fails or the output is unusable.
	Suggestions(ctx context.Context) []string
}

type suggestionService struct {
	client *genai.Client
	model  string
}

func NewSuggestionService(apiKey, model string) (SuggestionService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("genai api key is required")
	}
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &suggestionService{client: client, model: model}, nil
}

func (s *suggestionService) StreamSuggestions(ctx context.Context, onChunk func(string) error) error {
	contents := genai.Text(suggestionPrompt)
	for resp, err := range s.client.Models.GenerateContentStream(ctx, s.model, contents, nil) {
		if err != nil {
			return fmt.Errorf("genai stream: %w", err)
		}
		if text := resp.Text(); text != "" {
			if err := onChunk(text); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *suggestionService) Suggestions(ctx context.Context) []string {
	resp, err := s.client.Models.GenerateContent(ctx, s.model, genai.Text(suggestionPrompt), nil)
	if err != nil {
		return DefaultSuggestions
	}
	if parsed := ParseSuggestions(resp.Text()); parsed != nil {
		return parsed
	}
	return DefaultSuggestions
}

// ParseSuggestions splits a '||'-delimited model answer into exactly three
// trimmed, display-bounded questions. Returns nil when fewer than three
// usable entries come out, so callers fall back.
func ParseSuggestions(text string) []string {
	parts := strings.Split(text, "||")
	out := make([]string, 0, 3)
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if utf8.RuneCountInString(p) > maxSuggestionLength {
			runes := []rune(p)
			p = string(runes[:maxSuggestionLength])
		}
		out = append(out, p)
		if len(out) == 3 {
			break
		}
	}
	if len(out) < 3 {
		return nil
	}
	return out
}
