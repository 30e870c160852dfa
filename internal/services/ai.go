package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/yukikurage/goal-tracker-api/internal/models"
)

// GoalSuggester turns free text into candidate goals.
type GoalSuggester interface {
	SuggestGoals(ctx context.Context, categoryTitle, text string) ([]GeneratedGoal, error)
}

type AIService struct {
	client *openai.Client
	model  string
}

type GeneratedGoal struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	DueDate     *time.Time          `json:"due_date"`
	Priority    models.GoalPriority `json:"priority"`
}

func NewAIService(apiKey string) *AIService {
	return &AIService{
		client: openai.NewClient(apiKey),
		model:  openai.GPT4o,
	}
}

const suggestGoalsPrompt = `You extract concrete, trackable goals from free text.

Current time: %s
Category: %s

Text:
%s

Answer with a JSON array only, no prose:
[
  {
    "title": "short goal title",
    "description": "what done looks like",
    "due_date": "ISO8601 timestamp such as 2025-10-28T23:59:59Z, or null when no deadline is stated",
    "priority": "one of low, medium, high, critical"
  }
]

Rules:
- return [] when the text contains no goals
- resolve relative dates ("tomorrow", "next week") against the current time
- at most 10 goals`

// SuggestGoals asks the chat model for goals described in text
func (s *AIService) SuggestGoals(ctx context.Context, categoryTitle, text string) ([]GeneratedGoal, error) {
	if s.client == nil {
		return nil, fmt.Errorf("OpenAI client not initialized")
	}

	prompt := fmt.Sprintf(suggestGoalsPrompt, time.Now().Format(time.RFC3339), categoryTitle, text)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.3,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	return parseGeneratedGoals(resp.Choices[0].Message.Content)
}

// parseGeneratedGoals accepts the bare array or one wrapped in a ```json fence.
func parseGeneratedGoals(content string) ([]GeneratedGoal, error) {
	trimmed := strings.TrimSpace(content)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")

	var goals []GeneratedGoal
	if err := json.Unmarshal([]byte(strings.TrimSpace(trimmed)), &goals); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}
	return goals, nil
}
