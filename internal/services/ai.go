package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// TaskDrafter proposes board tasks for a feature.
type TaskDrafter interface {
	DraftTasks(ctx context.Context, brief FeatureBrief) ([]DraftTask, error)
}

// FeatureBrief is the feature text handed to the model.
type FeatureBrief struct {
	Name               string
	Details            string
	UserStory          string
	CoreRequirements   string
	AcceptanceCriteria string
	TechnicalNotes     string
}

// DraftTask is a suggested task. It is returned to the client, not stored.
type DraftTask struct {
	Title              string  `json:"title"`
	Description        string  `json:"description"`
	AcceptanceCriteria string  `json:"acceptance_criteria"`
	Priority           *string `json:"priority"`
	Architecture       *string `json:"architecture"`
}

type AIService struct {
	client *openai.Client
	model  string
}

func NewAIService(apiKey string) *AIService {
	return &AIService{
		client: openai.NewClient(apiKey),
		model:  openai.GPT4o,
	}
}

// DraftTasks asks the chat model to break a feature down into tasks
func (s *AIService) DraftTasks(ctx context.Context, brief FeatureBrief) ([]DraftTask, error) {
	if s.client == nil {
		return nil, fmt.Errorf("OpenAI client not initialized")
	}

	prompt := fmt.Sprintf(`You are a planning assistant for a software team. Break the feature below into concrete board tasks.

Feature: %s

Details:
%s

User story:
%s

Core requirements:
%s

Acceptance criteria:
%s

Technical notes:
%s

Return a JSON array of tasks in this shape:
[
  {
    "title": "short imperative title",
    "description": "what has to be done",
    "acceptance_criteria": "how to verify it is done",
    "priority": "High, Medium or Low",
    "architecture": "FE, BE, DB, ARCH or MISC"
  }
]

Rules:
- Return [] if the feature does not describe any work
- Return only JSON, no prose and no code fences`,
		brief.Name, orNone(brief.Details), orNone(brief.UserStory), orNone(brief.CoreRequirements),
		orNone(brief.AcceptanceCriteria), orNone(brief.TechnicalNotes))

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

	return parseDraftTasks(resp.Choices[0].Message.Content)
}

func parseDraftTasks(content string) ([]DraftTask, error) {
	content = strings.TrimSpace(content)
	// models sometimes wrap the JSON in a fenced block anyway
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	}

	var tasks []DraftTask
	if err := json.Unmarshal([]byte(content), &tasks); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}
	return tasks, nil
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "(none)"
	}
	return s
}
