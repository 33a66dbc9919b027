package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"wealthlens/internal/domain"

	"github.com/ayush6624/go-chatgpt"
)

type GptRepository interface {
	ExplainAnalysis(ctx context.Context, analysis domain.CategoryOutlierAnalysis, language string) (string, error)
}

type gptRepositoryHandler struct {
	GptClient *chatgpt.Client
}

func NewGptRepository(apiKey string) (GptRepository, error) {
	client, err := chatgpt.NewClient(apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to construct gpt client: %w", err)
	}

	return gptRepositoryHandler{
		GptClient: client,
	}, nil
}

const explainPrompt = `
You are the assistant of a portfolio analytics dashboard. You receive the
JSON result of a category outlier analysis: per-category winners and
losers ranked by a performance metric, distribution statistics, and
subgroup summaries. Write a short narrative (3-5 sentences) a private
investor can read: name the biggest winners and losers with their
contribution, mention how concentrated the category is, and note when
winners or losers only appear because an asset entered or left the
portfolio (startPerformance or endPerformance is missing). Amounts are
EUR unless the metric is twr, which is a decimal fraction. Do not invent
numbers that are not in the JSON.
`

func (h gptRepositoryHandler) ExplainAnalysis(ctx context.Context, analysis domain.CategoryOutlierAnalysis, language string) (string, error) {
	analysisJson, err := json.Marshal(analysis)
	if err != nil {
		return "", fmt.Errorf("failed to marshal analysis: %w", err)
	}

	if language == "" {
		language = "English"
	}

	res, err := h.GptClient.Send(ctx, &chatgpt.ChatCompletionRequest{
		Model: chatgpt.GPT35Turbo,
		Messages: []chatgpt.ChatMessage{
			{
				Role:    chatgpt.ChatGPTModelRoleSystem,
				Content: explainPrompt,
			},
			{
				Role:    chatgpt.ChatGPTModelRoleUser,
				Content: fmt.Sprintf("Respond in %s.\n%s", language, string(analysisJson)),
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to get gpt response: %w", err)
	}
	if len(res.Choices) == 0 {
		return "", fmt.Errorf("gpt returned no choices")
	}

	return res.Choices[0].Message.Content, nil
}
