package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// NIMClient talks to NVIDIA NIM through its OpenAI-compatible chat
// completions API.
type NIMClient struct {
	client *openai.Client
	model  string
}

// NewNIMClient creates a client for the NIM endpoint (e.g.
// https://integrate.api.nvidia.com/v1) using the given model.
func NewNIMClient(endpoint, apiKey, model string) *NIMClient {
	cfg := openai.DefaultConfig(apiKey)
	if endpoint != "" {
		cfg.BaseURL = endpoint
	}
	return &NIMClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// Generate runs a single chat completion.
func (c *NIMClient) Generate(ctx context.Context, req Request) (string, error) {
	var messages []openai.ChatCompletionMessage
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("nim request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("nim returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
