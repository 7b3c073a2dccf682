package speaker

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/10botics/cantonese-speech-to-text/internal/apperr"
)

// OpenAIClient talks to an OpenAI-compatible chat-completions endpoint.
// The default deployment points it at a relay exposing deepseek-r1.
type OpenAIClient struct {
	cli   *openai.Client
	model string
}

// NewOpenAIClient builds a completion client. baseURL may be empty for the
// default OpenAI endpoint.
func NewOpenAIClient(apiKey, baseURL, model string) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIClient{
		cli:   openai.NewClientWithConfig(cfg),
		model: model,
	}
}

// Complete sends one chat completion and returns the raw assistant text.
func (c *OpenAIClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := c.cli.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return "", apperr.Upstream("speaker naming", err)
	}
	if len(resp.Choices) == 0 {
		return "", apperr.Upstream("speaker naming", fmt.Errorf("empty completion response"))
	}
	return resp.Choices[0].Message.Content, nil
}
