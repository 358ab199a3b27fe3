package openai

import (
	"context"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"player-backend/pkg/ai"
)

var _ ai.AiInterface = (*openAi)(nil)

type openAi struct {
	client *openai.Client
	model  string
}

// NewOpenAi creates a client for any OpenAI-compatible endpoint. baseURL may
// be empty for the official API.
func NewOpenAi(apiKey, model, baseURL string) *openAi {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &openAi{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

func (o *openAi) Name() string {
	return "openai"
}

func (o *openAi) HandleText(msg string) (string, error) {
	resp, err := o.client.CreateChatCompletion(context.Background(), openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: msg},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("could not get response from openai")
		return "", err
	}
	return resp.Choices[0].Message.Content, nil
}
