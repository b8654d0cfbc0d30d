package llm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	openai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// Provider is the text-completion dependency of the services. Tests
// substitute a stub with canned responses.
type Provider interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

const defaultChatModel = "gpt-4o"

// completionTemperature keeps schema output stable across retries.
const completionTemperature = 0.3

// Compile-time interface check: OpenAIProvider must implement Provider.
var _ Provider = (*OpenAIProvider)(nil)

// OpenAIProvider completes prompts through the OpenAI chat API.
type OpenAIProvider struct {
	client openai.Client
	model  string
}

// NewOpenAIProvider builds a provider from the environment:
// OPENAI_API_KEY (required), OPENAI_CHAT_MODEL and OPENAI_ENDPOINT
// (optional overrides).
func NewOpenAIProvider() (*OpenAIProvider, error) {
	apiKey := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	if apiKey == "" {
		return nil, errors.New("OPENAI_API_KEY is not set")
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if endpoint := strings.TrimSpace(os.Getenv("OPENAI_ENDPOINT")); endpoint != "" {
		opts = append(opts, option.WithBaseURL(endpoint))
	}

	model := strings.TrimSpace(os.Getenv("OPENAI_CHAT_MODEL"))
	if model == "" {
		model = defaultChatModel
	}

	return &OpenAIProvider{client: openai.NewClient(opts...), model: model}, nil
}

// Complete sends the prompt as a single user message and returns the
// model's text.
func (p *OpenAIProvider) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(completionTemperature),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}
