// Package llm wraps the hosted language model used by the SQL agent.
package llm

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/sashabaranov/go-openai"
)

// DefaultModel is the model used when none is configured.
const DefaultModel = "gpt-4o-mini"

// ChatModel completes a conversation, optionally calling tools.
type ChatModel interface {
	Complete(ctx context.Context, messages []openai.ChatCompletionMessage, tools []openai.Tool) (openai.ChatCompletionMessage, error)
}

// Config configures the OpenAI client.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
}

// OpenAI implements ChatModel over the OpenAI chat completions API.
type OpenAI struct {
	client *openai.Client
	config Config
}

// NewOpenAI creates a client. An empty API key is accepted here and
// reported on the first completion.
func NewOpenAI(config Config) *OpenAI {
	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	if config.Model == "" {
		config.Model = DefaultModel
	}

	return &OpenAI{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}
}

// Complete sends one chat completion request and returns the first choice.
func (p *OpenAI) Complete(ctx context.Context, messages []openai.ChatCompletionMessage, tools []openai.Tool) (openai.ChatCompletionMessage, error) {
	if err := p.ValidateConfig(); err != nil {
		return openai.ChatCompletionMessage{}, err
	}

	req := openai.ChatCompletionRequest{
		Model:       p.config.Model,
		Messages:    messages,
		MaxTokens:   p.config.MaxTokens,
		Temperature: temperature(p.config.Temperature),
		Tools:       tools,
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return openai.ChatCompletionMessage{}, fmt.Errorf("failed to create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return openai.ChatCompletionMessage{}, errors.New("no response from OpenAI")
	}

	return resp.Choices[0].Message, nil
}

// ValidateConfig validates the configuration
func (p *OpenAI) ValidateConfig() error {
	if p.config.APIKey == "" {
		return errors.New("API key is required")
	}
	return nil
}

// temperature maps 0 to the smallest positive float32, since the request
// omits a zero temperature and the API would then apply its own default.
func temperature(t float64) float32 {
	if t <= 0 {
		return math.SmallestNonzeroFloat32
	}
	return float32(t)
}

// Ensure OpenAI implements ChatModel interface.
var _ ChatModel = (*OpenAI)(nil)
