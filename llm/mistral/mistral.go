// Package mistral provides an llm.LLM backed by the Mistral platform.
// The Mistral chat API is OpenAI-compatible, so the provider reuses the
// go-openai client against the Mistral endpoint.
package mistral

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	goopenai "github.com/sashabaranov/go-openai"

	"github.com/transitlab/graphrag/llm"
)

type LLM struct {
	client *goopenai.Client
	model  string
}

var (
	_ llm.LLM = (*LLM)(nil)

	_defaultModel   = "mistral-large-latest"
	_defaultBaseURL = "https://api.mistral.ai/v1"
)

func newClient(opt *options) (*goopenai.Client, error) {
	if len(opt.token) == 0 {
		return nil, errors.New("missing the Mistral API key, set it in the MISTRAL_API_KEY environment variable")
	}

	config := goopenai.DefaultConfig(opt.token)
	config.BaseURL = opt.baseURL
	if opt.httpClient != nil {
		config.HTTPClient = opt.httpClient
	}
	return goopenai.NewClientWithConfig(config), nil
}

// New returns a new Mistral-backed LLM.
func New(opts ...Option) (*LLM, error) {
	option := &options{
		httpClient: http.DefaultClient,
		model:      _defaultModel,
		baseURL:    _defaultBaseURL,
	}
	for _, opt := range opts {
		opt(option)
	}
	c, err := newClient(option)
	if err != nil {
		return nil, err
	}
	return &LLM{
		client: c,
		model:  option.model,
	}, nil
}

// GenerateContent implements the llm.LLM interface.
func (l *LLM) GenerateContent(ctx context.Context, messages []llm.Message, options ...llm.GenerateOption) (*llm.Generation, error) {
	opts := llm.DefaultGenerateOption()
	for _, opt := range options {
		opt(opts)
	}

	msgs := make([]goopenai.ChatCompletionMessage, 0, len(messages))
	for _, mc := range messages {
		msgs = append(msgs, goopenai.ChatCompletionMessage{
			Role:    string(mc.Role),
			Content: mc.Content,
		})
	}

	resp, err := l.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:       l.model,
		Stop:        opts.StopWords,
		Messages:    msgs,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("mistral: empty completion response")
	}

	choice := resp.Choices[0]
	return &llm.Generation{
		Content:    choice.Message.Content,
		Role:       choice.Message.Role,
		StopReason: string(choice.FinishReason),
		Usage: &llm.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

func (l *LLM) Generate(ctx context.Context, prompt string, options ...llm.GenerateOption) (*llm.Generation, error) {
	message := llm.NewUserMessage("", prompt)
	return l.GenerateContent(ctx, []llm.Message{message}, options...)
}
