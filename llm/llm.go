package llm

import (
	"context"
)

// LLM is the text-generation capability consumed by the engine. Providers are
// selected by name at the engine layer; implementations live in subpackages.
type LLM interface {
	// Generate runs a single-prompt completion.
	Generate(ctx context.Context, prompt string, options ...GenerateOption) (*Generation, error)
	// GenerateContent runs a multi-message completion.
	GenerateContent(ctx context.Context, messages []Message, options ...GenerateOption) (*Generation, error)
}

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role   `json:"role"`
	Name    string `json:"name,omitempty"`
	Content string `json:"content"`
}

func NewSystemMessage(name, content string) Message {
	return Message{Role: RoleSystem, Name: name, Content: content}
}

func NewUserMessage(name, content string) Message {
	return Message{Role: RoleUser, Name: name, Content: content}
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type Generation struct {
	Content    string `json:"content"`
	Role       string `json:"role,omitempty"`
	StopReason string `json:"stop_reason,omitempty"`
	Usage      *Usage `json:"usage,omitempty"`
}

type GenerateOptions struct {
	Temperature float32
	MaxTokens   int
	StopWords   []string
	JSONMode    bool
}

type GenerateOption func(*GenerateOptions)

func DefaultGenerateOption() *GenerateOptions {
	return &GenerateOptions{
		Temperature: 0.3,
	}
}

func WithTemperature(temperature float32) GenerateOption {
	return func(o *GenerateOptions) {
		o.Temperature = temperature
	}
}

func WithMaxTokens(maxTokens int) GenerateOption {
	return func(o *GenerateOptions) {
		o.MaxTokens = maxTokens
	}
}

func WithStopWords(stopWords []string) GenerateOption {
	return func(o *GenerateOptions) {
		o.StopWords = stopWords
	}
}

func WithJSONMode() GenerateOption {
	return func(o *GenerateOptions) {
		o.JSONMode = true
	}
}
