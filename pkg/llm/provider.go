package llm

import (
	"context"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(max int) Option {
	return func(o *Options) {
		o.MaxTokens = max
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// Completion is the result of one chat-completion call, including the
// provider-reported token usage the usage ledger bills from.
type Completion struct {
	Content          string
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

type ImageRequest struct {
	Prompt  string
	N       int
	Size    string
	Quality string
}

type Image struct {
	URL           string
	RevisedPrompt string
}

// Provider defines the contract for the upstream model backend. The
// client performs no retries itself; retry policy belongs to the
// caller so retries stay bounded per user-visible request.
type Provider interface {
	Complete(ctx context.Context, history []Message, options ...Option) (*Completion, error)
	GenerateImages(ctx context.Context, req ImageRequest) ([]Image, error)
}
