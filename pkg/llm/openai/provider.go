package openai

import (
	"context"
	"errors"
	"net"
	"time"

	"ai-gateway-be/pkg/llm"

	goopenai "github.com/sashabaranov/go-openai"
)

const (
	chatTimeout  = 30 * time.Second
	imageTimeout = 60 * time.Second
)

// Client is the minimal subset of the go-openai client used by the
// provider; it is easy to substitute in tests.
type Client interface {
	CreateChatCompletion(ctx context.Context, req goopenai.ChatCompletionRequest) (goopenai.ChatCompletionResponse, error)
	CreateImage(ctx context.Context, req goopenai.ImageRequest) (goopenai.ImageResponse, error)
}

type Provider struct {
	client       Client
	defaultModel string
}

// Ensure Provider implements llm.Provider
var _ llm.Provider = &Provider{}

func NewProvider(apiKey, baseURL, defaultModel string) *Provider {
	cfg := goopenai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Provider{
		client:       goopenai.NewClientWithConfig(cfg),
		defaultModel: defaultModel,
	}
}

// NewProviderWithClient injects a pre-built client, used by tests.
func NewProviderWithClient(client Client, defaultModel string) *Provider {
	return &Provider{client: client, defaultModel: defaultModel}
}

func (p *Provider) Complete(ctx context.Context, history []llm.Message, opts ...llm.Option) (*llm.Completion, error) {
	options := &llm.Options{
		Temperature: 0.7,
	}
	for _, opt := range opts {
		opt(options)
	}

	model := p.defaultModel
	if options.Model != "" {
		model = options.Model
	}

	messages := make([]goopenai.ChatCompletionMessage, len(history))
	for i, msg := range history {
		messages[i] = goopenai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}

	req := goopenai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: float32(options.Temperature),
	}
	if options.MaxTokens > 0 {
		req.MaxTokens = options.MaxTokens
	}

	ctx, cancel := context.WithTimeout(ctx, chatTimeout)
	defer cancel()

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, classify(err)
	}

	if len(resp.Choices) == 0 {
		return nil, llm.NewPermanentError(0, "provider returned no choices", nil)
	}

	respModel := resp.Model
	if respModel == "" {
		respModel = model
	}

	return &llm.Completion{
		Content:          resp.Choices[0].Message.Content,
		Model:            respModel,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}, nil
}

func (p *Provider) GenerateImages(ctx context.Context, imgReq llm.ImageRequest) ([]llm.Image, error) {
	n := imgReq.N
	if n <= 0 {
		n = 1
	}
	size := imgReq.Size
	if size == "" {
		size = "1024x1024"
	}
	quality := imgReq.Quality
	if quality == "" {
		quality = "standard"
	}

	req := goopenai.ImageRequest{
		Prompt:  imgReq.Prompt,
		N:       n,
		Size:    size,
		Quality: quality,
	}

	ctx, cancel := context.WithTimeout(ctx, imageTimeout)
	defer cancel()

	resp, err := p.client.CreateImage(ctx, req)
	if err != nil {
		return nil, classify(err)
	}

	images := make([]llm.Image, len(resp.Data))
	for i, item := range resp.Data {
		images[i] = llm.Image{
			URL:           item.URL,
			RevisedPrompt: item.RevisedPrompt,
		}
	}
	return images, nil
}

// classify maps transport and API failures onto the transient/permanent
// taxonomy. Timeouts, connection errors, 408/429 and 5xx are worth
// retrying; the rest are not.
func classify(err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		if retryableStatus(apiErr.HTTPStatusCode) {
			return llm.NewTransientError(apiErr.HTTPStatusCode, apiErr.Message, err)
		}
		return llm.NewPermanentError(apiErr.HTTPStatusCode, apiErr.Message, err)
	}

	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		if retryableStatus(reqErr.HTTPStatusCode) {
			return llm.NewTransientError(reqErr.HTTPStatusCode, "request failed", err)
		}
		return llm.NewPermanentError(reqErr.HTTPStatusCode, "request failed", err)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return llm.NewTransientError(0, "request timed out", err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return llm.NewTransientError(0, "network failure", err)
	}

	// Connection resets and transport-level failures surface as plain
	// url.Error values; treat them as retryable.
	return llm.NewTransientError(0, "provider unreachable", err)
}

func retryableStatus(status int) bool {
	return status == 408 || status == 429 || status >= 500
}
