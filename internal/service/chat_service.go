package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ai-gateway-be/internal/apperror"
	"ai-gateway-be/internal/dto"
	"ai-gateway-be/internal/entity"
	"ai-gateway-be/internal/pkg/logger"
	"ai-gateway-be/internal/repository/specification"
	"ai-gateway-be/internal/repository/unitofwork"
	"ai-gateway-be/pkg/llm"
)

const (
	titleMaxRunes     = 50
	analysisMaxTokens = 500
	analysisTemp      = 0.3
	retryBackoff      = 500 * time.Millisecond
)

type IChatService interface {
	Chat(ctx context.Context, userID uuid.UUID, req *dto.ChatRequest) (*dto.ChatResponse, error)
	GenerateImages(ctx context.Context, userID uuid.UUID, req *dto.GenerateImagesRequest) (*dto.GenerateImagesResponse, error)
	Analyze(ctx context.Context, userID uuid.UUID, req *dto.AnalyzeRequest) (*dto.AnalyzeResponse, error)
}

type chatService struct {
	uowFactory   unitofwork.RepositoryFactory
	provider     llm.Provider
	usageService IUsageService
	costs        llm.CostTable
	log          logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	provider llm.Provider,
	usageService IUsageService,
	costs llm.CostTable,
	log logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory:   uowFactory,
		provider:     provider,
		usageService: usageService,
		costs:        costs,
		log:          log,
	}
}

// Chat runs one full conversation turn: resolve or create the
// conversation, persist the user message, call the model, then persist
// the assistant reply and the billing record. The user message is
// committed before the provider call so a failed turn still leaves the
// user's side of the exchange in history.
func (s *chatService) Chat(ctx context.Context, userID uuid.UUID, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversation, history, err := s.resolveConversation(ctx, uow, userID, req)
	if err != nil {
		return nil, err
	}

	history = append(history, llm.Message{Role: string(entity.MessageRoleUser), Content: req.Message})

	userMessage := &entity.Message{
		Id:             uuid.New(),
		ConversationId: conversation.Id,
		Role:           entity.MessageRoleUser,
		Content:        req.Message,
	}
	if err := uow.MessageRepository().Create(ctx, userMessage); err != nil {
		return nil, apperror.Internal(err)
	}

	model := req.Model
	if model == "" {
		model = conversation.Model
	}

	options := []llm.Option{llm.WithModel(model)}
	if req.MaxTokens > 0 {
		options = append(options, llm.WithMaxTokens(req.MaxTokens))
	}
	if req.Temperature > 0 {
		options = append(options, llm.WithTemperature(req.Temperature))
	}

	completion, err := s.completeWithRetry(ctx, history, options...)
	if err != nil {
		return nil, toProviderAppError(err)
	}

	assistantMessage := &entity.Message{
		Id:             uuid.New(),
		ConversationId: conversation.Id,
		Role:           entity.MessageRoleAssistant,
		Content:        completion.Content,
		Tokens:         &completion.TotalTokens,
		Metadata: map[string]interface{}{
			"model": completion.Model,
			"usage": map[string]interface{}{
				"promptTokens":     completion.PromptTokens,
				"completionTokens": completion.CompletionTokens,
				"totalTokens":      completion.TotalTokens,
			},
		},
	}

	// Assistant message and conversation bump commit together so the
	// listing order always reflects the latest completed turn.
	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.Internal(err)
	}
	defer uow.Rollback()

	if err := uow.MessageRepository().Create(ctx, assistantMessage); err != nil {
		return nil, apperror.Internal(err)
	}
	conversation.UpdatedAt = time.Now()
	if err := uow.ConversationRepository().Update(ctx, conversation); err != nil {
		return nil, apperror.Internal(err)
	}
	if err := uow.Commit(); err != nil {
		return nil, apperror.Internal(err)
	}

	cost := s.costs.Cost(completion.Model, completion.TotalTokens)
	s.recordUsage(ctx, &entity.UsageRecord{
		UserId:           userID,
		Model:            completion.Model,
		PromptTokens:     completion.PromptTokens,
		CompletionTokens: completion.CompletionTokens,
		TotalTokens:      completion.TotalTokens,
		Cost:             cost,
	})

	return &dto.ChatResponse{
		ConversationId:   conversation.Id,
		UserMessage:      toMessageResponse(userMessage),
		AssistantMessage: toMessageResponse(assistantMessage),
		Usage: dto.UsageBreakdown{
			PromptTokens:     completion.PromptTokens,
			CompletionTokens: completion.CompletionTokens,
			TotalTokens:      completion.TotalTokens,
		},
		Cost: cost,
	}, nil
}

func (s *chatService) GenerateImages(ctx context.Context, userID uuid.UUID, req *dto.GenerateImagesRequest) (*dto.GenerateImagesResponse, error) {
	if req.Prompt == "" {
		return nil, apperror.BadRequest(apperror.CodeMissingPrompt, "Prompt is required")
	}

	images, err := s.provider.GenerateImages(ctx, llm.ImageRequest{
		Prompt:  req.Prompt,
		N:       req.N,
		Size:    req.Size,
		Quality: req.Quality,
	})
	if err != nil {
		return nil, toProviderAppError(err)
	}

	// Image generations report no token usage upstream; they are billed
	// flat per image.
	s.recordUsage(ctx, &entity.UsageRecord{
		UserId: userID,
		Model:  "dall-e",
		Cost:   s.costs.ImageCost(len(images)),
	})

	result := make([]*dto.ImageResponse, 0, len(images))
	for _, image := range images {
		result = append(result, &dto.ImageResponse{
			URL:           image.URL,
			RevisedPrompt: image.RevisedPrompt,
		})
	}
	return &dto.GenerateImagesResponse{Images: result}, nil
}

func (s *chatService) Analyze(ctx context.Context, userID uuid.UUID, req *dto.AnalyzeRequest) (*dto.AnalyzeResponse, error) {
	if req.Text == "" {
		return nil, apperror.BadRequest(apperror.CodeMissingText, "Text is required")
	}

	analysisType := req.AnalysisType
	if analysisType == "" {
		analysisType = "sentiment"
	}
	targetLanguage := req.TargetLanguage
	if targetLanguage == "" {
		targetLanguage = "zh"
	}

	systemPrompt, err := analysisPrompt(analysisType, targetLanguage)
	if err != nil {
		return nil, err
	}

	history := []llm.Message{
		{Role: string(entity.MessageRoleSystem), Content: systemPrompt},
		{Role: string(entity.MessageRoleUser), Content: req.Text},
	}

	completion, err := s.completeWithRetry(ctx, history,
		llm.WithMaxTokens(analysisMaxTokens),
		llm.WithTemperature(analysisTemp),
	)
	if err != nil {
		return nil, toProviderAppError(err)
	}

	s.recordUsage(ctx, &entity.UsageRecord{
		UserId:           userID,
		Model:            completion.Model,
		PromptTokens:     completion.PromptTokens,
		CompletionTokens: completion.CompletionTokens,
		TotalTokens:      completion.TotalTokens,
		Cost:             s.costs.Cost(completion.Model, completion.TotalTokens),
	})

	return &dto.AnalyzeResponse{
		Type:   analysisType,
		Result: completion.Content,
		Tokens: completion.TotalTokens,
	}, nil
}

// resolveConversation loads the target conversation with its full
// history, or creates a fresh one titled from the first message.
func (s *chatService) resolveConversation(ctx context.Context, uow unitofwork.UnitOfWork, userID uuid.UUID, req *dto.ChatRequest) (*entity.Conversation, []llm.Message, error) {
	if req.ConversationId != nil {
		conversation, err := findOwnedConversation(ctx, uow, userID, *req.ConversationId)
		if err != nil {
			return nil, nil, err
		}

		stored, err := uow.MessageRepository().FindAll(ctx,
			specification.ByConversationID{ConversationID: conversation.Id},
			specification.OrderBy{Field: "created_at", Desc: false},
		)
		if err != nil {
			return nil, nil, apperror.Internal(err)
		}

		history := make([]llm.Message, 0, len(stored)+1)
		for _, message := range stored {
			history = append(history, llm.Message{
				Role:    string(message.Role),
				Content: message.Content,
			})
		}
		return conversation, history, nil
	}

	model := req.Model
	if model == "" {
		model = s.costs.DefaultModel
	}
	conversation := &entity.Conversation{
		Id:     uuid.New(),
		UserId: userID,
		Title:  titleFromMessage(req.Message),
		Model:  model,
		Status: entity.ConversationStatusActive,
	}
	if err := uow.ConversationRepository().Create(ctx, conversation); err != nil {
		return nil, nil, apperror.Internal(err)
	}
	return conversation, nil, nil
}

// completeWithRetry retries once on a transient provider failure, so a
// user-visible request never fans out into more than two upstream calls.
func (s *chatService) completeWithRetry(ctx context.Context, history []llm.Message, options ...llm.Option) (*llm.Completion, error) {
	completion, err := s.provider.Complete(ctx, history, options...)
	if err == nil {
		return completion, nil
	}
	if !llm.IsTransient(err) {
		return nil, err
	}

	s.log.Warn("chat", "Transient provider failure, retrying", map[string]interface{}{
		"error": err.Error(),
	})

	select {
	case <-ctx.Done():
		return nil, err
	case <-time.After(retryBackoff):
	}

	return s.provider.Complete(ctx, history, options...)
}

// recordUsage must never fail the user-visible request: a missed billing
// entry under-bills once, a failed response double-bills on retry.
func (s *chatService) recordUsage(ctx context.Context, record *entity.UsageRecord) {
	if err := s.usageService.Record(ctx, record); err != nil {
		s.log.Error("chat", "Failed to record usage", map[string]interface{}{
			"userId": record.UserId.String(),
			"model":  record.Model,
			"tokens": record.TotalTokens,
			"error":  err.Error(),
		})
	}
}

func titleFromMessage(message string) string {
	runes := []rune(message)
	if len(runes) <= titleMaxRunes {
		return message
	}
	return string(runes[:titleMaxRunes]) + "..."
}

func analysisPrompt(analysisType, targetLanguage string) (string, error) {
	switch analysisType {
	case "sentiment":
		return "You are a sentiment analysis expert. Analyze the sentiment of the following text and answer with positive, negative or neutral.", nil
	case "summary":
		return "You are a summarization expert. Produce a concise summary of the following text.", nil
	case "keywords":
		return "You are a keyword extraction expert. Extract 5-10 keywords from the following text.", nil
	case "translation":
		return fmt.Sprintf("You are a translation expert. Translate the following text into %s.", targetLanguage), nil
	default:
		return "", apperror.BadRequest(apperror.CodeUnsupportedAnalysisType, "Unsupported analysis type")
	}
}

func toProviderAppError(err error) error {
	if llm.IsTransient(err) {
		return apperror.ProviderUnavailable(err)
	}
	return apperror.ProviderRejected(err)
}
