package service

import (
	"context"
	"math"

	"github.com/google/uuid"

	"ai-gateway-be/internal/apperror"
	"ai-gateway-be/internal/dto"
	"ai-gateway-be/internal/entity"
	"ai-gateway-be/internal/repository/specification"
	"ai-gateway-be/internal/repository/unitofwork"
)

type IConversationService interface {
	Create(ctx context.Context, userID uuid.UUID, req *dto.CreateConversationRequest) (*dto.ConversationResponse, error)
	Get(ctx context.Context, userID, conversationID uuid.UUID) (*dto.ConversationResponse, error)
	List(ctx context.Context, userID uuid.UUID, query *dto.ListConversationsQuery) (*dto.ConversationListResponse, error)
	Update(ctx context.Context, userID, conversationID uuid.UUID, req *dto.UpdateConversationRequest) (*dto.ConversationResponse, error)
	Delete(ctx context.Context, userID, conversationID uuid.UUID) error
}

type conversationService struct {
	uowFactory   unitofwork.RepositoryFactory
	defaultModel string
}

func NewConversationService(uowFactory unitofwork.RepositoryFactory, defaultModel string) IConversationService {
	return &conversationService{uowFactory: uowFactory, defaultModel: defaultModel}
}

func (s *conversationService) Create(ctx context.Context, userID uuid.UUID, req *dto.CreateConversationRequest) (*dto.ConversationResponse, error) {
	model := req.Model
	if model == "" {
		model = s.defaultModel
	}

	conversation := &entity.Conversation{
		Id:       uuid.New(),
		UserId:   userID,
		Title:    req.Title,
		Model:    model,
		Status:   entity.ConversationStatusActive,
		Metadata: req.Metadata,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ConversationRepository().Create(ctx, conversation); err != nil {
		return nil, apperror.Internal(err)
	}

	return toConversationResponse(conversation, nil), nil
}

func (s *conversationService) Get(ctx context.Context, userID, conversationID uuid.UUID) (*dto.ConversationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversation, err := findOwnedConversation(ctx, uow, userID, conversationID)
	if err != nil {
		return nil, err
	}

	messages, err := uow.MessageRepository().FindAll(ctx,
		specification.ByConversationID{ConversationID: conversationID},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	return toConversationResponse(conversation, messages), nil
}

func (s *conversationService) List(ctx context.Context, userID uuid.UUID, query *dto.ListConversationsQuery) (*dto.ConversationListResponse, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	limit := query.Limit
	if limit < 1 || limit > 100 {
		limit = 10
	}
	status := query.Status
	if status == "" {
		status = string(entity.ConversationStatusActive)
	}

	filters := []specification.Specification{
		specification.OwnedBy{UserID: userID},
		specification.ByStatus{Status: status},
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	total, err := uow.ConversationRepository().Count(ctx, filters...)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	listSpecs := append(filters,
		specification.OrderBy{Field: "updated_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: (page - 1) * limit},
	)
	conversations, err := uow.ConversationRepository().FindAll(ctx, listSpecs...)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	result := make([]*dto.ConversationResponse, 0, len(conversations))
	for _, conversation := range conversations {
		result = append(result, toConversationResponse(conversation, nil))
	}

	return &dto.ConversationListResponse{
		Conversations: result,
		Pagination: dto.Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: int(math.Ceil(float64(total) / float64(limit))),
		},
	}, nil
}

func (s *conversationService) Update(ctx context.Context, userID, conversationID uuid.UUID, req *dto.UpdateConversationRequest) (*dto.ConversationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversation, err := findOwnedConversation(ctx, uow, userID, conversationID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		conversation.Title = *req.Title
	}
	if req.Status != nil {
		next := entity.ConversationStatus(*req.Status)
		if !conversation.Status.CanTransitionTo(next) {
			return nil, apperror.BadRequest(apperror.CodeInvalidStatus, "Invalid conversation status transition")
		}
		conversation.Status = next
	}
	if req.Metadata != nil {
		conversation.Metadata = req.Metadata
	}

	if err := uow.ConversationRepository().Update(ctx, conversation); err != nil {
		return nil, apperror.Internal(err)
	}

	return toConversationResponse(conversation, nil), nil
}

// Delete soft-deletes: the row and its messages survive for audit, the
// conversation just disappears from normal listings.
func (s *conversationService) Delete(ctx context.Context, userID, conversationID uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversation, err := findOwnedConversation(ctx, uow, userID, conversationID)
	if err != nil {
		return err
	}

	if conversation.Status == entity.ConversationStatusDeleted {
		return nil
	}

	conversation.Status = entity.ConversationStatusDeleted
	if err := uow.ConversationRepository().Update(ctx, conversation); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

// findOwnedConversation resolves a conversation scoped to its owner.
// Conversations belonging to other users surface as not-found, never as
// forbidden, so ids cannot be probed.
func findOwnedConversation(ctx context.Context, uow unitofwork.UnitOfWork, userID, conversationID uuid.UUID) (*entity.Conversation, error) {
	conversation, err := uow.ConversationRepository().FindOne(ctx,
		specification.ByID{ID: conversationID},
		specification.OwnedBy{UserID: userID},
	)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if conversation == nil {
		return nil, apperror.NotFound(apperror.CodeConversationNotFound, "Conversation not found")
	}
	return conversation, nil
}

func toConversationResponse(conversation *entity.Conversation, messages []*entity.Message) *dto.ConversationResponse {
	res := &dto.ConversationResponse{
		Id:        conversation.Id,
		UserId:    conversation.UserId,
		Title:     conversation.Title,
		Model:     conversation.Model,
		Status:    string(conversation.Status),
		Metadata:  conversation.Metadata,
		CreatedAt: conversation.CreatedAt,
		UpdatedAt: conversation.UpdatedAt,
	}
	if messages != nil {
		res.Messages = make([]*dto.MessageResponse, 0, len(messages))
		for _, message := range messages {
			res.Messages = append(res.Messages, toMessageResponse(message))
		}
	}
	return res
}

func toMessageResponse(message *entity.Message) *dto.MessageResponse {
	return &dto.MessageResponse{
		Id:             message.Id,
		ConversationId: message.ConversationId,
		Role:           string(message.Role),
		Content:        message.Content,
		Tokens:         message.Tokens,
		Metadata:       message.Metadata,
		CreatedAt:      message.CreatedAt,
	}
}
