package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-gateway-be/internal/apperror"
	"ai-gateway-be/internal/dto"
	"ai-gateway-be/internal/entity"
)

func TestCreateConversationDefaultsModel(t *testing.T) {
	factory := newFakeFactory()
	svc := NewConversationService(factory, "gpt-3.5-turbo")
	userID := uuid.New()

	res, err := svc.Create(context.Background(), userID, &dto.CreateConversationRequest{
		Title: "my chat",
	})
	require.NoError(t, err)

	assert.Equal(t, "my chat", res.Title)
	assert.Equal(t, "gpt-3.5-turbo", res.Model)
	assert.Equal(t, "active", res.Status)
	assert.Equal(t, userID, res.UserId)
}

func TestCreateConversationUsesConfiguredDefaultModel(t *testing.T) {
	factory := newFakeFactory()
	svc := NewConversationService(factory, "gpt-4-turbo")

	res, err := svc.Create(context.Background(), uuid.New(), &dto.CreateConversationRequest{
		Title: "my chat",
	})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4-turbo", res.Model)

	res, err = svc.Create(context.Background(), uuid.New(), &dto.CreateConversationRequest{
		Title: "explicit",
		Model: "gpt-4",
	})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4", res.Model)
}

func TestGetConversationIncludesMessagesInOrder(t *testing.T) {
	factory := newFakeFactory()
	svc := NewConversationService(factory, "gpt-3.5-turbo")
	userID := uuid.New()

	conversation := &entity.Conversation{
		Id:     uuid.New(),
		UserId: userID,
		Title:  "chat",
		Status: entity.ConversationStatusActive,
	}
	factory.store.conversations = append(factory.store.conversations, conversation)
	factory.store.messages = append(factory.store.messages,
		&entity.Message{Id: uuid.New(), ConversationId: conversation.Id, Role: entity.MessageRoleUser, Content: "q"},
		&entity.Message{Id: uuid.New(), ConversationId: conversation.Id, Role: entity.MessageRoleAssistant, Content: "a"},
	)

	res, err := svc.Get(context.Background(), userID, conversation.Id)
	require.NoError(t, err)

	require.Len(t, res.Messages, 2)
	assert.Equal(t, "q", res.Messages[0].Content)
	assert.Equal(t, "a", res.Messages[1].Content)
}

func TestGetForeignConversationIsNotFound(t *testing.T) {
	factory := newFakeFactory()
	svc := NewConversationService(factory, "gpt-3.5-turbo")

	conversation := &entity.Conversation{
		Id:     uuid.New(),
		UserId: uuid.New(),
		Status: entity.ConversationStatusActive,
	}
	factory.store.conversations = append(factory.store.conversations, conversation)

	_, err := svc.Get(context.Background(), uuid.New(), conversation.Id)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeConversationNotFound, apperror.From(err).Code)
}

func TestListFiltersByStatusAndOwner(t *testing.T) {
	factory := newFakeFactory()
	svc := NewConversationService(factory, "gpt-3.5-turbo")
	userID := uuid.New()

	factory.store.conversations = append(factory.store.conversations,
		&entity.Conversation{Id: uuid.New(), UserId: userID, Title: "active one", Status: entity.ConversationStatusActive},
		&entity.Conversation{Id: uuid.New(), UserId: userID, Title: "archived one", Status: entity.ConversationStatusArchived},
		&entity.Conversation{Id: uuid.New(), UserId: userID, Title: "deleted one", Status: entity.ConversationStatusDeleted},
		&entity.Conversation{Id: uuid.New(), UserId: uuid.New(), Title: "someone else's", Status: entity.ConversationStatusActive},
	)

	res, err := svc.List(context.Background(), userID, &dto.ListConversationsQuery{})
	require.NoError(t, err)

	// Default listing shows only the caller's active conversations.
	require.Len(t, res.Conversations, 1)
	assert.Equal(t, "active one", res.Conversations[0].Title)
	assert.Equal(t, int64(1), res.Pagination.Total)

	archived, err := svc.List(context.Background(), userID, &dto.ListConversationsQuery{Status: "archived"})
	require.NoError(t, err)
	require.Len(t, archived.Conversations, 1)
	assert.Equal(t, "archived one", archived.Conversations[0].Title)
}

func TestUpdateConversationStatusTransitions(t *testing.T) {
	factory := newFakeFactory()
	svc := NewConversationService(factory, "gpt-3.5-turbo")
	userID := uuid.New()

	conversation := &entity.Conversation{
		Id:     uuid.New(),
		UserId: userID,
		Title:  "chat",
		Status: entity.ConversationStatusActive,
	}
	factory.store.conversations = append(factory.store.conversations, conversation)

	archived := "archived"
	res, err := svc.Update(context.Background(), userID, conversation.Id, &dto.UpdateConversationRequest{Status: &archived})
	require.NoError(t, err)
	assert.Equal(t, "archived", res.Status)

	// Deleted is terminal.
	deleted := "deleted"
	_, err = svc.Update(context.Background(), userID, conversation.Id, &dto.UpdateConversationRequest{Status: &deleted})
	require.NoError(t, err)

	active := "active"
	_, err = svc.Update(context.Background(), userID, conversation.Id, &dto.UpdateConversationRequest{Status: &active})
	require.Error(t, err)
	assert.Equal(t, apperror.CodeInvalidStatus, apperror.From(err).Code)
}

func TestDeleteConversationIsSoftAndIdempotent(t *testing.T) {
	factory := newFakeFactory()
	svc := NewConversationService(factory, "gpt-3.5-turbo")
	userID := uuid.New()

	conversation := &entity.Conversation{
		Id:     uuid.New(),
		UserId: userID,
		Title:  "chat",
		Status: entity.ConversationStatusActive,
	}
	factory.store.conversations = append(factory.store.conversations, conversation)

	require.NoError(t, svc.Delete(context.Background(), userID, conversation.Id))
	assert.Equal(t, entity.ConversationStatusDeleted, factory.store.conversations[0].Status)

	// Row survives for audit; deleting again is a no-op.
	require.Len(t, factory.store.conversations, 1)
	require.NoError(t, svc.Delete(context.Background(), userID, conversation.Id))
}

func TestUpdateTitlePreservesOtherFields(t *testing.T) {
	factory := newFakeFactory()
	svc := NewConversationService(factory, "gpt-3.5-turbo")
	userID := uuid.New()

	conversation := &entity.Conversation{
		Id:       uuid.New(),
		UserId:   userID,
		Title:    "old title",
		Model:    "gpt-4",
		Status:   entity.ConversationStatusActive,
		Metadata: map[string]interface{}{"pinned": true},
	}
	factory.store.conversations = append(factory.store.conversations, conversation)

	newTitle := "new title"
	res, err := svc.Update(context.Background(), userID, conversation.Id, &dto.UpdateConversationRequest{Title: &newTitle})
	require.NoError(t, err)

	assert.Equal(t, "new title", res.Title)
	assert.Equal(t, "gpt-4", res.Model)
	assert.Equal(t, "active", res.Status)
	assert.Equal(t, true, res.Metadata["pinned"])
}
