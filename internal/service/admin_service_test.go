package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-gateway-be/internal/config"
	"ai-gateway-be/internal/entity"
)

func testConfig() *config.Config {
	return &config.Config{
		Ai: config.AIConfig{
			DefaultModel: "gpt-3.5-turbo",
			MaxTokens:    2000,
		},
		RateLimit: config.RateLimitConfig{
			Window:      15 * time.Minute,
			MaxRequests: 100,
		},
	}
}

func TestDashboardAggregates(t *testing.T) {
	factory := newFakeFactory()
	svc := NewAdminService(factory, testConfig(), nopLogger{})

	active := seedUser(factory.store, entity.UserRoleUser)
	banned := &entity.User{Id: uuid.New(), Username: "bob", Email: "bob@example.com", Status: entity.UserStatusBanned}
	factory.store.users = append(factory.store.users, banned)

	conversation := &entity.Conversation{Id: uuid.New(), UserId: active.Id, Status: entity.ConversationStatusActive}
	factory.store.conversations = append(factory.store.conversations, conversation)
	factory.store.messages = append(factory.store.messages,
		&entity.Message{Id: uuid.New(), ConversationId: conversation.Id, Role: entity.MessageRoleUser, Content: "q"},
		&entity.Message{Id: uuid.New(), ConversationId: conversation.Id, Role: entity.MessageRoleAssistant, Content: "a"},
	)

	today := time.Now()
	factory.store.usage = append(factory.store.usage,
		&entity.UsageRecord{Id: uuid.New(), UserId: active.Id, Model: "gpt-4", TotalTokens: 100, Cost: 0.003, Date: today},
		&entity.UsageRecord{Id: uuid.New(), UserId: active.Id, Model: "gpt-4", TotalTokens: 50, Cost: 0.0015, Date: today},
		// Outside the 7 day dashboard window, still counted in totals.
		&entity.UsageRecord{Id: uuid.New(), UserId: active.Id, Model: "gpt-4", TotalTokens: 30, Cost: 0.0009, Date: today.AddDate(0, 0, -30)},
	)

	res, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(2), res.Stats.TotalUsers)
	assert.Equal(t, int64(1), res.Stats.ActiveUsers)
	assert.Equal(t, int64(1), res.Stats.TotalConversations)
	assert.Equal(t, int64(2), res.Stats.TotalMessages)
	assert.Equal(t, int64(180), res.Stats.TotalTokens)

	require.Len(t, res.RecentUsage, 1)
	assert.Equal(t, int64(150), res.RecentUsage[0].Tokens)
	assert.Equal(t, int64(2), res.RecentUsage[0].Requests)
	assert.InDelta(t, 0.0045, res.RecentUsage[0].Cost, 1e-9)
}

func TestSettingsReflectConfig(t *testing.T) {
	factory := newFakeFactory()
	svc := NewAdminService(factory, testConfig(), nopLogger{})

	res, err := svc.Settings(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2000, res.Settings.MaxTokens)
	assert.Equal(t, "gpt-3.5-turbo", res.Settings.DefaultModel)
	assert.Equal(t, "15m0s", res.Settings.RateLimitWindow)
	assert.Equal(t, 100, res.Settings.RateLimitMax)
}
