package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"ai-gateway-be/internal/entity"
	"ai-gateway-be/internal/pkg/logger"
	"ai-gateway-be/internal/repository/contract"
	"ai-gateway-be/internal/repository/specification"
	"ai-gateway-be/internal/repository/unitofwork"
	"ai-gateway-be/pkg/llm"
)

// In-memory repositories interpreting the same specifications the gorm
// implementations translate to SQL.

type memStore struct {
	mu            sync.Mutex
	users         []*entity.User
	conversations []*entity.Conversation
	messages      []*entity.Message
	usage         []*entity.UsageRecord

	failUsageCreate bool
	begins          int
	commits         int
	rollbacks       int
}

type fakeFactory struct {
	store *memStore
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{store: &memStore{}}
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUoW{store: f.store}
}

type fakeUoW struct {
	store *memStore
	inTx  bool
}

func (u *fakeUoW) Begin(ctx context.Context) error {
	u.inTx = true
	u.store.begins++
	return nil
}

func (u *fakeUoW) Commit() error {
	if u.inTx {
		u.inTx = false
		u.store.commits++
	}
	return nil
}

func (u *fakeUoW) Rollback() error {
	if u.inTx {
		u.inTx = false
		u.store.rollbacks++
	}
	return nil
}

func (u *fakeUoW) UserRepository() contract.UserRepository {
	return &fakeUserRepo{store: u.store}
}

func (u *fakeUoW) ConversationRepository() contract.ConversationRepository {
	return &fakeConversationRepo{store: u.store}
}

func (u *fakeUoW) MessageRepository() contract.MessageRepository {
	return &fakeMessageRepo{store: u.store}
}

func (u *fakeUoW) UsageRepository() contract.UsageRepository {
	return &fakeUsageRepo{store: u.store}
}

// Users

type fakeUserRepo struct {
	store *memStore
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.store.users = append(r.store.users, user)
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	user.UpdatedAt = time.Now()
	for i, stored := range r.store.users {
		if stored.Id == user.Id {
			r.store.users[i] = user
			return nil
		}
	}
	return nil
}

func (r *fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, user := range r.store.users {
		if userMatches(user, specs) {
			return user, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []*entity.User
	for _, user := range r.store.users {
		if userMatches(user, specs) {
			result = append(result, user)
		}
	}
	return result, nil
}

func (r *fakeUserRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	users, _ := r.FindAll(ctx, specs...)
	return int64(len(users)), nil
}

func userMatches(user *entity.User, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if user.Id != s.ID {
				return false
			}
		case specification.ByEmail:
			if user.Email != s.Email {
				return false
			}
		case specification.ByUsername:
			if user.Username != s.Username {
				return false
			}
		case specification.ByEmailOrUsername:
			if user.Email != s.Email && user.Username != s.Username {
				return false
			}
		case specification.ByStatus:
			if string(user.Status) != s.Status {
				return false
			}
		}
	}
	return true
}

// Conversations

type fakeConversationRepo struct {
	store *memStore
}

func (r *fakeConversationRepo) Create(ctx context.Context, conversation *entity.Conversation) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	now := time.Now()
	conversation.CreatedAt = now
	conversation.UpdatedAt = now
	r.store.conversations = append(r.store.conversations, conversation)
	return nil
}

func (r *fakeConversationRepo) Update(ctx context.Context, conversation *entity.Conversation) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i, stored := range r.store.conversations {
		if stored.Id == conversation.Id {
			r.store.conversations[i] = conversation
			return nil
		}
	}
	return nil
}

func (r *fakeConversationRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Conversation, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, conversation := range r.store.conversations {
		if conversationMatches(conversation, specs) {
			return conversation, nil
		}
	}
	return nil, nil
}

func (r *fakeConversationRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Conversation, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []*entity.Conversation
	for _, conversation := range r.store.conversations {
		if conversationMatches(conversation, specs) {
			result = append(result, conversation)
		}
	}
	for _, spec := range specs {
		if order, ok := spec.(specification.OrderBy); ok && order.Field == "updated_at" && order.Desc {
			sort.SliceStable(result, func(i, j int) bool {
				return result[i].UpdatedAt.After(result[j].UpdatedAt)
			})
		}
	}
	return result, nil
}

func (r *fakeConversationRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	conversations, _ := r.FindAll(ctx, specs...)
	return int64(len(conversations)), nil
}

func conversationMatches(conversation *entity.Conversation, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if conversation.Id != s.ID {
				return false
			}
		case specification.OwnedBy:
			if conversation.UserId != s.UserID {
				return false
			}
		case specification.ByStatus:
			if string(conversation.Status) != s.Status {
				return false
			}
		case specification.ExcludeDeleted:
			if conversation.Status == entity.ConversationStatusDeleted {
				return false
			}
		}
	}
	return true
}

// Messages

type fakeMessageRepo struct {
	store *memStore
}

func (r *fakeMessageRepo) Create(ctx context.Context, message *entity.Message) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	message.CreatedAt = time.Now()
	r.store.messages = append(r.store.messages, message)
	return nil
}

func (r *fakeMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []*entity.Message
	for _, message := range r.store.messages {
		if messageMatches(message, specs) {
			result = append(result, message)
		}
	}
	return result, nil
}

func (r *fakeMessageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	messages, _ := r.FindAll(ctx, specs...)
	return int64(len(messages)), nil
}

func messageMatches(message *entity.Message, specs []specification.Specification) bool {
	for _, spec := range specs {
		if s, ok := spec.(specification.ByConversationID); ok {
			if message.ConversationId != s.ConversationID {
				return false
			}
		}
	}
	return true
}

// Usage

type fakeUsageRepo struct {
	store *memStore
}

type usageCreateError struct{}

func (usageCreateError) Error() string { return "usage insert failed" }

func (r *fakeUsageRepo) Create(ctx context.Context, record *entity.UsageRecord) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.failUsageCreate {
		return usageCreateError{}
	}
	record.CreatedAt = time.Now()
	r.store.usage = append(r.store.usage, record)
	return nil
}

func (r *fakeUsageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UsageRecord, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []*entity.UsageRecord
	for _, record := range r.store.usage {
		if usageMatches(record, specs) {
			result = append(result, record)
		}
	}
	return result, nil
}

func (r *fakeUsageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	records, _ := r.FindAll(ctx, specs...)
	return int64(len(records)), nil
}

func (r *fakeUsageRepo) SumTotalTokens(ctx context.Context, specs ...specification.Specification) (int64, error) {
	records, _ := r.FindAll(ctx, specs...)
	var sum int64
	for _, record := range records {
		sum += int64(record.TotalTokens)
	}
	return sum, nil
}

func (r *fakeUsageRepo) SummarizeByDay(ctx context.Context, since time.Time) ([]*contract.DailyUsage, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	byDay := make(map[string]*contract.DailyUsage)
	for _, record := range r.store.usage {
		if record.Date.Before(since) {
			continue
		}
		day := record.Date.Format("2006-01-02")
		agg, ok := byDay[day]
		if !ok {
			agg = &contract.DailyUsage{Date: record.Date}
			byDay[day] = agg
		}
		agg.Tokens += int64(record.TotalTokens)
		agg.Cost += record.Cost
		agg.Requests++
	}
	result := make([]*contract.DailyUsage, 0, len(byDay))
	for _, agg := range byDay {
		result = append(result, agg)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

func usageMatches(record *entity.UsageRecord, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.OwnedBy:
			if record.UserId != s.UserID {
				return false
			}
		case specification.ByModel:
			if record.Model != s.Model {
				return false
			}
		case specification.DateFrom:
			if record.Date.Before(s.Date) {
				return false
			}
		case specification.DateTo:
			if record.Date.After(s.Date) {
				return false
			}
		}
	}
	return true
}

// Provider fake

type providerCall struct {
	history []llm.Message
	options []llm.Option
}

type fakeProvider struct {
	mu         sync.Mutex
	calls      []providerCall
	responses  []*llm.Completion
	errs       []error
	images     []llm.Image
	imagesErr  error
	imageCalls []llm.ImageRequest
}

func (p *fakeProvider) Complete(ctx context.Context, history []llm.Message, options ...llm.Option) (*llm.Completion, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	idx := len(p.calls)
	copied := make([]llm.Message, len(history))
	copy(copied, history)
	p.calls = append(p.calls, providerCall{history: copied, options: options})

	if idx < len(p.errs) && p.errs[idx] != nil {
		return nil, p.errs[idx]
	}
	if idx < len(p.responses) {
		return p.responses[idx], nil
	}
	if len(p.responses) > 0 {
		return p.responses[len(p.responses)-1], nil
	}
	return &llm.Completion{Content: "ok", Model: "gpt-3.5-turbo", TotalTokens: 1}, nil
}

func (p *fakeProvider) GenerateImages(ctx context.Context, req llm.ImageRequest) ([]llm.Image, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.imageCalls = append(p.imageCalls, req)
	if p.imagesErr != nil {
		return nil, p.imagesErr
	}
	return p.images, nil
}

// Logger fake

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

func (nopLogger) GetLogs(level string, limit, offset int) ([]logger.LogEntry, error) {
	return nil, nil
}

func seedUser(store *memStore, role entity.UserRole) *entity.User {
	user := &entity.User{
		Id:       uuid.New(),
		Username: "alice",
		Email:    "alice@example.com",
		Role:     role,
		Status:   entity.UserStatusActive,
	}
	store.users = append(store.users, user)
	return user
}
