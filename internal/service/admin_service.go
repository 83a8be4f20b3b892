package service

import (
	"context"
	"time"

	"ai-gateway-be/internal/apperror"
	"ai-gateway-be/internal/config"
	"ai-gateway-be/internal/dto"
	"ai-gateway-be/internal/entity"
	"ai-gateway-be/internal/pkg/logger"
	"ai-gateway-be/internal/repository/specification"
	"ai-gateway-be/internal/repository/unitofwork"
)

type IAdminService interface {
	Dashboard(ctx context.Context) (*dto.DashboardResponse, error)
	Settings(ctx context.Context) (*dto.SettingsResponse, error)
	Logs(ctx context.Context, query *dto.LogsQuery) ([]logger.LogEntry, error)
}

type adminService struct {
	uowFactory unitofwork.RepositoryFactory
	cfg        *config.Config
	log        logger.ILogger
}

func NewAdminService(uowFactory unitofwork.RepositoryFactory, cfg *config.Config, log logger.ILogger) IAdminService {
	return &adminService{uowFactory: uowFactory, cfg: cfg, log: log}
}

func (s *adminService) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	totalUsers, err := uow.UserRepository().Count(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	activeUsers, err := uow.UserRepository().Count(ctx, specification.ByStatus{
		Status: string(entity.UserStatusActive),
	})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	totalConversations, err := uow.ConversationRepository().Count(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	totalMessages, err := uow.MessageRepository().Count(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	totalTokens, err := uow.UsageRepository().SumTotalTokens(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	since := time.Now().AddDate(0, 0, -7)
	daily, err := uow.UsageRepository().SummarizeByDay(ctx, since)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	recentUsage := make([]*dto.DailyUsageResponse, 0, len(daily))
	for _, day := range daily {
		recentUsage = append(recentUsage, &dto.DailyUsageResponse{
			Date:     day.Date.Format("2006-01-02"),
			Tokens:   day.Tokens,
			Cost:     day.Cost,
			Requests: day.Requests,
		})
	}

	return &dto.DashboardResponse{
		Stats: dto.DashboardStats{
			TotalUsers:         totalUsers,
			ActiveUsers:        activeUsers,
			TotalConversations: totalConversations,
			TotalMessages:      totalMessages,
			TotalTokens:        totalTokens,
		},
		RecentUsage: recentUsage,
	}, nil
}

func (s *adminService) Settings(ctx context.Context) (*dto.SettingsResponse, error) {
	return &dto.SettingsResponse{
		Settings: dto.SystemSettings{
			MaxTokens:       s.cfg.Ai.MaxTokens,
			DefaultModel:    s.cfg.Ai.DefaultModel,
			RateLimitWindow: s.cfg.RateLimit.Window.String(),
			RateLimitMax:    s.cfg.RateLimit.MaxRequests,
		},
	}, nil
}

func (s *adminService) Logs(ctx context.Context, query *dto.LogsQuery) ([]logger.LogEntry, error) {
	limit := query.Limit
	if limit < 1 || limit > 500 {
		limit = 100
	}
	offset := query.Offset
	if offset < 0 {
		offset = 0
	}

	entries, err := s.log.GetLogs(query.Level, limit, offset)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return entries, nil
}
