package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"ai-gateway-be/internal/apperror"
	"ai-gateway-be/internal/dto"
	"ai-gateway-be/internal/entity"
	"ai-gateway-be/internal/pkg/logger"
	"ai-gateway-be/internal/repository/specification"
	"ai-gateway-be/internal/repository/unitofwork"
	"ai-gateway-be/pkg/events"
	pktNats "ai-gateway-be/pkg/nats"
)

type IUsageService interface {
	Record(ctx context.Context, record *entity.UsageRecord) error
	Query(ctx context.Context, userID uuid.UUID, query *dto.UsageQuery) (*dto.UsageResponse, error)
}

type usageService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher *pktNats.Publisher
	log            logger.ILogger
}

func NewUsageService(
	uowFactory unitofwork.RepositoryFactory,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IUsageService {
	return &usageService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

// Record writes one immutable billing entry. TotalTokens is always
// recomputed from the component counts so the ledger cannot drift from
// its parts.
func (s *usageService) Record(ctx context.Context, record *entity.UsageRecord) error {
	record.TotalTokens = record.PromptTokens + record.CompletionTokens
	if record.Cost < 0 {
		record.Cost = 0
	}
	if record.Id == uuid.Nil {
		record.Id = uuid.New()
	}
	if record.Date.IsZero() {
		record.Date = time.Now()
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.UsageRepository().Create(ctx, record); err != nil {
		return apperror.Internal(err)
	}

	if s.eventPublisher != nil {
		event := events.BaseEvent{
			Type: events.TypeUsageRecorded,
			Data: map[string]interface{}{
				"userId":      record.UserId.String(),
				"model":       record.Model,
				"totalTokens": record.TotalTokens,
				"cost":        record.Cost,
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.log.Warn("usage", "Failed to publish usage event", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	return nil
}

func (s *usageService) Query(ctx context.Context, userID uuid.UUID, query *dto.UsageQuery) (*dto.UsageResponse, error) {
	specs := []specification.Specification{
		specification.OwnedBy{UserID: userID},
	}
	if query.StartDate != "" {
		from, err := time.Parse("2006-01-02", query.StartDate)
		if err != nil {
			return nil, apperror.Validation("startDate must be YYYY-MM-DD")
		}
		specs = append(specs, specification.DateFrom{Date: from})
	}
	if query.EndDate != "" {
		to, err := time.Parse("2006-01-02", query.EndDate)
		if err != nil {
			return nil, apperror.Validation("endDate must be YYYY-MM-DD")
		}
		specs = append(specs, specification.DateTo{Date: to})
	}
	if query.Model != "" {
		specs = append(specs, specification.ByModel{Model: query.Model})
	}
	specs = append(specs, specification.OrderBy{Field: "date", Desc: true})

	uow := s.uowFactory.NewUnitOfWork(ctx)
	records, err := uow.UsageRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	result := make([]*dto.UsageRecordResponse, 0, len(records))
	summary := dto.UsageSummary{}
	for _, record := range records {
		summary.TotalTokens += record.TotalTokens
		summary.TotalCost += record.Cost
		summary.TotalRequests++
		result = append(result, &dto.UsageRecordResponse{
			Id:               record.Id,
			UserId:           record.UserId,
			Model:            record.Model,
			PromptTokens:     record.PromptTokens,
			CompletionTokens: record.CompletionTokens,
			TotalTokens:      record.TotalTokens,
			Cost:             record.Cost,
			Date:             record.Date.Format("2006-01-02"),
			CreatedAt:        record.CreatedAt,
		})
	}

	return &dto.UsageResponse{Usage: result, Summary: summary}, nil
}
