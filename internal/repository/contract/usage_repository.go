package contract

import (
	"context"
	"time"

	"ai-gateway-be/internal/entity"
	"ai-gateway-be/internal/repository/specification"
)

// DailyUsage is a per-calendar-day aggregation row for dashboards.
type DailyUsage struct {
	Date     time.Time
	Tokens   int64
	Cost     float64
	Requests int64
}

type UsageRepository interface {
	Create(ctx context.Context, record *entity.UsageRecord) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UsageRecord, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	SumTotalTokens(ctx context.Context, specs ...specification.Specification) (int64, error)
	SummarizeByDay(ctx context.Context, since time.Time) ([]*DailyUsage, error)
}
