package mapper

import (
	"ai-gateway-be/internal/entity"
	"ai-gateway-be/internal/model"
)

type UsageMapper struct{}

func NewUsageMapper() *UsageMapper {
	return &UsageMapper{}
}

func (m *UsageMapper) ToEntity(r *model.UsageRecord) *entity.UsageRecord {
	if r == nil {
		return nil
	}

	return &entity.UsageRecord{
		Id:               r.Id,
		UserId:           r.UserId,
		Model:            r.Model,
		PromptTokens:     r.PromptTokens,
		CompletionTokens: r.CompletionTokens,
		TotalTokens:      r.TotalTokens,
		Cost:             r.Cost,
		Date:             r.Date,
		CreatedAt:        r.CreatedAt,
	}
}

func (m *UsageMapper) ToModel(r *entity.UsageRecord) *model.UsageRecord {
	if r == nil {
		return nil
	}

	return &model.UsageRecord{
		Id:               r.Id,
		UserId:           r.UserId,
		Model:            r.Model,
		PromptTokens:     r.PromptTokens,
		CompletionTokens: r.CompletionTokens,
		TotalTokens:      r.TotalTokens,
		Cost:             r.Cost,
		Date:             r.Date,
		CreatedAt:        r.CreatedAt,
	}
}

func (m *UsageMapper) ToEntities(models []*model.UsageRecord) []*entity.UsageRecord {
	entities := make([]*entity.UsageRecord, len(models))
	for i, r := range models {
		entities[i] = m.ToEntity(r)
	}
	return entities
}
