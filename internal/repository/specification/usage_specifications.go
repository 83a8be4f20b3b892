package specification

import (
	"time"

	"gorm.io/gorm"
)

type DateFrom struct {
	Date time.Time
}

func (s DateFrom) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("date >= ?", s.Date)
}

type DateTo struct {
	Date time.Time
}

func (s DateTo) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("date <= ?", s.Date)
}

type ByModel struct {
	Model string
}

func (s ByModel) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("model = ?", s.Model)
}
