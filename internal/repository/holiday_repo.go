package repository

import (
	"context"
	"time"

	"guesthouse/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type HolidayRepository struct {
	db *gorm.DB
}

func NewHolidayRepository(db *gorm.DB) *HolidayRepository {
	return &HolidayRepository{db: db}
}

type holidayModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	Date      time.Time `gorm:"column:date;uniqueIndex"`
	Name      string    `gorm:"column:name"`
	IsHoliday bool      `gorm:"column:is_holiday"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (holidayModel) TableName() string { return "holidays" }

func HolidayModel() interface{} { return &holidayModel{} }

func toDomainHoliday(m holidayModel) domain.Holiday {
	return domain.Holiday{
		ID:        m.ID,
		Date:      m.Date,
		Name:      m.Name,
		IsHoliday: m.IsHoliday,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// Upsert writes an override keyed by date; editing the same date replaces it.
func (r *HolidayRepository) Upsert(ctx context.Context, h *domain.Holiday) error {
	m := holidayModel{
		Date:      h.Date,
		Name:      h.Name,
		IsHoliday: h.IsHoliday,
	}
	tx := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "is_holiday", "updated_at"}),
	}).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*h = toDomainHoliday(m)
	return nil
}

// ListBetween returns overrides for [from, to), the pricing engine's
// calendar window.
func (r *HolidayRepository) ListBetween(ctx context.Context, from, to time.Time) ([]domain.Holiday, error) {
	var ms []holidayModel
	tx := r.db.WithContext(ctx).
		Where("date >= ? AND date < ?", from, to).
		Order("date").
		Find(&ms)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.Holiday, 0, len(ms))
	for _, m := range ms {
		out = append(out, toDomainHoliday(m))
	}
	return out, nil
}

func (r *HolidayRepository) Delete(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).Delete(&holidayModel{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
