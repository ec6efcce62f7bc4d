package repository

import (
	"context"
	"errors"
	"time"

	"guesthouse/internal/domain"

	"gorm.io/gorm"
)

type PromoCodeRepository struct {
	db *gorm.DB
}

func NewPromoCodeRepository(db *gorm.DB) *PromoCodeRepository {
	return &PromoCodeRepository{db: db}
}

type promoCodeModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	Code      string    `gorm:"column:code;uniqueIndex"`
	Discount  int       `gorm:"column:discount"`
	Active    bool      `gorm:"column:active"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (promoCodeModel) TableName() string { return "promo_codes" }

func PromoCodeModel() interface{} { return &promoCodeModel{} }

func (r *PromoCodeRepository) GetActiveByCode(ctx context.Context, code string) (*domain.PromoCode, error) {
	var m promoCodeModel
	tx := r.db.WithContext(ctx).Where("code = ? AND active = ?", code, true).First(&m)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, tx.Error
	}
	return &domain.PromoCode{
		ID: m.ID, Code: m.Code, Discount: m.Discount, Active: m.Active,
		CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
	}, nil
}

func (r *PromoCodeRepository) Save(ctx context.Context, p *domain.PromoCode) error {
	m := promoCodeModel{ID: p.ID, Code: p.Code, Discount: p.Discount, Active: p.Active}
	if m.ID == 0 {
		if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
			return err
		}
		p.ID = m.ID
		return nil
	}
	tx := r.db.WithContext(ctx).Model(&promoCodeModel{}).Where("id = ?", m.ID).
		Updates(map[string]interface{}{"code": m.Code, "discount": m.Discount, "active": m.Active})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
