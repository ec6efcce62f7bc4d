package repository

import (
	"context"
	"errors"
	"time"

	"guesthouse/internal/domain"

	"gorm.io/gorm"
)

type EmailTemplateRepository struct {
	db *gorm.DB
}

func NewEmailTemplateRepository(db *gorm.DB) *EmailTemplateRepository {
	return &EmailTemplateRepository{db: db}
}

type emailTemplateModel struct {
	ID         int64     `gorm:"column:id;primaryKey"`
	Key        string    `gorm:"column:key;uniqueIndex"`
	Enabled    bool      `gorm:"column:enabled"`
	Subject    string    `gorm:"column:subject"`
	Body       string    `gorm:"column:body;type:text"`
	OffsetDays int       `gorm:"column:offset_days"`
	SendHour   int       `gorm:"column:send_hour"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (emailTemplateModel) TableName() string { return "email_templates" }

func EmailTemplateModel() interface{} { return &emailTemplateModel{} }

func toDomainTemplate(m emailTemplateModel) *domain.EmailTemplate {
	return &domain.EmailTemplate{
		ID:         m.ID,
		Key:        domain.TemplateKey(m.Key),
		Enabled:    m.Enabled,
		Subject:    m.Subject,
		Body:       m.Body,
		OffsetDays: m.OffsetDays,
		SendHour:   m.SendHour,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func (r *EmailTemplateRepository) GetByKey(ctx context.Context, key domain.TemplateKey) (*domain.EmailTemplate, error) {
	var m emailTemplateModel
	tx := r.db.WithContext(ctx).Where("key = ?", string(key)).First(&m)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, tx.Error
	}
	return toDomainTemplate(m), nil
}

func (r *EmailTemplateRepository) List(ctx context.Context) ([]domain.EmailTemplate, error) {
	var ms []emailTemplateModel
	if err := r.db.WithContext(ctx).Order("key").Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]domain.EmailTemplate, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainTemplate(m))
	}
	return out, nil
}

func (r *EmailTemplateRepository) Save(ctx context.Context, t *domain.EmailTemplate) error {
	m := emailTemplateModel{
		ID:         t.ID,
		Key:        string(t.Key),
		Enabled:    t.Enabled,
		Subject:    t.Subject,
		Body:       t.Body,
		OffsetDays: t.OffsetDays,
		SendHour:   t.SendHour,
	}
	if m.ID == 0 {
		if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
			return err
		}
		*t = *toDomainTemplate(m)
		return nil
	}
	tx := r.db.WithContext(ctx).Model(&emailTemplateModel{}).Where("id = ?", m.ID).
		Updates(map[string]interface{}{
			"enabled":     m.Enabled,
			"subject":     m.Subject,
			"body":        m.Body,
			"offset_days": m.OffsetDays,
			"send_hour":   m.SendHour,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
