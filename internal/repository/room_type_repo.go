package repository

import (
	"context"
	"errors"
	"time"

	"guesthouse/internal/domain"

	"gorm.io/gorm"
)

type RoomTypeRepository struct {
	db *gorm.DB
}

func NewRoomTypeRepository(db *gorm.DB) *RoomTypeRepository {
	return &RoomTypeRepository{db: db}
}

type roomTypeModel struct {
	ID               int64     `gorm:"column:id;primaryKey"`
	Name             string    `gorm:"column:name;uniqueIndex"`
	DisplayName      string    `gorm:"column:display_name"`
	BasePrice        int       `gorm:"column:base_price"`
	HolidaySurcharge int       `gorm:"column:holiday_surcharge"`
	Active           bool      `gorm:"column:active;index"`
	CreatedAt        time.Time `gorm:"column:created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at"`
}

func (roomTypeModel) TableName() string { return "room_types" }

func RoomTypeModel() interface{} { return &roomTypeModel{} }

func toDomainRoomType(m roomTypeModel) *domain.RoomType {
	return &domain.RoomType{
		ID:               m.ID,
		Name:             m.Name,
		DisplayName:      m.DisplayName,
		BasePrice:        m.BasePrice,
		HolidaySurcharge: m.HolidaySurcharge,
		Active:           m.Active,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func toRoomTypeModel(rt *domain.RoomType) roomTypeModel {
	return roomTypeModel{
		ID:               rt.ID,
		Name:             rt.Name,
		DisplayName:      rt.DisplayName,
		BasePrice:        rt.BasePrice,
		HolidaySurcharge: rt.HolidaySurcharge,
		Active:           rt.Active,
		CreatedAt:        rt.CreatedAt,
		UpdatedAt:        rt.UpdatedAt,
	}
}

func (r *RoomTypeRepository) Create(ctx context.Context, rt *domain.RoomType) error {
	m := toRoomTypeModel(rt)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*rt = *toDomainRoomType(m)
	return nil
}

func (r *RoomTypeRepository) GetByID(ctx context.Context, id int64) (*domain.RoomType, error) {
	var m roomTypeModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, tx.Error
	}
	return toDomainRoomType(m), nil
}

func (r *RoomTypeRepository) List(ctx context.Context, activeOnly bool) ([]domain.RoomType, error) {
	var ms []roomTypeModel
	q := r.db.WithContext(ctx).Order("id")
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	if err := q.Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]domain.RoomType, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainRoomType(m))
	}
	return out, nil
}

func (r *RoomTypeRepository) Update(ctx context.Context, rt *domain.RoomType) error {
	m := toRoomTypeModel(rt)
	tx := r.db.WithContext(ctx).Model(&roomTypeModel{}).Where("id = ?", rt.ID).
		Updates(map[string]interface{}{
			"name":              m.Name,
			"display_name":      m.DisplayName,
			"base_price":        m.BasePrice,
			"holiday_surcharge": m.HolidaySurcharge,
			"active":            m.Active,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *RoomTypeRepository) Delete(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).Delete(&roomTypeModel{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
