package repository

import (
	"context"
	"errors"
	"time"

	"guesthouse/internal/domain"

	"gorm.io/gorm"
)

type GatewayPaymentRepository struct {
	db *gorm.DB
}

func NewGatewayPaymentRepository(db *gorm.DB) *GatewayPaymentRepository {
	return &GatewayPaymentRepository{db: db}
}

type gatewayPaymentModel struct {
	ID            int64      `gorm:"column:id;primaryKey"`
	BookingCode   string     `gorm:"column:booking_code;index"`
	TradeNo       string     `gorm:"column:trade_no;uniqueIndex"`
	Amount        int        `gorm:"column:amount"`
	Description   string     `gorm:"column:description;type:text"`
	Status        string     `gorm:"column:status;index"`
	CheckValue    string     `gorm:"column:check_value"`
	ResultRawBody string     `gorm:"column:result_raw_body;type:text"`
	ReturnRawBody string     `gorm:"column:return_raw_body;type:text"`
	FailureReason string     `gorm:"column:failure_reason;type:text"`
	PaidAt        *time.Time `gorm:"column:paid_at"`
	CreatedAt     time.Time  `gorm:"column:created_at"`
	UpdatedAt     time.Time  `gorm:"column:updated_at"`
}

func (gatewayPaymentModel) TableName() string { return "gateway_payments" }

func GatewayPaymentModel() interface{} { return &gatewayPaymentModel{} }

func toDomainGatewayPayment(m gatewayPaymentModel) *domain.GatewayPayment {
	return &domain.GatewayPayment{
		ID:            m.ID,
		BookingCode:   m.BookingCode,
		TradeNo:       m.TradeNo,
		Amount:        m.Amount,
		Description:   m.Description,
		Status:        domain.GatewayPaymentStatus(m.Status),
		CheckValue:    m.CheckValue,
		ResultRawBody: m.ResultRawBody,
		ReturnRawBody: m.ReturnRawBody,
		FailureReason: m.FailureReason,
		PaidAt:        m.PaidAt,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func (r *GatewayPaymentRepository) Create(ctx context.Context, p *domain.GatewayPayment) error {
	m := gatewayPaymentModel{
		BookingCode: p.BookingCode,
		TradeNo:     p.TradeNo,
		Amount:      p.Amount,
		Description: p.Description,
		Status:      string(p.Status),
		CheckValue:  p.CheckValue,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*p = *toDomainGatewayPayment(m)
	return nil
}

func (r *GatewayPaymentRepository) GetByTradeNo(ctx context.Context, tradeNo string) (*domain.GatewayPayment, error) {
	var m gatewayPaymentModel
	tx := r.db.WithContext(ctx).Where("trade_no = ?", tradeNo).First(&m)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, tx.Error
	}
	return toDomainGatewayPayment(m), nil
}

// MarkPaidIdempotent transitions created/failed → paid once; a retried
// callback affects zero rows and reports changed=false.
func (r *GatewayPaymentRepository) MarkPaidIdempotent(ctx context.Context, tradeNo, rawBody string, paidAt time.Time) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&gatewayPaymentModel{}).
		Where("trade_no = ? AND status <> ?", tradeNo, string(domain.GatewayPaid)).
		Updates(map[string]interface{}{
			"status":          string(domain.GatewayPaid),
			"result_raw_body": rawBody,
			"paid_at":         paidAt,
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *GatewayPaymentRepository) MarkFailed(ctx context.Context, tradeNo, rawBody, reason string) error {
	return r.db.WithContext(ctx).Model(&gatewayPaymentModel{}).
		Where("trade_no = ? AND status <> ?", tradeNo, string(domain.GatewayPaid)).
		Updates(map[string]interface{}{
			"status":          string(domain.GatewayFailed),
			"result_raw_body": rawBody,
			"failure_reason":  reason,
		}).Error
}

func (r *GatewayPaymentRepository) SaveReturnRawBody(ctx context.Context, tradeNo, rawBody string) error {
	return r.db.WithContext(ctx).Model(&gatewayPaymentModel{}).
		Where("trade_no = ?", tradeNo).
		Update("return_raw_body", rawBody).Error
}
