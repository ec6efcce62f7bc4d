package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"guesthouse/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicateBooking = errors.New("duplicate booking constraint violation")
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID   int64  `gorm:"column:id;primaryKey"`
	Code string `gorm:"column:code;uniqueIndex;size:16"`

	CheckIn  time.Time `gorm:"column:check_in;index"`
	CheckOut time.Time `gorm:"column:check_out;index"`

	GuestName  string `gorm:"column:guest_name"`
	GuestPhone string `gorm:"column:guest_phone"`
	GuestEmail string `gorm:"column:guest_email"`

	RoomTypeID int64  `gorm:"column:room_type_id;index"`
	RoomName   string `gorm:"column:room_name"`

	Addons    string `gorm:"column:addons;type:text"`
	PromoCode string `gorm:"column:promo_code"`

	PricePerNight int `gorm:"column:price_per_night"`
	Nights        int `gorm:"column:nights"`
	TotalAmount   int `gorm:"column:total_amount"`
	Discount      int `gorm:"column:discount"`
	FinalAmount   int `gorm:"column:final_amount"`

	PaymentMethod string `gorm:"column:payment_method"`
	PaymentStatus string `gorm:"column:payment_status;index"`
	Status        string `gorm:"column:status;index"`

	BankInfo  string `gorm:"column:bank_info;type:text"`
	EmailSent bool   `gorm:"column:email_sent"`

	PaymentReminderSent bool `gorm:"column:payment_reminder_sent"`
	CheckinReminderSent bool `gorm:"column:checkin_reminder_sent"`
	FeedbackRequestSent bool `gorm:"column:feedback_request_sent"`

	CreatedAt   time.Time  `gorm:"column:created_at;index"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
	CancelledAt *time.Time `gorm:"column:cancelled_at"`
	PaidAt      *time.Time `gorm:"column:paid_at"`
}

func (bookingModel) TableName() string { return "bookings" }

// BookingModel is exported for AutoMigrate only.
func BookingModel() interface{} { return &bookingModel{} }

func toDomainBooking(m bookingModel) *domain.Booking {
	var addons []domain.Addon
	if m.Addons != "" {
		_ = json.Unmarshal([]byte(m.Addons), &addons)
	}

	return &domain.Booking{
		ID:                  m.ID,
		Code:                m.Code,
		CheckIn:             m.CheckIn,
		CheckOut:            m.CheckOut,
		GuestName:           m.GuestName,
		GuestPhone:          m.GuestPhone,
		GuestEmail:          m.GuestEmail,
		RoomTypeID:          m.RoomTypeID,
		RoomName:            m.RoomName,
		Addons:              addons,
		PromoCode:           m.PromoCode,
		PricePerNight:       m.PricePerNight,
		Nights:              m.Nights,
		TotalAmount:         m.TotalAmount,
		Discount:            m.Discount,
		FinalAmount:         m.FinalAmount,
		PaymentMethod:       domain.PaymentMethod(m.PaymentMethod),
		PaymentStatus:       domain.PaymentStatus(m.PaymentStatus),
		Status:              domain.BookingStatus(m.Status),
		BankInfo:            m.BankInfo,
		EmailSent:           m.EmailSent,
		PaymentReminderSent: m.PaymentReminderSent,
		CheckinReminderSent: m.CheckinReminderSent,
		FeedbackRequestSent: m.FeedbackRequestSent,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
		CancelledAt:         m.CancelledAt,
		PaidAt:              m.PaidAt,
	}
}

func toBookingModel(b *domain.Booking) bookingModel {
	var addons string
	if len(b.Addons) > 0 {
		raw, _ := json.Marshal(b.Addons)
		addons = string(raw)
	}

	return bookingModel{
		ID:                  b.ID,
		Code:                b.Code,
		CheckIn:             b.CheckIn,
		CheckOut:            b.CheckOut,
		GuestName:           b.GuestName,
		GuestPhone:          b.GuestPhone,
		GuestEmail:          b.GuestEmail,
		RoomTypeID:          b.RoomTypeID,
		RoomName:            b.RoomName,
		Addons:              addons,
		PromoCode:           b.PromoCode,
		PricePerNight:       b.PricePerNight,
		Nights:              b.Nights,
		TotalAmount:         b.TotalAmount,
		Discount:            b.Discount,
		FinalAmount:         b.FinalAmount,
		PaymentMethod:       string(b.PaymentMethod),
		PaymentStatus:       string(b.PaymentStatus),
		Status:              string(b.Status),
		BankInfo:            b.BankInfo,
		EmailSent:           b.EmailSent,
		PaymentReminderSent: b.PaymentReminderSent,
		CheckinReminderSent: b.CheckinReminderSent,
		FeedbackRequestSent: b.FeedbackRequestSent,
		CreatedAt:           b.CreatedAt,
		UpdatedAt:           b.UpdatedAt,
		CancelledAt:         b.CancelledAt,
		PaidAt:              b.PaidAt,
	}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	m := toBookingModel(b)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		var pgErr *pgconn.PgError
		if errors.As(tx.Error, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateBooking
		}
		return tx.Error
	}
	*b = *toDomainBooking(m)
	return nil
}

func (r *BookingRepository) GetByCode(ctx context.Context, code string) (*domain.Booking, error) {
	var m bookingModel
	tx := r.db.WithContext(ctx).Where("code = ?", code).First(&m)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, tx.Error
	}
	return toDomainBooking(m), nil
}

// CountOverlapping counts live bookings of a room type intersecting
// [checkIn, checkOut). Callers must hold the room-type lock to make
// check-then-insert atomic.
func (r *BookingRepository) CountOverlapping(ctx context.Context, roomTypeID int64, checkIn, checkOut time.Time) (int64, error) {
	var n int64
	tx := r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("room_type_id = ? AND status <> ? AND check_in < ? AND check_out > ?",
			roomTypeID, string(domain.BookingCancelled), checkOut, checkIn).
		Count(&n)
	return n, tx.Error
}

// MarkPaid flips payment_status pending→paid and promotes reserved→active in
// one conditional UPDATE. Returns false when the booking was already paid, so
// callbacks retried by the gateway stay side-effect free.
func (r *BookingRepository) MarkPaid(ctx context.Context, code string, paidAt time.Time) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("code = ? AND payment_status = ?", code, string(domain.PaymentPending)).
		Updates(map[string]interface{}{
			"payment_status": string(domain.PaymentPaid),
			"status": gorm.Expr(
				"CASE WHEN status = ? THEN ? ELSE status END",
				string(domain.BookingReserved), string(domain.BookingActive)),
			"paid_at": paidAt,
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// Cancel is conditional the same way: cancelled is terminal, a second call
// affects zero rows.
func (r *BookingRepository) Cancel(ctx context.Context, code string, at time.Time) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("code = ? AND status <> ?", code, string(domain.BookingCancelled)).
		Updates(map[string]interface{}{
			"status":       string(domain.BookingCancelled),
			"cancelled_at": at,
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *BookingRepository) UpdateFields(ctx context.Context, code string, fields map[string]interface{}) error {
	tx := r.db.WithContext(ctx).Model(&bookingModel{}).Where("code = ?", code).Updates(fields)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCancelled hard-deletes a booking only when it is already cancelled.
func (r *BookingRepository) DeleteCancelled(ctx context.Context, code string) (bool, error) {
	tx := r.db.WithContext(ctx).
		Where("code = ? AND status = ?", code, string(domain.BookingCancelled)).
		Delete(&bookingModel{})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// SetSentFlag marks one notification type as delivered. The WHERE clause on
// the flag itself makes the operation at-most-once under concurrent jobs.
func (r *BookingRepository) SetSentFlag(ctx context.Context, code, flagColumn string) (bool, error) {
	switch flagColumn {
	case "payment_reminder_sent", "checkin_reminder_sent", "feedback_request_sent":
	default:
		return false, errors.New("unknown sent flag: " + flagColumn)
	}
	tx := r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("code = ? AND "+flagColumn+" = ?", code, false).
		Update(flagColumn, true)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *BookingRepository) ListAll(ctx context.Context, limit, offset int) ([]domain.Booking, error) {
	var ms []bookingModel
	tx := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Offset(offset).Find(&ms)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBookings(ms), nil
}

// ListPendingTransfersCreatedBetween returns reserved+pending transfer
// bookings created in [from, to), the payment-reminder candidates for the
// day whose hold deadline lands on "today".
func (r *BookingRepository) ListPendingTransfersCreatedBetween(ctx context.Context, from, to time.Time) ([]domain.Booking, error) {
	var ms []bookingModel
	tx := r.db.WithContext(ctx).
		Where("status = ? AND payment_status = ? AND payment_method = ? AND created_at >= ? AND created_at < ?",
			string(domain.BookingReserved), string(domain.PaymentPending),
			string(domain.MethodTransfer), from, to).
		Find(&ms)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBookings(ms), nil
}

// ListByCheckinBetween returns live bookings whose check-in falls in [from, to).
func (r *BookingRepository) ListByCheckinBetween(ctx context.Context, from, to time.Time) ([]domain.Booking, error) {
	var ms []bookingModel
	tx := r.db.WithContext(ctx).
		Where("status <> ? AND check_in >= ? AND check_in < ?",
			string(domain.BookingCancelled), from, to).
		Find(&ms)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBookings(ms), nil
}

// ListActiveByCheckoutBetween returns active bookings whose check-out falls
// in [from, to), the feedback-request candidates.
func (r *BookingRepository) ListActiveByCheckoutBetween(ctx context.Context, from, to time.Time) ([]domain.Booking, error) {
	var ms []bookingModel
	tx := r.db.WithContext(ctx).
		Where("status = ? AND check_out >= ? AND check_out < ?",
			string(domain.BookingActive), from, to).
		Find(&ms)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBookings(ms), nil
}

// ListExpiredTransfers returns reserved+pending transfer bookings created
// before the cutoff, i.e. past their hold deadline.
func (r *BookingRepository) ListExpiredTransfers(ctx context.Context, createdBefore time.Time) ([]domain.Booking, error) {
	var ms []bookingModel
	tx := r.db.WithContext(ctx).
		Where("status = ? AND payment_status = ? AND payment_method = ? AND created_at < ?",
			string(domain.BookingReserved), string(domain.PaymentPending),
			string(domain.MethodTransfer), createdBefore).
		Find(&ms)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBookings(ms), nil
}

func toDomainBookings(ms []bookingModel) []domain.Booking {
	out := make([]domain.Booking, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainBooking(m))
	}
	return out
}
