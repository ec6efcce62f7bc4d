package booking

import (
	"context"
	"time"

	"guesthouse/internal/domain"
)

// BookingStore is the persistence collaborator; conditional updates keep the
// status machines monotonic at the store, not just in memory.
type BookingStore interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByCode(ctx context.Context, code string) (*domain.Booking, error)
	CountOverlapping(ctx context.Context, roomTypeID int64, checkIn, checkOut time.Time) (int64, error)
	MarkPaid(ctx context.Context, code string, paidAt time.Time) (bool, error)
	Cancel(ctx context.Context, code string, at time.Time) (bool, error)
	UpdateFields(ctx context.Context, code string, fields map[string]interface{}) error
	DeleteCancelled(ctx context.Context, code string) (bool, error)
}

type RoomTypeStore interface {
	GetByID(ctx context.Context, id int64) (*domain.RoomType, error)
}

type HolidayStore interface {
	ListBetween(ctx context.Context, from, to time.Time) ([]domain.Holiday, error)
}

type PromoStore interface {
	GetActiveByCode(ctx context.Context, code string) (*domain.PromoCode, error)
}

// NotificationSender delivers the confirmation mail; failures are reported,
// never fatal to booking persistence.
type NotificationSender interface {
	SendTemplate(ctx context.Context, key domain.TemplateKey, b *domain.Booking) error
}

// Settings is the configuration slice the state machine consumes, fetched
// per call so there is no hidden cached process state.
type Settings struct {
	DepositRate     float64
	DepositEnabled  bool
	ReservedDays    int
	BankInfo        string
	TransferEnabled bool
	CardEnabled     bool
	HolidayWeekdays []time.Weekday
}

func (s Settings) MethodEnabled(m domain.PaymentMethod) bool {
	switch m {
	case domain.MethodTransfer:
		return s.TransferEnabled
	case domain.MethodCard:
		return s.CardEnabled
	}
	return false
}

type SettingsSource interface {
	Current() Settings
}

// StaticSettings is a SettingsSource backed by a fixed value.
type StaticSettings Settings

func (s StaticSettings) Current() Settings { return Settings(s) }
