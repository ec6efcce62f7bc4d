package admin

import (
	"context"
	"time"

	"guesthouse/internal/domain"
	"guesthouse/internal/modules/booking"
)

// bookingService is the slice of the booking state machine the admin
// surface drives; transitions stay behind the same rules as everywhere else.
type bookingService interface {
	GetByCode(ctx context.Context, code string) (*domain.Booking, error)
	Update(ctx context.Context, code string, req booking.UpdateBookingRequest) (*domain.Booking, error)
	Delete(ctx context.Context, code string) error
}

type bookingLister interface {
	ListAll(ctx context.Context, limit, offset int) ([]domain.Booking, error)
}

type roomTypeStore interface {
	Create(ctx context.Context, rt *domain.RoomType) error
	GetByID(ctx context.Context, id int64) (*domain.RoomType, error)
	List(ctx context.Context, activeOnly bool) ([]domain.RoomType, error)
	Update(ctx context.Context, rt *domain.RoomType) error
	Delete(ctx context.Context, id int64) error
}

type holidayStore interface {
	Upsert(ctx context.Context, h *domain.Holiday) error
	ListBetween(ctx context.Context, from, to time.Time) ([]domain.Holiday, error)
	Delete(ctx context.Context, id int64) error
}

type templateStore interface {
	GetByKey(ctx context.Context, key domain.TemplateKey) (*domain.EmailTemplate, error)
	List(ctx context.Context) ([]domain.EmailTemplate, error)
	Save(ctx context.Context, t *domain.EmailTemplate) error
}

type promoStore interface {
	GetActiveByCode(ctx context.Context, code string) (*domain.PromoCode, error)
	Save(ctx context.Context, p *domain.PromoCode) error
}
