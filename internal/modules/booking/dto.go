package booking

import (
	"time"

	"guesthouse/internal/domain"
)

type CreateBookingRequest struct {
	CheckIn    time.Time `json:"check_in" binding:"required"`
	CheckOut   time.Time `json:"check_out" binding:"required"`
	GuestName  string    `json:"guest_name" binding:"required"`
	GuestPhone string    `json:"guest_phone" binding:"required"`
	GuestEmail string    `json:"guest_email" binding:"required,email"`
	RoomTypeID int64     `json:"room_type_id" binding:"required"`

	Addons    []domain.Addon       `json:"addons"`
	PromoCode string               `json:"promo_code"`
	Method    domain.PaymentMethod `json:"payment_method" binding:"required"`

	// QuotedTotal is the amount the client saw. Display hint only: the
	// engine recomputes and its figure is the one persisted.
	QuotedTotal int `json:"quoted_total"`
}

// UpdateBookingRequest is the admin field patch; nil means "leave unchanged".
type UpdateBookingRequest struct {
	CheckIn       *time.Time            `json:"check_in"`
	CheckOut      *time.Time            `json:"check_out"`
	GuestName     *string               `json:"guest_name"`
	GuestPhone    *string               `json:"guest_phone"`
	GuestEmail    *string               `json:"guest_email"`
	PaymentStatus *domain.PaymentStatus `json:"payment_status"`
	Status        *domain.BookingStatus `json:"status"`
}
