package domain

import "time"

type BookingStatus string

const (
	BookingReserved  BookingStatus = "reserved"
	BookingActive    BookingStatus = "active"
	BookingCancelled BookingStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

type PaymentMethod string

const (
	MethodTransfer PaymentMethod = "transfer"
	MethodCard     PaymentMethod = "card"
)

// Addon is a priced extra chosen at submission time. Label and price are
// snapshotted on the booking so later catalog edits do not rewrite history.
type Addon struct {
	Label string `json:"label"`
	Price int    `json:"price"`
}

type Booking struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`

	CheckIn  time.Time `json:"check_in"`
	CheckOut time.Time `json:"check_out"`

	GuestName  string `json:"guest_name"`
	GuestPhone string `json:"guest_phone"`
	GuestEmail string `json:"guest_email"`

	RoomTypeID int64  `json:"room_type_id"`
	RoomName   string `json:"room_name"`

	Addons    []Addon `json:"addons,omitempty"`
	PromoCode string  `json:"promo_code,omitempty"`

	// Pricing snapshot, always the engine's recomputed figures.
	PricePerNight int `json:"price_per_night"`
	Nights        int `json:"nights"`
	TotalAmount   int `json:"total_amount"`
	Discount      int `json:"discount"`
	FinalAmount   int `json:"final_amount"`

	PaymentMethod PaymentMethod `json:"payment_method"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	Status        BookingStatus `json:"status"`

	// Bank-transfer display info frozen at creation time.
	BankInfo string `json:"bank_info,omitempty"`

	// Outcome of the confirmation mail attempt; the booking itself is
	// persisted regardless.
	EmailSent bool `json:"email_sent"`

	PaymentReminderSent bool `json:"payment_reminder_sent"`
	CheckinReminderSent bool `json:"checkin_reminder_sent"`
	FeedbackRequestSent bool `json:"feedback_request_sent"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
}

// Expiry is the implicit hold deadline for a transfer booking.
func (b Booking) Expiry(reservedDays int) time.Time {
	return b.CreatedAt.Add(time.Duration(reservedDays) * 24 * time.Hour)
}
