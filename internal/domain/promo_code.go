package domain

import "time"

type PromoCode struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code" validate:"required"`
	Discount  int       `json:"discount" validate:"gte=0"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
