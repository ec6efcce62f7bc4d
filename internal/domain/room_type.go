package domain

import "time"

type RoomType struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name" validate:"required"`
	DisplayName      string    `json:"display_name"`
	BasePrice        int       `json:"base_price" validate:"gte=0"`
	HolidaySurcharge int       `json:"holiday_surcharge" validate:"gte=0"`
	Active           bool      `json:"active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
