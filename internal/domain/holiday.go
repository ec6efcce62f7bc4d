package domain

import "time"

// Holiday is an explicit per-date override of the default weekday rule.
// IsHoliday=false lets an override un-mark a date the default rule would
// flag (a working Saturday, for example).
type Holiday struct {
	ID        int64     `json:"id"`
	Date      time.Time `json:"date"`
	Name      string    `json:"name"`
	IsHoliday bool      `json:"is_holiday"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
