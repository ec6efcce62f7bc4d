package domain

import "time"

type TemplateKey string

const (
	TplConfirmation    TemplateKey = "confirmation"
	TplPaymentReminder TemplateKey = "payment_reminder"
	TplCheckinReminder TemplateKey = "checkin_reminder"
	TplFeedbackRequest TemplateKey = "feedback_request"
)

// EmailTemplate holds a mail subject/body pair with substitution variables
// plus the timing knobs the scheduler reads for the reminder templates.
type EmailTemplate struct {
	ID      int64       `json:"id"`
	Key     TemplateKey `json:"key"`
	Enabled bool        `json:"enabled"`
	Subject string      `json:"subject"`
	Body    string      `json:"body"`

	// OffsetDays is interpreted per key: days before check-in for
	// checkin_reminder, days after check-out for feedback_request.
	OffsetDays int `json:"offset_days"`
	SendHour   int `json:"send_hour"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
