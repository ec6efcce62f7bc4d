package domain

import "time"

type GatewayPaymentStatus string

const (
	GatewayCreated GatewayPaymentStatus = "created"
	GatewayPaid    GatewayPaymentStatus = "paid"
	GatewayFailed  GatewayPaymentStatus = "failed"
)

// GatewayPayment is the ledger row for one outbound checkout attempt.
// TradeNo equals the booking code; raw callback bodies are kept for audit.
type GatewayPayment struct {
	ID            int64                `json:"id"`
	BookingCode   string               `json:"booking_code"`
	TradeNo       string               `json:"trade_no"`
	Amount        int                  `json:"amount"`
	Description   string               `json:"description"`
	Status        GatewayPaymentStatus `json:"status"`
	CheckValue    string               `json:"check_value"`
	ResultRawBody string               `json:"result_raw_body,omitempty"`
	ReturnRawBody string               `json:"return_raw_body,omitempty"`
	FailureReason string               `json:"failure_reason,omitempty"`
	PaidAt        *time.Time           `json:"paid_at,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}
