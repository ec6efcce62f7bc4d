package payment

// CheckoutForm is the outbound redirect payload: the browser posts Fields
// to Action, the gateway-hosted checkout page.
type CheckoutForm struct {
	Action string            `json:"action"`
	Fields map[string]string `json:"fields"`
}

// ReturnOutcome is the human-facing result of the browser redirect leg.
type ReturnOutcome struct {
	BookingCode string `json:"booking_code"`
	Paid        bool   `json:"paid"`
	Message     string `json:"message"`
}
