package payment

import (
	"context"
	"time"

	"guesthouse/internal/domain"
)

type paymentStore interface {
	Create(ctx context.Context, p *domain.GatewayPayment) error
	GetByTradeNo(ctx context.Context, tradeNo string) (*domain.GatewayPayment, error)
	MarkPaidIdempotent(ctx context.Context, tradeNo, rawBody string, paidAt time.Time) (bool, error)
	MarkFailed(ctx context.Context, tradeNo, rawBody, reason string) error
	SaveReturnRawBody(ctx context.Context, tradeNo, rawBody string) error
}

// bookingStateMachine is the slice of the booking service the adapter
// drives on verified callbacks.
type bookingStateMachine interface {
	GetByCode(ctx context.Context, code string) (*domain.Booking, error)
	MarkPaid(ctx context.Context, code string) (*domain.Booking, error)
}
