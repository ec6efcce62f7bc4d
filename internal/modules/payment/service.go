package payment

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"guesthouse/internal/domain"

	"go.uber.org/zap"
)

const (
	// rtnCodeSuccess is the gateway's return code for a completed payment.
	rtnCodeSuccess = "1"
	// ackOK is the literal body the server-to-server endpoint must answer
	// with, or the gateway retries the callback indefinitely.
	ackOK = "1|OK"
	// ackBadCheckValue tells the gateway its callback failed verification.
	ackBadCheckValue = "0|CheckMacValueError"
)

type Config struct {
	MerchantID  string
	CheckoutURL string
	ReturnURL   string
	ClientBack  string
}

type Service struct {
	signer   *Signer
	payments paymentStore
	bookings bookingStateMachine
	cfg      Config
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(signer *Signer, payments paymentStore, bookings bookingStateMachine, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		signer:   signer,
		payments: payments,
		bookings: bookings,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// InitCheckout builds the signed redirect payload for a booking and records
// the attempt in the payment ledger.
func (s *Service) InitCheckout(ctx context.Context, bookingCode string) (*CheckoutForm, error) {
	b, err := s.bookings.GetByCode(ctx, bookingCode)
	if err != nil {
		return nil, fmt.Errorf("booking check failed: %w", err)
	}
	if b.PaymentStatus == domain.PaymentPaid {
		return nil, ErrAlreadyPaid
	}

	desc := fmt.Sprintf("Room booking %s", b.Code)
	fields := map[string]string{
		"MerchantID":        s.cfg.MerchantID,
		"MerchantTradeNo":   b.Code,
		"MerchantTradeDate": s.now().Format("2006/01/02 15:04:05"),
		"PaymentType":       "aio",
		"TotalAmount":       strconv.Itoa(b.FinalAmount),
		"TradeDesc":         desc,
		"ItemName":          b.RoomName,
		"ReturnURL":         s.cfg.ReturnURL,
		"ClientBackURL":     s.cfg.ClientBack,
		"ChoosePayment":     "Credit",
		"EncryptType":       "1",
	}
	fields[checkValueField] = s.signer.CheckValue(fields)

	p := &domain.GatewayPayment{
		BookingCode: b.Code,
		TradeNo:     b.Code,
		Amount:      b.FinalAmount,
		Description: desc,
		Status:      domain.GatewayCreated,
		CheckValue:  fields[checkValueField],
	}
	if err := s.payments.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("save payment failed: %w", err)
	}

	return &CheckoutForm{Action: s.cfg.CheckoutURL, Fields: fields}, nil
}

// HandleServerCallback processes the gateway's server-to-server
// notification. The returned ack is the exact response body: verification
// failure answers the gateway's error literal; once a callback verifies,
// the answer is always 1|OK no matter what happens internally, because
// retrying cannot fix an internal fault and duplicate callbacks are no-ops
// anyway.
func (s *Service) HandleServerCallback(ctx context.Context, fields map[string]string, rawBody string) (string, error) {
	tradeNo := fields["MerchantTradeNo"]
	if !s.signer.Verify(fields) {
		s.logger.Warn("gateway callback failed verification",
			zap.String("trade_no", tradeNo))
		if tradeNo != "" {
			_ = s.payments.MarkFailed(ctx, tradeNo, rawBody, "invalid check value")
		}
		return ackBadCheckValue, ErrInvalidSignature
	}

	if fields["RtnCode"] != rtnCodeSuccess {
		// Verified failure outcome: record it, touch nothing else.
		s.logger.Info("gateway reported failed payment",
			zap.String("trade_no", tradeNo),
			zap.String("rtn_code", fields["RtnCode"]),
			zap.String("rtn_msg", fields["RtnMsg"]))
		_ = s.payments.MarkFailed(ctx, tradeNo, rawBody, "RtnCode="+fields["RtnCode"])
		return ackOK, nil
	}

	p, err := s.payments.GetByTradeNo(ctx, tradeNo)
	if err != nil {
		s.logger.Error("gateway callback for unknown trade",
			zap.String("trade_no", tradeNo), zap.Error(err))
		return ackOK, nil
	}
	if amt, aerr := strconv.Atoi(fields["TradeAmt"]); aerr != nil || amt != p.Amount {
		s.logger.Error("gateway callback amount mismatch",
			zap.String("trade_no", tradeNo),
			zap.String("callback_amount", fields["TradeAmt"]),
			zap.Int("expected_amount", p.Amount))
		_ = s.payments.MarkFailed(ctx, tradeNo, rawBody,
			fmt.Sprintf("amount mismatch callback=%s expected=%d", fields["TradeAmt"], p.Amount))
		return ackOK, ErrAmountMismatch
	}

	changed, err := s.payments.MarkPaidIdempotent(ctx, tradeNo, rawBody, s.now().UTC())
	if err != nil {
		s.logger.Error("failed to mark payment paid",
			zap.String("trade_no", tradeNo), zap.Error(err))
		return ackOK, nil
	}
	if !changed {
		s.logger.Info("duplicate gateway callback, already paid",
			zap.String("trade_no", tradeNo))
	}

	if _, err := s.bookings.MarkPaid(ctx, p.BookingCode); err != nil {
		s.logger.Error("failed to mark booking paid",
			zap.String("booking", p.BookingCode), zap.Error(err))
	}
	return ackOK, nil
}

// HandleClientReturn processes the browser-redirect leg. Same verification
// routine as the server callback; the outcome feeds a human-facing page.
func (s *Service) HandleClientReturn(ctx context.Context, fields map[string]string, rawBody string) (*ReturnOutcome, error) {
	tradeNo := fields["MerchantTradeNo"]
	if tradeNo != "" {
		if err := s.payments.SaveReturnRawBody(ctx, tradeNo, rawBody); err != nil {
			s.logger.Error("failed to save return raw body",
				zap.String("trade_no", tradeNo), zap.Error(err))
		}
	}

	if !s.signer.Verify(fields) {
		return nil, ErrInvalidSignature
	}

	if fields["RtnCode"] != rtnCodeSuccess {
		return &ReturnOutcome{BookingCode: tradeNo, Paid: false, Message: fields["RtnMsg"]}, nil
	}

	p, err := s.payments.GetByTradeNo(ctx, tradeNo)
	if err != nil {
		return nil, err
	}
	if amt, aerr := strconv.Atoi(fields["TradeAmt"]); aerr != nil || amt != p.Amount {
		return nil, ErrAmountMismatch
	}

	if _, err := s.payments.MarkPaidIdempotent(ctx, tradeNo, rawBody, s.now().UTC()); err != nil {
		return nil, err
	}
	if _, err := s.bookings.MarkPaid(ctx, p.BookingCode); err != nil {
		s.logger.Error("failed to mark booking paid on client return",
			zap.String("booking", p.BookingCode), zap.Error(err))
	}
	return &ReturnOutcome{BookingCode: p.BookingCode, Paid: true, Message: "payment completed"}, nil
}
