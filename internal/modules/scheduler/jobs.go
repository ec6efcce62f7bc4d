package scheduler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"guesthouse/internal/domain"
)

// RunPaymentReminders mails reserved+pending transfer bookings whose hold
// deadline lands on the current day.
func (s *Service) RunPaymentReminders(ctx context.Context, now time.Time) error {
	tpl, err := s.templates.GetByKey(ctx, domain.TplPaymentReminder)
	if err != nil {
		return fmt.Errorf("load payment reminder template: %w", err)
	}
	if !tpl.Enabled {
		return nil
	}

	from := dayStart(now, s.cfg.Location).AddDate(0, 0, -s.cfg.ReservedDays)
	list, err := s.bookings.ListPendingTransfersCreatedBetween(ctx, from, from.AddDate(0, 0, 1))
	if err != nil {
		return fmt.Errorf("list payment reminder candidates: %w", err)
	}

	for i := range list {
		b := &list[i]
		if b.PaymentReminderSent {
			continue
		}
		s.dispatch(ctx, domain.TplPaymentReminder, b, "payment_reminder_sent")
	}
	return nil
}

// RunCheckinReminders mails bookings whose check-in is OffsetDays ahead.
func (s *Service) RunCheckinReminders(ctx context.Context, now time.Time) error {
	tpl, err := s.templates.GetByKey(ctx, domain.TplCheckinReminder)
	if err != nil {
		return fmt.Errorf("load checkin reminder template: %w", err)
	}
	if !tpl.Enabled {
		return nil
	}

	from := dayStart(now, s.cfg.Location).AddDate(0, 0, tpl.OffsetDays)
	list, err := s.bookings.ListByCheckinBetween(ctx, from, from.AddDate(0, 0, 1))
	if err != nil {
		return fmt.Errorf("list checkin reminder candidates: %w", err)
	}

	for i := range list {
		b := &list[i]
		if b.CheckinReminderSent {
			continue
		}
		s.dispatch(ctx, domain.TplCheckinReminder, b, "checkin_reminder_sent")
	}
	return nil
}

// RunFeedbackRequests mails active bookings whose check-out was OffsetDays ago.
func (s *Service) RunFeedbackRequests(ctx context.Context, now time.Time) error {
	tpl, err := s.templates.GetByKey(ctx, domain.TplFeedbackRequest)
	if err != nil {
		return fmt.Errorf("load feedback request template: %w", err)
	}
	if !tpl.Enabled {
		return nil
	}

	from := dayStart(now, s.cfg.Location).AddDate(0, 0, -tpl.OffsetDays)
	list, err := s.bookings.ListActiveByCheckoutBetween(ctx, from, from.AddDate(0, 0, 1))
	if err != nil {
		return fmt.Errorf("list feedback request candidates: %w", err)
	}

	for i := range list {
		b := &list[i]
		if b.FeedbackRequestSent {
			continue
		}
		s.dispatch(ctx, domain.TplFeedbackRequest, b, "feedback_request_sent")
	}
	return nil
}

// RunExpirySweep cancels transfer bookings whose hold deadline has passed
// and that are still unpaid. Cancellation goes through the state machine;
// a booking paid between the query and the cancel is left alone.
func (s *Service) RunExpirySweep(ctx context.Context, now time.Time) error {
	cutoff := now.Add(-time.Duration(s.cfg.ReservedDays) * 24 * time.Hour)
	list, err := s.bookings.ListExpiredTransfers(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("list expired transfers: %w", err)
	}

	for i := range list {
		code := list[i].Code
		current, err := s.machine.GetByCode(ctx, code)
		if err != nil {
			s.logger.Error("expiry sweep: booking lookup failed",
				zap.String("booking", code), zap.Error(err))
			continue
		}
		if current.PaymentStatus == domain.PaymentPaid {
			continue
		}
		if _, err := s.machine.Cancel(ctx, code); err != nil {
			s.logger.Error("expiry sweep: cancel failed",
				zap.String("booking", code), zap.Error(err))
			continue
		}
		s.logger.Info("expired reservation cancelled",
			zap.String("booking", code),
			zap.Time("created_at", current.CreatedAt))
	}
	return nil
}

// dispatch sends one reminder and records the sent-flag only on success, so
// a failed delivery is retried on the next run. Failures never stop the
// rest of the batch.
func (s *Service) dispatch(ctx context.Context, key domain.TemplateKey, b *domain.Booking, flagColumn string) {
	if err := s.mail.SendTemplate(ctx, key, b); err != nil {
		s.logger.Error("reminder dispatch failed",
			zap.String("template", string(key)),
			zap.String("booking", b.Code),
			zap.Error(err))
		return
	}
	if _, err := s.bookings.SetSentFlag(ctx, b.Code, flagColumn); err != nil {
		s.logger.Error("failed to record sent flag",
			zap.String("template", string(key)),
			zap.String("booking", b.Code),
			zap.Error(err))
	}
}
