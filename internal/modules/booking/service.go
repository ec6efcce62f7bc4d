package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"guesthouse/internal/domain"
	"guesthouse/internal/modules/pricing"
	"guesthouse/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service struct {
	bookings  BookingStore
	roomTypes RoomTypeStore
	holidays  HolidayStore
	promos    PromoStore
	notifs    NotificationSender
	settings  SettingsSource
	logger    *zap.Logger

	roomLocks *roomLocks
	now       func() time.Time
}

func NewService(
	bookings BookingStore,
	roomTypes RoomTypeStore,
	holidays HolidayStore,
	promos PromoStore,
	notifs NotificationSender,
	settings SettingsSource,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		bookings:  bookings,
		roomTypes: roomTypes,
		holidays:  holidays,
		promos:    promos,
		notifs:    notifs,
		settings:  settings,
		logger:    logger,
		roomLocks: newRoomLocks(),
		now:       time.Now,
	}
}

// Quote recomputes the authoritative price for a date range without touching
// any booking state.
func (s *Service) Quote(ctx context.Context, roomTypeID int64, checkIn, checkOut time.Time, addons []domain.Addon, promoCode string) (*pricing.Quote, error) {
	cfg := s.settings.Current()

	rt, err := s.roomTypes.GetByID(ctx, roomTypeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoomTypeNotFound
		}
		return nil, err
	}

	discount, err := s.resolveDiscount(ctx, promoCode)
	if err != nil {
		return nil, err
	}

	overrides, err := s.holidays.ListBetween(ctx, checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	q, err := pricing.Compute(pricing.QuoteRequest{
		CheckIn:      checkIn,
		CheckOut:     checkOut,
		RoomType:     *rt,
		Calendar:     pricing.NewCalendar(overrides, cfg.HolidayWeekdays),
		Addons:       addons,
		Discount:     discount,
		ApplyDeposit: cfg.DepositEnabled,
		DepositRate:  cfg.DepositRate,
	})
	if err != nil {
		if errors.Is(err, pricing.ErrInvalidRange) {
			return nil, ErrValidation
		}
		return nil, err
	}
	return q, nil
}

func (s *Service) Create(ctx context.Context, req CreateBookingRequest) (*domain.Booking, error) {
	if strings.TrimSpace(req.GuestName) == "" ||
		strings.TrimSpace(req.GuestPhone) == "" ||
		strings.TrimSpace(req.GuestEmail) == "" {
		return nil, ErrValidation
	}

	cfg := s.settings.Current()
	if !cfg.MethodEnabled(req.Method) {
		return nil, ErrMethodDisabled
	}

	today := dateOnly(s.now())
	checkIn := dateOnly(req.CheckIn)
	checkOut := dateOnly(req.CheckOut)
	if !checkOut.After(checkIn) || checkIn.Before(today.AddDate(0, 0, 1)) {
		return nil, ErrValidation
	}

	rt, err := s.roomTypes.GetByID(ctx, req.RoomTypeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoomTypeNotFound
		}
		return nil, err
	}
	if !rt.Active {
		return nil, ErrRoomTypeNotFound
	}

	q, err := s.Quote(ctx, req.RoomTypeID, checkIn, checkOut, req.Addons, req.PromoCode)
	if err != nil {
		return nil, err
	}
	if req.QuotedTotal > 0 && req.QuotedTotal != q.TotalAmount {
		s.logger.Warn("client quote drifted from recomputed total",
			zap.Int("client_total", req.QuotedTotal),
			zap.Int("recomputed_total", q.TotalAmount))
	}

	b := &domain.Booking{
		Code:          newBookingCode(),
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		GuestName:     strings.TrimSpace(req.GuestName),
		GuestPhone:    strings.TrimSpace(req.GuestPhone),
		GuestEmail:    strings.TrimSpace(req.GuestEmail),
		RoomTypeID:    rt.ID,
		RoomName:      rt.DisplayName,
		Addons:        req.Addons,
		PromoCode:     req.PromoCode,
		PricePerNight: q.AveragePerNight,
		Nights:        q.Nights,
		TotalAmount:   q.TotalAmount,
		Discount:      q.Discount,
		FinalAmount:   q.FinalAmount,
		PaymentMethod: req.Method,
		PaymentStatus: domain.PaymentPending,
		Status:        domain.BookingReserved,
	}
	if req.Method == domain.MethodTransfer {
		b.BankInfo = cfg.BankInfo
	}

	// Hold the per-room-type lock across check and insert so two concurrent
	// submissions for overlapping ranges cannot both pass the check.
	unlock := s.roomLocks.lock(rt.ID)
	n, err := s.bookings.CountOverlapping(ctx, rt.ID, checkIn, checkOut)
	if err != nil {
		unlock()
		return nil, err
	}
	if n > 0 {
		unlock()
		return nil, ErrNotAvailable
	}
	err = s.bookings.Create(ctx, b)
	unlock()
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateBooking) {
			return nil, ErrNotAvailable
		}
		return nil, err
	}

	// Confirmation mail is best-effort. The booking exists either way; the
	// caller reads EmailSent to decide whether to tell the guest to contact
	// support.
	if s.notifs != nil {
		if err := s.notifs.SendTemplate(ctx, domain.TplConfirmation, b); err != nil {
			s.logger.Error("confirmation mail failed",
				zap.String("booking", b.Code), zap.Error(err))
		} else {
			b.EmailSent = true
			if uerr := s.bookings.UpdateFields(ctx, b.Code, map[string]interface{}{"email_sent": true}); uerr != nil {
				s.logger.Error("failed to persist email_sent flag",
					zap.String("booking", b.Code), zap.Error(uerr))
			}
		}
	}

	return b, nil
}

// MarkPaid is idempotent: a booking already paid is returned unchanged and
// no side effects run. reserved bookings are promoted to active.
func (s *Service) MarkPaid(ctx context.Context, code string) (*domain.Booking, error) {
	b, err := s.get(ctx, code)
	if err != nil {
		return nil, err
	}
	if b.PaymentStatus == domain.PaymentPaid {
		return b, nil
	}

	changed, err := s.bookings.MarkPaid(ctx, code, s.now().UTC())
	if err != nil {
		return nil, err
	}
	if !changed {
		s.logger.Info("mark paid raced with another writer, already paid",
			zap.String("booking", code))
	}
	return s.get(ctx, code)
}

// Cancel is idempotent; cancelled is terminal.
func (s *Service) Cancel(ctx context.Context, code string) (*domain.Booking, error) {
	b, err := s.get(ctx, code)
	if err != nil {
		return nil, err
	}
	if b.Status == domain.BookingCancelled {
		return b, nil
	}

	if _, err := s.bookings.Cancel(ctx, code, s.now().UTC()); err != nil {
		return nil, err
	}
	return s.get(ctx, code)
}

// Update applies an admin field patch. Setting payment_status=paid on a
// reserved booking promotes it to active; a cancelled booking never leaves
// cancelled.
func (s *Service) Update(ctx context.Context, code string, req UpdateBookingRequest) (*domain.Booking, error) {
	b, err := s.get(ctx, code)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.CheckIn != nil {
		fields["check_in"] = dateOnly(*req.CheckIn)
	}
	if req.CheckOut != nil {
		fields["check_out"] = dateOnly(*req.CheckOut)
	}
	if req.GuestName != nil {
		fields["guest_name"] = *req.GuestName
	}
	if req.GuestPhone != nil {
		fields["guest_phone"] = *req.GuestPhone
	}
	if req.GuestEmail != nil {
		fields["guest_email"] = *req.GuestEmail
	}

	if req.Status != nil && *req.Status != b.Status {
		switch {
		case b.Status == domain.BookingCancelled:
			return nil, ErrValidation
		case *req.Status == domain.BookingCancelled:
			if _, err := s.bookings.Cancel(ctx, code, s.now().UTC()); err != nil {
				return nil, err
			}
		case b.Status == domain.BookingReserved && *req.Status == domain.BookingActive:
			fields["status"] = string(domain.BookingActive)
		default:
			return nil, ErrValidation
		}
	}

	if req.PaymentStatus != nil && *req.PaymentStatus != b.PaymentStatus {
		if *req.PaymentStatus != domain.PaymentPaid {
			// paid is terminal, pending cannot be restored
			return nil, ErrValidation
		}
		if _, err := s.bookings.MarkPaid(ctx, code, s.now().UTC()); err != nil {
			return nil, err
		}
		delete(fields, "status")
	}

	if len(fields) > 0 {
		if err := s.bookings.UpdateFields(ctx, code, fields); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
	}
	return s.get(ctx, code)
}

// Delete removes a booking permanently; only cancelled bookings qualify.
func (s *Service) Delete(ctx context.Context, code string) error {
	b, err := s.get(ctx, code)
	if err != nil {
		return err
	}
	if b.Status != domain.BookingCancelled {
		return ErrNotCancelled
	}
	ok, err := s.bookings.DeleteCancelled(ctx, code)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *Service) GetByCode(ctx context.Context, code string) (*domain.Booking, error) {
	return s.get(ctx, code)
}

func (s *Service) get(ctx context.Context, code string) (*domain.Booking, error) {
	b, err := s.bookings.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (s *Service) resolveDiscount(ctx context.Context, promoCode string) (int, error) {
	if promoCode == "" || s.promos == nil {
		return 0, nil
	}
	p, err := s.promos.GetActiveByCode(ctx, promoCode)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, ErrValidation
		}
		return 0, err
	}
	return p.Discount, nil
}

// newBookingCode derives a short unique code from a v4 uuid.
func newBookingCode() string {
	return strings.ToUpper(uuid.NewString()[:8])
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
