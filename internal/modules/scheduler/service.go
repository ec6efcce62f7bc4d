package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"guesthouse/internal/domain"
)

type bookingStore interface {
	ListPendingTransfersCreatedBetween(ctx context.Context, from, to time.Time) ([]domain.Booking, error)
	ListByCheckinBetween(ctx context.Context, from, to time.Time) ([]domain.Booking, error)
	ListActiveByCheckoutBetween(ctx context.Context, from, to time.Time) ([]domain.Booking, error)
	ListExpiredTransfers(ctx context.Context, createdBefore time.Time) ([]domain.Booking, error)
	SetSentFlag(ctx context.Context, code, flagColumn string) (bool, error)
}

type templateStore interface {
	GetByKey(ctx context.Context, key domain.TemplateKey) (*domain.EmailTemplate, error)
}

type mailSender interface {
	SendTemplate(ctx context.Context, key domain.TemplateKey, b *domain.Booking) error
}

// stateMachine is the booking-service slice the expiry sweep drives, so
// cancellations go through the same transition rules as everything else.
type stateMachine interface {
	GetByCode(ctx context.Context, code string) (*domain.Booking, error)
	Cancel(ctx context.Context, code string) (*domain.Booking, error)
}

type Config struct {
	ReservedDays int
	Location     *time.Location

	// SweepHour is the expiry sweep's firing hour; reminder jobs take
	// their hour from the stored template, falling back to DefaultHour.
	SweepHour   int
	DefaultHour int
}

// Service runs the four daily jobs. One goroutine per job sleeps until the
// job's next wall-clock firing; a shared mutex keeps jobs from interleaving
// when their hours collide.
type Service struct {
	bookings  bookingStore
	templates templateStore
	mail      mailSender
	machine   stateMachine
	cfg       Config
	clock     Clock
	logger    *zap.Logger

	mu   sync.Mutex
	stop chan struct{}
	wg   sync.WaitGroup
}

func NewService(bookings bookingStore, templates templateStore, mail mailSender, machine stateMachine, cfg Config, clock Clock, logger *zap.Logger) *Service {
	if clock == nil {
		clock = SystemClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Service{
		bookings:  bookings,
		templates: templates,
		mail:      mail,
		machine:   machine,
		cfg:       cfg,
		clock:     clock,
		logger:    logger,
		stop:      make(chan struct{}),
	}
}

func (s *Service) Start(ctx context.Context) {
	s.launch(ctx, "payment_reminders", s.hourForTemplate(domain.TplPaymentReminder), s.RunPaymentReminders)
	s.launch(ctx, "checkin_reminders", s.hourForTemplate(domain.TplCheckinReminder), s.RunCheckinReminders)
	s.launch(ctx, "feedback_requests", s.hourForTemplate(domain.TplFeedbackRequest), s.RunFeedbackRequests)
	s.launch(ctx, "expiry_sweep", func(context.Context) int { return s.cfg.SweepHour }, s.RunExpirySweep)
	s.logger.Info("scheduler started", zap.String("timezone", s.cfg.Location.String()))
}

func (s *Service) Stop() {
	close(s.stop)
	s.wg.Wait()
	s.logger.Info("scheduler stopped")
}

func (s *Service) launch(ctx context.Context, name string, hour func(context.Context) int, job func(context.Context, time.Time) error) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			now := s.clock.Now().In(s.cfg.Location)
			next := nextFire(now, hour(ctx))
			timer := time.NewTimer(next.Sub(now))
			select {
			case <-timer.C:
				s.runOnce(ctx, name, job)
			case <-s.stop:
				timer.Stop()
				return
			case <-ctx.Done():
				timer.Stop()
				return
			}
		}
	}()
}

func (s *Service) runOnce(ctx context.Context, name string, job func(context.Context, time.Time) error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now().In(s.cfg.Location)
	if err := job(ctx, now); err != nil {
		s.logger.Error("scheduled job failed", zap.String("job", name), zap.Error(err))
		return
	}
	s.logger.Info("scheduled job finished", zap.String("job", name))
}

// hourForTemplate re-reads the stored template on every scheduling round so
// admin edits to SendHour take effect without a restart.
func (s *Service) hourForTemplate(key domain.TemplateKey) func(context.Context) int {
	return func(ctx context.Context) int {
		tpl, err := s.templates.GetByKey(ctx, key)
		if err != nil {
			return s.cfg.DefaultHour
		}
		return tpl.SendHour
	}
}

func nextFire(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func dayStart(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}
