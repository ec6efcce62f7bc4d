package notifier

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"guesthouse/internal/domain"
	"guesthouse/internal/repository"
)

type templateStore interface {
	GetByKey(ctx context.Context, key domain.TemplateKey) (*domain.EmailTemplate, error)
}

type sender interface {
	Send(to, subject, body string) error
}

// Service renders a stored template for a booking and hands the result to
// the mailer. It satisfies the booking module's NotificationSender.
type Service struct {
	templates    templateStore
	mailer       sender
	reservedDays int
	logger       *zap.Logger
}

func NewService(templates templateStore, mailer sender, reservedDays int, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		templates:    templates,
		mailer:       mailer,
		reservedDays: reservedDays,
		logger:       logger,
	}
}

func (s *Service) SendTemplate(ctx context.Context, key domain.TemplateKey, b *domain.Booking) error {
	to := strings.TrimSpace(b.GuestEmail)
	if to == "" {
		return ErrNoRecipient
	}

	tpl, err := s.templates.GetByKey(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrTemplateNotFound, key)
		}
		return fmt.Errorf("load template %s: %w", key, err)
	}
	if !tpl.Enabled {
		s.logger.Debug("template disabled, skipping mail",
			zap.String("template", string(key)),
			zap.String("booking", b.Code))
		return ErrTemplateDisabled
	}

	vars := varsFromBooking(b, s.reservedDays)
	subject, err := render(string(key)+".subject", tpl.Subject, vars)
	if err != nil {
		return err
	}
	body, err := render(string(key)+".body", tpl.Body, vars)
	if err != nil {
		return err
	}

	if err := s.mailer.Send(to, subject, body); err != nil {
		return fmt.Errorf("deliver %s to %s: %w", key, to, err)
	}
	return nil
}
