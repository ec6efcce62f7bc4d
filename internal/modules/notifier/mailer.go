package notifier

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Mailer walks an ordered transport chain and stops at the first success.
type Mailer struct {
	transports []Transport
	logger     *zap.Logger
}

func NewMailer(logger *zap.Logger, transports ...Transport) *Mailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mailer{transports: transports, logger: logger}
}

func (m *Mailer) Send(to, subject, body string) error {
	if len(m.transports) == 0 {
		return ErrAllTransportsFailed
	}

	var errs []error
	for _, tr := range m.transports {
		err := tr.Send(to, subject, body)
		if err == nil {
			m.logger.Info("mail sent",
				zap.String("transport", tr.Name()),
				zap.String("to", to))
			return nil
		}
		m.logger.Warn("mail transport failed, trying next",
			zap.String("transport", tr.Name()),
			zap.String("to", to),
			zap.Error(err))
		errs = append(errs, fmt.Errorf("%s: %w", tr.Name(), err))
	}
	return fmt.Errorf("%w: %s", ErrAllTransportsFailed, errors.Join(errs...))
}
