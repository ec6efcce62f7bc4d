package notifier

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"guesthouse/internal/domain"
	"guesthouse/internal/repository"
)

type stubTemplateStore struct {
	templates map[domain.TemplateKey]*domain.EmailTemplate
}

func (s *stubTemplateStore) GetByKey(ctx context.Context, key domain.TemplateKey) (*domain.EmailTemplate, error) {
	tpl, ok := s.templates[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return tpl, nil
}

type recordingSender struct {
	to, subject, body string
	calls             int
	err               error
}

func (r *recordingSender) Send(to, subject, body string) error {
	r.calls++
	if r.err != nil {
		return r.err
	}
	r.to, r.subject, r.body = to, subject, body
	return nil
}

type failingTransport struct {
	name  string
	calls int
	err   error
}

func (f *failingTransport) Name() string { return f.name }

func (f *failingTransport) Send(to, subject, body string) error {
	f.calls++
	return f.err
}

func sampleBooking() *domain.Booking {
	return &domain.Booking{
		Code:        "ABCD1234",
		GuestName:   "Lin Mei",
		GuestEmail:  "lin.mei@example.com",
		RoomName:    "Sea View Double",
		CheckIn:     time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC),
		CheckOut:    time.Date(2026, 7, 12, 0, 0, 0, 0, time.UTC),
		Nights:      2,
		TotalAmount: 4500,
		FinalAmount: 4500,
		BankInfo:    "Bank 822, account 1234-5678",
		CreatedAt:   time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestSendTemplate_RendersVariables(t *testing.T) {
	store := &stubTemplateStore{templates: map[domain.TemplateKey]*domain.EmailTemplate{
		domain.TplConfirmation: {
			Key:     domain.TplConfirmation,
			Enabled: true,
			Subject: "Booking {{.BookingCode}} confirmed",
			Body:    "Dear {{.GuestName}}, {{.RoomName}} from {{.CheckIn}} to {{.CheckOut}}, total {{.FinalAmount}}. {{.BankInfo}} Pay before {{.ExpiryDate}}.",
		},
	}}
	mail := &recordingSender{}
	svc := NewService(store, mail, 3, nil)

	err := svc.SendTemplate(context.Background(), domain.TplConfirmation, sampleBooking())

	assert.NoError(t, err)
	assert.Equal(t, "lin.mei@example.com", mail.to)
	assert.Equal(t, "Booking ABCD1234 confirmed", mail.subject)
	assert.Contains(t, mail.body, "Dear Lin Mei")
	assert.Contains(t, mail.body, "2026-07-10")
	assert.Contains(t, mail.body, "total 4500")
	assert.Contains(t, mail.body, "Pay before 2026-07-04")
}

func TestSendTemplate_DisabledTemplateSkips(t *testing.T) {
	store := &stubTemplateStore{templates: map[domain.TemplateKey]*domain.EmailTemplate{
		domain.TplPaymentReminder: {Key: domain.TplPaymentReminder, Enabled: false, Subject: "s", Body: "b"},
	}}
	mail := &recordingSender{}
	svc := NewService(store, mail, 3, nil)

	err := svc.SendTemplate(context.Background(), domain.TplPaymentReminder, sampleBooking())

	assert.ErrorIs(t, err, ErrTemplateDisabled)
	assert.Zero(t, mail.calls)
}

func TestSendTemplate_UnknownTemplate(t *testing.T) {
	svc := NewService(&stubTemplateStore{}, &recordingSender{}, 3, nil)

	err := svc.SendTemplate(context.Background(), domain.TplFeedbackRequest, sampleBooking())

	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestSendTemplate_NoRecipient(t *testing.T) {
	svc := NewService(&stubTemplateStore{}, &recordingSender{}, 3, nil)

	b := sampleBooking()
	b.GuestEmail = "  "
	err := svc.SendTemplate(context.Background(), domain.TplConfirmation, b)

	assert.ErrorIs(t, err, ErrNoRecipient)
}

func TestSendTemplate_BadTemplateSyntax(t *testing.T) {
	store := &stubTemplateStore{templates: map[domain.TemplateKey]*domain.EmailTemplate{
		domain.TplConfirmation: {Key: domain.TplConfirmation, Enabled: true, Subject: "{{.Broken", Body: "b"},
	}}
	mail := &recordingSender{}
	svc := NewService(store, mail, 3, nil)

	err := svc.SendTemplate(context.Background(), domain.TplConfirmation, sampleBooking())

	assert.Error(t, err)
	assert.Zero(t, mail.calls)
}

func TestMailer_FallsBackInOrder(t *testing.T) {
	primary := &failingTransport{name: "primary", err: errors.New("connection refused")}
	backup := &failingTransport{name: "backup"}
	m := NewMailer(nil, primary, backup)

	err := m.Send("a@example.com", "subject", "body")

	assert.NoError(t, err)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, backup.calls)
}

func TestMailer_AllTransportsFail(t *testing.T) {
	primary := &failingTransport{name: "primary", err: errors.New("timeout")}
	backup := &failingTransport{name: "backup", err: errors.New("auth failed")}
	m := NewMailer(nil, primary, backup)

	err := m.Send("a@example.com", "subject", "body")

	assert.ErrorIs(t, err, ErrAllTransportsFailed)
}

func TestMailer_NoTransports(t *testing.T) {
	m := NewMailer(nil)

	assert.ErrorIs(t, m.Send("a@example.com", "s", "b"), ErrAllTransportsFailed)
}
