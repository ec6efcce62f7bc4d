package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"guesthouse/internal/domain"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) Now() time.Time { return f.t }

type fakeBookingStore struct {
	pendingTransfers []domain.Booking
	byCheckin        []domain.Booking
	byCheckout       []domain.Booking
	expired          []domain.Booking

	lastFrom, lastTo time.Time
	flagsSet         []string
}

func (f *fakeBookingStore) ListPendingTransfersCreatedBetween(ctx context.Context, from, to time.Time) ([]domain.Booking, error) {
	f.lastFrom, f.lastTo = from, to
	return f.pendingTransfers, nil
}

func (f *fakeBookingStore) ListByCheckinBetween(ctx context.Context, from, to time.Time) ([]domain.Booking, error) {
	f.lastFrom, f.lastTo = from, to
	return f.byCheckin, nil
}

func (f *fakeBookingStore) ListActiveByCheckoutBetween(ctx context.Context, from, to time.Time) ([]domain.Booking, error) {
	f.lastFrom, f.lastTo = from, to
	return f.byCheckout, nil
}

func (f *fakeBookingStore) ListExpiredTransfers(ctx context.Context, before time.Time) ([]domain.Booking, error) {
	return f.expired, nil
}

func (f *fakeBookingStore) SetSentFlag(ctx context.Context, code, flagColumn string) (bool, error) {
	f.flagsSet = append(f.flagsSet, code+":"+flagColumn)
	return true, nil
}

type fakeTemplateStore struct {
	templates map[domain.TemplateKey]*domain.EmailTemplate
}

func (f *fakeTemplateStore) GetByKey(ctx context.Context, key domain.TemplateKey) (*domain.EmailTemplate, error) {
	tpl, ok := f.templates[key]
	if !ok {
		return nil, errors.New("template not found")
	}
	return tpl, nil
}

type fakeMail struct {
	sent    []string
	failFor map[string]error
}

func (f *fakeMail) SendTemplate(ctx context.Context, key domain.TemplateKey, b *domain.Booking) error {
	if err, ok := f.failFor[b.Code]; ok {
		return err
	}
	f.sent = append(f.sent, b.Code+":"+string(key))
	return nil
}

type fakeMachine struct {
	bookings  map[string]*domain.Booking
	cancelled []string
}

func (f *fakeMachine) GetByCode(ctx context.Context, code string) (*domain.Booking, error) {
	b, ok := f.bookings[code]
	if !ok {
		return nil, errors.New("not found")
	}
	return b, nil
}

func (f *fakeMachine) Cancel(ctx context.Context, code string) (*domain.Booking, error) {
	f.cancelled = append(f.cancelled, code)
	f.bookings[code].Status = domain.BookingCancelled
	return f.bookings[code], nil
}

func enabledTemplates() *fakeTemplateStore {
	return &fakeTemplateStore{templates: map[domain.TemplateKey]*domain.EmailTemplate{
		domain.TplPaymentReminder: {Key: domain.TplPaymentReminder, Enabled: true, SendHour: 10},
		domain.TplCheckinReminder: {Key: domain.TplCheckinReminder, Enabled: true, OffsetDays: 1, SendHour: 9},
		domain.TplFeedbackRequest: {Key: domain.TplFeedbackRequest, Enabled: true, OffsetDays: 2, SendHour: 18},
	}}
}

var taipei = time.FixedZone("CST", 8*60*60)

func newTestScheduler(store *fakeBookingStore, templates *fakeTemplateStore, mail *fakeMail, machine *fakeMachine, now time.Time) *Service {
	return NewService(store, templates, mail, machine, Config{
		ReservedDays: 3,
		Location:     taipei,
		SweepHour:    1,
		DefaultHour:  10,
	}, &fakeClock{t: now}, nil)
}

func TestRunPaymentReminders_SelectsDeadlineDay(t *testing.T) {
	now := time.Date(2026, 6, 10, 10, 0, 0, 0, taipei)
	store := &fakeBookingStore{pendingTransfers: []domain.Booking{
		{Code: "AAAA1111"},
		{Code: "BBBB2222", PaymentReminderSent: true},
	}}
	mail := &fakeMail{}
	svc := newTestScheduler(store, enabledTemplates(), mail, &fakeMachine{}, now)

	err := svc.RunPaymentReminders(context.Background(), now)

	assert.NoError(t, err)
	// Holds created 3 days ago expire today.
	assert.Equal(t, time.Date(2026, 6, 7, 0, 0, 0, 0, taipei), store.lastFrom)
	assert.Equal(t, time.Date(2026, 6, 8, 0, 0, 0, 0, taipei), store.lastTo)
	assert.Equal(t, []string{"AAAA1111:payment_reminder"}, mail.sent)
	assert.Equal(t, []string{"AAAA1111:payment_reminder_sent"}, store.flagsSet)
}

func TestRunPaymentReminders_SecondRunSameDayIsNoop(t *testing.T) {
	now := time.Date(2026, 6, 10, 10, 0, 0, 0, taipei)
	store := &fakeBookingStore{pendingTransfers: []domain.Booking{
		{Code: "AAAA1111", PaymentReminderSent: true},
	}}
	mail := &fakeMail{}
	svc := newTestScheduler(store, enabledTemplates(), mail, &fakeMachine{}, now)

	assert.NoError(t, svc.RunPaymentReminders(context.Background(), now))
	assert.Empty(t, mail.sent)
	assert.Empty(t, store.flagsSet)
}

func TestRunCheckinReminders_OffsetWindow(t *testing.T) {
	now := time.Date(2026, 6, 10, 9, 0, 0, 0, taipei)
	store := &fakeBookingStore{byCheckin: []domain.Booking{{Code: "CCCC3333"}}}
	mail := &fakeMail{}
	svc := newTestScheduler(store, enabledTemplates(), mail, &fakeMachine{}, now)

	err := svc.RunCheckinReminders(context.Background(), now)

	assert.NoError(t, err)
	assert.Equal(t, time.Date(2026, 6, 11, 0, 0, 0, 0, taipei), store.lastFrom)
	assert.Equal(t, time.Date(2026, 6, 12, 0, 0, 0, 0, taipei), store.lastTo)
	assert.Equal(t, []string{"CCCC3333:checkin_reminder"}, mail.sent)
}

func TestRunFeedbackRequests_LooksBack(t *testing.T) {
	now := time.Date(2026, 6, 10, 18, 0, 0, 0, taipei)
	store := &fakeBookingStore{byCheckout: []domain.Booking{{Code: "DDDD4444"}}}
	mail := &fakeMail{}
	svc := newTestScheduler(store, enabledTemplates(), mail, &fakeMachine{}, now)

	err := svc.RunFeedbackRequests(context.Background(), now)

	assert.NoError(t, err)
	assert.Equal(t, time.Date(2026, 6, 8, 0, 0, 0, 0, taipei), store.lastFrom)
	assert.Equal(t, []string{"DDDD4444:feedback_request"}, mail.sent)
}

func TestRun_DisabledTemplateSkipsBatch(t *testing.T) {
	templates := enabledTemplates()
	templates.templates[domain.TplCheckinReminder].Enabled = false
	store := &fakeBookingStore{byCheckin: []domain.Booking{{Code: "CCCC3333"}}}
	mail := &fakeMail{}
	svc := newTestScheduler(store, templates, mail, &fakeMachine{}, time.Now())

	assert.NoError(t, svc.RunCheckinReminders(context.Background(), time.Now()))
	assert.Empty(t, mail.sent)
}

func TestDispatch_FailureDoesNotStopBatchOrSetFlag(t *testing.T) {
	now := time.Date(2026, 6, 10, 10, 0, 0, 0, taipei)
	store := &fakeBookingStore{pendingTransfers: []domain.Booking{
		{Code: "AAAA1111"},
		{Code: "BBBB2222"},
	}}
	mail := &fakeMail{failFor: map[string]error{"AAAA1111": errors.New("smtp down")}}
	svc := newTestScheduler(store, enabledTemplates(), mail, &fakeMachine{}, now)

	err := svc.RunPaymentReminders(context.Background(), now)

	assert.NoError(t, err)
	assert.Equal(t, []string{"BBBB2222:payment_reminder"}, mail.sent)
	// The failed candidate keeps its flag clear so the next run retries it.
	assert.Equal(t, []string{"BBBB2222:payment_reminder_sent"}, store.flagsSet)
}

func TestRunExpirySweep_CancelsPendingSkipsPaid(t *testing.T) {
	now := time.Date(2026, 6, 10, 1, 0, 0, 0, taipei)
	store := &fakeBookingStore{expired: []domain.Booking{
		{Code: "AAAA1111", PaymentStatus: domain.PaymentPending},
		{Code: "BBBB2222", PaymentStatus: domain.PaymentPending},
	}}
	machine := &fakeMachine{bookings: map[string]*domain.Booking{
		"AAAA1111": {Code: "AAAA1111", Status: domain.BookingReserved, PaymentStatus: domain.PaymentPending},
		// Paid via a gateway callback after the candidate query ran.
		"BBBB2222": {Code: "BBBB2222", Status: domain.BookingActive, PaymentStatus: domain.PaymentPaid},
	}}
	svc := newTestScheduler(store, enabledTemplates(), &fakeMail{}, machine, now)

	err := svc.RunExpirySweep(context.Background(), now)

	assert.NoError(t, err)
	assert.Equal(t, []string{"AAAA1111"}, machine.cancelled)
	assert.Equal(t, domain.BookingActive, machine.bookings["BBBB2222"].Status)
}

func TestNextFire(t *testing.T) {
	now := time.Date(2026, 6, 10, 9, 30, 0, 0, taipei)

	assert.Equal(t, time.Date(2026, 6, 10, 10, 0, 0, 0, taipei), nextFire(now, 10))
	assert.Equal(t, time.Date(2026, 6, 11, 9, 0, 0, 0, taipei), nextFire(now, 9))
}
