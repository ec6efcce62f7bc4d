package booking

import (
	"context"
	"testing"
	"time"

	"guesthouse/internal/domain"
	"guesthouse/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// Mock stores

type MockBookingStore struct {
	mock.Mock
}

func (m *MockBookingStore) Create(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	if b != nil {
		b.ID = 999 // simulate DB insert
		b.CreatedAt = time.Now()
	}
	return args.Error(0)
}

func (m *MockBookingStore) GetByCode(ctx context.Context, code string) (*domain.Booking, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingStore) CountOverlapping(ctx context.Context, roomTypeID int64, checkIn, checkOut time.Time) (int64, error) {
	args := m.Called(ctx, roomTypeID, checkIn, checkOut)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBookingStore) MarkPaid(ctx context.Context, code string, paidAt time.Time) (bool, error) {
	args := m.Called(ctx, code, paidAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingStore) Cancel(ctx context.Context, code string, at time.Time) (bool, error) {
	args := m.Called(ctx, code, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingStore) UpdateFields(ctx context.Context, code string, fields map[string]interface{}) error {
	args := m.Called(ctx, code, fields)
	return args.Error(0)
}

func (m *MockBookingStore) DeleteCancelled(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

type MockRoomTypeStore struct {
	mock.Mock
}

func (m *MockRoomTypeStore) GetByID(ctx context.Context, id int64) (*domain.RoomType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RoomType), args.Error(1)
}

type MockHolidayStore struct {
	mock.Mock
}

func (m *MockHolidayStore) ListBetween(ctx context.Context, from, to time.Time) ([]domain.Holiday, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Holiday), args.Error(1)
}

type MockNotificationSender struct {
	mock.Mock
}

func (m *MockNotificationSender) SendTemplate(ctx context.Context, key domain.TemplateKey, b *domain.Booking) error {
	args := m.Called(ctx, key, b)
	return args.Error(0)
}

func testSettings() StaticSettings {
	return StaticSettings{
		DepositRate:     0.3,
		DepositEnabled:  false,
		ReservedDays:    3,
		BankInfo:        "First Bank 007-1234567",
		TransferEnabled: true,
		CardEnabled:     true,
		HolidayWeekdays: []time.Weekday{time.Friday, time.Saturday},
	}
}

func newTestService(bookings *MockBookingStore, roomTypes *MockRoomTypeStore, holidays *MockHolidayStore, notifs *MockNotificationSender) *Service {
	s := NewService(bookings, roomTypes, holidays, nil, notifs, testSettings(), nil)
	s.now = func() time.Time { return time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC) }
	return s
}

func TestService_Create_RecomputesTotals(t *testing.T) {
	bookings := new(MockBookingStore)
	roomTypes := new(MockRoomTypeStore)
	holidays := new(MockHolidayStore)
	notifs := new(MockNotificationSender)

	roomTypes.On("GetByID", mock.Anything, int64(1)).Return(&domain.RoomType{
		ID: 1, DisplayName: "Sea View Double", BasePrice: 2000, HolidaySurcharge: 500, Active: true,
	}, nil)
	holidays.On("ListBetween", mock.Anything, mock.Anything, mock.Anything).
		Return([]domain.Holiday{}, nil)
	bookings.On("CountOverlapping", mock.Anything, int64(1), mock.Anything, mock.Anything).
		Return(int64(0), nil)
	bookings.On("Create", mock.Anything, mock.Anything).Return(nil)
	bookings.On("UpdateFields", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	notifs.On("SendTemplate", mock.Anything, domain.TplConfirmation, mock.Anything).Return(nil)

	svc := newTestService(bookings, roomTypes, holidays, notifs)

	// Mon+Tue nights, no holidays. Client-submitted total is wrong on
	// purpose: the persisted figures must be the recomputed ones.
	b, err := svc.Create(context.Background(), CreateBookingRequest{
		CheckIn:     time.Date(2026, 6, 8, 0, 0, 0, 0, time.UTC),
		CheckOut:    time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC),
		GuestName:   "Lin Yu-ting",
		GuestPhone:  "0912345678",
		GuestEmail:  "lin@example.com",
		RoomTypeID:  1,
		Method:      domain.MethodTransfer,
		QuotedTotal: 123,
	})

	assert.NoError(t, err)
	assert.Equal(t, 4000, b.TotalAmount)
	assert.Equal(t, 4000, b.FinalAmount)
	assert.Equal(t, 2, b.Nights)
	assert.Equal(t, domain.BookingReserved, b.Status)
	assert.Equal(t, domain.PaymentPending, b.PaymentStatus)
	assert.Equal(t, "First Bank 007-1234567", b.BankInfo)
	assert.Len(t, b.Code, 8)
	assert.True(t, b.EmailSent)
}

func TestService_Create_MailFailureStillPersists(t *testing.T) {
	bookings := new(MockBookingStore)
	roomTypes := new(MockRoomTypeStore)
	holidays := new(MockHolidayStore)
	notifs := new(MockNotificationSender)

	roomTypes.On("GetByID", mock.Anything, int64(1)).Return(&domain.RoomType{
		ID: 1, BasePrice: 2000, Active: true,
	}, nil)
	holidays.On("ListBetween", mock.Anything, mock.Anything, mock.Anything).
		Return([]domain.Holiday{}, nil)
	bookings.On("CountOverlapping", mock.Anything, int64(1), mock.Anything, mock.Anything).
		Return(int64(0), nil)
	bookings.On("Create", mock.Anything, mock.Anything).Return(nil)
	notifs.On("SendTemplate", mock.Anything, domain.TplConfirmation, mock.Anything).
		Return(assert.AnError)

	svc := newTestService(bookings, roomTypes, holidays, notifs)

	b, err := svc.Create(context.Background(), CreateBookingRequest{
		CheckIn:    time.Date(2026, 6, 8, 0, 0, 0, 0, time.UTC),
		CheckOut:   time.Date(2026, 6, 9, 0, 0, 0, 0, time.UTC),
		GuestName:  "Chen",
		GuestPhone: "0911222333",
		GuestEmail: "chen@example.com",
		RoomTypeID: 1,
		Method:     domain.MethodTransfer,
	})

	assert.NoError(t, err)
	assert.False(t, b.EmailSent)
	// UpdateFields for email_sent must not have been called
	bookings.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Create_ValidationFailures(t *testing.T) {
	bookings := new(MockBookingStore)
	roomTypes := new(MockRoomTypeStore)
	holidays := new(MockHolidayStore)
	svc := newTestService(bookings, roomTypes, holidays, nil)

	base := CreateBookingRequest{
		CheckIn:    time.Date(2026, 6, 8, 0, 0, 0, 0, time.UTC),
		CheckOut:   time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC),
		GuestName:  "Lin",
		GuestPhone: "0912345678",
		GuestEmail: "lin@example.com",
		RoomTypeID: 1,
		Method:     domain.MethodTransfer,
	}

	missing := base
	missing.GuestName = "  "
	_, err := svc.Create(context.Background(), missing)
	assert.ErrorIs(t, err, ErrValidation)

	past := base
	past.CheckIn = time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	past.CheckOut = time.Date(2026, 5, 3, 0, 0, 0, 0, time.UTC)
	_, err = svc.Create(context.Background(), past)
	assert.ErrorIs(t, err, ErrValidation)

	inverted := base
	inverted.CheckOut = inverted.CheckIn
	_, err = svc.Create(context.Background(), inverted)
	assert.ErrorIs(t, err, ErrValidation)

	// nothing reached the store
	bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_Create_DisabledMethod(t *testing.T) {
	bookings := new(MockBookingStore)
	roomTypes := new(MockRoomTypeStore)
	holidays := new(MockHolidayStore)

	settings := testSettings()
	settings.CardEnabled = false
	svc := NewService(bookings, roomTypes, holidays, nil, nil, settings, nil)
	svc.now = func() time.Time { return time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC) }

	_, err := svc.Create(context.Background(), CreateBookingRequest{
		CheckIn:    time.Date(2026, 6, 8, 0, 0, 0, 0, time.UTC),
		CheckOut:   time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC),
		GuestName:  "Lin",
		GuestPhone: "0912345678",
		GuestEmail: "lin@example.com",
		RoomTypeID: 1,
		Method:     domain.MethodCard,
	})
	assert.ErrorIs(t, err, ErrMethodDisabled)
}

func TestService_Create_OverlapRejected(t *testing.T) {
	bookings := new(MockBookingStore)
	roomTypes := new(MockRoomTypeStore)
	holidays := new(MockHolidayStore)

	roomTypes.On("GetByID", mock.Anything, int64(1)).Return(&domain.RoomType{
		ID: 1, BasePrice: 2000, Active: true,
	}, nil)
	holidays.On("ListBetween", mock.Anything, mock.Anything, mock.Anything).
		Return([]domain.Holiday{}, nil)
	bookings.On("CountOverlapping", mock.Anything, int64(1), mock.Anything, mock.Anything).
		Return(int64(1), nil)

	svc := newTestService(bookings, roomTypes, holidays, nil)

	_, err := svc.Create(context.Background(), CreateBookingRequest{
		CheckIn:    time.Date(2026, 6, 8, 0, 0, 0, 0, time.UTC),
		CheckOut:   time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC),
		GuestName:  "Lin",
		GuestPhone: "0912345678",
		GuestEmail: "lin@example.com",
		RoomTypeID: 1,
		Method:     domain.MethodTransfer,
	})
	assert.ErrorIs(t, err, ErrNotAvailable)
	bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_MarkPaid_PromotesAndIsIdempotent(t *testing.T) {
	bookings := new(MockBookingStore)
	svc := newTestService(bookings, new(MockRoomTypeStore), new(MockHolidayStore), nil)

	reserved := &domain.Booking{Code: "ABCD1234", Status: domain.BookingReserved, PaymentStatus: domain.PaymentPending}
	paid := &domain.Booking{Code: "ABCD1234", Status: domain.BookingActive, PaymentStatus: domain.PaymentPaid}

	bookings.On("GetByCode", mock.Anything, "ABCD1234").Return(reserved, nil).Once()
	bookings.On("MarkPaid", mock.Anything, "ABCD1234", mock.Anything).Return(true, nil).Once()
	bookings.On("GetByCode", mock.Anything, "ABCD1234").Return(paid, nil)

	b, err := svc.MarkPaid(context.Background(), "ABCD1234")
	assert.NoError(t, err)
	assert.Equal(t, domain.BookingActive, b.Status)
	assert.Equal(t, domain.PaymentPaid, b.PaymentStatus)

	// Second call sees paid and does not touch the store again.
	b, err = svc.MarkPaid(context.Background(), "ABCD1234")
	assert.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, b.PaymentStatus)
	bookings.AssertNumberOfCalls(t, "MarkPaid", 1)
}

func TestService_MarkPaid_UnknownCode(t *testing.T) {
	bookings := new(MockBookingStore)
	svc := newTestService(bookings, new(MockRoomTypeStore), new(MockHolidayStore), nil)

	bookings.On("GetByCode", mock.Anything, "NOPE0000").Return(nil, repository.ErrNotFound)

	_, err := svc.MarkPaid(context.Background(), "NOPE0000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_Cancel_Idempotent(t *testing.T) {
	bookings := new(MockBookingStore)
	svc := newTestService(bookings, new(MockRoomTypeStore), new(MockHolidayStore), nil)

	live := &domain.Booking{Code: "ABCD1234", Status: domain.BookingReserved}
	gone := &domain.Booking{Code: "ABCD1234", Status: domain.BookingCancelled}

	bookings.On("GetByCode", mock.Anything, "ABCD1234").Return(live, nil).Once()
	bookings.On("Cancel", mock.Anything, "ABCD1234", mock.Anything).Return(true, nil).Once()
	bookings.On("GetByCode", mock.Anything, "ABCD1234").Return(gone, nil)

	b, err := svc.Cancel(context.Background(), "ABCD1234")
	assert.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, b.Status)

	b, err = svc.Cancel(context.Background(), "ABCD1234")
	assert.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, b.Status)
	bookings.AssertNumberOfCalls(t, "Cancel", 1)
}

func TestService_Update_PaidPromotesReserved(t *testing.T) {
	bookings := new(MockBookingStore)
	svc := newTestService(bookings, new(MockRoomTypeStore), new(MockHolidayStore), nil)

	reserved := &domain.Booking{Code: "ABCD1234", Status: domain.BookingReserved, PaymentStatus: domain.PaymentPending}
	promoted := &domain.Booking{Code: "ABCD1234", Status: domain.BookingActive, PaymentStatus: domain.PaymentPaid}

	bookings.On("GetByCode", mock.Anything, "ABCD1234").Return(reserved, nil).Once()
	bookings.On("MarkPaid", mock.Anything, "ABCD1234", mock.Anything).Return(true, nil)
	bookings.On("GetByCode", mock.Anything, "ABCD1234").Return(promoted, nil)

	paid := domain.PaymentPaid
	b, err := svc.Update(context.Background(), "ABCD1234", UpdateBookingRequest{PaymentStatus: &paid})
	assert.NoError(t, err)
	assert.Equal(t, domain.BookingActive, b.Status)
}

func TestService_Update_CancelledNeverReverts(t *testing.T) {
	bookings := new(MockBookingStore)
	svc := newTestService(bookings, new(MockRoomTypeStore), new(MockHolidayStore), nil)

	cancelled := &domain.Booking{Code: "ABCD1234", Status: domain.BookingCancelled}
	bookings.On("GetByCode", mock.Anything, "ABCD1234").Return(cancelled, nil)

	active := domain.BookingActive
	_, err := svc.Update(context.Background(), "ABCD1234", UpdateBookingRequest{Status: &active})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_Delete_OnlyCancelled(t *testing.T) {
	bookings := new(MockBookingStore)
	svc := newTestService(bookings, new(MockRoomTypeStore), new(MockHolidayStore), nil)

	bookings.On("GetByCode", mock.Anything, "LIVE0001").
		Return(&domain.Booking{Code: "LIVE0001", Status: domain.BookingActive}, nil)
	err := svc.Delete(context.Background(), "LIVE0001")
	assert.ErrorIs(t, err, ErrNotCancelled)

	bookings.On("GetByCode", mock.Anything, "DEAD0001").
		Return(&domain.Booking{Code: "DEAD0001", Status: domain.BookingCancelled}, nil)
	bookings.On("DeleteCancelled", mock.Anything, "DEAD0001").Return(true, nil)
	err = svc.Delete(context.Background(), "DEAD0001")
	assert.NoError(t, err)
}
