package admin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"guesthouse/internal/domain"
	"guesthouse/internal/modules/booking"
	"guesthouse/internal/repository"
)

type fakeBookingService struct {
	deleted []string
	delErr  error
}

func (f *fakeBookingService) GetByCode(ctx context.Context, code string) (*domain.Booking, error) {
	return nil, booking.ErrNotFound
}

func (f *fakeBookingService) Update(ctx context.Context, code string, req booking.UpdateBookingRequest) (*domain.Booking, error) {
	return nil, booking.ErrNotFound
}

func (f *fakeBookingService) Delete(ctx context.Context, code string) error {
	if f.delErr != nil {
		return f.delErr
	}
	f.deleted = append(f.deleted, code)
	return nil
}

type fakeTemplates struct {
	tpl   *domain.EmailTemplate
	saved *domain.EmailTemplate
}

func (f *fakeTemplates) GetByKey(ctx context.Context, key domain.TemplateKey) (*domain.EmailTemplate, error) {
	if f.tpl == nil || f.tpl.Key != key {
		return nil, repository.ErrNotFound
	}
	cp := *f.tpl
	return &cp, nil
}

func (f *fakeTemplates) List(ctx context.Context) ([]domain.EmailTemplate, error) {
	if f.tpl == nil {
		return nil, nil
	}
	return []domain.EmailTemplate{*f.tpl}, nil
}

func (f *fakeTemplates) Save(ctx context.Context, t *domain.EmailTemplate) error {
	f.saved = t
	return nil
}

type fakeHolidays struct {
	upserted *domain.Holiday
}

func (f *fakeHolidays) Upsert(ctx context.Context, h *domain.Holiday) error {
	f.upserted = h
	return nil
}

func (f *fakeHolidays) ListBetween(ctx context.Context, from, to time.Time) ([]domain.Holiday, error) {
	return nil, nil
}

func (f *fakeHolidays) Delete(ctx context.Context, id int64) error { return nil }

func newTestRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h.RegisterRoutes(r.Group("/admin"))
	return r
}

func TestUpdateTemplate_PatchesOnlyProvidedFields(t *testing.T) {
	templates := &fakeTemplates{tpl: &domain.EmailTemplate{
		ID: 3, Key: domain.TplCheckinReminder, Enabled: true,
		Subject: "old subject", Body: "old body", OffsetDays: 1, SendHour: 9,
	}}
	h := NewHandler(&fakeBookingService{}, nil, nil, nil, templates, nil)
	r := newTestRouter(h)

	body := `{"send_hour": 8, "subject": "new subject"}`
	req := httptest.NewRequest(http.MethodPut, "/admin/templates/checkin_reminder", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "new subject", templates.saved.Subject)
	assert.Equal(t, 8, templates.saved.SendHour)
	assert.Equal(t, "old body", templates.saved.Body)
	assert.Equal(t, 1, templates.saved.OffsetDays)
}

func TestUpdateTemplate_UnknownKey(t *testing.T) {
	h := NewHandler(&fakeBookingService{}, nil, nil, nil, &fakeTemplates{}, nil)
	r := newTestRouter(h)

	req := httptest.NewRequest(http.MethodPut, "/admin/templates/nope", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpsertHoliday_ParsesDate(t *testing.T) {
	holidays := &fakeHolidays{}
	h := NewHandler(&fakeBookingService{}, nil, nil, holidays, &fakeTemplates{}, nil)
	r := newTestRouter(h)

	body := `{"date": "2026-10-10", "name": "National Day", "is_holiday": true}`
	req := httptest.NewRequest(http.MethodPut, "/admin/holidays", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, time.Date(2026, 10, 10, 0, 0, 0, 0, time.UTC), holidays.upserted.Date)
	assert.True(t, holidays.upserted.IsHoliday)
}

func TestDeleteBooking_OnlyCancelledRule(t *testing.T) {
	svc := &fakeBookingService{delErr: booking.ErrNotCancelled}
	h := NewHandler(svc, nil, nil, nil, &fakeTemplates{}, nil)
	r := newTestRouter(h)

	req := httptest.NewRequest(http.MethodDelete, "/admin/bookings/ABCD1234", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDeleteBooking_OK(t *testing.T) {
	svc := &fakeBookingService{}
	h := NewHandler(svc, nil, nil, nil, &fakeTemplates{}, nil)
	r := newTestRouter(h)

	req := httptest.NewRequest(http.MethodDelete, "/admin/bookings/ABCD1234", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"ABCD1234"}, svc.deleted)
}
