package admin

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"guesthouse/internal/domain"
	"guesthouse/internal/modules/booking"
	"guesthouse/internal/pkg/response"
	"guesthouse/internal/pkg/validator"
	"guesthouse/internal/repository"
)

type Handler struct {
	bookings    bookingService
	bookingList bookingLister
	roomTypes   roomTypeStore
	holidays    holidayStore
	templates   templateStore
	promos      promoStore
}

func NewHandler(bookings bookingService, bookingList bookingLister, roomTypes roomTypeStore, holidays holidayStore, templates templateStore, promos promoStore) *Handler {
	return &Handler{
		bookings:    bookings,
		bookingList: bookingList,
		roomTypes:   roomTypes,
		holidays:    holidays,
		templates:   templates,
		promos:      promos,
	}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/bookings", h.ListBookings)
	rg.GET("/bookings/:code", h.GetBooking)
	rg.PATCH("/bookings/:code", h.UpdateBooking)
	rg.DELETE("/bookings/:code", h.DeleteBooking)

	rg.GET("/room-types", h.ListRoomTypes)
	rg.POST("/room-types", h.CreateRoomType)
	rg.PUT("/room-types/:id", h.UpdateRoomType)
	rg.DELETE("/room-types/:id", h.DeleteRoomType)

	rg.GET("/holidays", h.ListHolidays)
	rg.PUT("/holidays", h.UpsertHoliday)
	rg.DELETE("/holidays/:id", h.DeleteHoliday)

	rg.GET("/templates", h.ListTemplates)
	rg.PUT("/templates/:key", h.UpdateTemplate)

	rg.GET("/promo-codes/:code", h.GetPromoCode)
	rg.POST("/promo-codes", h.SavePromoCode)
}

func (h *Handler) ListBookings(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	list, err := h.bookingList.ListAll(c.Request.Context(), limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal error")
		return
	}
	response.Success(c, http.StatusOK, list)
}

func (h *Handler) GetBooking(c *gin.Context) {
	b, err := h.bookings.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		writeBookingError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) UpdateBooking(c *gin.Context) {
	var req booking.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	b, err := h.bookings.Update(c.Request.Context(), c.Param("code"), req)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) DeleteBooking(c *gin.Context) {
	if err := h.bookings.Delete(c.Request.Context(), c.Param("code")); err != nil {
		writeBookingError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) ListRoomTypes(c *gin.Context) {
	list, err := h.roomTypes.List(c.Request.Context(), false)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal error")
		return
	}
	response.Success(c, http.StatusOK, list)
}

func (h *Handler) CreateRoomType(c *gin.Context) {
	var req roomTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	rt := &domain.RoomType{
		Name:             req.Name,
		DisplayName:      req.DisplayName,
		BasePrice:        req.BasePrice,
		HolidaySurcharge: req.HolidaySurcharge,
		Active:           req.Active == nil || *req.Active,
	}
	if fields := validator.Validate(rt); fields != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid room type", fields)
		return
	}
	if err := h.roomTypes.Create(c.Request.Context(), rt); err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal error")
		return
	}
	response.Success(c, http.StatusCreated, rt)
}

func (h *Handler) UpdateRoomType(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid id")
		return
	}
	var req roomTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	rt, err := h.roomTypes.GetByID(c.Request.Context(), id)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	rt.Name = req.Name
	rt.DisplayName = req.DisplayName
	rt.BasePrice = req.BasePrice
	rt.HolidaySurcharge = req.HolidaySurcharge
	if req.Active != nil {
		rt.Active = *req.Active
	}
	if fields := validator.Validate(rt); fields != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid room type", fields)
		return
	}
	if err := h.roomTypes.Update(c.Request.Context(), rt); err != nil {
		writeStoreError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rt)
}

func (h *Handler) DeleteRoomType(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid id")
		return
	}
	if err := h.roomTypes.Delete(c.Request.Context(), id); err != nil {
		writeStoreError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) ListHolidays(c *gin.Context) {
	from, err := parseDate(c.DefaultQuery("from", time.Now().Format("2006-01-02")))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid from")
		return
	}
	to, err := parseDate(c.DefaultQuery("to", from.AddDate(1, 0, 0).Format("2006-01-02")))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid to")
		return
	}

	list, err := h.holidays.ListBetween(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal error")
		return
	}
	response.Success(c, http.StatusOK, list)
}

func (h *Handler) UpsertHoliday(c *gin.Context) {
	var req holidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid date")
		return
	}

	holiday := &domain.Holiday{Date: date, Name: req.Name, IsHoliday: *req.IsHoliday}
	if err := h.holidays.Upsert(c.Request.Context(), holiday); err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal error")
		return
	}
	response.Success(c, http.StatusOK, holiday)
}

func (h *Handler) DeleteHoliday(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid id")
		return
	}
	if err := h.holidays.Delete(c.Request.Context(), id); err != nil {
		writeStoreError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) ListTemplates(c *gin.Context) {
	list, err := h.templates.List(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal error")
		return
	}
	response.Success(c, http.StatusOK, list)
}

func (h *Handler) UpdateTemplate(c *gin.Context) {
	var req templateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	tpl, err := h.templates.GetByKey(c.Request.Context(), domain.TemplateKey(c.Param("key")))
	if err != nil {
		writeStoreError(c, err)
		return
	}
	if req.Enabled != nil {
		tpl.Enabled = *req.Enabled
	}
	if req.Subject != nil {
		tpl.Subject = *req.Subject
	}
	if req.Body != nil {
		tpl.Body = *req.Body
	}
	if req.OffsetDays != nil {
		tpl.OffsetDays = *req.OffsetDays
	}
	if req.SendHour != nil {
		tpl.SendHour = *req.SendHour
	}
	if err := h.templates.Save(c.Request.Context(), tpl); err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal error")
		return
	}
	response.Success(c, http.StatusOK, tpl)
}

func (h *Handler) GetPromoCode(c *gin.Context) {
	p, err := h.promos.GetActiveByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		writeStoreError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

func (h *Handler) SavePromoCode(c *gin.Context) {
	var req promoCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	p := &domain.PromoCode{
		Code:     req.Code,
		Discount: req.Discount,
		Active:   req.Active == nil || *req.Active,
	}
	if fields := validator.Validate(p); fields != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid promo code", fields)
		return
	}
	if err := h.promos.Save(c.Request.Context(), p); err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal error")
		return
	}
	response.Success(c, http.StatusCreated, p)
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

func writeBookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, booking.ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, booking.ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, booking.ErrNotCancelled):
		response.Error(c, http.StatusConflict, "NOT_CANCELLED", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal error")
	}
}

func writeStoreError(c *gin.Context, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}
	response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal error")
}
