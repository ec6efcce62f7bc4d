package booking

import (
	"errors"
	"net/http"
	"time"

	"guesthouse/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings", h.Create)
	rg.GET("/bookings/:code", h.Get)
	rg.GET("/quote", h.Quote)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	b, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	// email_sent=false tells the caller the booking exists but the
	// confirmation mail did not go out.
	response.Success(c, http.StatusCreated, b)
}

func (h *Handler) Get(c *gin.Context) {
	b, err := h.service.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) Quote(c *gin.Context) {
	var q struct {
		RoomTypeID int64  `form:"room_type_id" binding:"required"`
		CheckIn    string `form:"check_in" binding:"required"`
		CheckOut   string `form:"check_out" binding:"required"`
		PromoCode  string `form:"promo_code"`
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	checkIn, err := time.Parse("2006-01-02", q.CheckIn)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid check_in")
		return
	}
	checkOut, err := time.Parse("2006-01-02", q.CheckOut)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid check_out")
		return
	}

	quote, err := h.service.Quote(c.Request.Context(), q.RoomTypeID, checkIn, checkOut, nil, q.PromoCode)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, quote)
}

func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrMethodDisabled):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrRoomTypeNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrNotAvailable):
		response.Error(c, http.StatusConflict, "NOT_AVAILABLE", err.Error())
	case errors.Is(err, ErrNotCancelled):
		response.Error(c, http.StatusConflict, "NOT_CANCELLED", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal error")
	}
}
