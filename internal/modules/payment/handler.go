package payment

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"guesthouse/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service *Service
	logger  *zap.Logger
}

func NewHandler(service *Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, logger: logger}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/payments/checkout/:code", h.Checkout)
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/payments/callback", h.ServerCallback)
	rg.Any("/payments/return", h.ClientReturn)
}

func (h *Handler) Checkout(c *gin.Context) {
	form, err := h.service.InitCheckout(c.Request.Context(), c.Param("code"))
	if err != nil {
		if errors.Is(err, ErrAlreadyPaid) {
			response.Error(c, http.StatusConflict, "ALREADY_PAID", err.Error())
			return
		}
		h.logger.Error("checkout init failed", zap.String("code", c.Param("code")), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "checkout init failed")
		return
	}
	response.Success(c, http.StatusOK, form)
}

// ServerCallback is the gateway's server-to-server notification. The
// response body must be exactly the ack literal the service computed;
// anything else and the gateway keeps retrying.
func (h *Handler) ServerCallback(c *gin.Context) {
	rawBody, _ := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(strings.NewReader(string(rawBody)))
	_ = c.Request.ParseForm()

	fields := collectFields(c)
	h.logger.Info("gateway server callback",
		zap.String("trade_no", fields["MerchantTradeNo"]),
		zap.String("raw_body", string(rawBody)))

	ack, err := h.service.HandleServerCallback(c.Request.Context(), fields, string(rawBody))
	if err != nil {
		h.logger.Warn("gateway callback processing",
			zap.String("trade_no", fields["MerchantTradeNo"]), zap.Error(err))
	}
	c.String(http.StatusOK, ack)
}

func (h *Handler) ClientReturn(c *gin.Context) {
	_ = c.Request.ParseForm()
	fields := collectFields(c)

	outcome, err := h.service.HandleClientReturn(c.Request.Context(), fields, c.Request.URL.RawQuery)
	if err != nil {
		if errors.Is(err, ErrInvalidSignature) || errors.Is(err, ErrAmountMismatch) {
			c.Data(http.StatusForbidden, "text/html; charset=utf-8",
				[]byte("<h1>Payment verification failed</h1><p>Please contact us with your booking code.</p>"))
			return
		}
		c.Data(http.StatusInternalServerError, "text/html; charset=utf-8",
			[]byte("<h1>Something went wrong</h1>"))
		return
	}

	if outcome.Paid {
		c.Data(http.StatusOK, "text/html; charset=utf-8",
			[]byte("<h1>Payment received</h1><p>Booking "+outcome.BookingCode+" is confirmed.</p>"))
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8",
		[]byte("<h1>Payment not completed</h1><p>"+outcome.Message+"</p>"))
}

func collectFields(c *gin.Context) map[string]string {
	fields := map[string]string{}
	for k, v := range c.Request.Form {
		if len(v) > 0 {
			fields[k] = v[0]
		}
	}
	for k, v := range c.Request.URL.Query() {
		if len(v) > 0 {
			fields[k] = v[0]
		}
	}
	return fields
}
