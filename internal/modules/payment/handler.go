package payment

import (
	"errors"
	"net/http"

	"styledecor/internal/middleware"
	"styledecor/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
	loggerf func(format string, args ...interface{})
}

func NewHandler(service *Service, loggerf func(format string, args ...interface{})) *Handler {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Handler{service: service, loggerf: loggerf}
}

// RegisterProtectedRoutes expects Authenticate and RoleGuard.WithRole on r.
func (h *Handler) RegisterProtectedRoutes(r gin.IRoutes) {
	r.POST("/payment-checkout-session", h.CreateCheckout)
	r.GET("/payment-history", h.History)
}

// RegisterPublicRoutes serves the storefront's return from the hosted checkout.
func (h *Handler) RegisterPublicRoutes(r gin.IRoutes) {
	r.PATCH("/payment-success", h.Settle)
}

// CreateCheckout godoc
// @Summary      Open a hosted checkout for a booking
// @Tags         Payments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body body CheckoutRequest true "Checkout payload"
// @Success      200 {object} CheckoutResponse
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Router       /payment-checkout-session [post]
func (h *Handler) CreateCheckout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.loggerf("level=error msg=invalid checkout payload err=%v", err)
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	resp, err := h.service.CreateCheckout(c.Request.Context(), middleware.Email(c), middleware.IsAdmin(c), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Settle godoc
// @Summary      Settle a finished checkout
// @Description  Idempotent per transaction: repeated calls return the original tracking id
// @Tags         Payments
// @Produce      json
// @Param        session_id query string true "Checkout session id"
// @Success      200 {object} map[string]interface{}
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Router       /payment-success [patch]
func (h *Handler) Settle(c *gin.Context) {
	sessionID := c.Query("session_id")
	h.loggerf("level=info msg=settlement request session_id=%s", sessionID)

	res, err := h.service.Settle(c.Request.Context(), sessionID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	switch {
	case res.AlreadyPaid:
		c.JSON(http.StatusOK, gin.H{"alreadyPaid": true, "trackingId": res.TrackingID})
	case res.Paid:
		c.JSON(http.StatusOK, gin.H{
			"success":       true,
			"trackingId":    res.TrackingID,
			"transactionId": res.TransactionID,
			"bookingResult": res.BookingResult,
			"paymentResult": res.PaymentResult,
		})
	default:
		c.JSON(http.StatusOK, gin.H{"success": false})
	}
}

// History godoc
// @Summary      Caller's payment receipts
// @Tags         Payments
// @Security     BearerAuth
// @Produce      json
// @Param        email query string false "Customer email (defaults to the caller)"
// @Success      200 {object} map[string]interface{}
// @Failure      403 {object} ErrorResponse
// @Router       /payment-history [get]
func (h *Handler) History(c *gin.Context) {
	items, err := h.service.History(c.Request.Context(), middleware.Email(c), middleware.IsAdmin(c), c.Query("email"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "forbidden access")
	case errors.Is(err, ErrBookingNotFound), errors.Is(err, ErrSessionNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrBookingAlreadyPaid), errors.Is(err, ErrSettlementInProgress):
		response.Message(c, http.StatusOK, false, err.Error())
	case errors.Is(err, ErrProvider):
		h.loggerf("level=error msg=checkout provider failed err=%v", err)
		response.Error(c, http.StatusBadGateway, "PROVIDER_ERROR", "payment provider unavailable")
	default:
		h.loggerf("level=error msg=payment request failed err=%v", err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
