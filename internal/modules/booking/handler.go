package booking

import (
	"errors"
	"net/http"
	"strconv"

	"styledecor/internal/middleware"
	"styledecor/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterProtectedRoutes expects Authenticate and RoleGuard.WithRole on r.
func (h *Handler) RegisterProtectedRoutes(r gin.IRoutes) {
	r.POST("/bookings", h.Create)
	r.GET("/bookings", h.List)
	r.PATCH("/bookings/:id", h.Edit)
	r.DELETE("/bookings/:id", h.Delete)

	// paths used by older storefront builds
	r.PATCH("/bookings-update/:id", h.Edit)
	r.DELETE("/bookings-delete/:id", h.Delete)
}

// RegisterDecoratorRoutes expects Authenticate and the decorator guard on r.
func (h *Handler) RegisterDecoratorRoutes(r gin.IRoutes) {
	r.GET("/bookings/decorator", h.DecoratorBookings)
	r.GET("/bookings/decorator/today", h.TodaySchedule)
	r.GET("/bookings/decorator/earnings", h.Earnings)
	r.PATCH("/bookings/:id/status", h.ChangeStatus)
}

// RegisterAdminRoutes expects Authenticate and the admin guard on r.
func (h *Handler) RegisterAdminRoutes(r gin.IRoutes) {
	r.PATCH("/bookings/:id/assign", h.AssignDecorator)
}

func caller(c *gin.Context) Caller {
	return Caller{Email: middleware.Email(c), IsAdmin: middleware.IsAdmin(c)}
}

// Create godoc
// @Summary      Create booking
// @Description  Rejects a second booking of the same service, date and time by the same customer with a message
// @Tags         Bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body body CreateBookingRequest true "Booking"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]interface{}
// @Router       /bookings [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	res, err := h.service.Create(c.Request.Context(), caller(c), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

// List godoc
// @Summary      List customer bookings
// @Tags         Bookings
// @Security     BearerAuth
// @Produce      json
// @Param        email query string false "Customer email (defaults to the caller)"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]interface{}
// @Router       /bookings [get]
func (h *Handler) List(c *gin.Context) {
	items, err := h.service.ListForCustomer(c.Request.Context(), caller(c), c.Query("email"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) DecoratorBookings(c *gin.Context) {
	items, err := h.service.ListForDecorator(c.Request.Context(), caller(c), c.Query("email"), c.Query("status"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

// TodaySchedule godoc
// @Summary      Decorator's paid bookings for today
// @Tags         Bookings
// @Security     BearerAuth
// @Produce      json
// @Param        email query string false "Decorator email (defaults to the caller)"
// @Success      200  {object}  map[string]interface{}
// @Router       /bookings/decorator/today [get]
func (h *Handler) TodaySchedule(c *gin.Context) {
	items, err := h.service.TodayForDecorator(c.Request.Context(), caller(c), c.Query("email"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

// Earnings godoc
// @Summary      Decorator earnings
// @Tags         Bookings
// @Security     BearerAuth
// @Produce      json
// @Param        email query string false "Decorator email (defaults to the caller)"
// @Success      200  {object}  EarningsSummary
// @Router       /bookings/decorator/earnings [get]
func (h *Handler) Earnings(c *gin.Context) {
	sum, err := h.service.Earnings(c.Request.Context(), caller(c), c.Query("email"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, sum)
}

func (h *Handler) Edit(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req EditBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	res, err := h.service.Edit(c.Request.Context(), caller(c), id, req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

// AssignDecorator godoc
// @Summary      Assign decorator
// @Tags         Bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path  int                     true  "Booking ID"
// @Param        body  body  AssignDecoratorRequest  true  "Decorator"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /bookings/{id}/assign [patch]
func (h *Handler) AssignDecorator(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req AssignDecoratorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "decoratorId is required")
		return
	}
	res, err := h.service.AssignDecorator(c.Request.Context(), id, req.DecoratorID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

// ChangeStatus godoc
// @Summary      Update booking progress
// @Tags         Bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path  int                  true  "Booking ID"
// @Param        body  body  ChangeStatusRequest  true  "Status"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]interface{}
// @Router       /bookings/{id}/status [patch]
func (h *Handler) ChangeStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "status is required")
		return
	}
	res, err := h.service.ChangeStatus(c.Request.Context(), caller(c), id, req.Status)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	res, err := h.service.Delete(c.Request.Context(), caller(c), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking ID")
		return 0, false
	}
	return id, true
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrDuplicateSlot):
		response.Message(c, http.StatusOK, false, msgDuplicateSlot)
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking data")
	case errors.Is(err, ErrDecoratorNotApproved):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Decorator is not approved")
	case errors.Is(err, ErrBookingClosed):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Booking is already closed")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "forbidden access")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
	case errors.Is(err, ErrDecoratorNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Decorator not found")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
