package decorator

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

func (h *Handler) RegisterPublicRoutes(r gin.IRoutes) {
	r.GET("/best-decorators", h.Best)
	r.GET("/available-decorators", h.Available)
}

// RegisterProtectedRoutes expects Authenticate and RoleGuard.WithRole on r.
func (h *Handler) RegisterProtectedRoutes(r gin.IRoutes) {
	r.POST("/decorators", h.Apply)
}

// RegisterAdminRoutes expects Authenticate and the admin guard on r.
func (h *Handler) RegisterAdminRoutes(r gin.IRoutes) {
	r.GET("/decorators", h.List)
	r.PATCH("/decorators/:id", h.SetStatus)
	r.DELETE("/decorators/:id", h.Remove)
}

// Apply godoc
// @Summary      Apply as decorator
// @Tags         Decorators
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body body ApplyRequest true "Application"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Router       /decorators [post]
func (h *Handler) Apply(c *gin.Context) {
	var req ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	res, err := h.service.Apply(c.Request.Context(), middleware.Email(c), middleware.IsAdmin(c), req)
	if err != nil {
		if errors.Is(err, ErrAlreadyApplied) {
			response.Message(c, http.StatusOK, false, "already applied")
			return
		}
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

// List godoc
// @Summary      List decorator applications
// @Tags         Decorators
// @Security     BearerAuth
// @Produce      json
// @Param        status query string false "pending|approved|cancelled|removed"
// @Success      200  {object}  map[string]interface{}
// @Router       /decorators [get]
func (h *Handler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) Best(c *gin.Context) {
	items, err := h.service.Best(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) Available(c *gin.Context) {
	items, err := h.service.Available(c.Request.Context(), c.Query("speciality"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

// SetStatus godoc
// @Summary      Moderate decorator
// @Description  approved grants the decorator role, removed deletes the record and revokes it
// @Tags         Decorators
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path  int            true  "Decorator ID"
// @Param        body  body  StatusRequest  true  "New status"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /decorators/{id} [patch]
func (h *Handler) SetStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "status is required")
		return
	}
	res, err := h.service.SetStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *Handler) Remove(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	res, err := h.service.Remove(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid decorator ID")
		return 0, false
	}
	return id, true
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid application")
	case errors.Is(err, ErrInvalidStatus):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown decorator status")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "forbidden access")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Decorator not found")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
