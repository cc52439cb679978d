package catalog

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
	r.GET("/featured-services", h.Featured)
	r.GET("/all-services", h.Search)
	r.GET("/services/:id", h.Get)
}

// RegisterAdminRoutes expects Authenticate and the admin guard on r.
func (h *Handler) RegisterAdminRoutes(r gin.IRoutes) {
	r.POST("/services", h.Create)
	r.PATCH("/services/:id", h.Update)
	r.DELETE("/services/:id", h.Delete)
}

// Featured godoc
// @Summary      Featured services
// @Tags         Services
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /featured-services [get]
func (h *Handler) Featured(c *gin.Context) {
	items, err := h.service.Featured(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

// Search godoc
// @Summary      Search services
// @Tags         Services
// @Produce      json
// @Param        searchText   query  string  false  "Name contains (case-insensitive)"
// @Param        serviceType  query  string  false  "Category"
// @Param        minBudget    query  number  false  "Minimum cost"
// @Param        maxBudget    query  number  false  "Maximum cost"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Router       /all-services [get]
func (h *Handler) Search(c *gin.Context) {
	q := SearchQuery{
		SearchText:  c.Query("searchText"),
		ServiceType: c.Query("serviceType"),
	}

	var err error
	if q.MinBudget, err = parseBudget(c.Query("minBudget")); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "minBudget must be a number")
		return
	}
	if q.MaxBudget, err = parseBudget(c.Query("maxBudget")); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "maxBudget must be a number")
		return
	}

	items, err := h.service.Search(c.Request.Context(), q)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	svc, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, svc)
}

// Create godoc
// @Summary      Create service
// @Tags         Services
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body body CreateServiceRequest true "Service"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]interface{}
// @Router       /services [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	res, err := h.service.Create(c.Request.Context(), middleware.Email(c), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, res)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	res, err := h.service.Update(c.Request.Context(), id, req)
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
	res, err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid service ID")
		return 0, false
	}
	return id, true
}

func parseBudget(raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid service data")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Service not found")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
