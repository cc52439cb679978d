package admin

import (
	"log"
	"net/http"

	"styledecor/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes expects Authenticate and the admin guard on admin.
func (h *Handler) RegisterRoutes(admin gin.IRoutes) {
	admin.GET("/admin/analytics", h.GetAnalytics)
	// alias kept for the first dashboard build
	admin.GET("/admin/statistics", h.GetAnalytics)
}

// GetAnalytics godoc
// @Summary      Platform analytics
// @Description  Total income over paid bookings, bookings per service and total booking count
// @Tags         Admin
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  AnalyticsResponse
// @Failure      403  {object}  map[string]interface{}
// @Router       /admin/analytics [get]
func (h *Handler) GetAnalytics(c *gin.Context) {
	out, err := h.service.Analytics(c.Request.Context())
	if err != nil {
		log.Printf("level=error msg=admin analytics failed err=%v", err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load analytics")
		return
	}
	response.Success(c, http.StatusOK, out)
}
