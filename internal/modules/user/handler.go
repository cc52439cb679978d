package user

import (
	"errors"
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

func (h *Handler) RegisterPublicRoutes(r gin.IRoutes) {
	r.POST("/users", h.Register)
}

func (h *Handler) RegisterProtectedRoutes(r gin.IRoutes) {
	r.GET("/users/role/:email", h.GetRole)
}

// Register godoc
// @Summary      Register user
// @Description  Idempotent on email: an existing user is left untouched
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        body body RegisterRequest true "User"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Router       /users [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	res, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrUserExists) {
			response.Message(c, http.StatusOK, false, msgUserExists)
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to register user")
		return
	}

	response.Success(c, http.StatusOK, res)
}

// GetRole godoc
// @Summary      Get user role
// @Tags         Users
// @Security     BearerAuth
// @Produce      json
// @Param        email path string true "Email"
// @Success      200  {object}  RoleResponse
// @Failure      401  {object}  map[string]interface{}
// @Router       /users/role/{email} [get]
func (h *Handler) GetRole(c *gin.Context) {
	role, err := h.service.Role(c.Request.Context(), c.Param("email"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load role")
		return
	}
	response.Success(c, http.StatusOK, RoleResponse{Role: string(role)})
}
