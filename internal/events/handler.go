package events

import (
	"log"
	"net/http"
	"strings"

	"styledecor/internal/pkg/jwt"
	"styledecor/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type TokenVerifier interface {
	Verify(token string) (*jwt.Identity, error)
}

type Handler struct {
	hub      *Hub
	verifier TokenVerifier
}

func NewHandler(hub *Hub, verifier TokenVerifier) *Handler {
	return &Handler{hub: hub, verifier: verifier}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/ws/bookings", h.Bookings)
}

// Bookings godoc
// @Summary      Live booking feed
// @Description  WebSocket stream of booking and payment events for the caller. Browsers pass the token as ?token=.
// @Tags         Events
// @Success      101
// @Failure      401  {object}  map[string]interface{}
// @Router       /ws/bookings [get]
func (h *Handler) Bookings(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		token = strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))
	}
	if token == "" {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized access")
		return
	}

	id, err := h.verifier.Verify(token)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized access")
		return
	}

	email := strings.ToLower(id.Email)
	if err := h.hub.Serve(c.Writer, c.Request, email); err != nil {
		log.Printf("level=warn msg=ws_upgrade_failed email=%s err=%v", email, err)
	}
}
