package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"styledecor/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestAuthenticate_ValidToken(t *testing.T) {
	// Arrange
	jwtService := jwt.New("test-secret-123", time.Hour)
	validToken, _ := jwtService.GenerateToken("Ann@Test.com")

	router := gin.New()
	router.Use(Authenticate(jwtService))
	router.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"email": Email(c)})
	})

	// Act
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+validToken)
	router.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ann@test.com")
}

func TestAuthenticate_Rejects(t *testing.T) {
	jwtService := jwt.New("secret", time.Hour)
	foreign, _ := jwt.New("other-secret", time.Hour).GenerateToken("a@test.com")

	cases := map[string]string{
		"no header":     "",
		"wrong scheme":  "Basic dGVzdA==",
		"empty token":   "Bearer ",
		"garbage token": "Bearer invalid-jwt-here",
		"wrong secret":  "Bearer " + foreign,
	}

	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			router := gin.New()
			router.Use(Authenticate(jwtService))
			router.GET("/protected", func(c *gin.Context) {
				t.Fatal("handler should not be reached")
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
		})
	}
}
