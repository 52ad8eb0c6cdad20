package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Marga-Ghale/charge-tracker/internal/api/middleware"
	"github.com/Marga-Ghale/charge-tracker/internal/logger"
	"github.com/Marga-Ghale/charge-tracker/internal/models"
	"github.com/Marga-Ghale/charge-tracker/internal/service"
)

// ============================================
// Auth Handler
// ============================================

type AuthHandler struct {
	authService service.AuthService
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			logger.Errorf("[Auth] Login failed for %s: %v", req.Username, err)
		}
		c.JSON(status, gin.H{"error": "Authentication failed"})
		return
	}

	logger.Infof("[Auth] %s logged in", user.ID)
	c.JSON(http.StatusOK, models.TokenResponse{Token: token})
}

// Me returns the user behind the bearer token.
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.RequireUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, models.NewUserResponse(user))
}
