package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Marga-Ghale/charge-tracker/internal/logger"
	"github.com/Marga-Ghale/charge-tracker/internal/models"
	"github.com/Marga-Ghale/charge-tracker/internal/service"
)

// ============================================
// User Handler
// ============================================

type UserHandler struct {
	userService service.UserService
}

// List returns every known user, for member pickers.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context())
	if err != nil {
		logger.Errorf("[Users] List failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	response := make([]models.UserResponse, len(users))
	for i, u := range users {
		response[i] = models.NewUserResponse(u)
	}
	c.JSON(http.StatusOK, response)
}

func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.userService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, models.NewUserResponse(user))
}
