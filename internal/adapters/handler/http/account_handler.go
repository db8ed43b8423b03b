package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quizreel/engagement-engine/internal/adapters/handler/http/middleware"
	"github.com/quizreel/engagement-engine/internal/core/services"
)

// AccountHandler covers account-wide maintenance, currently the full
// engagement data reset.
type AccountHandler struct {
	streaks      *services.StreakService
	entitlements *services.EntitlementService
}

func NewAccountHandler(streaks *services.StreakService, entitlements *services.EntitlementService) *AccountHandler {
	return &AccountHandler{
		streaks:      streaks,
		entitlements: entitlements,
	}
}

func (h *AccountHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.DELETE("/account/data", h.ResetData)
}

// ResetData godoc
// @Summary  Erase all streak and entitlement state for the user
// @Tags     account
// @Produce  json
// @Security BearerAuth
// @Router   /account/data [delete]
func (h *AccountHandler) ResetData(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	if err := h.streaks.Reset(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	if err := h.entitlements.Reset(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reset": true})
}
