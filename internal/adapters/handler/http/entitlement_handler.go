package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quizreel/engagement-engine/internal/adapters/handler/http/middleware"
	"github.com/quizreel/engagement-engine/internal/core/services"
)

type EntitlementHandler struct {
	svc *services.EntitlementService
}

func NewEntitlementHandler(svc *services.EntitlementService) *EntitlementHandler {
	return &EntitlementHandler{
		svc: svc,
	}
}

type consumeRequest struct {
	Feature string `json:"feature" binding:"required"`
}

type bonusRequest struct {
	Feature string `json:"feature" binding:"required"`
	Count   int    `json:"count" binding:"required,min=1"`
}

type plusRequest struct {
	Active *bool `json:"active" binding:"required"`
}

func (h *EntitlementHandler) RegisterRoutes(router *gin.RouterGroup) {
	entitlements := router.Group("/entitlements")
	{
		entitlements.GET("", h.Summary)
		entitlements.POST("/consume", h.Consume)
		entitlements.POST("/trial", h.StartTrial)
		entitlements.POST("/bonus", h.GrantBonus)
		entitlements.PUT("/plus", h.SetPlus)
	}

	router.POST("/activity", h.RecordActivity)
}

// Summary godoc
// @Summary  Subscription, trial and per-feature remaining uses
// @Tags     entitlements
// @Produce  json
// @Success  200 {object} domain.EntitlementSummary
// @Security BearerAuth
// @Router   /entitlements [get]
func (h *EntitlementHandler) Summary(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	summary, err := h.svc.Summary(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// Consume godoc
// @Summary  Spend one use of a rate-limited feature
// @Tags     entitlements
// @Accept   json
// @Produce  json
// @Param    body body consumeRequest true "feature to consume"
// @Security BearerAuth
// @Router   /entitlements/consume [post]
func (h *EntitlementHandler) Consume(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req consumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	granted, err := h.svc.ConsumeQuota(c.Request.Context(), userID, req.Feature)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	remaining, err := h.svc.Remaining(c.Request.Context(), userID, req.Feature)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	// quota exhaustion is a normal outcome, still 200
	c.JSON(http.StatusOK, gin.H{
		"granted":   granted,
		"remaining": remaining,
	})
}

// StartTrial godoc
// @Summary  Open the trial window if eligible
// @Tags     entitlements
// @Produce  json
// @Security BearerAuth
// @Router   /entitlements/trial [post]
func (h *EntitlementHandler) StartTrial(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	started, err := h.svc.StartTrial(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"started": started})
}

// GrantBonus godoc
// @Summary  Credit extra uses of a feature for today
// @Tags     entitlements
// @Accept   json
// @Produce  json
// @Param    body body bonusRequest true "bonus credit"
// @Security BearerAuth
// @Router   /entitlements/bonus [post]
func (h *EntitlementHandler) GrantBonus(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req bonusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.svc.GrantBonus(c.Request.Context(), userID, req.Feature, req.Count); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	remaining, err := h.svc.Remaining(c.Request.Context(), userID, req.Feature)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"remaining": remaining})
}

// SetPlus godoc
// @Summary  Store the subscription flag reported by the purchase backend
// @Tags     entitlements
// @Accept   json
// @Produce  json
// @Param    body body plusRequest true "subscription state"
// @Security BearerAuth
// @Router   /entitlements/plus [put]
func (h *EntitlementHandler) SetPlus(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req plusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.svc.SetPlus(c.Request.Context(), userID, *req.Active); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"plus": *req.Active})
}

// RecordActivity godoc
// @Summary  Count the user as active today
// @Tags     entitlements
// @Produce  json
// @Security BearerAuth
// @Router   /activity [post]
func (h *EntitlementHandler) RecordActivity(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	if err := h.svc.RecordDailyActivity(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"recorded": true})
}
