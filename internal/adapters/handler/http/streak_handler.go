package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quizreel/engagement-engine/internal/adapters/handler/http/middleware"
	"github.com/quizreel/engagement-engine/internal/core/services"
)

type StreakHandler struct {
	svc *services.StreakService
}

func NewStreakHandler(svc *services.StreakService) *StreakHandler {
	return &StreakHandler{
		svc: svc,
	}
}

type answerRequest struct {
	Correct *bool `json:"correct" binding:"required"`
}

func (h *StreakHandler) RegisterRoutes(router *gin.RouterGroup) {
	streaks := router.Group("/streaks")
	{
		streaks.GET("", h.Summary)
		streaks.POST("/play", h.RegisterPlay)
		streaks.POST("/answer", h.RegisterAnswer)
	}
}

// Summary godoc
// @Summary  Current streaks and today's quiz status
// @Tags     streaks
// @Produce  json
// @Success  200 {object} domain.StreakSummary
// @Security BearerAuth
// @Router   /streaks [get]
func (h *StreakHandler) Summary(c *gin.Context) {
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

// RegisterPlay godoc
// @Summary  Count today's play action
// @Tags     streaks
// @Produce  json
// @Success  200 {object} domain.StreakSummary
// @Security BearerAuth
// @Router   /streaks/play [post]
func (h *StreakHandler) RegisterPlay(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	summary, err := h.svc.RegisterPlay(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// RegisterAnswer godoc
// @Summary  Score the one daily answer
// @Tags     streaks
// @Accept   json
// @Produce  json
// @Param    body body answerRequest true "answer outcome"
// @Success  200 {object} services.AnswerOutcome
// @Security BearerAuth
// @Router   /streaks/answer [post]
func (h *StreakHandler) RegisterAnswer(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// A locked day comes back as accepted:false in the body, not as an
	// HTTP error: re-answering is a normal business outcome.
	outcome, err := h.svc.RegisterAnswer(c.Request.Context(), userID, *req.Correct)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, outcome)
}
