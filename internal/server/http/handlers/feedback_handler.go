package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/tableside/internal/server/http/dto"
)

// FeedbackHandler accepts customer feedback.
type FeedbackHandler struct {
	facade StaffFacade
}

// NewFeedbackHandler constructs FeedbackHandler.
func NewFeedbackHandler(facade StaffFacade) *FeedbackHandler {
	return &FeedbackHandler{facade: facade}
}

// Submit handles POST /api/feedback.
func (h *FeedbackHandler) Submit(c *gin.Context) {
	var req dto.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	fb, err := h.facade.SubmitFeedback(c.Request.Context(), req.ToModel())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fb)
}
