package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/tableside/internal/server/http/dto"
)

// MenuHandler serves catalog endpoints.
type MenuHandler struct {
	facade MenuFacade
}

// NewMenuHandler constructs MenuHandler.
func NewMenuHandler(facade MenuFacade) *MenuHandler {
	return &MenuHandler{facade: facade}
}

// List handles GET /api/menu.
func (h *MenuHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.facade.Menu(c.Query("category"), c.Query("q")))
}

// Categories handles GET /api/menu/categories.
func (h *MenuHandler) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, h.facade.Categories())
}

// Get handles GET /api/menu/:id.
func (h *MenuHandler) Get(c *gin.Context) {
	item, err := h.facade.MenuItem(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Recommendations handles GET /api/menu/:id/recommendations.
func (h *MenuHandler) Recommendations(c *gin.Context) {
	items, err := h.facade.Recommendations(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// Estimate handles POST /api/estimate.
func (h *MenuHandler) Estimate(c *gin.Context) {
	var req dto.EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	minutes, err := h.facade.Estimate(dto.ToLineItems(req.Items))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.EstimateResponse{EstimatedTime: minutes})
}
